// internal/service/order/application/service.go
package application

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tienda/internal/pkg/logger"
	"tienda/internal/pkg/metrics"
	"tienda/internal/pkg/money"
	"tienda/internal/service/order/domain"
	"tienda/internal/service/order/port"
)

// OrderService 编排订单生命周期：创建、状态流转、支付状态与查询。
// 优惠与积分通过出站端口接入，createOrder 流程里二者都是尽力而为：
// 券校验失败照常下单（无折扣），积分授予失败只记日志，绝不反过来让订单失败。
type OrderService struct {
	orderRepo domain.OrderRepository
	coupons   port.CouponValidator
	loyalty   port.PointsGranter
	events    port.EventPublisher
	tracer    trace.Tracer
}

// NewOrderService 创建订单服务。events 可以为 nil（测试或无消息场景）。
func NewOrderService(
	orderRepo domain.OrderRepository,
	coupons port.CouponValidator,
	loyalty port.PointsGranter,
	events port.EventPublisher,
	tracer trace.Tracer,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		coupons:   coupons,
		loyalty:   loyalty,
		events:    events,
		tracer:    tracer,
	}
}

// CreateOrder 执行结账命令：校验行项目、套用优惠券、落库、核销券、授予积分。
// 唯一致命的失败是订单本身落库失败；券与积分的副作用失败都不会回滚订单。
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	ctx, span := s.tracer.Start(ctx, "service.CreateOrder")
	defer span.End()
	span.SetAttributes(attribute.String("customer.id", req.CustomerID))

	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, in := range req.Items {
		items = append(items, domain.OrderItem{
			ProductID: in.ProductID,
			Name:      in.Name,
			Image:     in.Image,
			Section:   in.Section,
			UnitPrice: in.UnitPrice,
			Quantity:  money.Quantity(in.Quantity),
		})
	}

	order, err := domain.NewOrder(req.CustomerID, items, req.ShippingCost, req.PaymentMethod)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	// 券校验失败不阻断结账：订单按无折扣继续，是否拦截由展示层决定。
	if req.CouponCode != "" {
		discount, err := s.coupons.Validate(ctx, req.CouponCode, order.Subtotal)
		if err != nil {
			span.AddEvent("Coupon rejected, order proceeds without discount.")
			logger.Ctx(ctx).Warn().
				Str("coupon_code", req.CouponCode).
				Err(err).
				Msg("coupon rejected during checkout")
		} else {
			order.ApplyDiscount(req.CouponCode, discount)
		}
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist order")
		return nil, err
	}
	span.SetAttributes(
		attribute.String("order.id", order.ID.String()),
		attribute.Int64("order.number", order.OrderNumber),
		attribute.String("order.total", order.Total.String()),
	)
	metrics.OrdersCreated.Inc()

	// 订单已持久化，之后的副作用全部尽力而为。
	if order.CouponCode != "" {
		if err := s.coupons.Consume(ctx, order.CouponCode); err != nil {
			logger.Ctx(ctx).Error().
				Str("coupon_code", order.CouponCode).
				Str("order_id", order.ID.String()).
				Err(err).
				Msg("failed to consume coupon after order creation")
		}
	}

	var pointsGranted int64
	if s.loyalty != nil {
		points, err := s.loyalty.GrantPoints(ctx, order.CustomerID, order.Total, order.ID.String(), order.OrderNumber)
		if err != nil {
			// 积分是奖励不是承诺，授予失败永远不能挡住已成交的订单。
			logger.Ctx(ctx).Error().
				Str("order_id", order.ID.String()).
				Err(err).
				Msg("failed to grant loyalty points")
		} else {
			pointsGranted = points
		}
	}

	if s.events != nil {
		event := &domain.OrderCreated{
			OrderID:     order.ID.String(),
			OrderNumber: order.OrderNumber,
			CustomerID:  order.CustomerID,
			Total:       order.Total.String(),
			CouponCode:  order.CouponCode,
		}
		if err := s.events.PublishOrderCreated(ctx, event); err != nil {
			logger.Ctx(ctx).Error().
				Str("order_id", order.ID.String()).
				Err(err).
				Msg("failed to publish order created event")
		}
	}

	logger.Ctx(ctx).Info().
		Str("order_id", order.ID.String()).
		Int64("order_number", order.OrderNumber).
		Str("total", order.Total.String()).
		Int64("points_granted", pointsGranted).
		Msg("order created")

	return &CreateOrderResponse{Order: toOrderView(order), PointsGranted: pointsGranted}, nil
}

// TransitionStatus 执行员工发起的状态流转。
// 取消订单不回收已授予的积分，也不回补库存。
func (s *OrderService) TransitionStatus(ctx context.Context, req *TransitionRequest) (*OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "service.TransitionOrderStatus")
	defer span.End()

	id, err := uuid.Parse(req.OrderID)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}
	next := domain.Status(req.Status)
	if !next.IsValid() {
		return nil, domain.ErrInvalidTransition
	}
	span.SetAttributes(
		attribute.String("order.id", req.OrderID),
		attribute.String("order.status", req.Status),
	)

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		span.AddEvent("Transition rejected by state table.")
		return nil, domain.ErrInvalidTransition
	}

	// 条件更新：并发流转里输掉的一方在这里拿到 ErrInvalidTransition，
	// 而不是悄悄覆盖赢家写入的状态。
	if err := s.orderRepo.UpdateStatus(ctx, id, order.Status, next); err != nil {
		span.RecordError(err)
		return nil, err
	}
	metrics.OrderTransitions.WithLabelValues(string(next)).Inc()

	logger.Ctx(ctx).Info().
		Str("order_id", req.OrderID).
		Str("from", string(order.Status)).
		Str("to", string(next)).
		Msg("order status transitioned")

	order.Status = next
	return toOrderView(order), nil
}

// SetPaymentStatus 设置支付状态，仅允许 pending→paid 与 paid→refunded。
// 支付状态独立于订单状态，由支付确认消息或管理端驱动。
func (s *OrderService) SetPaymentStatus(ctx context.Context, req *PaymentStatusRequest) (*OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "service.SetPaymentStatus")
	defer span.End()

	id, err := uuid.Parse(req.OrderID)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}
	next := domain.PaymentStatus(req.PaymentStatus)
	if !next.IsValid() {
		return nil, domain.ErrInvalidTransition
	}
	span.SetAttributes(
		attribute.String("order.id", req.OrderID),
		attribute.String("order.payment_status", req.PaymentStatus),
	)

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !order.PaymentStatus.CanTransitionTo(next) {
		return nil, domain.ErrInvalidTransition
	}

	if err := s.orderRepo.UpdatePaymentStatus(ctx, id, order.PaymentStatus, next); err != nil {
		span.RecordError(err)
		return nil, err
	}

	logger.Ctx(ctx).Info().
		Str("order_id", req.OrderID).
		Str("from", string(order.PaymentStatus)).
		Str("to", string(next)).
		Msg("payment status updated")

	order.PaymentStatus = next
	return toOrderView(order), nil
}

// GetOrder 按 id 查询单个订单。
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "service.GetOrder")
	defer span.End()

	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return toOrderView(order), nil
}

// ListCustomerOrders 返回客户的订单历史，最新在前。
func (s *OrderService) ListCustomerOrders(ctx context.Context, customerID string) ([]*OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "service.ListCustomerOrders")
	defer span.End()
	span.SetAttributes(attribute.String("customer.id", customerID))

	orders, err := s.orderRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	views := make([]*OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toOrderView(o))
	}
	return views, nil
}

// Reorder 是纯读操作：只把历史订单的行项目复刻给新购物车，
// 不带状态也不带合计，因为商品价格可能已经变了。
func (s *OrderService) Reorder(ctx context.Context, orderID string) (*ReorderResponse, error) {
	ctx, span := s.tracer.Start(ctx, "service.Reorder")
	defer span.End()

	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	items := make([]ItemView, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, ItemView{
			ProductID: it.ProductID,
			Name:      it.Name,
			Image:     it.Image,
			Section:   it.Section,
			UnitPrice: it.UnitPrice,
			Quantity:  int(it.Quantity),
		})
	}
	return &ReorderResponse{Items: items}, nil
}

// LifetimeSpend 暴露给积分服务的等级推导读路径。
func (s *OrderService) LifetimeSpend(ctx context.Context, customerID string) (money.Amount, error) {
	return s.orderRepo.LifetimeSpend(ctx, customerID)
}
