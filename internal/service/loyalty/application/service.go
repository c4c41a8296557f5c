// internal/service/loyalty/application/service.go
package application

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tienda/internal/pkg/logger"
	"tienda/internal/pkg/metrics"
	"tienda/internal/pkg/money"
	"tienda/internal/service/loyalty/domain"
	"tienda/internal/service/loyalty/port"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// LoyaltyService 聚合了积分账本的全部用例：授予、兑换、余额、流水与等级。
type LoyaltyService struct {
	txRepo      domain.TransactionRepository
	spendReader port.OrderSpendReader
	tracer      trace.Tracer
}

// NewLoyaltyService 创建积分服务实例。
func NewLoyaltyService(txRepo domain.TransactionRepository, spendReader port.OrderSpendReader, tracer trace.Tracer) *LoyaltyService {
	return &LoyaltyService{
		txRepo:      txRepo,
		spendReader: spendReader,
		tracer:      tracer,
	}
}

// Balance 返回客户当前积分余额（全部流水之和）。
func (s *LoyaltyService) Balance(ctx context.Context, customerID string) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "service.LoyaltyBalance")
	defer span.End()
	span.SetAttributes(attribute.String("customer.id", customerID))

	return s.txRepo.Balance(ctx, customerID)
}

// GrantPoints 按下单积分公式为订单授予积分，由订单服务在创建成功后调用。
// 0 分时不写流水。同一订单重复授予不在此处去重——订单服务是唯一调用方，
// 且只在创建时调用一次。
func (s *LoyaltyService) GrantPoints(ctx context.Context, customerID string, orderTotal money.Amount, orderID string, orderNumber int64) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "service.GrantPoints")
	defer span.End()

	points := domain.PointsForTotal(orderTotal)
	span.SetAttributes(
		attribute.String("customer.id", customerID),
		attribute.String("order.id", orderID),
		attribute.Int64("loyalty.points", points),
	)

	if points == 0 {
		span.AddEvent("Order total below earning threshold, no transaction written.")
		return 0, nil
	}

	tx := domain.NewEarned(customerID, points, fmt.Sprintf("Points earned for order #%d", orderNumber), orderID)
	if err := s.txRepo.Append(ctx, tx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to append earned transaction")
		return 0, err
	}

	metrics.PointsGranted.Add(float64(points))
	logger.Ctx(ctx).Info().
		Str("customer_id", customerID).
		Int64("points", points).
		Str("order_id", orderID).
		Msg("loyalty points granted")
	return points, nil
}

// RedeemPoints 将积分兑换为折扣。余额校验与负向流水的写入发生在
// 仓储层的同一个事务里，并发兑换不可能联手透支余额。
// 返回的折扣由调用方带入下一次结账，这里不关联任何订单。
func (s *LoyaltyService) RedeemPoints(ctx context.Context, req *RedeemPointsRequest) (*RedeemPointsResponse, error) {
	ctx, span := s.tracer.Start(ctx, "service.RedeemPoints")
	defer span.End()
	span.SetAttributes(
		attribute.String("customer.id", req.CustomerID),
		attribute.Int64("loyalty.points", req.Points),
	)

	if req.Points <= 0 {
		return nil, domain.ErrInvalidPointsAmount
	}

	discount := domain.DiscountForPoints(req.Points)
	tx := domain.NewRedeemed(req.CustomerID, req.Points,
		fmt.Sprintf("Redeemed %d points for a %s discount", req.Points, discount))

	if err := s.txRepo.AppendRedemption(ctx, tx); err != nil {
		span.RecordError(err)
		return nil, err
	}

	balance, err := s.txRepo.Balance(ctx, req.CustomerID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	metrics.PointsRedeemed.Add(float64(req.Points))
	logger.Ctx(ctx).Info().
		Str("customer_id", req.CustomerID).
		Int64("points", req.Points).
		Str("discount", discount.String()).
		Msg("loyalty points redeemed")

	return &RedeemPointsResponse{
		Points:         req.Points,
		DiscountAmount: discount,
		Balance:        balance,
	}, nil
}

// History 按时间倒序分页返回客户的积分流水。
func (s *LoyaltyService) History(ctx context.Context, customerID string, limit, offset int) (*HistoryResponse, error) {
	ctx, span := s.tracer.Start(ctx, "service.LoyaltyHistory")
	defer span.End()
	span.SetAttributes(attribute.String("customer.id", customerID))

	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	txs, err := s.txRepo.History(ctx, customerID, limit, offset)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	views := make([]*TransactionView, 0, len(txs))
	for _, tx := range txs {
		views = append(views, toTransactionView(tx))
	}
	return &HistoryResponse{Transactions: views, Limit: limit, Offset: offset}, nil
}

// TierProgress 由累计消费（非取消订单合计之和）推导等级与升级进度。
func (s *LoyaltyService) TierProgress(ctx context.Context, customerID string) (*TierProgressResponse, error) {
	ctx, span := s.tracer.Start(ctx, "service.TierProgress")
	defer span.End()
	span.SetAttributes(attribute.String("customer.id", customerID))

	spend, err := s.spendReader.LifetimeSpend(ctx, customerID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	progress := domain.TierFor(spend)
	span.SetAttributes(
		attribute.String("loyalty.tier", progress.Tier.Name),
		attribute.String("customer.lifetime_spend", spend.String()),
	)

	return &TierProgressResponse{
		Tier:          progress.Tier,
		NextTier:      progress.NextTier,
		Progress:      progress.Progress,
		Remaining:     progress.Remaining,
		LifetimeSpend: spend,
	}, nil
}
