// internal/service/promotion/application/service.go
package application

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tienda/internal/pkg/logger"
	"tienda/internal/pkg/metrics"
	"tienda/internal/service/promotion/domain"
)

// PromotionService 聚合了优惠券的校验、核销与管理端用例。
type PromotionService struct {
	couponRepo domain.CouponRepository
	cache      domain.CouponCache
	tracer     trace.Tracer
	now        func() time.Time
}

// NewPromotionService 创建优惠服务实例。cache 可以为 nil（例如测试场景）。
func NewPromotionService(repo domain.CouponRepository, cache domain.CouponCache, tracer trace.Tracer) *PromotionService {
	return &PromotionService{
		couponRepo: repo,
		cache:      cache,
		tracer:     tracer,
		now:        time.Now,
	}
}

// findCoupon 先查缓存、未命中再查库并回填。
func (s *PromotionService) findCoupon(ctx context.Context, code string) (*domain.Coupon, error) {
	if s.cache != nil {
		if c, ok := s.cache.Get(ctx, code); ok {
			return c, nil
		}
	}
	c, err := s.couponRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, c)
	}
	return c, nil
}

// ValidateCoupon 校验券码并计算折扣。纯读路径，不消耗使用次数——
// 核销由订单持久化成功后的 ConsumeCoupon 单独完成。
func (s *PromotionService) ValidateCoupon(ctx context.Context, req *ValidateCouponRequest) (*ValidateCouponResponse, error) {
	ctx, span := s.tracer.Start(ctx, "service.ValidateCoupon")
	defer span.End()

	code := domain.NormalizeCode(req.Code)
	span.SetAttributes(
		attribute.String("coupon.code", code),
		attribute.String("order.subtotal", req.Subtotal.String()),
	)

	coupon, err := s.findCoupon(ctx, code)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	discount, err := coupon.DiscountFor(req.Subtotal, s.now())
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.String("coupon.discount", discount.String()))
	return &ValidateCouponResponse{Code: code, DiscountAmount: discount}, nil
}

// ConsumeCoupon 在使用该券的订单已经落库之后调用，
// 通过存储层的条件更新原子地加一，永远不会把 current_uses 推过 max_uses。
func (s *PromotionService) ConsumeCoupon(ctx context.Context, code string) error {
	ctx, span := s.tracer.Start(ctx, "service.ConsumeCoupon")
	defer span.End()

	code = domain.NormalizeCode(code)
	span.SetAttributes(attribute.String("coupon.code", code))

	if err := s.couponRepo.ConsumeOnce(ctx, code); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "coupon consumption rejected")
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, code)
	}
	metrics.CouponsConsumed.Inc()
	logger.Ctx(ctx).Info().Str("code", code).Msg("coupon consumed")
	return nil
}

// CreateCoupon 管理端新建一张券。
func (s *PromotionService) CreateCoupon(ctx context.Context, input *CouponInput) (*CouponView, error) {
	ctx, span := s.tracer.Start(ctx, "service.CreateCoupon")
	defer span.End()

	coupon := couponFromInput(input)
	coupon.Active = true
	if input.Active != nil {
		coupon.Active = *input.Active
	}
	if err := coupon.ValidateDefinition(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		span.RecordError(err)
		return nil, err
	}

	logger.Ctx(ctx).Info().Str("code", coupon.Code).Msg("coupon created")
	return toCouponView(coupon), nil
}

// UpdateCoupon 管理端编辑一张已有的券；券码本身不可改。
func (s *PromotionService) UpdateCoupon(ctx context.Context, code string, input *CouponInput) (*CouponView, error) {
	ctx, span := s.tracer.Start(ctx, "service.UpdateCoupon")
	defer span.End()

	code = domain.NormalizeCode(code)
	existing, err := s.couponRepo.FindByCode(ctx, code)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	updated := couponFromInput(input)
	updated.ID = existing.ID
	updated.Code = existing.Code
	updated.CurrentUses = existing.CurrentUses
	updated.Active = existing.Active
	if input.Active != nil {
		updated.Active = *input.Active
	}
	if err := updated.ValidateDefinition(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := s.couponRepo.Update(ctx, updated); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, code)
	}
	logger.Ctx(ctx).Info().Str("code", code).Msg("coupon updated")
	return toCouponView(updated), nil
}

// DeactivateCoupon 软停用：只翻转 Active 标志，保留历史引用。
func (s *PromotionService) DeactivateCoupon(ctx context.Context, code string) error {
	ctx, span := s.tracer.Start(ctx, "service.DeactivateCoupon")
	defer span.End()

	code = domain.NormalizeCode(code)
	coupon, err := s.couponRepo.FindByCode(ctx, code)
	if err != nil {
		span.RecordError(err)
		return err
	}

	coupon.Active = false
	if err := s.couponRepo.Update(ctx, coupon); err != nil {
		span.RecordError(err)
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, code)
	}
	logger.Ctx(ctx).Info().Str("code", code).Msg("coupon deactivated")
	return nil
}

// GetCoupon 查询单张券。
func (s *PromotionService) GetCoupon(ctx context.Context, code string) (*CouponView, error) {
	coupon, err := s.couponRepo.FindByCode(ctx, domain.NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	return toCouponView(coupon), nil
}

// ListCoupons 管理端列出全部券。
func (s *PromotionService) ListCoupons(ctx context.Context) ([]*CouponView, error) {
	coupons, err := s.couponRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]*CouponView, 0, len(coupons))
	for _, c := range coupons {
		views = append(views, toCouponView(c))
	}
	return views, nil
}

func couponFromInput(input *CouponInput) *domain.Coupon {
	return &domain.Coupon{
		Code:        domain.NormalizeCode(input.Code),
		Description: input.Description,
		Type:        domain.DiscountType(input.Type),
		Value:       input.Value,
		MinPurchase: input.MinPurchase,
		MaxUses:     input.MaxUses,
		ValidFrom:   input.ValidFrom,
		ValidUntil:  input.ValidUntil,
	}
}
