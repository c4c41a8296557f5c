// internal/service/order/infrastructure/adapter/promotion_adapter.go
package adapter

import (
	"context"

	"tienda/internal/pkg/money"
	promoapp "tienda/internal/service/promotion/application"
)

// PromotionLocalAdapter 把同进程的优惠服务适配成订单服务的出站端口。
type PromotionLocalAdapter struct {
	svc *promoapp.PromotionService
}

// NewPromotionLocalAdapter 创建优惠端口适配器。
func NewPromotionLocalAdapter(svc *promoapp.PromotionService) *PromotionLocalAdapter {
	return &PromotionLocalAdapter{svc: svc}
}

func (a *PromotionLocalAdapter) Validate(ctx context.Context, code string, subtotal money.Amount) (money.Amount, error) {
	resp, err := a.svc.ValidateCoupon(ctx, &promoapp.ValidateCouponRequest{Code: code, Subtotal: subtotal})
	if err != nil {
		return money.Amount{}, err
	}
	return resp.DiscountAmount, nil
}

func (a *PromotionLocalAdapter) Consume(ctx context.Context, code string) error {
	return a.svc.ConsumeCoupon(ctx, code)
}
