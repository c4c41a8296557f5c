// internal/service/order/infrastructure/adapter/loyalty_adapter.go
package adapter

import (
	"context"

	"tienda/internal/pkg/money"
	loyaltyapp "tienda/internal/service/loyalty/application"
)

// LoyaltyLocalAdapter 把同进程的积分服务适配成订单服务的出站端口。
type LoyaltyLocalAdapter struct {
	svc *loyaltyapp.LoyaltyService
}

// NewLoyaltyLocalAdapter 创建积分端口适配器。
func NewLoyaltyLocalAdapter(svc *loyaltyapp.LoyaltyService) *LoyaltyLocalAdapter {
	return &LoyaltyLocalAdapter{svc: svc}
}

func (a *LoyaltyLocalAdapter) GrantPoints(ctx context.Context, customerID string, orderTotal money.Amount, orderID string, orderNumber int64) (int64, error) {
	return a.svc.GrantPoints(ctx, customerID, orderTotal, orderID, orderNumber)
}
