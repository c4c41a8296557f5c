// internal/service/order/port/promotion.go
package port

import (
	"context"

	"tienda/internal/pkg/money"
)

// CouponValidator 是订单服务对优惠服务的出站端口。
// Validate 为纯读校验，Consume 只在订单落库成功之后调用一次。
type CouponValidator interface {
	Validate(ctx context.Context, code string, subtotal money.Amount) (money.Amount, error)
	Consume(ctx context.Context, code string) error
}
