// internal/service/loyalty/port/orders.go
package port

import (
	"context"

	"tienda/internal/pkg/money"
)

// OrderSpendReader 是积分服务对订单侧的只读依赖：
// 等级推导需要客户的累计消费（全部非取消订单的合计之和）。
type OrderSpendReader interface {
	LifetimeSpend(ctx context.Context, customerID string) (money.Amount, error)
}
