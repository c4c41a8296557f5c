// internal/service/order/port/loyalty.go
package port

import (
	"context"

	"tienda/internal/pkg/money"
)

// PointsGranter 是订单服务对积分账本的出站端口，
// 仅在订单创建成功后调用，失败由调用方记录并吞掉。
type PointsGranter interface {
	GrantPoints(ctx context.Context, customerID string, orderTotal money.Amount, orderID string, orderNumber int64) (int64, error)
}
