// internal/service/order/domain/repository.go
package domain

import (
	"context"

	"github.com/google/uuid"

	"tienda/internal/pkg/money"
)

// OrderRepository 是订单聚合的持久化端口。
type OrderRepository interface {
	// Create 持久化一个新订单并为其分配下一个顺序订单号。
	// 订单号带唯一索引，并发下单撞号时由实现内部重试。
	Create(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindByCustomer 返回该客户的全部订单，最新在前。
	FindByCustomer(ctx context.Context, customerID string) ([]*Order, error)
	// UpdateStatus 以条件更新执行状态流转：只有当前状态仍为 from 时才生效。
	// 竞争失败（订单状态已被别人改走）返回 ErrInvalidTransition。
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) error
	// UpdatePaymentStatus 同上，作用于支付状态。
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, from, to PaymentStatus) error
	// LifetimeSpend 汇总该客户所有非取消订单的合计，供等级引擎使用。
	LifetimeSpend(ctx context.Context, customerID string) (money.Amount, error)
}
