// internal/service/order/port/events.go
package port

import (
	"context"

	"tienda/internal/service/order/domain"
)

// EventPublisher 把订单事件发布给下游，发布失败不影响订单本身。
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event *domain.OrderCreated) error
}
