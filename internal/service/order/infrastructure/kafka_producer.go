// internal/service/order/infrastructure/kafka_producer.go
package infrastructure

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"tienda/internal/pkg/logger"
	"tienda/internal/pkg/mq"
	"tienda/internal/service/order/domain"
)

// OrderProducerAdapter 把订单创建事件发布到 Kafka，
// 消息头中注入追踪上下文，供下游串联同一条链路。
type OrderProducerAdapter struct {
	writer *kafka.Writer
}

// NewOrderProducerAdapter 创建订单事件生产者。
func NewOrderProducerAdapter(writer *kafka.Writer) *OrderProducerAdapter {
	return &OrderProducerAdapter{writer: writer}
}

func (p *OrderProducerAdapter) PublishOrderCreated(ctx context.Context, event *domain.OrderCreated) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}
	// 以客户 id 作分区键，同一客户的事件保持有序
	if err := mq.ProduceMessage(ctx, p.writer, []byte(event.CustomerID), eventBytes); err != nil {
		logger.Ctx(ctx).Error().
			Str("order_id", event.OrderID).
			Err(err).
			Msg("failed to produce order created event")
		return err
	}
	return nil
}
