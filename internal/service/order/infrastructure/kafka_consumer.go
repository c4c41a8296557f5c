// internal/service/order/infrastructure/kafka_consumer.go
package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"

	"tienda/internal/pkg/logger"
	"tienda/internal/pkg/mq"
	"tienda/internal/service/order/application"
	"tienda/internal/service/order/domain"
)

// PaymentConsumerAdapter 监听支付确认主题并驱动订单的支付状态流转。
// 支付网关是带外系统：下单只做订单捕获，付款结果通过这条消费链路回来。
type PaymentConsumerAdapter struct {
	reader  *kafka.Reader
	appSvc  *application.OrderService
	wg      sync.WaitGroup
	stopped bool
}

// NewPaymentConsumerAdapter 创建支付确认消费者。
func NewPaymentConsumerAdapter(reader *kafka.Reader, appSvc *application.OrderService) *PaymentConsumerAdapter {
	return &PaymentConsumerAdapter{
		reader: reader,
		appSvc: appSvc,
	}
}

// Start 开始监听。这是一个长期运行的方法，随进程生命周期退出。
func (a *PaymentConsumerAdapter) Start(ctx context.Context) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		logger.Logger().Info().
			Str("topic", a.reader.Config().Topic).
			Msg("payment confirmation consumer started")
		for {
			if a.stopped {
				return
			}
			// 用 FetchMessage 而不是 ReadMessage，处理成功后再手动提交
			msg, err := a.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					logger.Logger().Info().Msg("payment confirmation consumer shutting down")
					return
				}
				logger.Logger().Error().Err(err).Msg("could not read payment message, retrying")
				time.Sleep(1 * time.Second)
				continue
			}

			a.processMessage(ctx, msg)

			if err := a.reader.CommitMessages(ctx, msg); err != nil {
				logger.Logger().Error().Err(err).Msg("failed to commit payment message")
			}
		}
	}()
}

// Stop 优雅地停止消费者。
func (a *PaymentConsumerAdapter) Stop() {
	a.stopped = true
	a.reader.Close()
	a.wg.Wait()
	logger.Logger().Info().Msg("payment confirmation consumer stopped")
}

// processMessage 反序列化消息、恢复追踪上下文并调用应用服务。
// 格式非法的消息记日志后跳过，不会卡住整个分区。
func (a *PaymentConsumerAdapter) processMessage(parentCtx context.Context, msg kafka.Message) {
	var event domain.PaymentConfirmation
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		logger.Logger().Error().Err(err).Msg("malformed payment confirmation, message skipped")
		return
	}

	propagator := otel.GetTextMapPropagator()
	headerCarrier := mq.KafkaHeaderCarrier(msg.Headers)
	ctx := propagator.Extract(parentCtx, &headerCarrier)

	_, err := a.appSvc.SetPaymentStatus(ctx, &application.PaymentStatusRequest{
		OrderID:       event.OrderID,
		PaymentStatus: event.PaymentStatus,
	})
	if err != nil {
		// 重复投递会撞上非法流转（例如 paid→paid），按已处理跳过
		if errors.Is(err, domain.ErrInvalidTransition) || errors.Is(err, domain.ErrOrderNotFound) {
			logger.Ctx(ctx).Warn().
				Str("order_id", event.OrderID).
				Str("payment_status", event.PaymentStatus).
				Err(err).
				Msg("payment confirmation not applicable, message skipped")
			return
		}
		logger.Ctx(ctx).Error().
			Str("order_id", event.OrderID).
			Err(err).
			Msg("failed to apply payment confirmation")
	}
}
