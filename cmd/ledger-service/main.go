// cmd/ledger-service/main.go
package main

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"tienda/internal/pkg/bootstrap"
	"tienda/internal/pkg/logger"
	"tienda/internal/pkg/mq"
	"tienda/internal/pkg/redis"

	loyaltyapp "tienda/internal/service/loyalty/application"
	loyaltyinfra "tienda/internal/service/loyalty/infrastructure"
	loyaltyhttp "tienda/internal/service/loyalty/interfaces"
	orderapp "tienda/internal/service/order/application"
	orderinfra "tienda/internal/service/order/infrastructure"
	"tienda/internal/service/order/infrastructure/adapter"
	orderhttp "tienda/internal/service/order/interfaces"
	promoapp "tienda/internal/service/promotion/application"
	promoinfra "tienda/internal/service/promotion/infrastructure"
	promohttp "tienda/internal/service/promotion/interfaces"
)

// main 是账本服务的组装根：建立存储与消息连接，
// 装配订单、优惠、积分三个服务切片，然后交给 bootstrap 统一启停。
func main() {
	if err := bootstrap.Init(); err != nil {
		panic(err)
	}
	cfg := bootstrap.GetCurrentConfig()
	logger.Init(cfg.App.ServiceName)

	// 1. MySQL
	db, err := gorm.Open(mysql.Open(cfg.Infra.Mysql.DSN), &gorm.Config{})
	if err != nil {
		logger.Logger().Fatal().Err(err).Msg("failed to connect to mysql")
	}
	if err := db.AutoMigrate(
		&promoinfra.CouponModel{},
		&loyaltyinfra.LoyaltyTransactionModel{},
		&orderinfra.OrderModel{},
		&orderinfra.OrderItemModel{},
	); err != nil {
		logger.Logger().Fatal().Err(err).Msg("failed to migrate schema")
	}

	// 2. Redis（优惠券读缓存）
	redisClient, err := redis.NewClient(cfg.Infra.Redis.Addr, cfg.Infra.Redis.Password, cfg.Infra.Redis.DB)
	if err != nil {
		logger.Logger().Fatal().Err(err).Msg("failed to connect to redis")
	}

	// 3. Kafka
	paymentReader := mq.NewKafkaReader(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.PaymentTopic, cfg.Infra.Kafka.ConsumerGroup)
	orderCreatedWriter := mq.NewKafkaWriter(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.OrderCreatedTopic)

	tracer := otel.Tracer(cfg.App.ServiceName)

	// 4. 优惠服务
	couponRepo := promoinfra.NewGormCouponRepository(db)
	couponCache := promoinfra.NewRedisCouponCache(redisClient)
	promotionService := promoapp.NewPromotionService(couponRepo, couponCache, tracer)

	// 5. 订单与积分互相依赖：积分的等级推导读订单的累计消费，
	//    订单创建后写积分。先建订单仓储，再按依赖方向装配。
	orderRepo := orderinfra.NewGormOrderRepository(db)
	loyaltyRepo := loyaltyinfra.NewGormTransactionRepository(db)
	loyaltyService := loyaltyapp.NewLoyaltyService(loyaltyRepo, orderRepo, tracer)

	orderService := orderapp.NewOrderService(
		orderRepo,
		adapter.NewPromotionLocalAdapter(promotionService),
		adapter.NewLoyaltyLocalAdapter(loyaltyService),
		orderinfra.NewOrderProducerAdapter(orderCreatedWriter),
		tracer,
	)

	// 6. 支付确认消费者
	consumerCtx, cancelConsumer := context.WithCancel(context.Background())
	paymentConsumer := orderinfra.NewPaymentConsumerAdapter(paymentReader, orderService)
	paymentConsumer.Start(consumerCtx)

	// 7. HTTP
	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: cfg.App.ServiceName,
		Port:        cfg.App.Port,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			orderhttp.NewOrderHandler(orderService).RegisterRoutes(appCtx.Mux)
			promohttp.NewPromotionHandler(promotionService).RegisterRoutes(appCtx.Mux)
			loyaltyhttp.NewLoyaltyHandler(loyaltyService).RegisterRoutes(appCtx.Mux)
			appCtx.Mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			appCtx.Mux.Handle("/metrics", promhttp.Handler())
		},
		OnShutdown: func() {
			cancelConsumer()
			paymentConsumer.Stop()
			if err := orderCreatedWriter.Close(); err != nil {
				logger.Logger().Error().Err(err).Msg("error closing kafka writer")
			}
			if err := redisClient.Close(); err != nil {
				logger.Logger().Error().Err(err).Msg("error closing redis client")
			}
		},
	})
}
