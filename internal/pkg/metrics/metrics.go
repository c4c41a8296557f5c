// internal/pkg/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 账本侧的核心业务指标，通过 /metrics 暴露给 Prometheus 抓取。
var (
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_orders_created_total",
		Help: "Number of orders successfully persisted.",
	})

	OrderTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_order_transitions_total",
		Help: "Number of successful order status transitions.",
	}, []string{"to_status"})

	CouponsConsumed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_coupons_consumed_total",
		Help: "Number of coupon redemptions counted against max_uses.",
	})

	PointsGranted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_loyalty_points_granted_total",
		Help: "Total loyalty points granted for orders.",
	})

	PointsRedeemed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_loyalty_points_redeemed_total",
		Help: "Total loyalty points redeemed for discounts.",
	})
)
