// internal/service/order/domain/events.go
package domain

// OrderCreated 在订单落库成功后发布到 Kafka，供下游（通知、报表）消费。
type OrderCreated struct {
	OrderID     string `json:"order_id"`
	OrderNumber int64  `json:"order_number"`
	CustomerID  string `json:"customer_id"`
	Total       string `json:"total"`
	CouponCode  string `json:"coupon_code,omitempty"`
}

// PaymentConfirmation 是支付网关异步回传的确认消息，
// 消费后驱动订单的支付状态流转。
type PaymentConfirmation struct {
	OrderID       string `json:"order_id"`
	PaymentStatus string `json:"payment_status"`
}
