// internal/service/order/application/dto.go
package application

import (
	"time"

	"tienda/internal/pkg/money"
	"tienda/internal/service/order/domain"
)

// ItemInput 是下单请求里的一行商品。
type ItemInput struct {
	ProductID string       `json:"product_id"`
	Name      string       `json:"name"`
	Image     string       `json:"image,omitempty"`
	Section   string       `json:"section,omitempty"`
	UnitPrice money.Amount `json:"unit_price"`
	Quantity  int          `json:"quantity"`
}

// CreateOrderRequest 是结账命令的入参。
type CreateOrderRequest struct {
	CustomerID    string       `json:"customer_id"`
	Items         []ItemInput  `json:"items"`
	ShippingCost  money.Amount `json:"shipping_cost"`
	PaymentMethod string       `json:"payment_method"`
	CouponCode    string       `json:"coupon_code,omitempty"`
}

// TransitionRequest 是员工发起的状态流转命令。
type TransitionRequest struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// PaymentStatusRequest 设置支付状态，既可由管理端也可由支付确认消息驱动。
type PaymentStatusRequest struct {
	OrderID       string `json:"order_id"`
	PaymentStatus string `json:"payment_status"`
}

// ItemView 是对外的订单行视图。
type ItemView struct {
	ProductID string       `json:"product_id"`
	Name      string       `json:"name"`
	Image     string       `json:"image,omitempty"`
	Section   string       `json:"section,omitempty"`
	UnitPrice money.Amount `json:"unit_price"`
	Quantity  int          `json:"quantity"`
}

// OrderView 是对外的订单视图。
type OrderView struct {
	ID            string       `json:"id"`
	OrderNumber   int64        `json:"order_number"`
	CustomerID    string       `json:"customer_id"`
	Items         []ItemView   `json:"items"`
	Subtotal      money.Amount `json:"subtotal"`
	ShippingCost  money.Amount `json:"shipping_cost"`
	Discount      money.Amount `json:"discount"`
	Total         money.Amount `json:"total"`
	CouponCode    string       `json:"coupon_code,omitempty"`
	Status        string       `json:"status"`
	PaymentMethod string       `json:"payment_method"`
	PaymentStatus string       `json:"payment_status"`
	TrackingNotes string       `json:"tracking_notes,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// CreateOrderResponse 回传新订单及随单授予的积分数。
type CreateOrderResponse struct {
	Order         *OrderView `json:"order"`
	PointsGranted int64      `json:"points_granted"`
}

// ReorderResponse 只复刻行项目，价格可能已变，由新购物车自行重新定价。
type ReorderResponse struct {
	Items []ItemView `json:"items"`
}

func toOrderView(o *domain.Order) *OrderView {
	items := make([]ItemView, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, ItemView{
			ProductID: it.ProductID,
			Name:      it.Name,
			Image:     it.Image,
			Section:   it.Section,
			UnitPrice: it.UnitPrice,
			Quantity:  int(it.Quantity),
		})
	}
	return &OrderView{
		ID:            o.ID.String(),
		OrderNumber:   o.OrderNumber,
		CustomerID:    o.CustomerID,
		Items:         items,
		Subtotal:      o.Subtotal,
		ShippingCost:  o.ShippingCost,
		Discount:      o.Discount,
		Total:         o.Total,
		CouponCode:    o.CouponCode,
		Status:        string(o.Status),
		PaymentMethod: o.PaymentMethod,
		PaymentStatus: string(o.PaymentStatus),
		TrackingNotes: o.TrackingNotes,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}
