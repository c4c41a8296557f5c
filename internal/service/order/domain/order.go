// internal/service/order/domain/order.go
package domain

import (
	"time"

	"github.com/google/uuid"

	"tienda/internal/pkg/money"
)

// OrderItem 是订单里的一行商品。名称、图片、分区在下单时冗余拷贝，
// 商品目录后续再怎么改，历史订单看到的都是下单当时的样子。
// 单价同样在下单时冻结，此后不可变。
type OrderItem struct {
	ProductID string
	Name      string
	Image     string
	Section   string
	UnitPrice money.Amount
	Quantity  money.Quantity
}

// Subtotal 返回该行小计。
func (it OrderItem) Subtotal() money.Amount {
	return it.UnitPrice.MulQty(it.Quantity)
}

// Order 是订单聚合的根实体。
// Total 永远由 Subtotal、ShippingCost、Discount 三者重算得出，
// 不允许独立存储一个可能漂移的合计值。
type Order struct {
	ID            uuid.UUID
	OrderNumber   int64
	CustomerID    string
	Items         []OrderItem
	Subtotal      money.Amount
	ShippingCost  money.Amount
	Discount      money.Amount
	Total         money.Amount
	CouponCode    string
	Status        Status
	PaymentMethod string
	PaymentStatus PaymentStatus
	TrackingNotes string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewOrder 校验行项目并构造一个待持久化的订单。
// OrderNumber 在持久化时由仓储分配，这里保持为零。
func NewOrder(customerID string, items []OrderItem, shippingCost money.Amount, paymentMethod string) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}
	if shippingCost.IsNegative() {
		return nil, ErrNegativeShipping
	}
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		if it.UnitPrice.IsNegative() {
			return nil, ErrNegativePrice
		}
	}

	now := time.Now()
	o := &Order{
		ID:            uuid.New(),
		CustomerID:    customerID,
		Items:         items,
		ShippingCost:  shippingCost,
		Discount:      money.Zero(),
		Status:        StatusPending,
		PaymentMethod: paymentMethod,
		PaymentStatus: PaymentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	o.recomputeTotals()
	return o, nil
}

// ApplyDiscount 记录折扣来源并重算合计。折扣最多抵到小计加运费，
// 订单合计永远不为负。
func (o *Order) ApplyDiscount(code string, discount money.Amount) {
	o.CouponCode = code
	o.Discount = discount
	o.recomputeTotals()
}

func (o *Order) recomputeTotals() {
	subtotal := money.Zero()
	for _, it := range o.Items {
		subtotal = subtotal.Add(it.Subtotal())
	}
	o.Subtotal = subtotal

	total := subtotal.Add(o.ShippingCost).Sub(o.Discount)
	if total.IsNegative() {
		total = money.Zero()
	}
	o.Total = total
}
