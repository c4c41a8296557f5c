// internal/service/order/infrastructure/mapper.go
package infrastructure

import (
	"github.com/google/uuid"

	"tienda/internal/pkg/money"
	"tienda/internal/service/order/domain"
)

// ToDomainOrder 把持久化模型转换回领域聚合。
func ToDomainOrder(m *OrderModel) (*domain.Order, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	items := make([]domain.OrderItem, 0, len(m.Items))
	for _, im := range m.Items {
		items = append(items, domain.OrderItem{
			ProductID: im.ProductID,
			Name:      im.Name,
			Image:     im.Image,
			Section:   im.Section,
			UnitPrice: money.FromDecimal(im.UnitPrice),
			Quantity:  money.Quantity(im.Quantity),
		})
	}
	return &domain.Order{
		ID:            id,
		OrderNumber:   m.OrderNumber,
		CustomerID:    m.CustomerID,
		Items:         items,
		Subtotal:      money.FromDecimal(m.Subtotal),
		ShippingCost:  money.FromDecimal(m.ShippingCost),
		Discount:      money.FromDecimal(m.Discount),
		Total:         money.FromDecimal(m.Total),
		CouponCode:    m.CouponCode,
		Status:        domain.Status(m.Status),
		PaymentMethod: m.PaymentMethod,
		PaymentStatus: domain.PaymentStatus(m.PaymentStatus),
		TrackingNotes: m.TrackingNotes,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}, nil
}

// FromDomainOrder 把领域聚合映射为持久化模型。
func FromDomainOrder(o *domain.Order) *OrderModel {
	items := make([]OrderItemModel, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemModel{
			OrderID:   o.ID.String(),
			ProductID: it.ProductID,
			Name:      it.Name,
			Image:     it.Image,
			Section:   it.Section,
			UnitPrice: it.UnitPrice.Decimal(),
			Quantity:  int(it.Quantity),
		})
	}
	return &OrderModel{
		ID:            o.ID.String(),
		OrderNumber:   o.OrderNumber,
		CustomerID:    o.CustomerID,
		Subtotal:      o.Subtotal.Decimal(),
		ShippingCost:  o.ShippingCost.Decimal(),
		Discount:      o.Discount.Decimal(),
		Total:         o.Total.Decimal(),
		CouponCode:    o.CouponCode,
		Status:        string(o.Status),
		PaymentMethod: o.PaymentMethod,
		PaymentStatus: string(o.PaymentStatus),
		TrackingNotes: o.TrackingNotes,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		Items:         items,
	}
}
