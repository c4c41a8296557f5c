// internal/service/order/infrastructure/gorm_model.go
package infrastructure

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderModel 对应 orders 表。
// 订单号带唯一索引，由仓储在创建时分配（MAX+1，并发撞号靠唯一索引兜底重试）。
// 订单从不物理删除，取消只是一个终态。
type OrderModel struct {
	ID            string          `gorm:"primaryKey;size:36"`
	OrderNumber   int64           `gorm:"uniqueIndex;not null"`
	CustomerID    string          `gorm:"index;size:64;not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ShippingCost  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Discount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CouponCode    string          `gorm:"size:64"`
	Status        string          `gorm:"size:16;not null;index"`
	PaymentMethod string          `gorm:"size:32"`
	PaymentStatus string          `gorm:"size:16;not null"`
	TrackingNotes string          `gorm:"type:text"`
	CreatedAt     time.Time       `gorm:"index"`
	UpdatedAt     time.Time
	Items         []OrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName 指定 GORM 应该使用的表名
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel 对应 order_items 表。
// 名称、图片、分区与单价是下单时的快照，此后不再更新。
type OrderItemModel struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"`
	OrderID   string          `gorm:"index;size:36;not null"`
	ProductID string          `gorm:"size:64;not null"`
	Name      string          `gorm:"size:255;not null"`
	Image     string          `gorm:"size:512"`
	Section   string          `gorm:"size:64"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity  int             `gorm:"not null"`
}

// TableName 指定 GORM 应该使用的表名
func (OrderItemModel) TableName() string {
	return "order_items"
}
