// internal/service/promotion/infrastructure/gorm_model.go
package infrastructure

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CouponModel 对应数据库中的 coupons 表。
// code 存规范化形式并建唯一索引；金额列一律用 decimal 定点存储。
type CouponModel struct {
	gorm.Model
	Code          string          `gorm:"uniqueIndex;size:64;not null"`
	Description   string          `gorm:"size:255"`
	DiscountType  string          `gorm:"size:16;not null"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	MinPurchase   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	MaxUses       *int
	CurrentUses   int  `gorm:"not null;default:0"`
	Active        bool `gorm:"not null;default:true"`
	ValidFrom     *time.Time
	ValidUntil    *time.Time
}

// TableName 指定 GORM 应该使用的表名
func (CouponModel) TableName() string {
	return "coupons"
}
