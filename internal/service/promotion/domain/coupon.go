// internal/service/promotion/domain/coupon.go
package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tienda/internal/pkg/money"
)

// DiscountType 定义了优惠券的折扣方式。
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage" // 按小计的百分比折扣
	DiscountFixed      DiscountType = "fixed"      // 固定金额折扣，封顶为小计
)

// Coupon 是优惠券聚合。Code 以规范化形式（去空格、大写）存储，
// 查询时大小写不敏感。停用只翻转 Active 标志，从不物理删除，
// 以保证历史订单对券码的引用仍然可解释。
type Coupon struct {
	ID          int64
	Code        string
	Description string
	Type        DiscountType
	Value       decimal.Decimal
	MinPurchase money.Amount
	MaxUses     *int // nil 表示不限次数
	CurrentUses int
	Active      bool
	ValidFrom   *time.Time // nil 表示该侧无界
	ValidUntil  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NormalizeCode 统一券码形态：去除首尾空白并转大写。
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// DiscountFor 校验优惠券对给定小计是否可用，并计算折扣金额。
// 校验顺序与错误一一对应，调用方据此向用户展示精确的拒绝原因。
// 本方法是纯读操作，不消耗使用次数。
func (c *Coupon) DiscountFor(subtotal money.Amount, now time.Time) (money.Amount, error) {
	if !c.Active {
		return money.Zero(), ErrCouponInactive
	}
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return money.Zero(), ErrCouponOutOfWindow
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return money.Zero(), ErrCouponOutOfWindow
	}
	if subtotal.LessThan(c.MinPurchase) {
		return money.Zero(), ErrCouponBelowMinimum
	}
	if c.MaxUses != nil && c.CurrentUses >= *c.MaxUses {
		return money.Zero(), ErrCouponExhausted
	}

	switch c.Type {
	case DiscountPercentage:
		return subtotal.Percent(c.Value), nil
	case DiscountFixed:
		// 固定折扣不允许把订单打成负数
		fixed := money.FromDecimal(c.Value).RoundMinorUnit()
		return money.Min(fixed, subtotal), nil
	default:
		return money.Zero(), ErrInvalidDiscountType
	}
}

// ValidateDefinition 校验管理端创建/编辑的券定义本身是否合法。
func (c *Coupon) ValidateDefinition() error {
	if NormalizeCode(c.Code) == "" {
		return ErrInvalidCouponCode
	}
	switch c.Type {
	case DiscountPercentage:
		if c.Value.LessThanOrEqual(decimal.Zero) || c.Value.GreaterThan(decimal.NewFromInt(100)) {
			return ErrInvalidDiscountValue
		}
	case DiscountFixed:
		if c.Value.LessThanOrEqual(decimal.Zero) {
			return ErrInvalidDiscountValue
		}
	default:
		return ErrInvalidDiscountType
	}
	if c.MinPurchase.IsNegative() {
		return ErrInvalidDiscountValue
	}
	if c.MaxUses != nil && *c.MaxUses < 1 {
		return ErrInvalidDiscountValue
	}
	if c.ValidFrom != nil && c.ValidUntil != nil && c.ValidUntil.Before(*c.ValidFrom) {
		return ErrInvalidValidityWindow
	}
	return nil
}
