// internal/service/promotion/application/dto.go
package application

import (
	"time"

	"github.com/shopspring/decimal"

	"tienda/internal/pkg/money"
	"tienda/internal/service/promotion/domain"
)

// ValidateCouponRequest 是校验接口的入参。
type ValidateCouponRequest struct {
	Code     string       `json:"code"`
	Subtotal money.Amount `json:"subtotal"`
}

// ValidateCouponResponse 返回可用券的折扣金额。
type ValidateCouponResponse struct {
	Code           string       `json:"code"`
	DiscountAmount money.Amount `json:"discount_amount"`
}

// ConsumeCouponRequest 在订单已持久化之后调用，计一次使用。
type ConsumeCouponRequest struct {
	Code string `json:"code"`
}

// CouponInput 是管理端创建/编辑券的入参。
type CouponInput struct {
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Value       decimal.Decimal `json:"value"`
	MinPurchase money.Amount    `json:"min_purchase"`
	MaxUses     *int            `json:"max_uses"`
	Active      *bool           `json:"active"`
	ValidFrom   *time.Time      `json:"valid_from"`
	ValidUntil  *time.Time      `json:"valid_until"`
}

// CouponView 是对外暴露的券视图。
type CouponView struct {
	ID          int64           `json:"id"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Value       decimal.Decimal `json:"value"`
	MinPurchase money.Amount    `json:"min_purchase"`
	MaxUses     *int            `json:"max_uses,omitempty"`
	CurrentUses int             `json:"current_uses"`
	Active      bool            `json:"active"`
	ValidFrom   *time.Time      `json:"valid_from,omitempty"`
	ValidUntil  *time.Time      `json:"valid_until,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func toCouponView(c *domain.Coupon) *CouponView {
	return &CouponView{
		ID:          c.ID,
		Code:        c.Code,
		Description: c.Description,
		Type:        string(c.Type),
		Value:       c.Value,
		MinPurchase: c.MinPurchase,
		MaxUses:     c.MaxUses,
		CurrentUses: c.CurrentUses,
		Active:      c.Active,
		ValidFrom:   c.ValidFrom,
		ValidUntil:  c.ValidUntil,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
