// internal/service/promotion/domain/errors.go
package domain

import "errors"

// 优惠券校验的拒绝原因，每一种单独成错误，
// 展示层据此给出精确提示（"已过期" 与 "已达使用上限" 不能混为一谈）。
var (
	ErrCouponNotFound     = errors.New("coupon not found")
	ErrCouponInactive     = errors.New("coupon is not active")
	ErrCouponOutOfWindow  = errors.New("coupon is outside its validity window")
	ErrCouponBelowMinimum = errors.New("order subtotal is below the coupon minimum purchase")
	ErrCouponExhausted    = errors.New("coupon has reached its maximum number of uses")

	ErrCouponCodeTaken       = errors.New("coupon code already exists")
	ErrInvalidCouponCode     = errors.New("coupon code must not be empty")
	ErrInvalidDiscountType   = errors.New("discount type must be percentage or fixed")
	ErrInvalidDiscountValue  = errors.New("discount value is out of range")
	ErrInvalidValidityWindow = errors.New("valid_until must not precede valid_from")
)
