// internal/service/promotion/domain/repository.go
package domain

import "context"

// CouponRepository 是优惠券的持久化端口。
type CouponRepository interface {
	// FindByCode 按规范化券码查找，未命中返回 ErrCouponNotFound。
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	Create(ctx context.Context, coupon *Coupon) error
	// Update 整体更新一条券的可编辑字段。
	Update(ctx context.Context, coupon *Coupon) error
	List(ctx context.Context) ([]*Coupon, error)
	// ConsumeOnce 以单条条件更新的方式把 current_uses 加一：
	// 仅当 max_uses 为空或 current_uses < max_uses 时生效。
	// 两个并发的核销不可能同时越过上限。已达上限返回 ErrCouponExhausted。
	ConsumeOnce(ctx context.Context, code string) error
}

// CouponCache 是校验读路径上的旁路缓存端口。
// 缓存只服务于读取；核销路径始终落到存储层的条件更新上，
// 因此缓存的 current_uses 即使略有滞后也不会破坏上限不变量。
type CouponCache interface {
	Get(ctx context.Context, code string) (*Coupon, bool)
	Set(ctx context.Context, coupon *Coupon)
	Invalidate(ctx context.Context, code string)
}
