// internal/service/promotion/infrastructure/coupon_cache.go
package infrastructure

import (
	"context"
	"encoding/json"
	"time"

	"tienda/internal/pkg/logger"
	"tienda/internal/pkg/redis"
	"tienda/internal/service/promotion/domain"
)

const couponCacheTTL = 5 * time.Minute

// RedisCouponCache 是 domain.CouponCache 的 Redis 实现，
// 只加速校验读路径。核销与管理端编辑都会主动失效对应键，
// 即便缓存滞后，上限不变量也由存储层的条件更新兜底。
type RedisCouponCache struct {
	client *redis.Client
}

// NewRedisCouponCache 创建一个新的券缓存实例。
func NewRedisCouponCache(client *redis.Client) *RedisCouponCache {
	return &RedisCouponCache{client: client}
}

func cacheKey(code string) string {
	return "coupon:" + code
}

func (c *RedisCouponCache) Get(ctx context.Context, code string) (*domain.Coupon, bool) {
	data, err := c.client.GetClient().Get(ctx, cacheKey(code)).Bytes()
	if err != nil {
		return nil, false
	}
	var coupon domain.Coupon
	if err := json.Unmarshal(data, &coupon); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("code", code).Msg("corrupt coupon cache entry, dropping")
		c.client.GetClient().Del(ctx, cacheKey(code))
		return nil, false
	}
	return &coupon, true
}

func (c *RedisCouponCache) Set(ctx context.Context, coupon *domain.Coupon) {
	data, err := json.Marshal(coupon)
	if err != nil {
		return
	}
	// 缓存失败只降级为直查数据库，不影响正确性
	if err := c.client.GetClient().Set(ctx, cacheKey(coupon.Code), data, couponCacheTTL).Err(); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("code", coupon.Code).Msg("failed to cache coupon")
	}
}

func (c *RedisCouponCache) Invalidate(ctx context.Context, code string) {
	if err := c.client.GetClient().Del(ctx, cacheKey(code)).Err(); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("code", code).Msg("failed to invalidate coupon cache")
	}
}
