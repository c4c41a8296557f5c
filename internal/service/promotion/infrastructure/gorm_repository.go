// internal/service/promotion/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"errors"

	gomysql "github.com/go-sql-driver/mysql"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"tienda/internal/service/promotion/domain"
)

// GormCouponRepository 是 domain.CouponRepository 的 GORM 实现。
type GormCouponRepository struct {
	db *gorm.DB
}

// NewGormCouponRepository 创建一个新的 GORM 仓储实例。
func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

func (r *GormCouponRepository) FindByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	var model CouponModel
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCouponNotFound
		}
		return nil, pkgerrors.Wrap(err, "find coupon by code")
	}
	return ToDomainCoupon(&model), nil
}

func (r *GormCouponRepository) Create(ctx context.Context, coupon *domain.Coupon) error {
	model := FromDomainCoupon(coupon)
	model.ID = 0
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		// 唯一索引冲突说明券码已存在
		var mysqlErr *gomysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return domain.ErrCouponCodeTaken
		}
		return pkgerrors.Wrap(err, "create coupon")
	}
	coupon.ID = int64(model.ID)
	coupon.CreatedAt = model.CreatedAt
	coupon.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *GormCouponRepository) Update(ctx context.Context, coupon *domain.Coupon) error {
	// 用 map 做显式的部分更新，零值字段（例如 active=false）才不会被 GORM 忽略。
	// current_uses 不在其中：唯一允许改它的入口是 ConsumeOnce。
	updateData := map[string]interface{}{
		"description":    coupon.Description,
		"discount_type":  string(coupon.Type),
		"discount_value": coupon.Value,
		"min_purchase":   coupon.MinPurchase.Decimal(),
		"max_uses":       coupon.MaxUses,
		"active":         coupon.Active,
		"valid_from":     coupon.ValidFrom,
		"valid_until":    coupon.ValidUntil,
	}
	res := r.db.WithContext(ctx).Model(&CouponModel{}).Where("code = ?", coupon.Code).Updates(updateData)
	if res.Error != nil {
		return pkgerrors.Wrap(res.Error, "update coupon")
	}
	if res.RowsAffected == 0 {
		return domain.ErrCouponNotFound
	}
	return nil
}

func (r *GormCouponRepository) List(ctx context.Context) ([]*domain.Coupon, error) {
	var models []CouponModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "list coupons")
	}
	coupons := make([]*domain.Coupon, 0, len(models))
	for i := range models {
		coupons = append(coupons, ToDomainCoupon(&models[i]))
	}
	return coupons, nil
}

// ConsumeOnce 用单条条件 UPDATE 实现原子核销：
//
//	UPDATE coupons SET current_uses = current_uses + 1
//	WHERE code = ? AND (max_uses IS NULL OR current_uses < max_uses)
//
// 并发的核销请求在存储层被串行化，任何读-改-写竞态都不可能越过上限。
func (r *GormCouponRepository) ConsumeOnce(ctx context.Context, code string) error {
	res := r.db.WithContext(ctx).Model(&CouponModel{}).
		Where("code = ? AND (max_uses IS NULL OR current_uses < max_uses)", code).
		Updates(map[string]interface{}{"current_uses": gorm.Expr("current_uses + 1")})
	if res.Error != nil {
		return pkgerrors.Wrap(res.Error, "consume coupon")
	}
	if res.RowsAffected == 0 {
		// 零行生效：要么券不存在，要么已达上限
		var count int64
		if err := r.db.WithContext(ctx).Model(&CouponModel{}).Where("code = ?", code).Count(&count).Error; err != nil {
			return pkgerrors.Wrap(err, "consume coupon recheck")
		}
		if count == 0 {
			return domain.ErrCouponNotFound
		}
		return domain.ErrCouponExhausted
	}
	return nil
}
