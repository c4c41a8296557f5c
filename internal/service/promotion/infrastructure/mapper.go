// internal/service/promotion/infrastructure/mapper.go
package infrastructure

import (
	"gorm.io/gorm"

	"tienda/internal/pkg/money"
	"tienda/internal/service/promotion/domain"
)

// ToDomainCoupon 将数据库模型转换为领域模型。
func ToDomainCoupon(model *CouponModel) *domain.Coupon {
	if model == nil {
		return nil
	}
	return &domain.Coupon{
		ID:          int64(model.ID),
		Code:        model.Code,
		Description: model.Description,
		Type:        domain.DiscountType(model.DiscountType),
		Value:       model.DiscountValue,
		MinPurchase: money.FromDecimal(model.MinPurchase),
		MaxUses:     model.MaxUses,
		CurrentUses: model.CurrentUses,
		Active:      model.Active,
		ValidFrom:   model.ValidFrom,
		ValidUntil:  model.ValidUntil,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// FromDomainCoupon 将领域模型转换为数据库模型（用于插入或整体更新）。
func FromDomainCoupon(dmn *domain.Coupon) *CouponModel {
	if dmn == nil {
		return nil
	}
	return &CouponModel{
		Model: gorm.Model{
			ID: uint(dmn.ID),
		},
		Code:          dmn.Code,
		Description:   dmn.Description,
		DiscountType:  string(dmn.Type),
		DiscountValue: dmn.Value,
		MinPurchase:   dmn.MinPurchase.Decimal(),
		MaxUses:       dmn.MaxUses,
		CurrentUses:   dmn.CurrentUses,
		Active:        dmn.Active,
		ValidFrom:     dmn.ValidFrom,
		ValidUntil:    dmn.ValidUntil,
	}
}
