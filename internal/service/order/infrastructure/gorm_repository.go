// internal/service/order/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"errors"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"tienda/internal/pkg/money"
	"tienda/internal/service/order/domain"
)

// 并发下单撞到同一个订单号时的最大重试次数。
const orderNumberRetries = 3

// GormOrderRepository 是 domain.OrderRepository 的 GORM 实现。
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository 创建一个新的 GORM 仓储实例。
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create 在一个事务里分配下一个顺序订单号并落库整个聚合。
// 订单号用 MAX+1 取号，唯一索引兜底：两个并发事务取到同一个号时，
// 后提交的一方撞 1062，整个事务重试拿新号。
func (r *GormOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	var lastErr error
	for attempt := 0; attempt < orderNumberRetries; attempt++ {
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var maxNumber int64
			if err := tx.Model(&OrderModel{}).
				Select("COALESCE(MAX(order_number), 0)").
				Scan(&maxNumber).Error; err != nil {
				return pkgerrors.Wrap(err, "next order number")
			}
			order.OrderNumber = maxNumber + 1

			model := FromDomainOrder(order)
			if err := tx.Create(model).Error; err != nil {
				return err
			}
			order.CreatedAt = model.CreatedAt
			order.UpdatedAt = model.UpdatedAt
			return nil
		})
		if err == nil {
			return nil
		}

		var mysqlErr *gomysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			lastErr = err
			continue
		}
		return pkgerrors.Wrap(err, "create order")
	}
	return pkgerrors.Wrap(lastErr, "create order: order number allocation kept colliding")
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var model OrderModel
	err := r.db.WithContext(ctx).Preload("Items").Where("id = ?", id.String()).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, pkgerrors.Wrap(err, "find order by id")
	}
	return ToDomainOrder(&model)
}

func (r *GormOrderRepository) FindByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error) {
	var models []OrderModel
	err := r.db.WithContext(ctx).Preload("Items").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "find orders by customer")
	}
	orders := make([]*domain.Order, 0, len(models))
	for i := range models {
		o, err := ToDomainOrder(&models[i])
		if err != nil {
			return nil, pkgerrors.Wrap(err, "map order")
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// UpdateStatus 用条件 UPDATE 执行状态流转：
//
//	UPDATE orders SET status = ? WHERE id = ? AND status = ?
//
// 零行生效说明当前状态已经不是 from——并发流转里输掉的一方
// 拿到 ErrInvalidTransition，而不是覆盖赢家的写入。
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.Status) error {
	res := r.db.WithContext(ctx).Model(&OrderModel{}).
		Where("id = ? AND status = ?", id.String(), string(from)).
		Updates(map[string]interface{}{
			"status":     string(to),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return pkgerrors.Wrap(res.Error, "update order status")
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&OrderModel{}).Where("id = ?", id.String()).Count(&count).Error; err != nil {
			return pkgerrors.Wrap(err, "update order status recheck")
		}
		if count == 0 {
			return domain.ErrOrderNotFound
		}
		return domain.ErrInvalidTransition
	}
	return nil
}

// UpdatePaymentStatus 与 UpdateStatus 同构，作用于支付状态。
func (r *GormOrderRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, from, to domain.PaymentStatus) error {
	res := r.db.WithContext(ctx).Model(&OrderModel{}).
		Where("id = ? AND payment_status = ?", id.String(), string(from)).
		Updates(map[string]interface{}{
			"payment_status": string(to),
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return pkgerrors.Wrap(res.Error, "update payment status")
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&OrderModel{}).Where("id = ?", id.String()).Count(&count).Error; err != nil {
			return pkgerrors.Wrap(err, "update payment status recheck")
		}
		if count == 0 {
			return domain.ErrOrderNotFound
		}
		return domain.ErrInvalidTransition
	}
	return nil
}

// LifetimeSpend 汇总该客户所有非取消订单的合计。
func (r *GormOrderRepository) LifetimeSpend(ctx context.Context, customerID string) (money.Amount, error) {
	var sum string
	err := r.db.WithContext(ctx).Model(&OrderModel{}).
		Select("COALESCE(SUM(total), 0)").
		Where("customer_id = ? AND status <> ?", customerID, string(domain.StatusCancelled)).
		Scan(&sum).Error
	if err != nil {
		return money.Amount{}, pkgerrors.Wrap(err, "lifetime spend")
	}
	return money.Parse(sum)
}
