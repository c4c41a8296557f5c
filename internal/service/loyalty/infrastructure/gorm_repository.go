// internal/service/loyalty/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tienda/internal/service/loyalty/domain"
)

// GormTransactionRepository 是 domain.TransactionRepository 的 GORM 实现。
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository 创建一个新的 GORM 仓储实例。
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

func (r *GormTransactionRepository) Balance(ctx context.Context, customerID string) (int64, error) {
	var balance int64
	err := r.db.WithContext(ctx).Model(&LoyaltyTransactionModel{}).
		Where("customer_id = ?", customerID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&balance).Error
	if err != nil {
		return 0, pkgerrors.Wrap(err, "sum loyalty balance")
	}
	return balance, nil
}

func (r *GormTransactionRepository) Append(ctx context.Context, tx *domain.Transaction) error {
	if err := r.db.WithContext(ctx).Create(FromDomainTransaction(tx)).Error; err != nil {
		return pkgerrors.Wrap(err, "append loyalty transaction")
	}
	return nil
}

// AppendRedemption 在单个数据库事务内锁定该客户的流水、重读余额、
// 校验充足性、插入负向流水。FOR UPDATE 把并发兑换串行化：
// 余额刚好够一次兑换时，两个并发请求只有一个能通过校验。
func (r *GormTransactionRepository) AppendRedemption(ctx context.Context, tx *domain.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		var balance int64
		err := dbtx.Model(&LoyaltyTransactionModel{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("customer_id = ?", tx.CustomerID).
			Select("COALESCE(SUM(points), 0)").
			Scan(&balance).Error
		if err != nil {
			return pkgerrors.Wrap(err, "sum balance for redemption")
		}

		// tx.Points 为负数
		if balance+tx.Points < 0 {
			return domain.ErrInsufficientPoints
		}

		if err := dbtx.Create(FromDomainTransaction(tx)).Error; err != nil {
			return pkgerrors.Wrap(err, "append redemption transaction")
		}
		return nil
	})
}

func (r *GormTransactionRepository) History(ctx context.Context, customerID string, limit, offset int) ([]*domain.Transaction, error) {
	var models []LoyaltyTransactionModel
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list loyalty history")
	}

	txs := make([]*domain.Transaction, 0, len(models))
	for i := range models {
		tx, err := ToDomainTransaction(&models[i])
		if err != nil {
			return nil, pkgerrors.Wrap(err, "map loyalty transaction")
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
