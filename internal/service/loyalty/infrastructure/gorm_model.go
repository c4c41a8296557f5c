// internal/service/loyalty/infrastructure/gorm_model.go
package infrastructure

import (
	"database/sql"
	"time"
)

// LoyaltyTransactionModel 对应数据库中的 loyalty_transactions 表。
// 该表只插入、从不更新或删除，余额与累计数据全部由求和推导。
type LoyaltyTransactionModel struct {
	ID          string `gorm:"primaryKey;size:36"`
	CustomerID  string `gorm:"index;size:64;not null"`
	Points      int64  `gorm:"not null"`
	Type        string `gorm:"size:16;not null"`
	Description string `gorm:"size:255"`
	OrderID     sql.NullString `gorm:"size:36"`
	CreatedAt   time.Time `gorm:"index"`
}

// TableName 指定 GORM 应该使用的表名
func (LoyaltyTransactionModel) TableName() string {
	return "loyalty_transactions"
}
