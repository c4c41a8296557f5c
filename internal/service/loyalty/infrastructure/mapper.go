// internal/service/loyalty/infrastructure/mapper.go
package infrastructure

import (
	"database/sql"

	"github.com/google/uuid"

	"tienda/internal/service/loyalty/domain"
)

// ToDomainTransaction 将数据库模型转换为领域模型。
func ToDomainTransaction(model *LoyaltyTransactionModel) (*domain.Transaction, error) {
	if model == nil {
		return nil, nil
	}
	id, err := uuid.Parse(model.ID)
	if err != nil {
		return nil, err
	}
	tx := &domain.Transaction{
		ID:          id,
		CustomerID:  model.CustomerID,
		Points:      model.Points,
		Type:        domain.TransactionType(model.Type),
		Description: model.Description,
		CreatedAt:   model.CreatedAt,
	}
	if model.OrderID.Valid {
		orderID := model.OrderID.String
		tx.OrderID = &orderID
	}
	return tx, nil
}

// FromDomainTransaction 将领域模型转换为数据库模型（仅用于插入）。
func FromDomainTransaction(tx *domain.Transaction) *LoyaltyTransactionModel {
	if tx == nil {
		return nil
	}
	model := &LoyaltyTransactionModel{
		ID:          tx.ID.String(),
		CustomerID:  tx.CustomerID,
		Points:      tx.Points,
		Type:        string(tx.Type),
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt,
	}
	if tx.OrderID != nil {
		model.OrderID = sql.NullString{String: *tx.OrderID, Valid: true}
	}
	return model
}
