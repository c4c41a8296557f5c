// internal/service/loyalty/application/dto.go
package application

import (
	"time"

	"tienda/internal/pkg/money"
	"tienda/internal/service/loyalty/domain"
)

// RedeemPointsRequest 是客户发起的积分兑换入参。
type RedeemPointsRequest struct {
	CustomerID string `json:"customer_id"`
	Points     int64  `json:"points"`
}

// RedeemPointsResponse 返回兑换出的折扣额与兑换后的余额。
// 折扣不会自动挂到任何订单上，由调用方带入下一次结账。
type RedeemPointsResponse struct {
	Points         int64        `json:"points"`
	DiscountAmount money.Amount `json:"discount_amount"`
	Balance        int64        `json:"balance"`
}

// TransactionView 是对外的流水视图。
type TransactionView struct {
	ID          string    `json:"id"`
	Points      int64     `json:"points"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	OrderID     *string   `json:"order_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// HistoryResponse 是分页的流水列表。
type HistoryResponse struct {
	Transactions []*TransactionView `json:"transactions"`
	Limit        int                `json:"limit"`
	Offset       int                `json:"offset"`
}

// TierProgressResponse 返回等级、升级进度与推导所用的累计消费。
type TierProgressResponse struct {
	Tier          domain.Tier  `json:"tier"`
	NextTier      *domain.Tier `json:"next_tier,omitempty"`
	Progress      float64      `json:"progress"`
	Remaining     money.Amount `json:"remaining"`
	LifetimeSpend money.Amount `json:"lifetime_spend"`
}

func toTransactionView(tx *domain.Transaction) *TransactionView {
	return &TransactionView{
		ID:          tx.ID.String(),
		Points:      tx.Points,
		Type:        string(tx.Type),
		Description: tx.Description,
		OrderID:     tx.OrderID,
		CreatedAt:   tx.CreatedAt,
	}
}
