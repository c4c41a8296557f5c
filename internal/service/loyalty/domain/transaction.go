// internal/service/loyalty/domain/transaction.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tienda/internal/pkg/money"
)

// TransactionType 标记积分流水的方向。
type TransactionType string

const (
	TransactionEarned   TransactionType = "earned"   // 正向：下单获得
	TransactionRedeemed TransactionType = "redeemed" // 负向：兑换折扣
)

// Transaction 是积分账本中的一条不可变流水。
// 客户余额永远是其全部流水的求和，系统中不存在可独立漂移的余额计数器。
// 流水一经写入不再更新或删除。
type Transaction struct {
	ID          uuid.UUID
	CustomerID  string
	Points      int64 // 有符号增量，正为获得、负为兑换
	Type        TransactionType
	Description string
	OrderID     *string // 产生该流水的订单，兑换流水为 nil
	CreatedAt   time.Time
}

// NewEarned 构造一条下单获得积分的流水。
func NewEarned(customerID string, points int64, description string, orderID string) *Transaction {
	return &Transaction{
		ID:          uuid.New(),
		CustomerID:  customerID,
		Points:      points,
		Type:        TransactionEarned,
		Description: description,
		OrderID:     &orderID,
		CreatedAt:   time.Now(),
	}
}

// NewRedeemed 构造一条兑换流水，points 为本次扣减的正数点数。
func NewRedeemed(customerID string, points int64, description string) *Transaction {
	return &Transaction{
		ID:          uuid.New(),
		CustomerID:  customerID,
		Points:      -points,
		Type:        TransactionRedeemed,
		Description: description,
		CreatedAt:   time.Now(),
	}
}

// PointsForTotal 是下单积分公式：每满 100 比索得 10 分，不足 100 比索不计。
// 例如合计 950 比索 → floor(950/100)*10 = 90 分。
func PointsForTotal(total money.Amount) int64 {
	return total.WholePesos() / 100 * 10
}

// DiscountForPoints 是固定兑换汇率：1000 分兑换 100 比索（每 10 分抵 1 比索）。
func DiscountForPoints(points int64) money.Amount {
	d := decimal.NewFromInt(points).Div(decimal.NewFromInt(10))
	return money.FromDecimal(d).RoundMinorUnit()
}
