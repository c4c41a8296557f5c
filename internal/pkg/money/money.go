// internal/pkg/money/money.go
package money

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount 表示一个定点金额，最小单位为分（centavo，两位小数）。
// 账本内的所有金额运算都必须经过 Amount，禁止使用 float64，
// 以避免浮点误差在订单合计与积分计算中积累。
type Amount struct {
	d decimal.Decimal
}

// Zero 返回零金额。
func Zero() Amount {
	return Amount{d: decimal.Zero}
}

// FromPesos 从整数比索构造金额。
func FromPesos(v int64) Amount {
	return Amount{d: decimal.NewFromInt(v)}
}

// FromCentavos 从整数分构造金额。
func FromCentavos(v int64) Amount {
	return Amount{d: decimal.New(v, -2)}
}

// FromDecimal 从一个已有的 decimal 构造金额。
func FromDecimal(d decimal.Decimal) Amount {
	return Amount{d: d}
}

// Parse 从字符串构造金额，例如 "950" 或 "160.00"。
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Amount{d: d}, nil
}

func (a Amount) Add(b Amount) Amount { return Amount{d: a.d.Add(b.d)} }
func (a Amount) Sub(b Amount) Amount { return Amount{d: a.d.Sub(b.d)} }

// MulQty 计算单价乘以数量，用于订单行小计。
func (a Amount) MulQty(q Quantity) Amount {
	return Amount{d: a.d.Mul(decimal.NewFromInt(int64(q)))}
}

// Percent 计算金额的百分比（value 为百分数，例如 20 表示 20%），
// 结果四舍五入到分。
func (a Amount) Percent(value decimal.Decimal) Amount {
	return Amount{d: a.d.Mul(value).Div(decimal.NewFromInt(100))}.RoundMinorUnit()
}

// RoundMinorUnit 将金额四舍五入（round-half-up）到最小货币单位。
func (a Amount) RoundMinorUnit() Amount {
	// decimal.Round 对正数即为 half-up
	return Amount{d: a.d.Round(2)}
}

// Min 返回两个金额中较小的一个。
func Min(a, b Amount) Amount {
	if a.d.LessThan(b.d) {
		return a
	}
	return b
}

func (a Amount) IsZero() bool          { return a.d.IsZero() }
func (a Amount) IsNegative() bool      { return a.d.IsNegative() }
func (a Amount) LessThan(b Amount) bool { return a.d.LessThan(b.d) }
func (a Amount) Equal(b Amount) bool   { return a.d.Equal(b.d) }

// WholePesos 返回金额向下取整后的整数比索，用于积分换算公式。
func (a Amount) WholePesos() int64 {
	return a.d.Floor().IntPart()
}

// Decimal 暴露底层 decimal，仅供持久化层映射使用。
func (a Amount) Decimal() decimal.Decimal { return a.d }

// String 以两位小数格式化金额。
func (a Amount) String() string { return a.d.StringFixed(2) }

// MarshalJSON / UnmarshalJSON 让 Amount 在 API DTO 中以字符串形式出现，
// 避免 JSON number 在前端被解析为 float。
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.d.StringFixed(2) + `"`), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", s, err)
	}
	a.d = d
	return nil
}

// Value / Scan 实现 GORM 所需的数据库映射，列类型为 decimal(12,2)。
func (a Amount) Value() (driver.Value, error) {
	return a.d.StringFixed(2), nil
}

func (a *Amount) Scan(src interface{}) error {
	var d decimal.Decimal
	if err := d.Scan(src); err != nil {
		return err
	}
	a.d = d
	return nil
}

// Quantity 是订单行的非负整数数量。
type Quantity int

// NewQuantity 校验并构造数量，订单行数量必须至少为 1。
func NewQuantity(n int) (Quantity, error) {
	if n < 1 {
		return 0, fmt.Errorf("quantity must be at least 1, got %d", n)
	}
	return Quantity(n), nil
}
