// internal/service/loyalty/domain/tier.go
package domain

import (
	"tienda/internal/pkg/money"
)

// Tier 是会员等级阶梯上的一级，由累计消费解锁。
// 等级从不落库：永远在查询时由历史订单合计推导。
type Tier struct {
	Name     string       `json:"name"`
	MinSpent money.Amount `json:"min_spent"`
	Benefits []string     `json:"benefits"`
}

// TierProgress 描述客户当前所处等级与升级进度。
type TierProgress struct {
	Tier      Tier         `json:"tier"`
	NextTier  *Tier        `json:"next_tier,omitempty"`
	Progress  float64      `json:"progress"`  // [0,1]，顶级恒为 1
	Remaining money.Amount `json:"remaining"` // 距下一级还差多少消费，顶级为 0
}

// ladder 是静态的四级阶梯，按 MinSpent 升序排列。
var ladder = []Tier{
	{
		Name:     "Bronce",
		MinSpent: money.FromPesos(0),
		Benefits: []string{
			"10 puntos por cada $100 de compra",
			"Promociones exclusivas por correo",
		},
	},
	{
		Name:     "Plata",
		MinSpent: money.FromPesos(5000),
		Benefits: []string{
			"Todo lo de Bronce",
			"Acceso anticipado a rebajas",
			"Envio gratis en pedidos mayores a $999",
		},
	},
	{
		Name:     "Oro",
		MinSpent: money.FromPesos(20000),
		Benefits: []string{
			"Todo lo de Plata",
			"Envio gratis en todos los pedidos",
			"Atencion prioritaria",
		},
	},
	{
		Name:     "Platino",
		MinSpent: money.FromPesos(50000),
		Benefits: []string{
			"Todo lo de Oro",
			"Regalo de cumpleanos",
			"Acceso a ventas privadas",
		},
	},
}

// Ladder 返回完整阶梯（防御性拷贝，调用方不能改动阶梯本身）。
func Ladder() []Tier {
	out := make([]Tier, len(ladder))
	copy(out, ladder)
	return out
}

// TierFor 在阶梯上定位累计消费对应的等级并计算升级进度。
// 随消费单调不减：消费增加永远不会掉级。
func TierFor(lifetimeSpend money.Amount) TierProgress {
	idx := 0
	for i, t := range ladder {
		if !lifetimeSpend.LessThan(t.MinSpent) {
			idx = i
		}
	}

	current := ladder[idx]
	if idx == len(ladder)-1 {
		// 已在顶级
		return TierProgress{
			Tier:      current,
			Progress:  1,
			Remaining: money.Zero(),
		}
	}

	next := ladder[idx+1]
	span := next.MinSpent.Sub(current.MinSpent)
	gained := lifetimeSpend.Sub(current.MinSpent)
	progress := gained.Decimal().Div(span.Decimal()).InexactFloat64()
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	return TierProgress{
		Tier:      current,
		NextTier:  &next,
		Progress:  progress,
		Remaining: next.MinSpent.Sub(lifetimeSpend),
	}
}
