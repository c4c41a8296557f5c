package domain

import (
	"testing"

	"tienda/internal/pkg/money"
)

func TestTierForThresholds(t *testing.T) {
	cases := []struct {
		spend    int64
		wantTier string
	}{
		{0, "Bronce"},
		{4999, "Bronce"},
		{5000, "Plata"},
		{19999, "Plata"},
		{20000, "Oro"},
		{49999, "Oro"},
		{50000, "Platino"},
		{1000000, "Platino"},
	}
	for _, tc := range cases {
		got := TierFor(money.FromPesos(tc.spend))
		if got.Tier.Name != tc.wantTier {
			t.Errorf("TierFor(%d) = %s, want %s", tc.spend, got.Tier.Name, tc.wantTier)
		}
	}
}

func TestTierForProgressAndRemaining(t *testing.T) {
	// Plata 走到一半：5000 + (20000-5000)/2 = 12500
	p := TierFor(money.FromPesos(12500))
	if p.Tier.Name != "Plata" {
		t.Fatalf("tier = %s, want Plata", p.Tier.Name)
	}
	if p.NextTier == nil || p.NextTier.Name != "Oro" {
		t.Fatalf("next tier = %v, want Oro", p.NextTier)
	}
	if p.Progress != 0.5 {
		t.Errorf("progress = %v, want 0.5", p.Progress)
	}
	if p.Remaining.String() != "7500.00" {
		t.Errorf("remaining = %s, want 7500.00", p.Remaining)
	}
}

func TestTierForTopTier(t *testing.T) {
	p := TierFor(money.FromPesos(80000))
	if p.Tier.Name != "Platino" {
		t.Fatalf("tier = %s, want Platino", p.Tier.Name)
	}
	if p.NextTier != nil {
		t.Errorf("next tier = %v, want nil at the top", p.NextTier)
	}
	if p.Progress != 1 {
		t.Errorf("progress = %v, want 1", p.Progress)
	}
	if !p.Remaining.IsZero() {
		t.Errorf("remaining = %s, want 0", p.Remaining)
	}
}

// 等级随消费单调不减。
func TestTierForMonotonic(t *testing.T) {
	tierIndex := func(name string) int {
		for i, tier := range Ladder() {
			if tier.Name == name {
				return i
			}
		}
		t.Fatalf("unknown tier %s", name)
		return -1
	}

	prev := -1
	for spend := int64(0); spend <= 60000; spend += 137 {
		idx := tierIndex(TierFor(money.FromPesos(spend)).Tier.Name)
		if idx < prev {
			t.Fatalf("tier decreased at spend %d", spend)
		}
		prev = idx
	}
}

func TestPointsForTotal(t *testing.T) {
	cases := []struct {
		total string
		want  int64
	}{
		{"950.00", 90},
		{"99.99", 0},
		{"100.00", 10},
		{"0.00", 0},
		{"1250.75", 120},
	}
	for _, tc := range cases {
		total, err := money.Parse(tc.total)
		if err != nil {
			t.Fatalf("parse %s: %v", tc.total, err)
		}
		if got := PointsForTotal(total); got != tc.want {
			t.Errorf("PointsForTotal(%s) = %d, want %d", tc.total, got, tc.want)
		}
	}
}

func TestDiscountForPoints(t *testing.T) {
	cases := []struct {
		points int64
		want   string
	}{
		{1000, "100.00"},
		{10, "1.00"},
		{15, "1.50"},
		{1, "0.10"},
	}
	for _, tc := range cases {
		if got := DiscountForPoints(tc.points); got.String() != tc.want {
			t.Errorf("DiscountForPoints(%d) = %s, want %s", tc.points, got, tc.want)
		}
	}
}
