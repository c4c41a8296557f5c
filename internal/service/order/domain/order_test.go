package domain

import (
	"errors"
	"testing"

	"tienda/internal/pkg/money"
)

func item(price int64, qty int) OrderItem {
	return OrderItem{
		ProductID: "p-1",
		Name:      "Camiseta",
		UnitPrice: money.FromPesos(price),
		Quantity:  money.Quantity(qty),
	}
}

func TestNewOrderComputesTotals(t *testing.T) {
	o, err := NewOrder("cust-1", []OrderItem{item(400, 2), item(150, 1)}, money.FromPesos(50), "card")
	if err != nil {
		t.Fatalf("new order: %v", err)
	}
	if o.Subtotal.String() != "950.00" {
		t.Errorf("subtotal = %s, want 950.00", o.Subtotal)
	}
	if o.Total.String() != "1000.00" {
		t.Errorf("total = %s, want 1000.00", o.Total)
	}
	if o.Status != StatusPending || o.PaymentStatus != PaymentPending {
		t.Errorf("initial state = %s/%s, want pending/pending", o.Status, o.PaymentStatus)
	}
}

func TestApplyDiscountKeepsTotalIdentity(t *testing.T) {
	o, err := NewOrder("cust-1", []OrderItem{item(800, 1)}, money.FromPesos(100), "card")
	if err != nil {
		t.Fatalf("new order: %v", err)
	}
	o.ApplyDiscount("VERANO20", money.FromPesos(160))

	// total == subtotal + shipping - discount
	want := o.Subtotal.Add(o.ShippingCost).Sub(o.Discount)
	if !o.Total.Equal(want) {
		t.Errorf("total = %s, want %s", o.Total, want)
	}
	if o.Total.String() != "740.00" {
		t.Errorf("total = %s, want 740.00", o.Total)
	}
}

func TestApplyDiscountNeverGoesNegative(t *testing.T) {
	o, err := NewOrder("cust-1", []OrderItem{item(300, 1)}, money.Zero(), "card")
	if err != nil {
		t.Fatalf("new order: %v", err)
	}
	o.ApplyDiscount("MIL", money.FromPesos(1000))
	if o.Total.IsNegative() {
		t.Fatalf("total went negative: %s", o.Total)
	}
	if o.Total.String() != "0.00" {
		t.Errorf("total = %s, want 0.00", o.Total)
	}
}

func TestNewOrderValidation(t *testing.T) {
	tests := []struct {
		name     string
		items    []OrderItem
		shipping money.Amount
		want     error
	}{
		{"empty items", nil, money.Zero(), ErrEmptyItems},
		{"zero quantity", []OrderItem{item(100, 0)}, money.Zero(), ErrInvalidQuantity},
		{"negative price", []OrderItem{item(-1, 1)}, money.Zero(), ErrNegativePrice},
		{"negative shipping", []OrderItem{item(100, 1)}, money.FromPesos(-5), ErrNegativeShipping},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOrder("cust-1", tt.items, tt.shipping, "card")
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestStatusTransitionTable(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPending, StatusConfirmed},
		{StatusConfirmed, StatusProcessing},
		{StatusProcessing, StatusShipped},
		{StatusShipped, StatusDelivered},
	}
	for _, tr := range allowed {
		if !tr.from.CanTransitionTo(tr.to) {
			t.Errorf("%s -> %s should be allowed", tr.from, tr.to)
		}
	}

	// cancelled 可从任何非终态进入
	for _, from := range []Status{StatusPending, StatusConfirmed, StatusProcessing, StatusShipped} {
		if !from.CanTransitionTo(StatusCancelled) {
			t.Errorf("%s -> cancelled should be allowed", from)
		}
	}

	denied := []struct{ from, to Status }{
		{StatusDelivered, StatusPending},
		{StatusDelivered, StatusCancelled},
		{StatusCancelled, StatusShipped},
		{StatusPending, StatusShipped},
		{StatusShipped, StatusConfirmed},
	}
	for _, tr := range denied {
		if tr.from.CanTransitionTo(tr.to) {
			t.Errorf("%s -> %s should be denied", tr.from, tr.to)
		}
	}
}

// pending→confirmed→cancelled 成立，之后 cancelled→shipped 必须失败。
func TestCancelledIsTerminal(t *testing.T) {
	if !StatusPending.CanTransitionTo(StatusConfirmed) {
		t.Fatal("pending -> confirmed should be allowed")
	}
	if !StatusConfirmed.CanTransitionTo(StatusCancelled) {
		t.Fatal("confirmed -> cancelled should be allowed")
	}
	if StatusCancelled.CanTransitionTo(StatusShipped) {
		t.Fatal("cancelled -> shipped should be denied")
	}
}

func TestPaymentTransitionTable(t *testing.T) {
	if !PaymentPending.CanTransitionTo(PaymentPaid) {
		t.Error("pending -> paid should be allowed")
	}
	if !PaymentPaid.CanTransitionTo(PaymentRefunded) {
		t.Error("paid -> refunded should be allowed")
	}
	for _, tr := range []struct {
		from, to PaymentStatus
	}{
		{PaymentPending, PaymentRefunded},
		{PaymentPaid, PaymentPending},
		{PaymentRefunded, PaymentPending},
		{PaymentRefunded, PaymentPaid},
	} {
		if tr.from.CanTransitionTo(tr.to) {
			t.Errorf("%s -> %s should be denied", tr.from, tr.to)
		}
	}
}
