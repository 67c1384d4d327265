package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/nossoguia/guia-compras/internal/domain/pricing"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "got %s, want %s", got, want)
}

func TestSubtotal(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
		mode  FulfillmentMode
		want  string
	}{
		{name: "empty cart pickup", items: nil, mode: ModePickup, want: "0"},
		{name: "empty cart delivery", items: nil, mode: ModeDelivery, want: "0"},
		{
			name:  "one 5 kg bottle delivered",
			items: []Item{NewItem(pricing.Weight5)},
			mode:  ModeDelivery,
			want:  "88.81",
		},
		{
			name:  "one 5 kg bottle picked up",
			items: []Item{NewItem(pricing.Weight5)},
			mode:  ModePickup,
			want:  "83.00",
		},
		{
			name: "quantities multiply",
			items: func() []Item {
				it := NewItem(pricing.Weight13)
				it.Quantity = 3
				return []Item{it}
			}(),
			mode: ModePickup,
			want: "435.00",
		},
		{
			name:  "mixed lines sum",
			items: []Item{NewItem(pricing.Weight5), NewItem(pricing.Weight13)},
			mode:  ModeDelivery,
			want:  "248.31", // 88.81 + 159.50
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDecimal(t, tt.want, Subtotal(tt.items, tt.mode))
		})
	}
}

func TestAdjustment(t *testing.T) {
	tests := []struct {
		name     string
		subtotal string
		method   PaymentMethod
		want     string
	}{
		{name: "pix flat discount", subtotal: "88.81", method: PaymentPix, want: "-0.50"},
		{name: "pix guard on zero subtotal", subtotal: "0", method: PaymentPix, want: "0"},
		{name: "cash is free", subtotal: "100.00", method: PaymentCash, want: "0"},
		{name: "debit adds 2%", subtotal: "100.00", method: PaymentDebit, want: "2.00"},
		{name: "credit adds 5%", subtotal: "100.00", method: PaymentCredit, want: "5.00"},
		{name: "credit guard on zero subtotal", subtotal: "0", method: PaymentCredit, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDecimal(t, tt.want, Adjustment(dec(tt.subtotal), tt.method))
		})
	}
}

func TestTotal(t *testing.T) {
	assertDecimal(t, "88.31", Total(dec("88.81"), dec("-0.50")))
	assertDecimal(t, "0", Total(dec("0"), dec("0")))

	// Total never goes negative, even if an adjustment policy were to
	// exceed the subtotal.
	assertDecimal(t, "0", Total(dec("0.30"), dec("-0.50")))
}

func TestSummarize(t *testing.T) {
	items := []Item{NewItem(pricing.Weight5)}

	s := Summarize(items, ModeDelivery, PaymentPix)
	assertDecimal(t, "88.81", s.Subtotal)
	assertDecimal(t, "-0.50", s.Adjustment)
	assertDecimal(t, "88.31", s.Total)

	s = Summarize(nil, ModeDelivery, PaymentPix)
	assertDecimal(t, "0", s.Subtotal)
	assertDecimal(t, "0", s.Adjustment)
	assertDecimal(t, "0", s.Total)
}

func TestNewItemSnapshotsPrices(t *testing.T) {
	it := NewItem(pricing.Weight10)

	assert.Equal(t, DefaultItemLabel, it.Label)
	assert.Equal(t, 1, it.Quantity)
	assertDecimal(t, "125.00", it.PickupPrice)
	assertDecimal(t, "136.25", it.DeliveryPrice)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("pickup")
	assert.NoError(t, err)
	assert.Equal(t, ModePickup, m)

	_, err = ParseMode("teleport")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestParsePayment(t *testing.T) {
	p, err := ParsePayment("credit")
	assert.NoError(t, err)
	assert.Equal(t, PaymentCredit, p)

	_, err = ParsePayment("barter")
	assert.ErrorIs(t, err, ErrUnknownPayment)
}
