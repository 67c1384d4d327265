// Package cart implements the order pricing and cart state engine: line
// items with snapshotted prices, the order summary calculation, and the
// controller that mutates cart state for a single session.
package cart

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/nossoguia/guia-compras/internal/domain/pricing"
)

// DefaultItemLabel is the product description for a gas bottle line item.
const DefaultItemLabel = "Botijão de Gás"

// FulfillmentMode selects which unit price applies to every line.
type FulfillmentMode string

const (
	ModePickup   FulfillmentMode = "pickup"
	ModeDelivery FulfillmentMode = "delivery"
)

// PaymentMethod selects the subtotal adjustment rule.
type PaymentMethod string

const (
	PaymentPix    PaymentMethod = "pix"
	PaymentCash   PaymentMethod = "cash"
	PaymentDebit  PaymentMethod = "debit"
	PaymentCredit PaymentMethod = "credit"
)

var (
	// ErrUnknownMode is returned when a string does not name a fulfillment mode.
	ErrUnknownMode = errors.New("unknown fulfillment mode")
	// ErrUnknownPayment is returned when a string does not name a payment method.
	ErrUnknownPayment = errors.New("unknown payment method")
)

// ParseMode validates enum membership for a fulfillment mode string.
func ParseMode(s string) (FulfillmentMode, error) {
	switch m := FulfillmentMode(s); m {
	case ModePickup, ModeDelivery:
		return m, nil
	}
	return "", ErrUnknownMode
}

// ParsePayment validates enum membership for a payment method string.
func ParsePayment(s string) (PaymentMethod, error) {
	switch p := PaymentMethod(s); p {
	case PaymentPix, PaymentCash, PaymentDebit, PaymentCredit:
		return p, nil
	}
	return "", ErrUnknownPayment
}

// Item is one cart line. Both unit prices are snapshotted when the line is
// created and never recomputed, even if the price table changes afterwards.
type Item struct {
	Label         string
	Weight        pricing.WeightClass
	PickupPrice   decimal.Decimal
	DeliveryPrice decimal.Decimal
	Quantity      int
}

// NewItem creates a quantity-1 line for the given weight class, pricing it
// from the current table.
func NewItem(w pricing.WeightClass) Item {
	pickup := pricing.PickupPriceFor(w)
	return Item{
		Label:         DefaultItemLabel,
		Weight:        w,
		PickupPrice:   pickup,
		DeliveryPrice: pricing.DeliveryPriceFor(w, pickup),
		Quantity:      1,
	}
}

// UnitPrice returns the per-unit price for the given fulfillment mode.
func (it Item) UnitPrice(mode FulfillmentMode) decimal.Decimal {
	if mode == ModeDelivery {
		return it.DeliveryPrice
	}
	return it.PickupPrice
}

// LineTotal returns quantity × unit price for the given mode.
func (it Item) LineTotal(mode FulfillmentMode) decimal.Decimal {
	return it.UnitPrice(mode).Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Summary is the derived pricing breakdown. It is recomputed from scratch on
// every query and never cached.
type Summary struct {
	Subtotal   decimal.Decimal
	Adjustment decimal.Decimal
	Total      decimal.Decimal
}

// pixDiscount is a flat discount, applied only to non-empty orders.
var pixDiscount = decimal.RequireFromString("0.50")

var (
	debitRate  = decimal.RequireFromString("0.02")
	creditRate = decimal.RequireFromString("0.05")
)

// Subtotal sums quantity × unit price over all items for the given mode.
func Subtotal(items []Item, mode FulfillmentMode) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal(mode))
	}
	return sum
}

// Adjustment computes the payment-method surcharge or discount. A
// non-positive subtotal always yields zero, so a flat discount can never
// drive an empty order negative.
func Adjustment(subtotal decimal.Decimal, method PaymentMethod) decimal.Decimal {
	if subtotal.Sign() <= 0 {
		return decimal.Zero
	}
	switch method {
	case PaymentPix:
		return pixDiscount.Neg()
	case PaymentDebit:
		return subtotal.Mul(debitRate)
	case PaymentCredit:
		return subtotal.Mul(creditRate)
	}
	return decimal.Zero
}

// Total floors subtotal + adjustment at zero.
func Total(subtotal, adjustment decimal.Decimal) decimal.Decimal {
	t := subtotal.Add(adjustment)
	if t.IsNegative() {
		return decimal.Zero
	}
	return t
}

// Summarize computes the full breakdown for the given cart state, rounded to
// 2 decimal places.
func Summarize(items []Item, mode FulfillmentMode, method PaymentMethod) Summary {
	subtotal := Subtotal(items, mode)
	adjustment := Adjustment(subtotal, method).Round(2)
	return Summary{
		Subtotal:   subtotal.Round(2),
		Adjustment: adjustment,
		Total:      Total(subtotal, adjustment).Round(2),
	}
}
