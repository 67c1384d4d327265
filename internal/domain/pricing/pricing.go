// Package pricing holds the gas bottle price table and the delivery price
// derivation rules.
package pricing

import "github.com/shopspring/decimal"

// WeightClass identifies a gas bottle size, e.g. "13 kg".
type WeightClass string

// The known weight classes, in menu order.
const (
	Weight5  WeightClass = "5 kg"
	Weight8  WeightClass = "8 kg"
	Weight10 WeightClass = "10 kg"
	Weight13 WeightClass = "13 kg"
)

// Classes lists every known weight class in menu order.
var Classes = []WeightClass{Weight5, Weight8, Weight10, Weight13}

// pickupPrices is the unit price when the customer collects in person.
var pickupPrices = map[WeightClass]decimal.Decimal{
	Weight5:  decimal.RequireFromString("83.00"),
	Weight8:  decimal.RequireFromString("110.00"),
	Weight10: decimal.RequireFromString("125.00"),
	Weight13: decimal.RequireFromString("145.00"),
}

// deliveryMultipliers scales the pickup price per weight class. Anything
// outside the known four falls through to defaultMultiplier.
var deliveryMultipliers = map[WeightClass]decimal.Decimal{
	Weight5:  decimal.RequireFromString("1.07"),
	Weight8:  decimal.RequireFromString("1.08"),
	Weight10: decimal.RequireFromString("1.09"),
}

var defaultMultiplier = decimal.RequireFromString("1.10")

// PickupPriceFor returns the pickup unit price for a weight class. An
// unrecognized class resolves to the 13 kg entry; the lookup never fails.
func PickupPriceFor(w WeightClass) decimal.Decimal {
	if p, ok := pickupPrices[w]; ok {
		return p
	}
	return pickupPrices[Weight13]
}

// DeliveryPriceFor derives the delivery unit price from a pickup price.
// Unknown classes use the same catch-all multiplier as 13 kg, mirroring the
// pickup fallback policy.
func DeliveryPriceFor(w WeightClass, pickup decimal.Decimal) decimal.Decimal {
	m, ok := deliveryMultipliers[w]
	if !ok {
		m = defaultMultiplier
	}
	return pickup.Mul(m)
}
