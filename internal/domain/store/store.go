// Package store holds the business directory entities: supermarkets, gas
// distributors, and store registrations.
package store

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested directory entry does not exist.
var ErrNotFound = errors.New("store not found")

// Store is a directory entry shown in the supermarket listing.
type Store struct {
	ID       string
	Name     string
	Category string
	AdCount  int
	Featured bool
}

// Distributor is a gas distributor storefront with its delivery profile.
type Distributor struct {
	ID             string
	Name           string
	Slogan         string
	DistanceKm     decimal.Decimal
	DeliveryWindow string
	Rating         int // approval percentage, 0-100
	Fast           bool
}

// Repository provides read access to the directory.
type Repository interface {
	ListStores(ctx context.Context) ([]Store, error)
	ListDistributors(ctx context.Context) ([]Distributor, error)
}

// RegistrationRepository persists submitted store registrations.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *Registration) error
}
