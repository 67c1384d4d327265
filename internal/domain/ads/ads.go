// Package ads models the categorized advertisement directory.
package ads

import "context"

// Type distinguishes how an advertisement was placed and rendered.
type Type string

const (
	TypeFree  Type = "free"
	TypePaid  Type = "paid"
	TypeVideo Type = "video"
	TypeAudio Type = "audio"
)

// Ad is a single advertisement shown in the carousel and listings.
type Ad struct {
	ID          string
	Title       string
	Description string
	Advertiser  string
	Category    string
	Type        Type
}

// Category is a directory section with its store counter.
type Category struct {
	Name       string
	StoreCount int
	FreeAds    bool
}

// Repository provides read access to advertisements and category counters.
type Repository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	// ListAds returns ads in the given category, or all ads when category
	// is empty.
	ListAds(ctx context.Context, category string) ([]Ad, error)
}
