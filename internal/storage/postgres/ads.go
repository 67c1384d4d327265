package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nossoguia/guia-compras/internal/domain/ads"
)

const (
	listCategoriesSQL = `SELECT name, store_count, free_ads
		FROM categories ORDER BY position`

	listAdsSQL = `SELECT id, title, description, advertiser, category, type
		FROM ads ORDER BY title`

	listAdsByCategorySQL = `SELECT id, title, description, advertiser, category, type
		FROM ads WHERE category = $1 ORDER BY title`
)

var _ ads.Repository = (*AdRepository)(nil)

// AdRepository implements ads.Repository backed by PostgreSQL.
type AdRepository struct {
	pool *pgxpool.Pool
}

// NewAdRepository returns an AdRepository that uses the given pool.
func NewAdRepository(pool *pgxpool.Pool) *AdRepository {
	return &AdRepository{pool: pool}
}

// ListCategories returns the directory categories in display order.
func (r *AdRepository) ListCategories(ctx context.Context) ([]ads.Category, error) {
	rows, err := r.pool.Query(ctx, listCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (ads.Category, error) {
		var c ads.Category
		err := row.Scan(&c.Name, &c.StoreCount, &c.FreeAds)
		return c, err
	})
}

// ListAds returns ads in the given category, or all ads when category is
// empty.
func (r *AdRepository) ListAds(ctx context.Context, category string) ([]ads.Ad, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if category == "" {
		rows, err = r.pool.Query(ctx, listAdsSQL)
	} else {
		rows, err = r.pool.Query(ctx, listAdsByCategorySQL, category)
	}
	if err != nil {
		return nil, fmt.Errorf("listing ads: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (ads.Ad, error) {
		var a ads.Ad
		err := row.Scan(&a.ID, &a.Title, &a.Description, &a.Advertiser, &a.Category, &a.Type)
		return a, err
	})
}
