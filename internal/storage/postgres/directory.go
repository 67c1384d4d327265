package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nossoguia/guia-compras/internal/domain/store"
)

const (
	listStoresSQL = `SELECT id, name, category, ad_count, featured
		FROM stores ORDER BY name`

	listDistributorsSQL = `SELECT id, name, slogan, distance_km, delivery_window, rating, fast
		FROM distributors ORDER BY rating DESC, name`
)

var _ store.Repository = (*DirectoryRepository)(nil)

// DirectoryRepository implements store.Repository backed by PostgreSQL.
type DirectoryRepository struct {
	pool *pgxpool.Pool
}

// NewDirectoryRepository returns a DirectoryRepository that uses the given pool.
func NewDirectoryRepository(pool *pgxpool.Pool) *DirectoryRepository {
	return &DirectoryRepository{pool: pool}
}

// ListStores returns all directory stores ordered by name.
func (r *DirectoryRepository) ListStores(ctx context.Context) ([]store.Store, error) {
	rows, err := r.pool.Query(ctx, listStoresSQL)
	if err != nil {
		return nil, fmt.Errorf("listing stores: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.Store, error) {
		var s store.Store
		err := row.Scan(&s.ID, &s.Name, &s.Category, &s.AdCount, &s.Featured)
		return s, err
	})
}

// ListDistributors returns all gas distributors, best rated first.
func (r *DirectoryRepository) ListDistributors(ctx context.Context) ([]store.Distributor, error) {
	rows, err := r.pool.Query(ctx, listDistributorsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing distributors: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.Distributor, error) {
		var d store.Distributor
		err := row.Scan(&d.ID, &d.Name, &d.Slogan, &d.DistanceKm, &d.DeliveryWindow, &d.Rating, &d.Fast)
		return d, err
	})
}
