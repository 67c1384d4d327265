// Command seed-db loads the directory seed file (categories, stores, gas
// distributors, advertisements) into PostgreSQL. Safe to re-run: every row is
// upserted by its natural key.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/nossoguia/guia-compras/internal/storage/postgres"
)

type seedFile struct {
	Categories []struct {
		Name       string `json:"name"`
		StoreCount int    `json:"store_count"`
		FreeAds    bool   `json:"free_ads"`
		Position   int    `json:"position"`
	} `json:"categories"`
	Stores []struct {
		Name     string `json:"name"`
		Category string `json:"category"`
		AdCount  int    `json:"ad_count"`
		Featured bool   `json:"featured"`
	} `json:"stores"`
	Distributors []struct {
		Name           string          `json:"name"`
		Slogan         string          `json:"slogan"`
		DistanceKm     decimal.Decimal `json:"distance_km"`
		DeliveryWindow string          `json:"delivery_window"`
		Rating         int             `json:"rating"`
		Fast           bool            `json:"fast"`
	} `json:"distributors"`
	Ads []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Advertiser  string `json:"advertiser"`
		Category    string `json:"category"`
		Type        string `json:"type"`
	} `json:"ads"`
}

func main() {
	var (
		databaseURL string
		seedPath    string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&seedPath, "seed-file", "db/seed/directory.json", "path to directory seed JSON file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, seedPath); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, seedPath string) error {
	slog.Info("reading seed file", slog.String("path", seedPath))

	data, err := os.ReadFile(seedPath)
	if err != nil {
		return errors.Wrap(err, "read seed file")
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return errors.Wrap(err, "parse seed JSON")
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedCategories(ctx, pool, seed); err != nil {
		return errors.Wrap(err, "seed categories")
	}
	if err := seedStores(ctx, pool, seed); err != nil {
		return errors.Wrap(err, "seed stores")
	}
	if err := seedDistributors(ctx, pool, seed); err != nil {
		return errors.Wrap(err, "seed distributors")
	}
	if err := seedAds(ctx, pool, seed); err != nil {
		return errors.Wrap(err, "seed ads")
	}

	return nil
}

func seedCategories(ctx context.Context, pool *pgxpool.Pool, seed seedFile) error {
	slog.Info("upserting categories", slog.Int("count", len(seed.Categories)))

	const q = `INSERT INTO categories (name, store_count, free_ads, position)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE
		SET store_count = EXCLUDED.store_count,
		    free_ads    = EXCLUDED.free_ads,
		    position    = EXCLUDED.position`

	for _, c := range seed.Categories {
		if _, err := pool.Exec(ctx, q, c.Name, c.StoreCount, c.FreeAds, c.Position); err != nil {
			return errors.Wrapf(err, "upsert category %s", c.Name)
		}
	}
	return nil
}

func seedStores(ctx context.Context, pool *pgxpool.Pool, seed seedFile) error {
	slog.Info("upserting stores", slog.Int("count", len(seed.Stores)))

	const q = `INSERT INTO stores (id, name, category, ad_count, featured)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE
		SET category = EXCLUDED.category,
		    ad_count = EXCLUDED.ad_count,
		    featured = EXCLUDED.featured`

	for _, s := range seed.Stores {
		if _, err := pool.Exec(ctx, q, uuid.New().String(), s.Name, s.Category, s.AdCount, s.Featured); err != nil {
			return errors.Wrapf(err, "upsert store %s", s.Name)
		}
		slog.Info("upserted store", slog.String("name", s.Name))
	}
	return nil
}

func seedDistributors(ctx context.Context, pool *pgxpool.Pool, seed seedFile) error {
	slog.Info("upserting distributors", slog.Int("count", len(seed.Distributors)))

	const q = `INSERT INTO distributors (id, name, slogan, distance_km, delivery_window, rating, fast)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (name) DO UPDATE
		SET slogan          = EXCLUDED.slogan,
		    distance_km     = EXCLUDED.distance_km,
		    delivery_window = EXCLUDED.delivery_window,
		    rating          = EXCLUDED.rating,
		    fast            = EXCLUDED.fast`

	for _, d := range seed.Distributors {
		if _, err := pool.Exec(ctx, q,
			uuid.New().String(), d.Name, d.Slogan, d.DistanceKm, d.DeliveryWindow, d.Rating, d.Fast,
		); err != nil {
			return errors.Wrapf(err, "upsert distributor %s", d.Name)
		}
		slog.Info("upserted distributor", slog.String("name", d.Name))
	}
	return nil
}

func seedAds(ctx context.Context, pool *pgxpool.Pool, seed seedFile) error {
	slog.Info("upserting ads", slog.Int("count", len(seed.Ads)))

	const q = `INSERT INTO ads (id, title, description, advertiser, category, type)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (title, advertiser) DO UPDATE
		SET description = EXCLUDED.description,
		    category    = EXCLUDED.category,
		    type        = EXCLUDED.type`

	for _, a := range seed.Ads {
		if _, err := pool.Exec(ctx, q,
			uuid.New().String(), a.Title, a.Description, a.Advertiser, a.Category, a.Type,
		); err != nil {
			return errors.Wrapf(err, "upsert ad %s", a.Title)
		}
	}
	return nil
}
