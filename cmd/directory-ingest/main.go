// Command directory-ingest imports store names from gzipped municipal
// listing dumps (listings1.gz .. listingsN.gz, one name per line). The dumps
// are noisy, so a name only enters the directory when it appears in at least
// two independent dumps.
//
// Two passes over the data: pass 1 builds a bloom filter per file
// concurrently, pass 2 re-streams each file and keeps names that another
// file's filter also claims. Confirmed names are upserted as stores.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/bits"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/nossoguia/guia-compras/internal/storage/postgres"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	numFiles      = 3
	progressEvery = 1_000_000
	minNameLen    = 3
	maxNameLen    = 64
)

// fileResult holds candidate names found in a single file during pass 2.
type fileResult struct {
	candidates map[string]uint
}

func main() {
	var (
		dataDir     string
		databaseURL string
		category    string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing listingsN.gz files")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&category, "category", "COMÉRCIO NOSSO", "directory category for imported stores")
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

	if err := run(ctx, dataDir, databaseURL, category); err != nil {
		slog.Error("directory ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("directory ingest completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL, category string) error {
	files := make([]string, numFiles)
	for i := range numFiles {
		files[i] = filepath.Join(dataDir, fmt.Sprintf("listings%d.gz", i+1))
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	// Pass 1: build bloom filters concurrently.
	slog.Info("pass 1: building bloom filters", slog.Int("files", numFiles))

	filters, err := buildBloomFilters(ctx, files)
	if err != nil {
		return errors.Wrap(err, "build bloom filters")
	}

	// Pass 2: keep names confirmed by 2+ files.
	slog.Info("pass 2: confirming cross-listed names")

	confirmed, err := findConfirmedNames(ctx, files, filters)
	if err != nil {
		return errors.Wrap(err, "find confirmed names")
	}

	slog.Info("confirmed names", slog.Int("count", len(confirmed)))

	if len(confirmed) == 0 {
		slog.Info("no stores to insert")
		return nil
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := writeStores(ctx, pool, category, confirmed); err != nil {
		return errors.Wrap(err, "write stores to database")
	}

	return nil
}

// buildBloomFilters creates one bloom filter per file, concurrently.
func buildBloomFilters(ctx context.Context, files []string) ([]*bloom.BloomFilter, error) {
	filters := make([]*bloom.BloomFilter, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(buildFilterForFile(ctx, i, f, filters))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return filters, nil
}

func buildFilterForFile(ctx context.Context, idx int, path string, filters []*bloom.BloomFilter) func() error {
	return func() error {
		filter := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
		var count uint64

		if err := streamGzFile(ctx, path, func(name string) {
			filter.AddString(name)
			count++
			if count%progressEvery == 0 {
				slog.Info("pass 1 progress",
					slog.Int("file", idx+1),
					slog.Uint64("names", count),
				)
			}
		}); err != nil {
			return errors.Wrapf(err, "build filter for file %d", idx+1)
		}

		slog.Info("pass 1 complete",
			slog.Int("file", idx+1),
			slog.Uint64("total_names", count),
		)

		filters[idx] = filter
		return nil
	}
}

// findConfirmedNames re-streams each file and checks names against the OTHER
// files' bloom filters. A name is confirmed when 2+ files list it.
func findConfirmedNames(ctx context.Context, files []string, filters []*bloom.BloomFilter) ([]string, error) {
	results := make([]fileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(findCandidatesInFile(ctx, i, f, filters, results))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[string]uint)
	for _, r := range results {
		for name, mask := range r.candidates {
			merged[name] |= mask
		}
	}

	var confirmed []string
	for name, mask := range merged {
		if bits.OnesCount(mask) >= 2 {
			confirmed = append(confirmed, name)
		}
	}

	return confirmed, nil
}

func findCandidatesInFile(
	ctx context.Context,
	idx int,
	path string,
	filters []*bloom.BloomFilter,
	results []fileResult,
) func() error {
	return func() error {
		candidates := make(map[string]uint)
		fileBit := uint(1) << uint(idx)

		if err := streamGzFile(ctx, path, func(name string) {
			for j, f := range filters {
				if j == idx {
					continue
				}
				if f.TestString(name) {
					candidates[name] |= fileBit
					break
				}
			}
		}); err != nil {
			return errors.Wrapf(err, "scan file %d for candidates", idx+1)
		}

		slog.Info("pass 2 complete",
			slog.Int("file", idx+1),
			slog.Int("candidates", len(candidates)),
		)

		results[idx] = fileResult{candidates: candidates}
		return nil
	}
}

// streamGzFile opens a gzip-compressed file and calls fn for each cleaned,
// length-valid store name.
func streamGzFile(ctx context.Context, path string, fn func(name string)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := strings.TrimSpace(scanner.Text())
		if len(name) >= minNameLen && len(name) <= maxNameLen {
			fn(name)
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}

// writeStores upserts the confirmed names under the target category, which is
// created first so the foreign key holds.
func writeStores(ctx context.Context, pool *pgxpool.Pool, category string, names []string) error {
	slog.Info("writing stores to database",
		slog.Int("count", len(names)),
		slog.String("category", category),
	)

	const upsertCategory = `INSERT INTO categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`
	if _, err := pool.Exec(ctx, upsertCategory, category); err != nil {
		return errors.Wrapf(err, "upsert category %s", category)
	}

	const upsertStore = `INSERT INTO stores (id, name, category)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO NOTHING`

	for i, name := range names {
		if _, err := pool.Exec(ctx, upsertStore, uuid.New().String(), name, category); err != nil {
			return errors.Wrapf(err, "upsert store %s", name)
		}

		if (i+1)%100 == 0 || i+1 == len(names) {
			slog.Info("write progress", slog.Int("written", i+1), slog.Int("total", len(names)))
		}
	}

	return nil
}
