// Command seed-db loads the menu catalog into the database. By default it
// uses the embedded seed data; pass --menu-file to load a custom catalog.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/foodworks/foodies-api/db"
	"github.com/foodworks/foodies-api/internal/repository"
)

type menuItemJSON struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Veg      bool            `json:"veg"`
	Image    struct {
		Thumbnail string `json:"thumbnail"`
		Mobile    string `json:"mobile"`
		Tablet    string `json:"tablet"`
		Desktop   string `json:"desktop"`
	} `json:"image"`
}

const upsertMenuItemSQL = `INSERT INTO menu_items (id, name, price, category, veg, image_thumbnail, image_mobile, image_tablet, image_desktop)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		price = EXCLUDED.price,
		category = EXCLUDED.category,
		veg = EXCLUDED.veg,
		image_thumbnail = EXCLUDED.image_thumbnail,
		image_mobile = EXCLUDED.image_mobile,
		image_tablet = EXCLUDED.image_tablet,
		image_desktop = EXCLUDED.image_desktop`

func main() {
	var (
		databaseURL string
		menuFile    string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&menuFile, "menu-file", "", "path to a menu JSON file (default: embedded seed data)")
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

	if err := run(ctx, databaseURL, menuFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, menuFile string) error {
	data := db.SeedMenu
	if menuFile != "" {
		var err error
		data, err = os.ReadFile(menuFile)
		if err != nil {
			return errors.Wrapf(err, "read %s", menuFile)
		}
	}

	var items []menuItemJSON
	if err := json.Unmarshal(data, &items); err != nil {
		return errors.Wrap(err, "parse menu JSON")
	}

	slog.Info("connecting to database")
	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	for _, item := range items {
		_, err := pool.Exec(ctx, upsertMenuItemSQL,
			item.ID, item.Name, item.Price, item.Category, item.Veg,
			item.Image.Thumbnail, item.Image.Mobile, item.Image.Tablet, item.Image.Desktop,
		)
		if err != nil {
			return errors.Wrapf(err, "upsert menu item %s", item.ID)
		}
	}

	slog.Info("menu seeded", slog.Int("items", len(items)))
	return nil
}
