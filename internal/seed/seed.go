package seed

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Simplici0/giftquote/internal/catalog"
	"github.com/Simplici0/giftquote/internal/db"
	"github.com/Simplici0/giftquote/internal/quote"
)

// DefaultProducts are inserted into an empty catalog.
var DefaultProducts = []catalog.Product{
	{ID: "seed-basket", Name: "סלסלת קש", Details: "M", Price: 14, ProductType: "אריזה", UnitsPerCarton: 2},
	{ID: "seed-sticker", Name: "מדבקת מיתוג", Details: "לוגו לקוח", Price: 1.5, ProductType: "מיתוג", UnitsPerCarton: 1},
	{ID: "seed-wine", Name: "יין אדום", Details: "750ml", Price: 42, ProductType: "יין", UnitsPerCarton: 6},
	{ID: "seed-honey", Name: "צנצנת דבש", Details: "250g", Price: 18, ProductType: "מזון", UnitsPerCarton: 12},
}

// DefaultBundle is the starter bundle built from DefaultProducts.
var DefaultBundle = catalog.Bundle{
	ID:             "seed-holiday",
	Name:           "מארז חג",
	Price:          180,
	Items:          []catalog.Product{DefaultProducts[2], DefaultProducts[3]},
	PackagingItems: []catalog.Product{DefaultProducts[0], DefaultProducts[1]},
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Skipped int
}

// Run inserts the starter catalog in an idempotent way. Records that already
// exist are left untouched.
func Run(ctx context.Context, database *sql.DB, driver string) (Stats, error) {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	s := seeder{tx: tx, driver: driver, now: time.Now().UTC().Format(time.RFC3339)}
	stats := Stats{}

	for _, p := range DefaultProducts {
		if err := s.ensureProduct(ctx, p, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}
	if err := s.ensureBundle(ctx, DefaultBundle, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

type seeder struct {
	tx     *sql.Tx
	driver string
	now    string
}

func (s seeder) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var exists bool
	if err := s.tx.QueryRowContext(ctx, db.Rebind(s.driver, query), args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s seeder) ensureProduct(ctx context.Context, p catalog.Product, stats *Stats) error {
	exists, err := s.exists(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = ?)`, p.ID)
	if err != nil {
		return fmt.Errorf("check product %s existence: %w", p.ID, err)
	}
	if exists {
		stats.Skipped++
		return nil
	}

	if _, err := s.tx.ExecContext(ctx, db.Rebind(s.driver, `
		INSERT INTO products (id, name, details, price, product_type, inventory, units_per_carton, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), p.ID, p.Name, p.Details, p.Price, p.ProductType, p.Inventory, p.UnitsPerCarton, s.now); err != nil {
		return fmt.Errorf("insert product %s: %w", p.ID, err)
	}
	stats.Inserts++
	return nil
}

func (s seeder) ensureBundle(ctx context.Context, b catalog.Bundle, stats *Stats) error {
	exists, err := s.exists(ctx, `SELECT EXISTS(SELECT 1 FROM bundles WHERE id = ?)`, b.ID)
	if err != nil {
		return fmt.Errorf("check bundle %s existence: %w", b.ID, err)
	}
	if exists {
		stats.Skipped++
		return nil
	}

	if _, err := s.tx.ExecContext(ctx, db.Rebind(s.driver, `
		INSERT INTO bundles (id, name, price, image_url, parallel_bundles, updated_at)
		VALUES (?, ?, ?, ?, '[]', ?)
	`), b.ID, b.Name, b.Price, b.ImageURL, s.now); err != nil {
		return fmt.Errorf("insert bundle %s: %w", b.ID, err)
	}

	insert := db.Rebind(s.driver, `INSERT INTO bundle_items (bundle_id, product_id, category, position) VALUES (?, ?, ?, ?)`)
	for i, p := range b.Items {
		if _, err := s.tx.ExecContext(ctx, insert, b.ID, p.ID, string(quote.CategoryProduct), i); err != nil {
			return fmt.Errorf("insert bundle item %s: %w", p.ID, err)
		}
	}
	for i, p := range b.PackagingItems {
		if _, err := s.tx.ExecContext(ctx, insert, b.ID, p.ID, string(quote.CategoryPackaging), i); err != nil {
			return fmt.Errorf("insert bundle packaging item %s: %w", p.ID, err)
		}
	}
	stats.Inserts++
	return nil
}
