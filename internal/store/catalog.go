package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/Simplici0/giftquote/internal/catalog"
	"github.com/Simplici0/giftquote/internal/db"
	"github.com/Simplici0/giftquote/internal/quote"
)

// Catalog persists products and bundles. It satisfies catalog.Source.
type Catalog struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

var _ catalog.Source = (*Catalog)(nil)

// NewCatalog returns a catalog store for a database opened with driver.
func NewCatalog(database *sql.DB, driver string) *Catalog {
	return &Catalog{db: database, driver: driver, now: time.Now}
}

// UpsertProduct inserts or replaces a product and reports whether a new row
// was created.
func (c *Catalog) UpsertProduct(ctx context.Context, p catalog.Product) (bool, error) {
	existed, err := c.exists(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = ?)`, p.ID)
	if err != nil {
		return false, err
	}

	_, err = c.db.ExecContext(ctx, db.Rebind(c.driver, `
		INSERT INTO products (id, name, details, price, product_type, inventory, units_per_carton, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			details = excluded.details,
			price = excluded.price,
			product_type = excluded.product_type,
			inventory = excluded.inventory,
			units_per_carton = excluded.units_per_carton,
			updated_at = excluded.updated_at
	`), p.ID, p.Name, p.Details, p.Price, p.ProductType, p.Inventory, p.UnitsPerCarton, formatTime(c.now()))
	if err != nil {
		return false, fmt.Errorf("upsert product %s: %w", p.ID, err)
	}
	return !existed, nil
}

// UpsertBundle inserts or replaces a bundle and its item list. Every product
// it references must already exist.
func (c *Catalog) UpsertBundle(ctx context.Context, b catalog.Bundle) (bool, error) {
	existed, err := c.exists(ctx, `SELECT EXISTS(SELECT 1 FROM bundles WHERE id = ?)`, b.ID)
	if err != nil {
		return false, err
	}

	parallel := b.ParallelBundles
	if parallel == nil {
		parallel = []string{}
	}
	parallelJSON, err := json.Marshal(parallel)
	if err != nil {
		return false, fmt.Errorf("encode parallel bundles: %w", err)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin bundle transaction: %w", err)
	}

	_, err = tx.ExecContext(ctx, db.Rebind(c.driver, `
		INSERT INTO bundles (id, name, price, image_url, parallel_bundles, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			price = excluded.price,
			image_url = excluded.image_url,
			parallel_bundles = excluded.parallel_bundles,
			updated_at = excluded.updated_at
	`), b.ID, b.Name, b.Price, b.ImageURL, string(parallelJSON), formatTime(c.now()))
	if err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("upsert bundle %s: %w", b.ID, err)
	}

	if _, err := tx.ExecContext(ctx, db.Rebind(c.driver, `DELETE FROM bundle_items WHERE bundle_id = ?`), b.ID); err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("clear bundle items: %w", err)
	}

	insert := db.Rebind(c.driver, `INSERT INTO bundle_items (bundle_id, product_id, category, position) VALUES (?, ?, ?, ?)`)
	for i, p := range b.Items {
		if _, err := tx.ExecContext(ctx, insert, b.ID, p.ID, string(quote.CategoryProduct), i); err != nil {
			_ = tx.Rollback()
			return false, fmt.Errorf("insert bundle item %s: %w", p.ID, err)
		}
	}
	for i, p := range b.PackagingItems {
		if _, err := tx.ExecContext(ctx, insert, b.ID, p.ID, string(quote.CategoryPackaging), i); err != nil {
			_ = tx.Rollback()
			return false, fmt.Errorf("insert bundle packaging item %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit bundle transaction: %w", err)
	}
	return !existed, nil
}

// ListProducts returns all stored products ordered by name. Rows that fail
// validation are skipped and logged.
func (c *Catalog) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, name, details, price, product_type, inventory, units_per_carton
		FROM products
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]catalog.Product, 0)
	for rows.Next() {
		var (
			id, name, details, productType, inventory string
			price                                     float64
			units                                     int64
		)
		if err := rows.Scan(&id, &name, &details, &price, &productType, &inventory, &units); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}

		p, err := catalog.ParseProduct(map[string]any{
			"id":             id,
			"name":           name,
			"details":        details,
			"price":          price,
			"productType":    productType,
			"inventory":      inventory,
			"unitsPerCarton": units,
		})
		if err != nil {
			log.Printf("skipping catalog product %q: %v", id, err)
			continue
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// ListBundles returns all stored bundles with their products resolved.
func (c *Catalog) ListBundles(ctx context.Context) ([]catalog.Bundle, error) {
	products, err := c.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items, err := c.bundleItems(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT id, name, price, image_url, parallel_bundles
		FROM bundles
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query bundles: %w", err)
	}
	defer rows.Close()

	bundles := make([]catalog.Bundle, 0)
	for rows.Next() {
		var (
			id, name, imageURL, parallelJSON string
			price                            float64
		)
		if err := rows.Scan(&id, &name, &price, &imageURL, &parallelJSON); err != nil {
			return nil, fmt.Errorf("scan bundle: %w", err)
		}

		var parallel []any
		if err := json.Unmarshal([]byte(parallelJSON), &parallel); err != nil {
			log.Printf("bundle %q has unreadable parallel bundles: %v", id, err)
		}

		b, err := catalog.ParseBundle(map[string]any{
			"id":              id,
			"name":            name,
			"price":           price,
			"imageUrl":        imageURL,
			"parallelBundles": parallel,
			"items":           items[id][quote.CategoryProduct],
			"packagingItems":  items[id][quote.CategoryPackaging],
		}, byID)
		if err != nil {
			log.Printf("skipping catalog bundle %q: %v", id, err)
			continue
		}
		bundles = append(bundles, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bundles: %w", err)
	}
	return bundles, nil
}

func (c *Catalog) bundleItems(ctx context.Context) (map[string]map[quote.Category][]string, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT bundle_id, product_id, category
		FROM bundle_items
		ORDER BY bundle_id, category, position
	`)
	if err != nil {
		return nil, fmt.Errorf("query bundle items: %w", err)
	}
	defer rows.Close()

	items := make(map[string]map[quote.Category][]string)
	for rows.Next() {
		var bundleID, productID, category string
		if err := rows.Scan(&bundleID, &productID, &category); err != nil {
			return nil, fmt.Errorf("scan bundle item: %w", err)
		}
		if items[bundleID] == nil {
			items[bundleID] = make(map[quote.Category][]string)
		}
		cat := quote.Category(category)
		items[bundleID][cat] = append(items[bundleID][cat], productID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bundle items: %w", err)
	}
	return items, nil
}

func (c *Catalog) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var exists bool
	if err := c.db.QueryRowContext(ctx, db.Rebind(c.driver, query), args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check catalog record existence: %w", err)
	}
	return exists, nil
}
