package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrProductNotFound is returned when an id has no product row yet.
var ErrProductNotFound = errors.New("product not found")

// Store is the persistence surface the pipeline and handlers depend on.
// Write methods that touch both tables must be atomic: a history row is
// never committed without its product state, and vice versa.
type Store interface {
	GetProduct(ctx context.Context, id string) (*Product, error)
	CreateProductWithHistory(ctx context.Context, p *Product) error
	UpdatePricesWithHistory(ctx context.Context, id string, regular, promo *float64) error
	AppendHistory(ctx context.Context, id string, regular, promo *float64) error
	ListProducts(ctx context.Context) ([]ProductSummary, error)
	PriceHistory(ctx context.Context, id string) ([]PriceHistory, error)
}

// Repository is the pgx-backed Store.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const productColumns = `id, name, brand, category, image_url, product_url,
       regular_price, promo_price, fulfillment, stock_level, size, sold_by,
       location, dimensions, temperature_sensitive, created_at`

func (r *Repository) GetProduct(ctx context.Context, id string) (*Product, error) {
	var p Product
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	err := row.Scan(
		&p.ID, &p.Name, &p.Brand, &p.Category, &p.ImageURL, &p.ProductURL,
		&p.RegularPrice, &p.PromoPrice, &p.Fulfillment, &p.StockLevel, &p.Size, &p.SoldBy,
		&p.Location, &p.Dimensions, &p.TemperatureSensitive, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return &p, nil
}

// CreateProductWithHistory inserts the product row and its first history
// row in one transaction.
func (r *Repository) CreateProductWithHistory(ctx context.Context, p *Product) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
INSERT INTO products (id, name, brand, category, image_url, product_url,
                      regular_price, promo_price, fulfillment, stock_level,
                      size, sold_by, location, dimensions, temperature_sensitive)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING created_at`,
		p.ID, p.Name, p.Brand, p.Category, p.ImageURL, p.ProductURL,
		p.RegularPrice, p.PromoPrice, p.Fulfillment, p.StockLevel,
		p.Size, p.SoldBy, p.Location, p.Dimensions, p.TemperatureSensitive,
	).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert product %s: %w", p.ID, err)
	}

	if err := appendHistoryTx(ctx, tx, p.ID, p.RegularPrice, p.PromoPrice); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// UpdatePricesWithHistory writes the new price pair onto the product row
// and appends the matching history row atomically. Only price fields are
// touched.
func (r *Repository) UpdatePricesWithHistory(ctx context.Context, id string, regular, promo *float64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE products SET regular_price = $2, promo_price = $3 WHERE id = $1`,
		id, regular, promo)
	if err != nil {
		return fmt.Errorf("update prices for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	if err := appendHistoryTx(ctx, tx, id, regular, promo); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repository) AppendHistory(ctx context.Context, id string, regular, promo *float64) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO price_history (product_id, regular_price, promo_price) VALUES ($1, $2, $3)`,
		id, regular, promo)
	if err != nil {
		return fmt.Errorf("append history for %s: %w", id, err)
	}
	return nil
}

func appendHistoryTx(ctx context.Context, tx pgx.Tx, id string, regular, promo *float64) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO price_history (product_id, regular_price, promo_price) VALUES ($1, $2, $3)`,
		id, regular, promo)
	if err != nil {
		return fmt.Errorf("append history for %s: %w", id, err)
	}
	return nil
}

func (r *Repository) ListProducts(ctx context.Context) ([]ProductSummary, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, name, brand, category, regular_price, promo_price,
       stock_level, temperature_sensitive
FROM products
ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []ProductSummary
	for rows.Next() {
		var s ProductSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Brand, &s.Category,
			&s.RegularPrice, &s.PromoPrice, &s.StockLevel, &s.TemperatureSensitive); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Repository) PriceHistory(ctx context.Context, id string) ([]PriceHistory, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, product_id, recorded_at, promo_price, regular_price
FROM price_history
WHERE product_id = $1
ORDER BY recorded_at DESC, id DESC
LIMIT 200`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PriceHistory
	for rows.Next() {
		var h PriceHistory
		if err := rows.Scan(&h.ID, &h.ProductID, &h.RecordedAt, &h.PromoPrice, &h.RegularPrice); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
