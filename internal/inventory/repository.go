package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Repository defines the inventory persistence operations. Methods with the Tx
// suffix run inside a caller-owned transaction and never touch the pool.
type Repository interface {
	FindProductByID(ctx context.Context, id int64) (*Product, error)
	FindProductsByID(ctx context.Context, ids []int64) ([]Product, error)
	GetAllProductsInStock(ctx context.Context) ([]Product, error)

	// CheckAvailability is the advisory pre-check; the authoritative check is
	// the conditional decrement in ReserveStockTx.
	CheckAvailability(ctx context.Context, items []StockItem) error

	ReserveStockTx(ctx context.Context, tx pgx.Tx, items []StockItem) error
	ReleaseStockTx(ctx context.Context, tx pgx.Tx, items []StockItem) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewPostgresRepository(db *pgxpool.Pool, log *zap.Logger) *PostgresRepository {
	return &PostgresRepository{db: db, log: log}
}

const productColumns = `id, name, description, picture, stock, price, weight_in_grams, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Picture, &p.Stock, &p.Price,
		&p.WeightInGrams, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) FindProductByID(ctx context.Context, id int64) (*Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound.WithMessage(fmt.Sprintf("product with id %d does not exist", id))
	}
	if err != nil {
		return nil, fmt.Errorf("repository: select product %d: %w", id, err)
	}
	return p, nil
}

func (r *PostgresRepository) FindProductsByID(ctx context.Context, ids []int64) ([]Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("repository: select products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: iterate products: %w", err)
	}

	if len(products) != len(ids) {
		return nil, ErrProductNotFound.WithMessage("some products do not exist, verify each product id")
	}
	return products, nil
}

func (r *PostgresRepository) GetAllProductsInStock(ctx context.Context) ([]Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products WHERE stock > 0 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("repository: select products in stock: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: iterate products: %w", err)
	}
	return products, nil
}

func (r *PostgresRepository) CheckAvailability(ctx context.Context, items []StockItem) error {
	for _, it := range items {
		var stock int
		err := r.db.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, it.ID).Scan(&stock)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProductsWithoutStockOrNotExist
		}
		if err != nil {
			return fmt.Errorf("repository: check availability for product %d: %w", it.ID, err)
		}
		if stock < it.Quantity {
			return ErrProductsWithoutStockOrNotExist
		}
	}
	return nil
}

// ReserveStockTx performs a conditional decrement per item. A zero affected-row
// count means the product is missing or short on stock, which fails the whole
// atomic unit the caller owns.
func (r *PostgresRepository) ReserveStockTx(ctx context.Context, tx pgx.Tx, items []StockItem) error {
	for _, it := range items {
		tag, err := tx.Exec(ctx, `
			UPDATE products
			SET stock = stock - $2, updated_at = NOW()
			WHERE id = $1 AND stock >= $2
		`, it.ID, it.Quantity)
		if err != nil {
			r.log.Error("reserve stock failed", zap.Int64("product_id", it.ID), zap.Error(err))
			return ErrReserveStock.WithCause(err)
		}
		if tag.RowsAffected() == 0 {
			return ErrProductsWithoutStockOrNotExist.WithMessage(
				fmt.Sprintf("insufficient stock for product %d", it.ID))
		}
	}
	return nil
}

// ReleaseStockTx restores previously reserved quantities. It is the
// compensating action for ReserveStockTx.
func (r *PostgresRepository) ReleaseStockTx(ctx context.Context, tx pgx.Tx, items []StockItem) error {
	for _, it := range items {
		tag, err := tx.Exec(ctx, `
			UPDATE products
			SET stock = stock + $2, updated_at = NOW()
			WHERE id = $1
		`, it.ID, it.Quantity)
		if err != nil {
			r.log.Error("release stock failed", zap.Int64("product_id", it.ID), zap.Error(err))
			return ErrReserveStock.WithCause(err)
		}
		if tag.RowsAffected() == 0 {
			return ErrProductNotFound.WithMessage(fmt.Sprintf("product with id %d does not exist", it.ID))
		}
	}
	return nil
}
