package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ProcessedOrder is the lightweight projection returned by the idempotency
// guard lookup. TransactionID is empty when no transaction exists yet.
type ProcessedOrder struct {
	ID            string
	TransactionID string
}

// OrderUpdate is a partial order mutation; nil fields are left untouched.
type OrderUpdate struct {
	Status *Status
	PaidAt *time.Time
}

// Repository defines the order persistence operations. RunInTransaction is the
// scoped atomic-unit runner: the pgx.Tx it hands to fn is the transaction-scope
// handle every Tx-suffixed method across the repositories requires.
type Repository interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error

	CreateOrder(ctx context.Context, tx pgx.Tx, order *Order) (*Order, error)
	UpdateOrderTx(ctx context.Context, tx pgx.Tx, orderID string, update OrderUpdate) error
	FindByIDIfProcessed(ctx context.Context, id string) (*ProcessedOrder, error)
	FindByID(ctx context.Context, id string) (*Order, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db        *pgxpool.Pool
	txTimeout time.Duration
	log       *zap.Logger
}

func NewPostgresRepository(db *pgxpool.Pool, txTimeout time.Duration, log *zap.Logger) *PostgresRepository {
	return &PostgresRepository{db: db, txTimeout: txTimeout, log: log}
}

// RunInTransaction opens a transaction bounded by the configured saga timeout
// and guarantees commit on success and rollback on error or panic.
func (r *PostgresRepository) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) (err error) {
	ctx, cancel := context.WithTimeout(ctx, r.txTimeout)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				r.log.Error("rollback after panic failed", zap.Error(rbErr))
			}
			panic(p)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			r.log.Error("rollback failed", zap.Error(rbErr))
		}
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("repository: commit transaction: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *Order) (*Order, error) {
	created := *order
	if created.ID == "" {
		created.ID = uuid.New().String()
	}

	_, err := tx.Exec(ctx, `
		INSERT INTO orders (id, customer_id, status, base_fee, tax_fee, total_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, created.ID, created.CustomerID, created.Status, created.BaseFee, created.TaxFee,
		created.TotalAmount, created.CreatedAt, created.UpdatedAt)
	if err != nil {
		r.log.Error("order insert failed", zap.String("order_id", created.ID), zap.Error(err))
		return nil, ErrOrderGeneric.WithMessage("Error in create the Order").WithCause(err)
	}

	items := make([]OrderItem, 0, len(created.Items))
	for _, item := range created.Items {
		item.ID = uuid.New().String()
		_, err := tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, item.ID, created.ID, item.ProductID, item.Quantity, item.UnitPrice, item.LineTotal)
		if err != nil {
			r.log.Error("order item insert failed",
				zap.String("order_id", created.ID), zap.Int64("product_id", item.ProductID), zap.Error(err))
			return nil, ErrOrderGeneric.WithMessage("Error in create the Order").WithCause(err)
		}
		items = append(items, item)
	}
	created.Items = items

	return &created, nil
}

func (r *PostgresRepository) UpdateOrderTx(ctx context.Context, tx pgx.Tx, orderID string, update OrderUpdate) error {
	sets := []string{"updated_at = NOW()"}
	args := []any{orderID}

	if update.Status != nil {
		args = append(args, *update.Status)
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}
	if update.PaidAt != nil {
		args = append(args, *update.PaidAt)
		sets = append(sets, fmt.Sprintf("paid_at = $%d", len(args)))
	}

	query := `UPDATE orders SET ` + strings.Join(sets, ", ") + ` WHERE id = $1`
	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("order update failed", zap.String("order_id", orderID), zap.Error(err))
		return ErrOrderGeneric.WithMessage("Error updating the Order").WithCause(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// FindByIDIfProcessed returns the order and its transaction id when the order
// already exists, or (nil, nil) when it does not. Used by the create-order
// idempotency guard.
func (r *PostgresRepository) FindByIDIfProcessed(ctx context.Context, id string) (*ProcessedOrder, error) {
	var (
		processed     ProcessedOrder
		transactionID *string
	)
	err := r.db.QueryRow(ctx, `
		SELECT o.id, t.id
		FROM orders o
		LEFT JOIN transactions t ON t.order_id = o.id
		WHERE o.id = $1
	`, id).Scan(&processed.ID, &transactionID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repository: select processed order %s: %w", id, err)
	}
	if transactionID != nil {
		processed.TransactionID = *transactionID
	}
	return &processed, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*Order, error) {
	var order Order
	err := r.db.QueryRow(ctx, `
		SELECT id, customer_id, status, base_fee, tax_fee, total_amount, paid_at, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, id).Scan(&order.ID, &order.CustomerID, &order.Status, &order.BaseFee, &order.TaxFee,
		&order.TotalAmount, &order.PaidAt, &order.CreatedAt, &order.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("repository: select order %s: %w", id, err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, product_id, quantity, unit_price, line_total
		FROM order_items
		WHERE order_id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("repository: select order items %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.LineTotal); err != nil {
			return nil, fmt.Errorf("repository: scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: iterate order items: %w", err)
	}

	return &order, nil
}
