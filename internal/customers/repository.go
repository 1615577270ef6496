package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Repository interface {
	// UpsertByIDOrEmailTx resolves an existing customer by id or email and
	// updates it, or creates a new one. Runs inside the caller's transaction.
	UpsertByIDOrEmailTx(ctx context.Context, tx pgx.Tx, id string, customer Customer) (*Customer, error)
	GetByEmail(ctx context.Context, email string) (*Customer, error)
	GetByID(ctx context.Context, id string) (*Customer, error)
}

type PostgresRepository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewPostgresRepository(db *pgxpool.Pool, log *zap.Logger) *PostgresRepository {
	return &PostgresRepository{db: db, log: log}
}

const customerColumns = `id, name, address, email, phone, created_at, updated_at`

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.Address, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresRepository) UpsertByIDOrEmailTx(ctx context.Context, tx pgx.Tx, id string, customer Customer) (*Customer, error) {
	var existingID string
	err := tx.QueryRow(ctx,
		`SELECT id FROM customers WHERE id = $1 OR email = $2 LIMIT 1`,
		id, customer.Email,
	).Scan(&existingID)

	switch {
	case err == nil:
		row := tx.QueryRow(ctx, `
			UPDATE customers
			SET name = $2, address = $3, email = $4, phone = $5, updated_at = NOW()
			WHERE id = $1
			RETURNING `+customerColumns,
			existingID, customer.Name, customer.Address, customer.Email, customer.Phone)
		updated, scanErr := scanCustomer(row)
		if scanErr != nil {
			r.log.Error("customer update failed", zap.String("customer_id", existingID), zap.Error(scanErr))
			return nil, ErrCustomerUpsert.WithCause(scanErr)
		}
		return updated, nil

	case errors.Is(err, pgx.ErrNoRows):
		row := tx.QueryRow(ctx, `
			INSERT INTO customers (id, name, address, email, phone, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			RETURNING `+customerColumns,
			id, customer.Name, customer.Address, customer.Email, customer.Phone)
		created, scanErr := scanCustomer(row)
		if scanErr != nil {
			r.log.Error("customer insert failed", zap.String("customer_id", id), zap.Error(scanErr))
			return nil, ErrCustomerUpsert.WithCause(scanErr)
		}
		return created, nil

	default:
		return nil, ErrCustomerUpsert.WithCause(fmt.Errorf("repository: resolve customer: %w", err))
	}
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*Customer, error) {
	row := r.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE email = $1`, email)
	c, err := scanCustomer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("repository: select customer by email: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Customer, error) {
	row := r.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	c, err := scanCustomer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("repository: select customer by id: %w", err)
	}
	return c, nil
}
