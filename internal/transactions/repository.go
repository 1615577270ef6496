package transactions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Repository interface {
	// CreateTransactionTx inserts the transaction inside the caller's atomic
	// unit and returns it with its generated id.
	CreateTransactionTx(ctx context.Context, tx pgx.Tx, transaction *Transaction) (*Transaction, error)

	FindOrderByTransactionID(ctx context.Context, transactionID string) (*TransactionWithOrder, error)
	FindByID(ctx context.Context, transactionID string) (*Transaction, error)

	// UpdateTransaction applies a partial update inside the caller's atomic
	// unit, together with the order reconciliation.
	UpdateTransaction(ctx context.Context, tx pgx.Tx, transactionID string, update Update) error
}

type PostgresRepository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewPostgresRepository(db *pgxpool.Pool, log *zap.Logger) *PostgresRepository {
	return &PostgresRepository{db: db, log: log}
}

func (r *PostgresRepository) CreateTransactionTx(ctx context.Context, tx pgx.Tx, transaction *Transaction) (*Transaction, error) {
	created := *transaction
	if created.ID == "" {
		created.ID = uuid.New().String()
	}

	_, err := tx.Exec(ctx, `
		INSERT INTO transactions
			(id, order_id, payer_name, payer_transaction_id, base_fee, tax_fee,
			 total_amount, description, payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, NULLIF($8, ''), $9, $10, $11)
	`, created.ID, created.OrderID, created.PayerName, created.PayerTransactionID,
		created.BaseFee, created.TaxFee, created.TotalAmount, created.Description,
		created.PaymentStatus, created.CreatedAt, created.UpdatedAt)
	if err != nil {
		r.log.Error("transaction insert failed", zap.String("order_id", created.OrderID), zap.Error(err))
		return nil, ErrTransactionGeneric.WithMessage("Error creating the transaction").WithCause(err)
	}
	return &created, nil
}

func (r *PostgresRepository) FindOrderByTransactionID(ctx context.Context, transactionID string) (*TransactionWithOrder, error) {
	var (
		t                  TransactionWithOrder
		payerTransactionID *string
		description        *string
	)
	err := r.db.QueryRow(ctx, `
		SELECT t.id, t.order_id, t.payer_name, t.payer_transaction_id, t.base_fee,
		       t.tax_fee, t.total_amount, t.description, t.payment_status,
		       t.created_at, t.updated_at,
		       o.id, o.customer_id, o.status, o.base_fee, o.tax_fee, o.total_amount,
		       o.paid_at, o.created_at, o.updated_at
		FROM transactions t
		JOIN orders o ON o.id = t.order_id
		WHERE t.id = $1
	`, transactionID).Scan(
		&t.ID, &t.OrderID, &t.PayerName, &payerTransactionID, &t.BaseFee,
		&t.TaxFee, &t.TotalAmount, &description, &t.PaymentStatus,
		&t.CreatedAt, &t.UpdatedAt,
		&t.Order.ID, &t.Order.CustomerID, &t.Order.Status, &t.Order.BaseFee,
		&t.Order.TaxFee, &t.Order.TotalAmount, &t.Order.PaidAt,
		&t.Order.CreatedAt, &t.Order.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("repository: select transaction with order %s: %w", transactionID, err)
	}
	if payerTransactionID != nil {
		t.PayerTransactionID = *payerTransactionID
	}
	if description != nil {
		t.Description = *description
	}
	return &t, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, transactionID string) (*Transaction, error) {
	var (
		t                  Transaction
		payerTransactionID *string
		description        *string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, order_id, payer_name, payer_transaction_id, base_fee, tax_fee,
		       total_amount, description, payment_status, created_at, updated_at
		FROM transactions
		WHERE id = $1
	`, transactionID).Scan(
		&t.ID, &t.OrderID, &t.PayerName, &payerTransactionID, &t.BaseFee, &t.TaxFee,
		&t.TotalAmount, &description, &t.PaymentStatus, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("repository: select transaction %s: %w", transactionID, err)
	}
	if payerTransactionID != nil {
		t.PayerTransactionID = *payerTransactionID
	}
	if description != nil {
		t.Description = *description
	}
	return &t, nil
}

func (r *PostgresRepository) UpdateTransaction(ctx context.Context, tx pgx.Tx, transactionID string, update Update) error {
	sets := []string{"updated_at = NOW()"}
	args := []any{transactionID}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.PayerName != nil {
		appendSet("payer_name", *update.PayerName)
	}
	if update.PayerTransactionID != nil {
		appendSet("payer_transaction_id", *update.PayerTransactionID)
	}
	if update.Description != nil {
		appendSet("description", *update.Description)
	}
	if update.PaymentStatus != nil {
		appendSet("payment_status", *update.PaymentStatus)
	}
	if update.TotalAmount != nil {
		appendSet("total_amount", *update.TotalAmount)
	}

	query := `UPDATE transactions SET ` + strings.Join(sets, ", ") + ` WHERE id = $1`
	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("transaction update failed", zap.String("transaction_id", transactionID), zap.Error(err))
		return ErrTransactionGeneric.WithMessage("Error updating the transaction").WithCause(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTransactionNotFound
	}
	return nil
}
