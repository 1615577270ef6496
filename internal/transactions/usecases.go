package transactions

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// FindTransactionByIDUseCase resolves a single transaction record.
type FindTransactionByIDUseCase struct {
	repository Repository
	tracer     trace.Tracer
	log        *zap.Logger
}

func NewFindTransactionByIDUseCase(repository Repository, tracer trace.Tracer, log *zap.Logger) *FindTransactionByIDUseCase {
	return &FindTransactionByIDUseCase{
		repository: repository,
		tracer:     tracer,
		log:        log,
	}
}

func (uc *FindTransactionByIDUseCase) Execute(ctx context.Context, transactionID string) (*Transaction, error) {
	ctx, span := uc.tracer.Start(ctx, "find_transaction_by_id")
	defer span.End()
	span.SetAttributes(attribute.String("transaction_id", transactionID))

	if transactionID == "" {
		return nil, ErrTransactionNotFound
	}

	transaction, err := uc.repository.FindByID(ctx, transactionID)
	if err != nil {
		span.RecordError(err)
		uc.log.Warn("transaction lookup failed", zap.String("transaction_id", transactionID), zap.Error(err))
		return nil, err
	}
	return transaction, nil
}
