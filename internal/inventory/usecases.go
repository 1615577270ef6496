package inventory

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// FindAllProductsUseCase lists the catalog entries that still have stock.
type FindAllProductsUseCase struct {
	repository Repository
	tracer     trace.Tracer
	log        *zap.Logger
}

func NewFindAllProductsUseCase(repository Repository, tracer trace.Tracer, log *zap.Logger) *FindAllProductsUseCase {
	return &FindAllProductsUseCase{
		repository: repository,
		tracer:     tracer,
		log:        log,
	}
}

func (uc *FindAllProductsUseCase) Execute(ctx context.Context) ([]Product, error) {
	ctx, span := uc.tracer.Start(ctx, "find_all_products")
	defer span.End()

	products, err := uc.repository.GetAllProductsInStock(ctx)
	if err != nil {
		span.RecordError(err)
		uc.log.Error("failed to list products", zap.Error(err))
		return nil, err
	}
	return products, nil
}
