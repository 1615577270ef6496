package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Apps10/fullstack-test-backend/internal/apperr"
	"github.com/Apps10/fullstack-test-backend/internal/inventory"
	"github.com/Apps10/fullstack-test-backend/internal/transactions"
)

type CheckoutInput struct {
	TransactionID string
	CustomerID    string
	EmailHolder   string
	CreditCard    string // base64 JSON payload
}

// CheckoutUseCase drives an existing order through payment: resolve and guard
// the order, validate the card, call the gateway exactly once, then reconcile
// order and transaction state in one atomic unit.
type CheckoutUseCase struct {
	orderRepo       Repository
	transactionRepo transactions.Repository
	inventoryRepo   inventory.Repository
	payments        PaymentService
	tracer          trace.Tracer
	log             *zap.Logger
}

func NewCheckoutUseCase(
	orderRepo Repository,
	transactionRepo transactions.Repository,
	inventoryRepo inventory.Repository,
	payments PaymentService,
	tracer trace.Tracer,
	log *zap.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		orderRepo:       orderRepo,
		transactionRepo: transactionRepo,
		inventoryRepo:   inventoryRepo,
		payments:        payments,
		tracer:          tracer,
		log:             log,
	}
}

func (uc *CheckoutUseCase) Execute(ctx context.Context, input CheckoutInput) (*PaymentResult, error) {
	ctx, span := uc.tracer.Start(ctx, "checkout")
	defer span.End()
	span.SetAttributes(attribute.String("transaction_id", input.TransactionID))

	resolved, err := uc.transactionRepo.FindOrderByTransactionID(ctx, input.TransactionID)
	if err != nil {
		span.RecordError(err)
		uc.log.Warn("transaction not found", zap.String("transaction_id", input.TransactionID), zap.Error(err))
		return nil, err
	}
	order := resolved.Order

	if Status(order.Status).Processed() {
		uc.log.Warn("order already processed",
			zap.String("order_id", order.ID), zap.String("status", order.Status))
		return nil, ErrOrderAlreadyProcessed
	}

	card, err := ValidateCreditCard(input.CreditCard)
	if err != nil {
		span.RecordError(err)
		uc.log.Warn("invalid credit card data",
			zap.String("transaction_id", input.TransactionID), zap.Error(err))
		return nil, err
	}

	// Network boundary: a single charge attempt, outside the local atomic
	// unit. Once the gateway accepts it there is no rolling it back.
	result, err := uc.payments.ProcessPayment(ctx, PaymentRequest{
		CreditCard:    *card,
		CustomerID:    input.CustomerID,
		EmailHolder:   input.EmailHolder,
		OrderID:       order.ID,
		TransactionID: resolved.ID,
		TotalAmount:   order.TotalAmount,
		BaseFee:       order.BaseFee,
		TaxFee:        order.TaxFee,
	})
	if err != nil {
		span.RecordError(err)
		uc.log.Warn("payment service returned error",
			zap.String("transaction_id", resolved.ID), zap.Error(err))
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, ErrPaymentGeneric.WithCause(err)
	}

	newOrderStatus := StatusCancelled
	newTransactionStatus := transactions.StatusCancelled
	if result.Status == PaymentApproved {
		newOrderStatus = StatusPaid
		newTransactionStatus = transactions.StatusSuccess
	}
	span.SetAttributes(attribute.String("payment_status", string(result.Status)))

	// A denied charge cancels the order, so its stock reservation is returned
	// inside the same atomic unit.
	var releaseItems []inventory.StockItem
	if newOrderStatus == StatusCancelled {
		full, err := uc.orderRepo.FindByID(ctx, order.ID)
		if err != nil {
			span.RecordError(err)
			return nil, ErrPaymentGeneric.WithMessage("Could not update order or transaction").WithCause(err)
		}
		for _, item := range full.Items {
			releaseItems = append(releaseItems, inventory.StockItem{ID: item.ProductID, Quantity: item.Quantity})
		}
	}

	paidAt := result.CreatedAt
	err = uc.orderRepo.RunInTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := uc.orderRepo.UpdateOrderTx(ctx, tx, order.ID, OrderUpdate{
			Status: &newOrderStatus,
			PaidAt: &paidAt,
		}); err != nil {
			return err
		}
		if err := uc.transactionRepo.UpdateTransaction(ctx, tx, resolved.ID, transactions.Update{
			PayerName:          &result.PayerName,
			PayerTransactionID: &result.PayerReference,
			Description:        &result.Description,
			PaymentStatus:      &newTransactionStatus,
			TotalAmount:        &order.TotalAmount,
		}); err != nil {
			return err
		}
		if len(releaseItems) > 0 {
			return uc.inventoryRepo.ReleaseStockTx(ctx, tx, releaseItems)
		}
		return nil
	})
	if err != nil {
		// The charge may already be settled at the gateway while the local
		// update failed: this is the reconciliation window. Surface it, do not
		// mask it; recovery needs an external reconciler.
		span.RecordError(err)
		uc.log.Error("order/transaction reconcile failed after gateway call",
			zap.String("order_id", order.ID),
			zap.String("transaction_id", resolved.ID),
			zap.String("gateway_status", string(result.Status)),
			zap.Error(err))
		return nil, ErrPaymentGeneric.WithMessage("Could not update order or transaction").WithCause(err)
	}

	uc.log.Info("checkout finished",
		zap.String("order_id", order.ID),
		zap.String("transaction_id", resolved.ID),
		zap.String("order_status", string(newOrderStatus)),
		zap.String("payment_status", string(result.Status)))

	return result, nil
}
