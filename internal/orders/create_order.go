package orders

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Apps10/fullstack-test-backend/internal/customers"
	"github.com/Apps10/fullstack-test-backend/internal/inventory"
	"github.com/Apps10/fullstack-test-backend/internal/transactions"
)

type DeliveryInfo struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Address string `json:"address" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
}

type CreateOrderItemInput struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required"`
}

type CreateOrderInput struct {
	OrderID    string
	CustomerID string
	Items      []CreateOrderItemInput
	Delivery   *DeliveryInfo
}

type CreateOrderResult struct {
	OrderID     string                    `json:"orderId"`
	CustomerID  string                    `json:"customerId"`
	Transaction *transactions.Transaction `json:"transaction"`
}

// CreateOrderUseCase drives the order-creation saga: validate, price, then
// atomically persist customer, order, transaction and the stock reservation.
type CreateOrderUseCase struct {
	inventoryRepo   inventory.Repository
	orderRepo       Repository
	customerRepo    customers.Repository
	transactionRepo transactions.Repository
	taxRatePercent  float64
	tracer          trace.Tracer
	log             *zap.Logger
}

func NewCreateOrderUseCase(
	inventoryRepo inventory.Repository,
	orderRepo Repository,
	customerRepo customers.Repository,
	transactionRepo transactions.Repository,
	taxRatePercent float64,
	tracer trace.Tracer,
	log *zap.Logger,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		inventoryRepo:   inventoryRepo,
		orderRepo:       orderRepo,
		customerRepo:    customerRepo,
		transactionRepo: transactionRepo,
		taxRatePercent:  taxRatePercent,
		tracer:          tracer,
		log:             log,
	}
}

func (uc *CreateOrderUseCase) Execute(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error) {
	ctx, span := uc.tracer.Start(ctx, "create_order")
	defer span.End()

	if len(input.Items) == 0 {
		return nil, ErrOrderShouldHaveItems
	}
	if input.Delivery == nil {
		return nil, ErrDeliveryRequired
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, ErrOrderInvalidQuantity
		}
	}

	orderID := input.OrderID
	if orderID == "" {
		orderID = uuid.New().String()
	}
	customerID := input.CustomerID
	if customerID == "" {
		customerID = uuid.New().String()
	}
	span.SetAttributes(
		attribute.String("order_id", orderID),
		attribute.String("customer_id", customerID),
	)

	prev, err := uc.orderRepo.FindByIDIfProcessed(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		uc.log.Error("idempotency lookup failed", zap.String("order_id", orderID), zap.Error(err))
		return nil, ErrOrderCreationFailed.WithCause(err)
	}
	if prev != nil {
		uc.log.Warn("order already processed", zap.String("order_id", orderID))
		return nil, ErrOrderAlreadyProcessed
	}

	productIDs := uniqueProductIDs(input.Items)
	products, err := uc.inventoryRepo.FindProductsByID(ctx, productIDs)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	priceByID := make(map[int64]float64, len(products))
	for _, p := range products {
		priceByID[p.ID] = p.Price
	}

	stockItems := make([]inventory.StockItem, 0, len(input.Items))
	for _, item := range input.Items {
		stockItems = append(stockItems, inventory.StockItem{ID: item.ProductID, Quantity: item.Quantity})
	}

	// Advisory pre-check; the reservation below re-validates atomically.
	if err := uc.inventoryRepo.CheckAvailability(ctx, stockItems); err != nil {
		span.RecordError(err)
		return nil, err
	}

	var baseFee float64
	items := make([]OrderItem, 0, len(input.Items))
	for _, it := range input.Items {
		item, err := NewOrderItem(it.ProductID, it.Quantity, priceByID[it.ProductID])
		if err != nil {
			return nil, err
		}
		baseFee += item.LineTotal
		items = append(items, *item)
	}
	taxFee := math.Round(baseFee * uc.taxRatePercent / 100)
	totalAmount := Round2(baseFee + taxFee)

	var (
		createdTransaction *transactions.Transaction
		createdCustomerID  string
	)
	err = uc.orderRepo.RunInTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		customer, err := uc.customerRepo.UpsertByIDOrEmailTx(ctx, tx, customerID, customers.Customer{
			ID:      customerID,
			Name:    input.Delivery.Name,
			Email:   input.Delivery.Email,
			Address: input.Delivery.Address,
			Phone:   input.Delivery.Phone,
		})
		if err != nil {
			return err
		}
		createdCustomerID = customer.ID

		order, err := NewOrder(orderID, customer.ID, items, baseFee, taxFee, totalAmount)
		if err != nil {
			return err
		}
		createdOrder, err := uc.orderRepo.CreateOrder(ctx, tx, order)
		if err != nil {
			return err
		}

		transaction, err := transactions.New(createdOrder.ID, input.Delivery.Name, baseFee, taxFee, totalAmount)
		if err != nil {
			return err
		}
		createdTransaction, err = uc.transactionRepo.CreateTransactionTx(ctx, tx, transaction)
		if err != nil {
			return err
		}

		return uc.inventoryRepo.ReserveStockTx(ctx, tx, stockItems)
	})
	if err != nil {
		span.RecordError(err)
		uc.log.Error("order creation aborted",
			zap.String("order_id", orderID), zap.String("customer_id", customerID), zap.Error(err))
		return nil, ErrOrderCreationFailed.WithCause(err)
	}

	uc.log.Info("order created",
		zap.String("order_id", orderID),
		zap.String("transaction_id", createdTransaction.ID),
		zap.Float64("total_amount", totalAmount))

	return &CreateOrderResult{
		OrderID:     orderID,
		CustomerID:  createdCustomerID,
		Transaction: createdTransaction,
	}, nil
}

func uniqueProductIDs(items []CreateOrderItemInput) []int64 {
	seen := make(map[int64]bool, len(items))
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}
	return ids
}
