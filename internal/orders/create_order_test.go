package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/Apps10/fullstack-test-backend/internal/customers"
	"github.com/Apps10/fullstack-test-backend/internal/inventory"
	"github.com/Apps10/fullstack-test-backend/internal/transactions"
)

func newCreateOrderFixture() (*CreateOrderUseCase, *MockInventoryRepository, *MockOrderRepository, *MockCustomerRepository, *MockTransactionRepository) {
	inventoryRepo := new(MockInventoryRepository)
	orderRepo := new(MockOrderRepository)
	customerRepo := new(MockCustomerRepository)
	transactionRepo := new(MockTransactionRepository)

	uc := NewCreateOrderUseCase(
		inventoryRepo, orderRepo, customerRepo, transactionRepo,
		19, noop.NewTracerProvider().Tracer("test"), zap.NewNop(),
	)
	return uc, inventoryRepo, orderRepo, customerRepo, transactionRepo
}

func validDelivery() *DeliveryInfo {
	return &DeliveryInfo{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Address: "Cra 7 # 12-34",
		Phone:   "3001234567",
	}
}

func TestCreateOrder_Success(t *testing.T) {
	// Arrange
	uc, inventoryRepo, orderRepo, customerRepo, transactionRepo := newCreateOrderFixture()

	orderID := "order-123"
	customerID := "customer-456"

	orderRepo.On("FindByIDIfProcessed", mock.Anything, orderID).Return(nil, nil)
	inventoryRepo.On("FindProductsByID", mock.Anything, []int64{1, 2}).Return([]inventory.Product{
		{ID: 1, Name: "Classic White Tee", Price: 10.00, Stock: 50},
		{ID: 2, Name: "Denim Jacket", Price: 20.50, Stock: 20},
	}, nil)
	inventoryRepo.On("CheckAvailability", mock.Anything, mock.Anything).Return(nil)

	orderRepo.On("RunInTransaction", mock.Anything, mock.Anything).Return(nil)
	customerRepo.On("UpsertByIDOrEmailTx", mock.Anything, mock.Anything, customerID, mock.Anything).
		Return(&customers.Customer{ID: customerID, Name: "Jane Doe", Email: "jane@example.com"}, nil)
	orderRepo.On("CreateOrder", mock.Anything, mock.Anything, mock.AnythingOfType("*orders.Order")).
		Return(&Order{ID: orderID}, nil)

	var createdTransaction *transactions.Transaction
	transactionRepo.On("CreateTransactionTx", mock.Anything, mock.Anything, mock.AnythingOfType("*transactions.Transaction")).
		Run(func(args mock.Arguments) {
			createdTransaction = args.Get(2).(*transactions.Transaction)
		}).
		Return(&transactions.Transaction{ID: "txn-789", OrderID: orderID}, nil)
	inventoryRepo.On("ReserveStockTx", mock.Anything, mock.Anything, []inventory.StockItem{
		{ID: 1, Quantity: 2},
		{ID: 2, Quantity: 1},
	}).Return(nil)

	// Act
	result, err := uc.Execute(context.Background(), CreateOrderInput{
		OrderID:    orderID,
		CustomerID: customerID,
		Items: []CreateOrderItemInput{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
		Delivery: validDelivery(),
	})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, orderID, result.OrderID)
	assert.Equal(t, customerID, result.CustomerID)
	assert.Equal(t, "txn-789", result.Transaction.ID)

	// 2x10.00 + 1x20.50 = 40.50 base, 19% tax rounded to 8, 48.50 total.
	assert.Equal(t, 40.5, createdTransaction.BaseFee)
	assert.Equal(t, 8.0, createdTransaction.TaxFee)
	assert.Equal(t, 48.5, createdTransaction.TotalAmount)

	inventoryRepo.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	customerRepo.AssertExpectations(t)
	transactionRepo.AssertExpectations(t)
}

func TestCreateOrder_NoItems(t *testing.T) {
	uc, _, _, _, _ := newCreateOrderFixture()

	result, err := uc.Execute(context.Background(), CreateOrderInput{
		Items:    nil,
		Delivery: validDelivery(),
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrOrderShouldHaveItems)
}

func TestCreateOrder_MissingDelivery(t *testing.T) {
	uc, _, _, _, _ := newCreateOrderFixture()

	result, err := uc.Execute(context.Background(), CreateOrderInput{
		Items: []CreateOrderItemInput{{ProductID: 1, Quantity: 1}},
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrDeliveryRequired)
}

func TestCreateOrder_InvalidQuantity(t *testing.T) {
	uc, _, _, _, _ := newCreateOrderFixture()

	result, err := uc.Execute(context.Background(), CreateOrderInput{
		Items:    []CreateOrderItemInput{{ProductID: 1, Quantity: 0}},
		Delivery: validDelivery(),
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrOrderInvalidQuantity)
}

func TestCreateOrder_AlreadyProcessed(t *testing.T) {
	// Arrange
	uc, inventoryRepo, orderRepo, _, _ := newCreateOrderFixture()

	orderRepo.On("FindByIDIfProcessed", mock.Anything, "order-123").
		Return(&ProcessedOrder{ID: "order-123", TransactionID: "txn-789"}, nil)

	// Act
	result, err := uc.Execute(context.Background(), CreateOrderInput{
		OrderID:  "order-123",
		Items:    []CreateOrderItemInput{{ProductID: 1, Quantity: 1}},
		Delivery: validDelivery(),
	})

	// Assert
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrOrderAlreadyProcessed)
	inventoryRepo.AssertNotCalled(t, "FindProductsByID", mock.Anything, mock.Anything)
	orderRepo.AssertNotCalled(t, "RunInTransaction", mock.Anything, mock.Anything)
}

func TestCreateOrder_ProductDoesNotExist(t *testing.T) {
	uc, inventoryRepo, orderRepo, _, _ := newCreateOrderFixture()

	orderRepo.On("FindByIDIfProcessed", mock.Anything, mock.Anything).Return(nil, nil)
	inventoryRepo.On("FindProductsByID", mock.Anything, []int64{99}).
		Return(nil, inventory.ErrProductNotFound)

	result, err := uc.Execute(context.Background(), CreateOrderInput{
		Items:    []CreateOrderItemInput{{ProductID: 99, Quantity: 1}},
		Delivery: validDelivery(),
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, inventory.ErrProductNotFound)
	orderRepo.AssertNotCalled(t, "RunInTransaction", mock.Anything, mock.Anything)
}

func TestCreateOrder_WithoutStock(t *testing.T) {
	uc, inventoryRepo, orderRepo, _, _ := newCreateOrderFixture()

	orderRepo.On("FindByIDIfProcessed", mock.Anything, mock.Anything).Return(nil, nil)
	inventoryRepo.On("FindProductsByID", mock.Anything, mock.Anything).
		Return([]inventory.Product{{ID: 1, Price: 10, Stock: 1}}, nil)
	inventoryRepo.On("CheckAvailability", mock.Anything, mock.Anything).
		Return(inventory.ErrProductsWithoutStockOrNotExist)

	result, err := uc.Execute(context.Background(), CreateOrderInput{
		Items:    []CreateOrderItemInput{{ProductID: 1, Quantity: 5}},
		Delivery: validDelivery(),
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, inventory.ErrProductsWithoutStockOrNotExist)
	orderRepo.AssertNotCalled(t, "RunInTransaction", mock.Anything, mock.Anything)
}

func TestCreateOrder_ReservationFailureAbortsSaga(t *testing.T) {
	// Arrange
	uc, inventoryRepo, orderRepo, customerRepo, transactionRepo := newCreateOrderFixture()

	orderRepo.On("FindByIDIfProcessed", mock.Anything, mock.Anything).Return(nil, nil)
	inventoryRepo.On("FindProductsByID", mock.Anything, mock.Anything).
		Return([]inventory.Product{{ID: 1, Price: 10, Stock: 2}}, nil)
	inventoryRepo.On("CheckAvailability", mock.Anything, mock.Anything).Return(nil)

	orderRepo.On("RunInTransaction", mock.Anything, mock.Anything).Return(nil)
	customerRepo.On("UpsertByIDOrEmailTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&customers.Customer{ID: "customer-1"}, nil)
	orderRepo.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything).
		Return(&Order{ID: "order-1"}, nil)
	transactionRepo.On("CreateTransactionTx", mock.Anything, mock.Anything, mock.Anything).
		Return(&transactions.Transaction{ID: "txn-1"}, nil)
	inventoryRepo.On("ReserveStockTx", mock.Anything, mock.Anything, mock.Anything).
		Return(inventory.ErrProductsWithoutStockOrNotExist.WithMessage("insufficient stock for product 1"))

	// Act
	result, err := uc.Execute(context.Background(), CreateOrderInput{
		Items:    []CreateOrderItemInput{{ProductID: 1, Quantity: 2}},
		Delivery: validDelivery(),
	})

	// Assert
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrOrderCreationFailed)
}

func TestCreateOrder_IdempotencyLookupFailure(t *testing.T) {
	uc, _, orderRepo, _, _ := newCreateOrderFixture()

	orderRepo.On("FindByIDIfProcessed", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset"))

	result, err := uc.Execute(context.Background(), CreateOrderInput{
		Items:    []CreateOrderItemInput{{ProductID: 1, Quantity: 1}},
		Delivery: validDelivery(),
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrOrderCreationFailed)
}

func TestCreateOrder_DuplicateProductIDsCollapse(t *testing.T) {
	uc, inventoryRepo, orderRepo, customerRepo, transactionRepo := newCreateOrderFixture()

	orderRepo.On("FindByIDIfProcessed", mock.Anything, mock.Anything).Return(nil, nil)
	// The lookup must receive each product id once even when it appears on
	// several order lines.
	inventoryRepo.On("FindProductsByID", mock.Anything, []int64{7}).
		Return([]inventory.Product{{ID: 7, Price: 5, Stock: 10}}, nil)
	inventoryRepo.On("CheckAvailability", mock.Anything, mock.Anything).Return(nil)
	orderRepo.On("RunInTransaction", mock.Anything, mock.Anything).Return(nil)
	customerRepo.On("UpsertByIDOrEmailTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&customers.Customer{ID: "customer-1"}, nil)
	orderRepo.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything).
		Return(&Order{ID: "order-1"}, nil)
	transactionRepo.On("CreateTransactionTx", mock.Anything, mock.Anything, mock.Anything).
		Return(&transactions.Transaction{ID: "txn-1"}, nil)
	inventoryRepo.On("ReserveStockTx", mock.Anything, mock.Anything, []inventory.StockItem{
		{ID: 7, Quantity: 1},
		{ID: 7, Quantity: 2},
	}).Return(nil)

	_, err := uc.Execute(context.Background(), CreateOrderInput{
		Items: []CreateOrderItemInput{
			{ProductID: 7, Quantity: 1},
			{ProductID: 7, Quantity: 2},
		},
		Delivery: validDelivery(),
	})

	assert.NoError(t, err)
	inventoryRepo.AssertExpectations(t)
}
