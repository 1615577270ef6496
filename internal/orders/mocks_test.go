package orders

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/Apps10/fullstack-test-backend/internal/customers"
	"github.com/Apps10/fullstack-test-backend/internal/inventory"
	"github.com/Apps10/fullstack-test-backend/internal/transactions"
)

// MockOrderRepository implements Repository for use case tests. RunInTransaction
// executes the callback with a nil tx unless a preset error short-circuits it.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx, nil)
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *Order) (*Order, error) {
	args := m.Called(ctx, tx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateOrderTx(ctx context.Context, tx pgx.Tx, orderID string, update OrderUpdate) error {
	args := m.Called(ctx, tx, orderID, update)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByIDIfProcessed(ctx context.Context, id string) (*ProcessedOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ProcessedOrder), args.Error(1)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id string) (*Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) FindProductByID(ctx context.Context, id int64) (*inventory.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Product), args.Error(1)
}

func (m *MockInventoryRepository) FindProductsByID(ctx context.Context, ids []int64) ([]inventory.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Product), args.Error(1)
}

func (m *MockInventoryRepository) GetAllProductsInStock(ctx context.Context) ([]inventory.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Product), args.Error(1)
}

func (m *MockInventoryRepository) CheckAvailability(ctx context.Context, items []inventory.StockItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockInventoryRepository) ReserveStockTx(ctx context.Context, tx pgx.Tx, items []inventory.StockItem) error {
	args := m.Called(ctx, tx, items)
	return args.Error(0)
}

func (m *MockInventoryRepository) ReleaseStockTx(ctx context.Context, tx pgx.Tx, items []inventory.StockItem) error {
	args := m.Called(ctx, tx, items)
	return args.Error(0)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) UpsertByIDOrEmailTx(ctx context.Context, tx pgx.Tx, id string, customer customers.Customer) (*customers.Customer, error) {
	args := m.Called(ctx, tx, id, customer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customers.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetByEmail(ctx context.Context, email string) (*customers.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customers.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id string) (*customers.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customers.Customer), args.Error(1)
}

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) CreateTransactionTx(ctx context.Context, tx pgx.Tx, transaction *transactions.Transaction) (*transactions.Transaction, error) {
	args := m.Called(ctx, tx, transaction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transactions.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindOrderByTransactionID(ctx context.Context, transactionID string) (*transactions.TransactionWithOrder, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transactions.TransactionWithOrder), args.Error(1)
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, transactionID string) (*transactions.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transactions.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) UpdateTransaction(ctx context.Context, tx pgx.Tx, transactionID string, update transactions.Update) error {
	args := m.Called(ctx, tx, transactionID, update)
	return args.Error(0)
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) ProcessPayment(ctx context.Context, request PaymentRequest) (*PaymentResult, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PaymentResult), args.Error(1)
}
