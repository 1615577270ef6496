package orders

import (
	"math"
	"time"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
	StatusDelivered Status = "DELIVERED"
)

func (s Status) String() string {
	return string(s)
}

// allowedTransitions encodes the one-directional order state machine. PAID,
// CANCELLED and DELIVERED are terminal with respect to checkout.
var allowedTransitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusPaid:      true,
		StatusCancelled: true,
	},
	StatusPaid:      {},
	StatusCancelled: {},
	StatusDelivered: {},
}

func (s Status) CanTransitionTo(next Status) bool {
	return allowedTransitions[s][next]
}

// Processed reports whether the order already went through checkout (or past
// it) and must reject another payment attempt.
func (s Status) Processed() bool {
	return s == StatusPaid || s == StatusCancelled || s == StatusDelivered
}

// OrderItem is an order line with an immutable total.
type OrderItem struct {
	ID        string  `json:"id" db:"id"`
	ProductID int64   `json:"productId" db:"product_id"`
	Quantity  int     `json:"quantity" db:"quantity"`
	UnitPrice float64 `json:"unitPrice" db:"unit_price"`
	LineTotal float64 `json:"lineTotal" db:"line_total"`
}

func NewOrderItem(productID int64, quantity int, unitPrice float64) (*OrderItem, error) {
	if quantity <= 0 {
		return nil, ErrOrderInvalidQuantity
	}
	if unitPrice < 0 {
		return nil, ErrOrderGeneric.WithMessage("unit price cannot be negative")
	}
	return &OrderItem{
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		LineTotal: unitPrice * float64(quantity),
	}, nil
}

type Order struct {
	ID          string      `json:"id" db:"id"`
	CustomerID  string      `json:"customerId" db:"customer_id"`
	Status      Status      `json:"status" db:"status"`
	BaseFee     float64     `json:"baseFee" db:"base_fee"`
	TaxFee      float64     `json:"taxFee" db:"tax_fee"`
	TotalAmount float64     `json:"totalAmount" db:"total_amount"`
	Items       []OrderItem `json:"orderItem" db:"-"`
	PaidAt      *time.Time  `json:"paidAt,omitempty" db:"paid_at"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// NewOrder creates a PENDING order, enforcing the at-least-one-item and
// totalAmount == round(baseFee + taxFee, 2) invariants.
func NewOrder(id, customerID string, items []OrderItem, baseFee, taxFee, totalAmount float64) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrOrderShouldHaveItems
	}
	if customerID == "" {
		return nil, ErrOrderGeneric.WithMessage("order requires a customer id")
	}
	if totalAmount != Round2(baseFee+taxFee) {
		return nil, ErrOrderGeneric.WithMessage("order total does not match base fee plus tax fee")
	}
	now := time.Now().UTC()
	return &Order{
		ID:          id,
		CustomerID:  customerID,
		Status:      StatusPending,
		BaseFee:     baseFee,
		TaxFee:      taxFee,
		TotalAmount: totalAmount,
		Items:       items,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
