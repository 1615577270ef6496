package transactions

import "time"

// Status mirrors the payment gateway outcome after checkout.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusSuccess    Status = "SUCCESS"
	StatusFailed     Status = "FAILED"
	StatusCancelled  Status = "CANCELLED"
)

func (s Status) String() string {
	return string(s)
}

// Transaction is the financial record created together with its order. Exactly
// one exists per order at creation time; it is never deleted, only
// status-mutated.
type Transaction struct {
	ID                 string    `json:"id" db:"id"`
	OrderID            string    `json:"orderId" db:"order_id"`
	PayerName          string    `json:"payerName" db:"payer_name"`
	PayerTransactionID string    `json:"payerTransactionId,omitempty" db:"payer_transaction_id"`
	BaseFee            float64   `json:"baseFee" db:"base_fee"`
	TaxFee             float64   `json:"taxFee" db:"tax_fee"`
	TotalAmount        float64   `json:"totalAmount" db:"total_amount"`
	Description        string    `json:"description,omitempty" db:"description"`
	PaymentStatus      Status    `json:"paymentStatus" db:"payment_status"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

func New(orderID, payerName string, baseFee, taxFee, totalAmount float64) (*Transaction, error) {
	if orderID == "" {
		return nil, ErrTransactionGeneric.WithMessage("transaction requires an order id")
	}
	if totalAmount < 0 || baseFee < 0 || taxFee < 0 {
		return nil, ErrTransactionGeneric.WithMessage("transaction amounts cannot be negative")
	}
	now := time.Now().UTC()
	return &Transaction{
		OrderID:       orderID,
		PayerName:     payerName,
		BaseFee:       baseFee,
		TaxFee:        taxFee,
		TotalAmount:   totalAmount,
		PaymentStatus: StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Update is a partial mutation applied after checkout; nil fields are left
// untouched.
type Update struct {
	PayerName          *string
	PayerTransactionID *string
	Description        *string
	PaymentStatus      *Status
	TotalAmount        *float64
}

// OrderRecord is the order row joined to a transaction, without its items.
// Kept as plain values so this package stays independent of the orders context.
type OrderRecord struct {
	ID          string     `json:"id"`
	CustomerID  string     `json:"customerId"`
	Status      string     `json:"status"`
	BaseFee     float64    `json:"baseFee"`
	TaxFee      float64    `json:"taxFee"`
	TotalAmount float64    `json:"totalAmount"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TransactionWithOrder is the resolution of a checkout request: the
// transaction plus its owning order.
type TransactionWithOrder struct {
	Transaction
	Order OrderRecord `json:"order"`
}
