package orders

import (
	"context"
	"time"
)

// PaymentStatus is the gateway verdict for a single charge attempt.
type PaymentStatus string

const (
	PaymentApproved PaymentStatus = "APPROVED"
	PaymentDenied   PaymentStatus = "DENIED"
)

// CardDetails is the normalized, ephemeral card. It exists only for the
// duration of a checkout call and is never persisted or logged.
type CardDetails struct {
	Number     string `json:"number"`
	ExpMonth   string `json:"exp_month"`
	ExpYear    string `json:"exp_year"`
	CVC        string `json:"cvc"`
	CardHolder string `json:"card_holder"`
}

type PaymentRequest struct {
	CreditCard    CardDetails
	CustomerID    string
	EmailHolder   string
	OrderID       string
	TransactionID string
	TotalAmount   float64
	BaseFee       float64
	TaxFee        float64
}

type PaymentResult struct {
	TransactionID  string        `json:"id"`
	OrderID        string        `json:"orderId"`
	Status         PaymentStatus `json:"status"`
	PayerName      string        `json:"payerName"`
	PayerReference string        `json:"payerReference,omitempty"`
	Description    string        `json:"description,omitempty"`
	Currency       string        `json:"currency"`
	TotalAmount    float64       `json:"totalAmount"`
	BaseFee        float64       `json:"basefee"`
	TaxFee         float64       `json:"taxfee"`
	CreatedAt      time.Time     `json:"created_at"`
}

// PaymentService is the card-processor port. One call, one charge attempt: the
// core never retries, and transport failures surface as a generic payment
// error rather than being swallowed.
type PaymentService interface {
	ProcessPayment(ctx context.Context, request PaymentRequest) (*PaymentResult, error)
}
