// Package wompi adapts the Wompi sandbox card API to the orders.PaymentService
// port. The gateway call sequence is: merchant presigned tokens, card token,
// payment source, charge with an integrity signature, then a status poll after
// a short settle delay.
package wompi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/Apps10/fullstack-test-backend/internal/orders"
	"github.com/Apps10/fullstack-test-backend/internal/platform/config"
)

const (
	payerName = "WOMPI"
	currency  = "COP"
)

type Service struct {
	http        *resty.Client
	publicKey   string
	privateKey  string
	integrity   string
	settleDelay time.Duration
	log         *zap.Logger
}

func New(cfg config.WompiConfig, log *zap.Logger) *Service {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Service{
		http:        client,
		publicKey:   cfg.PublicKey,
		privateKey:  cfg.PrivateKey,
		integrity:   cfg.IntegrityKey,
		settleDelay: cfg.SettleDelay,
		log:         log,
	}
}

type presignedToken struct {
	AcceptanceToken string `json:"acceptance_token"`
}

type merchantResponse struct {
	Data struct {
		PresignedAcceptance       presignedToken `json:"presigned_acceptance"`
		PresignedPersonalDataAuth presignedToken `json:"presigned_personal_data_auth"`
	} `json:"data"`
}

type cardTokenResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type paymentSourceResponse struct {
	Data struct {
		ID int64 `json:"id"`
	} `json:"data"`
}

type transactionData struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Reference string `json:"reference"`
	CreatedAt string `json:"created_at"`
}

type transactionResponse struct {
	Data transactionData `json:"data"`
}

// ProcessPayment runs one charge attempt. A gateway rejection of the card or
// source comes back as a DENIED result; transport failures come back as a
// generic payment error.
func (s *Service) ProcessPayment(ctx context.Context, req orders.PaymentRequest) (*orders.PaymentResult, error) {
	denied := &orders.PaymentResult{
		TransactionID: req.TransactionID,
		OrderID:       req.OrderID,
		Status:        orders.PaymentDenied,
		PayerName:     payerName,
		Currency:      currency,
		TotalAmount:   req.TotalAmount,
		BaseFee:       req.BaseFee,
		TaxFee:        req.TaxFee,
		CreatedAt:     time.Now().UTC(),
	}

	acceptance, personalAuth, err := s.merchantTokens(ctx)
	if err != nil {
		return nil, orders.ErrPaymentGeneric.WithCause(err)
	}
	if acceptance == "" || personalAuth == "" {
		return nil, orders.ErrPaymentCreditCard
	}

	cardToken, err := s.cardToken(ctx, req.CreditCard)
	if err != nil {
		s.log.Warn("card tokenization rejected", zap.String("order_id", req.OrderID), zap.Error(err))
		denied.Description = "error with the payment method"
		return denied, nil
	}

	sourceID, err := s.paymentSource(ctx, cardToken, req.EmailHolder, acceptance, personalAuth)
	if err != nil {
		s.log.Warn("payment source rejected", zap.String("order_id", req.OrderID), zap.Error(err))
		denied.Description = "error with the payment method"
		return denied, nil
	}

	charge, err := s.charge(ctx, sourceID, req.OrderID, req.EmailHolder, req.TotalAmount)
	if err != nil {
		return nil, orders.ErrPaymentCreditCard.WithCause(err)
	}

	// The sandbox settles asynchronously; give it a moment before polling.
	select {
	case <-ctx.Done():
		return nil, orders.ErrPaymentGeneric.WithCause(ctx.Err())
	case <-time.After(s.settleDelay):
	}

	settled, err := s.findTransaction(ctx, charge.ID)
	if err != nil {
		return nil, orders.ErrPaymentGeneric.WithCause(err)
	}

	result := *denied
	result.PayerReference = settled.Reference
	if settled.Status == "APPROVED" {
		result.Status = orders.PaymentApproved
	}
	if createdAt, parseErr := time.Parse(time.RFC3339, settled.CreatedAt); parseErr == nil {
		result.CreatedAt = createdAt
	}
	return &result, nil
}

func (s *Service) merchantTokens(ctx context.Context) (acceptance, personalAuth string, err error) {
	var out merchantResponse
	resp, err := s.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/merchants/" + s.publicKey)
	if err != nil {
		return "", "", fmt.Errorf("wompi: fetch merchant: %w", err)
	}
	if resp.IsError() {
		return "", "", fmt.Errorf("wompi: fetch merchant: status %d", resp.StatusCode())
	}
	return out.Data.PresignedAcceptance.AcceptanceToken,
		out.Data.PresignedPersonalDataAuth.AcceptanceToken, nil
}

func (s *Service) cardToken(ctx context.Context, card orders.CardDetails) (string, error) {
	var out cardTokenResponse
	resp, err := s.http.R().
		SetContext(ctx).
		SetAuthToken(s.publicKey).
		SetBody(card).
		SetResult(&out).
		Post("/tokens/cards")
	if err != nil {
		return "", fmt.Errorf("wompi: tokenize card: %w", err)
	}
	if resp.IsError() || out.Data.ID == "" {
		return "", fmt.Errorf("wompi: tokenize card: status %d", resp.StatusCode())
	}
	return out.Data.ID, nil
}

func (s *Service) paymentSource(ctx context.Context, cardToken, emailHolder, acceptance, personalAuth string) (int64, error) {
	var out paymentSourceResponse
	resp, err := s.http.R().
		SetContext(ctx).
		SetAuthToken(s.privateKey).
		SetBody(map[string]any{
			"type":                 "CARD",
			"token":                cardToken,
			"customer_email":       emailHolder,
			"acceptance_token":     acceptance,
			"accept_personal_auth": personalAuth,
		}).
		SetResult(&out).
		Post("/payment_sources")
	if err != nil {
		return 0, fmt.Errorf("wompi: create payment source: %w", err)
	}
	if resp.IsError() || out.Data.ID == 0 {
		return 0, fmt.Errorf("wompi: create payment source: status %d", resp.StatusCode())
	}
	return out.Data.ID, nil
}

func (s *Service) charge(ctx context.Context, sourceID int64, orderID, emailHolder string, totalAmount float64) (*transactionData, error) {
	reference := fmt.Sprintf("order-%s-%d", orderID, time.Now().UnixMilli())
	amountInCents := int64(math.Round(totalAmount * 100))

	sum := sha256.Sum256(fmt.Appendf(nil, "%s%d%s%s", reference, amountInCents, currency, s.integrity))
	signature := hex.EncodeToString(sum[:])

	var out transactionResponse
	resp, err := s.http.R().
		SetContext(ctx).
		SetAuthToken(s.privateKey).
		SetBody(map[string]any{
			"amount_in_cents": amountInCents,
			"currency":        currency,
			"signature":       signature,
			"customer_email":  emailHolder,
			"payment_method": map[string]any{
				"installments": 1,
			},
			"reference":         reference,
			"payment_source_id": sourceID,
		}).
		SetResult(&out).
		Post("/transactions")
	if err != nil {
		return nil, fmt.Errorf("wompi: create transaction: %w", err)
	}
	if resp.IsError() || out.Data.ID == "" {
		return nil, fmt.Errorf("wompi: create transaction: status %d", resp.StatusCode())
	}
	return &out.Data, nil
}

func (s *Service) findTransaction(ctx context.Context, transactionID string) (*transactionData, error) {
	var out transactionResponse
	resp, err := s.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/transactions/" + transactionID)
	if err != nil {
		return nil, fmt.Errorf("wompi: fetch transaction: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("wompi: fetch transaction: status %d", resp.StatusCode())
	}
	return &out.Data, nil
}
