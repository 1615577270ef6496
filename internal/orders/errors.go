package orders

import (
	"net/http"

	"github.com/Apps10/fullstack-test-backend/internal/apperr"
)

var (
	ErrOrderNotFound = apperr.New(apperr.KindOrder,
		"ORDER_NOT_FOUND", "Order Not Found", http.StatusNotFound)

	ErrOrderShouldHaveItems = apperr.New(apperr.KindOrder,
		"ORDER_SHOULD_HAVE_ITEMS", "The order must have at least one item", http.StatusBadRequest)

	ErrOrderAlreadyProcessed = apperr.New(apperr.KindOrder,
		"ORDER_ALREADY_PROCESSED", "The order already processed", http.StatusBadRequest)

	ErrOrderGeneric = apperr.New(apperr.KindOrder,
		"ORDER_GENERIC", "The order has an error", http.StatusBadRequest)

	ErrOrderInvalidQuantity = apperr.New(apperr.KindOrder,
		"ORDER_INVALID_QUANTITY", "Invalid quantity in orderItems", http.StatusBadRequest)

	ErrDeliveryRequired = apperr.New(apperr.KindOrder,
		"ORDER_DELIVERY_REQUIRED", "delivery info is required", http.StatusBadRequest)

	// ErrOrderCreationFailed is the single error surfaced when the atomic unit
	// aborts; the originating cause is logged, never returned.
	ErrOrderCreationFailed = apperr.New(apperr.KindOrder,
		"ORDER_CREATION_FAILED", "Order failed, try later", http.StatusInternalServerError)
)

var (
	ErrPaymentNotFound = apperr.New(apperr.KindPayment,
		"PAYMENT_NOT_FOUND", "payment Not Found", http.StatusNotFound)

	// ErrPaymentCreditCard covers field-level card validation failures; use
	// WithMessage for the specific field.
	ErrPaymentCreditCard = apperr.New(apperr.KindPayment,
		"PAYMENT_CREDIT_CARD", "We had problems with your paymethod, try again", http.StatusPaymentRequired)

	ErrPaymentGeneric = apperr.New(apperr.KindPayment,
		"PAYMENT_GENERIC", "The payment could not be processed", http.StatusPaymentRequired)
)
