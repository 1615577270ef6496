package transactions

import (
	"net/http"

	"github.com/Apps10/fullstack-test-backend/internal/apperr"
)

var (
	ErrTransactionNotFound = apperr.New(apperr.KindTransaction,
		"TRANSACTION_NOT_FOUND", "Transaction Not Found", http.StatusNotFound)

	ErrTransactionAlreadyProcessed = apperr.New(apperr.KindTransaction,
		"TRANSACTION_ALREADY_PROCESSED", "The Transaction already processed", http.StatusBadRequest)

	ErrTransactionGeneric = apperr.New(apperr.KindTransaction,
		"TRANSACTION_GENERIC", "The Transaction has an error", http.StatusBadRequest)
)
