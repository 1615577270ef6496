package customers

import (
	"net/http"

	"github.com/Apps10/fullstack-test-backend/internal/apperr"
)

var (
	ErrCustomerNotFound = apperr.New(apperr.KindCustomer,
		"CUSTOMER_NOT_FOUND", "Customer Not Found", http.StatusNotFound)

	ErrCustomerAlreadyExist = apperr.New(apperr.KindCustomer,
		"CUSTOMER_ALREADY_EXIST", "User Already Register", http.StatusBadRequest)

	ErrCustomerUpsert = apperr.New(apperr.KindCustomer,
		"CUSTOMER_UPSERT_FAILED", "Error creating a client", http.StatusBadRequest)

	ErrEmailRequired = apperr.New(apperr.KindCustomer,
		"CUSTOMER_EMAIL_REQUIRED", "customer email is required", http.StatusBadRequest)

	ErrNameRequired = apperr.New(apperr.KindCustomer,
		"CUSTOMER_NAME_REQUIRED", "customer name is required", http.StatusBadRequest)
)
