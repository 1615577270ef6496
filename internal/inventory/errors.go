package inventory

import (
	"net/http"

	"github.com/Apps10/fullstack-test-backend/internal/apperr"
)

var (
	ErrProductNotFound = apperr.New(apperr.KindInventory,
		"PRODUCT_NOT_FOUND", "Product Not Found", http.StatusNotFound)

	ErrProductWithoutStock = apperr.New(apperr.KindInventory,
		"PRODUCT_WITHOUT_STOCK", "Product Without Stock", http.StatusBadRequest)

	ErrProductsWithoutStockOrNotExist = apperr.New(apperr.KindInventory,
		"PRODUCTS_WITHOUT_STOCK_OR_NOT_EXIST", "Some products do not exist or are out of stock", http.StatusNotFound)

	ErrReserveStock = apperr.New(apperr.KindInventory,
		"RESERVE_STOCK_FAILED", "Error Reserving Stock, try later", http.StatusInternalServerError)

	ErrInvalidPrice = apperr.New(apperr.KindInventory,
		"PRODUCT_INVALID_PRICE", "product price cannot be negative", http.StatusBadRequest)

	ErrInvalidStock = apperr.New(apperr.KindInventory,
		"PRODUCT_INVALID_STOCK", "product stock cannot be negative", http.StatusBadRequest)
)
