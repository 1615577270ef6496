package orders

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apps10/fullstack-test-backend/internal/apperr"
)

// CreateOrderRequest is the POST /api/orders payload.
type CreateOrderRequest struct {
	OrderItems []CreateOrderItemInput `json:"orderItems" binding:"required,dive"`
	Delivery   *DeliveryInfo          `json:"delivery" binding:"required"`
	OrderID    string                 `json:"orderId"`
	CustomerID string                 `json:"customerId"`
}

// CheckoutRequest is the POST /api/orders/checkout payload.
type CheckoutRequest struct {
	TransactionID string `json:"transactionId" binding:"required"`
	CustomerID    string `json:"customerId" binding:"required"`
	EmailHolder   string `json:"emailHolder" binding:"required,email"`
	CreditCard    string `json:"creditCard" binding:"required"`
}

type Handler struct {
	createOrder *CreateOrderUseCase
	checkout    *CheckoutUseCase
}

func NewHandler(createOrder *CreateOrderUseCase, checkout *CheckoutUseCase) *Handler {
	return &Handler{createOrder: createOrder, checkout: checkout}
}

// CreateOrder handles POST /api/orders.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	result, err := h.createOrder.Execute(c.Request.Context(), CreateOrderInput{
		OrderID:    req.OrderID,
		CustomerID: req.CustomerID,
		Items:      req.OrderItems,
		Delivery:   req.Delivery,
	})
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"message": apperr.UserMessage(err)})
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Checkout handles POST /api/orders/checkout.
func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	result, err := h.checkout.Execute(c.Request.Context(), CheckoutInput{
		TransactionID: req.TransactionID,
		CustomerID:    req.CustomerID,
		EmailHolder:   req.EmailHolder,
		CreditCard:    req.CreditCard,
	})
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"message": apperr.UserMessage(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "transaction": result})
}
