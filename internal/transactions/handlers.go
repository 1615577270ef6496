package transactions

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apps10/fullstack-test-backend/internal/apperr"
)

type Handler struct {
	findByID *FindTransactionByIDUseCase
}

func NewHandler(findByID *FindTransactionByIDUseCase) *Handler {
	return &Handler{findByID: findByID}
}

// FindTransactionByID handles GET /api/transactions/:id.
func (h *Handler) FindTransactionByID(c *gin.Context) {
	transaction, err := h.findByID.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"message": apperr.UserMessage(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}
