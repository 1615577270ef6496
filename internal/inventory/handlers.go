package inventory

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apps10/fullstack-test-backend/internal/apperr"
)

type Handler struct {
	findAllProducts *FindAllProductsUseCase
}

func NewHandler(findAllProducts *FindAllProductsUseCase) *Handler {
	return &Handler{findAllProducts: findAllProducts}
}

// FindAllProducts handles GET /api/products.
func (h *Handler) FindAllProducts(c *gin.Context) {
	products, err := h.findAllProducts.Execute(c.Request.Context())
	if err != nil {
		c.JSON(apperr.StatusCode(err), gin.H{"message": apperr.UserMessage(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}
