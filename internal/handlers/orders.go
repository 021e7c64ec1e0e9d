package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OrderHistory handles GET /api/v1/orders?phone=...
// An unknown phone is a 404 the client renders as "no orders found".
func (h *Handlers) OrderHistory(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone query parameter required"})
		return
	}

	history, err := h.history.Lookup(c.Request.Context(), phone)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
