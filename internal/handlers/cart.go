package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/logging"
)

type addToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart handles GET /api/v1/cart
func (h *Handlers) GetCart(c *gin.Context) {
	sessionID := h.sessionID(c)
	cart := h.cart.Get(sessionID)
	c.JSON(http.StatusOK, gin.H{
		"cart":   cart,
		"toasts": h.cart.Toasts(sessionID),
	})
}

// AddToCart handles POST /api/v1/cart/items
func (h *Handlers) AddToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind request", logging.Fields{"error": err.Error()})
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	products, _ := h.catalog.Load(c.Request.Context())
	for _, p := range products {
		if p.ID == req.ProductID {
			sessionID := h.sessionID(c)
			cart := h.cart.Add(sessionID, p)
			c.JSON(http.StatusOK, gin.H{
				"cart":   cart,
				"toasts": h.cart.Toasts(sessionID),
			})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

// UpdateCartItem handles PATCH /api/v1/cart/items/:id
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cart := h.cart.UpdateQuantity(h.sessionID(c), c.Param("id"), req.Quantity)
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

// RemoveCartItem handles DELETE /api/v1/cart/items/:id
func (h *Handlers) RemoveCartItem(c *gin.Context) {
	sessionID := h.sessionID(c)
	cart := h.cart.Remove(sessionID, c.Param("id"))
	c.JSON(http.StatusOK, gin.H{
		"cart":   cart,
		"toasts": h.cart.Toasts(sessionID),
	})
}
