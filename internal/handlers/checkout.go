package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/models"
)

type checkoutInfoRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

type fulfillmentRequest struct {
	FulfillmentType string `json:"fulfillment_type"`
}

// StartCheckout handles POST /api/v1/checkout
func (h *Handlers) StartCheckout(c *gin.Context) {
	flow, err := h.checkout.Start(h.sessionID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, flow)
}

// GetCheckout handles GET /api/v1/checkout
func (h *Handlers) GetCheckout(c *gin.Context) {
	flow, err := h.checkout.Current(h.sessionID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, flow)
}

// SubmitCheckoutInfo handles POST /api/v1/checkout/info
func (h *Handlers) SubmitCheckoutInfo(c *gin.Context) {
	var req checkoutInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	flow, err := h.checkout.SubmitInfo(h.sessionID(c), req.Name, req.Phone, req.Location)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, flow)
}

// ChooseFulfillment handles POST /api/v1/checkout/fulfillment
func (h *Handlers) ChooseFulfillment(c *gin.Context) {
	var req fulfillmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	flow, err := h.checkout.ChooseFulfillment(h.sessionID(c), models.FulfillmentType(req.FulfillmentType))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, flow)
}

// PlaceOrder handles POST /api/v1/checkout/place
func (h *Handlers) PlaceOrder(c *gin.Context) {
	flow, err := h.checkout.PlaceOrder(c.Request.Context(), h.sessionID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, flow)
}

// CheckoutBack handles POST /api/v1/checkout/back
func (h *Handlers) CheckoutBack(c *gin.Context) {
	flow, err := h.checkout.Back(h.sessionID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, flow)
}

// ResetCheckout handles DELETE /api/v1/checkout
func (h *Handlers) ResetCheckout(c *gin.Context) {
	h.checkout.Reset(h.sessionID(c))
	c.Status(http.StatusNoContent)
}
