package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/models"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/service"
)

// BrowseProducts handles GET /api/v1/products
// Query params: category, type (all|new|deals), q, sort
// (featured|price-asc|price-desc|rating-desc).
func (h *Handlers) BrowseProducts(c *gin.Context) {
	query := service.BrowseQuery{
		Category: models.Category(c.Query("category")),
		Type:     service.TypeFilter(c.DefaultQuery("type", string(service.TypeFilterAll))),
		Search:   c.Query("q"),
		Sort:     service.SortKey(c.DefaultQuery("sort", string(service.SortFeatured))),
	}

	result := h.catalog.Browse(c.Request.Context(), query)
	c.JSON(http.StatusOK, result)
}

// ListCategories handles GET /api/v1/categories
func (h *Handlers) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": models.Categories})
}

// GetProduct handles GET /api/v1/products/:id
func (h *Handlers) GetProduct(c *gin.Context) {
	productID := c.Param("id")

	products, _ := h.catalog.Load(c.Request.Context())
	for _, p := range products {
		if p.ID == productID {
			c.JSON(http.StatusOK, p)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

// ShareProduct handles GET /api/v1/products/:id/share
// Returns the canonical link a client copies when native sharing is
// unavailable.
func (h *Handlers) ShareProduct(c *gin.Context) {
	productID := c.Param("id")

	products, _ := h.catalog.Load(c.Request.Context())
	for _, p := range products {
		if p.ID == productID {
			c.JSON(http.StatusOK, gin.H{
				"url":   h.catalog.ShareLink(p.ID),
				"title": p.Name,
			})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}
