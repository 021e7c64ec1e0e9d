package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Page is a static informational page.
type Page struct {
	Slug    string   `json:"slug"`
	Title   string   `json:"title"`
	Body    []string `json:"body"`
	Updated string   `json:"updated"`
}

var policyPages = map[string]Page{
	"privacy": {
		Slug:  "privacy",
		Title: "Privacy Policy",
		Body: []string{
			"TooroGadgets collects only the details needed to fulfil your order: your name, phone number and delivery location.",
			"We never sell or share your information with third parties. Chat transcripts are kept so our team can follow up on your questions.",
			"You may ask us to delete your customer record at any time by contacting the shop.",
		},
		Updated: "2024-11-01",
	},
	"terms": {
		Slug:  "terms",
		Title: "Terms of Service",
		Body: []string{
			"All prices are listed in Ugandan shillings and include VAT.",
			"Orders are confirmed by our team before dispatch. An order is not binding until you receive a confirmation call or message.",
			"Payment is cash on delivery for delivered orders, or cash at the shop for pickup orders.",
		},
		Updated: "2024-11-01",
	},
	"shipping": {
		Slug:  "shipping",
		Title: "Shipping & Delivery",
		Body: []string{
			"We deliver within Fort Portal and surrounding areas by rider, usually the same day for orders placed before 3pm.",
			"A flat delivery fee of UGX 50,000 applies to all delivered orders regardless of size.",
			"Pickup at our shop on Lugard Road is free. Bring your order number.",
		},
		Updated: "2024-11-01",
	},
	"returns": {
		Slug:  "returns",
		Title: "Returns & Warranty",
		Body: []string{
			"Items can be returned within 7 days in their original packaging for an exchange or refund.",
			"Electronics carry the manufacturer warranty stated on the product page. Warranty claims are handled at the shop.",
			"Accessories sold in sealed packaging must be unopened to qualify for a return.",
		},
		Updated: "2024-11-01",
	},
	"contact": {
		Slug:  "contact",
		Title: "Contact Us",
		Body: []string{
			"Visit us on Lugard Road, Fort Portal, Monday to Saturday, 8am to 7pm.",
			"Call or WhatsApp 0701 234 567, or use the chat widget for quick questions.",
		},
		Updated: "2024-11-01",
	},
}

// GetPage handles GET /api/v1/pages/:slug
func (h *Handlers) GetPage(c *gin.Context) {
	page, ok := policyPages[c.Param("slug")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListPages handles GET /api/v1/pages
func (h *Handlers) ListPages(c *gin.Context) {
	slugs := make([]string, 0, len(policyPages))
	for slug := range policyPages {
		slugs = append(slugs, slug)
	}
	c.JSON(http.StatusOK, gin.H{"pages": slugs})
}
