package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/config"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/errs"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/logging"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/service"
)

// sessionCookie identifies the browsing session. Carts, checkout flows
// and the chat widget are all keyed by it.
const sessionCookie = "tg_session"

const sessionCookieMaxAge = 60 * 60 * 24 * 365

// Handlers holds all HTTP handlers for the storefront service.
type Handlers struct {
	catalog  *service.CatalogService
	cart     *service.CartService
	checkout *service.CheckoutService
	chat     *service.ChatService
	history  *service.HistoryService
	config   *config.Config
	logger   *logging.Logger
}

// NewHandlers creates a new handlers instance.
func NewHandlers(
	catalog *service.CatalogService,
	cart *service.CartService,
	checkout *service.CheckoutService,
	chat *service.ChatService,
	history *service.HistoryService,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		catalog:  catalog,
		cart:     cart,
		checkout: checkout,
		chat:     chat,
		history:  history,
		config:   cfg,
		logger:   logging.New("handlers"),
	}
}

// sessionID returns the request's session id, minting and setting a
// cookie on first contact.
func (h *Handlers) sessionID(c *gin.Context) string {
	if id, err := c.Cookie(sessionCookie); err == nil && id != "" {
		return id
	}
	id := uuid.NewString()
	c.SetCookie(sessionCookie, id, sessionCookieMaxAge, "/", "", false, true)
	return id
}

func handleError(c *gin.Context, err error) {
	if errors.Is(err, errs.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if fieldErrors, ok := errs.AsFieldErrors(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": fieldErrors,
		})
		return
	}

	if errors.Is(err, service.ErrEmptyCart) || errors.Is(err, service.ErrWrongStep) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
