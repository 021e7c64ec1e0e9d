package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/clients"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/config"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/events"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/logging"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/models"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/repository"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/service"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/session"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Load()
	sessions, err := session.NewStore(t.TempDir(), logging.New("handlers-test"))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	customers := repository.NewMemoryCustomerRepository()
	orders := repository.NewMemoryOrderRepository()
	conversations := repository.NewMemoryConversationRepository()
	messages := repository.NewMemoryMessageRepository()
	fallback := repository.NewFallbackProductRepository()

	catalog := service.NewCatalogService(fallback, fallback, repository.NewMemoryCatalogCache(), cfg)
	cart := service.NewCartService()
	checkout := service.NewCheckoutService(customers, orders, cart, sessions, events.NewMockOrderPublisher(), cfg)
	chat := service.NewChatService(customers, conversations, messages, events.NewMemoryFeed(), clients.NewMockNotifier(), sessions, cfg)
	history := service.NewHistoryService(customers, orders)

	h := NewHandlers(catalog, cart, checkout, chat, history, cfg)

	router := gin.New()
	router.GET("/health", h.Health)
	router.GET("/api/v1/products", h.BrowseProducts)
	router.GET("/api/v1/products/:id", h.GetProduct)
	router.GET("/api/v1/products/:id/share", h.ShareProduct)
	router.GET("/api/v1/categories", h.ListCategories)
	router.GET("/api/v1/cart", h.GetCart)
	router.POST("/api/v1/cart/items", h.AddToCart)
	router.PATCH("/api/v1/cart/items/:id", h.UpdateCartItem)
	router.DELETE("/api/v1/cart/items/:id", h.RemoveCartItem)
	router.POST("/api/v1/checkout", h.StartCheckout)
	router.POST("/api/v1/checkout/info", h.SubmitCheckoutInfo)
	router.POST("/api/v1/checkout/fulfillment", h.ChooseFulfillment)
	router.POST("/api/v1/checkout/place", h.PlaceOrder)
	router.POST("/api/v1/checkout/back", h.CheckoutBack)
	router.GET("/api/v1/orders", h.OrderHistory)
	router.POST("/api/v1/chat/bootstrap", h.BootstrapChat)
	router.GET("/api/v1/pages/:slug", h.GetPage)
	return router
}

// do issues a request, carrying the session cookie between calls.
func do(t *testing.T, router *gin.Engine, cookies []*http.Cookie, method, path string, body interface{}) (*httptest.ResponseRecorder, []*http.Cookie) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	out := cookies
	if set := w.Result().Cookies(); len(set) > 0 {
		out = set
	}
	return w, out
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	w, _ := do(t, router, nil, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", resp["status"])
	}
	if resp["service"] != "storefront-service" {
		t.Errorf("Expected service 'storefront-service', got %v", resp["service"])
	}
}

func TestBrowseProducts_Search(t *testing.T) {
	router := newTestRouter(t)

	w, _ := do(t, router, nil, http.MethodGet, "/api/v1/products?q=sony", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp service.BrowseResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(resp.Products) != 1 {
		t.Fatalf("Expected 1 product for 'sony', got %d", len(resp.Products))
	}
	if resp.Products[0].Name != "Sony WH-1000XM5 Wireless Headphones" {
		t.Errorf("Unexpected product: %q", resp.Products[0].Name)
	}
}

func TestBrowseProducts_CategoryAndSort(t *testing.T) {
	router := newTestRouter(t)

	w, _ := do(t, router, nil, http.MethodGet, "/api/v1/products?category=Audio&sort=price-asc", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp service.BrowseResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Products) == 0 {
		t.Fatal("Expected Audio products")
	}
	var prev int64
	for _, p := range resp.Products {
		if p.Category != models.CategoryAudio {
			t.Errorf("Non-Audio product %q in results", p.Name)
		}
		if p.Price < prev {
			t.Error("Products not in ascending price order")
		}
		prev = p.Price
	}
}

func TestCartEndpoints(t *testing.T) {
	router := newTestRouter(t)

	w, cookies := do(t, router, nil, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": "p-006"})
	if w.Code != http.StatusOK {
		t.Fatalf("AddToCart status = %d, body = %s", w.Code, w.Body.String())
	}

	w, cookies = do(t, router, cookies, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": "p-006"})
	if w.Code != http.StatusOK {
		t.Fatalf("Second AddToCart status = %d", w.Code)
	}

	var resp struct {
		Cart models.Cart `json:"cart"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Cart.Lines) != 1 || resp.Cart.Lines[0].Quantity != 2 {
		t.Errorf("Expected one line with quantity 2, got %+v", resp.Cart.Lines)
	}

	w, _ = do(t, router, cookies, http.MethodDelete, "/api/v1/cart/items/p-006", nil)
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Cart.Lines) != 0 {
		t.Errorf("Expected empty cart after removal, got %d lines", len(resp.Cart.Lines))
	}
}

func TestAddToCart_UnknownProduct(t *testing.T) {
	router := newTestRouter(t)

	w, _ := do(t, router, nil, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": "nope"})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestCheckout_EmptyCartConflict(t *testing.T) {
	router := newTestRouter(t)

	w, _ := do(t, router, nil, http.MethodPost, "/api/v1/checkout", nil)
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409 for empty cart, got %d", w.Code)
	}
}

func TestCheckout_ValidationErrorShape(t *testing.T) {
	router := newTestRouter(t)

	_, cookies := do(t, router, nil, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": "p-006"})
	do(t, router, cookies, http.MethodPost, "/api/v1/checkout", nil)

	w, _ := do(t, router, cookies, http.MethodPost, "/api/v1/checkout/info", gin.H{
		"name":     "Amina K",
		"phone":    "07",
		"location": "Fort Portal",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if _, ok := resp.Fields["phone"]; !ok {
		t.Errorf("Expected a phone field error, got %v", resp.Fields)
	}
}

func TestCheckout_FullFlow(t *testing.T) {
	router := newTestRouter(t)

	_, cookies := do(t, router, nil, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": "p-006"})
	do(t, router, cookies, http.MethodPost, "/api/v1/checkout", nil)
	do(t, router, cookies, http.MethodPost, "/api/v1/checkout/info", gin.H{
		"name":     "Amina K",
		"phone":    "0701234567",
		"location": "Fort Portal",
	})
	do(t, router, cookies, http.MethodPost, "/api/v1/checkout/fulfillment", gin.H{"fulfillment_type": "pickup"})

	w, _ := do(t, router, cookies, http.MethodPost, "/api/v1/checkout/place", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("PlaceOrder status = %d, body = %s", w.Code, w.Body.String())
	}

	var flow service.Flow
	if err := json.Unmarshal(w.Body.Bytes(), &flow); err != nil {
		t.Fatal(err)
	}
	if flow.Step != service.StepSuccess {
		t.Errorf("Step = %q, want success", flow.Step)
	}
	if flow.OrderNumber == "" {
		t.Error("Expected an order number")
	}
	if flow.DeliveryFee != 0 {
		t.Errorf("Pickup fee = %d, want 0", flow.DeliveryFee)
	}

	// The placed order shows up in history for that phone.
	w, _ = do(t, router, cookies, http.MethodGet, "/api/v1/orders?phone=0701234567", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("OrderHistory status = %d", w.Code)
	}
	var history service.OrderHistory
	if err := json.Unmarshal(w.Body.Bytes(), &history); err != nil {
		t.Fatal(err)
	}
	if len(history.Orders) != 1 {
		t.Errorf("Expected 1 order in history, got %d", len(history.Orders))
	}
}

func TestOrderHistory_UnknownPhone(t *testing.T) {
	router := newTestRouter(t)

	w, _ := do(t, router, nil, http.MethodGet, "/api/v1/orders?phone=0709999999", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestOrderHistory_MissingPhone(t *testing.T) {
	router := newTestRouter(t)

	w, _ := do(t, router, nil, http.MethodGet, "/api/v1/orders", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestChatBootstrap(t *testing.T) {
	router := newTestRouter(t)

	w, _ := do(t, router, nil, http.MethodPost, "/api/v1/chat/bootstrap", gin.H{
		"name":  "Amina K",
		"phone": "0701234567",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Bootstrap status = %d, body = %s", w.Code, w.Body.String())
	}

	var widget service.Widget
	if err := json.Unmarshal(w.Body.Bytes(), &widget); err != nil {
		t.Fatal(err)
	}
	if widget.Identity.ConversationID == "" {
		t.Error("Expected a conversation id")
	}
	if len(widget.Messages) != 1 || widget.Messages[0].Sender != models.SenderAdmin {
		t.Errorf("Expected the greeting message, got %+v", widget.Messages)
	}
}

func TestGetPage(t *testing.T) {
	router := newTestRouter(t)

	w, _ := do(t, router, nil, http.MethodGet, "/api/v1/pages/shipping", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var page Page
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatal(err)
	}
	if page.Title != "Shipping & Delivery" {
		t.Errorf("Title = %q", page.Title)
	}

	w, _ = do(t, router, nil, http.MethodGet, "/api/v1/pages/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown page, got %d", w.Code)
	}
}

func TestShareProduct(t *testing.T) {
	router := newTestRouter(t)

	w, _ := do(t, router, nil, http.MethodGet, "/api/v1/products/p-006/share", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["url"] == "" {
		t.Error("Expected a share url")
	}
}
