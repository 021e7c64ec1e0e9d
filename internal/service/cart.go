package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/logging"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/models"
)

// toastDuration is how long a toast stays visible before auto-dismissing.
const toastDuration = 3 * time.Second

// Toast is a transient notification raised by cart changes.
type Toast struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CartService holds one in-memory cart per browsing session. Carts are
// deliberately not persisted; a session that goes away takes its cart
// with it.
type CartService struct {
	mu     sync.Mutex
	carts  map[string]*models.Cart
	toasts map[string][]Toast
	logger *logging.Logger

	now func() time.Time
}

// NewCartService creates a new cart service.
func NewCartService() *CartService {
	return &CartService{
		carts:  make(map[string]*models.Cart),
		toasts: make(map[string][]Toast),
		logger: logging.New("cart-service"),
		now:    time.Now,
	}
}

// Get returns a snapshot of the session's cart.
func (s *CartService) Get(sessionID string) *models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(sessionID)
}

// Add puts a product in the cart: increments the quantity if the product
// is already a line, otherwise inserts a new line with quantity 1.
func (s *CartService) Add(sessionID string, product models.Product) *models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cart(sessionID)
	for i := range cart.Lines {
		if cart.Lines[i].Product.ID == product.ID {
			cart.Lines[i].Quantity++
			s.pushToast(sessionID, product.Name+" quantity updated")
			return s.snapshot(sessionID)
		}
	}

	cart.Lines = append(cart.Lines, models.CartLine{Product: product, Quantity: 1})
	s.pushToast(sessionID, product.Name+" added to cart")
	return s.snapshot(sessionID)
}

// UpdateQuantity replaces a line's quantity. Quantities below 1 are a
// no-op; removal is a separate explicit action.
func (s *CartService) UpdateQuantity(sessionID, productID string, qty int) *models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	if qty >= 1 {
		cart := s.cart(sessionID)
		for i := range cart.Lines {
			if cart.Lines[i].Product.ID == productID {
				cart.Lines[i].Quantity = qty
				break
			}
		}
	}
	return s.snapshot(sessionID)
}

// Remove deletes the line entirely, whatever its quantity.
func (s *CartService) Remove(sessionID, productID string) *models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cart(sessionID)
	for i := range cart.Lines {
		if cart.Lines[i].Product.ID == productID {
			name := cart.Lines[i].Product.Name
			cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
			s.pushToast(sessionID, name+" removed from cart")
			break
		}
	}
	return s.snapshot(sessionID)
}

// Clear empties the session's cart. Called after a successful checkout.
func (s *CartService) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}

// Toasts returns the session's live toasts, dropping any that have
// already expired.
func (s *CartService) Toasts(sessionID string) []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	live := make([]Toast, 0)
	for _, t := range s.toasts[sessionID] {
		if t.ExpiresAt.After(now) {
			live = append(live, t)
		}
	}
	s.toasts[sessionID] = live
	return live
}

func (s *CartService) cart(sessionID string) *models.Cart {
	cart, ok := s.carts[sessionID]
	if !ok {
		cart = &models.Cart{}
		s.carts[sessionID] = cart
	}
	return cart
}

func (s *CartService) snapshot(sessionID string) *models.Cart {
	cart := s.cart(sessionID)
	out := &models.Cart{Lines: make([]models.CartLine, len(cart.Lines))}
	copy(out.Lines, cart.Lines)
	return out
}

func (s *CartService) pushToast(sessionID, message string) {
	s.toasts[sessionID] = append(s.toasts[sessionID], Toast{
		ID:        uuid.NewString(),
		Message:   message,
		ExpiresAt: s.now().Add(toastDuration),
	})
}
