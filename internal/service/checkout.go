package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/toorogadgets/toorogadgets-storefront-service/internal/config"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/errs"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/events"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/logging"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/metrics"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/models"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/repository"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/session"
)

// CheckoutStep is a state of the checkout flow. Steps advance strictly
// forward: info, fulfillment, review, success.
type CheckoutStep string

const (
	StepInfo        CheckoutStep = "info"
	StepFulfillment CheckoutStep = "fulfillment"
	StepReview      CheckoutStep = "review"
	StepSuccess     CheckoutStep = "success"
)

// ErrEmptyCart rejects checkout on a cart with no lines.
var ErrEmptyCart = errors.New("cart is empty")

// ErrWrongStep rejects an operation issued out of order, like placing an
// order before review.
var ErrWrongStep = errors.New("operation not valid in current checkout step")

// Flow is one session's checkout state. All money fields are derived;
// Total always equals Subtotal plus DeliveryFee.
type Flow struct {
	Step            CheckoutStep           `json:"step"`
	Name            string                 `json:"name"`
	Phone           string                 `json:"phone"`
	Location        string                 `json:"location"`
	FulfillmentType models.FulfillmentType `json:"fulfillment_type"`
	Subtotal        int64                  `json:"subtotal"`
	DeliveryFee     int64                  `json:"delivery_fee"`
	Total           int64                  `json:"total"`
	OrderNumber     string                 `json:"order_number,omitempty"`
}

// CheckoutService drives the checkout state machine and owns order
// placement.
type CheckoutService struct {
	mu       sync.Mutex
	flows    map[string]*Flow
	inflight map[string]bool

	customers repository.CustomerRepository
	orders    repository.OrderRepository
	cart      *CartService
	sessions  *session.Store
	publisher events.OrderPublisher
	config    *config.Config
	logger    *logging.Logger

	now func() time.Time
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	customers repository.CustomerRepository,
	orders repository.OrderRepository,
	cart *CartService,
	sessions *session.Store,
	publisher events.OrderPublisher,
	cfg *config.Config,
) *CheckoutService {
	return &CheckoutService{
		flows:     make(map[string]*Flow),
		inflight:  make(map[string]bool),
		customers: customers,
		orders:    orders,
		cart:      cart,
		sessions:  sessions,
		publisher: publisher,
		config:    cfg,
		logger:    logging.New("checkout-service"),
		now:       time.Now,
	}
}

// Start begins a checkout for the session's cart. The info step is
// pre-filled from any stored identity so repeat customers skip retyping.
func (s *CheckoutService) Start(sessionID string) (*Flow, error) {
	if s.cart.Get(sessionID).Empty() {
		return nil, ErrEmptyCart
	}

	flow := &Flow{
		Step:            StepInfo,
		FulfillmentType: models.FulfillmentDelivery,
	}

	var stored models.CustomerSession
	if err := s.sessions.Get(sessionID, session.KeyCustomer, &stored); err == nil {
		flow.Name = stored.Name
		flow.Phone = stored.Phone
		flow.Location = stored.Location
	}

	s.recalculate(sessionID, flow)

	s.mu.Lock()
	s.flows[sessionID] = flow
	s.mu.Unlock()
	return s.snapshot(sessionID)
}

// Current returns the session's flow, or errs.ErrNotFound if no checkout
// is in progress.
func (s *CheckoutService) Current(sessionID string) (*Flow, error) {
	return s.snapshot(sessionID)
}

// SubmitInfo validates the contact fields and advances info to
// fulfillment. Validation failures block the transition and carry
// field-level messages; nothing is written anywhere yet.
func (s *CheckoutService) SubmitInfo(sessionID, name, phone, location string) (*Flow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flow, ok := s.flows[sessionID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	if flow.Step != StepInfo {
		return nil, ErrWrongStep
	}

	if err := ValidateContact(name, phone, location); err != nil {
		return nil, err
	}

	flow.Name = name
	flow.Phone = models.CleanPhone(phone)
	flow.Location = location
	flow.Step = StepFulfillment
	return s.snapshotLocked(sessionID)
}

// ChooseFulfillment records the delivery-or-pickup choice and advances to
// review. No validation: a default is always pre-selected.
func (s *CheckoutService) ChooseFulfillment(sessionID string, f models.FulfillmentType) (*Flow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flow, ok := s.flows[sessionID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	if flow.Step != StepFulfillment {
		return nil, ErrWrongStep
	}

	if f != models.FulfillmentPickup {
		f = models.FulfillmentDelivery
	}
	flow.FulfillmentType = f
	flow.Step = StepReview
	s.recalculate(sessionID, flow)
	return s.snapshotLocked(sessionID)
}

// PlaceOrder runs the order placement sequence from the review step:
// resolve the customer, draw an order number, snapshot the cart, insert
// the order, persist the identity, then clear the cart and finish. Any
// failure leaves the flow in review so the user can retry the same
// action; there is no rollback of steps that already succeeded.
func (s *CheckoutService) PlaceOrder(ctx context.Context, sessionID string) (*Flow, error) {
	s.mu.Lock()
	flow, ok := s.flows[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, errs.ErrNotFound
	}
	if flow.Step != StepReview {
		s.mu.Unlock()
		return nil, ErrWrongStep
	}
	// One placement per session at a time; a double submit while the
	// first is still in flight is rejected, not duplicated.
	if s.inflight[sessionID] {
		s.mu.Unlock()
		return nil, ErrWrongStep
	}
	s.inflight[sessionID] = true
	pending := *flow
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inflight, sessionID)
		s.mu.Unlock()
	}()

	cart := s.cart.Get(sessionID)
	if cart.Empty() {
		return nil, ErrEmptyCart
	}

	customer, err := s.resolveCustomer(ctx, pending.Name, pending.Phone, pending.Location)
	if err != nil {
		metrics.OrderFailures.Inc()
		return nil, err
	}

	seq, err := s.orders.NextOrderNumber(ctx)
	if err != nil {
		metrics.OrderFailures.Inc()
		return nil, err
	}
	orderNumber := fmt.Sprintf("%s%04d", s.config.Store.OrderNumberPrefix, seq)

	order := s.buildOrder(orderNumber, customer.ID, &pending, cart)
	if err := s.orders.Create(ctx, order); err != nil {
		metrics.OrderFailures.Inc()
		return nil, err
	}

	stored := models.CustomerSession{
		CustomerID: customer.ID,
		Name:       customer.Name,
		Phone:      customer.Phone,
		Location:   customer.Location,
	}
	if err := s.sessions.Put(sessionID, session.KeyCustomer, stored); err != nil {
		// Log but don't fail; the order is already placed
		s.logger.Warn("Failed to persist customer identity", logging.Fields{
			"customer_id": customer.ID,
			"error":       err.Error(),
		})
	}

	if s.config.Features.EnableOrderEvents {
		if err := s.publisher.PublishOrderPlaced(ctx, order); err != nil {
			// Log but don't fail
			s.logger.Error("Failed to publish order placed event", logging.Fields{
				"order_number": order.OrderNumber,
				"error":        err.Error(),
			})
		}
	}

	s.cart.Clear(sessionID)
	metrics.OrdersPlaced.WithLabelValues(string(order.FulfillmentType)).Inc()

	s.mu.Lock()
	defer s.mu.Unlock()
	flow, ok = s.flows[sessionID]
	if !ok {
		flow = &pending
		s.flows[sessionID] = flow
	}
	flow.Step = StepSuccess
	flow.OrderNumber = order.OrderNumber
	flow.Subtotal = order.Subtotal
	flow.DeliveryFee = order.DeliveryFee
	flow.Total = order.Total

	s.logger.Info("Order placed", logging.Fields{
		"order_number": order.OrderNumber,
		"customer_id":  order.CustomerID,
		"total":        order.Total,
	})
	return s.snapshotLocked(sessionID)
}

// Back steps the flow one step backwards. Success is terminal; a
// completed checkout cannot be reopened.
func (s *CheckoutService) Back(sessionID string) (*Flow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flow, ok := s.flows[sessionID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	switch flow.Step {
	case StepFulfillment:
		flow.Step = StepInfo
	case StepReview:
		flow.Step = StepFulfillment
	case StepSuccess:
		return nil, ErrWrongStep
	}
	return s.snapshotLocked(sessionID)
}

// Reset abandons the session's checkout, if any.
func (s *CheckoutService) Reset(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flows, sessionID)
}

// resolveCustomer looks the customer up by phone, updating name and
// location on a hit and inserting a fresh row on a miss.
func (s *CheckoutService) resolveCustomer(ctx context.Context, name, phone, location string) (*models.Customer, error) {
	existing, err := s.customers.GetByPhone(ctx, phone)
	if err == nil {
		if err := s.customers.Update(ctx, existing.ID, name, location); err != nil {
			return nil, err
		}
		existing.Name = name
		existing.Location = location
		return existing, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}
	return s.customers.Create(ctx, name, phone, location)
}

func (s *CheckoutService) buildOrder(orderNumber, customerID string, flow *Flow, cart *models.Cart) *models.Order {
	items := make([]models.OrderItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		items = append(items, models.OrderItem{
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.Product.Price,
			Subtotal:    line.Subtotal(),
			Image:       line.Product.Image,
		})
	}

	subtotal := cart.Subtotal()
	deliveryFee := s.deliveryFee(flow.FulfillmentType)
	location := flow.Location
	if flow.FulfillmentType == models.FulfillmentPickup {
		location = ""
	}

	return &models.Order{
		OrderNumber:      orderNumber,
		CustomerID:       customerID,
		FulfillmentType:  flow.FulfillmentType,
		PaymentMethod:    models.PaymentMethodFor(flow.FulfillmentType),
		Items:            items,
		Subtotal:         subtotal,
		DeliveryFee:      deliveryFee,
		Total:            subtotal + deliveryFee,
		DeliveryLocation: location,
		PaymentStatus:    models.PaymentStatusPending,
		OrderStatus:      models.OrderStatusPendingConfirmation,
		CreatedAt:        s.now(),
	}
}

func (s *CheckoutService) deliveryFee(f models.FulfillmentType) int64 {
	if f == models.FulfillmentPickup {
		return 0
	}
	return s.config.Store.DeliveryFee
}

// recalculate refreshes the flow's derived money fields from the live
// cart. Callers hold no guarantee about s.mu; the cart service does its
// own locking.
func (s *CheckoutService) recalculate(sessionID string, flow *Flow) {
	subtotal := s.cart.Get(sessionID).Subtotal()
	fee := s.deliveryFee(flow.FulfillmentType)
	flow.Subtotal = subtotal
	flow.DeliveryFee = fee
	flow.Total = subtotal + fee
}

func (s *CheckoutService) snapshot(sessionID string) (*Flow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(sessionID)
}

func (s *CheckoutService) snapshotLocked(sessionID string) (*Flow, error) {
	flow, ok := s.flows[sessionID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	copied := *flow
	return &copied, nil
}
