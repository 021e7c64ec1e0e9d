package service

import (
	"context"
	"errors"

	"github.com/toorogadgets/toorogadgets-storefront-service/internal/errs"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/logging"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/models"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/repository"
)

// OrderHistory is the result of a history lookup: the resolved customer
// and their orders newest-first.
type OrderHistory struct {
	Customer *models.Customer `json:"customer"`
	Orders   []*models.Order  `json:"orders"`
}

// HistoryService answers order history lookups by phone number.
type HistoryService struct {
	customers repository.CustomerRepository
	orders    repository.OrderRepository
	logger    *logging.Logger
}

// NewHistoryService creates a new history service.
func NewHistoryService(customers repository.CustomerRepository, orders repository.OrderRepository) *HistoryService {
	return &HistoryService{
		customers: customers,
		orders:    orders,
		logger:    logging.New("history-service"),
	}
}

// Lookup finds the customer by phone and returns their orders. A phone
// with no customer behind it is errs.ErrNotFound, which callers present
// as "no orders found" rather than a failure.
func (s *HistoryService) Lookup(ctx context.Context, phone string) (*OrderHistory, error) {
	phone = models.CleanPhone(phone)
	if !ValidPhone(phone) {
		return nil, errs.NewValidationError("phone", "Please enter a valid phone number (e.g. 0701234567)")
	}

	customer, err := s.customers.GetByPhone(ctx, phone)
	if err != nil {
		if !errors.Is(err, errs.ErrNotFound) {
			s.logger.Error("Customer lookup failed", logging.Fields{"error": err.Error()})
		}
		return nil, err
	}

	orders, err := s.orders.GetByCustomerID(ctx, customer.ID)
	if err != nil {
		s.logger.Error("Order lookup failed", logging.Fields{
			"customer_id": customer.ID,
			"error":       err.Error(),
		})
		return nil, err
	}

	return &OrderHistory{Customer: customer, Orders: orders}, nil
}
