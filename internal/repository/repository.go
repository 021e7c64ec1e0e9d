package repository

import (
	"context"

	"github.com/toorogadgets/toorogadgets-storefront-service/internal/models"
)

// CustomerRepository finds and writes customer rows, always keyed by
// equality predicates (phone or id).
type CustomerRepository interface {
	GetByPhone(ctx context.Context, phone string) (*models.Customer, error)
	Create(ctx context.Context, name, phone, location string) (*models.Customer, error)
	Update(ctx context.Context, id, name, location string) error
}

// OrderRepository writes orders and reads them back per customer.
type OrderRepository interface {
	NextOrderNumber(ctx context.Context) (int64, error)
	Create(ctx context.Context, order *models.Order) error
	GetByCustomerID(ctx context.Context, customerID string) ([]*models.Order, error)
}

// ProductRepository loads the catalog.
type ProductRepository interface {
	List(ctx context.Context) ([]models.Product, error)
}

// ConversationRepository manages the one-conversation-per-customer rows.
// SetPreview adds unreadDelta to the stored unread counter alongside the
// preview text; customer sends pass 0, admin sends 1.
type ConversationRepository interface {
	GetByCustomerID(ctx context.Context, customerID string) (*models.Conversation, error)
	Create(ctx context.Context, customerID string) (*models.Conversation, error)
	SetPreview(ctx context.Context, id, lastMessage string, unreadDelta int) error
	ResetUnread(ctx context.Context, id string) error
}

// MessageRepository stores chat messages.
type MessageRepository interface {
	Insert(ctx context.Context, msg *models.Message) error
	ListByConversation(ctx context.Context, conversationID string) ([]models.Message, error)
	MarkConversationRead(ctx context.Context, conversationID string) error
}

// CatalogCache sits in front of the product list. Failures are advisory;
// callers fall through to the repository.
type CatalogCache interface {
	Get(ctx context.Context) ([]models.Product, error)
	Set(ctx context.Context, products []models.Product) error
	Invalidate(ctx context.Context) error
}

// Interface checks.
var (
	_ CustomerRepository     = (*PostgresCustomerRepository)(nil)
	_ OrderRepository        = (*PostgresOrderRepository)(nil)
	_ ProductRepository      = (*PostgresProductRepository)(nil)
	_ ConversationRepository = (*PostgresConversationRepository)(nil)
	_ MessageRepository      = (*PostgresMessageRepository)(nil)
	_ CatalogCache           = (*RedisCatalogCache)(nil)
)
