package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/errs"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/models"
)

// In-memory implementations. Used by tests and by local development
// without a database.

type MemoryCustomerRepository struct {
	mu        sync.Mutex
	customers map[string]*models.Customer
}

func NewMemoryCustomerRepository() *MemoryCustomerRepository {
	return &MemoryCustomerRepository{customers: make(map[string]*models.Customer)}
}

func (r *MemoryCustomerRepository) GetByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.Phone == phone {
			copied := *c
			return &copied, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r *MemoryCustomerRepository) Create(ctx context.Context, name, phone, location string) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	c := &models.Customer{
		ID:        uuid.NewString(),
		Name:      name,
		Phone:     phone,
		Location:  location,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.customers[c.ID] = c
	copied := *c
	return &copied, nil
}

func (r *MemoryCustomerRepository) Update(ctx context.Context, id, name, location string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return errs.ErrNotFound
	}
	c.Name = name
	c.Location = location
	c.UpdatedAt = time.Now()
	return nil
}

type MemoryOrderRepository struct {
	mu     sync.Mutex
	orders []*models.Order
	seq    int64

	// FailCreate forces Create to return this error when set.
	FailCreate error

	// CreateHook runs at the start of Create when set. Tests use it to
	// hold an order insert in flight.
	CreateHook func()
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{}
}

func (r *MemoryOrderRepository) NextOrderNumber(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return r.seq, nil
}

func (r *MemoryOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if r.CreateHook != nil {
		r.CreateHook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailCreate != nil {
		return r.FailCreate
	}
	copied := *order
	r.orders = append(r.orders, &copied)
	return nil
}

func (r *MemoryOrderRepository) GetByCustomerID(ctx context.Context, customerID string) ([]*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Order, 0)
	for _, o := range r.orders {
		if o.CustomerID == customerID {
			copied := *o
			out = append(out, &copied)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

type MemoryConversationRepository struct {
	mu            sync.Mutex
	conversations map[string]*models.Conversation
}

func NewMemoryConversationRepository() *MemoryConversationRepository {
	return &MemoryConversationRepository{conversations: make(map[string]*models.Conversation)}
}

func (r *MemoryConversationRepository) GetByCustomerID(ctx context.Context, customerID string) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.conversations {
		if c.CustomerID == customerID {
			copied := *c
			return &copied, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r *MemoryConversationRepository) Create(ctx context.Context, customerID string) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	c := &models.Conversation{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.conversations[c.ID] = c
	copied := *c
	return &copied, nil
}

func (r *MemoryConversationRepository) SetPreview(ctx context.Context, id, lastMessage string, unreadDelta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversations[id]
	if !ok {
		return errs.ErrNotFound
	}
	c.LastMessage = lastMessage
	c.UnreadCount += unreadDelta
	c.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryConversationRepository) ResetUnread(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversations[id]
	if !ok {
		return errs.ErrNotFound
	}
	c.UnreadCount = 0
	c.UpdatedAt = time.Now()
	return nil
}

type MemoryMessageRepository struct {
	mu       sync.Mutex
	messages []models.Message

	// FailInsert forces Insert to return this error when set.
	FailInsert error
}

func NewMemoryMessageRepository() *MemoryMessageRepository {
	return &MemoryMessageRepository{}
}

func (r *MemoryMessageRepository) Insert(ctx context.Context, msg *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailInsert != nil {
		return r.FailInsert
	}
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *MemoryMessageRepository) ListByConversation(ctx context.Context, conversationID string) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Message, 0)
	for _, m := range r.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryMessageRepository) MarkConversationRead(ctx context.Context, conversationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for i := range r.messages {
		m := &r.messages[i]
		if m.ConversationID == conversationID && m.Sender == models.SenderAdmin && m.ReadAt == nil {
			t := now
			m.ReadAt = &t
		}
	}
	return nil
}

// MemoryCatalogCache is a map-backed CatalogCache without expiry.
type MemoryCatalogCache struct {
	mu       sync.Mutex
	products []models.Product
	loaded   bool

	Hits   int
	Misses int
}

func NewMemoryCatalogCache() *MemoryCatalogCache {
	return &MemoryCatalogCache{}
}

func (c *MemoryCatalogCache) Get(ctx context.Context) ([]models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		c.Misses++
		return nil, errs.ErrNotFound
	}
	c.Hits++
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out, nil
}

func (c *MemoryCatalogCache) Set(ctx context.Context, products []models.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = make([]models.Product, len(products))
	copy(c.products, products)
	c.loaded = true
	return nil
}

func (c *MemoryCatalogCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = nil
	c.loaded = false
	return nil
}

// Interface checks.
var (
	_ CustomerRepository     = (*MemoryCustomerRepository)(nil)
	_ OrderRepository        = (*MemoryOrderRepository)(nil)
	_ ConversationRepository = (*MemoryConversationRepository)(nil)
	_ MessageRepository      = (*MemoryMessageRepository)(nil)
	_ CatalogCache           = (*MemoryCatalogCache)(nil)
)
