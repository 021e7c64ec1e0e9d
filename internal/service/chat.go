package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/clients"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/config"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/errs"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/events"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/logging"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/metrics"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/models"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/repository"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/session"
)

// greetingMessage is the first admin message on every new conversation.
const greetingMessage = "Hello! Welcome to TooroGadgets. How can we help you today?"

// notificationPreviewLimit caps the message preview length in desktop
// notifications.
const notificationPreviewLimit = 80

// Widget is the chat widget's state for one session: the reduced message
// list, the unread counter, and whether the widget is open and focused.
type Widget struct {
	Identity models.ChatIdentity `json:"identity"`
	Active   bool                `json:"active"`
	Messages []models.Message    `json:"messages"`
	Unread   int                 `json:"unread"`
	Draft    string              `json:"draft,omitempty"`
}

// widgetState is the mutable server-side counterpart of Widget.
type widgetState struct {
	identity models.ChatIdentity
	active   bool
	messages []models.Message
	seen     map[string]bool
	unread   int
	draft    string
}

// ChatService owns chat identity bootstrap, message exchange and the
// widget state each session renders from.
type ChatService struct {
	mu      sync.Mutex
	widgets map[string]*widgetState

	customers     repository.CustomerRepository
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	feed          events.Feed
	notifier      clients.Notifier
	sessions      *session.Store
	config        *config.Config
	logger        *logging.Logger

	now func() time.Time
}

// NewChatService creates a new chat service.
func NewChatService(
	customers repository.CustomerRepository,
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	feed events.Feed,
	notifier clients.Notifier,
	sessions *session.Store,
	cfg *config.Config,
) *ChatService {
	return &ChatService{
		widgets:       make(map[string]*widgetState),
		customers:     customers,
		conversations: conversations,
		messages:      messages,
		feed:          feed,
		notifier:      notifier,
		sessions:      sessions,
		config:        cfg,
		logger:        logging.New("chat-service"),
		now:           time.Now,
	}
}

// Bootstrap establishes the session's chat identity: validate the contact
// details, look up or create the customer, then look up or create that
// customer's single conversation. A brand-new conversation gets the
// greeting message. The resolved identity is persisted so later visits
// skip this step.
func (s *ChatService) Bootstrap(ctx context.Context, sessionID, name, phone string) (*Widget, error) {
	if err := ValidateChatIdentity(name, phone); err != nil {
		return nil, err
	}
	phone = models.CleanPhone(phone)

	customer, err := s.customers.GetByPhone(ctx, phone)
	if errors.Is(err, errs.ErrNotFound) {
		customer, err = s.customers.Create(ctx, name, phone, "")
	}
	if err != nil {
		return nil, err
	}

	conversation, err := s.conversations.GetByCustomerID(ctx, customer.ID)
	if errors.Is(err, errs.ErrNotFound) {
		conversation, err = s.conversations.Create(ctx, customer.ID)
		if err == nil {
			s.insertGreeting(ctx, conversation.ID)
		}
	}
	if err != nil {
		return nil, err
	}

	identity := models.ChatIdentity{
		CustomerID:     customer.ID,
		ConversationID: conversation.ID,
		Name:           customer.Name,
		Phone:          customer.Phone,
	}
	if err := s.sessions.Put(sessionID, session.KeyChatIdentity, identity); err != nil {
		s.logger.Warn("Failed to persist chat identity", logging.Fields{
			"customer_id": customer.ID,
			"error":       err.Error(),
		})
	}

	history, err := s.messages.ListByConversation(ctx, conversation.ID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state := newWidgetState(identity, history)
	s.widgets[sessionID] = state
	return snapshotWidget(state), nil
}

// Resume restores the widget from a previously persisted identity.
// Returns errs.ErrNotFound when the session never bootstrapped.
func (s *ChatService) Resume(ctx context.Context, sessionID string) (*Widget, error) {
	s.mu.Lock()
	if state, ok := s.widgets[sessionID]; ok {
		defer s.mu.Unlock()
		return snapshotWidget(state), nil
	}
	s.mu.Unlock()

	var identity models.ChatIdentity
	if err := s.sessions.Get(sessionID, session.KeyChatIdentity, &identity); err != nil {
		return nil, errs.ErrNotFound
	}

	history, err := s.messages.ListByConversation(ctx, identity.ConversationID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state := newWidgetState(identity, history)
	s.widgets[sessionID] = state
	return snapshotWidget(state), nil
}

// newWidgetState rebuilds widget state from persisted history. Admin
// messages never marked read carry over into the unread counter.
func newWidgetState(identity models.ChatIdentity, history []models.Message) *widgetState {
	state := &widgetState{
		identity: identity,
		seen:     make(map[string]bool),
	}
	for _, m := range history {
		state.seen[m.ID] = true
		state.messages = append(state.messages, m)
		if m.Sender == models.SenderAdmin && m.ReadAt == nil {
			state.unread++
		}
	}
	return state
}

// Send stores a customer message and publishes it on the conversation
// feed. On failure the text is kept as the widget's draft so the input
// can be restored instead of losing what was typed.
func (s *ChatService) Send(ctx context.Context, sessionID, content string) (*Widget, error) {
	s.mu.Lock()
	state, ok := s.widgets[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, errs.ErrNotFound
	}
	identity := state.identity
	state.draft = ""
	s.mu.Unlock()

	msg := &models.Message{
		ID:             uuid.NewString(),
		ConversationID: identity.ConversationID,
		Sender:         models.SenderCustomer,
		Content:        content,
		CreatedAt:      s.now(),
	}

	if err := s.messages.Insert(ctx, msg); err != nil {
		s.mu.Lock()
		state.draft = content
		s.mu.Unlock()
		return nil, err
	}
	metrics.ChatMessagesSent.WithLabelValues(string(models.SenderCustomer)).Inc()

	if err := s.conversations.SetPreview(ctx, identity.ConversationID, content, 0); err != nil {
		// Log but don't fail; the message itself is stored
		s.logger.Warn("Failed to update conversation preview", logging.Fields{
			"conversation_id": identity.ConversationID,
			"error":           err.Error(),
		})
	}

	s.publishInserted(ctx, msg)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reduce(ctx, sessionID, state, msg)
	return snapshotWidget(state), nil
}

// ReceiveAdminMessage stores an admin message and pushes it to the
// customer's feed. This is the support-side entry point.
func (s *ChatService) ReceiveAdminMessage(ctx context.Context, conversationID, content string) (*models.Message, error) {
	msg := &models.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Sender:         models.SenderAdmin,
		Content:        content,
		CreatedAt:      s.now(),
	}

	if err := s.messages.Insert(ctx, msg); err != nil {
		return nil, err
	}
	metrics.ChatMessagesSent.WithLabelValues(string(models.SenderAdmin)).Inc()

	if err := s.conversations.SetPreview(ctx, conversationID, content, 1); err != nil {
		s.logger.Warn("Failed to update conversation preview", logging.Fields{
			"conversation_id": conversationID,
			"error":           err.Error(),
		})
	}

	s.publishInserted(ctx, msg)
	return msg, nil
}

// Ingest merges a feed event into the session's widget. Duplicate
// deliveries of the same message id collapse to one entry. An admin
// message lands read when the widget is active; otherwise it bumps the
// unread counter and raises a clipped notification.
func (s *ChatService) Ingest(ctx context.Context, sessionID string, event *events.ChatEvent) (*Widget, error) {
	if event.Type != events.EventTypeMessageInserted || event.Message == nil {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.widgets[sessionID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	if event.Message.ConversationID != state.identity.ConversationID {
		return snapshotWidget(state), nil
	}

	s.reduce(ctx, sessionID, state, event.Message)
	return snapshotWidget(state), nil
}

// SetActive flips the widget's open/focused state. Going active marks
// every admin message in the conversation read and zeroes both the local
// and stored unread counters.
func (s *ChatService) SetActive(ctx context.Context, sessionID string, active bool) (*Widget, error) {
	s.mu.Lock()
	state, ok := s.widgets[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, errs.ErrNotFound
	}
	state.active = active
	conversationID := state.identity.ConversationID
	if active {
		state.unread = 0
		now := s.now()
		for i := range state.messages {
			m := &state.messages[i]
			if m.Sender == models.SenderAdmin && m.ReadAt == nil {
				t := now
				m.ReadAt = &t
			}
		}
	}
	snapshot := snapshotWidget(state)
	s.mu.Unlock()

	if active {
		if err := s.messages.MarkConversationRead(ctx, conversationID); err != nil {
			s.logger.Warn("Failed to mark conversation read", logging.Fields{
				"conversation_id": conversationID,
				"error":           err.Error(),
			})
		}
		if err := s.conversations.ResetUnread(ctx, conversationID); err != nil {
			s.logger.Warn("Failed to reset unread counter", logging.Fields{
				"conversation_id": conversationID,
				"error":           err.Error(),
			})
		}
	}
	return snapshot, nil
}

// Stream subscribes to the session's conversation feed. The returned
// channel closes when ctx is cancelled.
func (s *ChatService) Stream(ctx context.Context, sessionID string) (<-chan *events.ChatEvent, error) {
	s.mu.Lock()
	state, ok := s.widgets[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, errs.ErrNotFound
	}
	conversationID := state.identity.ConversationID
	s.mu.Unlock()

	return s.feed.Subscribe(ctx, conversationID)
}

// reduce applies one inserted message to the widget state. Idempotent by
// message id; replays and duplicate deliveries are no-ops.
func (s *ChatService) reduce(ctx context.Context, sessionID string, state *widgetState, msg *models.Message) {
	if state.seen[msg.ID] {
		return
	}
	state.seen[msg.ID] = true

	incoming := *msg
	if incoming.Sender == models.SenderAdmin {
		if state.active {
			now := s.now()
			incoming.ReadAt = &now
		} else {
			state.unread++
			if s.config.Features.EnableChatNotification {
				s.notifier.Notify(ctx, &clients.Notification{
					Title: "New message from TooroGadgets",
					Body:  clients.ClipPreview(incoming.Content, notificationPreviewLimit),
				})
			}
		}
	}
	state.messages = append(state.messages, incoming)
}

func (s *ChatService) publishInserted(ctx context.Context, msg *models.Message) {
	event := &events.ChatEvent{
		ID:             msg.ID,
		Type:           events.EventTypeMessageInserted,
		ConversationID: msg.ConversationID,
		Message:        msg,
		OccurredAt:     s.now(),
	}
	if err := s.feed.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish chat event", logging.Fields{
			"conversation_id": msg.ConversationID,
			"error":           err.Error(),
		})
	}
}

func (s *ChatService) insertGreeting(ctx context.Context, conversationID string) {
	now := s.now()
	greeting := &models.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Sender:         models.SenderAdmin,
		Content:        greetingMessage,
		CreatedAt:      now,
		// Born read; bootstrap happens with the widget open.
		ReadAt: &now,
	}
	if err := s.messages.Insert(ctx, greeting); err != nil {
		s.logger.Warn("Failed to insert greeting", logging.Fields{
			"conversation_id": conversationID,
			"error":           err.Error(),
		})
		return
	}
	if err := s.conversations.SetPreview(ctx, conversationID, greetingMessage, 0); err != nil {
		s.logger.Warn("Failed to update conversation preview", logging.Fields{
			"conversation_id": conversationID,
			"error":           err.Error(),
		})
	}
}

func snapshotWidget(state *widgetState) *Widget {
	out := &Widget{
		Identity: state.identity,
		Active:   state.active,
		Messages: make([]models.Message, len(state.messages)),
		Unread:   state.unread,
		Draft:    state.draft,
	}
	copy(out.Messages, state.messages)
	return out
}
