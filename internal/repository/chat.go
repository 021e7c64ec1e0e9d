package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/errs"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/logging"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/models"
)

// PostgresConversationRepository implements ConversationRepository using
// PostgreSQL.
type PostgresConversationRepository struct {
	db     *sql.DB
	logger *logging.Logger
}

// NewPostgresConversationRepository creates a new PostgreSQL conversation repository.
func NewPostgresConversationRepository(db *sql.DB, logger *logging.Logger) *PostgresConversationRepository {
	return &PostgresConversationRepository{db: db, logger: logger}
}

// GetByCustomerID fetches a customer's conversation. Each customer has at
// most one.
func (r *PostgresConversationRepository) GetByCustomerID(ctx context.Context, customerID string) (*models.Conversation, error) {
	query := `
		SELECT conversation_id, customer_id, unread_count, last_message, created_at, updated_at
		FROM conversations
		WHERE customer_id = $1
	`

	var c models.Conversation
	var lastMessage sql.NullString

	err := r.db.QueryRowContext(ctx, query, customerID).Scan(
		&c.ID, &c.CustomerID, &c.UnreadCount, &lastMessage, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	c.LastMessage = lastMessage.String
	return &c, nil
}

// Create starts a new conversation for a customer.
func (r *PostgresConversationRepository) Create(ctx context.Context, customerID string) (*models.Conversation, error) {
	now := time.Now()
	c := &models.Conversation{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	query := `
		INSERT INTO conversations (conversation_id, customer_id, unread_count, created_at, updated_at)
		VALUES ($1, $2, 0, $3, $4)
	`

	if _, err := r.db.ExecContext(ctx, query, c.ID, c.CustomerID, c.CreatedAt, c.UpdatedAt); err != nil {
		r.logger.Error("Failed to create conversation", logging.Fields{
			"customer_id": customerID,
			"error":       err.Error(),
		})
		return nil, err
	}

	r.logger.Info("Conversation created", logging.Fields{"conversation_id": c.ID})
	return c, nil
}

// SetPreview updates the conversation summary shown on the support side
// and adds unreadDelta to the stored unread counter.
func (r *PostgresConversationRepository) SetPreview(ctx context.Context, id, lastMessage string, unreadDelta int) error {
	query := `
		UPDATE conversations
		SET last_message = $2, unread_count = unread_count + $3, updated_at = $4
		WHERE conversation_id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, lastMessage, unreadDelta, time.Now())
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// ResetUnread zeroes the unread counter.
func (r *PostgresConversationRepository) ResetUnread(ctx context.Context, id string) error {
	query := `
		UPDATE conversations
		SET unread_count = 0, updated_at = $2
		WHERE conversation_id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, time.Now())
	return err
}

// PostgresMessageRepository implements MessageRepository using PostgreSQL.
type PostgresMessageRepository struct {
	db     *sql.DB
	logger *logging.Logger
}

// NewPostgresMessageRepository creates a new PostgreSQL message repository.
func NewPostgresMessageRepository(db *sql.DB, logger *logging.Logger) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db, logger: logger}
}

// Insert stores a chat message.
func (r *PostgresMessageRepository) Insert(ctx context.Context, msg *models.Message) error {
	query := `
		INSERT INTO messages (message_id, conversation_id, sender, content, created_at, read_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		msg.ID, msg.ConversationID, msg.Sender, msg.Content, msg.CreatedAt, msg.ReadAt,
	)
	if err != nil {
		r.logger.Error("Failed to insert message", logging.Fields{
			"conversation_id": msg.ConversationID,
			"error":           err.Error(),
		})
	}
	return err
}

// ListByConversation returns a conversation's messages oldest-first, the
// order the transcript renders in.
func (r *PostgresMessageRepository) ListByConversation(ctx context.Context, conversationID string) ([]models.Message, error) {
	query := `
		SELECT message_id, conversation_id, sender, content, created_at, read_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var m models.Message
		var readAt sql.NullTime
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Sender, &m.Content, &m.CreatedAt, &readAt); err != nil {
			return nil, err
		}
		if readAt.Valid {
			t := readAt.Time
			m.ReadAt = &t
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// MarkConversationRead stamps every unread admin message in the
// conversation as read. Customer messages are the admin side's to mark.
func (r *PostgresMessageRepository) MarkConversationRead(ctx context.Context, conversationID string) error {
	query := `
		UPDATE messages
		SET read_at = $2
		WHERE conversation_id = $1 AND sender = 'admin' AND read_at IS NULL
	`

	_, err := r.db.ExecContext(ctx, query, conversationID, time.Now())
	return err
}
