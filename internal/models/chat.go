package models

import "time"

// SenderType distinguishes the two sides of a conversation.
type SenderType string

const (
	SenderCustomer SenderType = "customer"
	SenderAdmin    SenderType = "admin"
)

// Conversation is the single persistent chat thread between one customer
// and support staff. One per customer, looked up or created on first use.
type Conversation struct {
	ID          string    `json:"conversation_id"`
	CustomerID  string    `json:"customer_id"`
	UnreadCount int       `json:"unread_count"`
	LastMessage string    `json:"last_message,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Message belongs to a conversation. ReadAt is nil until the receiving
// side marks it read.
type Message struct {
	ID             string     `json:"id"`
	ConversationID string     `json:"conversation_id"`
	Sender         SenderType `json:"sender"`
	Content        string     `json:"content"`
	CreatedAt      time.Time  `json:"created_at"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
}

// ChatIdentity is the locally persisted chat identity blob, kept separate
// from the checkout customer session.
type ChatIdentity struct {
	CustomerID     string `json:"customer_id"`
	ConversationID string `json:"conversation_id"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
}
