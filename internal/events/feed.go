package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/logging"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/models"
)

// ChatEventType is the type of a chat feed event.
type ChatEventType string

const (
	EventTypeMessageInserted ChatEventType = "message.inserted"
)

// ChatEvent is one change on a conversation's feed. ID is the message id;
// subscribers use it to drop duplicate deliveries.
type ChatEvent struct {
	ID             string          `json:"id"`
	Type           ChatEventType   `json:"type"`
	ConversationID string          `json:"conversation_id"`
	Message        *models.Message `json:"message,omitempty"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

// Feed is the realtime change feed for chat conversations. Subscribe
// returns a channel that closes when the context is cancelled. Delivery is
// at-least-once; consumers deduplicate by event ID.
type Feed interface {
	Publish(ctx context.Context, event *ChatEvent) error
	Subscribe(ctx context.Context, conversationID string) (<-chan *ChatEvent, error)
}

// Ensure implementations satisfy Feed
var (
	_ Feed = (*RedisFeed)(nil)
	_ Feed = (*MemoryFeed)(nil)
)

// RedisFeed carries chat events over Redis pub/sub, one channel per
// conversation.
type RedisFeed struct {
	client *redis.Client
	logger *logging.Logger
}

// NewRedisFeed creates a Redis-backed chat feed.
func NewRedisFeed(client *redis.Client, logger *logging.Logger) *RedisFeed {
	return &RedisFeed{client: client, logger: logger}
}

func feedChannel(conversationID string) string {
	return "chat:feed:" + conversationID
}

// Publish sends the event to every live subscriber of the conversation.
func (f *RedisFeed) Publish(ctx context.Context, event *ChatEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := f.client.Publish(ctx, feedChannel(event.ConversationID), data).Err(); err != nil {
		f.logger.Error("Failed to publish chat event", logging.Fields{
			"conversation_id": event.ConversationID,
			"event_id":        event.ID,
			"error":           err.Error(),
		})
		return err
	}
	return nil
}

// Subscribe streams the conversation's events until ctx is cancelled.
func (f *RedisFeed) Subscribe(ctx context.Context, conversationID string) (<-chan *ChatEvent, error) {
	sub := f.client.Subscribe(ctx, feedChannel(conversationID))

	// Force the subscription to establish before returning so no events
	// published right after Subscribe are missed.
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, err
	}

	out := make(chan *ChatEvent)
	go func() {
		defer close(out)
		defer sub.Close()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event ChatEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					f.logger.Warn("Dropping malformed chat event", logging.Fields{
						"conversation_id": conversationID,
						"error":           err.Error(),
					})
					continue
				}
				select {
				case out <- &event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// MemoryFeed is an in-process Feed for tests and single-node development.
// Delivery is best-effort: a subscriber whose buffer is full misses the
// event, the same contract a pub/sub transport gives a slow consumer.
type MemoryFeed struct {
	mu   sync.Mutex
	subs map[string][]*memorySubscriber
}

type memorySubscriber struct {
	ch     chan *ChatEvent
	closed bool
}

// NewMemoryFeed creates an in-process chat feed.
func NewMemoryFeed() *MemoryFeed {
	return &MemoryFeed{subs: make(map[string][]*memorySubscriber)}
}

// Publish delivers the event to current subscribers of the conversation.
// Sends happen under the feed mutex so they cannot race a subscriber
// being torn down.
func (f *MemoryFeed) Publish(ctx context.Context, event *ChatEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, sub := range f.subs[event.ConversationID] {
		if sub.closed {
			continue
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
	return nil
}

// Subscribe registers a subscriber that lives until ctx is cancelled.
func (f *MemoryFeed) Subscribe(ctx context.Context, conversationID string) (<-chan *ChatEvent, error) {
	sub := &memorySubscriber{ch: make(chan *ChatEvent, 16)}

	f.mu.Lock()
	f.subs[conversationID] = append(f.subs[conversationID], sub)
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		defer f.mu.Unlock()
		subs := f.subs[conversationID]
		for i, s := range subs {
			if s == sub {
				f.subs[conversationID] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		// Closing under the mutex keeps the close ordered after any
		// in-progress publish.
		sub.closed = true
		close(sub.ch)
	}()
	return sub.ch, nil
}
