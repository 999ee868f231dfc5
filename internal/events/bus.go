package events

import (
	"sync"
	"time"

	"brcargo_quotes/internal/domain/entities"
)

type Topic string

const (
	TopicQuotationChanged Topic = "quotation-changed"
	TopicTransportStatus  Topic = "transport-status"
	TopicSyncConflict     Topic = "sync-conflict"
)

// TransportHealth is the vocabulary of transport-status events.
type TransportHealth string

const (
	TransportHealthy  TransportHealth = "healthy"
	TransportDegraded TransportHealth = "degraded"
	TransportFallback TransportHealth = "fallback"
)

const (
	OriginLocal  = "local"
	OriginRemote = "remote"
)

// QuotationChanged carries the post-transition snapshot. Exactly one event is
// published per accepted transition, whether it originated locally or from
// reconciliation.
type QuotationChanged struct {
	Quotation entities.Quotation `json:"quotation"`
	Origin    string             `json:"origin"`
	// PreviousID is set when a submit confirmation re-keys a draft from its
	// temporary id to the remote id; consumers tracking per-id state must
	// collapse the two onto Quotation.ID.
	PreviousID string    `json:"previous_id,omitempty"`
	At         time.Time `json:"at"`
}

type TransportStatusChanged struct {
	Status TransportHealth `json:"status"`
	Detail string          `json:"detail,omitempty"`
	At     time.Time       `json:"at"`
}

// SyncConflict is reported, never auto-resolved: same version on both sides
// but diverging content means version discipline was broken somewhere.
type SyncConflict struct {
	QuotationID   string    `json:"quotation_id"`
	LocalVersion  int64     `json:"local_version"`
	RemoteVersion int64     `json:"remote_version"`
	Detail        string    `json:"detail,omitempty"`
	At            time.Time `json:"at"`
}

type Handler func(payload any)

// Subscription identifies a registered handler for Unsubscribe.
type Subscription struct {
	topic Topic
	id    int
}

type subscriber struct {
	id int
	fn Handler
}

// Bus is a single-process publish/subscribe channel with synchronous dispatch.
// Handlers run in registration order on the publishing goroutine, so a metrics
// update always lands before the re-render that follows the same event.
type Bus struct {
	mu   sync.Mutex
	seq  int
	subs map[Topic][]subscriber
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]subscriber)}
}

func (b *Bus) Subscribe(topic Topic, fn Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	b.subs[topic] = append(b.subs[topic], subscriber{id: b.seq, fn: fn})
	return Subscription{topic: topic, id: b.seq}
}

// Unsubscribe is idempotent and safe to call from inside a handler.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.subs[sub.topic]
	for i, s := range list {
		if s.id == sub.id {
			b.subs[sub.topic] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Publish delivers payload to every subscriber of topic, in registration
// order, before returning. The subscriber list is snapshotted first so
// handlers may subscribe/unsubscribe mid-dispatch without deadlocking.
func (b *Bus) Publish(topic Topic, payload any) {
	b.mu.Lock()
	list := make([]subscriber, len(b.subs[topic]))
	copy(list, b.subs[topic])
	b.mu.Unlock()

	for _, s := range list {
		s.fn(payload)
	}
}
