package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Subjects published by the service.
const (
	SubjectUserCreated = "users.created"
	SubjectCardCreated = "cards.created"
	SubjectCardDeleted = "cards.deleted"
	SubjectCardLiked   = "cards.liked"
	SubjectCardUnliked = "cards.unliked"
)

// Event is the JSON payload of every lifecycle message.
type Event struct {
	EventType  string    `json:"event_type"`
	UserID     string    `json:"user_id,omitempty"`
	CardID     string    `json:"card_id,omitempty"`
	ActorID    string    `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher emits lifecycle events. Publishing is best effort: failures are
// logged and never surface to the caller.
type Publisher interface {
	Publish(subject string, event Event)
}

// NoopPublisher discards every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(string, Event) {}

// NatsPublisher publishes events to NATS subjects.
type NatsPublisher struct {
	conn *nats.Conn
	log  *zap.Logger
}

// NewNatsPublisher connects to natsURL.
func NewNatsPublisher(natsURL string, log *zap.Logger) (*NatsPublisher, error) {
	nc, err := nats.Connect(natsURL, nats.Name("mesto"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NatsPublisher{conn: nc, log: log}, nil
}

// Publish marshals event and sends it on subject.
func (p *NatsPublisher) Publish(subject string, event Event) {
	event.EventType = subject
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.log.Warn("marshal event", zap.String("subject", subject), zap.Error(err))
		return
	}
	if err := p.conn.Publish(subject, payload); err != nil {
		p.log.Warn("publish event", zap.String("subject", subject), zap.Error(err))
		return
	}
	p.log.Debug("event published", zap.String("subject", subject))
}

// Close drains pending messages and closes the connection.
func (p *NatsPublisher) Close() error {
	return p.conn.Drain()
}
