package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"courtyard/internal/logger"
)

// Event is the envelope pushed onto the queue after a successful commit.
// Consumers (receipt mailer, websocket broadcaster) pop from the other end.
type Event struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
	Created time.Time       `json:"created"`
}

type Publisher struct {
	redis *redis.Client
	queue string
}

func New(redisAddr, queue string) *Publisher {
	return &Publisher{
		redis: redis.NewClient(&redis.Options{Addr: redisAddr}),
		queue: queue,
	}
}

// NewWithClient wires an existing client. Exposed so tests can inject a mock.
func NewWithClient(client *redis.Client, queue string) *Publisher {
	return &Publisher{redis: client, queue: queue}
}

func (p *Publisher) Publish(ctx context.Context, event string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Errorf("Failed to marshal %s payload: %v", event, err)
		return err
	}

	data, err := json.Marshal(Event{Name: event, Payload: body, Created: time.Now()})
	if err != nil {
		return err
	}

	if err := p.redis.LPush(ctx, p.queue, data).Err(); err != nil {
		logger.Errorf("Failed to queue event %s: %v", event, err)
		return err
	}

	logger.Debug("event queued", "event", event)
	return nil
}

func (p *Publisher) Close() error {
	return p.redis.Close()
}
