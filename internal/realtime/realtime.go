// Package realtime fans out feed events to subscribers over an external pub/sub transport.
//
// Events are published to scoped topics rather than one global channel: "feed" carries
// new-post events and "post.<id>" carries post-liked events for that post. Delivery is
// best-effort; subscribers reconcile by re-fetching.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"devconnect-api/internal/config"
)

const (
	EventNewPost   = "new-post"
	EventPostLiked = "post-liked"

	TopicFeed = "feed"
)

var (
	ErrSubscribeUnsupported = errors.New("realtime backend does not support subscriptions")

	topicPattern = regexp.MustCompile(`^(feed|post\.[0-9a-fA-F-]{36})$`)
)

func PostTopic(postID string) string { return "post." + postID }

// ValidTopic reports whether topic is one a client may subscribe to.
func ValidTopic(topic string) bool { return topicPattern.MatchString(topic) }

// Message is the envelope carried on the wire by every backend.
type Message struct {
	Event       string          `json:"event"`
	Topic       string          `json:"topic"`
	Payload     json.RawMessage `json:"payload"`
	PublishedAt time.Time       `json:"publishedAt"`
}

type Publisher interface {
	Publish(ctx context.Context, topic, event string, payload any) error
}

type Broker interface {
	Publisher
	// Subscribe calls handler for every message on topics until unsubscribe is called.
	// handler may run on a backend goroutine and must not block for long.
	Subscribe(ctx context.Context, topics []string, handler func(Message)) (unsubscribe func(), err error)
	Close() error
}

func encode(topic, event string, payload any) (Message, []byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, nil, fmt.Errorf("encode %s payload: %w", event, err)
	}
	msg := Message{Event: event, Topic: topic, Payload: raw, PublishedAt: time.Now().UTC()}
	data, err := json.Marshal(msg)
	if err != nil {
		return Message{}, nil, fmt.Errorf("encode %s message: %w", event, err)
	}
	return msg, data, nil
}

func decode(data []byte) (Message, error) {
	var msg Message
	err := json.Unmarshal(data, &msg)
	return msg, err
}

// New builds the broker selected by REALTIME_DRIVER.
func New(cfg *config.Config) (Broker, error) {
	switch cfg.RealtimeDriver {
	case "nats":
		return NewNATSBroker(cfg.NATSURL, cfg.RealtimePrefix)
	case "redis":
		return NewRedisBroker(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RealtimePrefix)
	case "memory", "":
		return NewHub(), nil
	case "none":
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("unknown realtime driver %q", cfg.RealtimeDriver)
	}
}

// Noop discards every event.
type Noop struct{}

func (Noop) Publish(context.Context, string, string, any) error { return nil }

func (Noop) Subscribe(context.Context, []string, func(Message)) (func(), error) {
	return nil, ErrSubscribeUnsupported
}

func (Noop) Close() error { return nil }
