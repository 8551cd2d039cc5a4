package realtime

import (
	"context"
	"sync"
)

const subscriberBuffer = 64

type subscriber struct {
	ch   chan Message
	once sync.Once
}

// Hub is an in-process broker for single-instance deployments and tests.
// A subscriber that falls behind by more than its buffer loses events.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[*subscriber]struct{}
	closed bool
}

func NewHub() *Hub {
	return &Hub{topics: make(map[string]map[*subscriber]struct{})}
}

func (h *Hub) Publish(_ context.Context, topic, event string, payload any) error {
	msg, _, err := encode(topic, event, payload)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.topics[topic] {
		select {
		case s.ch <- msg:
		default:
		}
	}
	return nil
}

func (h *Hub) Subscribe(_ context.Context, topics []string, handler func(Message)) (func(), error) {
	s := &subscriber{ch: make(chan Message, subscriberBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrSubscribeUnsupported
	}
	for _, t := range topics {
		if h.topics[t] == nil {
			h.topics[t] = make(map[*subscriber]struct{})
		}
		h.topics[t][s] = struct{}{}
	}
	h.mu.Unlock()

	go func() {
		for msg := range s.ch {
			handler(msg)
		}
	}()

	return func() {
		h.mu.Lock()
		for _, t := range topics {
			delete(h.topics[t], s)
			if len(h.topics[t]) == 0 {
				delete(h.topics, t)
			}
		}
		h.mu.Unlock()
		s.once.Do(func() { close(s.ch) })
	}, nil
}

// Subscribers returns the number of live subscriptions on topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for t, subs := range h.topics {
		for s := range subs {
			s.once.Do(func() { close(s.ch) })
		}
		delete(h.topics, t)
	}
	h.closed = true
	return nil
}
