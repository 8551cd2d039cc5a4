package realtime

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

// RedisBroker uses Redis PUBLISH/SUBSCRIBE. Nothing is stored in Redis.
type RedisBroker struct {
	client *redis.Client
	prefix string
}

func NewRedisBroker(addr, password string, db int, prefix string) (*RedisBroker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, err
	}

	log.Println("Redis connected successfully")
	return &RedisBroker{client: client, prefix: prefix}, nil
}

func (b *RedisBroker) channel(topic string) string {
	return b.prefix + ":" + topic
}

func (b *RedisBroker) Publish(ctx context.Context, topic, event string, payload any) error {
	_, data, err := encode(topic, event, payload)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, b.channel(topic), data).Err()
}

func (b *RedisBroker) Subscribe(ctx context.Context, topics []string, handler func(Message)) (func(), error) {
	channels := make([]string, len(topics))
	for i, t := range topics {
		channels[i] = b.channel(t)
	}

	pubsub := b.client.Subscribe(context.WithoutCancel(ctx), channels...)
	// Wait for the subscription to be confirmed before reporting success.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	go func() {
		for m := range pubsub.Channel() {
			msg, err := decode([]byte(m.Payload))
			if err != nil {
				log.Printf("Failed to parse realtime event on %s: %v", m.Channel, err)
				continue
			}
			handler(msg)
		}
	}()

	return func() {
		if err := pubsub.Close(); err != nil {
			log.Printf("Redis unsubscribe: %v", err)
		}
	}, nil
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}
