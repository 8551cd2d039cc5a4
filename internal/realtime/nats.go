package realtime

import (
	"context"
	"log"

	"github.com/nats-io/nats.go"
)

type NATSBroker struct {
	conn   *nats.Conn
	prefix string
}

func NewNATSBroker(url, prefix string) (*NATSBroker, error) {
	conn, err := nats.Connect(url,
		nats.Name("devconnect-api"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Printf("NATS disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("NATS reconnected to %s", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, err
	}

	log.Println("NATS connected successfully")
	return &NATSBroker{conn: conn, prefix: prefix}, nil
}

func (b *NATSBroker) subject(topic string) string {
	return b.prefix + "." + topic
}

func (b *NATSBroker) Publish(_ context.Context, topic, event string, payload any) error {
	_, data, err := encode(topic, event, payload)
	if err != nil {
		return err
	}
	return b.conn.Publish(b.subject(topic), data)
}

func (b *NATSBroker) Subscribe(_ context.Context, topics []string, handler func(Message)) (func(), error) {
	subs := make([]*nats.Subscription, 0, len(topics))
	unsubscribe := func() {
		for _, s := range subs {
			if err := s.Unsubscribe(); err != nil && err != nats.ErrConnectionClosed {
				log.Printf("NATS unsubscribe %s: %v", s.Subject, err)
			}
		}
	}

	for _, topic := range topics {
		sub, err := b.conn.Subscribe(b.subject(topic), func(m *nats.Msg) {
			msg, err := decode(m.Data)
			if err != nil {
				log.Printf("Failed to parse realtime event on %s: %v", m.Subject, err)
				return
			}
			handler(msg)
		})
		if err != nil {
			unsubscribe()
			return nil, err
		}
		subs = append(subs, sub)
	}
	return unsubscribe, nil
}

func (b *NATSBroker) Close() error {
	if err := b.conn.Drain(); err != nil {
		b.conn.Close()
		return err
	}
	return nil
}
