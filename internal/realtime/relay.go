package realtime

import (
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

// Subscription is a live channel subscription; Unsubscribe releases the
// underlying relay handle synchronously.
type Subscription interface {
	Unsubscribe() error
}

// Relay is the pub/sub transport carrying channel traffic between the
// server and subscribed clients. Delivery is at-least-once at best with no
// ordering guarantee; it is never the source of truth.
type Relay interface {
	Publish(channel string, data []byte) error
	Subscribe(channel string, handler func(data []byte)) (Subscription, error)
}

// NatsConfig configures the NATS-backed relay
type NatsConfig struct {
	URL           string
	MaxReconnects int
	ReconnectWait time.Duration
}

// NatsRelay implements Relay over a NATS connection
type NatsRelay struct {
	conn *nats.Conn
}

// NewNatsRelay connects to NATS with reconnect handling
func NewNatsRelay(cfg NatsConfig) (*NatsRelay, error) {
	opts := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Printf("NATS disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("NATS reconnected to %s", nc.ConnectedUrl())
		}),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, err
	}

	return &NatsRelay{conn: conn}, nil
}

func (r *NatsRelay) Publish(channel string, data []byte) error {
	return r.conn.Publish(channel, data)
}

func (r *NatsRelay) Subscribe(channel string, handler func(data []byte)) (Subscription, error) {
	return r.conn.Subscribe(channel, func(msg *nats.Msg) {
		handler(msg.Data)
	})
}

func (r *NatsRelay) Close() {
	if r.conn != nil {
		r.conn.Close()
	}
}
