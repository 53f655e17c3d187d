package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPPublisher hands jobs to RabbitMQ for cmd/worker to run.
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *AMQPPublisher) DispatchSocialPost(ctx context.Context, job SocialPost) error {
	b, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, p.exchange, RKSocialPost, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         b,
	})
}

func (p *AMQPPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

type ConsumerConfig struct {
	URL      string
	Exchange string
	Queue    string
	Prefetch int
}

// AMQPConsumer receives social post jobs and runs them through the handler.
type AMQPConsumer struct {
	cfg     ConsumerConfig
	handler *SocialPostHandler
	conn    *amqp.Connection
	ch      *amqp.Channel
}

func NewAMQPConsumer(cfg ConsumerConfig, handler *SocialPostHandler) *AMQPConsumer {
	if cfg.Queue == "" {
		cfg.Queue = "artconnect.social.q"
	}
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = 4
	}
	return &AMQPConsumer{cfg: cfg, handler: handler}
}

func (c *AMQPConsumer) Connect() error {
	conn, err := amqp.Dial(c.cfg.URL)
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(c.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare exchange: %w", err)
	}
	q, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, RKSocialPost, c.cfg.Exchange, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("bind %s: %w", RKSocialPost, err)
	}
	if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("set qos: %w", err)
	}
	c.conn = conn
	c.ch = ch
	return nil
}

// Run consumes until ctx is cancelled or the channel closes. A job that
// fails is dropped after logging; posts are not retried.
func (c *AMQPConsumer) Run(ctx context.Context) error {
	msgs, err := c.ch.ConsumeWithContext(ctx, c.cfg.Queue, "artconnect-worker", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := c.handle(ctx, d.Body); err != nil {
				slog.Error("social post failed", "action", "social_post", "routing_key", d.RoutingKey, "error", err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *AMQPConsumer) handle(ctx context.Context, body []byte) error {
	var job SocialPost
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("decode job: %w", err)
	}
	return c.handler.Handle(ctx, job)
}

func (c *AMQPConsumer) Close() {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}
