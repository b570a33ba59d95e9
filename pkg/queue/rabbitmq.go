package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ad-moderation/pkg/config"
	"ad-moderation/pkg/logger"
	"ad-moderation/pkg/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DecisionExchange  = "moderation.decisions"
	DecisionQueueName = "moderation_decisions_audit"
	CatalogQueueName  = "catalog_decisions"
)

// RoutingKey is "decision.<kind>", e.g. decision.reject.
func RoutingKey(kind models.DecisionKind) string {
	return "decision." + string(kind)
}

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

func URL(cfg *config.Config) string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	conn, err := amqp.Dial(URL(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		DecisionExchange, // name
		"topic",          // type
		true,             // durable
		false,            // auto-deleted
		false,            // internal
		false,            // no-wait
		nil,              // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	// Audit queue receives every decision kind.
	_, err = channel.QueueDeclare(
		DecisionQueueName, // name
		true,              // durable
		false,             // delete when unused
		false,             // exclusive
		false,             // no-wait
		amqp.Table{
			"x-max-priority": 10,
		},
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	err = channel.QueueBind(
		DecisionQueueName, // queue name
		"decision.*",      // routing key
		DecisionExchange,  // exchange
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	log.Info("Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// PublishDecision publishes a persistent decision event. Rejections are
// published with a higher priority.
func (c *Client) PublishDecision(ctx context.Context, event models.DecisionEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal decision event: %w", err)
	}

	routingKey := RoutingKey(event.Kind)
	err = c.channel.PublishWithContext(
		ctx,
		DecisionExchange, // exchange
		routingKey,       // routing key
		false,            // mandatory
		false,            // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			Priority:     eventPriority(event.Kind),
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			MessageId:    event.ID,
		},
	)
	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish decision to exchange=%s, routing_key=%s: %v", DecisionExchange, routingKey, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Info("[RABBITMQ] Published decision %s for ad %d, routing_key=%s", event.ID, event.AdID, routingKey)
	return nil
}

func eventPriority(kind models.DecisionKind) uint8 {
	switch kind {
	case models.DecisionReject:
		return 5
	case models.DecisionRequestChanges:
		return 3
	default:
		return 1
	}
}

// DecisionHandler processes one decision event. A returned error drops the
// message without requeue.
type DecisionHandler func(ctx context.Context, event models.DecisionEvent) error

// ConsumeDecisions declares queueName, binds it to every decision kind and
// delivers its messages to handler until ctx is done or the channel closes.
func (c *Client) ConsumeDecisions(ctx context.Context, queueName string, handler DecisionHandler) error {
	if _, err := c.channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := c.channel.QueueBind(queueName, "decision.*", DecisionExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	msgs, err := c.channel.Consume(
		queueName, // queue
		"",        // consumer
		false,     // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[RABBITMQ] Started consuming decisions from queue: %s", queueName)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					c.logger.Warn("[RABBITMQ] Delivery channel of %s closed", queueName)
					return
				}
				if err := handleDelivery(ctx, msg.Body, handler); err != nil {
					c.logger.Error("[RABBITMQ] Failed to process decision from %s: %v", queueName, err)
					_ = msg.Nack(false, false)
					continue
				}
				_ = msg.Ack(false)
			}
		}
	}()

	return nil
}

var ErrMalformedEvent = errors.New("malformed decision event")

func handleDelivery(ctx context.Context, body []byte, handler DecisionHandler) error {
	var event models.DecisionEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if event.AdID == 0 || event.Kind == "" {
		return fmt.Errorf("%w: missing ad id or kind", ErrMalformedEvent)
	}
	return handler(ctx, event)
}
