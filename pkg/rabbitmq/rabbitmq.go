package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"

	"storefront/internal/models"
)

// OrderQueue is the durable queue that carries order.placed events.
const OrderQueue = "order_events"

var ErrChannelUnavailable = errors.New("RabbitMQ channel is not available")

// Channel is the subset of *amqp.Channel used by Client.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel Channel
	logger  *zap.Logger
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient creates a new RabbitMQ client.
// It connects to RabbitMQ, opens a channel and declares OrderQueue.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	client, err := NewClientWithChannel(ch, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}
	client.conn = conn
	return client, nil
}

// NewClientWithChannel wraps an already open channel and declares OrderQueue.
func NewClientWithChannel(ch Channel, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := declareOrderQueue(ch); err != nil {
		ch.Close()
		return nil, err
	}

	logger.Info("RabbitMQ client connected", zap.String("queue", OrderQueue))
	return &Client{
		channel: ch,
		logger:  logger,
	}, nil
}

func declareOrderQueue(ch Channel) error {
	_, err := ch.QueueDeclare(
		OrderQueue, // name
		true,       // durable
		false,      // delete when unused
		false,      // exclusive
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s: %w", OrderQueue, err)
	}
	return nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// PublishOrderPlaced publishes event to OrderQueue as persistent JSON.
func (c *Client) PublishOrderPlaced(ctx context.Context, event models.OrderPlaced) error {
	if c.channel == nil {
		return ErrChannelUnavailable
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	err = c.channel.Publish(
		"",         // exchange: default exchange
		OrderQueue, // routing key: the queue name
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         "order.placed",
			MessageId:    event.EventID,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Debug("order event published",
		zap.String("eventId", event.EventID),
		zap.String("orderNumber", event.OrderNumber),
	)
	return nil
}

// DecodeOrderPlaced parses an order.placed message body.
func DecodeOrderPlaced(msg amqp.Delivery) (models.OrderPlaced, error) {
	var event models.OrderPlaced
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return models.OrderPlaced{}, fmt.Errorf("failed to decode order event: %w", err)
	}
	return event, nil
}

// ConsumeOrderEvents delivers every order.placed event to handler until ctx
// is done or the channel closes. Messages are acked when handler returns nil
// and nacked without requeue otherwise; undecodable messages are rejected.
func (c *Client) ConsumeOrderEvents(ctx context.Context, handler func(context.Context, models.OrderPlaced) error) error {
	if c.channel == nil {
		return ErrChannelUnavailable
	}

	msgs, err := c.channel.Consume(
		OrderQueue, // queue
		"",         // consumer tag
		false,      // auto-ack
		false,      // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("waiting for order events", zap.String("queue", OrderQueue))
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			c.handleDelivery(ctx, msg, handler)
		}
	}
}

func (c *Client) handleDelivery(ctx context.Context, msg amqp.Delivery, handler func(context.Context, models.OrderPlaced) error) {
	event, err := DecodeOrderPlaced(msg)
	if err != nil {
		c.logger.Warn("rejecting malformed order event", zap.Uint64("deliveryTag", msg.DeliveryTag), zap.Error(err))
		if rejectErr := msg.Reject(false); rejectErr != nil {
			c.logger.Warn("failed to reject message", zap.Uint64("deliveryTag", msg.DeliveryTag), zap.Error(rejectErr))
		}
		return
	}

	if err := handler(ctx, event); err != nil {
		c.logger.Warn("failed to process order event", zap.String("eventId", event.EventID), zap.Error(err))
		if nackErr := msg.Nack(false, false); nackErr != nil {
			c.logger.Warn("failed to nack message", zap.Uint64("deliveryTag", msg.DeliveryTag), zap.Error(nackErr))
		}
		return
	}

	if ackErr := msg.Ack(false); ackErr != nil {
		c.logger.Warn("failed to ack message", zap.Uint64("deliveryTag", msg.DeliveryTag), zap.Error(ackErr))
	}
}
