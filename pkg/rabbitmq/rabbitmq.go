package rabbitmq

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"estoque/pkg/logger"

	amqp "github.com/streadway/amqp"
)

// QueueName is the durable queue carrying inventory events.
const QueueName = "inventory_events"

// Channel is the subset of *amqp.Channel the client uses.
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
	log     *logger.Logger
	mu      sync.Mutex // amqp channels are not safe for concurrent publishing
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel and declares the inventory queue.
func NewClient(cfg Config, log *logger.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	client, err := newClient(ch, log)
	if err != nil {
		conn.Close()
		return nil, err
	}
	client.conn = conn
	log.Info().Str("queue", QueueName).Msg("RabbitMQ client connected")
	return client, nil
}

func newClient(ch Channel, log *logger.Logger) (*Client, error) {
	if _, err := declareQueue(ch); err != nil {
		ch.Close()
		return nil, err
	}
	return &Client{channel: ch, log: log.Component("rabbitmq")}, nil
}

func declareQueue(ch Channel) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(
		QueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return q, fmt.Errorf("failed to declare %s: %w", QueueName, err)
	}
	return q, nil
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

// Publish sends payload as a persistent JSON message whose Type is eventType.
func (c *Client) Publish(eventType string, payload interface{}) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	err = c.channel.Publish(
		"",        // default exchange
		QueueName, // routing key
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         eventType,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}

	c.log.Debug().Str("event", eventType).Int("bytes", len(body)).Msg("event sent")
	return nil
}

// ConsumeEvents starts a goroutine handing every delivery to handler. Messages the handler
// rejects are dropped without requeue so a bad body cannot loop forever.
func (c *Client) ConsumeEvents(handler func(eventType string, body []byte) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	queue, err := declareQueue(c.channel)
	if err != nil {
		return err
	}

	msgs, err := c.channel.Consume(
		queue.Name,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.log.Info().Str("queue", queue.Name).Msg("waiting for inventory events")
	go c.dispatch(msgs, handler)
	return nil
}

// acknowledger is the part of amqp.Delivery used to settle a message.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (c *Client) dispatch(msgs <-chan amqp.Delivery, handler func(eventType string, body []byte) error) {
	for msg := range msgs {
		c.handle(msg.Type, msg.Body, msg.DeliveryTag, msg, handler)
	}
	c.log.Info().Msg("inventory event consumer stopped")
}

func (c *Client) handle(eventType string, body []byte, tag uint64, ack acknowledger, handler func(string, []byte) error) {
	if err := handler(eventType, body); err != nil {
		c.log.Warn().Err(err).Uint64("tag", tag).Str("event", eventType).Msg("dropping inventory event")
		if nackErr := ack.Nack(false, false); nackErr != nil {
			c.log.Error().Err(nackErr).Uint64("tag", tag).Msg("failed to nack message")
		}
		return
	}
	if ackErr := ack.Ack(false); ackErr != nil {
		c.log.Error().Err(ackErr).Uint64("tag", tag).Msg("failed to ack message")
	}
}
