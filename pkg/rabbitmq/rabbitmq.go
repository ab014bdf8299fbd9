package rabbitmq

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"florist/internal/models"

	amqp "github.com/streadway/amqp"
)

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	cfg     Config
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL         string
	OrderQueue  string // order events published by this service
	StatusQueue string // status updates sent by fulfilment
}

// NewClient connects to RabbitMQ, opens a channel and declares both queues.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	for _, name := range []string{cfg.OrderQueue, cfg.StatusQueue} {
		if err := declareQueue(ch, name); err != nil {
			ch.Close()
			conn.Close()
			return nil, err
		}
	}

	log.Printf("RabbitMQ client connected, queues %s and %s declared", cfg.OrderQueue, cfg.StatusQueue)

	return &Client{
		conn:    conn,
		channel: ch,
		cfg:     cfg,
	}, nil
}

func declareQueue(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(
		name,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", name, err)
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
	if len(errs) > 0 {
		return fmt.Errorf("errors during RabbitMQ client close: %v", errs)
	}
	return nil
}

// Publish sends a persistent JSON message to queue through the default
// exchange.
func (c *Client) Publish(queue string, body []byte) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}
	err := c.channel.Publish(
		"",    // default exchange
		queue, // routing key is the queue name
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// PublishOrderEvent publishes an order event to the order queue.
func (c *Client) PublishOrderEvent(event models.OrderEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}
	if err := c.Publish(c.cfg.OrderQueue, body); err != nil {
		return err
	}
	log.Printf(" [x] Sent %s for order %s", event.Type, event.OrderID)
	return nil
}

// ConsumeStatusUpdates starts a goroutine delivering status updates to
// handler. Malformed messages are dropped; handler errors requeue once, a
// redelivered message that fails again is dropped.
func (c *Client) ConsumeStatusUpdates(handler func(models.StatusUpdate) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		c.cfg.StatusQueue,
		"florist-status", // consumer tag
		false,            // manual ack
		false,            // exclusive
		false,            // no-local
		false,            // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Printf(" [*] Waiting for order status updates on %s", c.cfg.StatusQueue)

	go func() {
		for msg := range msgs {
			HandleDelivery(msg, handler)
		}
		log.Println("Status update consumer stopped")
	}()
	return nil
}

// Acknowledger is the subset of amqp.Delivery used to settle a message.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// HandleDelivery decodes one status update and settles it.
func HandleDelivery(msg amqp.Delivery, handler func(models.StatusUpdate) error) {
	settle(&msg, msg.Body, msg.Redelivered, handler)
}

func settle(ack Acknowledger, body []byte, redelivered bool, handler func(models.StatusUpdate) error) {
	var update models.StatusUpdate
	if err := json.Unmarshal(body, &update); err != nil || update.OrderID == "" {
		log.Printf("Dropping malformed status update: %s", body)
		if nackErr := ack.Nack(false, false); nackErr != nil {
			log.Printf("Error nacking message: %v", nackErr)
		}
		return
	}

	if err := handler(update); err != nil {
		log.Printf("Error processing status update for order %s: %v", update.OrderID, err)
		if nackErr := ack.Nack(false, !redelivered); nackErr != nil {
			log.Printf("Error nacking message: %v", nackErr)
		}
		return
	}

	if ackErr := ack.Ack(false); ackErr != nil {
		log.Printf("Error acking message: %v", ackErr)
	}
}
