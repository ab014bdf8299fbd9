package natsbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"florist/internal/models"

	"github.com/nats-io/nats.go"
)

// Bus fans notifications out to every service instance so feeds opened on
// other devices pick them up.
type Bus struct {
	nc      *nats.Conn
	subject string
	sub     *nats.Subscription
}

// Connect dials NATS with a few retries. Notifications for a user are
// published on "<subject>.<userID>".
func Connect(url, subject string) (*Bus, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	for i := 0; i < 3; i++ {
		var nc *nats.Conn
		nc, err = nats.Connect(url,
			nats.Name("florist"),
			nats.MaxReconnects(5),
			nats.ReconnectWait(2*time.Second),
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				log.Printf("NATS disconnected: %v", err)
			}),
			nats.ReconnectHandler(func(nc *nats.Conn) {
				log.Printf("NATS reconnected to %s", nc.ConnectedUrl())
			}),
		)
		if err == nil {
			log.Printf("Connected to NATS at %s", url)
			return &Bus{nc: nc, subject: subject}, nil
		}

		log.Printf("Failed to connect to NATS (attempt %d): %v", i+1, err)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		case <-time.After(2 * time.Second):
		}
	}
	return nil, fmt.Errorf("failed to connect to NATS after retries: %w", err)
}

// SubjectFor returns the subject carrying userID's notifications.
func SubjectFor(base, userID string) string {
	return base + "." + userID
}

// PublishNotification sends n to every subscriber.
func (b *Bus) PublishNotification(n models.Notification) error {
	data, err := Encode(n)
	if err != nil {
		return err
	}
	if err := b.nc.Publish(SubjectFor(b.subject, n.UserID), data); err != nil {
		return fmt.Errorf("failed to publish notification %s: %w", n.ID, err)
	}
	return nil
}

// Subscribe delivers every user's notifications to handler. Undecodable
// messages are logged and skipped.
func (b *Bus) Subscribe(handler func(models.Notification)) error {
	sub, err := b.nc.Subscribe(b.subject+".*", func(msg *nats.Msg) {
		n, err := Decode(msg.Data)
		if err != nil {
			log.Printf("Skipping notification on %s: %v", msg.Subject, err)
			return
		}
		handler(n)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", b.subject, err)
	}
	b.sub = sub
	return nil
}

// Close drains the subscription and closes the connection.
func (b *Bus) Close() {
	if b.sub != nil {
		if err := b.sub.Unsubscribe(); err != nil {
			log.Printf("Error unsubscribing from NATS: %v", err)
		}
	}
	if b.nc != nil && !b.nc.IsClosed() {
		b.nc.Close()
		log.Println("NATS connection closed")
	}
}

// Encode serializes a notification for the wire.
func Encode(n models.Notification) ([]byte, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification: %w", err)
	}
	return data, nil
}

// Decode parses a wire notification. Entries without an id or user are
// rejected.
func Decode(data []byte) (models.Notification, error) {
	var n models.Notification
	if err := json.Unmarshal(data, &n); err != nil {
		return n, fmt.Errorf("failed to unmarshal notification: %w", err)
	}
	if n.ID == "" || n.UserID == "" {
		return n, fmt.Errorf("notification is missing id or user")
	}
	return n, nil
}
