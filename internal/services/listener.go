package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/devfolio/apiserver/internal/mq"
	"github.com/devfolio/apiserver/types"
)

// Subscriber consumes messages from a queue channel.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string, handler mq.Handler) error
}

// ContactListener consumes contact-message notification events and
// writes them to the log. It backs the notify command.
type ContactListener struct {
	queue Subscriber
	logf  func(format string, args ...any)
}

func NewContactListener(queue Subscriber) *ContactListener {
	return &ContactListener{queue: queue, logf: log.Printf}
}

// Listen blocks consuming notification events until ctx is cancelled.
func (l *ContactListener) Listen(ctx context.Context) error {
	return l.queue.Subscribe(ctx, ContactChannel, l.handle)
}

// handle decodes one event. A decode failure is returned so the broker
// redelivers instead of dropping the event.
func (l *ContactListener) handle(ctx context.Context, msg mq.Message) error {
	var message types.ContactMessage
	if err := json.Unmarshal(msg.Data, &message); err != nil {
		return fmt.Errorf("decode contact notification %s: %w", msg.ID, err)
	}
	l.logf("contact: new message %s from %s <%s>: %s", message.ID, message.Name, message.Email, message.Subject)
	return nil
}
