package services

import (
	"context"
	"encoding/json"
	"log"

	"github.com/devfolio/apiserver/internal/store"
	"github.com/devfolio/apiserver/types"
)

// ContactChannel is the message queue channel notification events are
// published to.
const ContactChannel = "contact.message.created"

// ContactRepository defines persistence operations for contact messages.
type ContactRepository interface {
	List(ctx context.Context, filter store.ContactFilter, criteria store.Criteria) ([]types.ContactMessage, int, error)
	Get(ctx context.Context, id string) (types.ContactMessage, error)
	Create(ctx context.Context, message types.ContactMessage) (types.ContactMessage, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// Notifier publishes notification events. A nil Notifier disables
// publishing.
type Notifier interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// ContactService encapsulates contact-message use-cases. Anyone may
// submit a message; reading and deleting requires the admin role.
type ContactService struct {
	repo     ContactRepository
	notifier Notifier
}

func NewContactService(repo ContactRepository, notifier Notifier) *ContactService {
	return &ContactService{repo: repo, notifier: notifier}
}

func (s *ContactService) List(ctx context.Context, actor types.Actor, filter store.ContactFilter, criteria store.Criteria) ([]types.ContactMessage, int, error) {
	if err := Authorize(actor, ""); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, filter, criteria)
}

func (s *ContactService) Get(ctx context.Context, actor types.Actor, id string) (types.ContactMessage, error) {
	message, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.ContactMessage{}, err
	}
	if err := Authorize(actor, ""); err != nil {
		return types.ContactMessage{}, err
	}
	return message, nil
}

// Create stores the message and publishes a notification event. A
// publish failure is logged, not surfaced; the message is already
// persisted and the sender should see success.
func (s *ContactService) Create(ctx context.Context, message types.ContactMessage) (types.ContactMessage, error) {
	created, err := s.repo.Create(ctx, message)
	if err != nil {
		return types.ContactMessage{}, err
	}

	if s.notifier != nil {
		payload, err := json.Marshal(created)
		if err == nil {
			_, err = s.notifier.Publish(ctx, ContactChannel, payload, map[string]string{
				"message_id": created.ID,
			})
		}
		if err != nil {
			log.Printf("contact: publish notification for %s: %v", created.ID, err)
		}
	}

	return created, nil
}

func (s *ContactService) MarkRead(ctx context.Context, actor types.Actor, id string) (types.ContactMessage, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return types.ContactMessage{}, err
	}
	if err := Authorize(actor, ""); err != nil {
		return types.ContactMessage{}, err
	}
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return types.ContactMessage{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *ContactService) Delete(ctx context.Context, actor types.Actor, id string) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	if err := Authorize(actor, ""); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
