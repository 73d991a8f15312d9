package services

import (
	"context"
	"errors"
	"testing"

	"github.com/devfolio/apiserver/internal/store"
	"github.com/devfolio/apiserver/types"
)

type fakeContactRepo struct {
	messages map[string]types.ContactMessage
	nextID   int
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{messages: map[string]types.ContactMessage{}}
}

func (f *fakeContactRepo) List(ctx context.Context, filter store.ContactFilter, criteria store.Criteria) ([]types.ContactMessage, int, error) {
	items := make([]types.ContactMessage, 0, len(f.messages))
	for _, m := range f.messages {
		items = append(items, m)
	}
	return items, len(items), nil
}

func (f *fakeContactRepo) Get(ctx context.Context, id string) (types.ContactMessage, error) {
	message, ok := f.messages[id]
	if !ok {
		return types.ContactMessage{}, store.ErrNotFound
	}
	return message, nil
}

func (f *fakeContactRepo) Create(ctx context.Context, message types.ContactMessage) (types.ContactMessage, error) {
	f.nextID++
	message.ID = "m" + string(rune('0'+f.nextID))
	f.messages[message.ID] = message
	return message, nil
}

func (f *fakeContactRepo) MarkRead(ctx context.Context, id string) error {
	message, ok := f.messages[id]
	if !ok {
		return store.ErrNotFound
	}
	message.Read = true
	f.messages[id] = message
	return nil
}

func (f *fakeContactRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.messages[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.messages, id)
	return nil
}

type fakeNotifier struct {
	channel string
	data    []byte
	attrs   map[string]string
	err     error
	calls   int
}

func (f *fakeNotifier) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	f.calls++
	f.channel = channel
	f.data = data
	f.attrs = attrs
	return "msg-id", f.err
}

func TestContactCreatePublishesNotification(t *testing.T) {
	repo := newFakeContactRepo()
	notifier := &fakeNotifier{}
	svc := NewContactService(repo, notifier)

	created, err := svc.Create(context.Background(), types.ContactMessage{
		Name:    "Visitor",
		Email:   "visitor@example.com",
		Message: "hello",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if notifier.calls != 1 {
		t.Fatalf("expected one publish, got %d", notifier.calls)
	}
	if notifier.channel != ContactChannel {
		t.Fatalf("unexpected channel: %q", notifier.channel)
	}
	if notifier.attrs["message_id"] != created.ID {
		t.Fatalf("expected message_id attribute, got %v", notifier.attrs)
	}
}

func TestContactCreateSurvivesPublishFailure(t *testing.T) {
	repo := newFakeContactRepo()
	notifier := &fakeNotifier{err: errors.New("broker down")}
	svc := NewContactService(repo, notifier)

	created, err := svc.Create(context.Background(), types.ContactMessage{Name: "V", Email: "v@e.com", Message: "hi"})
	if err != nil {
		t.Fatalf("expected create to succeed despite publish failure, got %v", err)
	}
	if _, err := repo.Get(context.Background(), created.ID); err != nil {
		t.Fatalf("expected message persisted, got %v", err)
	}
}

func TestContactCreateWithoutNotifier(t *testing.T) {
	svc := NewContactService(newFakeContactRepo(), nil)
	if _, err := svc.Create(context.Background(), types.ContactMessage{Name: "V", Email: "v@e.com", Message: "hi"}); err != nil {
		t.Fatalf("create: %v", err)
	}
}

func TestContactInboxIsAdminOnly(t *testing.T) {
	repo := newFakeContactRepo()
	message, _ := repo.Create(context.Background(), types.ContactMessage{Name: "V", Email: "v@e.com", Message: "hi"})
	svc := NewContactService(repo, nil)

	user := types.Actor{ID: "u1", Role: types.RoleUser}
	admin := types.Actor{ID: "a1", Role: types.RoleAdmin}

	if _, _, err := svc.List(context.Background(), user, store.ContactFilter{}, store.Criteria{Page: 1, Limit: 20}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected permission denied for user list, got %v", err)
	}
	if _, err := svc.Get(context.Background(), user, message.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected permission denied for user get, got %v", err)
	}
	if err := svc.Delete(context.Background(), user, message.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected permission denied for user delete, got %v", err)
	}

	updated, err := svc.MarkRead(context.Background(), admin, message.ID)
	if err != nil {
		t.Fatalf("admin mark read: %v", err)
	}
	if !updated.Read {
		t.Fatalf("expected message marked read")
	}
}

func TestContactMissingMessageReadsAsNotFound(t *testing.T) {
	svc := NewContactService(newFakeContactRepo(), nil)
	user := types.Actor{ID: "u1", Role: types.RoleUser}

	// Existence check runs before the role check.
	if _, err := svc.Get(context.Background(), user, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found before permission denied, got %v", err)
	}
}
