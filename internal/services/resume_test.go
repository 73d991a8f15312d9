package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/devfolio/apiserver/internal/storage"
	"github.com/devfolio/apiserver/internal/store"
	"github.com/devfolio/apiserver/types"
)

type fakeObjectStorage struct {
	objects map[string][]byte
	deleted []string
}

func newFakeObjectStorage() *fakeObjectStorage {
	return &fakeObjectStorage{objects: map[string][]byte{}}
}

func (f *fakeObjectStorage) EnsureBucket(ctx context.Context) error { return nil }

func (f *fakeObjectStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeObjectStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("object missing")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeObjectStorage) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	delete(f.objects, key)
	return nil
}

func (f *fakeObjectStorage) Bucket() string { return "test-bucket" }

type fakeResumeRepo struct {
	resumes   map[string]types.Resume
	createErr error
	nextID    int
}

func newFakeResumeRepo() *fakeResumeRepo {
	return &fakeResumeRepo{resumes: map[string]types.Resume{}}
}

func (f *fakeResumeRepo) List(ctx context.Context, filter store.ResumeFilter, criteria store.Criteria) ([]types.Resume, int, error) {
	var items []types.Resume
	for _, r := range f.resumes {
		if filter.UserID != nil && r.UserID != *filter.UserID {
			continue
		}
		items = append(items, r)
	}
	return items, len(items), nil
}

func (f *fakeResumeRepo) Get(ctx context.Context, id string) (types.Resume, error) {
	resume, ok := f.resumes[id]
	if !ok {
		return types.Resume{}, store.ErrNotFound
	}
	return resume, nil
}

func (f *fakeResumeRepo) GetPrimary(ctx context.Context, userID string) (types.Resume, error) {
	for _, r := range f.resumes {
		if r.UserID == userID && r.IsPrimary {
			return r, nil
		}
	}
	return types.Resume{}, store.ErrNotFound
}

func (f *fakeResumeRepo) Create(ctx context.Context, resume types.Resume) (types.Resume, error) {
	if f.createErr != nil {
		return types.Resume{}, f.createErr
	}
	f.nextID++
	resume.ID = "r" + string(rune('0'+f.nextID))
	if resume.IsPrimary {
		for id, other := range f.resumes {
			if other.UserID == resume.UserID {
				other.IsPrimary = false
				f.resumes[id] = other
			}
		}
	}
	f.resumes[resume.ID] = resume
	return resume, nil
}

func (f *fakeResumeRepo) Update(ctx context.Context, resume types.Resume) (types.Resume, error) {
	if _, ok := f.resumes[resume.ID]; !ok {
		return types.Resume{}, store.ErrNotFound
	}
	f.resumes[resume.ID] = resume
	return resume, nil
}

func (f *fakeResumeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.resumes[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.resumes, id)
	return nil
}

func TestResumeUploadStoresFileAndMetadata(t *testing.T) {
	repo := newFakeResumeRepo()
	objects := newFakeObjectStorage()
	svc := NewResumeService(repo, storage.NewWithBackend(objects))
	actor := types.Actor{ID: "u1", Role: types.RoleUser}

	created, err := svc.Upload(context.Background(), actor, ResumeUpload{
		Title:       "Backend 2026",
		FileName:    "resume.pdf",
		ContentType: "application/pdf",
		Size:        3,
		IsPrimary:   true,
		Body:        strings.NewReader("pdf"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if created.UserID != "u1" {
		t.Fatalf("expected owner set from actor, got %q", created.UserID)
	}
	if !strings.HasPrefix(created.ObjectKey, "resumes/u1/") || !strings.HasSuffix(created.ObjectKey, ".pdf") {
		t.Fatalf("unexpected object key: %q", created.ObjectKey)
	}
	if _, ok := objects.objects[created.ObjectKey]; !ok {
		t.Fatalf("expected object stored under %q", created.ObjectKey)
	}
}

func TestResumeUploadCleansUpOnInsertFailure(t *testing.T) {
	repo := newFakeResumeRepo()
	repo.createErr = errors.New("insert failed")
	objects := newFakeObjectStorage()
	svc := NewResumeService(repo, storage.NewWithBackend(objects))
	actor := types.Actor{ID: "u1", Role: types.RoleUser}

	_, err := svc.Upload(context.Background(), actor, ResumeUpload{
		Title:    "Broken",
		FileName: "resume.pdf",
		Body:     strings.NewReader("pdf"),
	})
	if err == nil {
		t.Fatalf("expected upload failure")
	}
	if len(objects.deleted) != 1 {
		t.Fatalf("expected stored object removed, deletions: %v", objects.deleted)
	}
	if len(objects.objects) != 0 {
		t.Fatalf("expected no objects left, got %d", len(objects.objects))
	}
}

func TestResumeListScopedToActor(t *testing.T) {
	repo := newFakeResumeRepo()
	objects := newFakeObjectStorage()
	svc := NewResumeService(repo, storage.NewWithBackend(objects))

	_, _ = repo.Create(context.Background(), types.Resume{UserID: "u1", Title: "Mine"})
	_, _ = repo.Create(context.Background(), types.Resume{UserID: "u2", Title: "Theirs"})

	owner := types.Actor{ID: "u1", Role: types.RoleUser}
	items, total, err := svc.List(context.Background(), owner, store.ResumeFilter{}, store.Criteria{Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].UserID != "u1" {
		t.Fatalf("expected only the actor's resumes, got %v", items)
	}

	admin := types.Actor{ID: "a1", Role: types.RoleAdmin}
	_, total, err = svc.List(context.Background(), admin, store.ResumeFilter{}, store.Criteria{Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected admin to see all resumes, got %d", total)
	}
}

func TestResumeGetGuardsOwnership(t *testing.T) {
	repo := newFakeResumeRepo()
	svc := NewResumeService(repo, storage.NewWithBackend(newFakeObjectStorage()))

	created, _ := repo.Create(context.Background(), types.Resume{UserID: "u1", Title: "Mine"})

	other := types.Actor{ID: "u2", Role: types.RoleUser}
	if _, err := svc.Get(context.Background(), other, created.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}

	if _, err := svc.Get(context.Background(), other, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found for missing id, got %v", err)
	}
}

func TestResumeDeleteRemovesObject(t *testing.T) {
	repo := newFakeResumeRepo()
	objects := newFakeObjectStorage()
	svc := NewResumeService(repo, storage.NewWithBackend(objects))
	actor := types.Actor{ID: "u1", Role: types.RoleUser}

	created, err := svc.Upload(context.Background(), actor, ResumeUpload{
		Title:    "Mine",
		FileName: "resume.pdf",
		Body:     strings.NewReader("pdf"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if err := svc.Delete(context.Background(), actor, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(objects.objects) != 0 {
		t.Fatalf("expected object removed from storage")
	}
}
