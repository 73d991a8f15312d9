package services

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/devfolio/apiserver/internal/storage"
	"github.com/devfolio/apiserver/internal/store"
	"github.com/devfolio/apiserver/types"
	"github.com/google/uuid"
)

// ResumeRepository defines persistence operations for resume metadata.
type ResumeRepository interface {
	List(ctx context.Context, filter store.ResumeFilter, criteria store.Criteria) ([]types.Resume, int, error)
	Get(ctx context.Context, id string) (types.Resume, error)
	GetPrimary(ctx context.Context, userID string) (types.Resume, error)
	Create(ctx context.Context, resume types.Resume) (types.Resume, error)
	Update(ctx context.Context, resume types.Resume) (types.Resume, error)
	Delete(ctx context.Context, id string) error
}

// ResumeUpload carries an incoming resume file and its metadata.
type ResumeUpload struct {
	Title       string
	FileName    string
	ContentType string
	Size        int64
	IsPrimary   bool
	Body        io.Reader
}

// ResumeService encapsulates resume use-cases. Files live in object
// storage; the repository holds only metadata. Resumes are private:
// reads are limited to the owner or an admin.
type ResumeService struct {
	repo    ResumeRepository
	storage *storage.Storage
}

func NewResumeService(repo ResumeRepository, st *storage.Storage) *ResumeService {
	return &ResumeService{repo: repo, storage: st}
}

// List returns the actor's resumes; admins may list any user's by
// passing a filter with that user id.
func (s *ResumeService) List(ctx context.Context, actor types.Actor, filter store.ResumeFilter, criteria store.Criteria) ([]types.Resume, int, error) {
	if !actor.IsAdmin() {
		filter.UserID = &actor.ID
	}
	return s.repo.List(ctx, filter, criteria)
}

func (s *ResumeService) Get(ctx context.Context, actor types.Actor, id string) (types.Resume, error) {
	resume, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Resume{}, err
	}
	if err := Authorize(actor, resume.UserID); err != nil {
		return types.Resume{}, err
	}
	return resume, nil
}

// Upload stores the file, then inserts the metadata row. If the insert
// fails the stored object is removed on a best-effort basis.
func (s *ResumeService) Upload(ctx context.Context, actor types.Actor, upload ResumeUpload) (types.Resume, error) {
	key := fmt.Sprintf("resumes/%s/%s%s", actor.ID, uuid.NewString(), path.Ext(upload.FileName))
	if err := s.storage.Put(ctx, key, upload.Body, upload.Size, upload.ContentType); err != nil {
		return types.Resume{}, err
	}

	resume, err := s.repo.Create(ctx, types.Resume{
		UserID:      actor.ID,
		Title:       upload.Title,
		FileName:    upload.FileName,
		ObjectKey:   key,
		ContentType: upload.ContentType,
		SizeBytes:   upload.Size,
		IsPrimary:   upload.IsPrimary,
	})
	if err != nil {
		_ = s.storage.Delete(ctx, key)
		return types.Resume{}, err
	}
	return resume, nil
}

// Primary opens the user's primary resume. It backs the public resume
// page, so no actor is involved.
func (s *ResumeService) Primary(ctx context.Context, userID string) (types.Resume, io.ReadCloser, error) {
	resume, err := s.repo.GetPrimary(ctx, userID)
	if err != nil {
		return types.Resume{}, nil, err
	}
	body, err := s.storage.Get(ctx, resume.ObjectKey)
	if err != nil {
		return types.Resume{}, nil, err
	}
	return resume, body, nil
}

// Download opens the stored file for the given resume.
func (s *ResumeService) Download(ctx context.Context, actor types.Actor, id string) (types.Resume, io.ReadCloser, error) {
	resume, err := s.Get(ctx, actor, id)
	if err != nil {
		return types.Resume{}, nil, err
	}
	body, err := s.storage.Get(ctx, resume.ObjectKey)
	if err != nil {
		return types.Resume{}, nil, err
	}
	return resume, body, nil
}

// Update changes resume metadata (title, primary flag). The file itself
// is immutable; upload a new resume to replace it.
func (s *ResumeService) Update(ctx context.Context, actor types.Actor, resume types.Resume) (types.Resume, error) {
	existing, err := s.repo.Get(ctx, resume.ID)
	if err != nil {
		return types.Resume{}, err
	}
	if err := Authorize(actor, existing.UserID); err != nil {
		return types.Resume{}, err
	}
	existing.Title = resume.Title
	existing.IsPrimary = resume.IsPrimary
	return s.repo.Update(ctx, existing)
}

func (s *ResumeService) Delete(ctx context.Context, actor types.Actor, id string) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := Authorize(actor, existing.UserID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, existing.ID); err != nil {
		return err
	}
	_ = s.storage.Delete(ctx, existing.ObjectKey)
	return nil
}
