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

// GalleryRepository defines persistence operations for gallery images.
type GalleryRepository interface {
	List(ctx context.Context, filter store.GalleryFilter, criteria store.Criteria) ([]types.GalleryImage, int, error)
	Get(ctx context.Context, id string) (types.GalleryImage, error)
	Create(ctx context.Context, image types.GalleryImage) (types.GalleryImage, error)
	Update(ctx context.Context, image types.GalleryImage) (types.GalleryImage, error)
	Delete(ctx context.Context, id string) error
}

// GalleryUpload carries an incoming gallery image and its metadata.
type GalleryUpload struct {
	ProjectID   string
	Caption     string
	FileName    string
	ContentType string
	Size        int64
	SortOrder   int
	Body        io.Reader
}

// GalleryService encapsulates gallery use-cases. Ownership of an image
// follows the project it belongs to.
type GalleryService struct {
	repo     GalleryRepository
	projects ProjectRepository
	storage  *storage.Storage
}

func NewGalleryService(repo GalleryRepository, projects ProjectRepository, st *storage.Storage) *GalleryService {
	return &GalleryService{repo: repo, projects: projects, storage: st}
}

func (s *GalleryService) List(ctx context.Context, filter store.GalleryFilter, criteria store.Criteria) ([]types.GalleryImage, int, error) {
	return s.repo.List(ctx, filter, criteria)
}

func (s *GalleryService) Get(ctx context.Context, id string) (types.GalleryImage, error) {
	return s.repo.Get(ctx, id)
}

// Upload stores the image and attaches it to the project. The actor
// must own the project (or be admin); the project lookup happens first
// so a bad project id reads as not-found.
func (s *GalleryService) Upload(ctx context.Context, actor types.Actor, upload GalleryUpload) (types.GalleryImage, error) {
	project, err := s.projects.Get(ctx, upload.ProjectID)
	if err != nil {
		return types.GalleryImage{}, err
	}
	if err := Authorize(actor, project.UserID); err != nil {
		return types.GalleryImage{}, err
	}

	key := fmt.Sprintf("gallery/%s/%s%s", project.ID, uuid.NewString(), path.Ext(upload.FileName))
	if err := s.storage.Put(ctx, key, upload.Body, upload.Size, upload.ContentType); err != nil {
		return types.GalleryImage{}, err
	}

	image, err := s.repo.Create(ctx, types.GalleryImage{
		ProjectID:   project.ID,
		UserID:      project.UserID,
		Caption:     upload.Caption,
		ObjectKey:   key,
		ContentType: upload.ContentType,
		SortOrder:   upload.SortOrder,
	})
	if err != nil {
		_ = s.storage.Delete(ctx, key)
		return types.GalleryImage{}, err
	}
	return image, nil
}

// Download opens the stored image data. Gallery images are public.
func (s *GalleryService) Download(ctx context.Context, id string) (types.GalleryImage, io.ReadCloser, error) {
	image, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.GalleryImage{}, nil, err
	}
	body, err := s.storage.Get(ctx, image.ObjectKey)
	if err != nil {
		return types.GalleryImage{}, nil, err
	}
	return image, body, nil
}

func (s *GalleryService) Update(ctx context.Context, actor types.Actor, image types.GalleryImage) (types.GalleryImage, error) {
	existing, err := s.repo.Get(ctx, image.ID)
	if err != nil {
		return types.GalleryImage{}, err
	}
	if err := Authorize(actor, existing.UserID); err != nil {
		return types.GalleryImage{}, err
	}
	existing.Caption = image.Caption
	existing.SortOrder = image.SortOrder
	return s.repo.Update(ctx, existing)
}

func (s *GalleryService) Delete(ctx context.Context, actor types.Actor, id string) error {
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
