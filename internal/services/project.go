package services

import (
	"context"

	"github.com/devfolio/apiserver/internal/store"
	"github.com/devfolio/apiserver/types"
)

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	List(ctx context.Context, filter store.ProjectFilter, criteria store.Criteria) ([]types.Project, int, error)
	Get(ctx context.Context, id string) (types.Project, error)
	GetBySlug(ctx context.Context, slug string) (types.Project, error)
	Create(ctx context.Context, project types.Project) (types.Project, error)
	Update(ctx context.Context, project types.Project) (types.Project, error)
	Delete(ctx context.Context, id string) error
}

// ProjectService encapsulates project use-cases. Mutations pass through
// the ownership guard after the existence check.
type ProjectService struct {
	repo ProjectRepository
}

func NewProjectService(repo ProjectRepository) *ProjectService {
	return &ProjectService{repo: repo}
}

func (s *ProjectService) List(ctx context.Context, filter store.ProjectFilter, criteria store.Criteria) ([]types.Project, int, error) {
	return s.repo.List(ctx, filter, criteria)
}

func (s *ProjectService) Get(ctx context.Context, id string) (types.Project, error) {
	return s.repo.Get(ctx, id)
}

func (s *ProjectService) GetBySlug(ctx context.Context, slug string) (types.Project, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *ProjectService) Create(ctx context.Context, actor types.Actor, project types.Project) (types.Project, error) {
	project.UserID = actor.ID
	return s.repo.Create(ctx, project)
}

func (s *ProjectService) Update(ctx context.Context, actor types.Actor, project types.Project) (types.Project, error) {
	existing, err := s.repo.Get(ctx, project.ID)
	if err != nil {
		return types.Project{}, err
	}
	if err := Authorize(actor, existing.UserID); err != nil {
		return types.Project{}, err
	}
	project.UserID = existing.UserID
	project.CreatedAt = existing.CreatedAt
	return s.repo.Update(ctx, project)
}

func (s *ProjectService) Delete(ctx context.Context, actor types.Actor, id string) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := Authorize(actor, existing.UserID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, existing.ID)
}
