package services

import (
	"context"

	"github.com/devfolio/apiserver/internal/store"
	"github.com/devfolio/apiserver/types"
)

// ExperienceRepository defines persistence operations for work history.
type ExperienceRepository interface {
	List(ctx context.Context, filter store.ExperienceFilter, criteria store.Criteria) ([]types.Experience, int, error)
	Get(ctx context.Context, id string) (types.Experience, error)
	Create(ctx context.Context, experience types.Experience) (types.Experience, error)
	Update(ctx context.Context, experience types.Experience) (types.Experience, error)
	Delete(ctx context.Context, id string) error
}

// ExperienceService encapsulates work-history use-cases.
type ExperienceService struct {
	repo ExperienceRepository
}

func NewExperienceService(repo ExperienceRepository) *ExperienceService {
	return &ExperienceService{repo: repo}
}

func (s *ExperienceService) List(ctx context.Context, filter store.ExperienceFilter, criteria store.Criteria) ([]types.Experience, int, error) {
	return s.repo.List(ctx, filter, criteria)
}

func (s *ExperienceService) Get(ctx context.Context, id string) (types.Experience, error) {
	return s.repo.Get(ctx, id)
}

func (s *ExperienceService) Create(ctx context.Context, actor types.Actor, experience types.Experience) (types.Experience, error) {
	experience.UserID = actor.ID
	return s.repo.Create(ctx, experience)
}

func (s *ExperienceService) Update(ctx context.Context, actor types.Actor, experience types.Experience) (types.Experience, error) {
	existing, err := s.repo.Get(ctx, experience.ID)
	if err != nil {
		return types.Experience{}, err
	}
	if err := Authorize(actor, existing.UserID); err != nil {
		return types.Experience{}, err
	}
	experience.UserID = existing.UserID
	experience.CreatedAt = existing.CreatedAt
	return s.repo.Update(ctx, experience)
}

func (s *ExperienceService) Delete(ctx context.Context, actor types.Actor, id string) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := Authorize(actor, existing.UserID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, existing.ID)
}
