package services

import (
	"context"

	"github.com/devfolio/apiserver/internal/store"
	"github.com/devfolio/apiserver/types"
)

// EducationRepository defines persistence operations for education history.
type EducationRepository interface {
	List(ctx context.Context, filter store.EducationFilter, criteria store.Criteria) ([]types.Education, int, error)
	Get(ctx context.Context, id string) (types.Education, error)
	Create(ctx context.Context, entry types.Education) (types.Education, error)
	Update(ctx context.Context, entry types.Education) (types.Education, error)
	Delete(ctx context.Context, id string) error
}

// EducationService encapsulates education-history use-cases.
type EducationService struct {
	repo EducationRepository
}

func NewEducationService(repo EducationRepository) *EducationService {
	return &EducationService{repo: repo}
}

func (s *EducationService) List(ctx context.Context, filter store.EducationFilter, criteria store.Criteria) ([]types.Education, int, error) {
	return s.repo.List(ctx, filter, criteria)
}

func (s *EducationService) Get(ctx context.Context, id string) (types.Education, error) {
	return s.repo.Get(ctx, id)
}

func (s *EducationService) Create(ctx context.Context, actor types.Actor, entry types.Education) (types.Education, error) {
	entry.UserID = actor.ID
	return s.repo.Create(ctx, entry)
}

func (s *EducationService) Update(ctx context.Context, actor types.Actor, entry types.Education) (types.Education, error) {
	existing, err := s.repo.Get(ctx, entry.ID)
	if err != nil {
		return types.Education{}, err
	}
	if err := Authorize(actor, existing.UserID); err != nil {
		return types.Education{}, err
	}
	entry.UserID = existing.UserID
	entry.CreatedAt = existing.CreatedAt
	return s.repo.Update(ctx, entry)
}

func (s *EducationService) Delete(ctx context.Context, actor types.Actor, id string) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := Authorize(actor, existing.UserID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, existing.ID)
}
