package services

import (
	"context"

	"github.com/devfolio/apiserver/internal/store"
	"github.com/devfolio/apiserver/types"
)

// SkillRepository defines persistence operations for the skill catalog.
type SkillRepository interface {
	List(ctx context.Context, filter store.SkillFilter, criteria store.Criteria) ([]types.Skill, int, error)
	Get(ctx context.Context, id string) (types.Skill, error)
	Create(ctx context.Context, skill types.Skill) (types.Skill, error)
	Update(ctx context.Context, skill types.Skill) (types.Skill, error)
	Delete(ctx context.Context, id string) error
}

// SkillService encapsulates skill-catalog use-cases. The catalog is
// shared; every mutation requires the admin role.
type SkillService struct {
	repo SkillRepository
}

func NewSkillService(repo SkillRepository) *SkillService {
	return &SkillService{repo: repo}
}

func (s *SkillService) List(ctx context.Context, filter store.SkillFilter, criteria store.Criteria) ([]types.Skill, int, error) {
	return s.repo.List(ctx, filter, criteria)
}

func (s *SkillService) Get(ctx context.Context, id string) (types.Skill, error) {
	return s.repo.Get(ctx, id)
}

func (s *SkillService) Create(ctx context.Context, actor types.Actor, skill types.Skill) (types.Skill, error) {
	if err := Authorize(actor, ""); err != nil {
		return types.Skill{}, err
	}
	return s.repo.Create(ctx, skill)
}

func (s *SkillService) Update(ctx context.Context, actor types.Actor, skill types.Skill) (types.Skill, error) {
	existing, err := s.repo.Get(ctx, skill.ID)
	if err != nil {
		return types.Skill{}, err
	}
	if err := Authorize(actor, ""); err != nil {
		return types.Skill{}, err
	}
	skill.CreatedAt = existing.CreatedAt
	return s.repo.Update(ctx, skill)
}

func (s *SkillService) Delete(ctx context.Context, actor types.Actor, id string) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	if err := Authorize(actor, ""); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
