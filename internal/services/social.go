package services

import (
	"context"

	"github.com/devfolio/apiserver/internal/store"
	"github.com/devfolio/apiserver/types"
)

// SocialLinkRepository defines persistence operations for social links.
type SocialLinkRepository interface {
	List(ctx context.Context, filter store.SocialLinkFilter, criteria store.Criteria) ([]types.SocialLink, int, error)
	Get(ctx context.Context, id string) (types.SocialLink, error)
	Create(ctx context.Context, link types.SocialLink) (types.SocialLink, error)
	Update(ctx context.Context, link types.SocialLink) (types.SocialLink, error)
	Delete(ctx context.Context, id string) error
}

// SocialLinkService encapsulates social-link use-cases.
type SocialLinkService struct {
	repo SocialLinkRepository
}

func NewSocialLinkService(repo SocialLinkRepository) *SocialLinkService {
	return &SocialLinkService{repo: repo}
}

func (s *SocialLinkService) List(ctx context.Context, filter store.SocialLinkFilter, criteria store.Criteria) ([]types.SocialLink, int, error) {
	return s.repo.List(ctx, filter, criteria)
}

func (s *SocialLinkService) Get(ctx context.Context, id string) (types.SocialLink, error) {
	return s.repo.Get(ctx, id)
}

func (s *SocialLinkService) Create(ctx context.Context, actor types.Actor, link types.SocialLink) (types.SocialLink, error) {
	link.UserID = actor.ID
	return s.repo.Create(ctx, link)
}

func (s *SocialLinkService) Update(ctx context.Context, actor types.Actor, link types.SocialLink) (types.SocialLink, error) {
	existing, err := s.repo.Get(ctx, link.ID)
	if err != nil {
		return types.SocialLink{}, err
	}
	if err := Authorize(actor, existing.UserID); err != nil {
		return types.SocialLink{}, err
	}
	link.UserID = existing.UserID
	link.CreatedAt = existing.CreatedAt
	return s.repo.Update(ctx, link)
}

func (s *SocialLinkService) Delete(ctx context.Context, actor types.Actor, id string) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := Authorize(actor, existing.UserID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, existing.ID)
}
