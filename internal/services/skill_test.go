package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/devfolio/apiserver/internal/store"
	"github.com/devfolio/apiserver/types"
)

type fakeSkillRepo struct {
	skills map[string]types.Skill
}

func newFakeSkillRepo(skills ...types.Skill) *fakeSkillRepo {
	repo := &fakeSkillRepo{skills: map[string]types.Skill{}}
	for _, s := range skills {
		repo.skills[s.ID] = s
	}
	return repo
}

func (f *fakeSkillRepo) List(ctx context.Context, filter store.SkillFilter, criteria store.Criteria) ([]types.Skill, int, error) {
	items := make([]types.Skill, 0, len(f.skills))
	for _, s := range f.skills {
		items = append(items, s)
	}
	return items, len(items), nil
}

func (f *fakeSkillRepo) Get(ctx context.Context, id string) (types.Skill, error) {
	skill, ok := f.skills[id]
	if !ok {
		return types.Skill{}, store.ErrNotFound
	}
	return skill, nil
}

func (f *fakeSkillRepo) Create(ctx context.Context, skill types.Skill) (types.Skill, error) {
	skill.ID = fmt.Sprintf("s%d", len(f.skills)+1)
	f.skills[skill.ID] = skill
	return skill, nil
}

func (f *fakeSkillRepo) Update(ctx context.Context, skill types.Skill) (types.Skill, error) {
	if _, ok := f.skills[skill.ID]; !ok {
		return types.Skill{}, store.ErrNotFound
	}
	f.skills[skill.ID] = skill
	return skill, nil
}

func (f *fakeSkillRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.skills[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.skills, id)
	return nil
}

func TestSkillMutationsAreAdminOnly(t *testing.T) {
	repo := newFakeSkillRepo(types.Skill{ID: "s1", Name: "Go", Proficiency: 90})
	svc := NewSkillService(repo)

	user := types.Actor{ID: "u1", Role: types.RoleUser}
	admin := types.Actor{ID: "a1", Role: types.RoleAdmin}

	if _, err := svc.Create(context.Background(), user, types.Skill{Name: "Rust"}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected permission denied for user create, got %v", err)
	}
	if _, err := svc.Update(context.Background(), user, types.Skill{ID: "s1", Name: "Go", Proficiency: 95}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected permission denied for user update, got %v", err)
	}
	if err := svc.Delete(context.Background(), user, "s1"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected permission denied for user delete, got %v", err)
	}

	if _, err := svc.Create(context.Background(), admin, types.Skill{Name: "Rust"}); err != nil {
		t.Fatalf("admin create: %v", err)
	}
	if err := svc.Delete(context.Background(), admin, "s1"); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

func TestSkillMissingIDReadsAsNotFound(t *testing.T) {
	svc := NewSkillService(newFakeSkillRepo())
	user := types.Actor{ID: "u1", Role: types.RoleUser}

	// The existence check runs before the role check, so a bad id is
	// never reported as forbidden.
	if _, err := svc.Update(context.Background(), user, types.Skill{ID: "missing"}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := svc.Delete(context.Background(), user, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSkillReadsArePublic(t *testing.T) {
	repo := newFakeSkillRepo(types.Skill{ID: "s1", Name: "Go", Proficiency: 90})
	svc := NewSkillService(repo)

	if _, _, err := svc.List(context.Background(), store.SkillFilter{}, store.Criteria{Page: 1, Limit: 20}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, err := svc.Get(context.Background(), "s1"); err != nil {
		t.Fatalf("get: %v", err)
	}
}
