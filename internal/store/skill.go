package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/devfolio/apiserver/types"
	"github.com/google/uuid"
)

// SkillFilter holds the optional list criteria for the skill catalog.
type SkillFilter struct {
	Category *string
	Search   *string
}

func (f SkillFilter) predicates() []Predicate {
	var preds []Predicate
	if f.Category != nil {
		preds = append(preds, Predicate{Columns: []string{"category"}, Op: OpEq, Value: *f.Category})
	}
	if f.Search != nil {
		preds = append(preds, Predicate{Columns: []string{"name"}, Op: OpContains, Value: *f.Search})
	}
	return preds
}

var skillListQuery = ListQuery{
	Table:   "skills",
	Columns: []string{"id", "name", "category", "proficiency", "icon", "created_at", "updated_at"},
	Sortable: map[string]string{
		"name":        "name",
		"category":    "category",
		"proficiency": "proficiency",
		"created_at":  "created_at",
	},
	DefaultSort: "name",
}

// SkillRepository handles persistence for the skill catalog.
type SkillRepository struct {
	db *sql.DB
}

func NewSkillRepository(db *sql.DB) *SkillRepository {
	return &SkillRepository{db: db}
}

func (r *SkillRepository) List(ctx context.Context, filter SkillFilter, criteria Criteria) ([]types.Skill, int, error) {
	criteria.Predicates = filter.predicates()
	built, err := skillListQuery.Build(criteria)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx, built.Count, built.CountArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, built.Query, built.QueryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	skills := make([]types.Skill, 0, criteria.Limit)
	for rows.Next() {
		var skill types.Skill
		if err := rows.Scan(
			&skill.ID,
			&skill.Name,
			&skill.Category,
			&skill.Proficiency,
			&skill.Icon,
			&skill.CreatedAt,
			&skill.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		skills = append(skills, skill)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return skills, total, nil
}

func (r *SkillRepository) Get(ctx context.Context, id string) (types.Skill, error) {
	const query = `
		SELECT id, name, category, proficiency, icon, created_at, updated_at
		FROM skills
		WHERE id = $1`
	var skill types.Skill
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&skill.ID,
		&skill.Name,
		&skill.Category,
		&skill.Proficiency,
		&skill.Icon,
		&skill.CreatedAt,
		&skill.UpdatedAt,
	)
	if err != nil {
		return types.Skill{}, translate(err)
	}
	return skill, nil
}

func (r *SkillRepository) Create(ctx context.Context, skill types.Skill) (types.Skill, error) {
	now := time.Now()
	skill.ID = uuid.NewString()
	skill.CreatedAt = now
	skill.UpdatedAt = now

	const query = `
		INSERT INTO skills (id, name, category, proficiency, icon, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		skill.ID,
		skill.Name,
		skill.Category,
		skill.Proficiency,
		skill.Icon,
		skill.CreatedAt,
		skill.UpdatedAt,
	); err != nil {
		return types.Skill{}, translate(err)
	}
	return skill, nil
}

func (r *SkillRepository) Update(ctx context.Context, skill types.Skill) (types.Skill, error) {
	skill.UpdatedAt = time.Now()

	const query = `
		UPDATE skills
		SET name = $1,
			category = $2,
			proficiency = $3,
			icon = $4,
			updated_at = $5
		WHERE id = $6`
	result, err := r.db.ExecContext(
		ctx,
		query,
		skill.Name,
		skill.Category,
		skill.Proficiency,
		skill.Icon,
		skill.UpdatedAt,
		skill.ID,
	)
	if err != nil {
		return types.Skill{}, translate(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Skill{}, err
	}
	if affected == 0 {
		return types.Skill{}, ErrNotFound
	}
	return skill, nil
}

func (r *SkillRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM skills WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
