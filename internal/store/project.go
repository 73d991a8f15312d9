package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/devfolio/apiserver/types"
	"github.com/google/uuid"
)

// ProjectFilter holds the optional list criteria for projects. Nil
// fields contribute no predicate.
type ProjectFilter struct {
	Category *string
	Search   *string
	Featured *bool
	UserID   *string
}

func (f ProjectFilter) predicates() []Predicate {
	var preds []Predicate
	if f.Category != nil {
		preds = append(preds, Predicate{Columns: []string{"category"}, Op: OpEq, Value: *f.Category})
	}
	if f.Search != nil {
		preds = append(preds, Predicate{Columns: []string{"title", "description"}, Op: OpContains, Value: *f.Search})
	}
	if f.Featured != nil {
		preds = append(preds, Predicate{Columns: []string{"featured"}, Op: OpEq, Value: *f.Featured})
	}
	if f.UserID != nil {
		preds = append(preds, Predicate{Columns: []string{"user_id"}, Op: OpEq, Value: *f.UserID})
	}
	return preds
}

var projectListQuery = ListQuery{
	Table: "projects",
	Columns: []string{
		"id", "user_id", "title", "slug", "description", "category",
		"technologies", "demo_url", "repo_url", "featured", "created_at", "updated_at",
	},
	Sortable: map[string]string{
		"created_at": "created_at",
		"updated_at": "updated_at",
		"title":      "title",
		"category":   "category",
	},
	DefaultSort: "created_at",
}

// ProjectRepository handles persistence for projects.
type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) List(ctx context.Context, filter ProjectFilter, criteria Criteria) ([]types.Project, int, error) {
	criteria.Predicates = filter.predicates()
	built, err := projectListQuery.Build(criteria)
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

	projects := make([]types.Project, 0, criteria.Limit)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

func (r *ProjectRepository) Get(ctx context.Context, id string) (types.Project, error) {
	const query = `
		SELECT id, user_id, title, slug, description, category, technologies, demo_url, repo_url, featured, created_at, updated_at
		FROM projects
		WHERE id = $1`
	return scanProject(r.db.QueryRowContext(ctx, query, id))
}

func (r *ProjectRepository) GetBySlug(ctx context.Context, slug string) (types.Project, error) {
	const query = `
		SELECT id, user_id, title, slug, description, category, technologies, demo_url, repo_url, featured, created_at, updated_at
		FROM projects
		WHERE slug = $1`
	return scanProject(r.db.QueryRowContext(ctx, query, slug))
}

func (r *ProjectRepository) Create(ctx context.Context, project types.Project) (types.Project, error) {
	now := time.Now()
	project.ID = uuid.NewString()
	project.CreatedAt = now
	project.UpdatedAt = now

	techJSON, err := json.Marshal(project.Technologies)
	if err != nil {
		return types.Project{}, err
	}

	const query = `
		INSERT INTO projects (id, user_id, title, slug, description, category, technologies, demo_url, repo_url, featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		project.ID,
		project.UserID,
		project.Title,
		project.Slug,
		project.Description,
		project.Category,
		techJSON,
		project.DemoURL,
		project.RepoURL,
		project.Featured,
		project.CreatedAt,
		project.UpdatedAt,
	); err != nil {
		return types.Project{}, translate(err)
	}
	return project, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project types.Project) (types.Project, error) {
	project.UpdatedAt = time.Now()

	techJSON, err := json.Marshal(project.Technologies)
	if err != nil {
		return types.Project{}, err
	}

	const query = `
		UPDATE projects
		SET title = $1,
			slug = $2,
			description = $3,
			category = $4,
			technologies = $5,
			demo_url = $6,
			repo_url = $7,
			featured = $8,
			updated_at = $9
		WHERE id = $10`
	result, err := r.db.ExecContext(
		ctx,
		query,
		project.Title,
		project.Slug,
		project.Description,
		project.Category,
		techJSON,
		project.DemoURL,
		project.RepoURL,
		project.Featured,
		project.UpdatedAt,
		project.ID,
	)
	if err != nil {
		return types.Project{}, translate(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Project{}, err
	}
	if affected == 0 {
		return types.Project{}, ErrNotFound
	}
	return project, nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM projects WHERE id = $1`
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (types.Project, error) {
	var project types.Project
	var techJSON []byte
	if err := row.Scan(
		&project.ID,
		&project.UserID,
		&project.Title,
		&project.Slug,
		&project.Description,
		&project.Category,
		&techJSON,
		&project.DemoURL,
		&project.RepoURL,
		&project.Featured,
		&project.CreatedAt,
		&project.UpdatedAt,
	); err != nil {
		return types.Project{}, translate(err)
	}
	if err := json.Unmarshal(techJSON, &project.Technologies); err != nil {
		return types.Project{}, translate(err)
	}
	return project, nil
}
