package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/devfolio/apiserver/types"
	"github.com/google/uuid"
)

// ExperienceFilter holds the optional list criteria for work history.
type ExperienceFilter struct {
	UserID  *string
	Current *bool
	Search  *string
}

func (f ExperienceFilter) predicates() []Predicate {
	var preds []Predicate
	if f.UserID != nil {
		preds = append(preds, Predicate{Columns: []string{"user_id"}, Op: OpEq, Value: *f.UserID})
	}
	if f.Current != nil {
		preds = append(preds, Predicate{Columns: []string{"current"}, Op: OpEq, Value: *f.Current})
	}
	if f.Search != nil {
		preds = append(preds, Predicate{Columns: []string{"company", "position"}, Op: OpContains, Value: *f.Search})
	}
	return preds
}

var experienceListQuery = ListQuery{
	Table: "experiences",
	Columns: []string{
		"id", "user_id", "company", "position", "location",
		"start_date", "end_date", "current", "description", "created_at", "updated_at",
	},
	Sortable: map[string]string{
		"start_date": "start_date",
		"end_date":   "end_date",
		"company":    "company",
		"created_at": "created_at",
	},
	DefaultSort: "start_date",
}

// ExperienceRepository handles persistence for work history entries.
type ExperienceRepository struct {
	db *sql.DB
}

func NewExperienceRepository(db *sql.DB) *ExperienceRepository {
	return &ExperienceRepository{db: db}
}

func (r *ExperienceRepository) List(ctx context.Context, filter ExperienceFilter, criteria Criteria) ([]types.Experience, int, error) {
	criteria.Predicates = filter.predicates()
	built, err := experienceListQuery.Build(criteria)
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

	experiences := make([]types.Experience, 0, criteria.Limit)
	for rows.Next() {
		experience, err := scanExperience(rows)
		if err != nil {
			return nil, 0, err
		}
		experiences = append(experiences, experience)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return experiences, total, nil
}

func (r *ExperienceRepository) Get(ctx context.Context, id string) (types.Experience, error) {
	const query = `
		SELECT id, user_id, company, position, location, start_date, end_date, current, description, created_at, updated_at
		FROM experiences
		WHERE id = $1`
	return scanExperience(r.db.QueryRowContext(ctx, query, id))
}

func (r *ExperienceRepository) Create(ctx context.Context, experience types.Experience) (types.Experience, error) {
	now := time.Now()
	experience.ID = uuid.NewString()
	experience.CreatedAt = now
	experience.UpdatedAt = now

	const query = `
		INSERT INTO experiences (id, user_id, company, position, location, start_date, end_date, current, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		experience.ID,
		experience.UserID,
		experience.Company,
		experience.Position,
		experience.Location,
		experience.StartDate,
		experience.EndDate,
		experience.Current,
		experience.Description,
		experience.CreatedAt,
		experience.UpdatedAt,
	); err != nil {
		return types.Experience{}, translate(err)
	}
	return experience, nil
}

func (r *ExperienceRepository) Update(ctx context.Context, experience types.Experience) (types.Experience, error) {
	experience.UpdatedAt = time.Now()

	const query = `
		UPDATE experiences
		SET company = $1,
			position = $2,
			location = $3,
			start_date = $4,
			end_date = $5,
			current = $6,
			description = $7,
			updated_at = $8
		WHERE id = $9`
	result, err := r.db.ExecContext(
		ctx,
		query,
		experience.Company,
		experience.Position,
		experience.Location,
		experience.StartDate,
		experience.EndDate,
		experience.Current,
		experience.Description,
		experience.UpdatedAt,
		experience.ID,
	)
	if err != nil {
		return types.Experience{}, translate(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Experience{}, err
	}
	if affected == 0 {
		return types.Experience{}, ErrNotFound
	}
	return experience, nil
}

func (r *ExperienceRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM experiences WHERE id = $1`
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

func scanExperience(row rowScanner) (types.Experience, error) {
	var experience types.Experience
	var endDate sql.NullTime
	if err := row.Scan(
		&experience.ID,
		&experience.UserID,
		&experience.Company,
		&experience.Position,
		&experience.Location,
		&experience.StartDate,
		&endDate,
		&experience.Current,
		&experience.Description,
		&experience.CreatedAt,
		&experience.UpdatedAt,
	); err != nil {
		return types.Experience{}, translate(err)
	}
	if endDate.Valid {
		experience.EndDate = &endDate.Time
	}
	return experience, nil
}
