package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/devfolio/apiserver/types"
	"github.com/google/uuid"
)

// EducationFilter holds the optional list criteria for education history.
type EducationFilter struct {
	UserID *string
	Search *string
}

func (f EducationFilter) predicates() []Predicate {
	var preds []Predicate
	if f.UserID != nil {
		preds = append(preds, Predicate{Columns: []string{"user_id"}, Op: OpEq, Value: *f.UserID})
	}
	if f.Search != nil {
		preds = append(preds, Predicate{Columns: []string{"institution", "degree"}, Op: OpContains, Value: *f.Search})
	}
	return preds
}

var educationListQuery = ListQuery{
	Table: "education",
	Columns: []string{
		"id", "user_id", "institution", "degree", "field_of_study",
		"start_date", "end_date", "description", "created_at", "updated_at",
	},
	Sortable: map[string]string{
		"start_date":  "start_date",
		"end_date":    "end_date",
		"institution": "institution",
		"created_at":  "created_at",
	},
	DefaultSort: "start_date",
}

// EducationRepository handles persistence for education entries.
type EducationRepository struct {
	db *sql.DB
}

func NewEducationRepository(db *sql.DB) *EducationRepository {
	return &EducationRepository{db: db}
}

func (r *EducationRepository) List(ctx context.Context, filter EducationFilter, criteria Criteria) ([]types.Education, int, error) {
	criteria.Predicates = filter.predicates()
	built, err := educationListQuery.Build(criteria)
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

	entries := make([]types.Education, 0, criteria.Limit)
	for rows.Next() {
		entry, err := scanEducation(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *EducationRepository) Get(ctx context.Context, id string) (types.Education, error) {
	const query = `
		SELECT id, user_id, institution, degree, field_of_study, start_date, end_date, description, created_at, updated_at
		FROM education
		WHERE id = $1`
	return scanEducation(r.db.QueryRowContext(ctx, query, id))
}

func (r *EducationRepository) Create(ctx context.Context, entry types.Education) (types.Education, error) {
	now := time.Now()
	entry.ID = uuid.NewString()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	const query = `
		INSERT INTO education (id, user_id, institution, degree, field_of_study, start_date, end_date, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.UserID,
		entry.Institution,
		entry.Degree,
		entry.FieldOfStudy,
		entry.StartDate,
		entry.EndDate,
		entry.Description,
		entry.CreatedAt,
		entry.UpdatedAt,
	); err != nil {
		return types.Education{}, translate(err)
	}
	return entry, nil
}

func (r *EducationRepository) Update(ctx context.Context, entry types.Education) (types.Education, error) {
	entry.UpdatedAt = time.Now()

	const query = `
		UPDATE education
		SET institution = $1,
			degree = $2,
			field_of_study = $3,
			start_date = $4,
			end_date = $5,
			description = $6,
			updated_at = $7
		WHERE id = $8`
	result, err := r.db.ExecContext(
		ctx,
		query,
		entry.Institution,
		entry.Degree,
		entry.FieldOfStudy,
		entry.StartDate,
		entry.EndDate,
		entry.Description,
		entry.UpdatedAt,
		entry.ID,
	)
	if err != nil {
		return types.Education{}, translate(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Education{}, err
	}
	if affected == 0 {
		return types.Education{}, ErrNotFound
	}
	return entry, nil
}

func (r *EducationRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM education WHERE id = $1`
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

func scanEducation(row rowScanner) (types.Education, error) {
	var entry types.Education
	var endDate sql.NullTime
	if err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Institution,
		&entry.Degree,
		&entry.FieldOfStudy,
		&entry.StartDate,
		&endDate,
		&entry.Description,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	); err != nil {
		return types.Education{}, translate(err)
	}
	if endDate.Valid {
		entry.EndDate = &endDate.Time
	}
	return entry, nil
}
