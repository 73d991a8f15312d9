package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/devfolio/apiserver/types"
	"github.com/google/uuid"
)

// ResumeFilter holds the optional list criteria for resumes.
type ResumeFilter struct {
	UserID  *string
	Primary *bool
}

func (f ResumeFilter) predicates() []Predicate {
	var preds []Predicate
	if f.UserID != nil {
		preds = append(preds, Predicate{Columns: []string{"user_id"}, Op: OpEq, Value: *f.UserID})
	}
	if f.Primary != nil {
		preds = append(preds, Predicate{Columns: []string{"is_primary"}, Op: OpEq, Value: *f.Primary})
	}
	return preds
}

var resumeListQuery = ListQuery{
	Table: "resumes",
	Columns: []string{
		"id", "user_id", "title", "file_name", "object_key",
		"content_type", "size_bytes", "is_primary", "created_at", "updated_at",
	},
	Sortable: map[string]string{
		"created_at": "created_at",
		"title":      "title",
	},
	DefaultSort: "created_at",
}

// ResumeRepository handles persistence for resume metadata.
type ResumeRepository struct {
	db *sql.DB
}

func NewResumeRepository(db *sql.DB) *ResumeRepository {
	return &ResumeRepository{db: db}
}

func (r *ResumeRepository) List(ctx context.Context, filter ResumeFilter, criteria Criteria) ([]types.Resume, int, error) {
	criteria.Predicates = filter.predicates()
	built, err := resumeListQuery.Build(criteria)
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

	resumes := make([]types.Resume, 0, criteria.Limit)
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, 0, err
		}
		resumes = append(resumes, resume)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return resumes, total, nil
}

func (r *ResumeRepository) Get(ctx context.Context, id string) (types.Resume, error) {
	const query = `
		SELECT id, user_id, title, file_name, object_key, content_type, size_bytes, is_primary, created_at, updated_at
		FROM resumes
		WHERE id = $1`
	return scanResume(r.db.QueryRowContext(ctx, query, id))
}

// GetPrimary returns the user's primary resume, if any.
func (r *ResumeRepository) GetPrimary(ctx context.Context, userID string) (types.Resume, error) {
	const query = `
		SELECT id, user_id, title, file_name, object_key, content_type, size_bytes, is_primary, created_at, updated_at
		FROM resumes
		WHERE user_id = $1 AND is_primary`
	return scanResume(r.db.QueryRowContext(ctx, query, userID))
}

// Create inserts the resume row. When the new resume is primary, all
// other resumes of the same user are demoted first; both statements run
// in one transaction so concurrent uploads serialize on the row locks
// instead of racing to last-write-wins.
func (r *ResumeRepository) Create(ctx context.Context, resume types.Resume) (types.Resume, error) {
	now := time.Now()
	resume.ID = uuid.NewString()
	resume.CreatedAt = now
	resume.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Resume{}, err
	}
	defer tx.Rollback()

	if resume.IsPrimary {
		const demote = `UPDATE resumes SET is_primary = false, updated_at = $1 WHERE user_id = $2 AND is_primary`
		if _, err := tx.ExecContext(ctx, demote, now, resume.UserID); err != nil {
			return types.Resume{}, translate(err)
		}
	}

	const insert = `
		INSERT INTO resumes (id, user_id, title, file_name, object_key, content_type, size_bytes, is_primary, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err := tx.ExecContext(
		ctx,
		insert,
		resume.ID,
		resume.UserID,
		resume.Title,
		resume.FileName,
		resume.ObjectKey,
		resume.ContentType,
		resume.SizeBytes,
		resume.IsPrimary,
		resume.CreatedAt,
		resume.UpdatedAt,
	); err != nil {
		return types.Resume{}, translate(err)
	}

	if err := tx.Commit(); err != nil {
		return types.Resume{}, err
	}
	return resume, nil
}

// Update changes resume metadata. Promoting a resume to primary demotes
// the user's other resumes inside the same transaction.
func (r *ResumeRepository) Update(ctx context.Context, resume types.Resume) (types.Resume, error) {
	resume.UpdatedAt = time.Now()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Resume{}, err
	}
	defer tx.Rollback()

	if resume.IsPrimary {
		const demote = `UPDATE resumes SET is_primary = false, updated_at = $1 WHERE user_id = $2 AND is_primary AND id <> $3`
		if _, err := tx.ExecContext(ctx, demote, resume.UpdatedAt, resume.UserID, resume.ID); err != nil {
			return types.Resume{}, translate(err)
		}
	}

	const update = `
		UPDATE resumes
		SET title = $1,
			is_primary = $2,
			updated_at = $3
		WHERE id = $4`
	result, err := tx.ExecContext(ctx, update, resume.Title, resume.IsPrimary, resume.UpdatedAt, resume.ID)
	if err != nil {
		return types.Resume{}, translate(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Resume{}, err
	}
	if affected == 0 {
		return types.Resume{}, ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return types.Resume{}, err
	}
	return resume, nil
}

func (r *ResumeRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM resumes WHERE id = $1`
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

func scanResume(row rowScanner) (types.Resume, error) {
	var resume types.Resume
	if err := row.Scan(
		&resume.ID,
		&resume.UserID,
		&resume.Title,
		&resume.FileName,
		&resume.ObjectKey,
		&resume.ContentType,
		&resume.SizeBytes,
		&resume.IsPrimary,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	); err != nil {
		return types.Resume{}, translate(err)
	}
	return resume, nil
}
