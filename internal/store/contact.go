package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/devfolio/apiserver/types"
	"github.com/google/uuid"
)

// ContactFilter holds the optional list criteria for contact messages.
type ContactFilter struct {
	Read   *bool
	Search *string
}

func (f ContactFilter) predicates() []Predicate {
	var preds []Predicate
	if f.Read != nil {
		preds = append(preds, Predicate{Columns: []string{"read"}, Op: OpEq, Value: *f.Read})
	}
	if f.Search != nil {
		preds = append(preds, Predicate{Columns: []string{"name", "email", "subject"}, Op: OpContains, Value: *f.Search})
	}
	return preds
}

var contactListQuery = ListQuery{
	Table:   "contact_messages",
	Columns: []string{"id", "name", "email", "subject", "message", "read", "created_at"},
	Sortable: map[string]string{
		"created_at": "created_at",
		"name":       "name",
	},
	DefaultSort: "created_at",
}

// ContactRepository handles persistence for contact messages.
type ContactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) List(ctx context.Context, filter ContactFilter, criteria Criteria) ([]types.ContactMessage, int, error) {
	criteria.Predicates = filter.predicates()
	built, err := contactListQuery.Build(criteria)
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

	messages := make([]types.ContactMessage, 0, criteria.Limit)
	for rows.Next() {
		message, err := scanContactMessage(rows)
		if err != nil {
			return nil, 0, err
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

func (r *ContactRepository) Get(ctx context.Context, id string) (types.ContactMessage, error) {
	const query = `
		SELECT id, name, email, subject, message, read, created_at
		FROM contact_messages
		WHERE id = $1`
	return scanContactMessage(r.db.QueryRowContext(ctx, query, id))
}

func (r *ContactRepository) Create(ctx context.Context, message types.ContactMessage) (types.ContactMessage, error) {
	message.ID = uuid.NewString()
	message.CreatedAt = time.Now()

	const query = `
		INSERT INTO contact_messages (id, name, email, subject, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		message.ID,
		message.Name,
		message.Email,
		message.Subject,
		message.Message,
		message.Read,
		message.CreatedAt,
	); err != nil {
		return types.ContactMessage{}, translate(err)
	}
	return message, nil
}

// MarkRead flags the message as handled.
func (r *ContactRepository) MarkRead(ctx context.Context, id string) error {
	const query = `UPDATE contact_messages SET read = true WHERE id = $1`
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

func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM contact_messages WHERE id = $1`
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

func scanContactMessage(row rowScanner) (types.ContactMessage, error) {
	var message types.ContactMessage
	if err := row.Scan(
		&message.ID,
		&message.Name,
		&message.Email,
		&message.Subject,
		&message.Message,
		&message.Read,
		&message.CreatedAt,
	); err != nil {
		return types.ContactMessage{}, translate(err)
	}
	return message, nil
}
