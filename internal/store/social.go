package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/devfolio/apiserver/types"
	"github.com/google/uuid"
)

// SocialLinkFilter holds the optional list criteria for social links.
type SocialLinkFilter struct {
	UserID   *string
	Platform *string
}

func (f SocialLinkFilter) predicates() []Predicate {
	var preds []Predicate
	if f.UserID != nil {
		preds = append(preds, Predicate{Columns: []string{"user_id"}, Op: OpEq, Value: *f.UserID})
	}
	if f.Platform != nil {
		preds = append(preds, Predicate{Columns: []string{"platform"}, Op: OpEq, Value: *f.Platform})
	}
	return preds
}

var socialLinkListQuery = ListQuery{
	Table:   "social_links",
	Columns: []string{"id", "user_id", "platform", "url", "created_at", "updated_at"},
	Sortable: map[string]string{
		"platform":   "platform",
		"created_at": "created_at",
	},
	DefaultSort: "platform",
}

// SocialLinkRepository handles persistence for social links.
type SocialLinkRepository struct {
	db *sql.DB
}

func NewSocialLinkRepository(db *sql.DB) *SocialLinkRepository {
	return &SocialLinkRepository{db: db}
}

func (r *SocialLinkRepository) List(ctx context.Context, filter SocialLinkFilter, criteria Criteria) ([]types.SocialLink, int, error) {
	criteria.Predicates = filter.predicates()
	built, err := socialLinkListQuery.Build(criteria)
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

	links := make([]types.SocialLink, 0, criteria.Limit)
	for rows.Next() {
		var link types.SocialLink
		if err := rows.Scan(
			&link.ID,
			&link.UserID,
			&link.Platform,
			&link.URL,
			&link.CreatedAt,
			&link.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return links, total, nil
}

func (r *SocialLinkRepository) Get(ctx context.Context, id string) (types.SocialLink, error) {
	const query = `
		SELECT id, user_id, platform, url, created_at, updated_at
		FROM social_links
		WHERE id = $1`
	var link types.SocialLink
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&link.ID,
		&link.UserID,
		&link.Platform,
		&link.URL,
		&link.CreatedAt,
		&link.UpdatedAt,
	)
	if err != nil {
		return types.SocialLink{}, translate(err)
	}
	return link, nil
}

func (r *SocialLinkRepository) Create(ctx context.Context, link types.SocialLink) (types.SocialLink, error) {
	now := time.Now()
	link.ID = uuid.NewString()
	link.CreatedAt = now
	link.UpdatedAt = now

	const query = `
		INSERT INTO social_links (id, user_id, platform, url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		link.ID,
		link.UserID,
		link.Platform,
		link.URL,
		link.CreatedAt,
		link.UpdatedAt,
	); err != nil {
		return types.SocialLink{}, translate(err)
	}
	return link, nil
}

func (r *SocialLinkRepository) Update(ctx context.Context, link types.SocialLink) (types.SocialLink, error) {
	link.UpdatedAt = time.Now()

	const query = `
		UPDATE social_links
		SET platform = $1,
			url = $2,
			updated_at = $3
		WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, link.Platform, link.URL, link.UpdatedAt, link.ID)
	if err != nil {
		return types.SocialLink{}, translate(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.SocialLink{}, err
	}
	if affected == 0 {
		return types.SocialLink{}, ErrNotFound
	}
	return link, nil
}

func (r *SocialLinkRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM social_links WHERE id = $1`
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
