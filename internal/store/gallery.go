package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/devfolio/apiserver/types"
	"github.com/google/uuid"
)

// GalleryFilter holds the optional list criteria for gallery images.
type GalleryFilter struct {
	ProjectID *string
}

func (f GalleryFilter) predicates() []Predicate {
	var preds []Predicate
	if f.ProjectID != nil {
		preds = append(preds, Predicate{Columns: []string{"project_id"}, Op: OpEq, Value: *f.ProjectID})
	}
	return preds
}

var galleryListQuery = ListQuery{
	Table: "gallery_images",
	Columns: []string{
		"id", "project_id", "user_id", "caption", "object_key", "content_type", "sort_order", "created_at",
	},
	Sortable: map[string]string{
		"sort_order": "sort_order",
		"created_at": "created_at",
	},
	DefaultSort: "sort_order",
}

// GalleryRepository handles persistence for project gallery images.
type GalleryRepository struct {
	db *sql.DB
}

func NewGalleryRepository(db *sql.DB) *GalleryRepository {
	return &GalleryRepository{db: db}
}

func (r *GalleryRepository) List(ctx context.Context, filter GalleryFilter, criteria Criteria) ([]types.GalleryImage, int, error) {
	criteria.Predicates = filter.predicates()
	built, err := galleryListQuery.Build(criteria)
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

	images := make([]types.GalleryImage, 0, criteria.Limit)
	for rows.Next() {
		image, err := scanGalleryImage(rows)
		if err != nil {
			return nil, 0, err
		}
		images = append(images, image)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return images, total, nil
}

func (r *GalleryRepository) Get(ctx context.Context, id string) (types.GalleryImage, error) {
	const query = `
		SELECT id, project_id, user_id, caption, object_key, content_type, sort_order, created_at
		FROM gallery_images
		WHERE id = $1`
	return scanGalleryImage(r.db.QueryRowContext(ctx, query, id))
}

func (r *GalleryRepository) Create(ctx context.Context, image types.GalleryImage) (types.GalleryImage, error) {
	image.ID = uuid.NewString()
	image.CreatedAt = time.Now()

	const query = `
		INSERT INTO gallery_images (id, project_id, user_id, caption, object_key, content_type, sort_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		image.ID,
		image.ProjectID,
		image.UserID,
		image.Caption,
		image.ObjectKey,
		image.ContentType,
		image.SortOrder,
		image.CreatedAt,
	); err != nil {
		return types.GalleryImage{}, translate(err)
	}
	return image, nil
}

func (r *GalleryRepository) Update(ctx context.Context, image types.GalleryImage) (types.GalleryImage, error) {
	const query = `
		UPDATE gallery_images
		SET caption = $1,
			sort_order = $2
		WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, image.Caption, image.SortOrder, image.ID)
	if err != nil {
		return types.GalleryImage{}, translate(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.GalleryImage{}, err
	}
	if affected == 0 {
		return types.GalleryImage{}, ErrNotFound
	}
	return image, nil
}

func (r *GalleryRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM gallery_images WHERE id = $1`
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

func scanGalleryImage(row rowScanner) (types.GalleryImage, error) {
	var image types.GalleryImage
	if err := row.Scan(
		&image.ID,
		&image.ProjectID,
		&image.UserID,
		&image.Caption,
		&image.ObjectKey,
		&image.ContentType,
		&image.SortOrder,
		&image.CreatedAt,
	); err != nil {
		return types.GalleryImage{}, translate(err)
	}
	return image, nil
}
