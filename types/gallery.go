package types

import "time"

// GalleryImage is a screenshot or photo attached to a project. The
// image data lives in object storage under ObjectKey. Ownership follows
// the project: UserID mirrors the owning project's user.
type GalleryImage struct {
	ID        string `json:"id" db:"id"`
	ProjectID string `json:"project_id" db:"project_id"`
	UserID    string `json:"user_id" db:"user_id"`

	Caption   string `json:"caption" db:"caption"`
	ObjectKey string `json:"-" db:"object_key"`

	ContentType string `json:"content_type" db:"content_type"`

	// SortOrder controls display order within the project gallery.
	SortOrder int `json:"sort_order" db:"sort_order"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
