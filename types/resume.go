package types

import "time"

// Resume is a resume file owned by a user. The file itself lives in
// object storage under ObjectKey; the row carries only metadata.
type Resume struct {
	ID     string `json:"id" db:"id"`
	UserID string `json:"user_id" db:"user_id"`

	// Title distinguishes resume variants ("Backend 2026", "Full CV").
	Title string `json:"title" db:"title"`

	// FileName is the original upload filename, used for downloads.
	FileName string `json:"file_name" db:"file_name"`

	// ObjectKey locates the file in object storage. Never exposed to clients.
	ObjectKey string `json:"-" db:"object_key"`

	ContentType string `json:"content_type" db:"content_type"`
	SizeBytes   int64  `json:"size_bytes" db:"size_bytes"`

	// IsPrimary marks the resume served on the public resume page.
	// At most one resume per user is primary.
	IsPrimary bool `json:"is_primary" db:"is_primary"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
