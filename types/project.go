package types

import "time"

// Project represents a portfolio project shown on the public site.
type Project struct {
	// ID is the unique identifier of the project, an opaque UUID string.
	ID string `json:"id" db:"id"`

	// UserID is the identifier of the owning user. Only the owner or an
	// admin may mutate the project.
	UserID string `json:"user_id" db:"user_id"`

	// Title is the human-readable name of the project.
	Title string `json:"title" db:"title"`

	// Slug is the URL-safe identifier used by the front end for detail
	// pages. Unique across all projects.
	Slug string `json:"slug" db:"slug"`

	// Description contains the full project write-up.
	Description string `json:"description" db:"description"`

	// Category groups the project on the portfolio grid
	// (e.g., "Web Development", "Mobile").
	Category string `json:"category" db:"category"`

	// Technologies are free-form labels for the stack used, rendered as
	// badges and usable for filtering.
	Technologies []string `json:"technologies" db:"technologies"`

	// DemoURL is an optional link to a live deployment.
	DemoURL string `json:"demo_url" db:"demo_url"`

	// RepoURL is an optional link to the source repository.
	RepoURL string `json:"repo_url" db:"repo_url"`

	// Featured marks the project for the homepage highlight section.
	Featured bool `json:"featured" db:"featured"`

	// CreatedAt is the timestamp at which the project was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the project.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
