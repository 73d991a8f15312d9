package types

import "time"

// Skill is an entry in the shared skill catalog. The catalog has no
// owner; mutations require the admin role.
type Skill struct {
	ID string `json:"id" db:"id"`

	// Name is unique across the catalog.
	Name string `json:"name" db:"name"`

	// Category groups skills on the about page (e.g., "Backend", "DevOps").
	Category string `json:"category" db:"category"`

	// Proficiency is a self-assessed level from 1 to 100.
	Proficiency int `json:"proficiency" db:"proficiency"`

	// Icon is an optional icon identifier for the front end.
	Icon string `json:"icon" db:"icon"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
