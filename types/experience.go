package types

import "time"

// Experience is a work history entry owned by a user.
type Experience struct {
	ID     string `json:"id" db:"id"`
	UserID string `json:"user_id" db:"user_id"`

	Company  string `json:"company" db:"company"`
	Position string `json:"position" db:"position"`
	Location string `json:"location" db:"location"`

	StartDate time.Time `json:"start_date" db:"start_date"`

	// EndDate is nil while Current is true.
	EndDate *time.Time `json:"end_date" db:"end_date"`
	Current bool       `json:"current" db:"current"`

	Description string `json:"description" db:"description"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
