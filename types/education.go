package types

import "time"

// Education is an education history entry owned by a user.
type Education struct {
	ID     string `json:"id" db:"id"`
	UserID string `json:"user_id" db:"user_id"`

	Institution  string `json:"institution" db:"institution"`
	Degree       string `json:"degree" db:"degree"`
	FieldOfStudy string `json:"field_of_study" db:"field_of_study"`

	StartDate time.Time  `json:"start_date" db:"start_date"`
	EndDate   *time.Time `json:"end_date" db:"end_date"`

	Description string `json:"description" db:"description"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
