package types

import "time"

// ContactMessage is a message submitted through the public contact
// form. Messages have no owner; reading and deleting them requires the
// admin role.
type ContactMessage struct {
	ID      string `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Email   string `json:"email" db:"email"`
	Subject string `json:"subject" db:"subject"`
	Message string `json:"message" db:"message"`

	// Read marks the message as handled in the admin inbox.
	Read bool `json:"read" db:"read"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
