package models

import "time"

// Contact is an entry of a user's contact book, keyed by first and last name.
type Contact struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"user_id" db:"user_id"`
	FirstName   string    `json:"first_name" db:"first_name"`
	LastName    string    `json:"last_name" db:"last_name"`
	PhoneNumber string    `json:"phone_number" db:"phone_number"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// FullName returns "First Last".
func (c *Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}
