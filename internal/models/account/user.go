package models

import "time"

// User mirrors a row in the users table. The short identifier is the local
// part of the verified email and is what attributes comments, files, and
// push subscriptions to a person.
type User struct {
	UID         string    `json:"uid" db:"uid"`
	Email       string    `json:"email" db:"email"`
	DisplayName string    `json:"display_name,omitempty" db:"display_name"`
	ShortID     string    `json:"short_id" db:"short_id"`
	Token       string    `json:"-" db:"token"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
