package models

import "time"

type Topic struct {
	ID             string    `json:"id" db:"id"`
	Title          string    `json:"title" db:"title"`
	CreatedBy      string    `json:"created_by" db:"created_by"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at" db:"last_activity_at"`
}
