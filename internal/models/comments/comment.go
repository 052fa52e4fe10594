package models

import "time"

type Comment struct {
	ID        string    `json:"id" db:"id"`
	TopicID   string    `json:"topic_id" db:"topic_id"`
	Body      string    `json:"body" db:"body"`
	CreatedBy string    `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
