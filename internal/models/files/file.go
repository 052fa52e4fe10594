package models

import "time"

// File is one attachment on a topic, either uploaded through the storage
// proxy (StoredName set) or registered by URL only.
type File struct {
	ID         string    `json:"id" db:"id"`
	TopicID    string    `json:"topic_id" db:"topic_id"`
	FileName   string    `json:"file_name" db:"file_name"`
	FileURL    string    `json:"file_url" db:"file_url"`
	StoredName string    `json:"stored_name,omitempty" db:"stored_name"`
	CreatedBy  string    `json:"created_by" db:"created_by"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
