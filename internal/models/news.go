package models

import "time"

// NewsPost represents a published news entry, newest first.
type NewsPost struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Message     string    `db:"message" json:"message"`
	DateCreated time.Time `db:"date_created" json:"date_created"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
