package models

import "time"

// Event represents a scheduled church event. EventDate carries the calendar
// date only; EventTime is the wall-clock start time as entered by the admin.
type Event struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description,omitempty"`
	EventDate   time.Time `db:"event_date" json:"event_date"`
	EventTime   string    `db:"event_time" json:"event_time"`
	Location    string    `db:"location" json:"location"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	// IsToday is derived at read time and never persisted.
	IsToday bool `db:"-" json:"is_today"`
}

// EventDateFormat is the wire format for event dates.
const EventDateFormat = "2006-01-02"

// EventTimeFormat is the wire format for event start times.
const EventTimeFormat = "15:04"

// OccursOn reports whether the event falls on the calendar date of ref.
func (e Event) OccursOn(ref time.Time) bool {
	y1, m1, d1 := e.EventDate.Date()
	y2, m2, d2 := ref.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
