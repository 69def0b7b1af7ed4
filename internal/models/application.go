package models

import (
	"time"

	"github.com/lib/pq"
)

// Gender values accepted on the join form.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Departments is the fixed list of ministry departments an applicant may
// volunteer for.
var Departments = []string{"ushering", "media", "choir", "instrumentalists", "technical"}

// IsValidDepartment reports whether id belongs to the fixed department list.
func IsValidDepartment(id string) bool {
	for _, d := range Departments {
		if d == id {
			return true
		}
	}
	return false
}

// WorkerApplication is a volunteer submission from the public join form.
// Departments is always non-empty.
type WorkerApplication struct {
	ID                 string         `db:"id" json:"id"`
	FullName           string         `db:"full_name" json:"full_name"`
	Email              string         `db:"email" json:"email"`
	PhoneNumber        string         `db:"phone_number" json:"phone_number"`
	Gender             string         `db:"gender" json:"gender"`
	Age                *int           `db:"age" json:"age,omitempty"`
	Departments        pq.StringArray `db:"departments" json:"departments"`
	PreviousExperience *string        `db:"previous_experience" json:"previous_experience,omitempty"`
	DateSubmitted      time.Time      `db:"date_submitted" json:"date_submitted"`
}
