package models

import "time"

// PresenceRecord stores the attendance outcome for one participant at one
// course. A missing row means "not yet recorded", not "absent".
type PresenceRecord struct {
	ID            string    `db:"id" json:"id"`
	ParticipantID string    `db:"participant_id" json:"participant_id"`
	CourseID      string    `db:"course_id" json:"course_id"`
	Present       Ternary   `db:"present" json:"present"`
	RecordedAt    time.Time `db:"recorded_at" json:"recorded_at"`
}

// PresenceDetail joins a presence record with the participant's identity.
type PresenceDetail struct {
	PresenceRecord
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Email     string `db:"email" json:"email"`
}
