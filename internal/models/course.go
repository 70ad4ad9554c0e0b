package models

import (
	"fmt"
	"time"
)

// Category enumerates training course types.
type Category string

const (
	CategoryTraining Category = "TRAINING"
	CategoryWorkshop Category = "WORKSHOP"
	CategoryTalk     Category = "TALK"
	CategoryWebinar  Category = "WEBINAR"
)

// Valid reports whether the value is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryTraining, CategoryWorkshop, CategoryTalk, CategoryWebinar:
		return true
	}
	return false
}

// Path enumerates the development paths a course belongs to.
type Path string

const (
	PathPersonalEffectiveness Path = "PERSONAL_EFFECTIVENESS"
	PathSubstantive           Path = "SUBSTANTIVE"
	PathLeadership            Path = "LEADERSHIP"
	PathSales                 Path = "SALES"
)

// Valid reports whether the value is a known path.
func (p Path) Valid() bool {
	switch p {
	case PathPersonalEffectiveness, PathSubstantive, PathLeadership, PathSales:
		return true
	}
	return false
}

// Formula is the delivery mode of a course.
type Formula string

const (
	FormulaOnline   Formula = "ONLINE"
	FormulaInPerson Formula = "IN_PERSON"
)

// Valid reports whether the value is a known formula.
func (f Formula) Valid() bool {
	return f == FormulaOnline || f == FormulaInPerson
}

// Display returns the human-readable delivery mode used in messages and
// reports.
func (f Formula) Display() string {
	if f == FormulaInPerson {
		return "in-person"
	}
	return "online"
}

// TrainingCourse is a scheduled event coached by one employee and attended
// by up to ParticipantsLimit participants.
type TrainingCourse struct {
	ID                string    `db:"id" json:"id"`
	Topic             string    `db:"topic" json:"topic"`
	StartTime         time.Time `db:"start_time" json:"start_time"`
	EndTime           time.Time `db:"end_time" json:"end_time"`
	Category          Category  `db:"category" json:"category"`
	Path              Path      `db:"path" json:"path"`
	Formula           Formula   `db:"formula" json:"formula"`
	ParticipantsLimit int       `db:"participants_limit" json:"participants_limit"`
	CoachID           string    `db:"coach_id" json:"coach_id"`
	TookPlace         Ternary   `db:"took_place" json:"took_place"`
	Materials         Ternary   `db:"materials" json:"materials"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// Duration is derived from the schedule, never stored. End times before the
// start are not rejected anywhere, so the result may be negative.
func (c TrainingCourse) Duration() time.Duration {
	return c.EndTime.Sub(c.StartTime)
}

// DisplayTopic renders the course name used in messages, e.g.
// "Effective Feedback (online)".
func (c TrainingCourse) DisplayTopic() string {
	return fmt.Sprintf("%s (%s)", c.Topic, c.Formula.Display())
}

// CoursePhase splits courses into two editing regimes.
type CoursePhase string

const (
	// CoursePhaseFuture allows editing schedule, coach and capacity.
	CoursePhaseFuture CoursePhase = "FUTURE"
	// CoursePhasePast allows editing only the outcome flags.
	CoursePhasePast CoursePhase = "PAST"
)

// Phase classifies the course against the given reference time by calendar
// date: a course is FUTURE only while its start date is strictly after the
// reference date.
func (c TrainingCourse) Phase(now time.Time) CoursePhase {
	if dateOnly(c.StartTime).After(dateOnly(now)) {
		return CoursePhaseFuture
	}
	return CoursePhasePast
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CourseDetail is a course row enriched with coach identity and the current
// enrollment count.
type CourseDetail struct {
	TrainingCourse
	CoachName     string `db:"coach_name" json:"coach_name"`
	EnrolledCount int    `db:"enrolled_count" json:"enrolled_count"`
}
