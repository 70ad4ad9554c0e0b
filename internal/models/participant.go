package models

import "time"

// Participant is a person who can enroll in training courses.
type Participant struct {
	ID string `db:"id" json:"id"`
	Person
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Enrollment links a participant to a course.
type Enrollment struct {
	ParticipantID string    `db:"participant_id" json:"participant_id"`
	CourseID      string    `db:"course_id" json:"course_id"`
	EnrolledAt    time.Time `db:"enrolled_at" json:"enrolled_at"`
}

// ParticipantWithCourses is a participant plus every course they are
// enrolled in.
type ParticipantWithCourses struct {
	Participant
	Courses []TrainingCourse `json:"courses"`
}
