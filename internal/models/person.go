package models

// Gender enumerates the supported gender values.
type Gender string

const (
	GenderFemale Gender = "FEMALE"
	GenderMale   Gender = "MALE"
)

// Valid reports whether the value is a known gender.
func (g Gender) Valid() bool {
	return g == GenderFemale || g == GenderMale
}

// Person holds the identity attributes shared by employees and participants.
// It is embedded, not inherited: employees and participants are separate
// records that carry the same base shape.
type Person struct {
	FirstName   string `db:"first_name" json:"first_name"`
	LastName    string `db:"last_name" json:"last_name"`
	Gender      Gender `db:"gender" json:"gender"`
	Email       string `db:"email" json:"email"`
	PhoneNumber string `db:"phone_number" json:"phone_number"`
}

// FullName joins first and last name for display and report filenames.
func (p Person) FullName() string {
	return p.FirstName + " " + p.LastName
}
