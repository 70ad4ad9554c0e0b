package models

// Ternary is a three-valued flag for facts that start out undecided.
// UNKNOWN means "not yet recorded" and is distinct from a recorded NO.
type Ternary string

const (
	TernaryUnknown Ternary = "UNKNOWN"
	TernaryYes     Ternary = "YES"
	TernaryNo      Ternary = "NO"
)

// Valid reports whether the value is one of the three known states.
func (t Ternary) Valid() bool {
	return t == TernaryUnknown || t == TernaryYes || t == TernaryNo
}

// Decided reports whether the flag has been resolved to YES or NO.
func (t Ternary) Decided() bool {
	return t == TernaryYes || t == TernaryNo
}
