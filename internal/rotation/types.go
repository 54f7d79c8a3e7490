// Package rotation implements the fair rotation core: given a roster, an
// ordered seat list, the arrangement history, and calendar exceptions it
// computes the seating arrangement for the next working day together with a
// templated explanation. The computation is a pure function of its input; the
// reference time is injected so callers control determinism.
package rotation

import "time"

// Participant identifies a roster member. Identity is the ID; the display
// name only ever appears in human-facing explanation text.
type Participant struct {
	ID          string
	DisplayName string
}

// Record is one committed arrangement: a calendar date and the seat to
// participant mapping that applied on it.
type Record struct {
	Date  string
	Seats map[string]string
}

// Input carries everything the core needs for one computation.
type Input struct {
	Participants   []Participant
	Seats          []string
	History        []Record
	NonWorkingDays []string
	SpecialEvents  map[string]string
	Today          time.Time
}

// Result is the computed arrangement for the determined next working day.
type Result struct {
	Arrangement    map[string]string
	NextWorkingDay string
	Reasoning      string
}

// Warning is a non-fatal diagnostic produced while analyzing the input, such
// as a history record with an unparsable date. Warnings never change the
// computed arrangement.
type Warning struct {
	Field   string
	Value   string
	Message string
}
