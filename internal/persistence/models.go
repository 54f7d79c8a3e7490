package persistence

import "time"

// Group represents a rotation group: a named set of members sharing an
// ordered seat list.
type Group struct {
	ID           string
	Name         string
	JoinCodeHash string
	Seats        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Member represents a participant enrolled in a group. The ID is the stable
// identifier issued by the external identity provider.
type Member struct {
	GroupID     string
	ID          string
	DisplayName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ArrangementRecord stores one committed seating arrangement keyed by the
// calendar date it applies to.
type ArrangementRecord struct {
	GroupID   string
	Date      string
	Seats     map[string]string
	Reasoning string
	CreatedAt time.Time
}

// SpecialEvent annotates a calendar date with a free-text description.
type SpecialEvent struct {
	GroupID     string
	Date        string
	Description string
}
