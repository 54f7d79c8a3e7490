package application

import "time"

// GroupInput captures caller provided group fields.
type GroupInput struct {
	Name     string
	JoinCode string
	Seats    []string
}

// Group represents a rotation group exposed by the application services.
type Group struct {
	ID        string
	Name      string
	Seats     []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateGroupParams wraps the data required to create a group.
type CreateGroupParams struct {
	Input GroupInput
}

// UpdateGroupParams wraps the data required to update an existing group.
type UpdateGroupParams struct {
	GroupID string
	Input   GroupInput
}

// JoinGroupParams wraps the data required to join a group by code.
type JoinGroupParams struct {
	GroupID     string
	JoinCode    string
	MemberID    string
	DisplayName string
}

// MemberInput captures caller provided member fields.
type MemberInput struct {
	ID          string
	DisplayName string
}

// Member represents a group participant.
type Member struct {
	GroupID     string
	ID          string
	DisplayName string
	JoinedAt    time.Time
}

// AddMemberParams wraps the data required to enroll a member.
type AddMemberParams struct {
	GroupID string
	Input   MemberInput
}

// SpecialEvent annotates a date with free-form context. Events never change
// seat assignments.
type SpecialEvent struct {
	GroupID     string
	Date        string
	Description string
}

// SetSpecialEventParams wraps the data required to record a special event.
type SetSpecialEventParams struct {
	GroupID     string
	Date        string
	Description string
}

// RotationPlan is a computed but uncommitted arrangement proposal.
type RotationPlan struct {
	GroupID   string
	Date      string
	Seats     map[string]string
	Reasoning string
	Warnings  []PlanWarning
}

// PlanWarning surfaces a non-fatal data problem encountered while planning.
type PlanWarning struct {
	Field   string
	Value   string
	Message string
}

// Arrangement represents a committed arrangement record.
type Arrangement struct {
	GroupID     string
	Date        string
	Seats       map[string]string
	Reasoning   string
	CommittedAt time.Time
}

// CommitRotationParams wraps the data required to commit a planned rotation.
// Date is optional; when set, the commit fails unless the freshly computed
// plan still targets that date.
type CommitRotationParams struct {
	GroupID string
	Date    string
}

// FairnessStats summarizes how often each participant occupied each seat.
type FairnessStats struct {
	GroupID string
	// Occupancy maps participant ID to seat name to count.
	Occupancy map[string]map[string]int
	// Totals maps participant ID to the total number of recorded assignments.
	Totals map[string]int
	// Records is the number of history records the counts were derived from.
	Records int
}
