package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/seat-rotation/internal/application"
	"github.com/example/seat-rotation/internal/persistence"
)

var (
	groupCounter       uint64
	memberCounter      uint64
	arrangementCounter uint64
)

var referenceTime = time.Date(2025, time.February, 3, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
// It is a Monday so calendar-sensitive tests start from a working day.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- Group fixtures ----------------------------

// GroupFixture represents a deterministic rotation group record.
type GroupFixture struct {
	ID           string
	Name         string
	JoinCodeHash string
	Seats        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// GroupOption configures the generated group fixture.
type GroupOption func(*GroupFixture)

// NewGroupFixture returns a deterministic group fixture with optional overrides.
func NewGroupFixture(opts ...GroupOption) GroupFixture {
	idx := atomic.AddUint64(&groupCounter, 1)
	id := fmt.Sprintf("group-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := GroupFixture{
		ID:           id,
		Name:         fmt.Sprintf("Group %03d", idx),
		JoinCodeHash: fmt.Sprintf("hash-%03d", idx),
		Seats:        []string{"window", "middle", "door"},
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithGroupID overrides the generated group ID.
func WithGroupID(id string) GroupOption {
	return func(f *GroupFixture) {
		f.ID = id
	}
}

// WithGroupName overrides the generated group name.
func WithGroupName(name string) GroupOption {
	return func(f *GroupFixture) {
		f.Name = name
	}
}

// WithGroupJoinCodeHash overrides the stored join code hash.
func WithGroupJoinCodeHash(hash string) GroupOption {
	return func(f *GroupFixture) {
		f.JoinCodeHash = hash
	}
}

// WithGroupSeats replaces the ordered seat list.
func WithGroupSeats(seats ...string) GroupOption {
	return func(f *GroupFixture) {
		f.Seats = append([]string(nil), seats...)
	}
}

// WithGroupTimestamps sets both created and updated timestamps.
func WithGroupTimestamps(created, updated time.Time) GroupOption {
	return func(f *GroupFixture) {
		f.CreatedAt = created
		f.UpdatedAt = updated
	}
}

// Application returns the fixture as an application.Group value.
func (f GroupFixture) Application() application.Group {
	return application.Group{
		ID:        f.ID,
		Name:      f.Name,
		Seats:     append([]string(nil), f.Seats...),
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Persistence returns the fixture as a persistence.Group value.
func (f GroupFixture) Persistence() persistence.Group {
	return persistence.Group{
		ID:           f.ID,
		Name:         f.Name,
		JoinCodeHash: f.JoinCodeHash,
		Seats:        append([]string(nil), f.Seats...),
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// Input returns the fixture as an application.GroupInput with the supplied
// plain join code.
func (f GroupFixture) Input(joinCode string) application.GroupInput {
	return application.GroupInput{
		Name:     f.Name,
		JoinCode: joinCode,
		Seats:    append([]string(nil), f.Seats...),
	}
}

// ---------------------------- Member fixtures ----------------------------

// MemberFixture represents a deterministic group participant record.
type MemberFixture struct {
	GroupID     string
	ID          string
	DisplayName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MemberOption configures the generated member fixture.
type MemberOption func(*MemberFixture)

// NewMemberFixture returns a deterministic member fixture with optional overrides.
func NewMemberFixture(opts ...MemberOption) MemberFixture {
	idx := atomic.AddUint64(&memberCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Second)
	fixture := MemberFixture{
		GroupID:     "group-001",
		ID:          fmt.Sprintf("member-%03d", idx),
		DisplayName: fmt.Sprintf("Member %03d", idx),
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithMemberGroupID sets the owning group ID.
func WithMemberGroupID(groupID string) MemberOption {
	return func(f *MemberFixture) {
		f.GroupID = groupID
	}
}

// WithMemberID overrides the generated member ID.
func WithMemberID(id string) MemberOption {
	return func(f *MemberFixture) {
		f.ID = id
	}
}

// WithMemberDisplayName overrides the generated display name.
func WithMemberDisplayName(name string) MemberOption {
	return func(f *MemberFixture) {
		f.DisplayName = name
	}
}

// Application returns the fixture as an application.Member value.
func (f MemberFixture) Application() application.Member {
	return application.Member{
		GroupID:     f.GroupID,
		ID:          f.ID,
		DisplayName: f.DisplayName,
		JoinedAt:    f.CreatedAt,
	}
}

// Persistence returns the fixture as a persistence.Member value.
func (f MemberFixture) Persistence() persistence.Member {
	return persistence.Member{
		GroupID:     f.GroupID,
		ID:          f.ID,
		DisplayName: f.DisplayName,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// ------------------------- Arrangement fixtures --------------------------

// ArrangementFixture represents a deterministic committed arrangement record.
type ArrangementFixture struct {
	GroupID   string
	Date      string
	Seats     map[string]string
	Reasoning string
	CreatedAt time.Time
}

// ArrangementOption configures the generated arrangement fixture.
type ArrangementOption func(*ArrangementFixture)

// NewArrangementFixture returns a deterministic arrangement fixture with
// optional overrides. Successive fixtures land on successive weekdays
// starting from ReferenceTime.
func NewArrangementFixture(opts ...ArrangementOption) ArrangementFixture {
	idx := atomic.AddUint64(&arrangementCounter, 1)
	day := referenceTime.AddDate(0, 0, int(idx-1))
	for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		day = day.AddDate(0, 0, 1)
	}
	fixture := ArrangementFixture{
		GroupID: "group-001",
		Date:    day.Format("2006-01-02"),
		Seats: map[string]string{
			"window": "member-001",
			"middle": "member-002",
			"door":   "member-003",
		},
		Reasoning: "rotated from previous arrangement",
		CreatedAt: referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithArrangementGroupID sets the owning group ID.
func WithArrangementGroupID(groupID string) ArrangementOption {
	return func(f *ArrangementFixture) {
		f.GroupID = groupID
	}
}

// WithArrangementDate pins the arrangement to a specific ISO date.
func WithArrangementDate(date string) ArrangementOption {
	return func(f *ArrangementFixture) {
		f.Date = date
	}
}

// WithArrangementSeats replaces the seat assignment map.
func WithArrangementSeats(seats map[string]string) ArrangementOption {
	return func(f *ArrangementFixture) {
		copied := make(map[string]string, len(seats))
		for seat, member := range seats {
			copied[seat] = member
		}
		f.Seats = copied
	}
}

// WithArrangementReasoning sets the reasoning text.
func WithArrangementReasoning(reasoning string) ArrangementOption {
	return func(f *ArrangementFixture) {
		f.Reasoning = reasoning
	}
}

// Application returns the fixture as an application.Arrangement value.
func (f ArrangementFixture) Application() application.Arrangement {
	return application.Arrangement{
		GroupID:     f.GroupID,
		Date:        f.Date,
		Seats:       copySeatMap(f.Seats),
		Reasoning:   f.Reasoning,
		CommittedAt: f.CreatedAt,
	}
}

// Persistence returns the fixture as a persistence.ArrangementRecord value.
func (f ArrangementFixture) Persistence() persistence.ArrangementRecord {
	return persistence.ArrangementRecord{
		GroupID:   f.GroupID,
		Date:      f.Date,
		Seats:     copySeatMap(f.Seats),
		Reasoning: f.Reasoning,
		CreatedAt: f.CreatedAt,
	}
}

// ------------------------- Special event fixtures ------------------------

// SpecialEventFixture represents a deterministic special event annotation.
type SpecialEventFixture struct {
	GroupID     string
	Date        string
	Description string
}

// NewSpecialEventFixture returns a special event for the given group and date.
func NewSpecialEventFixture(groupID, date, description string) SpecialEventFixture {
	if description == "" {
		description = "team offsite"
	}
	return SpecialEventFixture{GroupID: groupID, Date: date, Description: description}
}

// Application returns the fixture as an application.SpecialEvent value.
func (f SpecialEventFixture) Application() application.SpecialEvent {
	return application.SpecialEvent{GroupID: f.GroupID, Date: f.Date, Description: f.Description}
}

// Persistence returns the fixture as a persistence.SpecialEvent value.
func (f SpecialEventFixture) Persistence() persistence.SpecialEvent {
	return persistence.SpecialEvent{GroupID: f.GroupID, Date: f.Date, Description: f.Description}
}

func copySeatMap(src map[string]string) map[string]string {
	if src == nil {
		return nil
	}
	copied := make(map[string]string, len(src))
	for seat, member := range src {
		copied[seat] = member
	}
	return copied
}
