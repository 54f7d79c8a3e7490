package persistence

import "context"

// GroupRepository exposes CRUD operations for rotation groups and their
// ordered seat lists.
type GroupRepository interface {
	CreateGroup(ctx context.Context, group Group) error
	UpdateGroup(ctx context.Context, group Group) error
	GetGroup(ctx context.Context, id string) (Group, error)
	ListGroups(ctx context.Context) ([]Group, error)
	DeleteGroup(ctx context.Context, id string) error
}

// MemberRepository stores group membership supplied by the external identity
// provider.
type MemberRepository interface {
	AddMember(ctx context.Context, member Member) error
	RemoveMember(ctx context.Context, groupID, memberID string) error
	ListMembers(ctx context.Context, groupID string) ([]Member, error)
}

// ArrangementRepository stores committed arrangement records. History is
// append-only: CreateArrangement must fail with ErrDuplicate when a record
// already exists for the (group, date) key, which is what makes
// compute-then-commit atomic for concurrent callers.
type ArrangementRepository interface {
	CreateArrangement(ctx context.Context, record ArrangementRecord) error
	GetArrangement(ctx context.Context, groupID, date string) (ArrangementRecord, error)
	ListArrangements(ctx context.Context, groupID string) ([]ArrangementRecord, error)
}

// CalendarRepository stores the non-working-day set and special-event map for
// a group.
type CalendarRepository interface {
	ReplaceNonWorkingDays(ctx context.Context, groupID string, dates []string) error
	ListNonWorkingDays(ctx context.Context, groupID string) ([]string, error)
	UpsertSpecialEvent(ctx context.Context, event SpecialEvent) error
	DeleteSpecialEvent(ctx context.Context, groupID, date string) error
	ListSpecialEvents(ctx context.Context, groupID string) ([]SpecialEvent, error)
}
