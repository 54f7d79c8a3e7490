package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/seat-rotation/internal/persistence"
)

type groupRepoStub struct {
	createErr error
	created   persistence.Group

	getGroup persistence.Group
	getErr   error

	updateErr error
	updated   persistence.Group

	deleteErr error
	deletedID string

	list    []persistence.Group
	listErr error
}

func (r *groupRepoStub) CreateGroup(ctx context.Context, group persistence.Group) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = group
	return nil
}

func (r *groupRepoStub) UpdateGroup(ctx context.Context, group persistence.Group) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updated = group
	return nil
}

func (r *groupRepoStub) GetGroup(ctx context.Context, id string) (persistence.Group, error) {
	if r.getErr != nil {
		return persistence.Group{}, r.getErr
	}
	if r.getGroup.ID == "" {
		return persistence.Group{}, persistence.ErrNotFound
	}
	return r.getGroup, nil
}

func (r *groupRepoStub) ListGroups(ctx context.Context) ([]persistence.Group, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]persistence.Group, len(r.list))
	copy(out, r.list)
	return out, nil
}

func (r *groupRepoStub) DeleteGroup(ctx context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deletedID = id
	return nil
}

type memberRepoStub struct {
	addErr error
	added  []persistence.Member

	removeErr error
	removed   []string

	list    []persistence.Member
	listErr error
}

func (r *memberRepoStub) AddMember(ctx context.Context, member persistence.Member) error {
	if r.addErr != nil {
		return r.addErr
	}
	r.added = append(r.added, member)
	return nil
}

func (r *memberRepoStub) RemoveMember(ctx context.Context, groupID, memberID string) error {
	if r.removeErr != nil {
		return r.removeErr
	}
	r.removed = append(r.removed, memberID)
	return nil
}

func (r *memberRepoStub) ListMembers(ctx context.Context, groupID string) ([]persistence.Member, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]persistence.Member, len(r.list))
	copy(out, r.list)
	return out, nil
}

func testGroupWithCode(t *testing.T, code string) persistence.Group {
	t.Helper()

	hash, err := HashJoinCode(code, DefaultArgon2idParams)
	if err != nil {
		t.Fatalf("failed to hash join code: %v", err)
	}
	return persistence.Group{
		ID:           "group-1",
		Name:         "Standup",
		JoinCodeHash: hash,
		Seats:        []string{"Window", "Middle", "Aisle"},
	}
}

func TestGroupService_CreateGroup(t *testing.T) {
	t.Run("validates required attributes", func(t *testing.T) {
		svc := NewGroupService(&groupRepoStub{}, &memberRepoStub{}, nil, nil, nil)

		_, err := svc.CreateGroup(context.Background(), CreateGroupParams{
			Input: GroupInput{Name: "   ", JoinCode: "ab", Seats: nil},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"name", "join_code", "seats"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Fatalf("expected %s validation error, got %v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("rejects duplicate seat names", func(t *testing.T) {
		svc := NewGroupService(&groupRepoStub{}, &memberRepoStub{}, nil, nil, nil)

		_, err := svc.CreateGroup(context.Background(), CreateGroupParams{
			Input: GroupInput{Name: "Standup", JoinCode: "secret", Seats: []string{"Window", " Window "}},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["seats"]; !ok {
			t.Fatalf("expected seats validation error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("persists the group with a hashed join code", func(t *testing.T) {
		repo := &groupRepoStub{}
		now := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
		svc := NewGroupService(repo, &memberRepoStub{}, func() string { return "group-1" }, func() time.Time { return now }, nil)

		created, err := svc.CreateGroup(context.Background(), CreateGroupParams{
			Input: GroupInput{Name: "  Standup ", JoinCode: "secret", Seats: []string{" Window ", "Middle"}},
		})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}

		if repo.created.ID != "group-1" {
			t.Fatalf("expected repository to receive generated ID, got %q", repo.created.ID)
		}
		if repo.created.Name != "Standup" {
			t.Fatalf("expected name to be trimmed, got %q", repo.created.Name)
		}
		if len(repo.created.Seats) != 2 || repo.created.Seats[0] != "Window" {
			t.Fatalf("expected trimmed seats in order, got %v", repo.created.Seats)
		}
		if repo.created.JoinCodeHash == "" || repo.created.JoinCodeHash == "secret" {
			t.Fatalf("expected join code to be hashed, got %q", repo.created.JoinCodeHash)
		}
		if err := VerifyJoinCode(repo.created.JoinCodeHash, "secret"); err != nil {
			t.Fatalf("expected stored hash to verify the join code, got %v", err)
		}
		if !repo.created.CreatedAt.Equal(now) {
			t.Fatalf("expected timestamps to use injected clock, got %v", repo.created.CreatedAt)
		}
		if created.ID != "group-1" {
			t.Fatalf("expected returned group to include generated ID, got %q", created.ID)
		}
	})

	t.Run("maps repository errors to sentinel failures", func(t *testing.T) {
		repo := &groupRepoStub{createErr: persistence.ErrDuplicate}
		svc := NewGroupService(repo, &memberRepoStub{}, nil, nil, nil)

		_, err := svc.CreateGroup(context.Background(), CreateGroupParams{
			Input: GroupInput{Name: "Standup", JoinCode: "secret", Seats: []string{"Window"}},
		})
		if !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func TestGroupService_UpdateGroup(t *testing.T) {
	t.Run("propagates ErrNotFound when the group is missing", func(t *testing.T) {
		repo := &groupRepoStub{getErr: persistence.ErrNotFound}
		svc := NewGroupService(repo, &memberRepoStub{}, nil, nil, nil)

		_, err := svc.UpdateGroup(context.Background(), UpdateGroupParams{
			GroupID: "missing",
			Input:   GroupInput{Name: "Standup", Seats: []string{"Window"}},
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("keeps the existing join code when none is supplied", func(t *testing.T) {
		existing := testGroupWithCode(t, "secret")
		repo := &groupRepoStub{getGroup: existing}
		svc := NewGroupService(repo, &memberRepoStub{}, nil, nil, nil)

		_, err := svc.UpdateGroup(context.Background(), UpdateGroupParams{
			GroupID: "group-1",
			Input:   GroupInput{Name: "Renamed", Seats: []string{"Front", "Back"}},
		})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}

		if repo.updated.JoinCodeHash != existing.JoinCodeHash {
			t.Fatalf("expected join code hash to be preserved")
		}
		if repo.updated.Name != "Renamed" {
			t.Fatalf("expected name to be updated, got %q", repo.updated.Name)
		}
	})

	t.Run("rehashes a newly supplied join code", func(t *testing.T) {
		existing := testGroupWithCode(t, "secret")
		repo := &groupRepoStub{getGroup: existing}
		svc := NewGroupService(repo, &memberRepoStub{}, nil, nil, nil)

		_, err := svc.UpdateGroup(context.Background(), UpdateGroupParams{
			GroupID: "group-1",
			Input:   GroupInput{Name: "Standup", JoinCode: "changed", Seats: []string{"Window"}},
		})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}

		if err := VerifyJoinCode(repo.updated.JoinCodeHash, "changed"); err != nil {
			t.Fatalf("expected updated hash to verify the new code, got %v", err)
		}
	})
}

func TestGroupService_JoinGroup(t *testing.T) {
	t.Run("validates required attributes", func(t *testing.T) {
		svc := NewGroupService(&groupRepoStub{}, &memberRepoStub{}, nil, nil, nil)

		_, err := svc.JoinGroup(context.Background(), JoinGroupParams{GroupID: "group-1"})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["join_code"]; !ok {
			t.Fatalf("expected join_code validation error, got %v", vErr.FieldErrors)
		}
		if _, ok := vErr.FieldErrors["display_name"]; !ok {
			t.Fatalf("expected display_name validation error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("rejects a wrong join code", func(t *testing.T) {
		repo := &groupRepoStub{getGroup: testGroupWithCode(t, "secret")}
		members := &memberRepoStub{}
		svc := NewGroupService(repo, members, nil, nil, nil)

		_, err := svc.JoinGroup(context.Background(), JoinGroupParams{
			GroupID:     "group-1",
			JoinCode:    "wrong",
			DisplayName: "Alice",
		})
		if !errors.Is(err, ErrInvalidJoinCode) {
			t.Fatalf("expected ErrInvalidJoinCode, got %v", err)
		}
		if len(members.added) != 0 {
			t.Fatalf("expected no member to be enrolled, got %v", members.added)
		}
	})

	t.Run("enrolls the caller on a correct join code", func(t *testing.T) {
		repo := &groupRepoStub{getGroup: testGroupWithCode(t, "secret")}
		members := &memberRepoStub{}
		now := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
		svc := NewGroupService(repo, members, func() string { return "member-1" }, func() time.Time { return now }, nil)

		member, err := svc.JoinGroup(context.Background(), JoinGroupParams{
			GroupID:     "group-1",
			JoinCode:    " secret ",
			DisplayName: "  Alice ",
		})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}

		if len(members.added) != 1 {
			t.Fatalf("expected one enrollment, got %d", len(members.added))
		}
		if members.added[0].ID != "member-1" || members.added[0].DisplayName != "Alice" {
			t.Fatalf("expected trimmed member with generated ID, got %+v", members.added[0])
		}
		if member.GroupID != "group-1" || !member.JoinedAt.Equal(now) {
			t.Fatalf("expected returned member to carry group and join time, got %+v", member)
		}
	})

	t.Run("maps duplicate enrollment to ErrAlreadyExists", func(t *testing.T) {
		repo := &groupRepoStub{getGroup: testGroupWithCode(t, "secret")}
		members := &memberRepoStub{addErr: persistence.ErrDuplicate}
		svc := NewGroupService(repo, members, nil, nil, nil)

		_, err := svc.JoinGroup(context.Background(), JoinGroupParams{
			GroupID:     "group-1",
			JoinCode:    "secret",
			MemberID:    "member-1",
			DisplayName: "Alice",
		})
		if !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func TestGroupService_RemoveMember(t *testing.T) {
	t.Run("propagates ErrNotFound for unknown members", func(t *testing.T) {
		members := &memberRepoStub{removeErr: persistence.ErrNotFound}
		svc := NewGroupService(&groupRepoStub{}, members, nil, nil, nil)

		err := svc.RemoveMember(context.Background(), "group-1", "missing")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("removes an existing member", func(t *testing.T) {
		members := &memberRepoStub{}
		svc := NewGroupService(&groupRepoStub{}, members, nil, nil, nil)

		if err := svc.RemoveMember(context.Background(), "group-1", "member-1"); err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if len(members.removed) != 1 || members.removed[0] != "member-1" {
			t.Fatalf("expected repository to receive member ID, got %v", members.removed)
		}
	})
}

func TestGroupService_ListMembers(t *testing.T) {
	repo := &groupRepoStub{getGroup: testGroupWithCode(t, "secret")}
	members := &memberRepoStub{list: []persistence.Member{
		{GroupID: "group-1", ID: "alice", DisplayName: "Alice"},
		{GroupID: "group-1", ID: "bob", DisplayName: "Bob"},
	}}
	svc := NewGroupService(repo, members, nil, nil, nil)

	got, err := svc.ListMembers(context.Background(), "group-1")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(got) != 2 || got[0].ID != "alice" || got[1].ID != "bob" {
		t.Fatalf("expected members in repository order, got %v", got)
	}
}
