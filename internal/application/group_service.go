package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/seat-rotation/internal/persistence"
)

// GroupService orchestrates validation and persistence for rotation groups
// and their membership.
type GroupService struct {
	groups      persistence.GroupRepository
	members     persistence.MemberRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewGroupService wires dependencies for the group service.
func NewGroupService(groups persistence.GroupRepository, members persistence.MemberRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *GroupService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &GroupService{
		groups:      groups,
		members:     members,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *GroupService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "GroupService", operation, attrs...)
}

// CreateGroup validates input and persists a new group with a hashed join code.
func (s *GroupService) CreateGroup(ctx context.Context, params CreateGroupParams) (group Group, err error) {
	if s == nil {
		err = fmt.Errorf("GroupService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateGroup")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create group", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("group_id", group.ID).InfoContext(ctx, "group created")
	}()

	normalized := normalizeGroupInput(params.Input)
	vErr := validateGroupInput(normalized, true)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	var hash string
	hash, err = HashJoinCode(normalized.JoinCode, DefaultArgon2idParams)
	if err != nil {
		return
	}

	record := persistence.Group{
		ID:           s.idGenerator(),
		Name:         normalized.Name,
		JoinCodeHash: hash,
		Seats:        normalized.Seats,
		CreatedAt:    s.now(),
	}
	record.UpdatedAt = record.CreatedAt

	if err = s.groups.CreateGroup(ctx, record); err != nil {
		err = mapRepoError(err)
		return
	}

	group = toGroup(record)
	return
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (Group, error) {
	if s == nil {
		return Group{}, fmt.Errorf("GroupService is nil")
	}

	record, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return Group{}, mapRepoError(err)
	}

	return toGroup(record), nil
}

// ListGroups returns all groups.
func (s *GroupService) ListGroups(ctx context.Context) ([]Group, error) {
	if s == nil {
		return nil, fmt.Errorf("GroupService is nil")
	}

	records, err := s.groups.ListGroups(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}

	groups := make([]Group, len(records))
	for i, record := range records {
		groups[i] = toGroup(record)
	}

	return groups, nil
}

// UpdateGroup validates input and updates a group's name, join code, and seat
// list. An empty join code keeps the existing one.
func (s *GroupService) UpdateGroup(ctx context.Context, params UpdateGroupParams) (group Group, err error) {
	if s == nil {
		err = fmt.Errorf("GroupService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateGroup", "group_id", params.GroupID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update group", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "group updated")
	}()

	var existing persistence.Group
	existing, err = s.groups.GetGroup(ctx, params.GroupID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	normalized := normalizeGroupInput(params.Input)
	vErr := validateGroupInput(normalized, normalized.JoinCode != "")
	if vErr.HasErrors() {
		err = vErr
		return
	}

	updated := existing
	updated.Name = normalized.Name
	updated.Seats = normalized.Seats
	updated.UpdatedAt = s.now()
	if normalized.JoinCode != "" {
		if updated.JoinCodeHash, err = HashJoinCode(normalized.JoinCode, DefaultArgon2idParams); err != nil {
			return
		}
	}

	if err = s.groups.UpdateGroup(ctx, updated); err != nil {
		err = mapRepoError(err)
		return
	}

	group = toGroup(updated)
	return
}

// DeleteGroup removes a group and, through cascade, its members, calendar
// entries, and arrangement history.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID string) (err error) {
	if s == nil {
		return fmt.Errorf("GroupService is nil")
	}

	logger := s.loggerWith(ctx, "DeleteGroup", "group_id", groupID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete group", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "group deleted")
	}()

	if err = s.groups.DeleteGroup(ctx, groupID); err != nil {
		err = mapRepoError(err)
	}
	return
}

// JoinGroup verifies the presented join code and enrolls the caller as a
// member of the group.
func (s *GroupService) JoinGroup(ctx context.Context, params JoinGroupParams) (member Member, err error) {
	if s == nil {
		err = fmt.Errorf("GroupService is nil")
		return
	}

	logger := s.loggerWith(ctx, "JoinGroup", "group_id", params.GroupID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to join group", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("member_id", member.ID).InfoContext(ctx, "member joined group")
	}()

	displayName := strings.TrimSpace(params.DisplayName)
	vErr := &ValidationError{}
	if strings.TrimSpace(params.JoinCode) == "" {
		vErr.add("join_code", "join code is required")
	}
	if displayName == "" {
		vErr.add("display_name", "display name is required")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	var group persistence.Group
	group, err = s.groups.GetGroup(ctx, params.GroupID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	if err = VerifyJoinCode(group.JoinCodeHash, strings.TrimSpace(params.JoinCode)); err != nil {
		if !errors.Is(err, ErrInvalidJoinCode) {
			err = fmt.Errorf("verify join code: %w", err)
		}
		return
	}

	memberID := strings.TrimSpace(params.MemberID)
	if memberID == "" {
		memberID = s.idGenerator()
	}

	record := persistence.Member{
		GroupID:     params.GroupID,
		ID:          memberID,
		DisplayName: displayName,
		CreatedAt:   s.now(),
	}
	if err = s.members.AddMember(ctx, record); err != nil {
		err = mapRepoError(err)
		return
	}

	member = toMember(record)
	return
}

// AddMember enrolls a participant without a join code check. Intended for
// group administration tooling rather than the self-service join flow.
func (s *GroupService) AddMember(ctx context.Context, params AddMemberParams) (member Member, err error) {
	if s == nil {
		err = fmt.Errorf("GroupService is nil")
		return
	}

	logger := s.loggerWith(ctx, "AddMember", "group_id", params.GroupID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to add member", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("member_id", member.ID).InfoContext(ctx, "member added")
	}()

	displayName := strings.TrimSpace(params.Input.DisplayName)
	if displayName == "" {
		vErr := &ValidationError{}
		vErr.add("display_name", "display name is required")
		err = vErr
		return
	}

	if _, err = s.groups.GetGroup(ctx, params.GroupID); err != nil {
		err = mapRepoError(err)
		return
	}

	memberID := strings.TrimSpace(params.Input.ID)
	if memberID == "" {
		memberID = s.idGenerator()
	}

	record := persistence.Member{
		GroupID:     params.GroupID,
		ID:          memberID,
		DisplayName: displayName,
		CreatedAt:   s.now(),
	}
	if err = s.members.AddMember(ctx, record); err != nil {
		err = mapRepoError(err)
		return
	}

	member = toMember(record)
	return
}

// RemoveMember removes a participant from a group. Committed history keeps
// referring to the removed participant by ID.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, memberID string) (err error) {
	if s == nil {
		return fmt.Errorf("GroupService is nil")
	}

	logger := s.loggerWith(ctx, "RemoveMember", "group_id", groupID, "member_id", memberID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to remove member", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "member removed")
	}()

	if err = s.members.RemoveMember(ctx, groupID, memberID); err != nil {
		err = mapRepoError(err)
	}
	return
}

// ListMembers returns a group's members in join order.
func (s *GroupService) ListMembers(ctx context.Context, groupID string) ([]Member, error) {
	if s == nil {
		return nil, fmt.Errorf("GroupService is nil")
	}

	if _, err := s.groups.GetGroup(ctx, groupID); err != nil {
		return nil, mapRepoError(err)
	}

	records, err := s.members.ListMembers(ctx, groupID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	members := make([]Member, len(records))
	for i, record := range records {
		members[i] = toMember(record)
	}

	return members, nil
}

func normalizeGroupInput(input GroupInput) GroupInput {
	seats := make([]string, 0, len(input.Seats))
	for _, seat := range input.Seats {
		seats = append(seats, strings.TrimSpace(seat))
	}

	return GroupInput{
		Name:     strings.TrimSpace(input.Name),
		JoinCode: strings.TrimSpace(input.JoinCode),
		Seats:    seats,
	}
}

func validateGroupInput(input GroupInput, requireJoinCode bool) *ValidationError {
	vErr := &ValidationError{}

	if input.Name == "" {
		vErr.add("name", "name is required")
	}
	if requireJoinCode && len(input.JoinCode) < 4 {
		vErr.add("join_code", "join code must be at least 4 characters")
	}

	if len(input.Seats) == 0 {
		vErr.add("seats", "at least one seat is required")
	}
	seen := make(map[string]struct{}, len(input.Seats))
	for _, seat := range input.Seats {
		if seat == "" {
			vErr.add("seats", "seat names must not be empty")
			break
		}
		if _, ok := seen[seat]; ok {
			vErr.add("seats", fmt.Sprintf("seat name %q appears more than once", seat))
			break
		}
		seen[seat] = struct{}{}
	}

	return vErr
}

// mapRepoError translates persistence sentinel errors into application ones.
func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return ErrAlreadyExists
	}
	return err
}

func toGroup(record persistence.Group) Group {
	seats := make([]string, len(record.Seats))
	copy(seats, record.Seats)
	return Group{
		ID:        record.ID,
		Name:      record.Name,
		Seats:     seats,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func toMember(record persistence.Member) Member {
	return Member{
		GroupID:     record.GroupID,
		ID:          record.ID,
		DisplayName: record.DisplayName,
		JoinedAt:    record.CreatedAt,
	}
}
