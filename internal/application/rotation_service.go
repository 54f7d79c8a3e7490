package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/seat-rotation/internal/persistence"
	"github.com/example/seat-rotation/internal/rotation"
)

// RotationService plans and commits seat rotations. Planning is a pure read;
// committing appends to the arrangement history and relies on the
// repository's (group, date) uniqueness to stay atomic under concurrent
// callers.
type RotationService struct {
	groups       persistence.GroupRepository
	members      persistence.MemberRepository
	arrangements persistence.ArrangementRepository
	calendar     persistence.CalendarRepository
	now          func() time.Time
	logger       *slog.Logger
	plans        *planCache
}

// NewRotationService wires dependencies for the rotation service.
func NewRotationService(
	groups persistence.GroupRepository,
	members persistence.MemberRepository,
	arrangements persistence.ArrangementRepository,
	cal persistence.CalendarRepository,
	now func() time.Time,
	logger *slog.Logger,
	planTTL time.Duration,
) *RotationService {
	if now == nil {
		now = time.Now
	}
	return &RotationService{
		groups:       groups,
		members:      members,
		arrangements: arrangements,
		calendar:     cal,
		now:          now,
		logger:       defaultLogger(logger),
		plans:        newPlanCache(planTTL, 0, now),
	}
}

func (s *RotationService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RotationService", operation, attrs...)
}

// InvalidatePlan drops any cached plan for the group. Write paths that change
// the inputs of a plan call this so stale proposals never outlive the data
// they were computed from.
func (s *RotationService) InvalidatePlan(groupID string) {
	if s == nil {
		return
	}
	s.plans.Invalidate(groupID)
}

// PlanRotation computes the arrangement proposal for the group's next working
// day without committing it.
func (s *RotationService) PlanRotation(ctx context.Context, groupID string) (plan RotationPlan, err error) {
	if s == nil {
		err = fmt.Errorf("RotationService is nil")
		return
	}

	logger := s.loggerWith(ctx, "PlanRotation", "group_id", groupID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to plan rotation", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("date", plan.Date, "warnings", len(plan.Warnings)).InfoContext(ctx, "rotation planned")
	}()

	if cached, ok := s.plans.Get(groupID); ok {
		plan = cached
		return
	}

	plan, err = s.computePlan(ctx, groupID)
	if err != nil {
		return
	}

	s.plans.Store(groupID, plan)
	return
}

// CommitRotation recomputes the plan and appends it to the arrangement
// history. When two callers commit concurrently only one insert succeeds; the
// other receives ErrAlreadyExists and can re-read the committed record.
func (s *RotationService) CommitRotation(ctx context.Context, params CommitRotationParams) (arrangement Arrangement, err error) {
	if s == nil {
		err = fmt.Errorf("RotationService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CommitRotation", "group_id", params.GroupID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to commit rotation", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("date", arrangement.Date).InfoContext(ctx, "rotation committed")
	}()

	var plan RotationPlan
	plan, err = s.computePlan(ctx, params.GroupID)
	if err != nil {
		return
	}

	if params.Date != "" && params.Date != plan.Date {
		vErr := &ValidationError{}
		vErr.add("date", fmt.Sprintf("the plan now targets %s, not %s", plan.Date, params.Date))
		err = vErr
		return
	}

	record := persistence.ArrangementRecord{
		GroupID:   params.GroupID,
		Date:      plan.Date,
		Seats:     plan.Seats,
		Reasoning: plan.Reasoning,
		CreatedAt: s.now(),
	}
	if err = s.arrangements.CreateArrangement(ctx, record); err != nil {
		err = mapRepoError(err)
		return
	}

	s.plans.Invalidate(params.GroupID)

	arrangement = Arrangement{
		GroupID:     record.GroupID,
		Date:        record.Date,
		Seats:       record.Seats,
		Reasoning:   record.Reasoning,
		CommittedAt: record.CreatedAt,
	}
	return
}

// GetArrangement returns the committed arrangement for one date.
func (s *RotationService) GetArrangement(ctx context.Context, groupID, date string) (Arrangement, error) {
	if s == nil {
		return Arrangement{}, fmt.Errorf("RotationService is nil")
	}

	record, err := s.arrangements.GetArrangement(ctx, groupID, date)
	if err != nil {
		return Arrangement{}, mapRepoError(err)
	}
	return toArrangement(record), nil
}

// ListArrangements returns the group's committed history in date order.
func (s *RotationService) ListArrangements(ctx context.Context, groupID string) ([]Arrangement, error) {
	if s == nil {
		return nil, fmt.Errorf("RotationService is nil")
	}

	if _, err := s.groups.GetGroup(ctx, groupID); err != nil {
		return nil, mapRepoError(err)
	}

	records, err := s.arrangements.ListArrangements(ctx, groupID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	arrangements := make([]Arrangement, len(records))
	for i, record := range records {
		arrangements[i] = toArrangement(record)
	}
	return arrangements, nil
}

// FairnessStats tallies seat occupancy per participant over the full history.
func (s *RotationService) FairnessStats(ctx context.Context, groupID string) (FairnessStats, error) {
	if s == nil {
		return FairnessStats{}, fmt.Errorf("RotationService is nil")
	}

	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return FairnessStats{}, mapRepoError(err)
	}

	members, err := s.members.ListMembers(ctx, groupID)
	if err != nil {
		return FairnessStats{}, mapRepoError(err)
	}

	records, err := s.arrangements.ListArrangements(ctx, groupID)
	if err != nil {
		return FairnessStats{}, mapRepoError(err)
	}

	history := make([]rotation.Record, len(records))
	for i, record := range records {
		history[i] = rotation.Record{Date: record.Date, Seats: record.Seats}
	}

	occupancy := rotation.OccupancyCounts(history, toParticipants(members), group.Seats)

	totals := make(map[string]int, len(occupancy))
	for participantID, row := range occupancy {
		total := 0
		for _, count := range row {
			total += count
		}
		totals[participantID] = total
	}

	return FairnessStats{
		GroupID:   groupID,
		Occupancy: occupancy,
		Totals:    totals,
		Records:   len(records),
	}, nil
}

// computePlan loads the group's current state and runs the rotation core.
func (s *RotationService) computePlan(ctx context.Context, groupID string) (RotationPlan, error) {
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return RotationPlan{}, mapRepoError(err)
	}

	members, err := s.members.ListMembers(ctx, groupID)
	if err != nil {
		return RotationPlan{}, mapRepoError(err)
	}

	records, err := s.arrangements.ListArrangements(ctx, groupID)
	if err != nil {
		return RotationPlan{}, mapRepoError(err)
	}

	nonWorkingDays, err := s.calendar.ListNonWorkingDays(ctx, groupID)
	if err != nil {
		return RotationPlan{}, mapRepoError(err)
	}

	events, err := s.calendar.ListSpecialEvents(ctx, groupID)
	if err != nil {
		return RotationPlan{}, mapRepoError(err)
	}
	specialEvents := make(map[string]string, len(events))
	for _, event := range events {
		specialEvents[event.Date] = event.Description
	}

	history := make([]rotation.Record, len(records))
	for i, record := range records {
		history[i] = rotation.Record{Date: record.Date, Seats: record.Seats}
	}

	input := rotation.Input{
		Participants:   toParticipants(members),
		Seats:          group.Seats,
		History:        history,
		NonWorkingDays: nonWorkingDays,
		SpecialEvents:  specialEvents,
		Today:          s.now(),
	}

	result, warnings, err := rotation.ComputeNextArrangement(input)
	if err != nil {
		return RotationPlan{}, mapRotationError(err, len(members), len(group.Seats))
	}

	planWarnings := make([]PlanWarning, len(warnings))
	for i, warning := range warnings {
		planWarnings[i] = PlanWarning{
			Field:   warning.Field,
			Value:   warning.Value,
			Message: warning.Message,
		}
	}

	return RotationPlan{
		GroupID:   groupID,
		Date:      result.NextWorkingDay,
		Seats:     result.Arrangement,
		Reasoning: result.Reasoning,
		Warnings:  planWarnings,
	}, nil
}

// mapRotationError converts configuration-shaped core errors into validation
// errors; anything else passes through unchanged.
func mapRotationError(err error, memberCount, seatCount int) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, rotation.ErrNoSeats):
		vErr := &ValidationError{}
		vErr.add("seats", "the group has no seats configured")
		return vErr
	case errors.Is(err, rotation.ErrParticipantCountMismatch):
		vErr := &ValidationError{}
		vErr.add("participants", fmt.Sprintf("the group has %d members for %d seats; counts must match", memberCount, seatCount))
		return vErr
	}
	return err
}

func toParticipants(members []persistence.Member) []rotation.Participant {
	participants := make([]rotation.Participant, len(members))
	for i, member := range members {
		participants[i] = rotation.Participant{ID: member.ID, DisplayName: member.DisplayName}
	}
	return participants
}

func toArrangement(record persistence.ArrangementRecord) Arrangement {
	seats := make(map[string]string, len(record.Seats))
	for seat, participant := range record.Seats {
		seats[seat] = participant
	}
	return Arrangement{
		GroupID:     record.GroupID,
		Date:        record.Date,
		Seats:       seats,
		Reasoning:   record.Reasoning,
		CommittedAt: record.CreatedAt,
	}
}
