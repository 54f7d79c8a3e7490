package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/example/seat-rotation/internal/calendar"
	"github.com/example/seat-rotation/internal/persistence"
)

// CalendarService manages a group's non-working-day set and special events.
type CalendarService struct {
	groups   persistence.GroupRepository
	calendar persistence.CalendarRepository
	logger   *slog.Logger
}

// NewCalendarService wires dependencies for the calendar service.
func NewCalendarService(groups persistence.GroupRepository, cal persistence.CalendarRepository, logger *slog.Logger) *CalendarService {
	return &CalendarService{groups: groups, calendar: cal, logger: defaultLogger(logger)}
}

func (s *CalendarService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CalendarService", operation, attrs...)
}

// ReplaceNonWorkingDays validates and stores the group's entire
// non-working-day set, replacing the previous one.
func (s *CalendarService) ReplaceNonWorkingDays(ctx context.Context, groupID string, dates []string) (err error) {
	if s == nil {
		return fmt.Errorf("CalendarService is nil")
	}

	logger := s.loggerWith(ctx, "ReplaceNonWorkingDays", "group_id", groupID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to replace non-working days", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("count", len(dates)).InfoContext(ctx, "non-working days replaced")
	}()

	if _, err = s.groups.GetGroup(ctx, groupID); err != nil {
		err = mapRepoError(err)
		return
	}

	normalized, vErr := normalizeDateSet(dates)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if err = s.calendar.ReplaceNonWorkingDays(ctx, groupID, normalized); err != nil {
		err = mapRepoError(err)
	}
	return
}

// ListNonWorkingDays returns the group's non-working days in date order.
func (s *CalendarService) ListNonWorkingDays(ctx context.Context, groupID string) ([]string, error) {
	if s == nil {
		return nil, fmt.Errorf("CalendarService is nil")
	}

	if _, err := s.groups.GetGroup(ctx, groupID); err != nil {
		return nil, mapRepoError(err)
	}

	dates, err := s.calendar.ListNonWorkingDays(ctx, groupID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return dates, nil
}

// SetSpecialEvent records or replaces the free-form annotation for a date.
func (s *CalendarService) SetSpecialEvent(ctx context.Context, params SetSpecialEventParams) (err error) {
	if s == nil {
		return fmt.Errorf("CalendarService is nil")
	}

	logger := s.loggerWith(ctx, "SetSpecialEvent", "group_id", params.GroupID, "date", params.Date)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to set special event", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "special event set")
	}()

	description := strings.TrimSpace(params.Description)
	vErr := &ValidationError{}
	if _, parseErr := calendar.ParseDate(params.Date); parseErr != nil {
		vErr.add("date", "date must use the YYYY-MM-DD format")
	}
	if description == "" {
		vErr.add("description", "description is required")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if _, err = s.groups.GetGroup(ctx, params.GroupID); err != nil {
		err = mapRepoError(err)
		return
	}

	event := persistence.SpecialEvent{
		GroupID:     params.GroupID,
		Date:        params.Date,
		Description: description,
	}
	if err = s.calendar.UpsertSpecialEvent(ctx, event); err != nil {
		err = mapRepoError(err)
	}
	return
}

// DeleteSpecialEvent removes the annotation for a date.
func (s *CalendarService) DeleteSpecialEvent(ctx context.Context, groupID, date string) (err error) {
	if s == nil {
		return fmt.Errorf("CalendarService is nil")
	}

	logger := s.loggerWith(ctx, "DeleteSpecialEvent", "group_id", groupID, "date", date)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete special event", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "special event deleted")
	}()

	if err = s.calendar.DeleteSpecialEvent(ctx, groupID, date); err != nil {
		err = mapRepoError(err)
	}
	return
}

// ListSpecialEvents returns the group's special events in date order.
func (s *CalendarService) ListSpecialEvents(ctx context.Context, groupID string) ([]SpecialEvent, error) {
	if s == nil {
		return nil, fmt.Errorf("CalendarService is nil")
	}

	if _, err := s.groups.GetGroup(ctx, groupID); err != nil {
		return nil, mapRepoError(err)
	}

	records, err := s.calendar.ListSpecialEvents(ctx, groupID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	events := make([]SpecialEvent, len(records))
	for i, record := range records {
		events[i] = SpecialEvent{
			GroupID:     record.GroupID,
			Date:        record.Date,
			Description: record.Description,
		}
	}
	return events, nil
}

// normalizeDateSet validates, deduplicates, and sorts a caller supplied date
// list.
func normalizeDateSet(dates []string) ([]string, *ValidationError) {
	vErr := &ValidationError{}

	seen := make(map[string]struct{}, len(dates))
	normalized := make([]string, 0, len(dates))
	for _, date := range dates {
		trimmed := strings.TrimSpace(date)
		if _, err := calendar.ParseDate(trimmed); err != nil {
			vErr.add("dates", fmt.Sprintf("date %q must use the YYYY-MM-DD format", date))
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		normalized = append(normalized, trimmed)
	}
	sort.Strings(normalized)

	return normalized, vErr
}
