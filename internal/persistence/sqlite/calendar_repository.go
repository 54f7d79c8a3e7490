package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/seat-rotation/internal/persistence"
)

// CalendarRepository implements persistence.CalendarRepository using SQLite.
type CalendarRepository struct {
	pool *ConnectionPool
}

// NewCalendarRepository creates a new SQLite calendar repository.
func NewCalendarRepository(pool *ConnectionPool) *CalendarRepository {
	return &CalendarRepository{pool: pool}
}

// ReplaceNonWorkingDays swaps the group's entire non-working-day set.
func (r *CalendarRepository) ReplaceNonWorkingDays(ctx context.Context, groupID string, dates []string) error {
	if groupID == "" {
		return persistence.ErrConstraintViolation
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM non_working_days WHERE group_id = ?", groupID); err != nil {
			return mapError(err)
		}
		for _, date := range dates {
			if _, err := tx.Exec(
				"INSERT INTO non_working_days (group_id, date) VALUES (?, ?)",
				groupID, date,
			); err != nil {
				return mapError(err)
			}
		}
		return nil
	})
}

// ListNonWorkingDays returns the group's non-working days in date order.
func (r *CalendarRepository) ListNonWorkingDays(ctx context.Context, groupID string) ([]string, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		"SELECT date FROM non_working_days WHERE group_id = ? ORDER BY date ASC", groupID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, mapError(err)
		}
		dates = append(dates, date)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return dates, nil
}

// UpsertSpecialEvent creates or replaces the event annotation for a date.
func (r *CalendarRepository) UpsertSpecialEvent(ctx context.Context, event persistence.SpecialEvent) error {
	if event.GroupID == "" || event.Date == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO special_events (group_id, date, description) VALUES (?, ?, ?)
		 ON CONFLICT (group_id, date) DO UPDATE SET description = excluded.description`,
		event.GroupID, event.Date, event.Description,
	)
	return mapError(err)
}

// DeleteSpecialEvent removes the event annotation for a date.
func (r *CalendarRepository) DeleteSpecialEvent(ctx context.Context, groupID, date string) error {
	if groupID == "" || date == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.db.ExecContext(ctx,
		"DELETE FROM special_events WHERE group_id = ? AND date = ?", groupID, date)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}

	return nil
}

// ListSpecialEvents returns the group's special events in date order.
func (r *CalendarRepository) ListSpecialEvents(ctx context.Context, groupID string) ([]persistence.SpecialEvent, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		"SELECT group_id, date, description FROM special_events WHERE group_id = ? ORDER BY date ASC", groupID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var events []persistence.SpecialEvent
	for rows.Next() {
		var event persistence.SpecialEvent
		if err := rows.Scan(&event.GroupID, &event.Date, &event.Description); err != nil {
			return nil, mapError(err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return events, nil
}
