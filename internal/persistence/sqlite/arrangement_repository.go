package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/seat-rotation/internal/persistence"
)

// ArrangementRepository implements persistence.ArrangementRepository using
// SQLite. The (group_id, date) primary key makes the insert the atomic
// commit point for compute-then-commit: when two callers race, the loser
// receives ErrDuplicate instead of overwriting history.
type ArrangementRepository struct {
	pool *ConnectionPool
}

// NewArrangementRepository creates a new SQLite arrangement repository.
func NewArrangementRepository(pool *ConnectionPool) *ArrangementRepository {
	return &ArrangementRepository{pool: pool}
}

// CreateArrangement appends a committed arrangement record.
func (r *ArrangementRepository) CreateArrangement(ctx context.Context, record persistence.ArrangementRecord) error {
	if record.GroupID == "" || record.Date == "" || len(record.Seats) == 0 {
		return persistence.ErrConstraintViolation
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO arrangements (group_id, date, reasoning, created_at) VALUES (?, ?, ?, ?)`,
			record.GroupID,
			record.Date,
			record.Reasoning,
			record.CreatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return mapError(err)
		}

		for seat, participantID := range record.Seats {
			if _, err := tx.Exec(
				`INSERT INTO arrangement_seats (group_id, date, seat, participant_id) VALUES (?, ?, ?, ?)`,
				record.GroupID, record.Date, seat, participantID,
			); err != nil {
				return mapError(err)
			}
		}

		return nil
	})
}

// GetArrangement retrieves the committed arrangement for one date.
func (r *ArrangementRepository) GetArrangement(ctx context.Context, groupID, date string) (persistence.ArrangementRecord, error) {
	if groupID == "" || date == "" {
		return persistence.ArrangementRecord{}, persistence.ErrNotFound
	}

	var (
		record       persistence.ArrangementRecord
		createdAtStr string
	)

	err := r.pool.db.QueryRowContext(ctx,
		`SELECT group_id, date, reasoning, created_at FROM arrangements WHERE group_id = ? AND date = ?`,
		groupID, date,
	).Scan(&record.GroupID, &record.Date, &record.Reasoning, &createdAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.ArrangementRecord{}, persistence.ErrNotFound
		}
		return persistence.ArrangementRecord{}, mapError(err)
	}

	if record.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.ArrangementRecord{}, fmt.Errorf("sqlite: failed to parse created_at: %w", err)
	}

	seats, err := r.loadSeatAssignments(ctx, groupID, date)
	if err != nil {
		return persistence.ArrangementRecord{}, err
	}
	record.Seats = seats

	return record, nil
}

// ListArrangements returns a group's full history ordered by date ascending.
func (r *ArrangementRepository) ListArrangements(ctx context.Context, groupID string) ([]persistence.ArrangementRecord, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT group_id, date, reasoning, created_at FROM arrangements WHERE group_id = ? ORDER BY date ASC`,
		groupID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var records []persistence.ArrangementRecord
	for rows.Next() {
		var (
			record       persistence.ArrangementRecord
			createdAtStr string
		)
		if err := rows.Scan(&record.GroupID, &record.Date, &record.Reasoning, &createdAtStr); err != nil {
			return nil, mapError(err)
		}
		if record.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
			return nil, fmt.Errorf("sqlite: failed to parse created_at: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	for i := range records {
		seats, err := r.loadSeatAssignments(ctx, groupID, records[i].Date)
		if err != nil {
			return nil, err
		}
		records[i].Seats = seats
	}

	return records, nil
}

func (r *ArrangementRepository) loadSeatAssignments(ctx context.Context, groupID, date string) (map[string]string, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT seat, participant_id FROM arrangement_seats WHERE group_id = ? AND date = ?`,
		groupID, date)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	seats := make(map[string]string)
	for rows.Next() {
		var seat, participantID string
		if err := rows.Scan(&seat, &participantID); err != nil {
			return nil, mapError(err)
		}
		seats[seat] = participantID
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return seats, nil
}
