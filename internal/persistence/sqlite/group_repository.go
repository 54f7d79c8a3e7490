package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/seat-rotation/internal/persistence"
)

// GroupRepository implements persistence.GroupRepository using SQLite.
type GroupRepository struct {
	pool *ConnectionPool
}

// NewGroupRepository creates a new SQLite group repository.
func NewGroupRepository(pool *ConnectionPool) *GroupRepository {
	return &GroupRepository{pool: pool}
}

// CreateGroup inserts a group together with its ordered seat list.
func (r *GroupRepository) CreateGroup(ctx context.Context, group persistence.Group) error {
	if group.ID == "" || len(group.Seats) == 0 {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if group.CreatedAt.IsZero() {
		group.CreatedAt = now
	}
	group.UpdatedAt = group.CreatedAt

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO groups (id, name, join_code_hash, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?)`,
			group.ID,
			group.Name,
			group.JoinCodeHash,
			group.CreatedAt.Format(time.RFC3339),
			group.UpdatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return mapError(err)
		}

		return insertSeats(tx, group.ID, group.Seats)
	})
}

// UpdateGroup replaces the group's name, join code hash, and seat list.
func (r *GroupRepository) UpdateGroup(ctx context.Context, group persistence.Group) error {
	if group.ID == "" || len(group.Seats) == 0 {
		return persistence.ErrConstraintViolation
	}

	group.UpdatedAt = time.Now().UTC()

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec(
			`UPDATE groups SET name = ?, join_code_hash = ?, updated_at = ? WHERE id = ?`,
			group.Name,
			group.JoinCodeHash,
			group.UpdatedAt.Format(time.RFC3339),
			group.ID,
		)
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

		if _, err := tx.Exec("DELETE FROM group_seats WHERE group_id = ?", group.ID); err != nil {
			return mapError(err)
		}

		return insertSeats(tx, group.ID, group.Seats)
	})
}

// GetGroup retrieves a group and its seats by ID.
func (r *GroupRepository) GetGroup(ctx context.Context, id string) (persistence.Group, error) {
	if id == "" {
		return persistence.Group{}, persistence.ErrNotFound
	}

	var (
		group                    persistence.Group
		createdAtStr, updatedAtStr string
	)

	err := r.pool.db.QueryRowContext(ctx,
		`SELECT id, name, join_code_hash, created_at, updated_at FROM groups WHERE id = ?`, id,
	).Scan(&group.ID, &group.Name, &group.JoinCodeHash, &createdAtStr, &updatedAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Group{}, persistence.ErrNotFound
		}
		return persistence.Group{}, mapError(err)
	}

	if group.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Group{}, fmt.Errorf("sqlite: failed to parse created_at: %w", err)
	}
	if group.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Group{}, fmt.Errorf("sqlite: failed to parse updated_at: %w", err)
	}

	seats, err := r.loadSeats(ctx, id)
	if err != nil {
		return persistence.Group{}, err
	}
	group.Seats = seats

	return group, nil
}

// ListGroups returns all groups ordered by name then ID.
func (r *GroupRepository) ListGroups(ctx context.Context) ([]persistence.Group, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT id, name, join_code_hash, created_at, updated_at FROM groups ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var groups []persistence.Group
	for rows.Next() {
		var (
			group                    persistence.Group
			createdAtStr, updatedAtStr string
		)
		if err := rows.Scan(&group.ID, &group.Name, &group.JoinCodeHash, &createdAtStr, &updatedAtStr); err != nil {
			return nil, mapError(err)
		}
		if group.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
			return nil, fmt.Errorf("sqlite: failed to parse created_at: %w", err)
		}
		if group.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
			return nil, fmt.Errorf("sqlite: failed to parse updated_at: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	for i := range groups {
		seats, err := r.loadSeats(ctx, groups[i].ID)
		if err != nil {
			return nil, err
		}
		groups[i].Seats = seats
	}

	return groups, nil
}

// DeleteGroup removes a group; seats, members, calendar entries, and history
// cascade.
func (r *GroupRepository) DeleteGroup(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", id)
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

func (r *GroupRepository) loadSeats(ctx context.Context, groupID string) ([]string, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		"SELECT name FROM group_seats WHERE group_id = ? ORDER BY position ASC", groupID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var seats []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, mapError(err)
		}
		seats = append(seats, name)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return seats, nil
}

func insertSeats(tx *sql.Tx, groupID string, seats []string) error {
	for position, name := range seats {
		if _, err := tx.Exec(
			"INSERT INTO group_seats (group_id, position, name) VALUES (?, ?, ?)",
			groupID, position, name,
		); err != nil {
			return mapError(err)
		}
	}
	return nil
}
