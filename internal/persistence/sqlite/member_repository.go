package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/example/seat-rotation/internal/persistence"
)

// MemberRepository implements persistence.MemberRepository using SQLite.
type MemberRepository struct {
	pool *ConnectionPool
}

// NewMemberRepository creates a new SQLite member repository.
func NewMemberRepository(pool *ConnectionPool) *MemberRepository {
	return &MemberRepository{pool: pool}
}

// AddMember enrolls a participant in a group.
func (r *MemberRepository) AddMember(ctx context.Context, member persistence.Member) error {
	if member.GroupID == "" || member.ID == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if member.CreatedAt.IsZero() {
		member.CreatedAt = now
	}
	member.UpdatedAt = member.CreatedAt

	_, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO members (group_id, id, display_name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		member.GroupID,
		member.ID,
		member.DisplayName,
		member.CreatedAt.Format(time.RFC3339),
		member.UpdatedAt.Format(time.RFC3339),
	)
	return mapError(err)
}

// RemoveMember removes a participant from a group.
func (r *MemberRepository) RemoveMember(ctx context.Context, groupID, memberID string) error {
	if groupID == "" || memberID == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.db.ExecContext(ctx,
		"DELETE FROM members WHERE group_id = ? AND id = ?", groupID, memberID)
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

// ListMembers returns a group's members ordered by join time then ID.
func (r *MemberRepository) ListMembers(ctx context.Context, groupID string) ([]persistence.Member, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT group_id, id, display_name, created_at, updated_at
		 FROM members WHERE group_id = ? ORDER BY created_at ASC, id ASC`, groupID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var members []persistence.Member
	for rows.Next() {
		var (
			member                   persistence.Member
			createdAtStr, updatedAtStr string
		)
		if err := rows.Scan(&member.GroupID, &member.ID, &member.DisplayName, &createdAtStr, &updatedAtStr); err != nil {
			return nil, mapError(err)
		}
		if member.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
			return nil, fmt.Errorf("sqlite: failed to parse created_at: %w", err)
		}
		if member.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
			return nil, fmt.Errorf("sqlite: failed to parse updated_at: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return members, nil
}
