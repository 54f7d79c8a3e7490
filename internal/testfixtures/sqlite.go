package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/seat-rotation/internal/persistence"
	"github.com/example/seat-rotation/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style persistence tests.
type SQLiteHarness struct {
	Groups       persistence.GroupRepository
	Members      persistence.MemberRepository
	Arrangements persistence.ArrangementRepository
	Calendar     persistence.CalendarRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness over a migrated temporary
// database file. Cleanup is registered with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "rotation.db")

	pool, err := sqlite.Open(path)
	if err != nil {
		tb.Fatalf("failed to open connection pool: %v", err)
	}

	if err := pool.Migrate(context.Background()); err != nil {
		_ = pool.Close()
		tb.Fatalf("failed to migrate database: %v", err)
	}

	harness := &SQLiteHarness{
		Groups:       sqlite.NewGroupRepository(pool),
		Members:      sqlite.NewMemberRepository(pool),
		Arrangements: sqlite.NewArrangementRepository(pool),
		Calendar:     sqlite.NewCalendarRepository(pool),
		cleanup: func() {
			_ = pool.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
