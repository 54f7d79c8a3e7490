package testfixtures

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/example/seat-rotation/internal/application"
)

// End-to-end pass over real SQLite repositories: seed a group with history,
// plan the next working day, commit it, and read the appended record back.
func TestRotationLifecycleOverSQLite(t *testing.T) {
	ctx := context.Background()
	harness := NewSQLiteHarness(t)

	group := NewGroupFixture(WithGroupSeats("window", "middle", "door"))
	if err := harness.Groups.CreateGroup(ctx, group.Persistence()); err != nil {
		t.Fatalf("seed group: %v", err)
	}
	for _, id := range []string{"alice", "bob", "carol"} {
		member := NewMemberFixture(WithMemberGroupID(group.ID), WithMemberID(id), WithMemberDisplayName(id))
		if err := harness.Members.AddMember(ctx, member.Persistence()); err != nil {
			t.Fatalf("seed member %s: %v", id, err)
		}
	}

	// Friday history so the next working day skips the weekend.
	history := NewArrangementFixture(
		WithArrangementGroupID(group.ID),
		WithArrangementDate("2025-02-07"),
		WithArrangementSeats(map[string]string{
			"window": "alice",
			"middle": "bob",
			"door":   "carol",
		}),
	)
	if err := harness.Arrangements.CreateArrangement(ctx, history.Persistence()); err != nil {
		t.Fatalf("seed history: %v", err)
	}

	event := NewSpecialEventFixture(group.ID, "2025-02-10", "quarterly kickoff")
	if err := harness.Calendar.UpsertSpecialEvent(ctx, event.Persistence()); err != nil {
		t.Fatalf("seed event: %v", err)
	}

	clock := NewClock(time.Date(2025, time.February, 7, 17, 0, 0, 0, time.UTC))
	factory := NewServiceFactory(WithClock(clock))
	svc := factory.NewRotationService(RotationServiceDeps{
		Groups:       harness.Groups,
		Members:      harness.Members,
		Arrangements: harness.Arrangements,
		Calendar:     harness.Calendar,
	})

	plan, err := svc.PlanRotation(ctx, group.ID)
	if err != nil {
		t.Fatalf("PlanRotation returned error: %v", err)
	}
	if plan.Date != "2025-02-10" {
		t.Fatalf("expected plan for Monday 2025-02-10, got %s", plan.Date)
	}
	if plan.Seats["window"] != "carol" || plan.Seats["middle"] != "alice" || plan.Seats["door"] != "bob" {
		t.Fatalf("unexpected rotation: %v", plan.Seats)
	}
	if !strings.Contains(plan.Reasoning, "quarterly kickoff") {
		t.Fatalf("expected the special event in the reasoning, got %q", plan.Reasoning)
	}

	committed, err := svc.CommitRotation(ctx, application.CommitRotationParams{GroupID: group.ID, Date: plan.Date})
	if err != nil {
		t.Fatalf("CommitRotation returned error: %v", err)
	}
	if committed.Date != plan.Date {
		t.Fatalf("commit landed on %s, want %s", committed.Date, plan.Date)
	}

	records, err := svc.ListArrangements(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListArrangements returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 history records, got %d", len(records))
	}
	if records[1].Date != "2025-02-10" {
		t.Fatalf("expected appended record last, got %s", records[1].Date)
	}
}
