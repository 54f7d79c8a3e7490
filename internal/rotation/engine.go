package rotation

import (
	"fmt"
	"sort"
	"time"

	"github.com/example/seat-rotation/internal/calendar"
)

// ComputeNextArrangement determines the next working day and the seating
// arrangement for it.
//
// The engine enforces the following semantics:
//   - The result is always a bijection between the configured seats and an
//     equally sized subset of the roster.
//   - With a usable latest arrangement, each seat's new occupant is the
//     participant who previously held the preceding seat in seat order, with
//     the last seat wrapping to the first.
//   - Without usable history the roster is sorted by participant ID and
//     assigned to seats in order, so cold starts are reproducible.
//   - Special events are inert metadata: they are echoed in the reasoning
//     text and never change the seat map.
func ComputeNextArrangement(input Input) (Result, []Warning, error) {
	if len(input.Seats) == 0 {
		return Result{}, nil, ErrNoSeats
	}
	if len(input.Participants) != len(input.Seats) {
		return Result{}, nil, fmt.Errorf("%w: %d participants for %d seats",
			ErrParticipantCountMismatch, len(input.Participants), len(input.Seats))
	}

	warnings := make([]Warning, 0)

	nonWorking, invalidDates := calendar.NewNonWorkingDaySet(input.NonWorkingDays)
	for _, date := range invalidDates {
		warnings = append(warnings, Warning{
			Field:   "non_working_days",
			Value:   date,
			Message: "entry skipped: date is not a valid YYYY-MM-DD value",
		})
	}
	for date := range input.SpecialEvents {
		if _, err := calendar.ParseDate(date); err != nil {
			warnings = append(warnings, Warning{
				Field:   "special_events",
				Value:   date,
				Message: "entry ignored: date is not a valid YYYY-MM-DD value",
			})
		}
	}

	latest, hasLatest, historyWarnings := LatestRecord(input.History)
	warnings = append(warnings, historyWarnings...)
	if len(input.History) > 0 && !hasLatest {
		warnings = append(warnings, Warning{
			Field:   "history",
			Message: "no history record had a valid date; falling back to a cold start",
		})
	}

	var latestDate *time.Time
	if hasLatest {
		parsed, err := calendar.ParseDate(latest.Date)
		if err == nil {
			latestDate = &parsed
		}
	}

	nextDay, err := calendar.DetermineNextWorkingDay(latestDate, input.Today, nonWorking)
	if err != nil {
		return Result{}, warnings, err
	}
	nextDayValue := calendar.FormatDate(nextDay)

	var (
		arrangement map[string]string
		reasoning   string
	)

	if hasLatest {
		occupants, usable, reason := previousOccupants(latest, input.Seats, input.Participants)
		switch {
		case usable:
			arrangement = rotate(input.Seats, occupants)
			reasoning = fmt.Sprintf("Rotated from the arrangement of %s: every participant advanced one seat position.", latest.Date)
		case reason == mismatchDuplicate:
			// Duplicates in the record being rotated are corrupted input and
			// are surfaced rather than repaired.
			return Result{}, warnings, fmt.Errorf("%w: on %s", ErrDuplicateParticipant, latest.Date)
		default:
			warnings = append(warnings, Warning{
				Field:   "history",
				Value:   latest.Date,
				Message: "latest arrangement does not match the current seats and roster; falling back to a cold start",
			})
			arrangement = coldStart(input.Seats, input.Participants)
			reasoning = "The latest arrangement no longer matches the configured seats and roster; participants were assigned to seats in identifier order."
		}
	} else {
		arrangement = coldStart(input.Seats, input.Participants)
		reasoning = "No prior arrangement exists; participants were assigned to seats in identifier order."
	}

	if description, ok := input.SpecialEvents[nextDayValue]; ok && description != "" {
		reasoning += fmt.Sprintf(" Note: special event on %s: %s.", nextDayValue, description)
	}

	return Result{
		Arrangement:    arrangement,
		NextWorkingDay: nextDayValue,
		Reasoning:      reasoning,
	}, warnings, nil
}

type mismatchReason int

const (
	mismatchNone mismatchReason = iota
	mismatchSeats
	mismatchRoster
	mismatchDuplicate
)

// previousOccupants extracts the occupant list of the latest arrangement in
// seat order. The record is usable only when it covers exactly the configured
// seat set and every occupant is still on the roster; duplicates are reported
// separately so callers can fail instead of falling back.
func previousOccupants(latest Record, seats []string, participants []Participant) ([]string, bool, mismatchReason) {
	if len(latest.Seats) != len(seats) {
		return nil, false, mismatchSeats
	}

	roster := make(map[string]struct{}, len(participants))
	for _, participant := range participants {
		roster[participant.ID] = struct{}{}
	}

	occupants := make([]string, 0, len(seats))
	seen := make(map[string]struct{}, len(seats))
	for _, seat := range seats {
		occupant, ok := latest.Seats[seat]
		if !ok {
			return nil, false, mismatchSeats
		}
		if _, dup := seen[occupant]; dup {
			return nil, false, mismatchDuplicate
		}
		seen[occupant] = struct{}{}
		occupants = append(occupants, occupant)
	}

	for _, occupant := range occupants {
		if _, ok := roster[occupant]; !ok {
			return nil, false, mismatchRoster
		}
	}

	return occupants, true, mismatchNone
}

// rotate applies a cyclic shift of one position: seat i receives the previous
// occupant of seat i-1, and the first seat receives the last seat's occupant.
func rotate(seats []string, occupants []string) map[string]string {
	n := len(seats)
	next := make(map[string]string, n)
	for i, seat := range seats {
		next[seat] = occupants[(i-1+n)%n]
	}
	return next
}

// coldStart deterministically seeds the first arrangement by sorting the
// roster by participant ID and assigning it to seats in order.
func coldStart(seats []string, participants []Participant) map[string]string {
	sorted := make([]Participant, len(participants))
	copy(sorted, participants)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	arrangement := make(map[string]string, len(seats))
	for i, seat := range seats {
		arrangement[seat] = sorted[i].ID
	}
	return arrangement
}
