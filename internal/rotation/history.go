package rotation

import "github.com/example/seat-rotation/internal/calendar"

// LatestRecord returns the history record with the chronologically greatest
// valid date. Records whose date fails ISO 8601 validation are skipped and
// reported as warnings; they never influence the result. The second return
// value is false when no valid record exists.
func LatestRecord(history []Record) (Record, bool, []Warning) {
	var (
		latest   Record
		found    bool
		warnings []Warning
	)

	for _, record := range history {
		if _, err := calendar.ParseDate(record.Date); err != nil {
			warnings = append(warnings, Warning{
				Field:   "history",
				Value:   record.Date,
				Message: "record skipped: date is not a valid YYYY-MM-DD value",
			})
			continue
		}
		// ISO dates order lexicographically, so string comparison suffices.
		if !found || record.Date > latest.Date {
			latest = record
			found = true
		}
	}

	return latest, found, warnings
}

// OccupancyCounts tallies how often each participant has held each seat over
// the full history. Every known participant/seat pair is present in the
// result, zero-valued when never observed; assignments referencing unknown
// participants or seats are ignored.
func OccupancyCounts(history []Record, participants []Participant, seats []string) map[string]map[string]int {
	counts := make(map[string]map[string]int, len(participants))
	for _, participant := range participants {
		row := make(map[string]int, len(seats))
		for _, seat := range seats {
			row[seat] = 0
		}
		counts[participant.ID] = row
	}

	for _, record := range history {
		for seat, occupant := range record.Seats {
			row, ok := counts[occupant]
			if !ok {
				continue
			}
			if _, ok := row[seat]; !ok {
				continue
			}
			row[seat]++
		}
	}

	return counts
}
