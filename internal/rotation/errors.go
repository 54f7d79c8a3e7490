package rotation

import "errors"

var (
	// ErrParticipantCountMismatch is returned when the roster size does not
	// equal the configured seat count.
	ErrParticipantCountMismatch = errors.New("rotation: participant count does not match seat count")
	// ErrDuplicateParticipant is returned when the latest historical record
	// assigns one participant to more than one seat. The record is treated as
	// corrupted input and is never auto-corrected.
	ErrDuplicateParticipant = errors.New("rotation: duplicate participant in latest arrangement")
	// ErrNoSeats is returned when the configured seat list is empty.
	ErrNoSeats = errors.New("rotation: at least one seat is required")
)
