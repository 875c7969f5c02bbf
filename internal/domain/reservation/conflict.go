package reservation

import (
	"errors"

	"github.com/google/uuid"
)

var ErrOverlap = errors.New("a reservation already exists for this spot in the selected window")

// Booking is the slice of a reservation the conflict check needs.
type Booking struct {
	ID     uuid.UUID
	Window TimeWindow
	Status Status
}

// FindConflict returns the first active booking overlapping candidate.
// Bookings whose status does not parse are treated as inactive.
func FindConflict(candidate TimeWindow, existing []Booking, exclude *uuid.UUID) (Booking, bool) {
	for _, b := range existing {
		if exclude != nil && b.ID == *exclude {
			continue
		}
		status, err := ParseStatus(string(b.Status))
		if err != nil || !status.IsActive() {
			continue
		}
		if candidate.Overlaps(b.Window) {
			return b, true
		}
	}
	return Booking{}, false
}
