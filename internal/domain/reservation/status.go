package reservation

import (
	"errors"
	"strings"
)

var ErrInvalidStatus = errors.New("invalid reservation status")

type Status string

// Statuses are stored and compared in this canonical lower-case form.
const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// IsActive reports whether the status still occupies the spot.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// ParseStatus accepts any casing and the American "canceled" spelling.
func ParseStatus(s string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "canceled" {
		normalized = string(StatusCancelled)
	}
	status := Status(normalized)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// ActiveStatuses lists the statuses that take part in conflict checks.
func ActiveStatuses() []Status {
	return []Status{StatusPending, StatusConfirmed}
}
