package reservation

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidWindow = errors.New("invalid reservation window")

const (
	DefaultMaxDuration = 24 * time.Hour
	DefaultMaxHorizon  = 30 * 24 * time.Hour
)

// ValidationError collects every rule a window breaks.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return ErrInvalidWindow.Error() + ": " + strings.Join(e.Violations, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidWindow
}

type WindowPolicy struct {
	MaxDuration time.Duration
	MaxHorizon  time.Duration
}

func NewWindowPolicy(maxDuration, maxHorizon time.Duration) WindowPolicy {
	if maxDuration <= 0 {
		maxDuration = DefaultMaxDuration
	}
	if maxHorizon <= 0 {
		maxHorizon = DefaultMaxHorizon
	}
	return WindowPolicy{MaxDuration: maxDuration, MaxHorizon: maxHorizon}
}

func (p WindowPolicy) Validate(start, end, now time.Time) (TimeWindow, error) {
	var violations []string

	if !start.Before(end) {
		violations = append(violations, "start time must be before end time")
	} else if end.Sub(start) > p.MaxDuration {
		violations = append(violations, fmt.Sprintf("duration must not exceed %s", formatDuration(p.MaxDuration)))
	}
	if start.After(now.Add(p.MaxHorizon)) {
		violations = append(violations, fmt.Sprintf("start time must be within %s from now", formatDuration(p.MaxHorizon)))
	}
	if !end.After(now) {
		violations = append(violations, "end time must be in the future")
	}

	if len(violations) > 0 {
		return TimeWindow{}, &ValidationError{Violations: violations}
	}
	return NewTimeWindow(start, end), nil
}

func formatDuration(d time.Duration) string {
	if d%(24*time.Hour) == 0 && d >= 48*time.Hour {
		return fmt.Sprintf("%d days", int(d/(24*time.Hour)))
	}
	if d%time.Hour == 0 {
		return fmt.Sprintf("%d hours", int(d/time.Hour))
	}
	return d.String()
}
