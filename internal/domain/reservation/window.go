package reservation

import "time"

// TimeWindow is a closed interval [start, end]. Touching endpoints overlap.
type TimeWindow struct {
	start time.Time
	end   time.Time
}

// NewTimeWindow does not validate ordering; use WindowPolicy for that.
func NewTimeWindow(start, end time.Time) TimeWindow {
	return TimeWindow{start: start.UTC(), end: end.UTC()}
}

func (w TimeWindow) Start() time.Time {
	return w.start
}

func (w TimeWindow) End() time.Time {
	return w.end
}

func (w TimeWindow) Duration() time.Duration {
	return w.end.Sub(w.start)
}

func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return Overlaps(w.start, w.end, other.start, other.end)
}

func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.start) && !t.After(w.end)
}

// Overlaps is the closed-interval test s1 <= e2 && s2 <= e1.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return !s1.After(e2) && !s2.After(e1)
}
