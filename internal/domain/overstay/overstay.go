package overstay

import "time"

type State string

const (
	StateActive   State = "ACTIVE"
	StateExceeded State = "EXCEEDED"
	StateSettled  State = "SETTLED"
)

func (s State) String() string {
	return string(s)
}

const (
	DefaultBlockMinutes        = 15
	DefaultBlockFeeCents int64 = 500
)

// ExceededMinutes rounds elapsed overstay up to whole minutes. Once end is
// reached the result is at least 1.
func ExceededMinutes(end, now time.Time) int {
	if now.Before(end) {
		return 0
	}
	elapsed := now.Sub(end)
	minutes := int((elapsed + time.Minute - 1) / time.Minute)
	if minutes < 1 {
		return 1
	}
	return minutes
}

type Policy interface {
	AmountCents(exceededMinutes int) int64
}

// BlockRatePolicy charges a flat fee per started block of minutes.
type BlockRatePolicy struct {
	BlockMinutes  int
	BlockFeeCents int64
}

func NewBlockRatePolicy(blockMinutes int, blockFeeCents int64) BlockRatePolicy {
	if blockMinutes <= 0 {
		blockMinutes = DefaultBlockMinutes
	}
	if blockFeeCents < 0 {
		blockFeeCents = DefaultBlockFeeCents
	}
	return BlockRatePolicy{BlockMinutes: blockMinutes, BlockFeeCents: blockFeeCents}
}

func (p BlockRatePolicy) AmountCents(exceededMinutes int) int64 {
	if exceededMinutes <= 0 {
		return 0
	}
	blocks := (exceededMinutes + p.BlockMinutes - 1) / p.BlockMinutes
	return int64(blocks) * p.BlockFeeCents
}

type Evaluation struct {
	State           State
	ExceededMinutes int
	AmountCents     int64
	EvaluatedAt     time.Time
}

type Evaluator struct {
	policy Policy
}

func NewEvaluator(policy Policy) *Evaluator {
	return &Evaluator{policy: policy}
}

// Evaluate measures overstay of a window ending at end as of now. settled is
// true when a paid charge already exists.
func (e *Evaluator) Evaluate(end, now time.Time, settled bool) Evaluation {
	minutes := ExceededMinutes(end, now)
	eval := Evaluation{
		State:           StateActive,
		ExceededMinutes: minutes,
		AmountCents:     e.policy.AmountCents(minutes),
		EvaluatedAt:     now,
	}
	switch {
	case settled:
		eval.State = StateSettled
	case !now.Before(end):
		eval.State = StateExceeded
	}
	return eval
}
