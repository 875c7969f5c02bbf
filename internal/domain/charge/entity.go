package charge

import (
	"errors"
	"math"
	"strings"
	"time"

	"parking-reservation/internal/domain/overstay"

	"github.com/google/uuid"
)

var (
	ErrNotOverstayed        = errors.New("reservation has not exceeded its end time")
	ErrAlreadySettled       = errors.New("overstay has already been settled")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrOverstayOutOfRange   = errors.New("overstay exceeds the billable range")
)

// MaxExceededMinutes is the storage limit of additional_charges.exceeded_minutes.
const MaxExceededMinutes = math.MaxInt32

const ReasonOverstay = "overstay"

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	ps := PaymentStatus(strings.ToLower(strings.TrimSpace(s)))
	switch ps {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return ps, nil
	default:
		return "", ErrInvalidPaymentStatus
	}
}

func (s PaymentStatus) String() string {
	return string(s)
}

type AdditionalCharge struct {
	id              uuid.UUID
	reservationID   uuid.UUID
	amountCents     int64
	exceededMinutes int
	reason          string
	paymentStatus   PaymentStatus
	createdAt       time.Time
	updatedAt       time.Time
}

// NewPaidOverstayCharge records the server-evaluated overstay as settled.
func NewPaidOverstayCharge(reservationID uuid.UUID, eval overstay.Evaluation) (*AdditionalCharge, error) {
	switch eval.State {
	case overstay.StateSettled:
		return nil, ErrAlreadySettled
	case overstay.StateActive:
		return nil, ErrNotOverstayed
	}
	if eval.ExceededMinutes > MaxExceededMinutes {
		return nil, ErrOverstayOutOfRange
	}

	return &AdditionalCharge{
		id:              uuid.New(),
		reservationID:   reservationID,
		amountCents:     eval.AmountCents,
		exceededMinutes: eval.ExceededMinutes,
		reason:          ReasonOverstay,
		paymentStatus:   PaymentPaid,
	}, nil
}

func ReconstructAdditionalCharge(
	id, reservationID uuid.UUID,
	amountCents int64,
	exceededMinutes int,
	reason string,
	paymentStatus PaymentStatus,
	createdAt, updatedAt time.Time,
) *AdditionalCharge {
	return &AdditionalCharge{
		id:              id,
		reservationID:   reservationID,
		amountCents:     amountCents,
		exceededMinutes: exceededMinutes,
		reason:          reason,
		paymentStatus:   paymentStatus,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (c *AdditionalCharge) IsPaid() bool {
	return c.paymentStatus == PaymentPaid
}

func (c *AdditionalCharge) ID() uuid.UUID                { return c.id }
func (c *AdditionalCharge) ReservationID() uuid.UUID     { return c.reservationID }
func (c *AdditionalCharge) AmountCents() int64           { return c.amountCents }
func (c *AdditionalCharge) ExceededMinutes() int         { return c.exceededMinutes }
func (c *AdditionalCharge) Reason() string               { return c.reason }
func (c *AdditionalCharge) PaymentStatus() PaymentStatus { return c.paymentStatus }
func (c *AdditionalCharge) CreatedAt() time.Time         { return c.createdAt }
func (c *AdditionalCharge) UpdatedAt() time.Time         { return c.updatedAt }
