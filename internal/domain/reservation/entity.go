package reservation

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransition = errors.New("reservation status does not allow this operation")
	ErrOutsideRedeemTime = errors.New("reservation cannot be redeemed at this time")
	ErrAlreadyRedeemed   = errors.New("reservation has already been redeemed")
	ErrPaymentMismatch   = errors.New("reservation is confirmed with a different payment")
	ErrAlreadyStarted    = errors.New("reservation has already started")
)

const DefaultPaymentMethod = "card"

type Reservation struct {
	id            uuid.UUID
	userID        uuid.UUID
	spotID        uuid.UUID
	window        TimeWindow
	status        Status
	price         Money
	paymentMethod string
	paymentRef    *string
	qrToken       string
	checkedOutAt  *time.Time
	redeemedAt    *time.Time
	createdAt     time.Time
	updatedAt     time.Time
}

// NewReservation starts confirmed when a payment reference is already known,
// pending otherwise.
func NewReservation(
	userID, spotID uuid.UUID,
	window TimeWindow,
	price Money,
	paymentMethod string,
	paymentRef *string,
	qrToken string,
) *Reservation {
	status := StatusPending
	if paymentRef != nil && strings.TrimSpace(*paymentRef) != "" {
		status = StatusConfirmed
	} else {
		paymentRef = nil
	}
	if strings.TrimSpace(paymentMethod) == "" {
		paymentMethod = DefaultPaymentMethod
	}

	return &Reservation{
		id:            uuid.New(),
		userID:        userID,
		spotID:        spotID,
		window:        window,
		status:        status,
		price:         price,
		paymentMethod: paymentMethod,
		paymentRef:    paymentRef,
		qrToken:       qrToken,
	}
}

func ReconstructReservation(
	id, userID, spotID uuid.UUID,
	window TimeWindow,
	status Status,
	price Money,
	paymentMethod string,
	paymentRef *string,
	qrToken string,
	checkedOutAt, redeemedAt *time.Time,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:            id,
		userID:        userID,
		spotID:        spotID,
		window:        window,
		status:        status,
		price:         price,
		paymentMethod: paymentMethod,
		paymentRef:    paymentRef,
		qrToken:       qrToken,
		checkedOutAt:  checkedOutAt,
		redeemedAt:    redeemedAt,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// Confirm applies a successful payment. Repeating it with the same payment
// reference is a no-op and reports changed=false.
func (r *Reservation) Confirm(paymentRef string) (bool, error) {
	switch r.status {
	case StatusPending:
		r.status = StatusConfirmed
		r.paymentRef = &paymentRef
		return true, nil
	case StatusConfirmed:
		if r.paymentRef != nil && *r.paymentRef == paymentRef {
			return false, nil
		}
		return false, ErrPaymentMismatch
	default:
		return false, ErrInvalidTransition
	}
}

func (r *Reservation) Cancel() error {
	if !r.status.IsActive() {
		return ErrInvalidTransition
	}
	r.status = StatusCancelled
	return nil
}

// CancelByOwner is only allowed before the window starts.
func (r *Reservation) CancelByOwner(now time.Time) error {
	if !now.Before(r.window.Start()) {
		return ErrAlreadyStarted
	}
	return r.Cancel()
}

func (r *Reservation) Complete() error {
	if r.status != StatusConfirmed {
		return ErrInvalidTransition
	}
	r.status = StatusCompleted
	return nil
}

// CheckOut completes the reservation and freezes the overstay clock at now.
func (r *Reservation) CheckOut(now time.Time) error {
	if err := r.Complete(); err != nil {
		return err
	}
	t := now.UTC()
	r.checkedOutAt = &t
	return nil
}

// Redeem records gate entry. It is accepted from early before start until end.
func (r *Reservation) Redeem(now time.Time, early time.Duration) error {
	if r.status != StatusConfirmed {
		return ErrInvalidTransition
	}
	if r.redeemedAt != nil {
		return ErrAlreadyRedeemed
	}
	if now.Before(r.window.Start().Add(-early)) || now.After(r.window.End()) {
		return ErrOutsideRedeemTime
	}
	t := now.UTC()
	r.redeemedAt = &t
	return nil
}

// OverstayClock returns the instant overstay is measured at. A sweep completion
// does not stop it, since the vehicle is still in the spot until check-out.
func (r *Reservation) OverstayClock(now time.Time) time.Time {
	if r.checkedOutAt != nil {
		return *r.checkedOutAt
	}
	return now
}

// IsBillable reports whether an overstay charge can be raised.
func (r *Reservation) IsBillable() bool {
	return r.status == StatusConfirmed || r.status == StatusCompleted
}

func (r *Reservation) IsOwnedBy(userID uuid.UUID) bool {
	return r.userID == userID
}

func (r *Reservation) ID() uuid.UUID            { return r.id }
func (r *Reservation) UserID() uuid.UUID        { return r.userID }
func (r *Reservation) SpotID() uuid.UUID        { return r.spotID }
func (r *Reservation) Window() TimeWindow       { return r.window }
func (r *Reservation) Status() Status           { return r.status }
func (r *Reservation) Price() Money             { return r.price }
func (r *Reservation) PaymentMethod() string    { return r.paymentMethod }
func (r *Reservation) PaymentRef() *string      { return r.paymentRef }
func (r *Reservation) QRToken() string          { return r.qrToken }
func (r *Reservation) CheckedOutAt() *time.Time { return r.checkedOutAt }
func (r *Reservation) RedeemedAt() *time.Time   { return r.redeemedAt }
func (r *Reservation) CreatedAt() time.Time     { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time     { return r.updatedAt }
