package shared

import (
	"context"
	"encoding/json"
	"time"

	"parking-reservation/internal/domain/charge"
	"parking-reservation/internal/domain/reservation"

	"github.com/google/uuid"
)

// Topic suffixes; the publisher prepends the configured prefix.
const (
	TopicReservationCreated   = "reservation.created"
	TopicReservationConfirmed = "reservation.confirmed"
	TopicReservationCancelled = "reservation.cancelled"
	TopicReservationCompleted = "reservation.completed"
	TopicChargeSettled        = "charge.settled"
)

const (
	EventKindReservation = "reservation"
	EventKindCharge      = "charge"
)

type ReservationEvent struct {
	ReservationID uuid.UUID `json:"reservationId"`
	UserID        uuid.UUID `json:"userId"`
	SpotID        uuid.UUID `json:"spotId"`
	Status        string    `json:"status"`
	StartTime     time.Time `json:"startTime,omitempty"`
	EndTime       time.Time `json:"endTime,omitempty"`
	PriceCents    int64     `json:"priceCents,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

type ChargeEvent struct {
	ReservationID   uuid.UUID `json:"reservationId"`
	ChargeID        uuid.UUID `json:"chargeId"`
	AmountCents     int64     `json:"amountCents"`
	ExceededMinutes int       `json:"exceededMinutes"`
	OccurredAt      time.Time `json:"occurredAt"`
}

func NewReservationEvent(r *reservation.Reservation, now time.Time) ReservationEvent {
	return ReservationEvent{
		ReservationID: r.ID(),
		UserID:        r.UserID(),
		SpotID:        r.SpotID(),
		Status:        r.Status().String(),
		StartTime:     r.Window().Start(),
		EndTime:       r.Window().End(),
		PriceCents:    r.Price().Cents(),
		OccurredAt:    now,
	}
}

func NewChargeEvent(c *charge.AdditionalCharge, now time.Time) ChargeEvent {
	return ChargeEvent{
		ReservationID:   c.ReservationID(),
		ChargeID:        c.ID(),
		AmountCents:     c.AmountCents(),
		ExceededMinutes: c.ExceededMinutes(),
		OccurredAt:      now,
	}
}

// Enqueue writes an outbox row in the caller's transaction.
func Enqueue(ctx context.Context, tx Tx, kind, topic string, event any, now time.Time) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return tx.Notifications().Enqueue(ctx, kind, topic, payload, now)
}

// EventKey extracts the partition key from an outbox payload.
func EventKey(payload []byte) []byte {
	var head struct {
		ReservationID uuid.UUID `json:"reservationId"`
	}
	if err := json.Unmarshal(payload, &head); err != nil || head.ReservationID == uuid.Nil {
		return nil
	}
	return []byte(head.ReservationID.String())
}
