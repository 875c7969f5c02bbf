package response

import (
	"time"

	"parking-reservation/internal/domain/charge"
	"parking-reservation/internal/usecase/queries"

	"github.com/google/uuid"
)

type ChargeResponse struct {
	ID              uuid.UUID `json:"id"`
	ReservationID   uuid.UUID `json:"reservationId"`
	Amount          float64   `json:"amount"`
	AmountCents     int64     `json:"amountCents"`
	ExceededMinutes int       `json:"exceededMinutes"`
	Reason          string    `json:"reason"`
	PaymentStatus   string    `json:"paymentStatus"`
	CreatedAt       time.Time `json:"createdAt"`
}

type AdditionalChargeResponse struct {
	Charge   *ChargeResponse `json:"charge"`
	Replayed bool            `json:"replayed"`
}

type OverstayResponse struct {
	ReservationID   uuid.UUID       `json:"reservationId"`
	EndTime         time.Time       `json:"endTime"`
	State           string          `json:"state"`
	ExceededMinutes int             `json:"exceededMinutes"`
	Amount          float64         `json:"amount"`
	AmountCents     int64           `json:"amountCents"`
	EvaluatedAt     time.Time       `json:"evaluatedAt"`
	Charge          *ChargeResponse `json:"charge,omitempty"`
}

func FromCharge(c *charge.AdditionalCharge) *ChargeResponse {
	return &ChargeResponse{
		ID:              c.ID(),
		ReservationID:   c.ReservationID(),
		Amount:          toUnits(c.AmountCents()),
		AmountCents:     c.AmountCents(),
		ExceededMinutes: c.ExceededMinutes(),
		Reason:          c.Reason(),
		PaymentStatus:   c.PaymentStatus().String(),
		CreatedAt:       c.CreatedAt(),
	}
}

func FromChargeView(v *queries.ChargeView) *ChargeResponse {
	if v == nil {
		return nil
	}
	return &ChargeResponse{
		ID:              v.ID,
		ReservationID:   v.ReservationID,
		Amount:          toUnits(v.AmountCents),
		AmountCents:     v.AmountCents,
		ExceededMinutes: v.ExceededMinutes,
		Reason:          v.Reason,
		PaymentStatus:   v.PaymentStatus,
		CreatedAt:       v.CreatedAt,
	}
}

func FromOverstayView(v *queries.OverstayView) *OverstayResponse {
	return &OverstayResponse{
		ReservationID:   v.ReservationID,
		EndTime:         v.EndTime,
		State:           v.State,
		ExceededMinutes: v.ExceededMinutes,
		Amount:          toUnits(v.AmountCents),
		AmountCents:     v.AmountCents,
		EvaluatedAt:     v.EvaluatedAt,
		Charge:          FromChargeView(v.Charge),
	}
}
