package request

import (
	"math"
	"strings"
	"time"

	"parking-reservation/internal/domain/reservation"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	ParkingSpotID uuid.UUID `json:"parkingSpotId" binding:"required"`
	StartTime     time.Time `json:"startTime" binding:"required"`
	EndTime       time.Time `json:"endTime" binding:"required"`
	// Price is the client quote in currency units; it must match the server quote when sent.
	Price         *float64 `json:"price,omitempty" binding:"omitempty,gte=0"`
	PaymentMethod *string  `json:"paymentMethod,omitempty" binding:"omitempty,notblank,max=32"`
	PaymentID     *string  `json:"paymentId,omitempty" binding:"omitempty,notblank,max=128"`
}

func (r CreateReservationRequest) PriceCents() *int64 {
	if r.Price == nil {
		return nil
	}
	cents := toCents(*r.Price)
	return &cents
}

func (r CreateReservationRequest) Method() string {
	if r.PaymentMethod == nil {
		return reservation.DefaultPaymentMethod
	}
	return strings.ToLower(strings.TrimSpace(*r.PaymentMethod))
}

func (r CreateReservationRequest) PaymentRef() *string {
	if r.PaymentID == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*r.PaymentID)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

type AdditionalChargeRequest struct {
	Amount          float64 `json:"amount" binding:"required,gt=0"`
	ExceededMinutes *int    `json:"exceededMinutes" binding:"required,gte=0"`
}

func (r AdditionalChargeRequest) AmountCents() int64 {
	return toCents(r.Amount)
}

type RedeemRequest struct {
	QRToken string `json:"qrToken" binding:"required,len=64,hexadecimal"`
}

type ListReservationsRequest struct {
	After string `form:"after" binding:"omitempty,max=128"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
