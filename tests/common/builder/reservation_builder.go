//go:build unit || e2e

package builder

import (
	"time"

	"parking-reservation/internal/domain/reservation"
	reqdto "parking-reservation/internal/handler/dto/request"
	"parking-reservation/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationBuilder struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	SpotID        uuid.UUID
	SpotNumber    string
	LocationID    uuid.UUID
	LocationName  string
	StartTime     time.Time
	EndTime       time.Time
	Status        reservation.Status
	PriceCents    int64
	PaymentMethod string
	PaymentRef    *string
	QRToken       string
	CreatedAt     time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	start := time.Now().UTC().Truncate(time.Hour).Add(2 * time.Hour)
	ref := "pay_test"
	return &ReservationBuilder{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		SpotID:        uuid.New(),
		SpotNumber:    "A-01",
		LocationID:    uuid.New(),
		LocationName:  "Central Garage",
		StartTime:     start,
		EndTime:       start.Add(2 * time.Hour),
		Status:        reservation.StatusConfirmed,
		PriceCents:    10500,
		PaymentMethod: reservation.DefaultPaymentMethod,
		PaymentRef:    &ref,
		QRToken:       "c0ffee" + "0123456789abcdef0123456789abcdef0123456789abcdef0123456789",
		CreatedAt:     start.Add(-time.Hour),
	}
}

func (r *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(r)
	return r
}

func (r *ReservationBuilder) BuildDomain() *reservation.Reservation {
	return reservation.ReconstructReservation(
		r.ID, r.UserID, r.SpotID,
		reservation.NewTimeWindow(r.StartTime, r.EndTime),
		r.Status,
		reservation.MustMoney(r.PriceCents),
		r.PaymentMethod,
		r.PaymentRef,
		r.QRToken,
		nil, nil,
		r.CreatedAt, r.CreatedAt,
	)
}

func (r *ReservationBuilder) BuildView() *queries.ReservationView {
	return &queries.ReservationView{
		ID:            r.ID,
		UserID:        r.UserID,
		SpotID:        r.SpotID,
		SpotNumber:    r.SpotNumber,
		LocationID:    r.LocationID,
		LocationName:  r.LocationName,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Status:        r.Status.String(),
		PriceCents:    r.PriceCents,
		PaymentMethod: r.PaymentMethod,
		PaymentRef:    r.PaymentRef,
		QRToken:       r.QRToken,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.CreatedAt,
	}
}

func (r *ReservationBuilder) BuildListItem() *queries.ReservationListItem {
	return &queries.ReservationListItem{
		ID:           r.ID,
		SpotID:       r.SpotID,
		SpotNumber:   r.SpotNumber,
		LocationName: r.LocationName,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		Status:       r.Status.String(),
		PriceCents:   r.PriceCents,
		CreatedAt:    r.CreatedAt,
	}
}

func (r *ReservationBuilder) BuildCreateRequestDTO() reqdto.CreateReservationRequest {
	return reqdto.CreateReservationRequest{
		ParkingSpotID: r.SpotID,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		PaymentID:     r.PaymentRef,
	}
}
