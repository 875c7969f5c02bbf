package response

import (
	"time"

	"parking-reservation/internal/domain/reservation"
	"parking-reservation/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationResponse struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"userId"`
	ParkingSpotID uuid.UUID  `json:"parkingSpotId"`
	SpotNumber    string     `json:"spotNumber,omitempty"`
	LocationID    *uuid.UUID `json:"locationId,omitempty"`
	LocationName  string     `json:"locationName,omitempty"`
	StartTime     time.Time  `json:"startTime"`
	EndTime       time.Time  `json:"endTime"`
	Status        string     `json:"status"`
	Price         float64    `json:"price"`
	PriceCents    int64      `json:"priceCents"`
	PaymentMethod string     `json:"paymentMethod"`
	PaymentID     *string    `json:"paymentId,omitempty"`
	QRToken       string     `json:"qrToken,omitempty"`
	CheckedOutAt  *time.Time `json:"checkedOutAt,omitempty"`
	RedeemedAt    *time.Time `json:"redeemedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type ReservationEnvelope struct {
	Reservation *ReservationResponse `json:"reservation"`
	Replayed    bool                 `json:"replayed,omitempty"`
}

type ReservationListItemResponse struct {
	ID            uuid.UUID `json:"id"`
	ParkingSpotID uuid.UUID `json:"parkingSpotId"`
	SpotNumber    string    `json:"spotNumber"`
	LocationName  string    `json:"locationName"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	Status        string    `json:"status"`
	Price         float64   `json:"price"`
	PriceCents    int64     `json:"priceCents"`
	CreatedAt     time.Time `json:"createdAt"`
}

type ReservationListResponse struct {
	Items      []*ReservationListItemResponse `json:"items"`
	NextCursor *string                        `json:"nextCursor,omitempty"`
}

func FromReservation(r *reservation.Reservation) *ReservationResponse {
	return &ReservationResponse{
		ID:            r.ID(),
		UserID:        r.UserID(),
		ParkingSpotID: r.SpotID(),
		StartTime:     r.Window().Start(),
		EndTime:       r.Window().End(),
		Status:        r.Status().String(),
		Price:         toUnits(r.Price().Cents()),
		PriceCents:    r.Price().Cents(),
		PaymentMethod: r.PaymentMethod(),
		PaymentID:     r.PaymentRef(),
		QRToken:       r.QRToken(),
		CheckedOutAt:  r.CheckedOutAt(),
		RedeemedAt:    r.RedeemedAt(),
		CreatedAt:     r.CreatedAt(),
		UpdatedAt:     r.UpdatedAt(),
	}
}

func FromReservationView(v *queries.ReservationView) *ReservationResponse {
	locationID := v.LocationID
	return &ReservationResponse{
		ID:            v.ID,
		UserID:        v.UserID,
		ParkingSpotID: v.SpotID,
		SpotNumber:    v.SpotNumber,
		LocationID:    &locationID,
		LocationName:  v.LocationName,
		StartTime:     v.StartTime,
		EndTime:       v.EndTime,
		Status:        v.Status,
		Price:         toUnits(v.PriceCents),
		PriceCents:    v.PriceCents,
		PaymentMethod: v.PaymentMethod,
		PaymentID:     v.PaymentRef,
		QRToken:       v.QRToken,
		CheckedOutAt:  v.CheckedOutAt,
		RedeemedAt:    v.RedeemedAt,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

func FromReservationList(items []*queries.ReservationListItem, next *queries.Cursor) *ReservationListResponse {
	res := &ReservationListResponse{Items: make([]*ReservationListItemResponse, len(items))}
	for i, it := range items {
		res.Items[i] = &ReservationListItemResponse{
			ID:            it.ID,
			ParkingSpotID: it.SpotID,
			SpotNumber:    it.SpotNumber,
			LocationName:  it.LocationName,
			StartTime:     it.StartTime,
			EndTime:       it.EndTime,
			Status:        it.Status,
			Price:         toUnits(it.PriceCents),
			PriceCents:    it.PriceCents,
			CreatedAt:     it.CreatedAt,
		}
	}
	if next != nil {
		res.NextCursor = &next.After
	}
	return res
}

func toUnits(cents int64) float64 {
	return float64(cents) / 100
}
