package response

import (
	"time"

	"parking-reservation/internal/domain/location"
	"parking-reservation/internal/domain/spot"
	"parking-reservation/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type LocationResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SpotResponse struct {
	ID              uuid.UUID `json:"id"`
	LocationID      uuid.UUID `json:"locationId"`
	SpotNumber      string    `json:"spotNumber"`
	HourlyRateCents int64     `json:"hourlyRateCents"`
	IsAvailable     bool      `json:"isAvailable"`
	InService       bool      `json:"inService"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type AvailabilityResponse struct {
	ParkingSpotID uuid.UUID  `json:"parkingSpotId"`
	StartTime     time.Time  `json:"startTime"`
	EndTime       time.Time  `json:"endTime"`
	Available     bool       `json:"available"`
	Reason        string     `json:"reason,omitempty"`
	ConflictingID *uuid.UUID `json:"conflictingReservationId,omitempty"`
	QuotedPrice   float64    `json:"quotedPrice"`
	QuotedCents   int64      `json:"quotedPriceCents"`
}

func FromLocationViews(views []*queries.LocationView) ([]*LocationResponse, error) {
	res := make([]*LocationResponse, 0, len(views))
	if err := copier.Copy(&res, views); err != nil {
		return nil, err
	}
	return res, nil
}

func FromSpotViews(views []*queries.SpotView) ([]*SpotResponse, error) {
	res := make([]*SpotResponse, 0, len(views))
	if err := copier.Copy(&res, views); err != nil {
		return nil, err
	}
	return res, nil
}

func FromSpotView(v *queries.SpotView) (*SpotResponse, error) {
	var res SpotResponse
	if err := copier.Copy(&res, v); err != nil {
		return nil, err
	}
	return &res, nil
}

func FromLocation(l *location.Location) *LocationResponse {
	return &LocationResponse{
		ID:        l.ID(),
		Name:      l.Name(),
		Address:   l.Address(),
		CreatedAt: l.CreatedAt(),
		UpdatedAt: l.UpdatedAt(),
	}
}

func FromSpot(s *spot.Spot) *SpotResponse {
	return &SpotResponse{
		ID:              s.ID(),
		LocationID:      s.LocationID(),
		SpotNumber:      s.SpotNumber(),
		HourlyRateCents: s.HourlyRateCents(),
		IsAvailable:     s.IsAvailable(),
		InService:       s.InService(),
		CreatedAt:       s.CreatedAt(),
		UpdatedAt:       s.UpdatedAt(),
	}
}

func FromAvailabilityView(v *queries.AvailabilityView) *AvailabilityResponse {
	return &AvailabilityResponse{
		ParkingSpotID: v.SpotID,
		StartTime:     v.StartTime,
		EndTime:       v.EndTime,
		Available:     v.Available,
		Reason:        v.Reason,
		ConflictingID: v.ConflictingID,
		QuotedPrice:   toUnits(v.QuoteCents),
		QuotedCents:   v.QuoteCents,
	}
}
