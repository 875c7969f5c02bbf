//go:build unit || e2e

package builder

import (
	"time"

	"parking-reservation/internal/domain/location"
	"parking-reservation/internal/domain/spot"
	reqdto "parking-reservation/internal/handler/dto/request"
	"parking-reservation/internal/usecase/queries"

	"github.com/google/uuid"
)

type SpotBuilder struct {
	ID              uuid.UUID
	LocationID      uuid.UUID
	LocationName    string
	Address         string
	SpotNumber      string
	HourlyRateCents int64
	IsAvailable     bool
	InService       bool
	CreatedAt       time.Time
}

func NewSpotBuilder() *SpotBuilder {
	return &SpotBuilder{
		ID:              uuid.New(),
		LocationID:      uuid.New(),
		LocationName:    "Central Garage",
		Address:         "1 Main St",
		SpotNumber:      "A-01",
		HourlyRateCents: 500,
		IsAvailable:     true,
		InService:       true,
		CreatedAt:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *SpotBuilder) With(mutate func(*SpotBuilder)) *SpotBuilder {
	mutate(s)
	return s
}

func (s *SpotBuilder) BuildDomain() *spot.Spot {
	return spot.ReconstructSpot(s.ID, s.LocationID, s.SpotNumber, s.HourlyRateCents, s.IsAvailable, s.InService, s.CreatedAt, s.CreatedAt)
}

func (s *SpotBuilder) BuildLocation() *location.Location {
	return location.ReconstructLocation(s.LocationID, s.LocationName, s.Address, s.CreatedAt, s.CreatedAt)
}

func (s *SpotBuilder) BuildView() *queries.SpotView {
	return &queries.SpotView{
		ID:              s.ID,
		LocationID:      s.LocationID,
		SpotNumber:      s.SpotNumber,
		HourlyRateCents: s.HourlyRateCents,
		IsAvailable:     s.IsAvailable,
		InService:       s.InService,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.CreatedAt,
	}
}

func (s *SpotBuilder) BuildLocationView() *queries.LocationView {
	return &queries.LocationView{
		ID:        s.LocationID,
		Name:      s.LocationName,
		Address:   s.Address,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.CreatedAt,
	}
}

func (s *SpotBuilder) BuildCreateRequestDTO() reqdto.CreateSpotRequest {
	return reqdto.CreateSpotRequest{
		SpotNumber:      s.SpotNumber,
		HourlyRateCents: s.HourlyRateCents,
	}
}
