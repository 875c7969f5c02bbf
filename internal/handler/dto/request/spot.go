package request

import (
	"strings"
	"time"
)

type CreateLocationRequest struct {
	Name    string `json:"name" binding:"required,notblank,max=100"`
	Address string `json:"address" binding:"required,notblank,max=255"`
}

type CreateSpotRequest struct {
	SpotNumber      string `json:"spotNumber" binding:"required,spotnumber"`
	HourlyRateCents int64  `json:"hourlyRateCents" binding:"gte=0"`
}

func (r CreateSpotRequest) Number() string {
	return strings.ToUpper(strings.TrimSpace(r.SpotNumber))
}

// UpdateSpotRequest only changes the fields that are present.
type UpdateSpotRequest struct {
	HourlyRateCents *int64 `json:"hourlyRateCents,omitempty" binding:"omitempty,gte=0"`
	InService       *bool  `json:"inService,omitempty"`
}

func (r UpdateSpotRequest) IsEmpty() bool {
	return r.HourlyRateCents == nil && r.InService == nil
}

type AvailabilityRequest struct {
	Start time.Time `form:"start" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	End   time.Time `form:"end" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
}
