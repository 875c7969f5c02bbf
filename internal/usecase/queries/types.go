package queries

import (
	"time"

	"github.com/google/uuid"
)

// AuthorizedUserView represents read-optimized user data with authorization info
type AuthorizedUserView struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
}

type ReservationView struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	SpotID        uuid.UUID
	SpotNumber    string
	LocationID    uuid.UUID
	LocationName  string
	StartTime     time.Time
	EndTime       time.Time
	Status        string
	PriceCents    int64
	PaymentMethod string
	PaymentRef    *string
	QRToken       string
	CheckedOutAt  *time.Time
	RedeemedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type ReservationListItem struct {
	ID           uuid.UUID
	SpotID       uuid.UUID
	SpotNumber   string
	LocationName string
	StartTime    time.Time
	EndTime      time.Time
	Status       string
	PriceCents   int64
	CreatedAt    time.Time
}

type LocationView struct {
	ID        uuid.UUID
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type SpotView struct {
	ID              uuid.UUID
	LocationID      uuid.UUID
	SpotNumber      string
	HourlyRateCents int64
	IsAvailable     bool
	InService       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type ChargeView struct {
	ID              uuid.UUID
	ReservationID   uuid.UUID
	AmountCents     int64
	ExceededMinutes int
	Reason          string
	PaymentStatus   string
	CreatedAt       time.Time
}

// AvailabilityView is the result of a read-only booking probe.
type AvailabilityView struct {
	SpotID        uuid.UUID
	StartTime     time.Time
	EndTime       time.Time
	Available     bool
	Reason        string
	ConflictingID *uuid.UUID
	QuoteCents    int64
}

const (
	UnavailableConflict = "CONFLICT"
	UnavailableSpot     = "SPOT_UNAVAILABLE"
)

type OverstayView struct {
	ReservationID   uuid.UUID
	EndTime         time.Time
	State           string
	ExceededMinutes int
	AmountCents     int64
	EvaluatedAt     time.Time
	Charge          *ChargeView
}
