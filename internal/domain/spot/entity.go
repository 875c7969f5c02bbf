package spot

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptySpotNumber    = errors.New("spot number cannot be empty")
	ErrSpotNumberTooLong  = errors.New("spot number is too long (max 20 characters)")
	ErrNegativeHourlyRate = errors.New("hourly rate cannot be negative")
	ErrSpotUnavailable    = errors.New("parking spot is not available")
)

const MaxSpotNumberLength = 20

// Spot is a single bay at a location. isAvailable is a cached hint; the
// reservation table is the authority on occupancy.
type Spot struct {
	id              uuid.UUID
	locationID      uuid.UUID
	spotNumber      string
	hourlyRateCents int64
	isAvailable     bool
	inService       bool
	createdAt       time.Time
	updatedAt       time.Time
}

func NewSpot(locationID uuid.UUID, spotNumber string, hourlyRateCents int64) (*Spot, error) {
	spotNumber = strings.TrimSpace(spotNumber)
	if err := validateSpotNumber(spotNumber); err != nil {
		return nil, err
	}
	if hourlyRateCents < 0 {
		return nil, ErrNegativeHourlyRate
	}

	return &Spot{
		id:              uuid.New(),
		locationID:      locationID,
		spotNumber:      spotNumber,
		hourlyRateCents: hourlyRateCents,
		isAvailable:     true,
		inService:       true,
	}, nil
}

func ReconstructSpot(
	id, locationID uuid.UUID,
	spotNumber string,
	hourlyRateCents int64,
	isAvailable, inService bool,
	createdAt, updatedAt time.Time,
) *Spot {
	return &Spot{
		id:              id,
		locationID:      locationID,
		spotNumber:      spotNumber,
		hourlyRateCents: hourlyRateCents,
		isAvailable:     isAvailable,
		inService:       inService,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// EnsureBookable is the coarse gate run before the conflict search.
func (s *Spot) EnsureBookable() error {
	if !s.inService || !s.isAvailable {
		return ErrSpotUnavailable
	}
	return nil
}

func (s *Spot) ChangeHourlyRate(cents int64) error {
	if cents < 0 {
		return ErrNegativeHourlyRate
	}
	s.hourlyRateCents = cents
	return nil
}

func (s *Spot) SetInService(inService bool) {
	s.inService = inService
	if !inService {
		s.isAvailable = false
	}
}

func (s *Spot) MarkOccupied() {
	s.isAvailable = false
}

func validateSpotNumber(n string) error {
	if n == "" {
		return ErrEmptySpotNumber
	}
	if len(n) > MaxSpotNumberLength {
		return ErrSpotNumberTooLong
	}
	return nil
}

func (s *Spot) ID() uuid.UUID          { return s.id }
func (s *Spot) LocationID() uuid.UUID  { return s.locationID }
func (s *Spot) SpotNumber() string     { return s.spotNumber }
func (s *Spot) HourlyRateCents() int64 { return s.hourlyRateCents }
func (s *Spot) IsAvailable() bool      { return s.isAvailable }
func (s *Spot) InService() bool        { return s.inService }
func (s *Spot) CreatedAt() time.Time   { return s.createdAt }
func (s *Spot) UpdatedAt() time.Time   { return s.updatedAt }
