package location

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyName    = errors.New("location name cannot be empty")
	ErrNameTooLong  = errors.New("location name is too long (max 255 characters)")
	ErrEmptyAddress = errors.New("location address cannot be empty")
)

const MaxNameLength = 255

type Location struct {
	id        uuid.UUID
	name      string
	address   string
	createdAt time.Time
	updatedAt time.Time
}

func NewLocation(name, address string) (*Location, error) {
	name = strings.TrimSpace(name)
	address = strings.TrimSpace(address)

	if name == "" {
		return nil, ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return nil, ErrNameTooLong
	}
	if address == "" {
		return nil, ErrEmptyAddress
	}

	return &Location{
		id:      uuid.New(),
		name:    name,
		address: address,
	}, nil
}

func ReconstructLocation(id uuid.UUID, name, address string, createdAt, updatedAt time.Time) *Location {
	return &Location{
		id:        id,
		name:      name,
		address:   address,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (l *Location) ID() uuid.UUID        { return l.id }
func (l *Location) Name() string         { return l.name }
func (l *Location) Address() string      { return l.address }
func (l *Location) CreatedAt() time.Time { return l.createdAt }
func (l *Location) UpdatedAt() time.Time { return l.updatedAt }
