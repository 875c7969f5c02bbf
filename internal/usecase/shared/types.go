package shared

import (
	"time"

	"parking-reservation/internal/domain/user"

	"github.com/google/uuid"
)

const (
	IdempotencyProcessing = "processing"
	IdempotencyCompleted  = "completed"
)

type IdempotencyRecord struct {
	Key                 uuid.UUID
	UserID              uuid.UUID
	Endpoint            string
	Status              string
	RequestHash         string
	ResultReservationID *uuid.UUID
	ExpiresAt           time.Time
}

type ExpiredReservation struct {
	ID     uuid.UUID
	UserID uuid.UUID
	SpotID uuid.UUID
}

const (
	OutboxQueued = "queued"
	OutboxSent   = "sent"
	OutboxFailed = "failed"
)

type OutboxJob struct {
	ID        uuid.UUID
	Kind      string
	Topic     string
	Payload   []byte
	RunAt     time.Time
	Attempts  int
	Status    string
	LastError *string
}

// Actor is the authenticated caller of a command or query.
type Actor struct {
	UserID uuid.UUID
	Role   user.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role.AtLeast(user.RoleAdmin)
}

func (a Actor) IsStaff() bool {
	return a.Role.AtLeast(user.RoleOperator)
}

// CanAccess reports whether the actor may see a resource owned by ownerID.
func (a Actor) CanAccess(ownerID uuid.UUID) bool {
	return a.UserID == ownerID || a.IsStaff()
}
