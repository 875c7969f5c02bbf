package queries

import (
	"context"
	"time"

	"parking-reservation/internal/domain/reservation"
	"parking-reservation/internal/infra"
	"parking-reservation/internal/pkg/errs"
	"parking-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound = errs.New("reservation view not found")
	ErrReservationAccess   = errs.New("reservation view access denied")
	ErrInvalidCursor       = errs.New("invalid cursor")
)

type ReservationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	ListByUserFirstPage(ctx context.Context, userID uuid.UUID, limit int) ([]*ReservationListItem, error)
	ListByUserKeyset(ctx context.Context, userID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int) ([]*ReservationListItem, error)
	FindActiveOverlapping(ctx context.Context, spotID uuid.UUID, window reservation.TimeWindow) ([]reservation.Booking, error)
}

type ReservationQueries interface {
	GetByID(ctx context.Context, id uuid.UUID, actor shared.Actor) (*ReservationView, error)
	// ListByUser returns the actor's reservations newest first and the cursor of the next page.
	ListByUser(ctx context.Context, actor shared.Actor, cursor *Cursor, limit int) ([]*ReservationListItem, *Cursor, error)
}

type reservationQueriesImpl struct {
	readStore ReservationReadStore
}

func NewReservationQueries(readStore ReservationReadStore) ReservationQueries {
	return &reservationQueriesImpl{readStore: readStore}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, id uuid.UUID, actor shared.Actor) (*ReservationView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}

	if !actor.CanAccess(view.UserID) {
		return nil, ErrReservationAccess
	}

	return view, nil
}

func (q *reservationQueriesImpl) ListByUser(ctx context.Context, actor shared.Actor, cursor *Cursor, limit int) ([]*ReservationListItem, *Cursor, error) {
	limit = ValidateLimit(limit)

	// one extra row tells whether another page exists
	var (
		items []*ReservationListItem
		err   error
	)
	if cursor == nil || cursor.After == "" {
		items, err = q.readStore.ListByUserFirstPage(ctx, actor.UserID, limit+1)
	} else {
		lastCreatedAt, lastID, decodeErr := DecodeAfterCursor(cursor.After)
		if decodeErr != nil {
			return nil, nil, errs.Mark(decodeErr, ErrInvalidCursor)
		}
		items, err = q.readStore.ListByUserKeyset(ctx, actor.UserID, lastCreatedAt, lastID, limit+1)
	}
	if err != nil {
		return nil, nil, err
	}

	if len(items) <= limit {
		return items, nil, nil
	}

	items = items[:limit]
	last := items[len(items)-1]
	return items, &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}, nil
}
