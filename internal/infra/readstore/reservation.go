package readstore

import (
	"context"
	"time"

	"parking-reservation/internal/domain/reservation"
	"parking-reservation/internal/infra"
	"parking-reservation/internal/infra/repository/converter"
	sqlc "parking-reservation/internal/infra/sqlc/generated"
	"parking-reservation/internal/pkg/pgconv"
	"parking-reservation/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationViewQueries interface {
	GetReservationViewByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.GetReservationViewByIDRow, error)
	ListReservationsByUserFirstPage(ctx context.Context, db sqlc.DBTX, arg sqlc.ListReservationsByUserFirstPageParams) ([]sqlc.ListReservationsByUserFirstPageRow, error)
	ListReservationsByUserKeyset(ctx context.Context, db sqlc.DBTX, arg sqlc.ListReservationsByUserKeysetParams) ([]sqlc.ListReservationsByUserKeysetRow, error)
	FindActiveOverlappingReservations(ctx context.Context, db sqlc.DBTX, arg sqlc.FindActiveOverlappingReservationsParams) ([]sqlc.FindActiveOverlappingReservationsRow, error)
}

type ReservationReadStore struct {
	queries ReservationViewQueries
	db      sqlc.DBTX
}

func NewReservationReadStore(queries ReservationViewQueries, db sqlc.DBTX) *ReservationReadStore {
	return &ReservationReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	row, err := r.queries.GetReservationViewByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}

	return &queries.ReservationView{
		ID:            row.ID,
		UserID:        row.UserID,
		SpotID:        row.SpotID,
		SpotNumber:    row.SpotNumber,
		LocationID:    row.LocationID,
		LocationName:  row.LocationName,
		StartTime:     pgconv.TimeFromPgtype(row.StartTime),
		EndTime:       pgconv.TimeFromPgtype(row.EndTime),
		Status:        normalizeStatus(row.Status),
		PriceCents:    row.PriceCents,
		PaymentMethod: row.PaymentMethod,
		PaymentRef:    pgconv.StringPtrFromPgtype(row.PaymentRef),
		QRToken:       row.QrToken,
		CheckedOutAt:  pgconv.TimePtrFromPgtype(row.CheckedOutAt),
		RedeemedAt:    pgconv.TimePtrFromPgtype(row.RedeemedAt),
		CreatedAt:     pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:     pgconv.TimeFromPgtype(row.UpdatedAt),
	}, nil
}

func (r *ReservationReadStore) ListByUserFirstPage(ctx context.Context, userID uuid.UUID, limit int) ([]*queries.ReservationListItem, error) {
	rows, err := r.queries.ListReservationsByUserFirstPage(ctx, r.db, sqlc.ListReservationsByUserFirstPageParams{
		UserID: userID,
		// #nosec G115 -- limit is capped by queries.ValidateLimit
		Lim: int32(limit),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}

	items := make([]*queries.ReservationListItem, len(rows))
	for i, row := range rows {
		items[i] = toListItem(sqlc.ListReservationsByUserKeysetRow(row))
	}
	return items, nil
}

func (r *ReservationReadStore) ListByUserKeyset(
	ctx context.Context,
	userID uuid.UUID,
	lastCreatedAt time.Time,
	lastID uuid.UUID,
	limit int,
) ([]*queries.ReservationListItem, error) {
	rows, err := r.queries.ListReservationsByUserKeyset(ctx, r.db, sqlc.ListReservationsByUserKeysetParams{
		UserID:        userID,
		LastCreatedAt: pgconv.TimeToPgtype(lastCreatedAt),
		LastID:        lastID,
		// #nosec G115 -- limit is capped by queries.ValidateLimit
		Lim: int32(limit),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations after cursor", err)
	}

	items := make([]*queries.ReservationListItem, len(rows))
	for i, row := range rows {
		items[i] = toListItem(row)
	}
	return items, nil
}

func (r *ReservationReadStore) FindActiveOverlapping(ctx context.Context, spotID uuid.UUID, window reservation.TimeWindow) ([]reservation.Booking, error) {
	rows, err := r.queries.FindActiveOverlappingReservations(ctx, r.db, sqlc.FindActiveOverlappingReservationsParams{
		SpotID:    spotID,
		StartTime: pgconv.TimeToPgtype(window.Start()),
		EndTime:   pgconv.TimeToPgtype(window.End()),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find overlapping reservations", err)
	}

	return converter.BookingsToDomain(rows), nil
}

func toListItem(row sqlc.ListReservationsByUserKeysetRow) *queries.ReservationListItem {
	return &queries.ReservationListItem{
		ID:           row.ID,
		SpotID:       row.SpotID,
		SpotNumber:   row.SpotNumber,
		LocationName: row.LocationName,
		StartTime:    pgconv.TimeFromPgtype(row.StartTime),
		EndTime:      pgconv.TimeFromPgtype(row.EndTime),
		Status:       normalizeStatus(row.Status),
		PriceCents:   row.PriceCents,
		CreatedAt:    pgconv.TimeFromPgtype(row.CreatedAt),
	}
}

// normalizeStatus keeps unknown stored values visible instead of failing the read.
func normalizeStatus(raw string) string {
	status, err := reservation.ParseStatus(raw)
	if err != nil {
		return raw
	}
	return status.String()
}
