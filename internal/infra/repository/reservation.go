package repository

import (
	"context"
	"time"

	"parking-reservation/internal/domain/reservation"
	"parking-reservation/internal/infra"
	"parking-reservation/internal/infra/repository/converter"
	sqlc "parking-reservation/internal/infra/sqlc/generated"
	"parking-reservation/internal/pkg/pgconv"
	"parking-reservation/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReservationWriteQueries interface {
	FindActiveOverlappingReservations(ctx context.Context, db sqlc.DBTX, arg sqlc.FindActiveOverlappingReservationsParams) ([]sqlc.FindActiveOverlappingReservationsRow, error)
	CreateReservation(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateReservationParams) (uuid.UUID, error)
	GetReservationByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Reservations, error)
	GetReservationForUpdate(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Reservations, error)
	GetReservationByQRTokenForUpdate(ctx context.Context, db sqlc.DBTX, qrToken string) (sqlc.Reservations, error)
	UpdateReservationState(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateReservationStateParams) error
	CancelExpiredPendingReservations(ctx context.Context, db sqlc.DBTX, now pgtype.Timestamptz) ([]sqlc.CancelExpiredPendingReservationsRow, error)
	CompleteExpiredConfirmedReservations(ctx context.Context, db sqlc.DBTX, now pgtype.Timestamptz) ([]sqlc.CompleteExpiredConfirmedReservationsRow, error)
}

type ReservationRepository struct {
	queries ReservationWriteQueries
	db      sqlc.DBTX
}

func NewReservationRepository(queries ReservationWriteQueries, db sqlc.DBTX) *ReservationRepository {
	return &ReservationRepository{
		queries: queries,
		db:      db,
	}
}

func (r *ReservationRepository) FindActiveOverlapping(ctx context.Context, spotID uuid.UUID, window reservation.TimeWindow) ([]reservation.Booking, error) {
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

// Create maps the reservations_no_overlap exclusion violation to KindConflict.
func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	_, err := r.queries.CreateReservation(ctx, r.db, converter.ReservationToInfra(res))
	if err != nil {
		return infra.WrapRepoErr("failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	row, err := r.queries.GetReservationByID(ctx, r.db, id)
	return r.toDomain(row, err, "failed to find reservation")
}

func (r *ReservationRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	row, err := r.queries.GetReservationForUpdate(ctx, r.db, id)
	return r.toDomain(row, err, "failed to lock reservation")
}

func (r *ReservationRepository) FindByQRTokenForUpdate(ctx context.Context, token string) (*reservation.Reservation, error) {
	row, err := r.queries.GetReservationByQRTokenForUpdate(ctx, r.db, token)
	return r.toDomain(row, err, "failed to lock reservation by qr token")
}

func (r *ReservationRepository) UpdateState(ctx context.Context, res *reservation.Reservation) error {
	if err := r.queries.UpdateReservationState(ctx, r.db, converter.ReservationStateToInfra(res)); err != nil {
		return infra.WrapRepoErr("failed to update reservation state", err)
	}
	return nil
}

func (r *ReservationRepository) CancelExpiredPending(ctx context.Context, now time.Time) ([]shared.ExpiredReservation, error) {
	rows, err := r.queries.CancelExpiredPendingReservations(ctx, r.db, pgconv.TimeToPgtype(now))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to cancel expired pending reservations", err)
	}

	result := make([]shared.ExpiredReservation, len(rows))
	for i, row := range rows {
		result[i] = shared.ExpiredReservation{ID: row.ID, UserID: row.UserID, SpotID: row.SpotID}
	}
	return result, nil
}

func (r *ReservationRepository) CompleteExpiredConfirmed(ctx context.Context, now time.Time) ([]shared.ExpiredReservation, error) {
	rows, err := r.queries.CompleteExpiredConfirmedReservations(ctx, r.db, pgconv.TimeToPgtype(now))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to complete expired reservations", err)
	}

	result := make([]shared.ExpiredReservation, len(rows))
	for i, row := range rows {
		result[i] = shared.ExpiredReservation{ID: row.ID, UserID: row.UserID, SpotID: row.SpotID}
	}
	return result, nil
}

func (r *ReservationRepository) toDomain(row sqlc.Reservations, err error, msg string) (*reservation.Reservation, error) {
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr(msg, err)
	}

	res, convErr := converter.ReservationToDomain(row)
	if convErr != nil {
		return nil, infra.WrapRepoErr("failed to convert reservation", convErr, infra.KindDBFailure)
	}
	return res, nil
}
