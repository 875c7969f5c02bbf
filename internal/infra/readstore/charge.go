package readstore

import (
	"context"

	"parking-reservation/internal/infra"
	sqlc "parking-reservation/internal/infra/sqlc/generated"
	"parking-reservation/internal/pkg/pgconv"
	"parking-reservation/internal/usecase/queries"

	"github.com/google/uuid"
)

type ChargeReadQueries interface {
	GetPaidChargeByReservation(ctx context.Context, db sqlc.DBTX, reservationID uuid.UUID) (sqlc.AdditionalCharges, error)
}

type ChargeReadStore struct {
	queries ChargeReadQueries
	db      sqlc.DBTX
}

func NewChargeReadStore(queries ChargeReadQueries, db sqlc.DBTX) *ChargeReadStore {
	return &ChargeReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *ChargeReadStore) FindPaidByReservation(ctx context.Context, reservationID uuid.UUID) (*queries.ChargeView, error) {
	row, err := r.queries.GetPaidChargeByReservation(ctx, r.db, reservationID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("paid charge not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find paid charge", err)
	}

	return &queries.ChargeView{
		ID:              row.ID,
		ReservationID:   row.ReservationID,
		AmountCents:     row.AmountCents,
		ExceededMinutes: int(row.ExceededMinutes),
		Reason:          row.Reason,
		PaymentStatus:   row.PaymentStatus,
		CreatedAt:       pgconv.TimeFromPgtype(row.CreatedAt),
	}, nil
}
