package repository

import (
	"context"

	"parking-reservation/internal/domain/charge"
	"parking-reservation/internal/infra"
	"parking-reservation/internal/infra/repository/converter"
	sqlc "parking-reservation/internal/infra/sqlc/generated"
	"parking-reservation/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type ChargeWriteQueries interface {
	GetPaidChargeByReservation(ctx context.Context, db sqlc.DBTX, reservationID uuid.UUID) (sqlc.AdditionalCharges, error)
	CreateAdditionalCharge(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateAdditionalChargeParams) (sqlc.AdditionalCharges, error)
}

type ChargeRepository struct {
	queries ChargeWriteQueries
	db      sqlc.DBTX
}

func NewChargeRepository(queries ChargeWriteQueries, db sqlc.DBTX) *ChargeRepository {
	return &ChargeRepository{
		queries: queries,
		db:      db,
	}
}

func (r *ChargeRepository) FindPaidByReservation(ctx context.Context, reservationID uuid.UUID) (*charge.AdditionalCharge, error) {
	row, err := r.queries.GetPaidChargeByReservation(ctx, r.db, reservationID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("paid charge not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find paid charge", err)
	}

	c, err := converter.ChargeToDomain(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert charge", err, infra.KindDBFailure)
	}
	return c, nil
}

// Create reports KindDuplicateKey when a paid charge already exists.
func (r *ChargeRepository) Create(ctx context.Context, c *charge.AdditionalCharge) (*charge.AdditionalCharge, error) {
	row, err := r.queries.CreateAdditionalCharge(ctx, r.db, sqlc.CreateAdditionalChargeParams{
		ID:            c.ID(),
		ReservationID: c.ReservationID(),
		AmountCents:   c.AmountCents(),
		// #nosec G115 -- NewPaidOverstayCharge rejects values above charge.MaxExceededMinutes
		ExceededMinutes: int32(c.ExceededMinutes()),
		Reason:          c.Reason(),
		PaymentStatus:   c.PaymentStatus().String(),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to create additional charge", err)
	}

	saved, err := converter.ChargeToDomain(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert charge", err, infra.KindDBFailure)
	}
	return saved, nil
}
