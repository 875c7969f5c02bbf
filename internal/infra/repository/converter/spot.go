package converter

import (
	"parking-reservation/internal/domain/charge"
	"parking-reservation/internal/domain/location"
	"parking-reservation/internal/domain/spot"
	sqlc "parking-reservation/internal/infra/sqlc/generated"
	"parking-reservation/internal/pkg/pgconv"
)

func SpotToDomain(row sqlc.ParkingSpots) *spot.Spot {
	return spot.ReconstructSpot(
		row.ID,
		row.LocationID,
		row.SpotNumber,
		row.HourlyRateCents,
		row.IsAvailable,
		row.InService,
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
	)
}

func LocationToDomain(row sqlc.Locations) *location.Location {
	return location.ReconstructLocation(
		row.ID,
		row.Name,
		row.Address,
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
	)
}

func ChargeToDomain(row sqlc.AdditionalCharges) (*charge.AdditionalCharge, error) {
	status, err := charge.ParsePaymentStatus(row.PaymentStatus)
	if err != nil {
		return nil, err
	}
	return charge.ReconstructAdditionalCharge(
		row.ID,
		row.ReservationID,
		row.AmountCents,
		int(row.ExceededMinutes),
		row.Reason,
		status,
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
	), nil
}
