package converter

import (
	"parking-reservation/internal/domain/reservation"
	sqlc "parking-reservation/internal/infra/sqlc/generated"
	"parking-reservation/internal/pkg/pgconv"
)

func ReservationToInfra(res *reservation.Reservation) sqlc.CreateReservationParams {
	w := res.Window()
	return sqlc.CreateReservationParams{
		ID:            res.ID(),
		UserID:        res.UserID(),
		SpotID:        res.SpotID(),
		StartTime:     pgconv.TimeToPgtype(w.Start()),
		EndTime:       pgconv.TimeToPgtype(w.End()),
		Status:        res.Status().String(),
		PriceCents:    res.Price().Cents(),
		PaymentMethod: res.PaymentMethod(),
		PaymentRef:    pgconv.StringPtrToPgtype(res.PaymentRef()),
		QrToken:       res.QRToken(),
	}
}

func ReservationStateToInfra(res *reservation.Reservation) sqlc.UpdateReservationStateParams {
	return sqlc.UpdateReservationStateParams{
		ID:           res.ID(),
		Status:       res.Status().String(),
		PaymentRef:   pgconv.StringPtrToPgtype(res.PaymentRef()),
		CheckedOutAt: pgconv.TimePtrToPgtype(res.CheckedOutAt()),
		RedeemedAt:   pgconv.TimePtrToPgtype(res.RedeemedAt()),
	}
}

// ReservationToDomain normalizes the stored status; legacy casing is accepted.
func ReservationToDomain(row sqlc.Reservations) (*reservation.Reservation, error) {
	status, err := reservation.ParseStatus(row.Status)
	if err != nil {
		return nil, err
	}
	price, err := reservation.NewMoney(row.PriceCents)
	if err != nil {
		return nil, err
	}

	return reservation.ReconstructReservation(
		row.ID,
		row.UserID,
		row.SpotID,
		reservation.NewTimeWindow(pgconv.TimeFromPgtype(row.StartTime), pgconv.TimeFromPgtype(row.EndTime)),
		status,
		price,
		row.PaymentMethod,
		pgconv.StringPtrFromPgtype(row.PaymentRef),
		row.QrToken,
		pgconv.TimePtrFromPgtype(row.CheckedOutAt),
		pgconv.TimePtrFromPgtype(row.RedeemedAt),
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
	), nil
}

// BookingsToDomain keeps rows with unknown statuses out of the conflict set.
func BookingsToDomain(rows []sqlc.FindActiveOverlappingReservationsRow) []reservation.Booking {
	bookings := make([]reservation.Booking, 0, len(rows))
	for _, row := range rows {
		status, err := reservation.ParseStatus(row.Status)
		if err != nil {
			continue
		}
		bookings = append(bookings, reservation.Booking{
			ID:     row.ID,
			Window: reservation.NewTimeWindow(pgconv.TimeFromPgtype(row.StartTime), pgconv.TimeFromPgtype(row.EndTime)),
			Status: status,
		})
	}
	return bookings
}
