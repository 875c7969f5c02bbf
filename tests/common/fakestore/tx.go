package fakestore

import (
	"context"
	"errors"
	"sort"
	"time"

	"parking-reservation/internal/domain/charge"
	"parking-reservation/internal/domain/location"
	"parking-reservation/internal/domain/reservation"
	"parking-reservation/internal/domain/spot"
	"parking-reservation/internal/domain/user"
	"parking-reservation/internal/infra"
	"parking-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

// ErrSpotNotLocked is returned by Reservations().Create when the transaction
// did not call Spots().FindByIDForUpdate for the booked spot.
var ErrSpotNotLocked = errors.New("fakestore: reservation inserted without locking its spot")

type fakeTx struct {
	st *state
	// spots locked with FindByIDForUpdate in this transaction
	lockedSpots map[uuid.UUID]bool
}

func (t *fakeTx) Spots() shared.SpotRepository                 { return spotRepo{st: t.st, tx: t} }
func (t *fakeTx) Locations() shared.LocationRepository         { return locationRepo{t.st} }
func (t *fakeTx) Reservations() shared.ReservationRepository   { return reservationRepo{st: t.st, tx: t} }
func (t *fakeTx) Charges() shared.ChargeRepository             { return chargeRepo{t.st} }
func (t *fakeTx) Idempotency() shared.IdempotencyRepository    { return idempotencyRepo{t.st} }
func (t *fakeTx) Notifications() shared.NotificationRepository { return notificationRepo{t.st} }
func (t *fakeTx) Users() shared.UserRepository                 { return userRepo{t.st} }

// spots

type spotRepo struct {
	st *state
	tx *fakeTx
}

func (r spotRepo) FindByID(_ context.Context, id uuid.UUID) (*spot.Spot, error) {
	sp, ok := r.st.spots[id]
	if !ok {
		return nil, notFound("parking spot not found")
	}
	cp := *sp
	return &cp, nil
}

func (r spotRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*spot.Spot, error) {
	sp, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.tx.lockedSpots[id] = true
	return sp, nil
}

func (r spotRepo) Create(_ context.Context, s *spot.Spot) error {
	if _, ok := r.st.locations[s.LocationID()]; !ok {
		return infra.WrapRepoErr("location does not exist", nil, infra.KindForeignKeyViolated)
	}
	for _, existing := range r.st.spots {
		if existing.LocationID() == s.LocationID() && existing.SpotNumber() == s.SpotNumber() {
			return infra.WrapRepoErr("spot number already used at location", nil, infra.KindDuplicateKey)
		}
	}
	now := time.Now().UTC()
	r.st.spots[s.ID()] = spot.ReconstructSpot(
		s.ID(), s.LocationID(), s.SpotNumber(), s.HourlyRateCents(),
		s.IsAvailable(), s.InService(), stamp(s.CreatedAt()), now,
	)
	return nil
}

func (r spotRepo) Update(_ context.Context, s *spot.Spot) error {
	existing, ok := r.st.spots[s.ID()]
	if !ok {
		return notFound("parking spot not found")
	}
	r.st.spots[s.ID()] = spot.ReconstructSpot(
		s.ID(), s.LocationID(), s.SpotNumber(), s.HourlyRateCents(),
		s.IsAvailable(), s.InService(), existing.CreatedAt(), time.Now().UTC(),
	)
	return nil
}

func (r spotRepo) RefreshAvailability(_ context.Context, spotID *uuid.UUID, now time.Time) (int64, error) {
	var changed int64
	for id, sp := range r.st.spots {
		if spotID != nil && id != *spotID {
			continue
		}
		next := sp.InService() && !r.occupiedAt(id, now)
		if next == sp.IsAvailable() {
			continue
		}
		r.st.spots[id] = spot.ReconstructSpot(
			sp.ID(), sp.LocationID(), sp.SpotNumber(), sp.HourlyRateCents(),
			next, sp.InService(), sp.CreatedAt(), now,
		)
		changed++
	}
	return changed, nil
}

func (r spotRepo) occupiedAt(spotID uuid.UUID, now time.Time) bool {
	for _, res := range r.st.reservations {
		if res.SpotID() != spotID || !res.Status().IsActive() {
			continue
		}
		w := res.Window()
		if !w.Start().After(now) && !w.End().Before(now) {
			return true
		}
	}
	return false
}

// locations

type locationRepo struct{ st *state }

func (r locationRepo) FindByID(_ context.Context, id uuid.UUID) (*location.Location, error) {
	l, ok := r.st.locations[id]
	if !ok {
		return nil, notFound("location not found")
	}
	cp := *l
	return &cp, nil
}

func (r locationRepo) Create(_ context.Context, l *location.Location) error {
	now := time.Now().UTC()
	r.st.locations[l.ID()] = location.ReconstructLocation(l.ID(), l.Name(), l.Address(), stamp(l.CreatedAt()), now)
	return nil
}

// reservations

type reservationRepo struct {
	st *state
	tx *fakeTx
}

func (r reservationRepo) FindActiveOverlapping(_ context.Context, spotID uuid.UUID, window reservation.TimeWindow) ([]reservation.Booking, error) {
	var out []reservation.Booking
	for _, res := range r.st.reservations {
		if res.SpotID() != spotID || !res.Status().IsActive() || !res.Window().Overlaps(window) {
			continue
		}
		out = append(out, reservation.Booking{ID: res.ID(), Window: res.Window(), Status: res.Status()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Window.Start().Before(out[j].Window.Start()) })
	return out, nil
}

// Create refuses inserts whose spot row was not locked first, so usecase tests
// catch a booking path that skips the lock even though Within is serialized.
func (r reservationRepo) Create(ctx context.Context, res *reservation.Reservation) error {
	if !r.tx.lockedSpots[res.SpotID()] {
		return ErrSpotNotLocked
	}
	// reservations_no_overlap
	existing, _ := r.FindActiveOverlapping(ctx, res.SpotID(), res.Window())
	if res.Status().IsActive() && len(existing) > 0 {
		return infra.WrapRepoErr("reservation overlaps an active booking", nil, infra.KindConflict)
	}
	r.st.reservations[res.ID()] = withTimestamps(res, stamp(res.CreatedAt()), time.Now().UTC())
	return nil
}

func (r reservationRepo) FindByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	res, ok := r.st.reservations[id]
	if !ok {
		return nil, notFound("reservation not found")
	}
	cp := *res
	return &cp, nil
}

func (r reservationRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	return r.FindByID(ctx, id)
}

func (r reservationRepo) FindByQRTokenForUpdate(_ context.Context, token string) (*reservation.Reservation, error) {
	for _, res := range r.st.reservations {
		if res.QRToken() == token {
			cp := *res
			return &cp, nil
		}
	}
	return nil, notFound("reservation not found")
}

func (r reservationRepo) UpdateState(_ context.Context, res *reservation.Reservation) error {
	existing, ok := r.st.reservations[res.ID()]
	if !ok {
		return notFound("reservation not found")
	}
	r.st.reservations[res.ID()] = withTimestamps(res, existing.CreatedAt(), time.Now().UTC())
	return nil
}

func (r reservationRepo) CancelExpiredPending(_ context.Context, now time.Time) ([]shared.ExpiredReservation, error) {
	return r.expire(reservation.StatusPending, reservation.StatusCancelled, now), nil
}

func (r reservationRepo) CompleteExpiredConfirmed(_ context.Context, now time.Time) ([]shared.ExpiredReservation, error) {
	return r.expire(reservation.StatusConfirmed, reservation.StatusCompleted, now), nil
}

func (r reservationRepo) expire(from, to reservation.Status, now time.Time) []shared.ExpiredReservation {
	var out []shared.ExpiredReservation
	for id, res := range r.st.reservations {
		if res.Status() != from || !res.Window().End().Before(now) {
			continue
		}
		r.st.reservations[id] = reservation.ReconstructReservation(
			res.ID(), res.UserID(), res.SpotID(), res.Window(), to, res.Price(),
			res.PaymentMethod(), res.PaymentRef(), res.QRToken(),
			res.CheckedOutAt(), res.RedeemedAt(), res.CreatedAt(), now,
		)
		out = append(out, shared.ExpiredReservation{ID: res.ID(), UserID: res.UserID(), SpotID: res.SpotID()})
	}
	return out
}

func withTimestamps(res *reservation.Reservation, createdAt, updatedAt time.Time) *reservation.Reservation {
	return reservation.ReconstructReservation(
		res.ID(), res.UserID(), res.SpotID(), res.Window(), res.Status(), res.Price(),
		res.PaymentMethod(), res.PaymentRef(), res.QRToken(),
		res.CheckedOutAt(), res.RedeemedAt(), createdAt, updatedAt,
	)
}

// charges

type chargeRepo struct{ st *state }

func (r chargeRepo) FindPaidByReservation(_ context.Context, reservationID uuid.UUID) (*charge.AdditionalCharge, error) {
	for _, c := range r.st.charges {
		if c.ReservationID() == reservationID && c.IsPaid() {
			cp := *c
			return &cp, nil
		}
	}
	return nil, notFound("paid charge not found")
}

func (r chargeRepo) Create(ctx context.Context, c *charge.AdditionalCharge) (*charge.AdditionalCharge, error) {
	if c.IsPaid() {
		// additional_charges_one_paid_idx
		if _, err := r.FindPaidByReservation(ctx, c.ReservationID()); err == nil {
			return nil, infra.WrapRepoErr("paid charge already recorded", nil, infra.KindDuplicateKey)
		}
	}
	now := time.Now().UTC()
	saved := charge.ReconstructAdditionalCharge(
		c.ID(), c.ReservationID(), c.AmountCents(), c.ExceededMinutes(),
		c.Reason(), c.PaymentStatus(), stamp(c.CreatedAt()), now,
	)
	r.st.charges[c.ID()] = saved
	cp := *saved
	return &cp, nil
}

// idempotency keys

type idempotencyRepo struct{ st *state }

func (r idempotencyRepo) TryInsert(_ context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	k := idempotencyKey{key: key, userID: userID}
	if _, ok := r.st.idempotency[k]; ok {
		return false, nil
	}
	r.st.idempotency[k] = &shared.IdempotencyRecord{
		Key:         key,
		UserID:      userID,
		Endpoint:    endpoint,
		Status:      shared.IdempotencyProcessing,
		RequestHash: requestHash,
		ExpiresAt:   expiresAt,
	}
	return true, nil
}

func (r idempotencyRepo) Get(_ context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	rec, ok := r.st.idempotency[idempotencyKey{key: key, userID: userID}]
	if !ok {
		return nil, notFound("idempotency key not found")
	}
	cp := *rec
	return &cp, nil
}

func (r idempotencyRepo) MarkCompleted(_ context.Context, key, userID uuid.UUID, _ string, reservationID uuid.UUID) error {
	rec, ok := r.st.idempotency[idempotencyKey{key: key, userID: userID}]
	if !ok {
		return notFound("idempotency key not found")
	}
	rec.Status = shared.IdempotencyCompleted
	rec.ResultReservationID = &reservationID
	return nil
}

func (r idempotencyRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var purged int64
	for k, rec := range r.st.idempotency {
		if rec.ExpiresAt.Before(now) {
			delete(r.st.idempotency, k)
			purged++
		}
	}
	return purged, nil
}

// outbox

type notificationRepo struct{ st *state }

func (r notificationRepo) Enqueue(_ context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	r.st.jobs = append(r.st.jobs, &shared.OutboxJob{
		ID:      uuid.New(),
		Kind:    kind,
		Topic:   topic,
		Payload: append([]byte(nil), payload...),
		RunAt:   runAt,
		Status:  shared.OutboxQueued,
	})
	return nil
}

func (r notificationRepo) ClaimDue(_ context.Context, now time.Time, limit int) ([]shared.OutboxJob, error) {
	var out []shared.OutboxJob
	for _, j := range r.st.jobs {
		if len(out) >= limit {
			break
		}
		if j.Status == shared.OutboxQueued && !j.RunAt.After(now) {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (r notificationRepo) UpdateStatus(_ context.Context, job shared.OutboxJob) error {
	for i, j := range r.st.jobs {
		if j.ID == job.ID {
			cp := job
			r.st.jobs[i] = &cp
			return nil
		}
	}
	return notFound("notification job not found")
}

func (r notificationRepo) PurgeBefore(_ context.Context, cutoff time.Time, includeQueued bool) (int64, error) {
	kept := r.st.jobs[:0]
	var purged int64
	for _, j := range r.st.jobs {
		if j.RunAt.Before(cutoff) && (j.Status != shared.OutboxQueued || includeQueued) {
			purged++
			continue
		}
		kept = append(kept, j)
	}
	r.st.jobs = kept
	return purged, nil
}

// users

type userRepo struct{ st *state }

func (r userRepo) Create(_ context.Context, u *user.User) error {
	for _, existing := range r.st.users {
		if existing.Email().Value() == u.Email().Value() {
			return infra.WrapRepoErr("email already registered", nil, infra.KindDuplicateKey)
		}
	}
	now := time.Now().UTC()
	r.st.users[u.ID()] = user.ReconstructUser(
		u.ID(), u.Email(), u.PasswordHash(), u.Role(), u.LastLogin(), u.IsActive(), stamp(u.CreatedAt()), now,
	)
	return nil
}

func (r userRepo) UpdateLastLogin(_ context.Context, userID uuid.UUID) error {
	u, ok := r.st.users[userID]
	if !ok {
		return notFound("user not found")
	}
	now := time.Now().UTC()
	r.st.users[userID] = user.ReconstructUser(
		u.ID(), u.Email(), u.PasswordHash(), u.Role(), &now, u.IsActive(), u.CreatedAt(), now,
	)
	return nil
}
