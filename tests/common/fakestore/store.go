// Package fakestore is an in-memory shared.UnitOfWork for usecase tests.
// Within runs transactions one at a time against a copy of the state and
// commits the copy only when fn succeeds. Because transactions never overlap,
// the spot row lock is checked as a contract instead: inserting a reservation
// without locking its spot fails with ErrSpotNotLocked.
package fakestore

import (
	"context"
	"sort"
	"sync"
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

type idempotencyKey struct {
	key    uuid.UUID
	userID uuid.UUID
}

type state struct {
	users        map[uuid.UUID]*user.User
	locations    map[uuid.UUID]*location.Location
	spots        map[uuid.UUID]*spot.Spot
	reservations map[uuid.UUID]*reservation.Reservation
	charges      map[uuid.UUID]*charge.AdditionalCharge
	idempotency  map[idempotencyKey]*shared.IdempotencyRecord
	jobs         []*shared.OutboxJob
}

func newState() *state {
	return &state{
		users:        map[uuid.UUID]*user.User{},
		locations:    map[uuid.UUID]*location.Location{},
		spots:        map[uuid.UUID]*spot.Spot{},
		reservations: map[uuid.UUID]*reservation.Reservation{},
		charges:      map[uuid.UUID]*charge.AdditionalCharge{},
		idempotency:  map[idempotencyKey]*shared.IdempotencyRecord{},
	}
}

func cloneMap[K comparable, V any](src map[K]*V) map[K]*V {
	dst := make(map[K]*V, len(src))
	for k, v := range src {
		cp := *v
		dst[k] = &cp
	}
	return dst
}

func (s *state) clone() *state {
	jobs := make([]*shared.OutboxJob, 0, len(s.jobs))
	for _, j := range s.jobs {
		cp := *j
		jobs = append(jobs, &cp)
	}
	return &state{
		users:        cloneMap(s.users),
		locations:    cloneMap(s.locations),
		spots:        cloneMap(s.spots),
		reservations: cloneMap(s.reservations),
		charges:      cloneMap(s.charges),
		idempotency:  cloneMap(s.idempotency),
		jobs:         jobs,
	}
}

type Store struct {
	mu    sync.Mutex
	state *state

	failErr   error
	failCount int
	calls     int
}

func New() *Store {
	return &Store{state: newState()}
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.failCount > 0 {
		s.failCount--
		return s.failErr
	}

	work := s.state.clone()
	if err := fn(ctx, &fakeTx{st: work, lockedSpots: map[uuid.UUID]bool{}}); err != nil {
		return err
	}
	s.state = work
	return nil
}

// FailNext makes the next n calls to Within fail with err.
func (s *Store) FailNext(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCount = n
	s.failErr = err
}

// Calls counts Within invocations, including failed ones.
func (s *Store) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *Store) AddUser(u *user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.state.users[u.ID()] = &cp
}

func (s *Store) AddLocation(l *location.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *l
	s.state.locations[l.ID()] = &cp
}

func (s *Store) AddSpot(sp *spot.Spot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sp
	s.state.spots[sp.ID()] = &cp
}

func (s *Store) AddReservation(r *reservation.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	s.state.reservations[r.ID()] = &cp
}

func (s *Store) AddCharge(c *charge.AdditionalCharge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.state.charges[c.ID()] = &cp
}

func (s *Store) Spot(id uuid.UUID) *spot.Spot {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.state.spots[id]
	if !ok {
		return nil
	}
	cp := *sp
	return &cp
}

func (s *Store) Reservation(id uuid.UUID) *reservation.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.state.reservations[id]
	if !ok {
		return nil
	}
	cp := *r
	return &cp
}

func (s *Store) Reservations() []*reservation.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*reservation.Reservation, 0, len(s.state.reservations))
	for _, r := range s.state.reservations {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().Before(out[j].CreatedAt()) })
	return out
}

func (s *Store) Charges(reservationID uuid.UUID) []*charge.AdditionalCharge {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*charge.AdditionalCharge
	for _, c := range s.state.charges {
		if c.ReservationID() == reservationID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out
}

func (s *Store) Users() []*user.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*user.User, 0, len(s.state.users))
	for _, u := range s.state.users {
		cp := *u
		out = append(out, &cp)
	}
	return out
}

func (s *Store) IdempotencyRecord(key, userID uuid.UUID) *shared.IdempotencyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.state.idempotency[idempotencyKey{key: key, userID: userID}]
	if !ok {
		return nil
	}
	cp := *rec
	return &cp
}

func (s *Store) Jobs() []shared.OutboxJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]shared.OutboxJob, 0, len(s.state.jobs))
	for _, j := range s.state.jobs {
		out = append(out, *j)
	}
	return out
}

// JobTopics lists the topics of every outbox job in insertion order.
func (s *Store) JobTopics() []string {
	jobs := s.Jobs()
	topics := make([]string, 0, len(jobs))
	for _, j := range jobs {
		topics = append(topics, j.Topic)
	}
	return topics
}

func notFound(msg string) error {
	return infra.WrapRepoErr(msg, nil, infra.KindNotFound)
}

func stamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
