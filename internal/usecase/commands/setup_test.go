//go:build unit

package commands_test

import (
	"time"

	"parking-reservation/internal/domain/location"
	"parking-reservation/internal/domain/overstay"
	"parking-reservation/internal/domain/reservation"
	"parking-reservation/internal/domain/spot"
	"parking-reservation/internal/domain/user"
	"parking-reservation/internal/pkg/clock"
	"parking-reservation/internal/pkg/ptr"
	"parking-reservation/internal/pkg/qrtoken"
	"parking-reservation/internal/usecase/commands"
	"parking-reservation/internal/usecase/shared"
	"parking-reservation/tests/common/fakestore"

	"github.com/google/uuid"
)

var baseTime = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store    *fakestore.Store
	clock    *clock.MockClock
	location *location.Location
	spot     *spot.Spot
	driver   shared.Actor
	other    shared.Actor
	operator shared.Actor
	admin    shared.Actor
}

func newFixture() *fixture {
	store := fakestore.New()

	loc, err := location.NewLocation("Central Garage", "1 Main St")
	if err != nil {
		panic(err)
	}
	store.AddLocation(loc)

	sp, err := spot.NewSpot(loc.ID(), "A-01", 500)
	if err != nil {
		panic(err)
	}
	store.AddSpot(sp)

	return &fixture{
		store:    store,
		clock:    clock.NewMockClock(baseTime),
		location: loc,
		spot:     sp,
		driver:   shared.Actor{UserID: uuid.New(), Role: user.RoleDriver},
		other:    shared.Actor{UserID: uuid.New(), Role: user.RoleDriver},
		operator: shared.Actor{UserID: uuid.New(), Role: user.RoleOperator},
		admin:    shared.Actor{UserID: uuid.New(), Role: user.RoleAdmin},
	}
}

func (f *fixture) reservationCommands() commands.ReservationCommands {
	return commands.NewReservationCommands(
		f.store,
		reservation.NewWindowPolicy(24*time.Hour, 30*24*time.Hour),
		reservation.NewTieredPriceCalculator(10000),
		commands.ReservationSettings{RedeemEarly: 15 * time.Minute, IdempotencyTTL: 24 * time.Hour},
		f.clock,
	)
}

func (f *fixture) evaluator() *overstay.Evaluator {
	return overstay.NewEvaluator(overstay.NewBlockRatePolicy(15, 500))
}

// seedReservation stores a reservation on the fixture spot directly.
func (f *fixture) seedReservation(owner uuid.UUID, status reservation.Status, start, end time.Time) *reservation.Reservation {
	token, err := qrtoken.New()
	if err != nil {
		panic(err)
	}
	var paymentRef *string
	if status != reservation.StatusPending {
		paymentRef = ptr.Of("pay_" + uuid.NewString())
	}
	res := reservation.ReconstructReservation(
		uuid.New(), owner, f.spot.ID(),
		reservation.NewTimeWindow(start, end),
		status, reservation.MustMoney(10000),
		reservation.DefaultPaymentMethod, paymentRef, token,
		nil, nil, baseTime, baseTime,
	)
	f.store.AddReservation(res)
	return res
}
