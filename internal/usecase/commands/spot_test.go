//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"parking-reservation/internal/domain/reservation"
	reqdto "parking-reservation/internal/handler/dto/request"
	"parking-reservation/internal/pkg/errs"
	"parking-reservation/internal/pkg/ptr"
	"parking-reservation/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpotCommands(t *testing.T) {
	ctx := context.Background()

	t.Run("ロケーションとスポットを作成できる", func(t *testing.T) {
		f := newFixture()
		cmds := commands.NewSpotCommands(f.store, f.clock)

		loc, err := cmds.CreateLocation(ctx, reqdto.CreateLocationRequest{Name: "North Lot", Address: "2 River Rd"})
		require.NoError(t, err)

		created, err := cmds.CreateSpot(ctx, loc.ID(), reqdto.CreateSpotRequest{SpotNumber: " b-12 ", HourlyRateCents: 300})
		require.NoError(t, err)
		assert.Equal(t, "B-12", created.SpotNumber())
		assert.True(t, created.IsAvailable())
		assert.NotNil(t, f.store.Spot(created.ID()))
	})

	t.Run("同じロケーションで番号が重複すると拒否する", func(t *testing.T) {
		f := newFixture()
		cmds := commands.NewSpotCommands(f.store, f.clock)

		_, err := cmds.CreateSpot(ctx, f.location.ID(), reqdto.CreateSpotRequest{SpotNumber: "a-01", HourlyRateCents: 300})

		assert.True(t, errs.Is(err, commands.ErrSpotNumberTaken))
	})

	t.Run("存在しないロケーション", func(t *testing.T) {
		f := newFixture()
		cmds := commands.NewSpotCommands(f.store, f.clock)

		_, err := cmds.CreateSpot(ctx, uuid.New(), reqdto.CreateSpotRequest{SpotNumber: "C-1", HourlyRateCents: 300})

		assert.ErrorIs(t, err, commands.ErrLocationNotFound)
	})

	t.Run("空のロケーション名は不正", func(t *testing.T) {
		f := newFixture()
		cmds := commands.NewSpotCommands(f.store, f.clock)

		_, err := cmds.CreateLocation(ctx, reqdto.CreateLocationRequest{Name: " ", Address: "somewhere"})

		assert.True(t, errs.Is(err, commands.ErrInvalidLocation))
	})

	t.Run("休止と再開で空き状態が再計算される", func(t *testing.T) {
		f := newFixture()
		cmds := commands.NewSpotCommands(f.store, f.clock)
		f.seedReservation(f.driver.UserID, reservation.StatusConfirmed, baseTime.Add(-time.Hour), baseTime.Add(time.Hour))

		paused, err := cmds.UpdateSpot(ctx, f.spot.ID(), reqdto.UpdateSpotRequest{InService: ptr.Of(false), HourlyRateCents: ptr.Of(int64(800))})
		require.NoError(t, err)
		assert.False(t, paused.InService())
		assert.False(t, paused.IsAvailable())
		assert.Equal(t, int64(800), paused.HourlyRateCents())

		// still occupied by the running booking
		resumed, err := cmds.UpdateSpot(ctx, f.spot.ID(), reqdto.UpdateSpotRequest{InService: ptr.Of(true)})
		require.NoError(t, err)
		assert.True(t, resumed.InService())
		assert.False(t, resumed.IsAvailable())

		f.clock.Add(2 * time.Hour)
		resumed, err = cmds.UpdateSpot(ctx, f.spot.ID(), reqdto.UpdateSpotRequest{InService: ptr.Of(true)})
		require.NoError(t, err)
		assert.True(t, resumed.IsAvailable())
	})

	t.Run("休止中のスポットは予約できない", func(t *testing.T) {
		f := newFixture()
		_, err := commands.NewSpotCommands(f.store, f.clock).UpdateSpot(ctx, f.spot.ID(), reqdto.UpdateSpotRequest{InService: ptr.Of(false)})
		require.NoError(t, err)

		_, err = f.reservationCommands().Create(ctx, reqdto.CreateReservationRequest{
			ParkingSpotID: f.spot.ID(),
			StartTime:     baseTime.Add(time.Hour),
			EndTime:       baseTime.Add(2 * time.Hour),
		}, f.driver, nil)

		assert.True(t, errs.Is(err, commands.ErrSpotUnavailable))
	})
}
