//go:build unit

package readstore

import (
	"context"
	"testing"
	"time"

	"parking-reservation/internal/domain/reservation"
	"parking-reservation/internal/infra"
	sqlc "parking-reservation/internal/infra/sqlc/generated"
	"parking-reservation/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReservationViewQueries struct {
	mock.Mock
}

func (m *MockReservationViewQueries) GetReservationViewByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.GetReservationViewByIDRow, error) {
	args := m.Called(ctx, db, id)
	return args.Get(0).(sqlc.GetReservationViewByIDRow), args.Error(1)
}

func (m *MockReservationViewQueries) ListReservationsByUserFirstPage(ctx context.Context, db sqlc.DBTX, arg sqlc.ListReservationsByUserFirstPageParams) ([]sqlc.ListReservationsByUserFirstPageRow, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).([]sqlc.ListReservationsByUserFirstPageRow), args.Error(1)
}

func (m *MockReservationViewQueries) ListReservationsByUserKeyset(ctx context.Context, db sqlc.DBTX, arg sqlc.ListReservationsByUserKeysetParams) ([]sqlc.ListReservationsByUserKeysetRow, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).([]sqlc.ListReservationsByUserKeysetRow), args.Error(1)
}

func (m *MockReservationViewQueries) FindActiveOverlappingReservations(ctx context.Context, db sqlc.DBTX, arg sqlc.FindActiveOverlappingReservationsParams) ([]sqlc.FindActiveOverlappingReservationsRow, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).([]sqlc.FindActiveOverlappingReservationsRow), args.Error(1)
}

func TestReservationReadStore_FindByID(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	id := uuid.New()

	t.Run("基本成功ケース: legacy casing is normalized", func(t *testing.T) {
		mockQueries := new(MockReservationViewQueries)
		mockQueries.On("GetReservationViewByID", mock.Anything, mock.Anything, id).Return(sqlc.GetReservationViewByIDRow{
			ID:           id,
			UserID:       uuid.New(),
			SpotID:       uuid.New(),
			StartTime:    pgconv.TimeToPgtype(start),
			EndTime:      pgconv.TimeToPgtype(start.Add(2 * time.Hour)),
			Status:       "CONFIRMED",
			PriceCents:   12000,
			QrToken:      "token",
			SpotNumber:   "A-12",
			LocationName: "Central Garage",
		}, nil)

		store := NewReservationReadStore(mockQueries, nil)
		view, err := store.FindByID(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, "confirmed", view.Status)
		assert.Equal(t, "A-12", view.SpotNumber)
		assert.Equal(t, start, view.StartTime)
		assert.Nil(t, view.CheckedOutAt)
		mockQueries.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockQueries := new(MockReservationViewQueries)
		mockQueries.On("GetReservationViewByID", mock.Anything, mock.Anything, id).
			Return(sqlc.GetReservationViewByIDRow{}, pgx.ErrNoRows)

		store := NewReservationReadStore(mockQueries, nil)
		view, err := store.FindByID(context.Background(), id)

		assert.Nil(t, view)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}

func TestReservationReadStore_ListByUserKeyset(t *testing.T) {
	userID := uuid.New()
	lastID := uuid.New()
	lastCreatedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	mockQueries := new(MockReservationViewQueries)
	mockQueries.On("ListReservationsByUserKeyset", mock.Anything, mock.Anything, sqlc.ListReservationsByUserKeysetParams{
		UserID:        userID,
		LastCreatedAt: pgconv.TimeToPgtype(lastCreatedAt),
		LastID:        lastID,
		Lim:           11,
	}).Return([]sqlc.ListReservationsByUserKeysetRow{
		{ID: uuid.New(), UserID: userID, Status: "Pending", PriceCents: 10000},
	}, nil)

	store := NewReservationReadStore(mockQueries, nil)
	items, err := store.ListByUserKeyset(context.Background(), userID, lastCreatedAt, lastID, 11)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "pending", items[0].Status)
	mockQueries.AssertExpectations(t)
}

func TestReservationReadStore_FindActiveOverlapping(t *testing.T) {
	spotID := uuid.New()
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	window := reservation.NewTimeWindow(start, start.Add(time.Hour))

	mockQueries := new(MockReservationViewQueries)
	mockQueries.On("FindActiveOverlappingReservations", mock.Anything, mock.Anything, mock.Anything).
		Return([]sqlc.FindActiveOverlappingReservationsRow{
			{ID: uuid.New(), StartTime: pgconv.TimeToPgtype(start), EndTime: pgconv.TimeToPgtype(start.Add(time.Hour)), Status: "PENDING"},
			{ID: uuid.New(), StartTime: pgconv.TimeToPgtype(start), EndTime: pgconv.TimeToPgtype(start.Add(time.Hour)), Status: "archived"},
		}, nil)

	store := NewReservationReadStore(mockQueries, nil)
	bookings, err := store.FindActiveOverlapping(context.Background(), spotID, window)

	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, reservation.StatusPending, bookings[0].Status)
}
