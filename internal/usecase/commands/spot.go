package commands

import (
	"context"

	"parking-reservation/internal/domain/location"
	"parking-reservation/internal/domain/spot"
	reqdto "parking-reservation/internal/handler/dto/request"
	"parking-reservation/internal/infra"
	"parking-reservation/internal/pkg/clock"
	"parking-reservation/internal/pkg/errs"
	"parking-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrLocationNotFound = errs.New("location not found")
	ErrInvalidLocation  = errs.New("invalid location")
	ErrInvalidSpot      = errs.New("invalid parking spot")
	ErrSpotNumberTaken  = errs.New("spot number already exists at this location")
)

type SpotCommands interface {
	CreateLocation(ctx context.Context, req reqdto.CreateLocationRequest) (*location.Location, error)
	CreateSpot(ctx context.Context, locationID uuid.UUID, req reqdto.CreateSpotRequest) (*spot.Spot, error)
	UpdateSpot(ctx context.Context, spotID uuid.UUID, req reqdto.UpdateSpotRequest) (*spot.Spot, error)
}

type spotCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewSpotCommands(uow shared.UnitOfWork, clock clock.Clock) SpotCommands {
	return &spotCommandsImpl{
		uow:   uow,
		clock: clock,
	}
}

func (s *spotCommandsImpl) CreateLocation(ctx context.Context, req reqdto.CreateLocationRequest) (*location.Location, error) {
	loc, err := location.NewLocation(req.Name, req.Address)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidLocation)
	}

	err = s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Locations().Create(ctx, loc)
	})
	if err != nil {
		return nil, err
	}

	return loc, nil
}

func (s *spotCommandsImpl) CreateSpot(ctx context.Context, locationID uuid.UUID, req reqdto.CreateSpotRequest) (*spot.Spot, error) {
	created, err := spot.NewSpot(locationID, req.Number(), req.HourlyRateCents)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidSpot)
	}

	err = s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Locations().FindByID(ctx, locationID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrLocationNotFound
			}
			return err
		}

		if err := tx.Spots().Create(ctx, created); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, ErrSpotNumberTaken)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (s *spotCommandsImpl) UpdateSpot(ctx context.Context, spotID uuid.UUID, req reqdto.UpdateSpotRequest) (*spot.Spot, error) {
	now := s.clock.Now()

	var updated *spot.Spot
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		target, err := tx.Spots().FindByIDForUpdate(ctx, spotID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrSpotNotFound
			}
			return err
		}

		if req.HourlyRateCents != nil {
			if err := target.ChangeHourlyRate(*req.HourlyRateCents); err != nil {
				return errs.Mark(err, ErrInvalidSpot)
			}
		}
		if req.InService != nil {
			target.SetInService(*req.InService)
		}

		if err := tx.Spots().Update(ctx, target); err != nil {
			return err
		}

		// returning to service needs the cached flag recomputed from bookings
		if req.InService != nil && *req.InService {
			if _, err := tx.Spots().RefreshAvailability(ctx, &spotID, now); err != nil {
				return err
			}
			if target, err = tx.Spots().FindByID(ctx, spotID); err != nil {
				return err
			}
		}

		updated = target
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}
