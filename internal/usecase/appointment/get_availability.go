package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/httperr"
)

type AvailabilityInput struct {
	BranchID   uint
	BarberID   uint
	Date       string
	ServiceIDs []uint
}

type GetAvailability struct {
	Deps
}

func NewGetAvailability(d Deps) *GetAvailability {
	return &GetAvailability{Deps: d}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) ([]domain.Slot, error) {

	branch, err := uc.Directory.GetBranch(ctx, in.BranchID)
	if err != nil {
		return nil, err
	}

	date, err := time.ParseInLocation("2006-01-02", in.Date, uc.location(branch))
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	barbers, err := uc.Directory.GetActiveBarbers(ctx, branch.ID)
	if err != nil {
		return nil, err
	}
	if !containsBarber(barbers, in.BarberID) {
		return nil, domain.ErrBarberNotFound
	}

	duration := 0
	if len(in.ServiceIDs) > 0 {
		services, err := uc.Directory.GetServices(ctx, in.ServiceIDs)
		if err != nil {
			if errors.Is(err, domain.ErrServiceNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("load services: %w", err)
		}
		duration, _ = totals(services)
	}

	hours, err := uc.Directory.GetBranchHours(ctx, branch.ID, date.Weekday())
	if err != nil {
		return nil, err
	}
	if hours == nil {
		return []domain.Slot{}, nil
	}

	appointments, err := uc.Repo.ListAppointmentsForBarberDay(ctx, in.BarberID, in.Date)
	if err != nil {
		return nil, err
	}

	return domain.GenerateSlots(
		in.Date,
		in.BarberID,
		appointments,
		hours,
		duration,
		uc.Settings.SlotGranularityMin,
	), nil
}
