package appointment

import (
	"context"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/dto"
)

type ListAppointmentsByDate struct {
	Deps
}

func NewListAppointmentsByDate(d Deps) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{Deps: d}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	branchID uint,
	date string,
) ([]dto.AppointmentListDTO, error) {

	appointments, err := uc.Repo.ListAppointmentsForBranch(ctx, branchID, date, date)
	if err != nil {
		return nil, err
	}

	return dto.FromAppointments(appointments), nil
}
