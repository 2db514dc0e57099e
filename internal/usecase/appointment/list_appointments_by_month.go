package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/dto"
)

type ListAppointmentsByMonth struct {
	Deps
}

func NewListAppointmentsByMonth(d Deps) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{Deps: d}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	branchID uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	appointments, err := uc.Repo.ListAppointmentsForBranch(
		ctx,
		branchID,
		start.Format("2006-01-02"),
		end.Format("2006-01-02"),
	)
	if err != nil {
		return nil, err
	}

	return dto.FromAppointments(appointments), nil
}
