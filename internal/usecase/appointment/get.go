package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/models"
)

type GetAppointment struct {
	Deps
}

func NewGetAppointment(d Deps) *GetAppointment {
	return &GetAppointment{Deps: d}
}

func (uc *GetAppointment) Execute(
	ctx context.Context,
	actor domain.Actor,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.Repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleClient && ap.ClientID != actor.UserID {
		return nil, domain.ErrNotFound
	}
	return ap, nil
}
