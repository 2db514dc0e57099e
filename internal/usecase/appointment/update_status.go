package appointment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/models"
)

type UpdateStatus struct {
	Deps
	log *zap.Logger
}

func NewUpdateStatus(d Deps) *UpdateStatus {
	return &UpdateStatus{
		Deps: d,
		log:  d.Log.With(zap.String("usecase", "update_status")),
	}
}

// Execute moves the appointment to newStatus. Clients may only cancel
// their own appointments; everyone else needs CanManageStatus.
func (uc *UpdateStatus) Execute(
	ctx context.Context,
	actor domain.Actor,
	appointmentID uint,
	newStatus string,
) (*models.Appointment, error) {

	to, err := domain.ParseStatus(newStatus)
	if err != nil {
		return nil, &domain.ValidationError{Fields: []domain.FieldError{{Field: "status", Message: "unknown status"}}}
	}

	ap, unlock, err := uc.lockedAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if actor.Role == domain.RoleClient {
		if ap.ClientID != actor.UserID || to != domain.StatusCancelled {
			return nil, domain.ErrForbidden
		}
	} else if err := actor.Require(domain.CanManageStatus); err != nil {
		return nil, err
	}

	from := domain.Status(ap.Status)
	now := uc.now(nil)

	if err := domain.ManualTransition(ap, to, now); err != nil {
		return nil, err
	}

	if err := uc.Repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, fmt.Errorf("update appointment %d: %w", ap.ID, err)
	}

	uc.statusChanged(ctx, ap, from, actor, now)

	uc.log.Info("appointment status updated",
		zap.Uint("appointment_id", ap.ID),
		zap.String("from", string(from)),
		zap.String("to", ap.Status),
	)

	return ap, nil
}
