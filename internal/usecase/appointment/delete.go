package appointment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/events"
)

type DeleteAppointment struct {
	Deps
	log *zap.Logger
}

func NewDeleteAppointment(d Deps) *DeleteAppointment {
	return &DeleteAppointment{
		Deps: d,
		log:  d.Log.With(zap.String("usecase", "delete_appointment")),
	}
}

// Execute removes the appointment for good, whatever its status.
// Confirming intent is the caller's job.
func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	actor domain.Actor,
	appointmentID uint,
) error {

	if err := actor.Require(domain.CanDelete); err != nil {
		return err
	}

	ap, unlock, err := uc.lockedAppointment(ctx, appointmentID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := uc.Repo.DeleteAppointment(ctx, ap.ID); err != nil {
		return fmt.Errorf("delete appointment %d: %w", ap.ID, err)
	}

	uc.publish(ctx, events.SubjectDeleted, events.AppointmentDeleted{
		AppointmentID: ap.ID,
		BranchID:      ap.BranchID,
		Status:        ap.Status,
		ActorID:       actor.UserID,
	})

	uc.Audit.Dispatch(audit.Event{
		BranchID: ap.BranchID,
		UserID:   actorID(actor),
		Action:   "appointment_deleted",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]string{"status": ap.Status},
	})

	uc.log.Warn("appointment deleted",
		zap.Uint("appointment_id", ap.ID),
		zap.String("status", ap.Status),
		zap.Uint("actor_id", actor.UserID),
	)

	return nil
}
