package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/ledger"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/events"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/models"
)

type AttendanceResult struct {
	Appointment *models.Appointment `json:"appointment"`
	Transaction *models.Transaction `json:"transaction,omitempty"`
}

type MarkAttendance struct {
	Deps
	log *zap.Logger
}

func NewMarkAttendance(d Deps) *MarkAttendance {
	return &MarkAttendance{
		Deps: d,
		log:  d.Log.With(zap.String("usecase", "mark_attendance")),
	}
}

// Execute records whether the client showed up. A show confirms a pending
// appointment and books the income exactly once; a no-show cancels.
func (uc *MarkAttendance) Execute(
	ctx context.Context,
	actor domain.Actor,
	appointmentID uint,
	attended bool,
) (*AttendanceResult, error) {

	if err := actor.Require(domain.CanMarkAttendance); err != nil {
		return nil, err
	}

	ap, unlock, err := uc.lockedAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	from := domain.Status(ap.Status)
	target, changes, err := domain.AttendanceTarget(from, attended)
	if err != nil {
		return nil, err
	}

	now := uc.now(nil)
	switch {
	case !attended:
		if err := domain.Cancel(ap, now); err != nil {
			return nil, err
		}
	case changes:
		if err := domain.Transition(ap, target, now); err != nil {
			return nil, err
		}
	}

	result := &AttendanceResult{Appointment: ap}

	marked := false
	if attended && !ap.AttendanceMarked {
		tx, err := uc.recordIncome(ctx, ap)
		if err != nil {
			return nil, err
		}
		result.Transaction = tx
		ap.AttendanceMarked = true
		ap.AttendanceMarkedAt = &now
		marked = true
	}

	if changes || marked {
		if err := uc.Repo.UpdateAppointment(ctx, ap); err != nil {
			return nil, fmt.Errorf("update appointment %d: %w", ap.ID, err)
		}
	}

	if changes {
		uc.statusChanged(ctx, ap, from, actor, now)
	}

	return result, nil
}

// recordIncome emits the income transaction. The reference is derived from
// the appointment, so a retry after a partial failure hits the ledger's
// uniqueness guard instead of booking twice. Returns nil when the ledger
// already had it.
func (uc *MarkAttendance) recordIncome(ctx context.Context, ap *models.Appointment) (*models.Transaction, error) {
	if _, err := uc.Directory.GetBarber(ctx, ap.BarberID); err != nil {
		if errors.Is(err, domain.ErrBarberNotFound) {
			return nil, &domain.IntegrityError{Entity: "appointment", ID: ap.ID, Reason: "barber does not exist"}
		}
		return nil, err
	}

	tx := &models.Transaction{
		Reference:     AttendanceReference(ap.ID),
		Type:          models.TransactionIncome,
		Amount:        ap.TotalPrice,
		BranchID:      ap.BranchID,
		BarberID:      ap.BarberID,
		ClientID:      ap.ClientID,
		AppointmentID: ap.ID,
		Date:          ap.Date,
	}

	if err := uc.Ledger.CreateTransaction(ctx, tx); err != nil {
		if errors.Is(err, ledger.ErrDuplicate) {
			uc.log.Warn("income already recorded", zap.Uint("appointment_id", ap.ID))
			return nil, nil
		}
		return nil, fmt.Errorf("create income transaction: %w", err)
	}

	uc.Metrics.AttendanceIncome.Inc()
	uc.publish(ctx, events.SubjectTransactionCreated, events.TransactionCreated{Transaction: *tx})

	uc.log.Info("income recorded",
		zap.Uint("appointment_id", ap.ID),
		zap.Float64("amount", tx.Amount),
		zap.String("reference", tx.Reference.String()),
	)

	return tx, nil
}

var attendanceNamespace = uuid.MustParse("5b8e6f0c-3f0a-4c55-9d57-1f3c2b7d9a10")

func AttendanceReference(appointmentID uint) uuid.UUID {
	return uuid.NewSHA1(attendanceNamespace, []byte(fmt.Sprintf("attendance:%d", appointmentID)))
}
