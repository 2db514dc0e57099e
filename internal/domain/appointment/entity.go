package appointment

import (
	"time"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Transition moves ap along the lifecycle graph and stamps the
// timestamp that belongs to the target status.
func Transition(ap *models.Appointment, to Status, now time.Time) error {
	from := Status(ap.Status)
	if err := CanTransition(from, to); err != nil {
		return err
	}

	ap.Status = string(to)
	switch to {
	case StatusConfirmed:
		ap.ConfirmedAt = &now
	case StatusInProgress:
		ap.StartedAt = &now
	case StatusCompleted:
		ap.CompletedAt = &now
	case StatusCancelled:
		ap.CancelledAt = &now
	}
	return nil
}

// ManualTransition is Transition for status updates coming from staff or
// clients. Leaving pending_payment for confirmed needs a voucher verification.
func ManualTransition(ap *models.Appointment, to Status, now time.Time) error {
	from := Status(ap.Status)
	if from == StatusPendingPayment && to == StatusConfirmed {
		return &InvalidTransitionError{From: from, To: to, Reason: "payment_verification_required"}
	}
	return Transition(ap, to, now)
}

// Cancel is used for no-shows and for vouchers rejected under the cancel
// policy.
func Cancel(ap *models.Appointment, now time.Time) error {
	return Transition(ap, StatusCancelled, now)
}

// ApprovePayment confirms a pending_payment appointment.
func ApprovePayment(ap *models.Appointment, now time.Time) error {
	if Status(ap.Status) != StatusPendingPayment {
		return &InvalidTransitionError{From: Status(ap.Status), To: StatusConfirmed, Reason: "not_pending_payment"}
	}
	if err := Transition(ap, StatusConfirmed, now); err != nil {
		return err
	}
	ap.PaymentVerifiedAt = &now
	return nil
}

// RejectPayment applies the configured policy after a voucher is refused.
func RejectPayment(ap *models.Appointment, policy RejectionPolicy, now time.Time) error {
	if Status(ap.Status) != StatusPendingPayment {
		return &InvalidTransitionError{From: Status(ap.Status), To: StatusCancelled, Reason: "not_pending_payment"}
	}
	ap.PaymentVerifiedAt = &now
	if policy == RejectionCancel {
		return Cancel(ap, now)
	}
	return nil
}

// AttendanceTarget returns the status an attended appointment must reach.
// Only pending is promoted; later statuses already imply attendance.
func AttendanceTarget(current Status, attended bool) (Status, bool, error) {
	if !attended {
		if err := CanTransition(current, StatusCancelled); err != nil {
			return "", false, err
		}
		return StatusCancelled, true, nil
	}

	switch current {
	case StatusPending:
		return StatusConfirmed, true, nil
	case StatusConfirmed, StatusInProgress, StatusCompleted:
		return current, false, nil
	default:
		return "", false, &InvalidTransitionError{From: current, To: StatusConfirmed, Reason: "attendance_not_allowed"}
	}
}
