package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/risk"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/models"
)

type VerifyPaymentResult struct {
	Appointment *models.Appointment `json:"appointment"`
	Risk        *risk.Record        `json:"risk,omitempty"`
}

type VerifyPayment struct {
	Deps
	log *zap.Logger
}

func NewVerifyPayment(d Deps) *VerifyPayment {
	return &VerifyPayment{
		Deps: d,
		log:  d.Log.With(zap.String("usecase", "verify_payment")),
	}
}

// Execute resolves a manually reviewed voucher. Approval confirms the
// appointment; rejection feeds the client's risk ledger and then applies
// the configured rejection policy.
func (uc *VerifyPayment) Execute(
	ctx context.Context,
	actor domain.Actor,
	appointmentID uint,
	outcome domain.PaymentOutcome,
	reason string,
) (*VerifyPaymentResult, error) {

	if err := actor.Require(domain.CanVerifyPayment); err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	switch outcome {
	case domain.OutcomeApprove:
	case domain.OutcomeReject:
		if reason == "" {
			return nil, &domain.ValidationError{Fields: []domain.FieldError{{Field: "reason", Message: "is required when rejecting"}}}
		}
	default:
		return nil, &domain.ValidationError{Fields: []domain.FieldError{{Field: "outcome", Message: "must be one of: approve, reject"}}}
	}

	ap, unlock, err := uc.lockedAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	from := domain.Status(ap.Status)
	if from != domain.StatusPendingPayment {
		return nil, &domain.InvalidTransitionError{From: from, To: domain.StatusConfirmed, Reason: "not_pending_payment"}
	}

	now := uc.now(nil)
	result := &VerifyPaymentResult{Appointment: ap}

	if outcome == domain.OutcomeApprove {
		if err := domain.ApprovePayment(ap, now); err != nil {
			return nil, err
		}
	} else {
		rec, err := uc.Risk.RecordRejection(ctx, ap.ClientID, risk.Rejection{
			AppointmentID: ap.ID,
			Date:          now,
			Reason:        reason,
			VoucherNumber: deref(ap.VoucherNumber),
			Amount:        ap.TotalPrice,
			PaymentMethod: ap.PaymentMethod,
			VerifiedBy:    actor.UserID,
		})
		if err != nil {
			if errors.Is(err, domain.ErrClientNotFound) {
				return nil, &domain.IntegrityError{Entity: "appointment", ID: ap.ID, Reason: "client does not exist"}
			}
			return nil, err
		}
		result.Risk = rec

		if err := domain.RejectPayment(ap, uc.Settings.RejectionPolicy, now); err != nil {
			return nil, err
		}
	}

	if err := uc.Repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, fmt.Errorf("update appointment %d: %w", ap.ID, err)
	}

	if domain.Status(ap.Status) != from {
		uc.statusChanged(ctx, ap, from, actor, now)
	}

	uc.log.Info("payment verified",
		zap.Uint("appointment_id", ap.ID),
		zap.String("outcome", string(outcome)),
		zap.String("status", ap.Status),
		zap.String("policy", string(uc.Settings.RejectionPolicy)),
	)

	return result, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
