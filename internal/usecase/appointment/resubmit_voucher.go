package appointment

import (
	"context"
	"fmt"
	"strings"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/models"
)

type ResubmitVoucher struct {
	Deps
}

func NewResubmitVoucher(d Deps) *ResubmitVoucher {
	return &ResubmitVoucher{Deps: d}
}

// Execute replaces the voucher of an appointment still waiting for payment
// verification, e.g. after a rejection under the keep_pending policy.
func (uc *ResubmitVoucher) Execute(
	ctx context.Context,
	actor domain.Actor,
	appointmentID uint,
	voucherURL string,
	voucherNumber string,
) (*models.Appointment, error) {

	voucherURL = strings.TrimSpace(voucherURL)
	if voucherURL == "" {
		return nil, &domain.ValidationError{Fields: []domain.FieldError{{Field: "voucher_url", Message: "is required"}}}
	}

	ap, unlock, err := uc.lockedAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if actor.Role == domain.RoleClient && ap.ClientID != actor.UserID {
		return nil, domain.ErrForbidden
	}

	if domain.Status(ap.Status) != domain.StatusPendingPayment {
		return nil, &domain.InvalidTransitionError{From: domain.Status(ap.Status), To: domain.StatusPendingPayment, Reason: "not_pending_payment"}
	}

	ok, err := uc.Risk.CanBookPendingPayment(ctx, ap.ClientID)
	if err != nil {
		return nil, fmt.Errorf("check client risk: %w", err)
	}
	if !ok {
		return nil, &domain.BlacklistedClientError{ClientID: ap.ClientID}
	}

	ap.VoucherURL = &voucherURL
	if voucherNumber = strings.TrimSpace(voucherNumber); voucherNumber != "" {
		ap.VoucherNumber = &voucherNumber
	} else {
		ap.VoucherNumber = nil
	}
	ap.PaymentVerifiedAt = nil

	if err := uc.Repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, fmt.Errorf("update appointment %d: %w", ap.ID, err)
	}

	uc.Audit.Dispatch(audit.Event{
		BranchID: ap.BranchID,
		UserID:   actorID(actor),
		Action:   "voucher_resubmitted",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
