package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/events"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/models"
)

// ======================================================
// Verify payment
// ======================================================

func TestVerifyPayment_Approve(t *testing.T) {
	f := newFixture(t, domain.RejectionKeepPending)
	ap := f.book(t, voucherBooking("10:00"))

	res, err := NewVerifyPayment(f.deps).Execute(context.Background(), reception, ap.ID, domain.OutcomeApprove, "")
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), res.Appointment.Status)
	assert.NotNil(t, res.Appointment.PaymentVerifiedAt)
	assert.NotNil(t, res.Appointment.ConfirmedAt)
	assert.Nil(t, res.Risk)

	stored, err := f.store.GetAppointment(context.Background(), ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), stored.Status)
}

func TestVerifyPayment_RejectKeepPending(t *testing.T) {
	f := newFixture(t, domain.RejectionKeepPending)
	ap := f.book(t, voucherBooking("10:00"))
	uc := NewVerifyPayment(f.deps)

	res, err := uc.Execute(context.Background(), reception, ap.ID, domain.OutcomeReject, "comprovante falso")
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPendingPayment), res.Appointment.Status)
	require.NotNil(t, res.Risk)
	assert.Equal(t, 1, res.Risk.FalseVouchersCount)
	require.Len(t, res.Risk.History, 1)
	assert.True(t, res.Risk.History[0].Fraudulent)
	assert.Equal(t, reception.UserID, res.Risk.History[0].VerifiedBy)
	assert.Equal(t, "E123", res.Risk.History[0].VoucherNumber)
	assert.Equal(t, 1, f.events.Count(events.SubjectRiskUpdated))

	// new voucher, rejected again until the client is blacklisted
	for i := 0; i < 2; i++ {
		_, err = NewResubmitVoucher(f.deps).Execute(context.Background(), client, ap.ID, "https://files.example.com/v2.webp", "")
		require.NoError(t, err)
		res, err = uc.Execute(context.Background(), reception, ap.ID, domain.OutcomeReject, "fake")
		require.NoError(t, err)
	}

	assert.Equal(t, 3, res.Risk.FalseVouchersCount)
	assert.True(t, res.Risk.IsFlagged)
	assert.True(t, res.Risk.Blacklisted)

	_, err = NewResubmitVoucher(f.deps).Execute(context.Background(), client, ap.ID, "https://files.example.com/v3.webp", "")
	var be *domain.BlacklistedClientError
	assert.ErrorAs(t, err, &be)

	_, err = NewCreateAppointment(f.deps).Execute(context.Background(), client, voucherBooking("15:00"))
	assert.ErrorAs(t, err, &be)
}

func TestVerifyPayment_RejectCancel(t *testing.T) {
	f := newFixture(t, domain.RejectionCancel)
	ap := f.book(t, voucherBooking("10:00"))

	res, err := NewVerifyPayment(f.deps).Execute(context.Background(), reception, ap.ID, domain.OutcomeReject, "valor incorreto")
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), res.Appointment.Status)
	assert.Equal(t, 0, res.Risk.FalseVouchersCount)
	assert.Len(t, res.Risk.History, 1)
	assert.Equal(t, 2, f.events.Count(events.SubjectStatusChanged))

	// o horário volta a ficar livre
	f.book(t, cashBooking("10:00"))
}

func TestVerifyPayment_Guards(t *testing.T) {
	f := newFixture(t, domain.RejectionKeepPending)
	ctx := context.Background()
	uc := NewVerifyPayment(f.deps)

	voucher := f.book(t, voucherBooking("10:00"))
	cash := f.book(t, cashBooking("11:00"))

	_, err := uc.Execute(ctx, barber, voucher.ID, domain.OutcomeApprove, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Execute(ctx, reception, voucher.ID, domain.OutcomeReject, "  ")
	assert.Equal(t, []string{"reason"}, fieldNames(err))

	_, err = uc.Execute(ctx, reception, voucher.ID, "maybe", "")
	assert.Equal(t, []string{"outcome"}, fieldNames(err))

	_, err = uc.Execute(ctx, reception, cash.ID, domain.OutcomeApprove, "")
	var ite *domain.InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, domain.StatusPending, ite.From)

	_, err = uc.Execute(ctx, reception, 999, domain.OutcomeApprove, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ======================================================
// Attendance
// ======================================================

func TestMarkAttendance_RecordsIncomeOnce(t *testing.T) {
	f := newFixture(t, domain.RejectionKeepPending)
	ap := f.book(t, cashBooking("10:00"))
	uc := NewMarkAttendance(f.deps)

	res, err := uc.Execute(context.Background(), barber, ap.ID, true)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), res.Appointment.Status)
	assert.True(t, res.Appointment.AttendanceMarked)
	require.NotNil(t, res.Transaction)
	assert.Equal(t, 40.0, res.Transaction.Amount)
	assert.Equal(t, AttendanceReference(ap.ID), res.Transaction.Reference)

	res, err = uc.Execute(context.Background(), barber, ap.ID, true)
	require.NoError(t, err)
	assert.Nil(t, res.Transaction)

	txs := f.store.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, ap.ID, txs[0].AppointmentID)
	assert.Equal(t, 1, f.events.Count(events.SubjectTransactionCreated))
}

func TestMarkAttendance_NoShowCancels(t *testing.T) {
	f := newFixture(t, domain.RejectionKeepPending)
	ap := f.book(t, cashBooking("10:00"))

	res, err := NewMarkAttendance(f.deps).Execute(context.Background(), reception, ap.ID, false)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), res.Appointment.Status)
	assert.Nil(t, res.Transaction)
	assert.Empty(t, f.store.Transactions())
}

func TestMarkAttendance_Guards(t *testing.T) {
	f := newFixture(t, domain.RejectionKeepPending)
	ap := f.book(t, voucherBooking("10:00"))
	uc := NewMarkAttendance(f.deps)

	_, err := uc.Execute(context.Background(), client, ap.ID, true)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Execute(context.Background(), barber, ap.ID, true)
	var ite *domain.InvalidTransitionError
	assert.ErrorAs(t, err, &ite)
	assert.Empty(t, f.store.Transactions())
}

// sweepingRepo marks the reminder as sent right before every update, as a
// reminder sweep running concurrently with the state machine would.
type sweepingRepo struct {
	domain.Repository
	store *memory.Store
}

func (r *sweepingRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	if _, err := r.store.MarkReminderSent(ctx, ap.ID, time.Now()); err != nil {
		return err
	}
	return r.Repository.UpdateAppointment(ctx, ap)
}

func TestMarkAttendance_KeepsReminderSentBySweep(t *testing.T) {
	f := newFixture(t, domain.RejectionKeepPending)
	ctx := context.Background()
	ap := f.book(t, cashBooking("10:00"))

	f.deps.Repo = &sweepingRepo{Repository: f.store, store: f.store}

	res, err := NewMarkAttendance(f.deps).Execute(ctx, reception, ap.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", res.Appointment.Status)

	stored, err := f.store.GetAppointment(ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", stored.Status)
	assert.True(t, stored.AttendanceMarked)
	assert.True(t, stored.ReminderSent)

	flipped, err := f.store.MarkReminderSent(ctx, ap.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, flipped)
}

// ======================================================
// Status updates
// ======================================================

func TestUpdateStatus_Lifecycle(t *testing.T) {
	f := newFixture(t, domain.RejectionKeepPending)
	ap := f.book(t, cashBooking("10:00"))
	uc := NewUpdateStatus(f.deps)
	ctx := context.Background()

	for _, next := range []string{"confirmed", "in_progress", "completed"} {
		got, err := uc.Execute(ctx, reception, ap.ID, next)
		require.NoError(t, err, next)
		assert.Equal(t, next, got.Status)
	}
	assert.Equal(t, 1, f.events.Count(events.SubjectCompleted))

	_, err := uc.Execute(ctx, reception, ap.ID, "cancelled")
	var ite *domain.InvalidTransitionError
	assert.ErrorAs(t, err, &ite)

	_, err = uc.Execute(ctx, reception, ap.ID, "archived")
	assert.Equal(t, []string{"status"}, fieldNames(err))
}

func TestUpdateStatus_PendingPaymentNeedsVerification(t *testing.T) {
	f := newFixture(t, domain.RejectionKeepPending)
	ap := f.book(t, voucherBooking("10:00"))

	_, err := NewUpdateStatus(f.deps).Execute(context.Background(), reception, ap.ID, "confirmed")

	var ite *domain.InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, "payment_verification_required", ite.Reason)
}

func TestUpdateStatus_ClientMayOnlyCancelOwn(t *testing.T) {
	f := newFixture(t, domain.RejectionKeepPending)
	ctx := context.Background()
	uc := NewUpdateStatus(f.deps)

	own := f.book(t, cashBooking("10:00"))
	in := cashBooking("11:00")
	in.ClientID = otherID
	other := f.book(t, in)

	_, err := uc.Execute(ctx, client, own.ID, "confirmed")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Execute(ctx, client, other.ID, "cancelled")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := uc.Execute(ctx, client, own.ID, "cancelled")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", got.Status)
	assert.NotNil(t, got.CancelledAt)
}

func TestUpdateStatus_RoleWithoutCapabilityIsForbidden(t *testing.T) {
	f := newFixture(t, domain.RejectionKeepPending)
	ctx := context.Background()
	ap := f.book(t, cashBooking("10:00"))
	uc := NewUpdateStatus(f.deps)

	guest := domain.ActorFor(999, "guest")
	require.Zero(t, guest.Capabilities)

	for _, next := range []string{"confirmed", "cancelled"} {
		_, err := uc.Execute(ctx, guest, ap.ID, next)
		assert.ErrorIs(t, err, domain.ErrForbidden, next)
	}

	stored, err := f.store.GetAppointment(ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", stored.Status)
	// só o evento da criação
	assert.Equal(t, 1, f.events.Count(events.SubjectStatusChanged))

	got, err := uc.Execute(ctx, barber, ap.ID, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, "confirmed", got.Status)
}

// ======================================================
// Delete + Get
// ======================================================

func TestDeleteAppointment(t *testing.T) {
	f := newFixture(t, domain.RejectionKeepPending)
	ctx := context.Background()
	ap := f.book(t, cashBooking("10:00"))
	uc := NewDeleteAppointment(f.deps)

	assert.ErrorIs(t, uc.Execute(ctx, barber, ap.ID), domain.ErrForbidden)
	assert.ErrorIs(t, uc.Execute(ctx, reception, ap.ID), domain.ErrForbidden)

	require.NoError(t, uc.Execute(ctx, admin, ap.ID))

	_, err := f.store.GetAppointment(ctx, ap.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, f.events.Count(events.SubjectDeleted))

	assert.ErrorIs(t, uc.Execute(ctx, admin, ap.ID), domain.ErrNotFound)

	f.deps.Audit.Close()
	logs, total, err := f.store.ListAuditLogs(ctx, audit.Filter{Action: "appointment_deleted"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, branchID, logs[0].BranchID)
}

func TestGetAppointment_ClientSeesOnlyOwn(t *testing.T) {
	f := newFixture(t, domain.RejectionKeepPending)
	ctx := context.Background()

	in := cashBooking("10:00")
	in.ClientID = otherID
	ap := f.book(t, in)

	_, err := NewGetAppointment(f.deps).Execute(ctx, client, ap.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := NewGetAppointment(f.deps).Execute(ctx, domain.ActorFor(otherID, "client"), ap.ID)
	require.NoError(t, err)
	assert.Equal(t, ap.ID, got.ID)

	_, err = NewGetAppointment(f.deps).Execute(ctx, reception, ap.ID)
	assert.NoError(t, err)
}
