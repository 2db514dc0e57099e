package appointment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/ledger"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/risk"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/events"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/metrics"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/models"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/timezone"
)

// RiskLedger is the part of the risk use case the state machine needs.
type RiskLedger interface {
	CanBookPendingPayment(ctx context.Context, clientID uint) (bool, error)
	RecordRejection(ctx context.Context, clientID uint, rej risk.Rejection) (*risk.Record, error)
}

type Settings struct {
	SlotGranularityMin int
	RejectionPolicy    domain.RejectionPolicy
	Timezone           string
}

// Deps are shared by every appointment use case.
type Deps struct {
	Repo      domain.Repository
	Directory domain.Directory
	Locker    domain.SlotLocker
	Risk      RiskLedger
	Ledger    ledger.Sink
	Events    events.Publisher
	Audit     *audit.Dispatcher
	Metrics   *metrics.Metrics
	Log       *zap.Logger
	Clock     timezone.Clock
	Settings  Settings
}

func (d Deps) location(branch *models.Branch) *time.Location {
	if branch != nil && branch.Timezone != "" {
		return timezone.Location(branch.Timezone)
	}
	return timezone.Location(d.Settings.Timezone)
}

func (d Deps) now(branch *models.Branch) time.Time {
	clock := d.Clock
	if clock == nil {
		clock = timezone.SystemClock()
	}
	return clock().In(d.location(branch))
}

// lockedAppointment loads id, takes the barber/day lock and reloads it so
// the returned record is the one the lock protects.
func (d Deps) lockedAppointment(ctx context.Context, id uint) (*models.Appointment, func(), error) {
	ap, err := d.Repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	unlock, err := d.Locker.Lock(ctx, ap.BarberID, ap.Date)
	if err != nil {
		return nil, nil, err
	}

	ap, err = d.Repo.GetAppointment(ctx, id)
	if err != nil {
		unlock()
		return nil, nil, err
	}
	return ap, unlock, nil
}

// statusChanged fans a transition out to metrics, events and the audit log.
func (d Deps) statusChanged(
	ctx context.Context,
	ap *models.Appointment,
	from domain.Status,
	actor domain.Actor,
	at time.Time,
) {
	to := ap.Status
	d.Metrics.Transition(string(from), to)

	ev := events.StatusChanged{
		AppointmentID: ap.ID,
		BranchID:      ap.BranchID,
		BarberID:      ap.BarberID,
		ClientID:      ap.ClientID,
		From:          string(from),
		To:            to,
		ActorID:       actor.UserID,
		At:            at,
	}
	d.publish(ctx, events.SubjectStatusChanged, ev)
	if domain.Status(to) == domain.StatusCompleted {
		d.publish(ctx, events.SubjectCompleted, ev)
	}

	d.Audit.Dispatch(audit.Event{
		BranchID: ap.BranchID,
		UserID:   actorID(actor),
		Action:   "appointment_" + to,
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]string{"from": string(from), "to": to},
	})
}

func (d Deps) publish(ctx context.Context, subject string, data any) {
	if err := d.Events.Publish(ctx, subject, data); err != nil {
		d.Log.Error("publish event failed", zap.String("subject", subject), zap.Error(err))
	}
}

func actorID(a domain.Actor) *uint {
	if a.UserID == 0 {
		return nil
	}
	id := a.UserID
	return &id
}
