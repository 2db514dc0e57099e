package reminder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/reminder"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/metrics"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/models"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/timezone"
)

var ErrNoDestination = errors.New("client has no phone number")

type Deps struct {
	Repo      domain.Repository
	Directory domain.Directory
	Notifier  reminder.Notifier
	Logs      reminder.LogStore
	Metrics   *metrics.Metrics
	Log       *zap.Logger
	Clock     timezone.Clock

	CutoffHour int
	Timezone   string
}

type SweepResult struct {
	Due    int `json:"due"`
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// Sweep sends tomorrow's reminders. Cutoff and "tomorrow" are taken in
// each branch's time zone. Runs are serialized; a failed send is left
// unmarked so the next run picks it up again.
type Sweep struct {
	Deps
	mu  sync.Mutex
	log *zap.Logger
}

func NewSweep(d Deps) *Sweep {
	if d.Clock == nil {
		d.Clock = timezone.SystemClock()
	}
	return &Sweep{
		Deps: d,
		log:  d.Log.With(zap.String("usecase", "reminder_sweep")),
	}
}

func (uc *Sweep) Execute(ctx context.Context) (SweepResult, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	now := uc.Clock()
	res := SweepResult{}

	candidates, err := uc.candidates(ctx, now)
	if err != nil {
		return res, err
	}

	// cada filial avalia corte e "amanhã" no próprio fuso
	locations := map[uint]*time.Location{}
	byBranch := map[uint][]models.Appointment{}
	var branches []uint
	for _, ap := range candidates {
		if _, ok := byBranch[ap.BranchID]; !ok {
			branches = append(branches, ap.BranchID)
			locations[ap.BranchID] = uc.location(ctx, ap.BranchID)
		}
		byBranch[ap.BranchID] = append(byBranch[ap.BranchID], ap)
	}

	for _, branchID := range branches {
		local := now.In(locations[branchID])
		due := reminder.CollectDueReminders(local, byBranch[branchID], uc.CutoffHour)
		res.Due += len(due)

		for _, ap := range due {
			if err := ctx.Err(); err != nil {
				return res, err
			}

			if err := uc.remind(ctx, ap, local); err != nil {
				res.Failed++
				uc.Metrics.RemindersSent.WithLabelValues("failed").Inc()
				uc.log.Warn("reminder not sent",
					zap.Uint("appointment_id", ap.ID),
					zap.Error(err),
				)
				continue
			}

			res.Sent++
			uc.Metrics.RemindersSent.WithLabelValues("sent").Inc()
		}
	}

	if res.Due > 0 {
		uc.log.Info("reminder sweep finished",
			zap.Int("due", res.Due),
			zap.Int("sent", res.Sent),
			zap.Int("failed", res.Failed),
		)
	}
	return res, nil
}

// candidates loads the confirmed appointments that can be "tomorrow" in
// some zone. Local dates are at most one day away from the UTC date, so
// three days cover every branch.
func (uc *Sweep) candidates(ctx context.Context, now time.Time) ([]models.Appointment, error) {
	utc := now.UTC()
	var out []models.Appointment
	for _, shift := range []int{-1, 0, 1} {
		date := reminder.Tomorrow(utc.AddDate(0, 0, shift))
		apps, err := uc.Repo.ListAppointmentsByStatusAndDate(ctx, domain.StatusConfirmed, date)
		if err != nil {
			return nil, fmt.Errorf("list appointments for %s: %w", date, err)
		}
		out = append(out, apps...)
	}
	return out, nil
}

func (uc *Sweep) location(ctx context.Context, branchID uint) *time.Location {
	if branch, err := uc.Directory.GetBranch(ctx, branchID); err == nil && branch.Timezone != "" {
		return timezone.Location(branch.Timezone)
	}
	return timezone.Location(uc.Timezone)
}

func (uc *Sweep) remind(ctx context.Context, ap models.Appointment, now time.Time) error {
	client, details, err := uc.details(ctx, ap)
	if err != nil {
		return err
	}

	payload := reminder.BuildPayload(ap, details)
	channel := reminder.ChannelFor(client.Phone)

	entry := &models.ReminderLog{
		AppointmentID: ap.ID,
		ClientID:      ap.ClientID,
		Channel:       channel,
		Destination:   client.Phone,
		Message:       payload.Message,
		SentAt:        now,
	}

	if client.Phone == "" {
		err = ErrNoDestination
	} else {
		err = uc.Notifier.Send(ctx, channel, client.Phone, payload)
	}

	if err != nil {
		entry.Status = "failed"
		entry.ErrorMessage = err.Error()
		uc.writeLog(ctx, entry)
		return err
	}

	entry.Status = "sent"
	uc.writeLog(ctx, entry)

	flipped, err := uc.Repo.MarkReminderSent(ctx, ap.ID, now)
	if err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}
	if !flipped {
		uc.log.Warn("reminder already marked", zap.Uint("appointment_id", ap.ID))
	}
	return nil
}

func (uc *Sweep) details(ctx context.Context, ap models.Appointment) (*models.Client, reminder.Details, error) {
	var d reminder.Details

	client, err := uc.Directory.GetClient(ctx, ap.ClientID)
	if err != nil {
		return nil, d, fmt.Errorf("load client: %w", err)
	}
	d.ClientName = client.Name

	// nomes são opcionais na mensagem
	if branch, err := uc.Directory.GetBranch(ctx, ap.BranchID); err == nil {
		d.BranchName = branch.Name
	}
	if barber, err := uc.Directory.GetBarber(ctx, ap.BarberID); err == nil {
		d.BarberName = barber.Name
	}
	if services, err := uc.Directory.GetServices(ctx, ap.ServiceIDs); err == nil {
		for _, s := range services {
			d.ServiceNames = append(d.ServiceNames, s.Name)
		}
	}

	return client, d, nil
}

func (uc *Sweep) writeLog(ctx context.Context, entry *models.ReminderLog) {
	if uc.Logs == nil {
		return
	}
	if err := uc.Logs.CreateReminderLog(ctx, entry); err != nil {
		uc.log.Error("failed to write reminder log",
			zap.Uint("appointment_id", entry.AppointmentID),
			zap.Error(err),
		)
	}
}
