package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/usecase/reminder"
)

type Sweeper interface {
	Execute(ctx context.Context) (reminder.SweepResult, error)
}

// ReminderJob runs the reminder sweep on a cron schedule.
type ReminderJob struct {
	cron    *cron.Cron
	sweeper Sweeper
	timeout time.Duration
	log     *zap.Logger
}

func NewReminderJob(sweeper Sweeper, loc *time.Location, log *zap.Logger) *ReminderJob {
	if loc == nil {
		loc = time.UTC
	}
	return &ReminderJob{
		cron:    cron.New(cron.WithLocation(loc)),
		sweeper: sweeper,
		timeout: 5 * time.Minute,
		log:     log.With(zap.String("job", "reminders")),
	}
}

func (j *ReminderJob) Start(spec string) error {
	if _, err := j.cron.AddFunc(spec, j.Run); err != nil {
		return fmt.Errorf("schedule reminders %q: %w", spec, err)
	}
	j.cron.Start()
	j.log.Info("reminder scheduler started", zap.String("spec", spec))
	return nil
}

func (j *ReminderJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	res, err := j.sweeper.Execute(ctx)
	if err != nil {
		j.log.Error("reminder sweep failed", zap.Error(err))
		return
	}
	j.log.Debug("reminder sweep",
		zap.Int("due", res.Due),
		zap.Int("sent", res.Sent),
		zap.Int("failed", res.Failed),
	)
}

// Stop waits for a running sweep to finish.
func (j *ReminderJob) Stop() {
	<-j.cron.Stop().Done()
}
