package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/usecase/reminder"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (s *countingSweeper) Execute(ctx context.Context) (reminder.SweepResult, error) {
	s.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return reminder.SweepResult{}, errors.New("sweep without deadline")
	}
	return reminder.SweepResult{Due: 1, Sent: 1}, s.err
}

func TestReminderJob_Run(t *testing.T) {
	s := &countingSweeper{}
	j := NewReminderJob(s, nil, zap.NewNop())

	j.Run()
	s.err = errors.New("db down")
	j.Run()

	assert.Equal(t, int32(2), s.calls.Load())
}

func TestReminderJob_InvalidSpec(t *testing.T) {
	j := NewReminderJob(&countingSweeper{}, time.UTC, zap.NewNop())
	assert.Error(t, j.Start("every tuesday"))
}

func TestReminderJob_StartStop(t *testing.T) {
	s := &countingSweeper{}
	j := NewReminderJob(s, time.UTC, zap.NewNop())

	assert.NoError(t, j.Start("@every 10ms"))
	assert.Eventually(t, func() bool { return s.calls.Load() > 0 }, time.Second, 5*time.Millisecond)
	j.Stop()
}
