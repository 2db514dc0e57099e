package reminder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/reminder"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/metrics"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/models"
)

type sent struct {
	channel     string
	destination string
	payload     reminder.Payload
}

type fakeNotifier struct {
	mu   sync.Mutex
	err  error
	sent []sent
}

func (n *fakeNotifier) Send(_ context.Context, channel, destination string, p reminder.Payload) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sent{channel: channel, destination: destination, payload: p})
	return nil
}

func seedStore(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	require.NoError(t, store.UpsertBranch(ctx, &models.Branch{ID: 1, Name: "Centro", Slug: "centro", Active: true}))
	require.NoError(t, store.UpsertBarber(ctx, &models.Barber{ID: 2, BranchID: 1, Name: "Carlos", Active: true}))
	require.NoError(t, store.UpsertClient(ctx, &models.Client{ID: 3, Name: "João", Phone: "+5511999990000"}))
	require.NoError(t, store.UpsertClient(ctx, &models.Client{ID: 4, Name: "Ana"}))
	require.NoError(t, store.UpsertService(ctx, &models.Service{ID: 10, BranchID: 1, Name: "Corte", DurationMin: 30, Price: 40, Active: true}))

	appointments := []models.Appointment{
		{ID: 100, BranchID: 1, BarberID: 2, ClientID: 3, Date: "2024-06-11", Time: "10:00", DurationMin: 30, ServiceIDs: []uint{10}, TotalPrice: 40, Status: "confirmed"},
		{ID: 101, BranchID: 1, BarberID: 2, ClientID: 3, Date: "2024-06-11", Time: "11:00", DurationMin: 30, ServiceIDs: []uint{10}, TotalPrice: 40, Status: "pending"},
		{ID: 102, BranchID: 1, BarberID: 2, ClientID: 3, Date: "2024-06-12", Time: "10:00", DurationMin: 30, ServiceIDs: []uint{10}, TotalPrice: 40, Status: "confirmed"},
	}
	for i := range appointments {
		require.NoError(t, store.CreateAppointment(ctx, &appointments[i]))
	}
	return store
}

func newSweep(store *memory.Store, n reminder.Notifier, at time.Time) *Sweep {
	return NewSweep(Deps{
		Repo:       store,
		Directory:  store,
		Notifier:   n,
		Logs:       store,
		Metrics:    metrics.New(),
		Log:        zap.NewNop(),
		Clock:      func() time.Time { return at },
		CutoffHour: reminder.DefaultCutoffHour,
		Timezone:   "UTC",
	})
}

func TestSweep_BeforeCutoffDoesNothing(t *testing.T) {
	store := seedStore(t)
	n := &fakeNotifier{}

	res, err := newSweep(store, n, time.Date(2024, 6, 10, 17, 59, 0, 0, time.UTC)).Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SweepResult{}, res)
	assert.Empty(t, n.sent)
}

func TestSweep_SendsOnce(t *testing.T) {
	store := seedStore(t)
	n := &fakeNotifier{}
	sweep := newSweep(store, n, time.Date(2024, 6, 10, 18, 0, 0, 0, time.UTC))

	res, err := sweep.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Due: 1, Sent: 1}, res)

	require.Len(t, n.sent, 1)
	assert.Equal(t, reminder.ChannelWhatsApp, n.sent[0].channel)
	assert.Equal(t, "+5511999990000", n.sent[0].destination)
	assert.Equal(t, uint(100), n.sent[0].payload.AppointmentID)
	assert.Equal(t, "Carlos", n.sent[0].payload.BarberName)
	assert.Equal(t, []string{"Corte"}, n.sent[0].payload.Services)

	ap, err := store.GetAppointment(context.Background(), 100)
	require.NoError(t, err)
	assert.True(t, ap.ReminderSent)
	assert.NotNil(t, ap.ReminderSentAt)

	res, err = sweep.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Due)
	assert.Len(t, n.sent, 1)

	logs := store.ReminderLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, "sent", logs[0].Status)
}

func TestSweep_FailedSendIsRetried(t *testing.T) {
	store := seedStore(t)
	n := &fakeNotifier{err: errors.New("gateway down")}
	sweep := newSweep(store, n, time.Date(2024, 6, 10, 20, 0, 0, 0, time.UTC))

	res, err := sweep.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Due: 1, Failed: 1}, res)

	ap, err := store.GetAppointment(context.Background(), 100)
	require.NoError(t, err)
	assert.False(t, ap.ReminderSent)

	logs := store.ReminderLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, "failed", logs[0].Status)
	assert.Equal(t, "gateway down", logs[0].ErrorMessage)

	n.err = nil
	res, err = sweep.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Due: 1, Sent: 1}, res)
}

func TestSweep_ClientWithoutPhone(t *testing.T) {
	store := seedStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreateAppointment(ctx, &models.Appointment{
		ID: 103, BranchID: 1, BarberID: 2, ClientID: 4, Date: "2024-06-11", Time: "15:00", Status: "confirmed",
	}))
	n := &fakeNotifier{}

	res, err := newSweep(store, n, time.Date(2024, 6, 10, 19, 0, 0, 0, time.UTC)).Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Due: 2, Sent: 1, Failed: 1}, res)

	var failed []models.ReminderLog
	for _, l := range store.ReminderLogs() {
		if l.Status == "failed" {
			failed = append(failed, l)
		}
	}
	require.Len(t, failed, 1)
	assert.Equal(t, uint(103), failed[0].AppointmentID)
	assert.Equal(t, ErrNoDestination.Error(), failed[0].ErrorMessage)
}

func TestSweep_UsesEachBranchTimezone(t *testing.T) {
	store := seedStore(t)
	ctx := context.Background()

	// filial 5 em São Paulo (UTC-3); a filial 1 usa o fuso padrão (UTC)
	require.NoError(t, store.UpsertBranch(ctx, &models.Branch{ID: 5, Name: "Paulista", Slug: "paulista", Timezone: "America/Sao_Paulo", Active: true}))
	require.NoError(t, store.UpsertBarber(ctx, &models.Barber{ID: 6, BranchID: 5, Name: "Rafael", Active: true}))
	require.NoError(t, store.CreateAppointment(ctx, &models.Appointment{
		ID: 200, BranchID: 5, BarberID: 6, ClientID: 3, Date: "2024-06-11", Time: "09:00", Status: "confirmed",
	}))

	n := &fakeNotifier{}

	// 19:00 UTC: 16:00 em São Paulo, só a filial 1 passou do corte
	res, err := newSweep(store, n, time.Date(2024, 6, 10, 19, 0, 0, 0, time.UTC)).Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Due: 1, Sent: 1}, res)
	require.Len(t, n.sent, 1)
	assert.Equal(t, uint(100), n.sent[0].payload.AppointmentID)

	// 01:30 UTC do dia 11: ainda dia 10, 22:30, em São Paulo
	res, err = newSweep(store, n, time.Date(2024, 6, 11, 1, 30, 0, 0, time.UTC)).Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Due: 1, Sent: 1}, res)
	require.Len(t, n.sent, 2)
	assert.Equal(t, uint(200), n.sent[1].payload.AppointmentID)
	assert.Equal(t, "Rafael", n.sent[1].payload.BarberName)

	ap, err := store.GetAppointment(ctx, 200)
	require.NoError(t, err)
	assert.True(t, ap.ReminderSent)
}
