package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/events"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/metrics"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/models"
	ucRisk "github.com/BruksfildServices01/barber-chain-scheduler/internal/usecase/risk"
)

const (
	branchID  uint = 1
	barberID  uint = 2
	clientID  uint = 3
	otherID   uint = 4
	haircutID uint = 10
	beardID   uint = 11
)

// segunda-feira
const bookingDay = "2024-06-10"

var (
	client    = domain.ActorFor(clientID, "client")
	barber    = domain.ActorFor(barberID, "barber")
	reception = domain.ActorFor(50, "reception")
	admin     = domain.ActorFor(60, "branch_admin")
)

type fixture struct {
	store  *memory.Store
	events *events.Recorder
	deps   Deps
}

func newFixture(t *testing.T, policy domain.RejectionPolicy) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.New()
	require.NoError(t, store.UpsertBranch(ctx, &models.Branch{ID: branchID, Name: "Centro", Slug: "centro", Timezone: "UTC", Active: true}))
	require.NoError(t, store.UpsertBranchHours(ctx, &models.BranchHours{BranchID: branchID, Weekday: int(time.Monday), OpenTime: "09:00", CloseTime: "18:00", Active: true}))
	require.NoError(t, store.UpsertBarber(ctx, &models.Barber{ID: barberID, BranchID: branchID, Name: "Carlos", Active: true}))
	require.NoError(t, store.UpsertClient(ctx, &models.Client{ID: clientID, Name: "João", Phone: "+5511999990000"}))
	require.NoError(t, store.UpsertClient(ctx, &models.Client{ID: otherID, Name: "Maria", Phone: "11988887777"}))
	require.NoError(t, store.UpsertService(ctx, &models.Service{ID: haircutID, BranchID: branchID, Name: "Corte", DurationMin: 30, Price: 40, Active: true}))
	require.NoError(t, store.UpsertService(ctx, &models.Service{ID: beardID, BranchID: branchID, Name: "Barba", DurationMin: 30, Price: 25, Active: true}))

	log := zap.NewNop()
	m := metrics.New()
	rec := &events.Recorder{}

	dispatcher := audit.NewDispatcher(audit.New(store), log)
	t.Cleanup(dispatcher.Close)

	return &fixture{
		store:  store,
		events: rec,
		deps: Deps{
			Repo:      store,
			Directory: store,
			Locker:    lock.NewMemoryLocker(),
			Risk:      ucRisk.NewLedger(store, nil, rec, m, log),
			Ledger:    store,
			Events:    rec,
			Audit:     dispatcher,
			Metrics:   m,
			Log:       log,
			Clock: func() time.Time {
				return time.Date(2024, 6, 9, 10, 0, 0, 0, time.UTC)
			},
			Settings: Settings{
				SlotGranularityMin: 30,
				RejectionPolicy:    policy,
				Timezone:           "UTC",
			},
		},
	}
}

func (f *fixture) book(t *testing.T, in CreateAppointmentInput) *models.Appointment {
	t.Helper()
	ap, err := NewCreateAppointment(f.deps).Execute(context.Background(), client, in)
	require.NoError(t, err)
	return ap
}

func cashBooking(hm string) CreateAppointmentInput {
	return CreateAppointmentInput{
		ClientID:   clientID,
		BarberID:   barberID,
		BranchID:   branchID,
		Date:       bookingDay,
		Time:       hm,
		ServiceIDs: []uint{haircutID},
	}
}

func voucherBooking(hm string) CreateAppointmentInput {
	in := cashBooking(hm)
	in.PaymentMethod = "pix"
	in.VoucherURL = "https://files.example.com/vouchers/1.webp"
	in.VoucherNumber = "E123"
	return in
}
