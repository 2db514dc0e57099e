package main

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/audit"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-chain-scheduler/internal/db"
	domain "github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/ledger"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/reminder"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/risk"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/events"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/handlers"
	infraEvents "github.com/BruksfildServices01/barber-chain-scheduler/internal/infra/events"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/infra/notify"
	infraRepo "github.com/BruksfildServices01/barber-chain-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/infra/storage"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/metrics"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/routes"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/seed"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/barber-chain-scheduler/internal/usecase/appointment"
	ucReminder "github.com/BruksfildServices01/barber-chain-scheduler/internal/usecase/reminder"
	ucRisk "github.com/BruksfildServices01/barber-chain-scheduler/internal/usecase/risk"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/voucher"
)

type stores struct {
	repo      domain.Repository
	directory domain.Directory
	risk      risk.Repository
	ledger    ledger.Sink
	audit     audit.Store
	reminders reminder.LogStore
	seed      seed.Store
	memory    bool
}

// App holds the wired dependencies shared by every command.
type App struct {
	cfg *config.Config
	log *zap.Logger

	Metrics   *metrics.Metrics
	SeedStore seed.Store
	Sweep     *ucReminder.Sweep

	stores   stores
	deps     ucAppointment.Deps
	ledger   *ucRisk.Ledger
	uploader *voucher.Uploader
	audit    *audit.Dispatcher
	closers  []func()
}

func NewApp(cfg *config.Config, log *zap.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log, Metrics: metrics.New()}

	st, err := a.openStores()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.stores = st
	a.SeedStore = st.seed

	locker, err := a.openLocker()
	if err != nil {
		a.Close()
		return nil, err
	}

	publisher, err := a.openPublisher()
	if err != nil {
		a.Close()
		return nil, err
	}

	a.audit = audit.NewDispatcher(audit.New(st.audit), log)
	a.closers = append(a.closers, a.audit.Close)

	a.ledger = ucRisk.NewLedger(
		st.risk,
		risk.NewKeywordClassifier(cfg.Booking.FraudKeywords...),
		publisher,
		a.Metrics,
		log,
	)

	a.deps = ucAppointment.Deps{
		Repo:      st.repo,
		Directory: st.directory,
		Locker:    locker,
		Risk:      a.ledger,
		Ledger:    st.ledger,
		Events:    publisher,
		Audit:     a.audit,
		Metrics:   a.Metrics,
		Log:       log,
		Clock:     timezone.SystemClock(),
		Settings: ucAppointment.Settings{
			SlotGranularityMin: cfg.Booking.SlotGranularityMin,
			RejectionPolicy:    cfg.Booking.RejectionPolicy,
			Timezone:           cfg.Timezone,
		},
	}

	a.Sweep = ucReminder.NewSweep(ucReminder.Deps{
		Repo:       st.repo,
		Directory:  st.directory,
		Notifier:   a.notifier(),
		Logs:       st.reminders,
		Metrics:    a.Metrics,
		Log:        log,
		Clock:      timezone.SystemClock(),
		CutoffHour: cfg.Reminder.CutoffHour,
		Timezone:   cfg.Timezone,
	})

	a.uploader = voucher.NewUploader(a.objectStore())

	return a, nil
}

func (a *App) UsesMemoryStore() bool {
	return a.stores.memory
}

func (a *App) openStores() (stores, error) {
	if a.cfg.UseMemoryStore() {
		mem := memory.New()
		return stores{
			repo:      mem,
			directory: mem,
			risk:      mem,
			ledger:    mem,
			audit:     mem,
			reminders: mem,
			seed:      mem,
			memory:    true,
		}, nil
	}

	gdb, err := dbpkg.NewDB(a.cfg)
	if err != nil {
		return stores{}, err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		a.closers = append(a.closers, func() { _ = sqlDB.Close() })
	}
	if err := dbpkg.Migrate(gdb); err != nil {
		return stores{}, err
	}

	directory := infraRepo.NewDirectoryGormRepository(gdb)
	logs := infraRepo.NewLogGormRepository(gdb)
	return stores{
		repo:      infraRepo.NewAppointmentGormRepository(gdb),
		directory: directory,
		risk:      infraRepo.NewRiskGormRepository(gdb),
		ledger:    infraRepo.NewLedgerGormRepository(gdb),
		audit:     logs,
		reminders: logs,
		seed:      directory,
	}, nil
}

func (a *App) openLocker() (domain.SlotLocker, error) {
	if a.cfg.Redis.URL == "" {
		return lock.NewMemoryLocker(), nil
	}

	opt, err := redis.ParseURL(a.cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	a.closers = append(a.closers, func() { _ = client.Close() })
	return lock.NewRedisLocker(client, lock.RedisOptions{}, a.log), nil
}

func (a *App) openPublisher() (events.Publisher, error) {
	if a.cfg.NATS.URL == "" {
		return events.NewLogPublisher(a.log), nil
	}

	nc, err := infraEvents.Connect(a.cfg.NATS.URL, a.log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() {
		_ = nc.Drain()
		nc.Close()
	})
	return infraEvents.NewNATSPublisher(nc, "barber"), nil
}

func (a *App) notifier() reminder.Notifier {
	tw := a.cfg.Twilio
	if tw.AccountSID == "" || tw.AuthToken == "" {
		return notify.NewLogNotifier(a.log)
	}
	return notify.NewTwilioNotifier(notify.TwilioConfig{
		AccountSID:     tw.AccountSID,
		AuthToken:      tw.AuthToken,
		PhoneNumber:    tw.PhoneNumber,
		WhatsAppNumber: tw.WhatsAppNumber,
	}, a.log)
}

func (a *App) objectStore() voucher.ObjectStore {
	s3 := a.cfg.S3
	if s3.Bucket == "" {
		return storage.NewMemoryStore("")
	}
	return storage.NewS3Store(storage.S3Config{
		Bucket:    s3.Bucket,
		Region:    s3.Region,
		Endpoint:  s3.Endpoint,
		AccessKey: s3.AccessKey,
		SecretKey: s3.SecretKey,
		PublicURL: s3.PublicURL,
	})
}

func (a *App) Handlers() routes.Handlers {
	d := a.deps
	return routes.Handlers{
		Appointments: handlers.NewAppointmentHandler(handlers.AppointmentUseCases{
			Create:          ucAppointment.NewCreateAppointment(d),
			Get:             ucAppointment.NewGetAppointment(d),
			Availability:    ucAppointment.NewGetAvailability(d),
			ListByDate:      ucAppointment.NewListAppointmentsByDate(d),
			ListByMonth:     ucAppointment.NewListAppointmentsByMonth(d),
			UpdateStatus:    ucAppointment.NewUpdateStatus(d),
			VerifyPayment:   ucAppointment.NewVerifyPayment(d),
			ResubmitVoucher: ucAppointment.NewResubmitVoucher(d),
			MarkAttendance:  ucAppointment.NewMarkAttendance(d),
			Delete:          ucAppointment.NewDeleteAppointment(d),
		}, a.log),
		Risk:      handlers.NewRiskHandler(a.ledger, a.log),
		Vouchers:  handlers.NewVoucherHandler(a.uploader, a.log),
		AuditLogs: handlers.NewAuditLogsHandler(a.stores.audit, a.log),
	}
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
