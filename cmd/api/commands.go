package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-chain-scheduler/internal/db"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/jobs"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/logger"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/routes"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/seed"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/timezone"
)

func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.LogPath, cfg.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}

// ======================================================
// SERVE
// ======================================================

func serveCmd() *cobra.Command {
	var seedFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the reminder scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(seedFile)
		},
	}

	cmd.Flags().StringVar(&seedFile, "seed", "", "YAML seed applied before serving (handy with the in-memory store)")
	return cmd
}

func serve(seedFile string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	app, err := NewApp(cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	if app.UsesMemoryStore() {
		log.Warn("DATABASE_URL not set, using in-memory store")
	}

	if seedFile != "" {
		f, err := seed.LoadFile(seedFile)
		if err != nil {
			return err
		}
		if _, err := seed.Apply(context.Background(), app.SeedStore, f); err != nil {
			return err
		}
	}

	job := jobs.NewReminderJob(app.Sweep, timezone.Location(cfg.Timezone), log)
	if err := job.Start(cfg.Reminder.SweepSpec); err != nil {
		return err
	}
	defer job.Stop()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(r, app.Handlers(), cfg.JWTSecret, cfg.CORSOrigins, app.Metrics, log)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// ======================================================
// MIGRATE
// ======================================================

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			if cfg.UseMemoryStore() {
				return errors.New("migrate requires DATABASE_URL")
			}

			gdb, err := dbpkg.NewDB(cfg)
			if err != nil {
				return err
			}
			if err := dbpkg.Migrate(gdb); err != nil {
				return err
			}
			log.Info("migration finished")
			return nil
		},
	}
}

// ======================================================
// SEED
// ======================================================

func seedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load branches, staff, services and clients from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			f, err := seed.LoadFile(file)
			if err != nil {
				return err
			}

			app, err := NewApp(cfg, log)
			if err != nil {
				return err
			}
			defer app.Close()

			sum, err := seed.Apply(cmd.Context(), app.SeedStore, f)
			if err != nil {
				return err
			}
			log.Info("seed applied",
				zap.Int("branches", sum.Branches),
				zap.Int("barbers", sum.Barbers),
				zap.Int("services", sum.Services),
				zap.Int("clients", sum.Clients),
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "seed.yaml", "YAML seed file")
	return cmd
}

// ======================================================
// SWEEP
// ======================================================

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep-reminders",
		Short: "Send tomorrow's reminders once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			app, err := NewApp(cfg, log)
			if err != nil {
				return err
			}
			defer app.Close()

			res, err := app.Sweep.Execute(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("due=%d sent=%d failed=%d\n", res.Due, res.Sent, res.Failed)
			return nil
		},
	}
}
