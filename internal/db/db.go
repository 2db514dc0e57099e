package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/config"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/models"
)

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.Debug {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	return db, nil
}

// noOverlapDDL backs the barber/day lock at the database: two live
// appointments of a barber on the same date may not share a minute.
// Minutes are derived from the HH:MM time column.
const noOverlapDDL = `
DO $$
BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM pg_constraint WHERE conname = 'appointments_no_overlap'
    ) THEN
        ALTER TABLE appointments
        ADD CONSTRAINT appointments_no_overlap
        EXCLUDE USING gist (
            barber_id WITH =,
            "date" WITH =,
            int4range(
                substr("time", 1, 2)::int * 60 + substr("time", 4, 2)::int,
                substr("time", 1, 2)::int * 60 + substr("time", 4, 2)::int + GREATEST(duration_min, 1)
            ) WITH &&
        ) WHERE (status <> 'cancelled');
    END IF;
END
$$;
`

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Branch{},
		&models.BranchHours{},
		&models.Barber{},
		&models.Service{},
		&models.Client{},
		&models.VoucherRejection{},
		&models.Appointment{},
		&models.Transaction{},
		&models.ReminderLog{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("enable btree_gist: %w", err)
	}
	if err := db.Exec(noOverlapDDL).Error; err != nil {
		return fmt.Errorf("create appointment overlap constraint: %w", err)
	}

	// timezone padrão para filiais antigas
	if err := db.Exec(`
        UPDATE branches
        SET timezone = 'America/Sao_Paulo'
        WHERE timezone IS NULL OR timezone = ''
    `).Error; err != nil {
		return fmt.Errorf("backfill branch timezone: %w", err)
	}

	return nil
}
