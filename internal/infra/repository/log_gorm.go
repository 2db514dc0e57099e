package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/audit"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/reminder"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/models"
)

// LogGormRepository stores the append-only audit and reminder rows.
type LogGormRepository struct {
	db *gorm.DB
}

func NewLogGormRepository(db *gorm.DB) *LogGormRepository {
	return &LogGormRepository{db: db}
}

func (r *LogGormRepository) CreateAuditLog(ctx context.Context, l *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LogGormRepository) ListAuditLogs(
	ctx context.Context,
	f audit.Filter,
) ([]models.AuditLog, int64, error) {

	query := r.db.WithContext(ctx).Model(&models.AuditLog{})
	if f.BranchID != 0 {
		query = query.Where("branch_id = ?", f.BranchID)
	}
	if f.Action != "" {
		query = query.Where("action = ?", f.Action)
	}
	if f.Entity != "" {
		query = query.Where("entity = ?", f.Entity)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit > 0 {
		query = query.Limit(f.Limit).Offset(f.Offset)
	}

	var logs []models.AuditLog
	if err := query.Order("created_at DESC").Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

func (r *LogGormRepository) CreateReminderLog(ctx context.Context, l *models.ReminderLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

var (
	_ audit.Store       = (*LogGormRepository)(nil)
	_ reminder.LogStore = (*LogGormRepository)(nil)
)
