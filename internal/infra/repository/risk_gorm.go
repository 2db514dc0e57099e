package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/risk"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/models"
)

type RiskGormRepository struct {
	db *gorm.DB
}

func NewRiskGormRepository(db *gorm.DB) *RiskGormRepository {
	return &RiskGormRepository{db: db}
}

func (r *RiskGormRepository) GetRecord(ctx context.Context, clientID uint) (*risk.Record, error) {
	var c models.Client
	err := r.db.WithContext(ctx).
		Preload("Rejections", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&c, clientID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}

	rec := risk.FromClient(&c)
	return &rec, nil
}

// SaveRejection writes the counters and the history row in one
// transaction. Counters are only ever raised: GREATEST keeps a concurrent
// writer from lowering them.
func (r *RiskGormRepository) SaveRejection(ctx context.Context, rec *risk.Record, rej risk.Rejection) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Client
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&c, rec.ClientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrClientNotFound
			}
			return err
		}

		if err := tx.Model(&models.Client{}).
			Where("id = ?", rec.ClientID).
			Updates(map[string]any{
				"false_vouchers_count": gorm.Expr("GREATEST(false_vouchers_count, ?)", rec.FalseVouchersCount),
				"is_flagged":           c.IsFlagged || rec.IsFlagged,
				"blacklisted":          c.Blacklisted || rec.Blacklisted,
			}).Error; err != nil {
			return err
		}

		row := rej.Model(rec.ClientID)
		return tx.Create(&row).Error
	})
}

var _ risk.Repository = (*RiskGormRepository)(nil)
