package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/ledger"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/models"
)

type LedgerGormRepository struct {
	db *gorm.DB
}

func NewLedgerGormRepository(db *gorm.DB) *LedgerGormRepository {
	return &LedgerGormRepository{db: db}
}

func (r *LedgerGormRepository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			return ledger.ErrDuplicate
		}
		return err
	}
	return nil
}

var _ ledger.Sink = (*LedgerGormRepository)(nil)
