package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/models"
)

// DirectoryGormRepository reads branches, staff, clients and services.
// The Upsert* methods back the seed command.
type DirectoryGormRepository struct {
	db *gorm.DB
}

func NewDirectoryGormRepository(db *gorm.DB) *DirectoryGormRepository {
	return &DirectoryGormRepository{db: db}
}

func notFound(err error, mapped error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return mapped
	}
	return err
}

func (r *DirectoryGormRepository) GetBranch(ctx context.Context, id uint) (*models.Branch, error) {
	var b models.Branch
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, notFound(err, domain.ErrBranchNotFound)
	}
	return &b, nil
}

func (r *DirectoryGormRepository) GetBranchHours(
	ctx context.Context,
	branchID uint,
	weekday time.Weekday,
) (*domain.OperatingHours, error) {

	var wh models.BranchHours
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND weekday = ?", branchID, int(weekday)).
		First(&wh).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return hoursOf(&wh), nil
}

func hoursOf(wh *models.BranchHours) *domain.OperatingHours {
	if !wh.Active || wh.OpenTime == "" || wh.CloseTime == "" {
		return nil
	}
	return &domain.OperatingHours{
		Open:       wh.OpenTime,
		Close:      wh.CloseTime,
		LunchStart: wh.LunchStart,
		LunchEnd:   wh.LunchEnd,
	}
}

func (r *DirectoryGormRepository) GetActiveBarbers(ctx context.Context, branchID uint) ([]models.Barber, error) {
	var barbers []models.Barber
	if err := r.db.WithContext(ctx).
		Where("branch_id = ? AND active = ?", branchID, true).
		Order("id ASC").
		Find(&barbers).Error; err != nil {
		return nil, err
	}
	return barbers, nil
}

func (r *DirectoryGormRepository) GetBarber(ctx context.Context, id uint) (*models.Barber, error) {
	var b models.Barber
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, notFound(err, domain.ErrBarberNotFound)
	}
	return &b, nil
}

func (r *DirectoryGormRepository) GetClient(ctx context.Context, id uint) (*models.Client, error) {
	var c models.Client
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err, domain.ErrClientNotFound)
	}
	return &c, nil
}

func (r *DirectoryGormRepository) GetServices(ctx context.Context, ids []uint) ([]models.Service, error) {
	var found []models.Service
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Service, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}

	out := make([]models.Service, 0, len(ids))
	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			return nil, domain.ErrServiceNotFound
		}
		out = append(out, s)
	}
	return out, nil
}

// --------------------------------------------------
// Seed
// --------------------------------------------------

func (r *DirectoryGormRepository) upsert(ctx context.Context, v any) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(v).Error
}

func (r *DirectoryGormRepository) UpsertBranch(ctx context.Context, b *models.Branch) error {
	return r.upsert(ctx, b)
}

func (r *DirectoryGormRepository) UpsertBranchHours(ctx context.Context, h *models.BranchHours) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "branch_id"}, {Name: "weekday"}},
			DoUpdates: clause.AssignmentColumns([]string{"open_time", "close_time", "lunch_start", "lunch_end", "active", "updated_at"}),
		}).
		Create(h).Error
}

func (r *DirectoryGormRepository) UpsertBarber(ctx context.Context, b *models.Barber) error {
	return r.upsert(ctx, b)
}

// UpsertClient never touches the risk columns.
func (r *DirectoryGormRepository) UpsertClient(ctx context.Context, c *models.Client) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "phone", "email", "updated_at"}),
		}).
		Create(c).Error
}

func (r *DirectoryGormRepository) UpsertService(ctx context.Context, s *models.Service) error {
	return r.upsert(ctx, s)
}

var _ domain.Directory = (*DirectoryGormRepository)(nil)
