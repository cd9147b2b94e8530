package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storeledger/backend/internal/domain/loyalty"
	"github.com/storeledger/backend/internal/domain/shared"
)

// GormPointsEntryRepository implements PointsEntryRepository using GORM
type GormPointsEntryRepository struct {
	db *gorm.DB
}

// NewGormPointsEntryRepository creates a new GormPointsEntryRepository
func NewGormPointsEntryRepository(db *gorm.DB) *GormPointsEntryRepository {
	return &GormPointsEntryRepository{db: db}
}

var _ loyalty.PointsEntryRepository = (*GormPointsEntryRepository)(nil)

// FindByID finds a points entry by its ID
func (r *GormPointsEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*loyalty.PointsEntry, error) {
	var e loyalty.PointsEntry
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fetchError(err)
	}
	return &e, nil
}

// FindAll finds all points entries matching the filter
func (r *GormPointsEntryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]loyalty.PointsEntry, error) {
	var entries []loyalty.PointsEntry
	query := applyFilter(r.db.WithContext(ctx).Model(&loyalty.PointsEntry{}), filter, PointsEntrySortFields)
	if err := query.Find(&entries).Error; err != nil {
		return nil, fetchError(err)
	}
	return entries, nil
}

// FindByCustomerID returns every manual adjustment belonging to the customer
func (r *GormPointsEntryRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]loyalty.PointsEntry, error) {
	var entries []loyalty.PointsEntry
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("entry_date ASC").
		Find(&entries).Error; err != nil {
		return nil, fetchError(err)
	}
	return entries, nil
}

// SumDeltaByCustomerID returns the net manual adjustment for the customer
func (r *GormPointsEntryRepository) SumDeltaByCustomerID(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var sum int64
	if err := r.db.WithContext(ctx).
		Model(&loyalty.PointsEntry{}).
		Where("customer_id = ?", customerID).
		Select("COALESCE(SUM(delta), 0)").
		Scan(&sum).Error; err != nil {
		return 0, fetchError(err)
	}
	return sum, nil
}

// Save persists a points entry
func (r *GormPointsEntryRepository) Save(ctx context.Context, e *loyalty.PointsEntry) error {
	return r.db.WithContext(ctx).Save(e).Error
}

// Delete removes a points entry by ID
func (r *GormPointsEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&loyalty.PointsEntry{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts points entries matching the filter
func (r *GormPointsEntryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&loyalty.PointsEntry{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, fetchError(err)
	}
	return count, nil
}
