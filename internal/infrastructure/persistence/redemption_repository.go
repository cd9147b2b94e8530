package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storeledger/backend/internal/domain/loyalty"
	"github.com/storeledger/backend/internal/domain/shared"
)

// GormRedemptionRepository implements RedemptionRepository using GORM
type GormRedemptionRepository struct {
	db *gorm.DB
}

// NewGormRedemptionRepository creates a new GormRedemptionRepository
func NewGormRedemptionRepository(db *gorm.DB) *GormRedemptionRepository {
	return &GormRedemptionRepository{db: db}
}

var _ loyalty.RedemptionRepository = (*GormRedemptionRepository)(nil)

// FindByID finds a redemption by its ID
func (r *GormRedemptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*loyalty.Redemption, error) {
	var red loyalty.Redemption
	if err := r.db.WithContext(ctx).First(&red, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fetchError(err)
	}
	return &red, nil
}

// FindAll finds all redemptions matching the filter
func (r *GormRedemptionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]loyalty.Redemption, error) {
	var redemptions []loyalty.Redemption
	query := applyFilter(r.db.WithContext(ctx).Model(&loyalty.Redemption{}), filter, RedemptionSortFields)
	if err := query.Find(&redemptions).Error; err != nil {
		return nil, fetchError(err)
	}
	return redemptions, nil
}

// FindByCustomerID returns every redemption belonging to the customer
func (r *GormRedemptionRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]loyalty.Redemption, error) {
	var redemptions []loyalty.Redemption
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("redemption_date ASC").
		Find(&redemptions).Error; err != nil {
		return nil, fetchError(err)
	}
	return redemptions, nil
}

// FindByStatus finds redemptions in a given lifecycle state
func (r *GormRedemptionRepository) FindByStatus(ctx context.Context, status loyalty.RedemptionStatus, filter shared.Filter) ([]loyalty.Redemption, error) {
	var redemptions []loyalty.Redemption
	query := applyFilter(
		r.db.WithContext(ctx).Model(&loyalty.Redemption{}).Where("status = ?", status),
		filter, RedemptionSortFields,
	)
	if err := query.Find(&redemptions).Error; err != nil {
		return nil, fetchError(err)
	}
	return redemptions, nil
}

// Save persists a redemption aggregate
func (r *GormRedemptionRepository) Save(ctx context.Context, red *loyalty.Redemption) error {
	return r.db.WithContext(ctx).Save(red).Error
}

// Delete removes a redemption by ID
func (r *GormRedemptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&loyalty.Redemption{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts redemptions matching the filter
func (r *GormRedemptionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&loyalty.Redemption{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, fetchError(err)
	}
	return count, nil
}
