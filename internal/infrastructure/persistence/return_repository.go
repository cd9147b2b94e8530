package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storeledger/backend/internal/domain/sales"
	"github.com/storeledger/backend/internal/domain/shared"
)

// GormReturnRepository implements ReturnRepository using GORM
type GormReturnRepository struct {
	db *gorm.DB
}

// NewGormReturnRepository creates a new GormReturnRepository
func NewGormReturnRepository(db *gorm.DB) *GormReturnRepository {
	return &GormReturnRepository{db: db}
}

var _ sales.ReturnRepository = (*GormReturnRepository)(nil)

// FindByID finds a return by its ID
func (r *GormReturnRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Return, error) {
	var ret sales.Return
	if err := r.db.WithContext(ctx).First(&ret, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fetchError(err)
	}
	return &ret, nil
}

// FindAll finds all returns matching the filter
func (r *GormReturnRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Return, error) {
	var returns []sales.Return
	query := applyFilter(r.db.WithContext(ctx).Model(&sales.Return{}), filter, ReturnSortFields)
	if err := query.Find(&returns).Error; err != nil {
		return nil, fetchError(err)
	}
	return returns, nil
}

// FindByCustomerID returns every return belonging to the customer
func (r *GormReturnRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]sales.Return, error) {
	var returns []sales.Return
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("return_date ASC").
		Find(&returns).Error; err != nil {
		return nil, fetchError(err)
	}
	return returns, nil
}

// FindByInvoiceID returns the returns raised against one invoice
func (r *GormReturnRepository) FindByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]sales.Return, error) {
	var returns []sales.Return
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("return_date ASC").
		Find(&returns).Error; err != nil {
		return nil, fetchError(err)
	}
	return returns, nil
}

// Save persists a return aggregate
func (r *GormReturnRepository) Save(ctx context.Context, ret *sales.Return) error {
	return r.db.WithContext(ctx).Save(ret).Error
}

// Delete removes a return by ID
func (r *GormReturnRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&sales.Return{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts returns matching the filter
func (r *GormReturnRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&sales.Return{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, fetchError(err)
	}
	return count, nil
}
