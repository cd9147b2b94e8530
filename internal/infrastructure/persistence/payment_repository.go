package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storeledger/backend/internal/domain/sales"
	"github.com/storeledger/backend/internal/domain/shared"
)

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

var _ sales.PaymentRepository = (*GormPaymentRepository)(nil)

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Payment, error) {
	var p sales.Payment
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fetchError(err)
	}
	return &p, nil
}

// FindAll finds all payments matching the filter
func (r *GormPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Payment, error) {
	var payments []sales.Payment
	query := applyFilter(r.db.WithContext(ctx).Model(&sales.Payment{}), filter, PaymentSortFields)
	if err := query.Find(&payments).Error; err != nil {
		return nil, fetchError(err)
	}
	return payments, nil
}

// FindByCustomerID returns every payment belonging to the customer
func (r *GormPaymentRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]sales.Payment, error) {
	var payments []sales.Payment
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("payment_date ASC").
		Find(&payments).Error; err != nil {
		return nil, fetchError(err)
	}
	return payments, nil
}

// FindByInvoiceID returns the payments applied to one invoice
func (r *GormPaymentRepository) FindByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]sales.Payment, error) {
	var payments []sales.Payment
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("payment_date ASC").
		Find(&payments).Error; err != nil {
		return nil, fetchError(err)
	}
	return payments, nil
}

// FindStandaloneByCustomerID returns the customer's payments with no
// invoice link. These adjust the credit balance directly.
func (r *GormPaymentRepository) FindStandaloneByCustomerID(ctx context.Context, customerID uuid.UUID) ([]sales.Payment, error) {
	var payments []sales.Payment
	if err := r.db.WithContext(ctx).
		Where("customer_id = ? AND invoice_id IS NULL", customerID).
		Order("payment_date ASC").
		Find(&payments).Error; err != nil {
		return nil, fetchError(err)
	}
	return payments, nil
}

// Save persists a payment aggregate
func (r *GormPaymentRepository) Save(ctx context.Context, p *sales.Payment) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete removes a payment by ID
func (r *GormPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&sales.Payment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts payments matching the filter
func (r *GormPaymentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&sales.Payment{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, fetchError(err)
	}
	return count, nil
}
