package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storeledger/backend/internal/domain/sales"
	"github.com/storeledger/backend/internal/domain/shared"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

var _ sales.InvoiceRepository = (*GormInvoiceRepository)(nil)

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Invoice, error) {
	var inv sales.Invoice
	if err := r.db.WithContext(ctx).First(&inv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fetchError(err)
	}
	return &inv, nil
}

// FindByNumber finds an invoice by its unique invoice number
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, invoiceNumber string) (*sales.Invoice, error) {
	var inv sales.Invoice
	if err := r.db.WithContext(ctx).
		Where("invoice_number = ?", invoiceNumber).
		First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fetchError(err)
	}
	return &inv, nil
}

// FindAll finds all invoices matching the filter
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Invoice, error) {
	var invoices []sales.Invoice
	query := applyFilter(r.db.WithContext(ctx).Model(&sales.Invoice{}), filter, InvoiceSortFields)
	if err := query.Find(&invoices).Error; err != nil {
		return nil, fetchError(err)
	}
	return invoices, nil
}

// FindByCustomerID returns every invoice belonging to the customer.
// The reconciliation engine reads the full history, so no pagination.
func (r *GormInvoiceRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]sales.Invoice, error) {
	var invoices []sales.Invoice
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("invoice_date ASC").
		Find(&invoices).Error; err != nil {
		return nil, fetchError(err)
	}
	return invoices, nil
}

// FindOutstandingByCustomerID returns the customer's invoices that still
// carry an unpaid balance
func (r *GormInvoiceRepository) FindOutstandingByCustomerID(ctx context.Context, customerID uuid.UUID) ([]sales.Invoice, error) {
	var invoices []sales.Invoice
	if err := r.db.WithContext(ctx).
		Where("customer_id = ? AND status IN ?", customerID, []sales.InvoiceStatus{
			sales.InvoiceStatusUnpaid,
			sales.InvoiceStatusPartiallyPaid,
			sales.InvoiceStatusOverdue,
		}).
		Order("invoice_date ASC").
		Find(&invoices).Error; err != nil {
		return nil, fetchError(err)
	}
	return invoices, nil
}

// populationMaxRow receives the three aggregates in one scan
type populationMaxRow struct {
	MaxSpend        decimal.Decimal
	MaxFrequency    int64
	MaxPointsEarned int64
}

// PopulationMax returns the maximum per-customer spend, invoice count and
// points earned across the whole population. An empty invoices table
// yields all-zero maxima.
func (r *GormInvoiceRepository) PopulationMax(ctx context.Context) (sales.PopulationMax, error) {
	var row populationMaxRow
	err := r.db.WithContext(ctx).
		Table("(?) AS per_customer", r.db.Model(&sales.Invoice{}).
			Select("customer_id, SUM(total_amount) AS spend, COUNT(*) AS frequency, SUM(points_earned) AS points").
			Group("customer_id")).
		Select("COALESCE(MAX(spend), 0) AS max_spend, COALESCE(MAX(frequency), 0) AS max_frequency, COALESCE(MAX(points), 0) AS max_points_earned").
		Scan(&row).Error
	if err != nil {
		return sales.PopulationMax{}, fetchError(err)
	}
	return sales.PopulationMax{
		MaxSpend:        row.MaxSpend,
		MaxFrequency:    row.MaxFrequency,
		MaxPointsEarned: row.MaxPointsEarned,
	}, nil
}

// Save persists an invoice aggregate
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *sales.Invoice) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

// Delete removes an invoice by ID
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&sales.Invoice{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts invoices matching the filter
func (r *GormInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&sales.Invoice{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, fetchError(err)
	}
	return count, nil
}
