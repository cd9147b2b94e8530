package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storeledger/backend/internal/domain/customer"
	"github.com/storeledger/backend/internal/domain/shared"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

var _ customer.CustomerRepository = (*GormCustomerRepository)(nil)

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	var c customer.Customer
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fetchError(err)
	}
	return &c, nil
}

// FindByCode finds a customer by its code
func (r *GormCustomerRepository) FindByCode(ctx context.Context, code string) (*customer.Customer, error) {
	var c customer.Customer
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fetchError(err)
	}
	return &c, nil
}

// ExistsByCode checks whether a customer with the given code exists
func (r *GormCustomerRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&customer.Customer{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, fetchError(err)
	}
	return count > 0, nil
}

// FindAll finds all customers matching the filter
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]customer.Customer, error) {
	var customers []customer.Customer
	query := applyFilter(r.db.WithContext(ctx).Model(&customer.Customer{}), filter, CustomerSortFields)
	if err := query.Find(&customers).Error; err != nil {
		return nil, fetchError(err)
	}
	return customers, nil
}

// Save persists a customer aggregate
func (r *GormCustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// SaveVersioned persists the customer only when the stored row still carries
// expectedVersion. The aggregate's own Version has already been incremented
// by the state change being saved, so the compare runs against the version
// the caller loaded.
func (r *GormCustomerRepository) SaveVersioned(ctx context.Context, c *customer.Customer, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&customer.Customer{}).
		Where("id = ? AND version = ?", c.ID, expectedVersion).
		Updates(map[string]interface{}{
			"name":            c.Name,
			"phone":           c.Phone,
			"email":           c.Email,
			"points_earned":   c.PointsEarned,
			"points_redeemed": c.PointsRedeemed,
			"current_points":  c.CurrentPoints,
			"credit_balance":  c.CreditBalance,
			"opening_balance": c.OpeningBalance,
			"classification":  c.Classification,
			"level":           c.Level,
			"last_active":     c.LastActive,
			"credit_limit":    c.CreditLimit,
			"credit_period":   c.CreditPeriod,
			"version":         c.Version,
			"updated_at":      c.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrWriteConflict
	}
	return nil
}

// Delete removes a customer by ID
func (r *GormCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&customer.Customer{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts customers matching the filter
func (r *GormCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&customer.Customer{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, fetchError(err)
	}
	return count, nil
}

// applyFilter applies pagination, ordering and field filters to a query.
// OrderBy is validated against the whitelist before it reaches the SQL.
func applyFilter(query *gorm.DB, filter shared.Filter, sortFields map[string]bool) *gorm.DB {
	query = applyFilterWithoutPagination(query, filter)

	orderBy := ValidateSortField(filter.OrderBy, sortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	return query
}

func applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "level":
			query = query.Where("level = ?", value)
		case "classification":
			query = query.Where("classification = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "kind":
			query = query.Where("kind = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		}
	}
	return query
}
