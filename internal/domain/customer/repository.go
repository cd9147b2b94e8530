package customer

import (
	"context"

	"github.com/storeledger/backend/internal/domain/shared"
)

// CustomerRepository defines the persistence interface for customers
type CustomerRepository interface {
	shared.Repository[Customer]
	FindByCode(ctx context.Context, code string) (*Customer, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	// SaveVersioned persists the aggregate only when the stored row still
	// carries the version the aggregate was loaded at. Returns
	// shared.ErrWriteConflict when a concurrent reconciliation got there
	// first.
	SaveVersioned(ctx context.Context, c *Customer, expectedVersion int) error
}
