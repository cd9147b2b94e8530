package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeledger/backend/internal/domain/shared"
)

// PopulationMax holds the population-wide maxima used to normalize the
// importance score. Zero maxima normalize to zero.
type PopulationMax struct {
	MaxSpend        decimal.Decimal
	MaxFrequency    int64
	MaxPointsEarned int64
}

// InvoiceRepository defines the persistence interface for invoices
type InvoiceRepository interface {
	shared.CustomerScopedRepository[Invoice]
	FindByNumber(ctx context.Context, invoiceNumber string) (*Invoice, error)
	FindOutstandingByCustomerID(ctx context.Context, customerID uuid.UUID) ([]Invoice, error)
	// PopulationMax returns, across all customers, the maximum total
	// spend, invoice count and points earned.
	PopulationMax(ctx context.Context) (PopulationMax, error)
}

// PaymentRepository defines the persistence interface for payments
type PaymentRepository interface {
	shared.CustomerScopedRepository[Payment]
	FindByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]Payment, error)
	// FindStandaloneByCustomerID returns payments with no invoice link
	FindStandaloneByCustomerID(ctx context.Context, customerID uuid.UUID) ([]Payment, error)
}

// ReturnRepository defines the persistence interface for returns
type ReturnRepository interface {
	shared.CustomerScopedRepository[Return]
	FindByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]Return, error)
}
