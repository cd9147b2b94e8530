package sales

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeledger/backend/internal/domain/shared"
)

// InvoiceStatus represents the payment status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusUnpaid        InvoiceStatus = "UNPAID"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoiceStatusPaid          InvoiceStatus = "PAID"
	InvoiceStatusOverdue       InvoiceStatus = "OVERDUE"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusUnpaid, InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsOutstanding returns true when the invoice still carries an unpaid
// balance and therefore contributes to the customer's credit balance
func (s InvoiceStatus) IsOutstanding() bool {
	return s == InvoiceStatusUnpaid || s == InvoiceStatusPartiallyPaid || s == InvoiceStatusOverdue
}

// InvoiceItem is a value object for one invoice line, stored as JSONB
type InvoiceItem struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Category     string          `json:"category"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineTotal    decimal.Decimal `json:"line_total"`
	PointsEarned int64           `json:"points_earned"`
}

// InvoiceItems implements GORM Scanner/Valuer for JSONB storage
type InvoiceItems []InvoiceItem

// Value implements driver.Valuer
func (items InvoiceItems) Value() (driver.Value, error) {
	if items == nil {
		return "[]", nil
	}
	return json.Marshal(items)
}

// Scan implements sql.Scanner
func (items *InvoiceItems) Scan(value interface{}) error {
	if value == nil {
		*items = InvoiceItems{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan InvoiceItems: unsupported type")
	}

	if len(bytes) == 0 {
		*items = InvoiceItems{}
		return nil
	}

	return json.Unmarshal(bytes, items)
}

// Invoice represents a sales document, one of the mutable event sources
// the customer ledger is reconciled from
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber         string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceDate           time.Time       `gorm:"not null;index"`
	DueDate               *time.Time      `gorm:"index"`
	TotalAmount           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status                InvoiceStatus   `gorm:"type:varchar(20);not null;default:'UNPAID'"`
	Items                 InvoiceItems    `gorm:"type:jsonb"`
	PointsEarned          int64           `gorm:"not null;default:0"`
	PointsRedeemed        int64           `gorm:"not null;default:0"`
	DistinctCategoryCount int             `gorm:"not null;default:0"`
	PaidAt                *time.Time
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new unpaid invoice. Total amount, points earned
// and distinct category count are derived from the line items.
func NewInvoice(customerID uuid.UUID, invoiceNumber string, invoiceDate time.Time, dueDate *time.Time, items []InvoiceItem) (*Invoice, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Invoice requires a customer")
	}
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Invoice number cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Invoice requires at least one line item")
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, shared.NewDomainError("VALIDATION_FAILED", "Line quantity must be positive")
		}
		if item.LineTotal.IsNegative() {
			return nil, shared.NewDomainError("VALIDATION_FAILED", "Line total cannot be negative")
		}
	}

	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		CustomerID:        customerID,
		InvoiceDate:       invoiceDate,
		DueDate:           dueDate,
		Status:            InvoiceStatusUnpaid,
		Items:             items,
	}
	inv.recomputeDerived()

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// ReplaceItems replaces the invoice lines and rederives totals
func (inv *Invoice) ReplaceItems(items []InvoiceItem) error {
	if len(items) == 0 {
		return shared.NewDomainError("VALIDATION_FAILED", "Invoice requires at least one line item")
	}
	if inv.Status == InvoiceStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Cannot edit a fully paid invoice")
	}

	inv.Items = items
	inv.recomputeDerived()
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceUpdatedEvent(inv))

	return nil
}

// SetPointsRedeemed records points spent against this invoice at sale time
func (inv *Invoice) SetPointsRedeemed(points int64) error {
	if points < 0 {
		return shared.NewDomainError("VALIDATION_FAILED", "Redeemed points cannot be negative")
	}
	inv.PointsRedeemed = points
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
	return nil
}

// RefreshPaymentStatus moves the invoice through its status lifecycle
// based on the signed sum of payments applied so far
func (inv *Invoice) RefreshPaymentStatus(paidSoFar decimal.Decimal, now time.Time) {
	old := inv.Status
	switch {
	case paidSoFar.GreaterThanOrEqual(inv.TotalAmount) && inv.TotalAmount.GreaterThan(decimal.Zero):
		inv.Status = InvoiceStatusPaid
		if inv.PaidAt == nil {
			t := now
			inv.PaidAt = &t
		}
	case paidSoFar.GreaterThan(decimal.Zero):
		inv.Status = InvoiceStatusPartiallyPaid
		inv.PaidAt = nil
	case inv.DueDate != nil && now.After(*inv.DueDate):
		inv.Status = InvoiceStatusOverdue
		inv.PaidAt = nil
	default:
		inv.Status = InvoiceStatusUnpaid
		inv.PaidAt = nil
	}

	if old != inv.Status {
		inv.UpdatedAt = now
		inv.IncrementVersion()
		inv.AddDomainEvent(NewInvoiceStatusChangedEvent(inv, old, inv.Status))
	}
}

// WasPaidOnTime reports whether full payment landed before the due date.
// Invoices without a due date count as on time.
func (inv *Invoice) WasPaidOnTime() bool {
	if inv.Status != InvoiceStatusPaid {
		return false
	}
	if inv.DueDate == nil || inv.PaidAt == nil {
		return true
	}
	return !inv.PaidAt.After(*inv.DueDate)
}

// DistinctCategories returns the set of product categories on this invoice
func (inv *Invoice) DistinctCategories() map[string]struct{} {
	categories := make(map[string]struct{})
	for _, item := range inv.Items {
		if item.Category != "" {
			categories[item.Category] = struct{}{}
		}
	}
	return categories
}

func (inv *Invoice) recomputeDerived() {
	total := decimal.Zero
	var points int64
	for _, item := range inv.Items {
		total = total.Add(item.LineTotal)
		points += item.PointsEarned
	}
	inv.TotalAmount = total
	inv.PointsEarned = points
	inv.DistinctCategoryCount = len(inv.DistinctCategories())
}
