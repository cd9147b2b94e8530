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

// ReturnStatus represents the approval state of a return
type ReturnStatus string

const (
	ReturnStatusPending  ReturnStatus = "PENDING"
	ReturnStatusApproved ReturnStatus = "APPROVED"
	ReturnStatusRejected ReturnStatus = "REJECTED"
)

// IsValid checks if the status is a valid ReturnStatus
func (s ReturnStatus) IsValid() bool {
	switch s {
	case ReturnStatusPending, ReturnStatusApproved, ReturnStatusRejected:
		return true
	}
	return false
}

// ReturnItem is a value object for one returned line, stored as JSONB
type ReturnItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Amount    decimal.Decimal `json:"amount"`
}

// ReturnItems implements GORM Scanner/Valuer for JSONB storage
type ReturnItems []ReturnItem

// Value implements driver.Valuer
func (items ReturnItems) Value() (driver.Value, error) {
	if items == nil {
		return "[]", nil
	}
	return json.Marshal(items)
}

// Scan implements sql.Scanner
func (items *ReturnItems) Scan(value interface{}) error {
	if value == nil {
		*items = ReturnItems{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan ReturnItems: unsupported type")
	}

	if len(bytes) == 0 {
		*items = ReturnItems{}
		return nil
	}

	return json.Unmarshal(bytes, items)
}

// Return represents goods sent back against an invoice
type Return struct {
	shared.BaseAggregateRoot
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Items       ReturnItems     `gorm:"type:jsonb"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status      ReturnStatus    `gorm:"type:varchar(20);not null;default:'PENDING'"`
	ReturnDate  time.Time       `gorm:"not null"`
	Reason      string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Return) TableName() string {
	return "returns"
}

// NewReturn creates a new pending return
func NewReturn(invoiceID, customerID uuid.UUID, items []ReturnItem, returnDate time.Time, reason string) (*Return, error) {
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Return requires an invoice")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Return requires a customer")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Return requires at least one item")
	}

	total := decimal.Zero
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, shared.NewDomainError("VALIDATION_FAILED", "Return quantity must be positive")
		}
		total = total.Add(item.Amount)
	}

	ret := &Return{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceID:         invoiceID,
		CustomerID:        customerID,
		Items:             items,
		TotalAmount:       total,
		Status:            ReturnStatusPending,
		ReturnDate:        returnDate,
		Reason:            reason,
	}

	ret.AddDomainEvent(NewReturnCreatedEvent(ret))

	return ret, nil
}

// Approve approves a pending return
func (r *Return) Approve() error {
	if r.Status != ReturnStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending returns can be approved")
	}
	old := r.Status
	r.Status = ReturnStatusApproved
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewReturnStatusChangedEvent(r, old, r.Status))

	return nil
}

// Reject rejects a pending return
func (r *Return) Reject(reason string) error {
	if r.Status != ReturnStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending returns can be rejected")
	}
	old := r.Status
	r.Status = ReturnStatusRejected
	if reason != "" {
		r.Reason = reason
	}
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewReturnStatusChangedEvent(r, old, r.Status))

	return nil
}
