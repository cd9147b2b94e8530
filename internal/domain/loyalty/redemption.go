package loyalty

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/storeledger/backend/internal/domain/shared"
)

// RedemptionStatus represents the lifecycle state of a point redemption
type RedemptionStatus string

const (
	RedemptionStatusPending   RedemptionStatus = "PENDING"
	RedemptionStatusCompleted RedemptionStatus = "COMPLETED"
	RedemptionStatusCancelled RedemptionStatus = "CANCELLED"
)

// IsValid checks if the status is a valid RedemptionStatus
func (s RedemptionStatus) IsValid() bool {
	switch s {
	case RedemptionStatusPending, RedemptionStatusCompleted, RedemptionStatusCancelled:
		return true
	}
	return false
}

// CountsAgainstBalance returns true when the redemption reduces the
// customer's point balance. Cancelled redemptions never do.
func (s RedemptionStatus) CountsAgainstBalance() bool {
	return s != RedemptionStatusCancelled
}

// RedemptionItem is a value object for one redeemed reward, stored as JSONB
type RedemptionItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Points    int64     `json:"points"`
}

// RedemptionItems implements GORM Scanner/Valuer for JSONB storage
type RedemptionItems []RedemptionItem

// Value implements driver.Valuer
func (items RedemptionItems) Value() (driver.Value, error) {
	if items == nil {
		return "[]", nil
	}
	return json.Marshal(items)
}

// Scan implements sql.Scanner
func (items *RedemptionItems) Scan(value interface{}) error {
	if value == nil {
		*items = RedemptionItems{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan RedemptionItems: unsupported type")
	}

	if len(bytes) == 0 {
		*items = RedemptionItems{}
		return nil
	}

	return json.Unmarshal(bytes, items)
}

// Redemption represents loyalty points spent on rewards
type Redemption struct {
	shared.BaseAggregateRoot
	CustomerID          uuid.UUID        `gorm:"type:uuid;not null;index"`
	RedemptionDate      time.Time        `gorm:"not null;index"`
	Items               RedemptionItems  `gorm:"type:jsonb"`
	TotalPointsRedeemed int64            `gorm:"not null;default:0"`
	Status              RedemptionStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
}

// TableName returns the table name for GORM
func (Redemption) TableName() string {
	return "redemptions"
}

// NewRedemption creates a new pending redemption. Total points are
// derived from the items.
func NewRedemption(customerID uuid.UUID, redemptionDate time.Time, items []RedemptionItem) (*Redemption, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Redemption requires a customer")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Redemption requires at least one item")
	}

	var total int64
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, shared.NewDomainError("VALIDATION_FAILED", "Redemption quantity must be positive")
		}
		if item.Points < 0 {
			return nil, shared.NewDomainError("VALIDATION_FAILED", "Redemption points cannot be negative")
		}
		total += item.Points
	}

	r := &Redemption{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		CustomerID:          customerID,
		RedemptionDate:      redemptionDate,
		Items:               items,
		TotalPointsRedeemed: total,
		Status:              RedemptionStatusPending,
	}

	r.AddDomainEvent(NewRedemptionCreatedEvent(r))

	return r, nil
}

// Complete marks a pending redemption as fulfilled
func (r *Redemption) Complete() error {
	if r.Status != RedemptionStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending redemptions can be completed")
	}
	old := r.Status
	r.Status = RedemptionStatusCompleted
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewRedemptionStatusChangedEvent(r, old, r.Status))

	return nil
}

// Cancel voids the redemption. Cancelled redemptions no longer count
// against the customer's point balance.
func (r *Redemption) Cancel() error {
	if r.Status == RedemptionStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Redemption is already cancelled")
	}
	old := r.Status
	r.Status = RedemptionStatusCancelled
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewRedemptionStatusChangedEvent(r, old, r.Status))

	return nil
}
