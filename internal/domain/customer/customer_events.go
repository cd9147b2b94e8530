package customer

import (
	"time"

	"github.com/google/uuid"

	"github.com/storeledger/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeCustomer = "Customer"

// Event type constants
const (
	EventTypeCustomerCreated          = "CustomerCreated"
	EventTypeCustomerUpdated          = "CustomerUpdated"
	EventTypeCustomerLedgerReconciled = "CustomerLedgerReconciled"
	EventTypeCustomerLevelChanged     = "CustomerLevelChanged"
	EventTypeCustomerDeleted          = "CustomerDeleted"
)

// CustomerCreatedEvent is published when a new customer is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(c *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, AggregateTypeCustomer, c.ID),
		CustomerID:      c.ID,
		Code:            c.Code,
		Name:            c.Name,
	}
}

// CustomerUpdatedEvent is published when a customer's basic info changes
type CustomerUpdatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
}

// NewCustomerUpdatedEvent creates a new CustomerUpdatedEvent
func NewCustomerUpdatedEvent(c *Customer) *CustomerUpdatedEvent {
	return &CustomerUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerUpdated, AggregateTypeCustomer, c.ID),
		CustomerID:      c.ID,
		Code:            c.Code,
		Name:            c.Name,
	}
}

// CustomerLedgerReconciledEvent is published after the reconciliation
// engine writes a fresh ledger snapshot for the customer
type CustomerLedgerReconciledEvent struct {
	shared.BaseDomainEvent
	CustomerID     uuid.UUID  `json:"customer_id"`
	PointsEarned   int64      `json:"points_earned"`
	PointsRedeemed int64      `json:"points_redeemed"`
	CurrentPoints  int64      `json:"current_points"`
	CreditBalance  string     `json:"credit_balance"`
	Classification int        `json:"classification"`
	Level          int        `json:"level"`
	LastActive     *time.Time `json:"last_active,omitempty"`
}

// NewCustomerLedgerReconciledEvent creates a new CustomerLedgerReconciledEvent
func NewCustomerLedgerReconciledEvent(c *Customer) *CustomerLedgerReconciledEvent {
	return &CustomerLedgerReconciledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerLedgerReconciled, AggregateTypeCustomer, c.ID),
		CustomerID:      c.ID,
		PointsEarned:    c.PointsEarned,
		PointsRedeemed:  c.PointsRedeemed,
		CurrentPoints:   c.CurrentPoints,
		CreditBalance:   c.CreditBalance.String(),
		Classification:  c.Classification,
		Level:           c.Level,
		LastActive:      c.LastActive,
	}
}

// CustomerLevelChangedEvent is published when reconciliation moves the
// customer to a different tier
type CustomerLevelChangedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	OldLevel   int       `json:"old_level"`
	NewLevel   int       `json:"new_level"`
}

// NewCustomerLevelChangedEvent creates a new CustomerLevelChangedEvent
func NewCustomerLevelChangedEvent(c *Customer, oldLevel, newLevel int) *CustomerLevelChangedEvent {
	return &CustomerLevelChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerLevelChanged, AggregateTypeCustomer, c.ID),
		CustomerID:      c.ID,
		OldLevel:        oldLevel,
		NewLevel:        newLevel,
	}
}

// CustomerDeletedEvent is published when a customer record is removed
type CustomerDeletedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Code       string    `json:"code"`
}

// NewCustomerDeletedEvent creates a new CustomerDeletedEvent
func NewCustomerDeletedEvent(c *Customer) *CustomerDeletedEvent {
	return &CustomerDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerDeleted, AggregateTypeCustomer, c.ID),
		CustomerID:      c.ID,
		Code:            c.Code,
	}
}
