package sales

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeledger/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeInvoice = "Invoice"
	AggregateTypePayment = "Payment"
	AggregateTypeReturn  = "Return"
)

// Event type constants
const (
	EventTypeInvoiceCreated       = "InvoiceCreated"
	EventTypeInvoiceUpdated       = "InvoiceUpdated"
	EventTypeInvoiceStatusChanged = "InvoiceStatusChanged"
	EventTypeInvoiceDeleted       = "InvoiceDeleted"
	EventTypePaymentRecorded      = "PaymentRecorded"
	EventTypePaymentUpdated       = "PaymentUpdated"
	EventTypePaymentDeleted       = "PaymentDeleted"
	EventTypeReturnCreated        = "ReturnCreated"
	EventTypeReturnStatusChanged  = "ReturnStatusChanged"
	EventTypeReturnDeleted        = "ReturnDeleted"
)

// InvoiceCreatedEvent is published when a new invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PointsEarned  int64           `json:"points_earned"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, inv.ID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerID:      inv.CustomerID,
		TotalAmount:     inv.TotalAmount,
		PointsEarned:    inv.PointsEarned,
	}
}

// InvoiceUpdatedEvent is published when invoice lines change
type InvoiceUpdatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewInvoiceUpdatedEvent creates a new InvoiceUpdatedEvent
func NewInvoiceUpdatedEvent(inv *Invoice) *InvoiceUpdatedEvent {
	return &InvoiceUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceUpdated, AggregateTypeInvoice, inv.ID),
		InvoiceID:       inv.ID,
		CustomerID:      inv.CustomerID,
		TotalAmount:     inv.TotalAmount,
	}
}

// InvoiceStatusChangedEvent is published on payment-status transitions
type InvoiceStatusChangedEvent struct {
	shared.BaseDomainEvent
	InvoiceID  uuid.UUID     `json:"invoice_id"`
	CustomerID uuid.UUID     `json:"customer_id"`
	OldStatus  InvoiceStatus `json:"old_status"`
	NewStatus  InvoiceStatus `json:"new_status"`
}

// NewInvoiceStatusChangedEvent creates a new InvoiceStatusChangedEvent
func NewInvoiceStatusChangedEvent(inv *Invoice, oldStatus, newStatus InvoiceStatus) *InvoiceStatusChangedEvent {
	return &InvoiceStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceStatusChanged, AggregateTypeInvoice, inv.ID),
		InvoiceID:       inv.ID,
		CustomerID:      inv.CustomerID,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// InvoiceDeletedEvent is published when an invoice is removed
type InvoiceDeletedEvent struct {
	shared.BaseDomainEvent
	InvoiceID  uuid.UUID `json:"invoice_id"`
	CustomerID uuid.UUID `json:"customer_id"`
}

// NewInvoiceDeletedEvent creates a new InvoiceDeletedEvent
func NewInvoiceDeletedEvent(inv *Invoice) *InvoiceDeletedEvent {
	return &InvoiceDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceDeleted, AggregateTypeInvoice, inv.ID),
		InvoiceID:       inv.ID,
		CustomerID:      inv.CustomerID,
	}
}

// PaymentRecordedEvent is published when a payment or refund lands
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	PaymentID  uuid.UUID       `json:"payment_id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	InvoiceID  *uuid.UUID      `json:"invoice_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Kind       PaymentKind     `json:"kind"`
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(p *Payment) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, AggregateTypePayment, p.ID),
		PaymentID:       p.ID,
		CustomerID:      p.CustomerID,
		InvoiceID:       p.InvoiceID,
		Amount:          p.Amount,
		Kind:            p.Kind,
	}
}

// PaymentUpdatedEvent is published when a payment is corrected
type PaymentUpdatedEvent struct {
	shared.BaseDomainEvent
	PaymentID  uuid.UUID       `json:"payment_id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	InvoiceID  *uuid.UUID      `json:"invoice_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
}

// NewPaymentUpdatedEvent creates a new PaymentUpdatedEvent
func NewPaymentUpdatedEvent(p *Payment) *PaymentUpdatedEvent {
	return &PaymentUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentUpdated, AggregateTypePayment, p.ID),
		PaymentID:       p.ID,
		CustomerID:      p.CustomerID,
		InvoiceID:       p.InvoiceID,
		Amount:          p.Amount,
	}
}

// PaymentDeletedEvent is published when a payment record is removed
type PaymentDeletedEvent struct {
	shared.BaseDomainEvent
	PaymentID  uuid.UUID  `json:"payment_id"`
	CustomerID uuid.UUID  `json:"customer_id"`
	InvoiceID  *uuid.UUID `json:"invoice_id,omitempty"`
}

// NewPaymentDeletedEvent creates a new PaymentDeletedEvent
func NewPaymentDeletedEvent(p *Payment) *PaymentDeletedEvent {
	return &PaymentDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentDeleted, AggregateTypePayment, p.ID),
		PaymentID:       p.ID,
		CustomerID:      p.CustomerID,
		InvoiceID:       p.InvoiceID,
	}
}

// ReturnCreatedEvent is published when a return is filed
type ReturnCreatedEvent struct {
	shared.BaseDomainEvent
	ReturnID    uuid.UUID       `json:"return_id"`
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewReturnCreatedEvent creates a new ReturnCreatedEvent
func NewReturnCreatedEvent(r *Return) *ReturnCreatedEvent {
	return &ReturnCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnCreated, AggregateTypeReturn, r.ID),
		ReturnID:        r.ID,
		InvoiceID:       r.InvoiceID,
		CustomerID:      r.CustomerID,
		TotalAmount:     r.TotalAmount,
	}
}

// ReturnStatusChangedEvent is published on approve/reject transitions
type ReturnStatusChangedEvent struct {
	shared.BaseDomainEvent
	ReturnID   uuid.UUID    `json:"return_id"`
	InvoiceID  uuid.UUID    `json:"invoice_id"`
	CustomerID uuid.UUID    `json:"customer_id"`
	OldStatus  ReturnStatus `json:"old_status"`
	NewStatus  ReturnStatus `json:"new_status"`
}

// NewReturnStatusChangedEvent creates a new ReturnStatusChangedEvent
func NewReturnStatusChangedEvent(r *Return, oldStatus, newStatus ReturnStatus) *ReturnStatusChangedEvent {
	return &ReturnStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnStatusChanged, AggregateTypeReturn, r.ID),
		ReturnID:        r.ID,
		InvoiceID:       r.InvoiceID,
		CustomerID:      r.CustomerID,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// ReturnDeletedEvent is published when a return record is removed
type ReturnDeletedEvent struct {
	shared.BaseDomainEvent
	ReturnID   uuid.UUID `json:"return_id"`
	InvoiceID  uuid.UUID `json:"invoice_id"`
	CustomerID uuid.UUID `json:"customer_id"`
}

// NewReturnDeletedEvent creates a new ReturnDeletedEvent
func NewReturnDeletedEvent(r *Return) *ReturnDeletedEvent {
	return &ReturnDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnDeleted, AggregateTypeReturn, r.ID),
		ReturnID:        r.ID,
		InvoiceID:       r.InvoiceID,
		CustomerID:      r.CustomerID,
	}
}
