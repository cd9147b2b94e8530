package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeledger/backend/internal/domain/shared"
)

// PaymentKind distinguishes money received from money returned
type PaymentKind string

const (
	PaymentKindPayment PaymentKind = "PAYMENT"
	PaymentKindRefund  PaymentKind = "REFUND"
)

// IsValid checks if the kind is a valid PaymentKind
func (k PaymentKind) IsValid() bool {
	return k == PaymentKindPayment || k == PaymentKindRefund
}

// Payment represents a payment or refund. A payment without an invoice
// reference is a standalone payment settling the customer's running
// credit rather than a specific document.
type Payment struct {
	shared.BaseAggregateRoot
	CustomerID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceID   *uuid.UUID      `gorm:"type:uuid;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaymentDate time.Time       `gorm:"not null;index"`
	Kind        PaymentKind     `gorm:"type:varchar(20);not null;default:'PAYMENT'"`
	Method      string          `gorm:"type:varchar(50)"`
	Remark      string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a new payment or refund
func NewPayment(customerID uuid.UUID, invoiceID *uuid.UUID, amount decimal.Decimal, paymentDate time.Time, kind PaymentKind, method string) (*Payment, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Payment requires a customer")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Payment kind must be PAYMENT or REFUND")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Payment amount must be positive")
	}

	p := &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		InvoiceID:         invoiceID,
		Amount:            amount,
		PaymentDate:       paymentDate,
		Kind:              kind,
		Method:            method,
	}

	p.AddDomainEvent(NewPaymentRecordedEvent(p))

	return p, nil
}

// IsStandalone returns true when the payment is not tied to any invoice
func (p *Payment) IsStandalone() bool {
	return p.InvoiceID == nil
}

// SignedAmount returns the amount with refund sign applied
func (p *Payment) SignedAmount() decimal.Decimal {
	if p.Kind == PaymentKindRefund {
		return p.Amount.Neg()
	}
	return p.Amount
}

// UpdateAmount corrects the recorded amount
func (p *Payment) UpdateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_FAILED", "Payment amount must be positive")
	}
	p.Amount = amount
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentUpdatedEvent(p))

	return nil
}
