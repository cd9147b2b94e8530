package customer

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storeledger/backend/internal/domain/shared"
)

// Level bounds for the importance-weighted tier
const (
	MinLevel = 1
	MaxLevel = 5
)

// Customer is the aggregate root for one customer and its derived ledger.
// The ledger fields (points, credit, classification, level, last active)
// are recomputed in full by the reconciliation engine and written through
// ApplyLedgerSnapshot in a single update. No other component patches them.
type Customer struct {
	shared.BaseAggregateRoot
	Code  string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name  string `gorm:"type:varchar(200);not null"`
	Phone string `gorm:"type:varchar(50);index"`
	Email string `gorm:"type:varchar(200);index"`

	PointsEarned   int64           `gorm:"not null;default:0"`
	PointsRedeemed int64           `gorm:"not null;default:0"`
	CurrentPoints  int64           `gorm:"not null;default:0"`
	CreditBalance  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	// OpeningBalance is tracked separately and intentionally excluded from
	// the computed CreditBalance.
	OpeningBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Classification int             `gorm:"not null;default:0"`
	Level          int             `gorm:"not null;default:1"`
	LastActive     *time.Time      `gorm:"index"`
	CreditLimit    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreditPeriod   int             `gorm:"not null;default:30"` // days
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// LedgerSnapshot is the complete reconciled state for one customer.
// LastActive is nil when none of the event sources carry a qualifying
// date; the previously stored value is then preserved unchanged.
type LedgerSnapshot struct {
	PointsEarned   int64
	PointsRedeemed int64
	CreditBalance  decimal.Decimal
	CreditLimit    decimal.Decimal
	Classification int
	Level          int
	LastActive     *time.Time
}

// NewCustomer creates a new customer with a zero-valued ledger
func NewCustomer(code, name string) (*Customer, error) {
	if err := validateCode(code); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	c := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		CreditBalance:     decimal.Zero,
		OpeningBalance:    decimal.Zero,
		CreditLimit:       decimal.Zero,
		Level:             MinLevel,
		CreditPeriod:      30,
	}

	c.AddDomainEvent(NewCustomerCreatedEvent(c))

	return c, nil
}

// Update updates the customer's basic information
func (c *Customer) Update(name, phone, email string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}

	c.Name = name
	c.Phone = phone
	c.Email = email
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerUpdatedEvent(c))

	return nil
}

// SetOpeningBalance sets the separately tracked opening balance
func (c *Customer) SetOpeningBalance(amount decimal.Decimal) {
	c.OpeningBalance = amount
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// SetCreditPeriod sets the payment period granted to the customer, in days
func (c *Customer) SetCreditPeriod(days int) error {
	if days < 0 {
		return shared.NewDomainError("INVALID_CREDIT_PERIOD", "Credit period cannot be negative")
	}
	c.CreditPeriod = days
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// ApplyLedgerSnapshot replaces the derived ledger in one write.
// Only the reconciliation engine calls this.
func (c *Customer) ApplyLedgerSnapshot(s LedgerSnapshot) error {
	if s.Level < MinLevel || s.Level > MaxLevel {
		return shared.NewDomainError("INVALID_LEVEL", "Level must be between 1 and 5")
	}
	if s.Classification < 0 {
		return shared.NewDomainError("INVALID_CLASSIFICATION", "Classification cannot be negative")
	}

	oldLevel := c.Level

	c.PointsEarned = s.PointsEarned
	c.PointsRedeemed = s.PointsRedeemed
	c.CurrentPoints = s.PointsEarned - s.PointsRedeemed
	c.CreditBalance = s.CreditBalance
	c.CreditLimit = s.CreditLimit
	c.Classification = s.Classification
	c.Level = s.Level
	if s.LastActive != nil {
		t := *s.LastActive
		c.LastActive = &t
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerLedgerReconciledEvent(c))
	if oldLevel != s.Level {
		c.AddDomainEvent(NewCustomerLevelChangedEvent(c, oldLevel, s.Level))
	}

	return nil
}

// HasActivity returns true if the customer has ever had a qualifying event
func (c *Customer) HasActivity() bool {
	return c.LastActive != nil
}

// OutstandingCredit returns the computed credit balance. The opening
// balance is deliberately not part of this figure.
func (c *Customer) OutstandingCredit() decimal.Decimal {
	return c.CreditBalance
}

func validateCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Customer code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Customer code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Customer code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

func validatePhone(phone string) error {
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
	}
	validPhone := regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	if !validPhone.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
