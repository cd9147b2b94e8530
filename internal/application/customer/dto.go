package customer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeledger/backend/internal/domain/customer"
)

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	Code           string           `json:"code" binding:"required,min=1,max=50"`
	Name           string           `json:"name" binding:"required,min=1,max=200"`
	Phone          string           `json:"phone" binding:"max=50"`
	Email          string           `json:"email" binding:"omitempty,email,max=200"`
	OpeningBalance *decimal.Decimal `json:"opening_balance"`
	CreditPeriod   *int             `json:"credit_period" binding:"omitempty,min=0"`
}

// UpdateCustomerRequest represents a request to update a customer's
// basic information. The derived ledger fields are not updatable here.
type UpdateCustomerRequest struct {
	Name           string           `json:"name" binding:"required,min=1,max=200"`
	Phone          string           `json:"phone" binding:"max=50"`
	Email          string           `json:"email" binding:"omitempty,email,max=200"`
	OpeningBalance *decimal.Decimal `json:"opening_balance"`
	CreditPeriod   *int             `json:"credit_period" binding:"omitempty,min=0"`
}

// CustomerResponse is the full customer view including the reconciled
// ledger fields
type CustomerResponse struct {
	ID             uuid.UUID       `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone,omitempty"`
	Email          string          `json:"email,omitempty"`
	PointsEarned   int64           `json:"points_earned"`
	PointsRedeemed int64           `json:"points_redeemed"`
	CurrentPoints  int64           `json:"current_points"`
	CreditBalance  decimal.Decimal `json:"credit_balance"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Classification int             `json:"classification"`
	Level          int             `json:"level"`
	LastActive     *time.Time      `json:"last_active,omitempty"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	CreditPeriod   int             `json:"credit_period"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToCustomerResponse converts a domain customer to its response form
func ToCustomerResponse(c *customer.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:             c.ID,
		Code:           c.Code,
		Name:           c.Name,
		Phone:          c.Phone,
		Email:          c.Email,
		PointsEarned:   c.PointsEarned,
		PointsRedeemed: c.PointsRedeemed,
		CurrentPoints:  c.CurrentPoints,
		CreditBalance:  c.CreditBalance,
		OpeningBalance: c.OpeningBalance,
		Classification: c.Classification,
		Level:          c.Level,
		LastActive:     c.LastActive,
		CreditLimit:    c.CreditLimit,
		CreditPeriod:   c.CreditPeriod,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
