package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"code":           true,
	"name":           true,
	"level":          true,
	"classification": true,
	"current_points": true,
	"credit_balance": true,
	"last_active":    true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"invoice_date":   true,
	"due_date":       true,
	"total_amount":   true,
	"status":         true,
}

// PaymentSortFields contains allowed sort fields for payments
var PaymentSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"payment_date": true,
	"amount":       true,
	"kind":         true,
}

// ReturnSortFields contains allowed sort fields for returns
var ReturnSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"return_date":  true,
	"total_amount": true,
	"status":       true,
}

// RedemptionSortFields contains allowed sort fields for redemptions
var RedemptionSortFields = map[string]bool{
	"id":                    true,
	"created_at":            true,
	"updated_at":            true,
	"redemption_date":       true,
	"total_points_redeemed": true,
	"status":                true,
}

// PointsEntrySortFields contains allowed sort fields for manual point adjustments
var PointsEntrySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"entry_date": true,
	"delta":      true,
	"kind":       true,
}
