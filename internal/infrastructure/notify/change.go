package notify

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Logical table names covered by the change notification bus
const (
	TableCustomers       = "customers"
	TableInvoices        = "invoices"
	TablePayments        = "payments"
	TableRedemptions     = "redemptions"
	TablePointsHistory   = "points_history"
	TableReturns         = "returns"
	TableProducts        = "products"
	TableRedemptionItems = "redemption_items"
)

// Operation is the kind of mutation that touched a table
type Operation string

const (
	OpInsert Operation = "INSERT"
	OpUpdate Operation = "UPDATE"
	OpDelete Operation = "DELETE"
)

// Record identifies the changed row. CustomerID and InvoiceID are set
// when the underlying table carries those links.
type Record struct {
	ID         uuid.UUID  `json:"id"`
	CustomerID uuid.UUID  `json:"customer_id,omitempty"`
	InvoiceID  *uuid.UUID `json:"invoice_id,omitempty"`
}

// Change is one table mutation flowing through the bus
type Change struct {
	Table      string    `json:"table"`
	Operation  Operation `json:"operation"`
	Record     Record    `json:"record"`
	OccurredAt time.Time `json:"occurred_at"`
}

// InvalidationKey addresses one cached query that a change made stale.
// Keys are ordered segments, most general first.
type InvalidationKey []string

// String renders the key in its canonical segment-joined form
func (k InvalidationKey) String() string {
	return strings.Join(k, ":")
}

// ResolveKeys maps a change to the cached query identifiers downstream
// consumers must invalidate. Resolution is static per table; unknown
// tables resolve to a whole-table key only. Re-invalidating an already
// stale key is harmless, so resolvers err on the side of breadth.
func ResolveKeys(c Change) []InvalidationKey {
	customerID := c.Record.CustomerID.String()

	switch c.Table {
	case TableCustomers:
		return []InvalidationKey{
			{TableCustomers, c.Record.ID.String()},
		}
	case TableInvoices:
		return []InvalidationKey{
			{TableInvoices},
			{TableInvoices, "customer", customerID},
			{TableCustomers, customerID},
		}
	case TablePayments:
		keys := []InvalidationKey{
			{TablePayments, "customer", customerID},
			{TableCustomers, customerID},
		}
		if c.Record.InvoiceID != nil {
			keys = append(keys, InvalidationKey{TableInvoices, c.Record.InvoiceID.String()})
		}
		return keys
	case TableRedemptions:
		return []InvalidationKey{
			{TableRedemptions},
			{TableRedemptions, "customer", customerID},
			{TableCustomers, customerID},
		}
	case TablePointsHistory:
		return []InvalidationKey{
			{TablePointsHistory, customerID},
			{TableCustomers, customerID},
		}
	case TableReturns:
		return []InvalidationKey{
			{TableReturns},
			{TableReturns, "customer", customerID},
			{TableCustomers, customerID},
		}
	default:
		// products, redemption_items and anything unrecognized carry no
		// derived keys, only whole-table invalidation
		return []InvalidationKey{{c.Table}}
	}
}
