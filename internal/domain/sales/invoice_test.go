package sales

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeledger/backend/internal/domain/shared"
)

func testItems() []InvoiceItem {
	return []InvoiceItem{
		{
			ProductID:    uuid.New(),
			ProductName:  "Widget",
			Category:     "tools",
			Quantity:     2,
			UnitPrice:    decimal.NewFromInt(25),
			LineTotal:    decimal.NewFromInt(50),
			PointsEarned: 50,
		},
		{
			ProductID:    uuid.New(),
			ProductName:  "Gadget",
			Category:     "electronics",
			Quantity:     1,
			UnitPrice:    decimal.NewFromInt(30),
			LineTotal:    decimal.NewFromInt(30),
			PointsEarned: 30,
		},
	}
}

func TestNewInvoice(t *testing.T) {
	customerID := uuid.New()
	invoiceDate := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("derives totals from line items", func(t *testing.T) {
		inv, err := NewInvoice(customerID, "INV-001", invoiceDate, nil, testItems())

		require.NoError(t, err)
		assert.Equal(t, "INV-001", inv.InvoiceNumber)
		assert.Equal(t, customerID, inv.CustomerID)
		assert.Equal(t, InvoiceStatusUnpaid, inv.Status)
		assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(80)))
		assert.Equal(t, int64(80), inv.PointsEarned)
		assert.Equal(t, 2, inv.DistinctCategoryCount)
		assert.Len(t, inv.GetDomainEvents(), 1)
	})

	t.Run("counts each category once", func(t *testing.T) {
		items := testItems()
		items[1].Category = "tools"

		inv, err := NewInvoice(customerID, "INV-002", invoiceDate, nil, items)

		require.NoError(t, err)
		assert.Equal(t, 1, inv.DistinctCategoryCount)
	})

	t.Run("ignores empty categories", func(t *testing.T) {
		items := testItems()
		items[0].Category = ""
		items[1].Category = ""

		inv, err := NewInvoice(customerID, "INV-003", invoiceDate, nil, items)

		require.NoError(t, err)
		assert.Equal(t, 0, inv.DistinctCategoryCount)
	})

	t.Run("fails without customer", func(t *testing.T) {
		inv, err := NewInvoice(uuid.Nil, "INV-001", invoiceDate, nil, testItems())

		assert.Nil(t, inv)
		assert.Equal(t, "VALIDATION_FAILED", shared.ErrorCode(err))
	})

	t.Run("fails without items", func(t *testing.T) {
		inv, err := NewInvoice(customerID, "INV-001", invoiceDate, nil, nil)

		assert.Nil(t, inv)
		assert.Contains(t, err.Error(), "at least one line item")
	})

	t.Run("fails with non-positive quantity", func(t *testing.T) {
		items := testItems()
		items[0].Quantity = 0

		inv, err := NewInvoice(customerID, "INV-001", invoiceDate, nil, items)

		assert.Nil(t, inv)
		assert.Contains(t, err.Error(), "quantity must be positive")
	})
}

func TestInvoiceReplaceItems(t *testing.T) {
	customerID := uuid.New()

	t.Run("rederives totals", func(t *testing.T) {
		inv, err := NewInvoice(customerID, "INV-001", time.Now(), nil, testItems())
		require.NoError(t, err)
		inv.ClearDomainEvents()

		newItems := []InvoiceItem{{
			ProductName:  "Single",
			Category:     "misc",
			Quantity:     1,
			UnitPrice:    decimal.NewFromInt(10),
			LineTotal:    decimal.NewFromInt(10),
			PointsEarned: 10,
		}}
		require.NoError(t, inv.ReplaceItems(newItems))

		assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, int64(10), inv.PointsEarned)
		assert.Equal(t, 1, inv.DistinctCategoryCount)
		assert.Equal(t, 2, inv.Version)
		assert.Len(t, inv.GetDomainEvents(), 1)
	})

	t.Run("rejects editing a paid invoice", func(t *testing.T) {
		inv, err := NewInvoice(customerID, "INV-001", time.Now(), nil, testItems())
		require.NoError(t, err)
		inv.RefreshPaymentStatus(inv.TotalAmount, time.Now())
		require.Equal(t, InvoiceStatusPaid, inv.Status)

		err = inv.ReplaceItems(testItems())

		assert.Equal(t, "INVALID_STATE", shared.ErrorCode(err))
	})
}

func TestRefreshPaymentStatus(t *testing.T) {
	customerID := uuid.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	newInvoice := func(t *testing.T, dueDate *time.Time) *Invoice {
		inv, err := NewInvoice(customerID, "INV-001", now.AddDate(0, -1, 0), dueDate, testItems())
		require.NoError(t, err)
		inv.ClearDomainEvents()
		return inv
	}

	t.Run("full payment marks paid and stamps paid at", func(t *testing.T) {
		inv := newInvoice(t, nil)

		inv.RefreshPaymentStatus(decimal.NewFromInt(80), now)

		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		require.NotNil(t, inv.PaidAt)
		assert.True(t, inv.PaidAt.Equal(now))
		require.Len(t, inv.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeInvoiceStatusChanged, inv.GetDomainEvents()[0].EventType())
	})

	t.Run("partial payment marks partially paid", func(t *testing.T) {
		inv := newInvoice(t, nil)

		inv.RefreshPaymentStatus(decimal.NewFromInt(30), now)

		assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)
		assert.Nil(t, inv.PaidAt)
	})

	t.Run("refunds can drop a paid invoice back", func(t *testing.T) {
		inv := newInvoice(t, nil)
		inv.RefreshPaymentStatus(decimal.NewFromInt(80), now)
		require.Equal(t, InvoiceStatusPaid, inv.Status)

		inv.RefreshPaymentStatus(decimal.NewFromInt(30), now.Add(time.Hour))

		assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)
		assert.Nil(t, inv.PaidAt)
	})

	t.Run("unpaid past due date becomes overdue", func(t *testing.T) {
		due := now.AddDate(0, 0, -5)
		inv := newInvoice(t, &due)

		inv.RefreshPaymentStatus(decimal.Zero, now)

		assert.Equal(t, InvoiceStatusOverdue, inv.Status)
	})

	t.Run("unpaid before due date stays unpaid", func(t *testing.T) {
		due := now.AddDate(0, 0, 5)
		inv := newInvoice(t, &due)

		inv.RefreshPaymentStatus(decimal.Zero, now)

		assert.Equal(t, InvoiceStatusUnpaid, inv.Status)
		assert.Empty(t, inv.GetDomainEvents())
	})
}

func TestWasPaidOnTime(t *testing.T) {
	customerID := uuid.New()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("paid before due date is on time", func(t *testing.T) {
		due := now.AddDate(0, 0, 10)
		inv, err := NewInvoice(customerID, "INV-001", now, &due, testItems())
		require.NoError(t, err)
		inv.RefreshPaymentStatus(inv.TotalAmount, now.AddDate(0, 0, 5))

		assert.True(t, inv.WasPaidOnTime())
	})

	t.Run("paid after due date is late", func(t *testing.T) {
		due := now.AddDate(0, 0, 10)
		inv, err := NewInvoice(customerID, "INV-001", now, &due, testItems())
		require.NoError(t, err)
		inv.RefreshPaymentStatus(inv.TotalAmount, now.AddDate(0, 0, 20))

		assert.False(t, inv.WasPaidOnTime())
	})

	t.Run("no due date counts as on time", func(t *testing.T) {
		inv, err := NewInvoice(customerID, "INV-001", now, nil, testItems())
		require.NoError(t, err)
		inv.RefreshPaymentStatus(inv.TotalAmount, now)

		assert.True(t, inv.WasPaidOnTime())
	})

	t.Run("unpaid invoice is never on time", func(t *testing.T) {
		inv, err := NewInvoice(customerID, "INV-001", now, nil, testItems())
		require.NoError(t, err)

		assert.False(t, inv.WasPaidOnTime())
	})
}

func TestInvoiceStatusIsOutstanding(t *testing.T) {
	assert.True(t, InvoiceStatusUnpaid.IsOutstanding())
	assert.True(t, InvoiceStatusPartiallyPaid.IsOutstanding())
	assert.True(t, InvoiceStatusOverdue.IsOutstanding())
	assert.False(t, InvoiceStatusPaid.IsOutstanding())
}
