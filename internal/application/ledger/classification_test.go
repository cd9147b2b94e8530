package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeledger/backend/internal/domain/sales"
)

func TestClassification_CountsDistinctCategoriesAcrossInvoices(t *testing.T) {
	c := NewClassifier()
	customerID := uuid.New()
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	first, err := sales.NewInvoice(customerID, "INV-001", date, nil, []sales.InvoiceItem{
		lineItem("beverages", 100, 10),
		lineItem("snacks", 50, 5),
	})
	require.NoError(t, err)
	second, err := sales.NewInvoice(customerID, "INV-002", date, nil, []sales.InvoiceItem{
		lineItem("beverages", 80, 8),
		lineItem("dairy", 30, 3),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, c.Classification([]sales.Invoice{*first, *second}))
}

func TestClassification_EmptyHistoryIsZero(t *testing.T) {
	c := NewClassifier()
	assert.Equal(t, 0, c.Classification(nil))
}

func TestImportanceScore_PopulationMaximumScoresFull(t *testing.T) {
	c := NewClassifier()

	max := sales.PopulationMax{
		MaxSpend:        decimal.NewFromInt(10000),
		MaxFrequency:    50,
		MaxPointsEarned: 5000,
	}
	// The customer that defines all three maxima, paying everything on
	// time, blends to exactly 100.
	score := c.ImportanceScore(ImportanceInput{
		TotalSpend:   decimal.NewFromInt(10000),
		Frequency:    50,
		PointsEarned: 5000,
		OnTimeRate:   1.0,
	}, max)

	assert.InDelta(t, 100.0, score, 1e-9)
	assert.Equal(t, 5, c.LevelForScore(score))
}

func TestImportanceScore_ZeroMaximaNormalizeToZero(t *testing.T) {
	c := NewClassifier()

	score := c.ImportanceScore(ImportanceInput{
		TotalSpend:   decimal.NewFromInt(500),
		Frequency:    3,
		PointsEarned: 50,
		OnTimeRate:   1.0,
	}, sales.PopulationMax{})

	// Only the on-time term survives: 100 * 0.15
	assert.InDelta(t, 15.0, score, 1e-9)
}

func TestImportanceScore_BlendsWeightedTerms(t *testing.T) {
	c := NewClassifier()

	max := sales.PopulationMax{
		MaxSpend:        decimal.NewFromInt(1000),
		MaxFrequency:    10,
		MaxPointsEarned: 100,
	}
	score := c.ImportanceScore(ImportanceInput{
		TotalSpend:   decimal.NewFromInt(500), // 0.5 * 35
		Frequency:    5,                       // 0.5 * 25
		PointsEarned: 100,                     // 1.0 * 25
		OnTimeRate:   0.0,                     // 0.0 * 15
	}, max)

	assert.InDelta(t, 55.0, score, 1e-9)
	assert.Equal(t, 3, c.LevelForScore(score))
}

func TestLevelForScore_Thresholds(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		score float64
		level int
	}{
		{0, 1},
		{20.9, 1},
		{21, 2},
		{40.9, 2},
		{41, 3},
		{60.9, 3},
		{61, 4},
		{80.9, 4},
		{81, 5},
		{100, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.level, c.LevelForScore(tt.score), "score %.1f", tt.score)
	}
}

func TestOnTimePaymentRate_NoPaidInvoicesRatesFull(t *testing.T) {
	c := NewClassifier()
	customerID := uuid.New()
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	unpaid, err := sales.NewInvoice(customerID, "INV-001", date, nil, []sales.InvoiceItem{
		lineItem("books", 100, 10),
	})
	require.NoError(t, err)

	assert.Equal(t, 1.0, c.OnTimePaymentRate([]sales.Invoice{*unpaid}, nil))
	assert.Equal(t, 1.0, c.OnTimePaymentRate(nil, nil))
}

func TestOnTimePaymentRate_CountsLateSettlement(t *testing.T) {
	c := NewClassifier()
	customerID := uuid.New()
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	due := date.AddDate(0, 0, 30)

	onTime, err := sales.NewInvoice(customerID, "INV-001", date, &due, []sales.InvoiceItem{
		lineItem("books", 100, 10),
	})
	require.NoError(t, err)
	onTime.RefreshPaymentStatus(decimal.NewFromInt(100), due.AddDate(0, 0, -5))

	late, err := sales.NewInvoice(customerID, "INV-002", date, &due, []sales.InvoiceItem{
		lineItem("books", 200, 20),
	})
	require.NoError(t, err)
	late.RefreshPaymentStatus(decimal.NewFromInt(200), due.AddDate(0, 0, 10))

	rate := c.OnTimePaymentRate([]sales.Invoice{*onTime, *late}, map[uuid.UUID][]sales.Payment{})

	assert.InDelta(t, 0.5, rate, 1e-9)
}
