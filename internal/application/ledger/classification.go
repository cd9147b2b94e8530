package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeledger/backend/internal/domain/sales"
)

// Importance score weights. The four terms blend to a 0-100 score.
const (
	weightSpend     = 0.35
	weightFrequency = 0.25
	weightPoints    = 0.25
	weightOnTime    = 0.15
)

// Level thresholds on the importance score
const (
	levelFiveThreshold  = 81
	levelFourThreshold  = 61
	levelThreeThreshold = 41
	levelTwoThreshold   = 21
)

// Classifier derives the category-diversity classification and the
// importance-weighted tier from a customer's invoice history.
type Classifier struct{}

// NewClassifier creates a new Classifier
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classification counts the distinct product categories appearing across
// the customer's invoice line items
func (c *Classifier) Classification(invoices []sales.Invoice) int {
	categories := make(map[string]struct{})
	for i := range invoices {
		for cat := range invoices[i].DistinctCategories() {
			categories[cat] = struct{}{}
		}
	}
	return len(categories)
}

// ImportanceInput carries one customer's raw metrics
type ImportanceInput struct {
	TotalSpend   decimal.Decimal
	Frequency    int64
	PointsEarned int64
	OnTimeRate   float64 // already on a 0-1 scale
}

// ImportanceScore blends the customer's metrics, each normalized against
// the population maximum, into a 0-100 score. A zero population maximum
// normalizes that term to zero.
func (c *Classifier) ImportanceScore(in ImportanceInput, max sales.PopulationMax) float64 {
	spend := normalizeDecimal(in.TotalSpend, max.MaxSpend)
	freq := normalizeInt(in.Frequency, max.MaxFrequency)
	points := normalizeInt(in.PointsEarned, max.MaxPointsEarned)

	score := 100 * (weightSpend*spend + weightFrequency*freq + weightPoints*points + weightOnTime*in.OnTimeRate)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// LevelForScore maps an importance score to a 1-5 tier
func (c *Classifier) LevelForScore(score float64) int {
	switch {
	case score >= levelFiveThreshold:
		return 5
	case score >= levelFourThreshold:
		return 4
	case score >= levelThreeThreshold:
		return 3
	case score >= levelTwoThreshold:
		return 2
	default:
		return 1
	}
}

// OnTimePaymentRate returns the fraction of the customer's PAID invoices
// that settled before their due date, or that carry at least one recorded
// payment. A customer with no invoices (or no paid invoices yet) rates
// 100%.
func (c *Classifier) OnTimePaymentRate(invoices []sales.Invoice, paymentsByInvoice map[uuid.UUID][]sales.Payment) float64 {
	var paid, onTime int
	for i := range invoices {
		inv := &invoices[i]
		if inv.Status != sales.InvoiceStatusPaid {
			continue
		}
		paid++
		if inv.WasPaidOnTime() || len(paymentsByInvoice[inv.ID]) > 0 {
			onTime++
		}
	}
	if paid == 0 {
		return 1.0
	}
	return float64(onTime) / float64(paid)
}

func normalizeDecimal(value, max decimal.Decimal) float64 {
	if max.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	f, _ := value.Div(max).Float64()
	return clamp01(f)
}

func normalizeInt(value, max int64) float64 {
	if max <= 0 {
		return 0
	}
	return clamp01(float64(value) / float64(max))
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
