package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storeledger/backend/internal/application/ledger"
	"github.com/storeledger/backend/internal/domain/sales"
)

// RecencyNone is the recency sentinel for customers with no invoices
const RecencyNone = -1

// maxLoyaltyScore caps every score variant
const maxLoyaltyScore = 100.0

// RFM holds the classic recency/frequency/monetary triple for one
// customer. Recency is in days since the latest invoice.
type RFM struct {
	Recency   int             `json:"recency"`
	Frequency int64           `json:"frequency"`
	Monetary  decimal.Decimal `json:"monetary"`
}

// LoyaltyWeights customizes the loyalty score blend. The three weights
// should sum to 1; they are normalized when they do not.
type LoyaltyWeights struct {
	Amount float64 `json:"amount_weight"`
	Repeat float64 `json:"repeat_weight"`
	OnTime float64 `json:"on_time_weight"`
}

// CohortRow is one customer's metrics inside a cohort comparison
type CohortRow struct {
	CustomerID   uuid.UUID       `json:"customer_id"`
	RFM          RFM             `json:"rfm"`
	LoyaltyScore float64         `json:"loyalty_score"`
	ChurnRisk    float64         `json:"churn_risk"`
	Lifetime     decimal.Decimal `json:"lifetime_value"`
}

// Service computes on-demand loyalty and RFM metrics straight from the
// event histories. Nothing here is persisted and nothing is
// authoritative: the reconciled customer aggregate stays the source of
// truth, these are advisory reads. Fetch failures therefore never reach
// the caller; every method degrades to neutral values and logs.
type Service struct {
	invoices   sales.InvoiceRepository
	payments   sales.PaymentRepository
	classifier *ledger.Classifier
	logger     *zap.Logger
	now        func() time.Time
}

// NewService creates a new analytics service
func NewService(invoices sales.InvoiceRepository, payments sales.PaymentRepository, logger *zap.Logger) *Service {
	return &Service{
		invoices:   invoices,
		payments:   payments,
		classifier: ledger.NewClassifier(),
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the time source (used in tests)
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// RFM computes the recency/frequency/monetary triple. A customer with
// no invoices gets the -1 recency sentinel and zero everything else.
func (s *Service) RFM(ctx context.Context, customerID uuid.UUID) RFM {
	invoices, ok := s.fetchInvoices(ctx, customerID, "rfm")
	if !ok {
		return RFM{Recency: RecencyNone, Monetary: decimal.Zero}
	}
	return s.rfmFromInvoices(invoices)
}

func (s *Service) rfmFromInvoices(invoices []sales.Invoice) RFM {
	out := RFM{Recency: RecencyNone, Monetary: decimal.Zero}
	var latest *time.Time
	for i := range invoices {
		inv := &invoices[i]
		out.Frequency++
		out.Monetary = out.Monetary.Add(inv.TotalAmount)
		if latest == nil || inv.InvoiceDate.After(*latest) {
			t := inv.InvoiceDate
			latest = &t
		}
	}
	if latest != nil {
		days := int(s.now().Sub(*latest).Hours() / 24)
		if days < 0 {
			days = 0
		}
		out.Recency = days
	}
	return out
}

// LoyaltyScore blends purchase volume, repeat behavior and payment
// discipline into a score capped at 100:
//
//	totalAmount/1000 + repeatRate*20 + onTimeRate*30
//
// where repeatRate is invoices per distinct active month.
func (s *Service) LoyaltyScore(ctx context.Context, customerID uuid.UUID) float64 {
	invoices, ok := s.fetchInvoices(ctx, customerID, "loyalty_score")
	if !ok {
		return 0
	}
	payments, ok := s.fetchPayments(ctx, customerID, "loyalty_score")
	if !ok {
		return 0
	}
	amount, repeat, onTime := s.loyaltyTerms(invoices, payments)
	return capScore(amount + repeat + onTime)
}

// LoyaltyScoreWeighted is the custom-blend variant. Weights are
// normalized to sum to 1 and each term contributes three times its
// weighted share, so uniform weights reproduce LoyaltyScore.
func (s *Service) LoyaltyScoreWeighted(ctx context.Context, customerID uuid.UUID, w LoyaltyWeights) float64 {
	sum := w.Amount + w.Repeat + w.OnTime
	if sum <= 0 {
		s.logger.Warn("non-positive loyalty weights, falling back to default blend",
			zap.String("customer_id", customerID.String()),
		)
		return s.LoyaltyScore(ctx, customerID)
	}

	invoices, ok := s.fetchInvoices(ctx, customerID, "loyalty_score_weighted")
	if !ok {
		return 0
	}
	payments, ok := s.fetchPayments(ctx, customerID, "loyalty_score_weighted")
	if !ok {
		return 0
	}
	amount, repeat, onTime := s.loyaltyTerms(invoices, payments)
	score := 3 * (amount*w.Amount/sum + repeat*w.Repeat/sum + onTime*w.OnTime/sum)
	return capScore(score)
}

func (s *Service) loyaltyTerms(invoices []sales.Invoice, payments []sales.Payment) (amount, repeat, onTime float64) {
	total := decimal.Zero
	activeMonths := make(map[string]struct{})
	for i := range invoices {
		inv := &invoices[i]
		total = total.Add(inv.TotalAmount)
		activeMonths[inv.InvoiceDate.Format("2006-01")] = struct{}{}
	}

	amountF, _ := total.Div(decimal.NewFromInt(1000)).Float64()
	amount = amountF

	if len(activeMonths) > 0 {
		repeat = float64(len(invoices)) / float64(len(activeMonths)) * 20
	}

	byInvoice := make(map[uuid.UUID][]sales.Payment)
	for i := range payments {
		p := payments[i]
		if p.InvoiceID != nil {
			byInvoice[*p.InvoiceID] = append(byInvoice[*p.InvoiceID], p)
		}
	}
	onTime = s.classifier.OnTimePaymentRate(invoices, byInvoice) * 30

	return amount, repeat, onTime
}

// ChurnRisk estimates churn probability as min(100, months since the
// last invoice * 20). A customer who never bought rates maximum risk;
// a fetch failure rates neutral zero.
func (s *Service) ChurnRisk(ctx context.Context, customerID uuid.UUID) float64 {
	invoices, ok := s.fetchInvoices(ctx, customerID, "churn_risk")
	if !ok {
		return 0
	}
	return s.churnFromInvoices(invoices)
}

func (s *Service) churnFromInvoices(invoices []sales.Invoice) float64 {
	var latest *time.Time
	for i := range invoices {
		inv := &invoices[i]
		if latest == nil || inv.InvoiceDate.After(*latest) {
			t := inv.InvoiceDate
			latest = &t
		}
	}
	if latest == nil {
		return 100
	}
	risk := float64(monthsBetween(*latest, s.now())) * 20
	if risk > 100 {
		return 100
	}
	return risk
}

// LifetimeValue estimates CLV as average invoice value times invoice
// count. Zero when the customer has no invoices or the fetch fails.
func (s *Service) LifetimeValue(ctx context.Context, customerID uuid.UUID) decimal.Decimal {
	invoices, ok := s.fetchInvoices(ctx, customerID, "lifetime_value")
	if !ok {
		return decimal.Zero
	}
	return lifetimeFromInvoices(invoices)
}

func lifetimeFromInvoices(invoices []sales.Invoice) decimal.Decimal {
	if len(invoices) == 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	for i := range invoices {
		total = total.Add(invoices[i].TotalAmount)
	}
	count := decimal.NewFromInt(int64(len(invoices)))
	return total.Div(count).Mul(count)
}

// CompareCohort computes the full metric row for each customer in the
// cohort. Customers whose histories cannot be fetched appear with
// neutral values rather than dropping out of the result.
func (s *Service) CompareCohort(ctx context.Context, customerIDs []uuid.UUID) []CohortRow {
	rows := make([]CohortRow, 0, len(customerIDs))
	for _, id := range customerIDs {
		row := CohortRow{
			CustomerID: id,
			RFM:        RFM{Recency: RecencyNone, Monetary: decimal.Zero},
			Lifetime:   decimal.Zero,
		}

		invoices, ok := s.fetchInvoices(ctx, id, "cohort")
		if ok {
			row.RFM = s.rfmFromInvoices(invoices)
			row.ChurnRisk = s.churnFromInvoices(invoices)
			row.Lifetime = lifetimeFromInvoices(invoices)
			if payments, ok := s.fetchPayments(ctx, id, "cohort"); ok {
				amount, repeat, onTime := s.loyaltyTerms(invoices, payments)
				row.LoyaltyScore = capScore(amount + repeat + onTime)
			}
		}

		rows = append(rows, row)
	}
	return rows
}

func (s *Service) fetchInvoices(ctx context.Context, customerID uuid.UUID, metric string) ([]sales.Invoice, bool) {
	invoices, err := s.invoices.FindByCustomerID(ctx, customerID)
	if err != nil {
		s.logger.Warn("analytics invoice fetch failed, returning neutral metrics",
			zap.String("metric", metric),
			zap.String("customer_id", customerID.String()),
			zap.Error(err),
		)
		return nil, false
	}
	return invoices, true
}

func (s *Service) fetchPayments(ctx context.Context, customerID uuid.UUID, metric string) ([]sales.Payment, bool) {
	payments, err := s.payments.FindByCustomerID(ctx, customerID)
	if err != nil {
		s.logger.Warn("analytics payment fetch failed, returning neutral metrics",
			zap.String("metric", metric),
			zap.String("customer_id", customerID.String()),
			zap.Error(err),
		)
		return nil, false
	}
	return payments, true
}

func capScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > maxLoyaltyScore {
		return maxLoyaltyScore
	}
	return score
}

// monthsBetween counts whole calendar months from a to b, never negative
func monthsBetween(a, b time.Time) int {
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if b.Day() < a.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
