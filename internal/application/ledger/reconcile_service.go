package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storeledger/backend/internal/domain/customer"
	"github.com/storeledger/backend/internal/domain/loyalty"
	"github.com/storeledger/backend/internal/domain/sales"
	"github.com/storeledger/backend/internal/domain/shared"
)

// creditLimitWindow is the trailing window the rolling credit limit is
// averaged over
const creditLimitWindowMonths = 3

// Reconciler recomputes one customer's ledger aggregate from all of its
// event sources. Mutation services call this immediately after their own
// write succeeds.
type Reconciler interface {
	Reconcile(ctx context.Context, customerID uuid.UUID) error
}

// RetryConfig bounds the retry behavior for transient source failures
type RetryConfig struct {
	Attempts  int
	BaseDelay time.Duration
}

// DefaultRetryConfig returns the default retry bounds
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{Attempts: 3, BaseDelay: 50 * time.Millisecond}
}

// Service is the reconciliation engine. Reconcile is a full, idempotent
// recomputation, never an incremental delta: repeated runs over unchanged
// sources converge to the same aggregate. Runs for the same customer are
// serialized through a keyed mutex so overlapping triggers cannot
// interleave their read and write phases.
type Service struct {
	customers   customer.CustomerRepository
	invoices    sales.InvoiceRepository
	payments    sales.PaymentRepository
	redemptions loyalty.RedemptionRepository
	points      loyalty.PointsEntryRepository
	classifier  *Classifier
	events      shared.EventPublisher
	logger      *zap.Logger
	locks       *keyedMutex
	retry       RetryConfig
	now         func() time.Time
}

// ServiceOption is a functional option for configuring the Service
type ServiceOption func(*Service)

// WithRetryConfig overrides the retry bounds for source fetches
func WithRetryConfig(cfg RetryConfig) ServiceOption {
	return func(s *Service) {
		if cfg.Attempts > 0 {
			s.retry = cfg
		}
	}
}

// WithClock overrides the time source (used in tests)
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new reconciliation engine
func NewService(
	customers customer.CustomerRepository,
	invoices sales.InvoiceRepository,
	payments sales.PaymentRepository,
	redemptions loyalty.RedemptionRepository,
	points loyalty.PointsEntryRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		customers:   customers,
		invoices:    invoices,
		payments:    payments,
		redemptions: redemptions,
		points:      points,
		classifier:  NewClassifier(),
		events:      events,
		logger:      logger,
		locks:       newKeyedMutex(),
		retry:       DefaultRetryConfig(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reconcile recomputes and persists the full ledger aggregate for one
// customer. Any source fetch failure aborts the run before anything is
// written; the previously stored aggregate remains authoritative until
// the next successful reconciliation. A version conflict on the final
// write means another writer touched the aggregate mid-run, so the whole
// recompute restarts from a fresh read, bounded by the retry attempts.
func (s *Service) Reconcile(ctx context.Context, customerID uuid.UUID) error {
	s.locks.Lock(customerID)
	defer s.locks.Unlock(customerID)

	var err error
	for attempt := 1; attempt <= s.retry.Attempts; attempt++ {
		if err = s.reconcileOnce(ctx, customerID); err == nil || shared.ErrorCode(err) != shared.ErrWriteConflict.Code {
			return err
		}
		if attempt < s.retry.Attempts {
			s.logger.Warn("concurrent aggregate write detected, recomputing",
				zap.String("customer_id", customerID.String()),
				zap.Int("attempt", attempt),
			)
		}
	}
	return err
}

func (s *Service) reconcileOnce(ctx context.Context, customerID uuid.UUID) error {
	cust, err := s.fetchCustomer(ctx, customerID)
	if err != nil {
		return err
	}
	loadedVersion := cust.Version

	invoices, err := s.fetchInvoices(ctx, customerID)
	if err != nil {
		return err
	}
	payments, err := s.fetchPayments(ctx, customerID)
	if err != nil {
		return err
	}
	redemptions, err := s.fetchRedemptions(ctx, customerID)
	if err != nil {
		return err
	}
	entries, err := s.fetchPointsEntries(ctx, customerID)
	if err != nil {
		return err
	}
	popMax, err := s.fetchPopulationMax(ctx)
	if err != nil {
		return err
	}

	paymentsByInvoice, standaloneTotal := s.partitionPayments(payments)

	now := s.now()

	var rawPointsEarned int64
	var latestInvoiceDate *time.Time
	totalOutstanding := decimal.Zero
	totalSpend := decimal.Zero
	windowStart := now.AddDate(0, -creditLimitWindowMonths, 0)
	windowTotal := decimal.Zero
	windowCount := 0

	for i := range invoices {
		inv := &invoices[i]
		rawPointsEarned += inv.PointsEarned
		totalSpend = totalSpend.Add(inv.TotalAmount)
		latestInvoiceDate = laterOf(latestInvoiceDate, inv.InvoiceDate)

		if inv.Status.IsOutstanding() {
			paidSoFar := decimal.Zero
			for _, p := range paymentsByInvoice[inv.ID] {
				paidSoFar = paidSoFar.Add(p.SignedAmount())
			}
			totalOutstanding = totalOutstanding.Add(inv.TotalAmount.Sub(paidSoFar))
		}

		if !inv.InvoiceDate.Before(windowStart) {
			windowTotal = windowTotal.Add(inv.TotalAmount)
			windowCount++
		}
	}

	creditLimit := decimal.Zero
	if windowCount > 0 {
		creditLimit = windowTotal.Div(decimal.NewFromInt(int64(windowCount)))
	}

	var rawPointsRedeemed int64
	var latestRedemptionDate *time.Time
	for i := range redemptions {
		r := &redemptions[i]
		if r.CustomerID == uuid.Nil || !r.Status.IsValid() {
			s.logger.Warn("skipping malformed redemption record",
				zap.String("redemption_id", r.ID.String()),
				zap.String("status", string(r.Status)),
			)
			continue
		}
		if !r.Status.CountsAgainstBalance() {
			continue
		}
		rawPointsRedeemed += r.TotalPointsRedeemed
		latestRedemptionDate = laterOf(latestRedemptionDate, r.RedemptionDate)
	}

	var added, deducted int64
	var latestEntryDate *time.Time
	for i := range entries {
		e := &entries[i]
		if e.CustomerID == uuid.Nil || !e.Kind.IsValid() {
			s.logger.Warn("skipping malformed points history entry",
				zap.String("entry_id", e.ID.String()),
				zap.String("kind", string(e.Kind)),
			)
			continue
		}
		added += e.Added()
		deducted += e.Deducted()
		latestEntryDate = laterOf(latestEntryDate, e.EntryDate)
	}

	lastActive := latestInvoiceDate
	if latestRedemptionDate != nil && (lastActive == nil || latestRedemptionDate.After(*lastActive)) {
		lastActive = latestRedemptionDate
	}
	if latestEntryDate != nil && (lastActive == nil || latestEntryDate.After(*lastActive)) {
		lastActive = latestEntryDate
	}

	pointsEarned := rawPointsEarned + added
	pointsRedeemed := rawPointsRedeemed + deducted
	creditBalance := totalOutstanding.Sub(standaloneTotal)

	classification := s.classifier.Classification(invoices)
	onTimeRate := s.classifier.OnTimePaymentRate(invoices, paymentsByInvoice)
	score := s.classifier.ImportanceScore(ImportanceInput{
		TotalSpend:   totalSpend,
		Frequency:    int64(len(invoices)),
		PointsEarned: pointsEarned,
		OnTimeRate:   onTimeRate,
	}, popMax)
	level := s.classifier.LevelForScore(score)

	snapshot := customer.LedgerSnapshot{
		PointsEarned:   pointsEarned,
		PointsRedeemed: pointsRedeemed,
		CreditBalance:  creditBalance,
		CreditLimit:    creditLimit,
		Classification: classification,
		Level:          level,
		LastActive:     lastActive,
	}

	if err := cust.ApplyLedgerSnapshot(snapshot); err != nil {
		return fmt.Errorf("failed to apply ledger snapshot: %w", err)
	}

	if err := s.customers.SaveVersioned(ctx, cust, loadedVersion); err != nil {
		return fmt.Errorf("failed to persist reconciled aggregate: %w", err)
	}

	if s.events != nil {
		if err := s.events.Publish(ctx, cust.GetDomainEvents()...); err != nil {
			s.logger.Error("failed to publish reconciliation events",
				zap.String("customer_id", customerID.String()),
				zap.Error(err),
			)
		}
	}
	cust.ClearDomainEvents()

	s.logger.Debug("customer ledger reconciled",
		zap.String("customer_id", customerID.String()),
		zap.Int64("points_earned", pointsEarned),
		zap.Int64("points_redeemed", pointsRedeemed),
		zap.String("credit_balance", creditBalance.String()),
		zap.Int("classification", classification),
		zap.Int("level", level),
	)

	return nil
}

// partitionPayments splits payments into invoice-linked groups and the
// signed total of standalone payments
func (s *Service) partitionPayments(payments []sales.Payment) (map[uuid.UUID][]sales.Payment, decimal.Decimal) {
	byInvoice := make(map[uuid.UUID][]sales.Payment)
	standalone := decimal.Zero
	for i := range payments {
		p := payments[i]
		if p.CustomerID == uuid.Nil {
			s.logger.Warn("skipping payment without customer reference",
				zap.String("payment_id", p.ID.String()),
			)
			continue
		}
		if p.IsStandalone() {
			standalone = standalone.Add(p.SignedAmount())
			continue
		}
		byInvoice[*p.InvoiceID] = append(byInvoice[*p.InvoiceID], p)
	}
	return byInvoice, standalone
}

func (s *Service) fetchCustomer(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	var cust *customer.Customer
	err := s.withRetry(ctx, "customer", func() error {
		var err error
		cust, err = s.customers.FindByID(ctx, id)
		return err
	})
	return cust, err
}

func (s *Service) fetchInvoices(ctx context.Context, id uuid.UUID) ([]sales.Invoice, error) {
	var out []sales.Invoice
	err := s.withRetry(ctx, "invoices", func() error {
		var err error
		out, err = s.invoices.FindByCustomerID(ctx, id)
		return err
	})
	return out, err
}

func (s *Service) fetchPayments(ctx context.Context, id uuid.UUID) ([]sales.Payment, error) {
	var out []sales.Payment
	err := s.withRetry(ctx, "payments", func() error {
		var err error
		out, err = s.payments.FindByCustomerID(ctx, id)
		return err
	})
	return out, err
}

func (s *Service) fetchRedemptions(ctx context.Context, id uuid.UUID) ([]loyalty.Redemption, error) {
	var out []loyalty.Redemption
	err := s.withRetry(ctx, "redemptions", func() error {
		var err error
		out, err = s.redemptions.FindByCustomerID(ctx, id)
		return err
	})
	return out, err
}

func (s *Service) fetchPointsEntries(ctx context.Context, id uuid.UUID) ([]loyalty.PointsEntry, error) {
	var out []loyalty.PointsEntry
	err := s.withRetry(ctx, "points_history", func() error {
		var err error
		out, err = s.points.FindByCustomerID(ctx, id)
		return err
	})
	return out, err
}

func (s *Service) fetchPopulationMax(ctx context.Context) (sales.PopulationMax, error) {
	var out sales.PopulationMax
	err := s.withRetry(ctx, "population_max", func() error {
		var err error
		out, err = s.invoices.PopulationMax(ctx)
		return err
	})
	return out, err
}

// withRetry runs fn with bounded exponential backoff for retryable
// source failures. Non-retryable errors surface immediately.
func (s *Service) withRetry(ctx context.Context, source string, fn func() error) error {
	delay := s.retry.BaseDelay
	var err error
	for attempt := 1; attempt <= s.retry.Attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if !shared.IsRetryable(err) || attempt == s.retry.Attempts {
			break
		}
		s.logger.Warn("transient source fetch failure, retrying",
			zap.String("source", source),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("failed to fetch %s: %w", source, err)
}

func laterOf(current *time.Time, candidate time.Time) *time.Time {
	if current == nil || candidate.After(*current) {
		t := candidate
		return &t
	}
	return current
}

// Ensure Service implements Reconciler
var _ Reconciler = (*Service)(nil)
