package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storeledger/backend/internal/domain/sales"
	"github.com/storeledger/backend/internal/domain/shared"
)

// MockInvoiceRepository is a mock implementation of sales.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Invoice, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]sales.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, inv *sales.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]sales.Invoice, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumber(ctx context.Context, invoiceNumber string) (*sales.Invoice, error) {
	args := m.Called(ctx, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindOutstandingByCustomerID(ctx context.Context, customerID uuid.UUID) ([]sales.Invoice, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]sales.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) PopulationMax(ctx context.Context) (sales.PopulationMax, error) {
	args := m.Called(ctx)
	return args.Get(0).(sales.PopulationMax), args.Error(1)
}

// MockPaymentRepository is a mock implementation of sales.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Payment, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]sales.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, p *sales.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPaymentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]sales.Payment, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]sales.Payment, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).([]sales.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindStandaloneByCustomerID(ctx context.Context, customerID uuid.UUID) ([]sales.Payment, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]sales.Payment), args.Error(1)
}

func newAnalyticsService(invoices *MockInvoiceRepository, payments *MockPaymentRepository, now time.Time) *Service {
	return NewService(invoices, payments, zap.NewNop()).WithClock(func() time.Time { return now })
}

func testInvoice(t *testing.T, customerID uuid.UUID, number string, date time.Time, amount int64) sales.Invoice {
	t.Helper()
	inv, err := sales.NewInvoice(customerID, number, date, nil, []sales.InvoiceItem{{
		ProductID:   uuid.New(),
		ProductName: "item",
		Category:    "general",
		Quantity:    1,
		UnitPrice:   decimal.NewFromInt(amount),
		LineTotal:   decimal.NewFromInt(amount),
	}})
	require.NoError(t, err)
	return *inv
}

func TestRFM_ComputesTriple(t *testing.T) {
	invoices := new(MockInvoiceRepository)
	payments := new(MockPaymentRepository)
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	svc := newAnalyticsService(invoices, payments, now)
	customerID := uuid.New()

	invoices.On("FindByCustomerID", mock.Anything, customerID).Return([]sales.Invoice{
		testInvoice(t, customerID, "INV-001", time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), 300),
		testInvoice(t, customerID, "INV-002", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), 200),
	}, nil)

	rfm := svc.RFM(context.Background(), customerID)

	assert.Equal(t, 10, rfm.Recency)
	assert.Equal(t, int64(2), rfm.Frequency)
	assert.True(t, rfm.Monetary.Equal(decimal.NewFromInt(500)))
}

func TestRFM_NoInvoicesUsesSentinel(t *testing.T) {
	invoices := new(MockInvoiceRepository)
	payments := new(MockPaymentRepository)
	svc := newAnalyticsService(invoices, payments, time.Now())
	customerID := uuid.New()

	invoices.On("FindByCustomerID", mock.Anything, customerID).Return([]sales.Invoice{}, nil)

	rfm := svc.RFM(context.Background(), customerID)

	assert.Equal(t, RecencyNone, rfm.Recency)
	assert.Equal(t, int64(0), rfm.Frequency)
	assert.True(t, rfm.Monetary.IsZero())
}

func TestRFM_FetchFailureReturnsNeutral(t *testing.T) {
	invoices := new(MockInvoiceRepository)
	payments := new(MockPaymentRepository)
	svc := newAnalyticsService(invoices, payments, time.Now())
	customerID := uuid.New()

	invoices.On("FindByCustomerID", mock.Anything, customerID).Return(nil, shared.ErrFetchFailed)

	rfm := svc.RFM(context.Background(), customerID)

	assert.Equal(t, RecencyNone, rfm.Recency)
	assert.Equal(t, int64(0), rfm.Frequency)
	assert.True(t, rfm.Monetary.IsZero())
}

func TestLoyaltyScore_BlendsTerms(t *testing.T) {
	invoices := new(MockInvoiceRepository)
	payments := new(MockPaymentRepository)
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	svc := newAnalyticsService(invoices, payments, now)
	customerID := uuid.New()

	// Two invoices in one month: repeatRate = 2, no paid invoices so
	// on-time rate defaults to 1.
	invoices.On("FindByCustomerID", mock.Anything, customerID).Return([]sales.Invoice{
		testInvoice(t, customerID, "INV-001", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), 2000),
		testInvoice(t, customerID, "INV-002", time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC), 3000),
	}, nil)
	payments.On("FindByCustomerID", mock.Anything, customerID).Return([]sales.Payment{}, nil)

	score := svc.LoyaltyScore(context.Background(), customerID)

	// 5000/1000 + 2*20 + 1*30 = 75
	assert.InDelta(t, 75.0, score, 1e-9)
}

func TestLoyaltyScore_CappedAtHundred(t *testing.T) {
	invoices := new(MockInvoiceRepository)
	payments := new(MockPaymentRepository)
	svc := newAnalyticsService(invoices, payments, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
	customerID := uuid.New()

	invoices.On("FindByCustomerID", mock.Anything, customerID).Return([]sales.Invoice{
		testInvoice(t, customerID, "INV-001", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), 500000),
	}, nil)
	payments.On("FindByCustomerID", mock.Anything, customerID).Return([]sales.Payment{}, nil)

	assert.Equal(t, 100.0, svc.LoyaltyScore(context.Background(), customerID))
}

func TestLoyaltyScoreWeighted_UniformWeightsMatchDefault(t *testing.T) {
	invoices := new(MockInvoiceRepository)
	payments := new(MockPaymentRepository)
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	svc := newAnalyticsService(invoices, payments, now)
	customerID := uuid.New()

	history := []sales.Invoice{
		testInvoice(t, customerID, "INV-001", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), 2000),
		testInvoice(t, customerID, "INV-002", time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC), 3000),
	}
	invoices.On("FindByCustomerID", mock.Anything, customerID).Return(history, nil)
	payments.On("FindByCustomerID", mock.Anything, customerID).Return([]sales.Payment{}, nil)

	base := svc.LoyaltyScore(context.Background(), customerID)
	uniform := svc.LoyaltyScoreWeighted(context.Background(), customerID, LoyaltyWeights{
		Amount: 1.0 / 3, Repeat: 1.0 / 3, OnTime: 1.0 / 3,
	})

	assert.InDelta(t, base, uniform, 1e-9)
}

func TestLoyaltyScoreWeighted_InvalidWeightsFallBack(t *testing.T) {
	invoices := new(MockInvoiceRepository)
	payments := new(MockPaymentRepository)
	svc := newAnalyticsService(invoices, payments, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
	customerID := uuid.New()

	invoices.On("FindByCustomerID", mock.Anything, customerID).Return([]sales.Invoice{
		testInvoice(t, customerID, "INV-001", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), 1000),
	}, nil)
	payments.On("FindByCustomerID", mock.Anything, customerID).Return([]sales.Payment{}, nil)

	base := svc.LoyaltyScore(context.Background(), customerID)
	score := svc.LoyaltyScoreWeighted(context.Background(), customerID, LoyaltyWeights{})

	assert.InDelta(t, base, score, 1e-9)
}

func TestChurnRisk_ScalesWithMonthsSinceLastInvoice(t *testing.T) {
	invoices := new(MockInvoiceRepository)
	payments := new(MockPaymentRepository)
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	svc := newAnalyticsService(invoices, payments, now)
	customerID := uuid.New()

	invoices.On("FindByCustomerID", mock.Anything, customerID).Return([]sales.Invoice{
		testInvoice(t, customerID, "INV-001", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), 100),
	}, nil)

	// Three whole months back
	assert.Equal(t, 60.0, svc.ChurnRisk(context.Background(), customerID))
}

func TestChurnRisk_CapsAtHundred(t *testing.T) {
	invoices := new(MockInvoiceRepository)
	payments := new(MockPaymentRepository)
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	svc := newAnalyticsService(invoices, payments, now)
	customerID := uuid.New()

	invoices.On("FindByCustomerID", mock.Anything, customerID).Return([]sales.Invoice{
		testInvoice(t, customerID, "INV-001", time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), 100),
	}, nil)

	assert.Equal(t, 100.0, svc.ChurnRisk(context.Background(), customerID))
}

func TestChurnRisk_NoHistoryIsMaxRisk(t *testing.T) {
	invoices := new(MockInvoiceRepository)
	payments := new(MockPaymentRepository)
	svc := newAnalyticsService(invoices, payments, time.Now())
	customerID := uuid.New()

	invoices.On("FindByCustomerID", mock.Anything, customerID).Return([]sales.Invoice{}, nil)

	assert.Equal(t, 100.0, svc.ChurnRisk(context.Background(), customerID))
}

func TestLifetimeValue_AverageTimesCount(t *testing.T) {
	invoices := new(MockInvoiceRepository)
	payments := new(MockPaymentRepository)
	svc := newAnalyticsService(invoices, payments, time.Now())
	customerID := uuid.New()

	invoices.On("FindByCustomerID", mock.Anything, customerID).Return([]sales.Invoice{
		testInvoice(t, customerID, "INV-001", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 300),
		testInvoice(t, customerID, "INV-002", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), 500),
	}, nil)

	clv := svc.LifetimeValue(context.Background(), customerID)

	assert.True(t, clv.Equal(decimal.NewFromInt(800)), "clv = %s", clv)
}

func TestLifetimeValue_FetchFailureIsZero(t *testing.T) {
	invoices := new(MockInvoiceRepository)
	payments := new(MockPaymentRepository)
	svc := newAnalyticsService(invoices, payments, time.Now())
	customerID := uuid.New()

	invoices.On("FindByCustomerID", mock.Anything, customerID).Return(nil, shared.ErrFetchFailed)

	assert.True(t, svc.LifetimeValue(context.Background(), customerID).IsZero())
}

func TestCompareCohort_KeepsFailedCustomersWithNeutralRows(t *testing.T) {
	invoices := new(MockInvoiceRepository)
	payments := new(MockPaymentRepository)
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	svc := newAnalyticsService(invoices, payments, now)

	healthy := uuid.New()
	broken := uuid.New()

	invoices.On("FindByCustomerID", mock.Anything, healthy).Return([]sales.Invoice{
		testInvoice(t, healthy, "INV-001", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 400),
	}, nil)
	payments.On("FindByCustomerID", mock.Anything, healthy).Return([]sales.Payment{}, nil)
	invoices.On("FindByCustomerID", mock.Anything, broken).Return(nil, shared.ErrFetchFailed)

	rows := svc.CompareCohort(context.Background(), []uuid.UUID{healthy, broken})

	require.Len(t, rows, 2)
	assert.Equal(t, healthy, rows[0].CustomerID)
	assert.Equal(t, int64(1), rows[0].RFM.Frequency)
	assert.Positive(t, rows[0].LoyaltyScore)
	assert.Equal(t, broken, rows[1].CustomerID)
	assert.Equal(t, RecencyNone, rows[1].RFM.Recency)
	assert.Zero(t, rows[1].LoyaltyScore)
}
