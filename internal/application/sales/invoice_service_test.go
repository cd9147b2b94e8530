package sales

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

	"github.com/storeledger/backend/internal/domain/customer"
	"github.com/storeledger/backend/internal/domain/sales"
	"github.com/storeledger/backend/internal/domain/shared"
)

// MockCustomerRepository is a mock implementation of customer.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]customer.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) FindByCode(ctx context.Context, code string) (*customer.Customer, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) SaveVersioned(ctx context.Context, c *customer.Customer, expectedVersion int) error {
	args := m.Called(ctx, c, expectedVersion)
	return args.Error(0)
}

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

// orderTracker records the sequence of reconcile and publish calls so
// the write -> reconcile -> notify ordering can be asserted
type orderTracker struct {
	sequence []string
}

type trackingReconciler struct {
	tracker *orderTracker
	calls   []uuid.UUID
	err     error
}

func (r *trackingReconciler) Reconcile(ctx context.Context, customerID uuid.UUID) error {
	r.tracker.sequence = append(r.tracker.sequence, "reconcile")
	r.calls = append(r.calls, customerID)
	return r.err
}

type trackingPublisher struct {
	tracker    *orderTracker
	eventTypes []string
}

func (p *trackingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, e := range events {
		p.tracker.sequence = append(p.tracker.sequence, "notify")
		p.eventTypes = append(p.eventTypes, e.EventType())
	}
	return nil
}

func testCustomer(t *testing.T) *customer.Customer {
	t.Helper()
	c, err := customer.NewCustomer("CUST-001", "Acme Retail")
	require.NoError(t, err)
	c.ClearDomainEvents()
	return c
}

func invoiceItems() []InvoiceItemRequest {
	return []InvoiceItemRequest{{
		ProductID:    uuid.New(),
		ProductName:  "Espresso beans",
		Category:     "beverages",
		Quantity:     2,
		UnitPrice:    decimal.NewFromInt(25),
		PointsEarned: 5,
	}}
}

func TestInvoiceCreate_WritesReconcilesThenNotifies(t *testing.T) {
	invoices := new(MockInvoiceRepository)
	customers := new(MockCustomerRepository)
	tracker := &orderTracker{}
	reconciler := &trackingReconciler{tracker: tracker}
	publisher := &trackingPublisher{tracker: tracker}
	svc := NewInvoiceService(invoices, customers, reconciler, publisher, zap.NewNop())

	cust := testCustomer(t)
	customers.On("FindByID", mock.Anything, cust.ID).Return(cust, nil)
	invoices.On("FindByNumber", mock.Anything, "INV-001").Return(nil, shared.ErrNotFound)
	invoices.On("Save", mock.Anything, mock.AnythingOfType("*sales.Invoice")).Return(nil)

	resp, err := svc.Create(context.Background(), CreateInvoiceRequest{
		CustomerID:    cust.ID,
		InvoiceNumber: "INV-001",
		InvoiceDate:   time.Now(),
		Items:         invoiceItems(),
	})

	require.NoError(t, err)
	// Line total derived from unit price * quantity
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, int64(5), resp.PointsEarned)
	assert.Equal(t, sales.InvoiceStatusUnpaid, resp.Status)

	assert.Equal(t, []uuid.UUID{cust.ID}, reconciler.calls)
	require.NotEmpty(t, tracker.sequence)
	assert.Equal(t, "reconcile", tracker.sequence[0], "reconciliation must precede notification")
	assert.Contains(t, publisher.eventTypes, sales.EventTypeInvoiceCreated)
}

func TestInvoiceCreate_DuplicateNumber(t *testing.T) {
	invoices := new(MockInvoiceRepository)
	customers := new(MockCustomerRepository)
	tracker := &orderTracker{}
	svc := NewInvoiceService(invoices, customers, &trackingReconciler{tracker: tracker}, &trackingPublisher{tracker: tracker}, zap.NewNop())

	cust := testCustomer(t)
	existing, err := sales.NewInvoice(cust.ID, "INV-001", time.Now(), nil, toInvoiceItems(invoiceItems()))
	require.NoError(t, err)

	customers.On("FindByID", mock.Anything, cust.ID).Return(cust, nil)
	invoices.On("FindByNumber", mock.Anything, "INV-001").Return(existing, nil)

	_, err = svc.Create(context.Background(), CreateInvoiceRequest{
		CustomerID:    cust.ID,
		InvoiceNumber: "INV-001",
		InvoiceDate:   time.Now(),
		Items:         invoiceItems(),
	})

	assert.Equal(t, "ALREADY_EXISTS", shared.ErrorCode(err))
	invoices.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestInvoiceCreate_UnknownCustomer(t *testing.T) {
	invoices := new(MockInvoiceRepository)
	customers := new(MockCustomerRepository)
	tracker := &orderTracker{}
	reconciler := &trackingReconciler{tracker: tracker}
	svc := NewInvoiceService(invoices, customers, reconciler, &trackingPublisher{tracker: tracker}, zap.NewNop())

	id := uuid.New()
	customers.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	_, err := svc.Create(context.Background(), CreateInvoiceRequest{
		CustomerID:    id,
		InvoiceNumber: "INV-001",
		InvoiceDate:   time.Now(),
		Items:         invoiceItems(),
	})

	assert.Equal(t, "NOT_FOUND", shared.ErrorCode(err))
	assert.Empty(t, reconciler.calls)
}

func TestInvoiceDelete_StillReconciles(t *testing.T) {
	invoices := new(MockInvoiceRepository)
	customers := new(MockCustomerRepository)
	tracker := &orderTracker{}
	reconciler := &trackingReconciler{tracker: tracker}
	publisher := &trackingPublisher{tracker: tracker}
	svc := NewInvoiceService(invoices, customers, reconciler, publisher, zap.NewNop())

	cust := testCustomer(t)
	inv, err := sales.NewInvoice(cust.ID, "INV-001", time.Now(), nil, toInvoiceItems(invoiceItems()))
	require.NoError(t, err)
	inv.ClearDomainEvents()

	invoices.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
	invoices.On("Delete", mock.Anything, inv.ID).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), inv.ID))
	assert.Equal(t, []uuid.UUID{cust.ID}, reconciler.calls)
	assert.Contains(t, publisher.eventTypes, sales.EventTypeInvoiceDeleted)
}

func TestInvoiceCreate_ReconcileFailureDoesNotFailMutation(t *testing.T) {
	invoices := new(MockInvoiceRepository)
	customers := new(MockCustomerRepository)
	tracker := &orderTracker{}
	reconciler := &trackingReconciler{tracker: tracker, err: shared.ErrFetchFailed}
	svc := NewInvoiceService(invoices, customers, reconciler, &trackingPublisher{tracker: tracker}, zap.NewNop())

	cust := testCustomer(t)
	customers.On("FindByID", mock.Anything, cust.ID).Return(cust, nil)
	invoices.On("FindByNumber", mock.Anything, "INV-001").Return(nil, shared.ErrNotFound)
	invoices.On("Save", mock.Anything, mock.AnythingOfType("*sales.Invoice")).Return(nil)

	_, err := svc.Create(context.Background(), CreateInvoiceRequest{
		CustomerID:    cust.ID,
		InvoiceNumber: "INV-001",
		InvoiceDate:   time.Now(),
		Items:         invoiceItems(),
	})

	// The write is durable; a failed reconciliation is logged and the
	// next trigger converges.
	assert.NoError(t, err)
}

func TestPaymentRecord_RefreshesLinkedInvoiceStatus(t *testing.T) {
	payments := new(MockPaymentRepository)
	invoices := new(MockInvoiceRepository)
	customers := new(MockCustomerRepository)
	tracker := &orderTracker{}
	reconciler := &trackingReconciler{tracker: tracker}
	publisher := &trackingPublisher{tracker: tracker}
	svc := NewPaymentService(payments, invoices, customers, reconciler, publisher, zap.NewNop())

	cust := testCustomer(t)
	inv, err := sales.NewInvoice(cust.ID, "INV-001", time.Now(), nil, toInvoiceItems(invoiceItems()))
	require.NoError(t, err)
	inv.ClearDomainEvents()

	customers.On("FindByID", mock.Anything, cust.ID).Return(cust, nil)
	invoices.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
	payments.On("Save", mock.Anything, mock.AnythingOfType("*sales.Payment")).Return(nil)
	payments.On("FindByInvoiceID", mock.Anything, inv.ID).Return([]sales.Payment{
		{CustomerID: cust.ID, InvoiceID: &inv.ID, Amount: decimal.NewFromInt(50), Kind: sales.PaymentKindPayment, PaymentDate: time.Now()},
	}, nil)
	invoices.On("Save", mock.Anything, inv).Return(nil)

	resp, err := svc.Record(context.Background(), RecordPaymentRequest{
		CustomerID:  cust.ID,
		InvoiceID:   &inv.ID,
		Amount:      decimal.NewFromInt(50),
		PaymentDate: time.Now(),
		Kind:        "PAYMENT",
		Method:      "cash",
	})

	require.NoError(t, err)
	assert.Equal(t, sales.PaymentKindPayment, resp.Kind)
	assert.Equal(t, sales.InvoiceStatusPaid, inv.Status)
	assert.Equal(t, []uuid.UUID{cust.ID}, reconciler.calls)
	assert.Contains(t, publisher.eventTypes, sales.EventTypePaymentRecorded)
	assert.Contains(t, publisher.eventTypes, sales.EventTypeInvoiceStatusChanged)
}

func TestPaymentRecord_RejectsForeignInvoice(t *testing.T) {
	payments := new(MockPaymentRepository)
	invoices := new(MockInvoiceRepository)
	customers := new(MockCustomerRepository)
	tracker := &orderTracker{}
	svc := NewPaymentService(payments, invoices, customers, &trackingReconciler{tracker: tracker}, &trackingPublisher{tracker: tracker}, zap.NewNop())

	cust := testCustomer(t)
	other := testCustomer(t)
	inv, err := sales.NewInvoice(other.ID, "INV-009", time.Now(), nil, toInvoiceItems(invoiceItems()))
	require.NoError(t, err)

	customers.On("FindByID", mock.Anything, cust.ID).Return(cust, nil)
	invoices.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)

	_, err = svc.Record(context.Background(), RecordPaymentRequest{
		CustomerID:  cust.ID,
		InvoiceID:   &inv.ID,
		Amount:      decimal.NewFromInt(50),
		PaymentDate: time.Now(),
		Kind:        "PAYMENT",
	})

	assert.Equal(t, "VALIDATION_FAILED", shared.ErrorCode(err))
	payments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestInvoiceListByCustomer_OutstandingOnly(t *testing.T) {
	invoices := new(MockInvoiceRepository)
	customers := new(MockCustomerRepository)
	tracker := &orderTracker{}
	svc := NewInvoiceService(invoices, customers, &trackingReconciler{tracker: tracker}, &trackingPublisher{tracker: tracker}, zap.NewNop())

	cust := testCustomer(t)
	unpaid, err := sales.NewInvoice(cust.ID, "INV-002", time.Now(), nil, toInvoiceItems(invoiceItems()))
	require.NoError(t, err)

	invoices.On("FindOutstandingByCustomerID", mock.Anything, cust.ID).Return([]sales.Invoice{*unpaid}, nil)

	resp, err := svc.ListOutstandingByCustomer(context.Background(), cust.ID)

	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, "INV-002", resp[0].InvoiceNumber)
	assert.Equal(t, sales.InvoiceStatusUnpaid, resp[0].Status)
	invoices.AssertNotCalled(t, "FindByCustomerID", mock.Anything, mock.Anything)
}

func TestPaymentListByCustomer_StandaloneOnly(t *testing.T) {
	payments := new(MockPaymentRepository)
	invoices := new(MockInvoiceRepository)
	customers := new(MockCustomerRepository)
	tracker := &orderTracker{}
	svc := NewPaymentService(payments, invoices, customers, &trackingReconciler{tracker: tracker}, &trackingPublisher{tracker: tracker}, zap.NewNop())

	cust := testCustomer(t)
	payments.On("FindStandaloneByCustomerID", mock.Anything, cust.ID).Return([]sales.Payment{
		{CustomerID: cust.ID, Amount: decimal.NewFromInt(75), Kind: sales.PaymentKindPayment, PaymentDate: time.Now()},
	}, nil)

	resp, err := svc.ListStandaloneByCustomer(context.Background(), cust.ID)

	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Nil(t, resp[0].InvoiceID)
	assert.True(t, resp[0].Amount.Equal(decimal.NewFromInt(75)))
	payments.AssertNotCalled(t, "FindByCustomerID", mock.Anything, mock.Anything)
}

func TestReturnLifecycle_TriggersReconcile(t *testing.T) {
	returns := new(MockReturnRepository)
	invoices := new(MockInvoiceRepository)
	tracker := &orderTracker{}
	reconciler := &trackingReconciler{tracker: tracker}
	publisher := &trackingPublisher{tracker: tracker}
	svc := NewReturnService(returns, invoices, reconciler, publisher, zap.NewNop())

	cust := testCustomer(t)
	inv, err := sales.NewInvoice(cust.ID, "INV-001", time.Now(), nil, toInvoiceItems(invoiceItems()))
	require.NoError(t, err)

	invoices.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
	returns.On("Save", mock.Anything, mock.AnythingOfType("*sales.Return")).Return(nil)

	resp, err := svc.Create(context.Background(), CreateReturnRequest{
		InvoiceID:  inv.ID,
		ReturnDate: time.Now(),
		Reason:     "damaged",
		Items: []ReturnItemRequest{{
			ProductID: uuid.New(),
			Quantity:  1,
			Amount:    decimal.NewFromInt(25),
		}},
	})

	require.NoError(t, err)
	assert.Equal(t, sales.ReturnStatusPending, resp.Status)
	assert.Equal(t, cust.ID, resp.CustomerID)
	assert.Equal(t, []uuid.UUID{cust.ID}, reconciler.calls)
	assert.Contains(t, publisher.eventTypes, sales.EventTypeReturnCreated)
}

func TestReturnApprove_OnlyFromPending(t *testing.T) {
	returns := new(MockReturnRepository)
	invoices := new(MockInvoiceRepository)
	tracker := &orderTracker{}
	reconciler := &trackingReconciler{tracker: tracker}
	publisher := &trackingPublisher{tracker: tracker}
	svc := NewReturnService(returns, invoices, reconciler, publisher, zap.NewNop())

	cust := testCustomer(t)
	inv, err := sales.NewInvoice(cust.ID, "INV-001", time.Now(), nil, toInvoiceItems(invoiceItems()))
	require.NoError(t, err)
	ret, err := sales.NewReturn(inv.ID, cust.ID, []sales.ReturnItem{
		{ProductID: uuid.New(), Quantity: 1, Amount: decimal.NewFromInt(25)},
	}, time.Now(), "damaged")
	require.NoError(t, err)
	ret.ClearDomainEvents()

	returns.On("FindByID", mock.Anything, ret.ID).Return(ret, nil)
	returns.On("Save", mock.Anything, ret).Return(nil)

	resp, err := svc.Approve(context.Background(), ret.ID)
	require.NoError(t, err)
	assert.Equal(t, sales.ReturnStatusApproved, resp.Status)
	assert.Equal(t, []uuid.UUID{cust.ID}, reconciler.calls)
	assert.Contains(t, publisher.eventTypes, sales.EventTypeReturnStatusChanged)

	// A second transition on the same return is rejected
	_, err = svc.Reject(context.Background(), ret.ID, RejectReturnRequest{Reason: "too late"})
	assert.Equal(t, "INVALID_STATE", shared.ErrorCode(err))
}

func TestReturnReject_KeepsReason(t *testing.T) {
	returns := new(MockReturnRepository)
	invoices := new(MockInvoiceRepository)
	tracker := &orderTracker{}
	svc := NewReturnService(returns, invoices, &trackingReconciler{tracker: tracker}, &trackingPublisher{tracker: tracker}, zap.NewNop())

	cust := testCustomer(t)
	inv, err := sales.NewInvoice(cust.ID, "INV-001", time.Now(), nil, toInvoiceItems(invoiceItems()))
	require.NoError(t, err)
	ret, err := sales.NewReturn(inv.ID, cust.ID, []sales.ReturnItem{
		{ProductID: uuid.New(), Quantity: 1, Amount: decimal.NewFromInt(25)},
	}, time.Now(), "damaged")
	require.NoError(t, err)
	ret.ClearDomainEvents()

	returns.On("FindByID", mock.Anything, ret.ID).Return(ret, nil)
	returns.On("Save", mock.Anything, ret).Return(nil)

	resp, err := svc.Reject(context.Background(), ret.ID, RejectReturnRequest{Reason: "outside window"})
	require.NoError(t, err)
	assert.Equal(t, sales.ReturnStatusRejected, resp.Status)
	assert.Equal(t, "outside window", resp.Reason)
}

// MockReturnRepository is a mock implementation of sales.ReturnRepository
type MockReturnRepository struct {
	mock.Mock
}

func (m *MockReturnRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Return, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Return), args.Error(1)
}

func (m *MockReturnRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Return, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]sales.Return), args.Error(1)
}

func (m *MockReturnRepository) Save(ctx context.Context, r *sales.Return) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReturnRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReturnRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReturnRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]sales.Return, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]sales.Return), args.Error(1)
}

func (m *MockReturnRepository) FindByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]sales.Return, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).([]sales.Return), args.Error(1)
}
