package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storeledger/backend/internal/application/ledger"
	"github.com/storeledger/backend/internal/domain/customer"
	"github.com/storeledger/backend/internal/domain/sales"
	"github.com/storeledger/backend/internal/domain/shared"
)

// PaymentService handles payment and refund mutations. Payments linked
// to an invoice also move that invoice through its status lifecycle.
type PaymentService struct {
	payments   sales.PaymentRepository
	invoices   sales.InvoiceRepository
	customers  customer.CustomerRepository
	reconciler ledger.Reconciler
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	payments sales.PaymentRepository,
	invoices sales.InvoiceRepository,
	customers customer.CustomerRepository,
	reconciler ledger.Reconciler,
	events shared.EventPublisher,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		payments:   payments,
		invoices:   invoices,
		customers:  customers,
		reconciler: reconciler,
		events:     events,
		logger:     logger,
	}
}

// Record records a payment or refund, refreshes the linked invoice's
// status, and reconciles the customer's ledger
func (s *PaymentService) Record(ctx context.Context, req RecordPaymentRequest) (*PaymentResponse, error) {
	if _, err := s.customers.FindByID(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	var linkedInvoice *sales.Invoice
	if req.InvoiceID != nil {
		inv, err := s.invoices.FindByID(ctx, *req.InvoiceID)
		if err != nil {
			return nil, err
		}
		if inv.CustomerID != req.CustomerID {
			return nil, shared.NewDomainError("VALIDATION_FAILED", "Invoice belongs to a different customer")
		}
		linkedInvoice = inv
	}

	p, err := sales.NewPayment(req.CustomerID, req.InvoiceID, req.Amount, req.PaymentDate, sales.PaymentKind(req.Kind), req.Method)
	if err != nil {
		return nil, err
	}
	p.Remark = req.Remark

	if err := s.payments.Save(ctx, p); err != nil {
		return nil, err
	}

	events := p.GetDomainEvents()
	p.ClearDomainEvents()

	if linkedInvoice != nil {
		if refreshed, err := s.refreshInvoiceStatus(ctx, linkedInvoice); err != nil {
			s.logger.Error("failed to refresh invoice status after payment",
				zap.String("invoice_id", linkedInvoice.ID.String()),
				zap.Error(err),
			)
		} else {
			events = append(events, refreshed...)
		}
	}

	s.reconcile(ctx, p.CustomerID)
	publishEvents(ctx, s.events, s.logger, events)

	return ToPaymentResponse(p), nil
}

// Get returns one payment by id
func (s *PaymentService) Get(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	p, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToPaymentResponse(p), nil
}

// ListByCustomer returns all payments for one customer
func (s *PaymentService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]PaymentResponse, error) {
	payments, err := s.payments.FindByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return toPaymentResponses(payments), nil
}

// ListStandaloneByCustomer returns the customer's payments that are not
// linked to any invoice, the ones the ledger nets against outstanding
// credit
func (s *PaymentService) ListStandaloneByCustomer(ctx context.Context, customerID uuid.UUID) ([]PaymentResponse, error) {
	payments, err := s.payments.FindStandaloneByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return toPaymentResponses(payments), nil
}

func toPaymentResponses(payments []sales.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, *ToPaymentResponse(&payments[i]))
	}
	return responses
}

// Update corrects a payment's amount and reconciles
func (s *PaymentService) Update(ctx context.Context, id uuid.UUID, req UpdatePaymentRequest) (*PaymentResponse, error) {
	p, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.UpdateAmount(req.Amount); err != nil {
		return nil, err
	}
	if err := s.payments.Save(ctx, p); err != nil {
		return nil, err
	}

	events := p.GetDomainEvents()
	p.ClearDomainEvents()
	events = append(events, s.refreshLinkedInvoice(ctx, p)...)

	s.reconcile(ctx, p.CustomerID)
	publishEvents(ctx, s.events, s.logger, events)

	return ToPaymentResponse(p), nil
}

// Delete removes a payment, refreshes the linked invoice and reconciles
func (s *PaymentService) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.payments.Delete(ctx, id); err != nil {
		return err
	}

	events := []shared.DomainEvent{sales.NewPaymentDeletedEvent(p)}
	events = append(events, s.refreshLinkedInvoice(ctx, p)...)

	s.reconcile(ctx, p.CustomerID)
	publishEvents(ctx, s.events, s.logger, events)
	return nil
}

func (s *PaymentService) refreshLinkedInvoice(ctx context.Context, p *sales.Payment) []shared.DomainEvent {
	if p.InvoiceID == nil {
		return nil
	}
	inv, err := s.invoices.FindByID(ctx, *p.InvoiceID)
	if err != nil {
		s.logger.Error("failed to load invoice for status refresh",
			zap.String("invoice_id", p.InvoiceID.String()),
			zap.Error(err),
		)
		return nil
	}
	events, err := s.refreshInvoiceStatus(ctx, inv)
	if err != nil {
		s.logger.Error("failed to refresh invoice status",
			zap.String("invoice_id", inv.ID.String()),
			zap.Error(err),
		)
		return nil
	}
	return events
}

// refreshInvoiceStatus recomputes the invoice's paid-so-far total from
// its payments and persists any status transition
func (s *PaymentService) refreshInvoiceStatus(ctx context.Context, inv *sales.Invoice) ([]shared.DomainEvent, error) {
	payments, err := s.payments.FindByInvoiceID(ctx, inv.ID)
	if err != nil {
		return nil, err
	}

	paidSoFar := decimal.Zero
	var latest *time.Time
	for i := range payments {
		paidSoFar = paidSoFar.Add(payments[i].SignedAmount())
		if latest == nil || payments[i].PaymentDate.After(*latest) {
			t := payments[i].PaymentDate
			latest = &t
		}
	}

	at := time.Now()
	if latest != nil {
		at = *latest
	}
	inv.RefreshPaymentStatus(paidSoFar, at)

	events := inv.GetDomainEvents()
	inv.ClearDomainEvents()
	if len(events) == 0 {
		return nil, nil
	}
	if err := s.invoices.Save(ctx, inv); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *PaymentService) reconcile(ctx context.Context, customerID uuid.UUID) {
	if err := s.reconciler.Reconcile(ctx, customerID); err != nil {
		s.logger.Error("post-write reconciliation failed",
			zap.String("customer_id", customerID.String()),
			zap.Error(err),
		)
	}
}
