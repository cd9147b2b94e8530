package sales

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storeledger/backend/internal/application/ledger"
	"github.com/storeledger/backend/internal/domain/customer"
	"github.com/storeledger/backend/internal/domain/sales"
	"github.com/storeledger/backend/internal/domain/shared"
)

// InvoiceService handles invoice mutations. Every successful write
// triggers a ledger reconciliation for the affected customer before the
// change is announced, keeping the write -> reconcile -> notify order
// deterministic.
type InvoiceService struct {
	invoices   sales.InvoiceRepository
	customers  customer.CustomerRepository
	reconciler ledger.Reconciler
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoices sales.InvoiceRepository,
	customers customer.CustomerRepository,
	reconciler ledger.Reconciler,
	events shared.EventPublisher,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoices:   invoices,
		customers:  customers,
		reconciler: reconciler,
		events:     events,
		logger:     logger,
	}
}

// Create creates a new invoice and reconciles the customer's ledger
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	if _, err := s.customers.FindByID(ctx, req.CustomerID); err != nil {
		return nil, err
	}
	if existing, err := s.invoices.FindByNumber(ctx, req.InvoiceNumber); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Invoice number already in use")
	} else if err != nil && shared.ErrorCode(err) != "NOT_FOUND" {
		return nil, err
	}

	inv, err := sales.NewInvoice(req.CustomerID, req.InvoiceNumber, req.InvoiceDate, req.DueDate, toInvoiceItems(req.Items))
	if err != nil {
		return nil, err
	}
	if req.PointsRedeemed > 0 {
		if err := inv.SetPointsRedeemed(req.PointsRedeemed); err != nil {
			return nil, err
		}
	}

	if err := s.invoices.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.reconcile(ctx, inv.CustomerID)
	publishEvents(ctx, s.events, s.logger, inv.GetDomainEvents())
	inv.ClearDomainEvents()

	return ToInvoiceResponse(inv), nil
}

// Get returns one invoice by id
func (s *InvoiceService) Get(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

// ListByCustomer returns all invoices for one customer
func (s *InvoiceService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]InvoiceResponse, error) {
	invoices, err := s.invoices.FindByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponses(invoices), nil
}

// ListOutstandingByCustomer returns the customer's invoices that still
// carry an unpaid balance
func (s *InvoiceService) ListOutstandingByCustomer(ctx context.Context, customerID uuid.UUID) ([]InvoiceResponse, error) {
	invoices, err := s.invoices.FindOutstandingByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponses(invoices), nil
}

func toInvoiceResponses(invoices []sales.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		responses = append(responses, *ToInvoiceResponse(&invoices[i]))
	}
	return responses
}

// Update replaces an invoice's line items and reconciles
func (s *InvoiceService) Update(ctx context.Context, id uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := inv.ReplaceItems(toInvoiceItems(req.Items)); err != nil {
		return nil, err
	}
	if req.PointsRedeemed != nil {
		if err := inv.SetPointsRedeemed(*req.PointsRedeemed); err != nil {
			return nil, err
		}
	}

	if err := s.invoices.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.reconcile(ctx, inv.CustomerID)
	publishEvents(ctx, s.events, s.logger, inv.GetDomainEvents())
	inv.ClearDomainEvents()

	return ToInvoiceResponse(inv), nil
}

// Delete removes an invoice and reconciles the customer's ledger
func (s *InvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.invoices.Delete(ctx, id); err != nil {
		return err
	}

	s.reconcile(ctx, inv.CustomerID)
	publishEvents(ctx, s.events, s.logger, []shared.DomainEvent{sales.NewInvoiceDeletedEvent(inv)})
	return nil
}

// reconcile triggers the ledger recomputation after a durable write.
// A reconciliation failure does not fail the mutation: the write is
// already committed and the next trigger converges to the same state.
func (s *InvoiceService) reconcile(ctx context.Context, customerID uuid.UUID) {
	if err := s.reconciler.Reconcile(ctx, customerID); err != nil {
		s.logger.Error("post-write reconciliation failed",
			zap.String("customer_id", customerID.String()),
			zap.Error(err),
		)
	}
}

func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, events []shared.DomainEvent) {
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Error("failed to publish domain events", zap.Error(err))
	}
}
