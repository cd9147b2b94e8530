package sales

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storeledger/backend/internal/application/ledger"
	"github.com/storeledger/backend/internal/domain/sales"
	"github.com/storeledger/backend/internal/domain/shared"
)

// ReturnService handles the return lifecycle. Returns feed the ledger
// indirectly (an approved return typically produces a refund payment),
// so mutations here still trigger a reconciliation.
type ReturnService struct {
	returns    sales.ReturnRepository
	invoices   sales.InvoiceRepository
	reconciler ledger.Reconciler
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewReturnService creates a new return service
func NewReturnService(
	returns sales.ReturnRepository,
	invoices sales.InvoiceRepository,
	reconciler ledger.Reconciler,
	events shared.EventPublisher,
	logger *zap.Logger,
) *ReturnService {
	return &ReturnService{
		returns:    returns,
		invoices:   invoices,
		reconciler: reconciler,
		events:     events,
		logger:     logger,
	}
}

// Create opens a pending return against an invoice
func (s *ReturnService) Create(ctx context.Context, req CreateReturnRequest) (*ReturnResponse, error) {
	inv, err := s.invoices.FindByID(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}

	ret, err := sales.NewReturn(inv.ID, inv.CustomerID, toReturnItems(req.Items), req.ReturnDate, req.Reason)
	if err != nil {
		return nil, err
	}

	if err := s.returns.Save(ctx, ret); err != nil {
		return nil, err
	}

	s.reconcile(ctx, ret.CustomerID)
	publishEvents(ctx, s.events, s.logger, ret.GetDomainEvents())
	ret.ClearDomainEvents()

	return ToReturnResponse(ret), nil
}

// Get returns one return by id
func (s *ReturnService) Get(ctx context.Context, id uuid.UUID) (*ReturnResponse, error) {
	ret, err := s.returns.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToReturnResponse(ret), nil
}

// ListByCustomer returns all returns for one customer
func (s *ReturnService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]ReturnResponse, error) {
	returns, err := s.returns.FindByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	responses := make([]ReturnResponse, 0, len(returns))
	for i := range returns {
		responses = append(responses, *ToReturnResponse(&returns[i]))
	}
	return responses, nil
}

// Approve approves a pending return
func (s *ReturnService) Approve(ctx context.Context, id uuid.UUID) (*ReturnResponse, error) {
	return s.transition(ctx, id, func(ret *sales.Return) error {
		return ret.Approve()
	})
}

// Reject rejects a pending return
func (s *ReturnService) Reject(ctx context.Context, id uuid.UUID, req RejectReturnRequest) (*ReturnResponse, error) {
	return s.transition(ctx, id, func(ret *sales.Return) error {
		return ret.Reject(req.Reason)
	})
}

// Delete removes a return and reconciles
func (s *ReturnService) Delete(ctx context.Context, id uuid.UUID) error {
	ret, err := s.returns.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.returns.Delete(ctx, id); err != nil {
		return err
	}

	s.reconcile(ctx, ret.CustomerID)
	publishEvents(ctx, s.events, s.logger, []shared.DomainEvent{sales.NewReturnDeletedEvent(ret)})
	return nil
}

func (s *ReturnService) transition(ctx context.Context, id uuid.UUID, apply func(*sales.Return) error) (*ReturnResponse, error) {
	ret, err := s.returns.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := apply(ret); err != nil {
		return nil, err
	}
	if err := s.returns.Save(ctx, ret); err != nil {
		return nil, err
	}

	s.reconcile(ctx, ret.CustomerID)
	publishEvents(ctx, s.events, s.logger, ret.GetDomainEvents())
	ret.ClearDomainEvents()

	return ToReturnResponse(ret), nil
}

func (s *ReturnService) reconcile(ctx context.Context, customerID uuid.UUID) {
	if err := s.reconciler.Reconcile(ctx, customerID); err != nil {
		s.logger.Error("post-write reconciliation failed",
			zap.String("customer_id", customerID.String()),
			zap.Error(err),
		)
	}
}
