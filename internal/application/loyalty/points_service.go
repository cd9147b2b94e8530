package loyalty

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storeledger/backend/internal/application/ledger"
	"github.com/storeledger/backend/internal/domain/customer"
	"github.com/storeledger/backend/internal/domain/loyalty"
	"github.com/storeledger/backend/internal/domain/shared"
)

// PointsService handles manual point adjustments outside the normal
// earn/redeem flows, e.g. goodwill grants or data corrections.
type PointsService struct {
	entries    loyalty.PointsEntryRepository
	customers  customer.CustomerRepository
	reconciler ledger.Reconciler
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewPointsService creates a new points adjustment service
func NewPointsService(
	entries loyalty.PointsEntryRepository,
	customers customer.CustomerRepository,
	reconciler ledger.Reconciler,
	events shared.EventPublisher,
	logger *zap.Logger,
) *PointsService {
	return &PointsService{
		entries:    entries,
		customers:  customers,
		reconciler: reconciler,
		events:     events,
		logger:     logger,
	}
}

// Adjust records a manual point adjustment and reconciles
func (s *PointsService) Adjust(ctx context.Context, req AdjustPointsRequest) (*PointsEntryResponse, error) {
	if _, err := s.customers.FindByID(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	e, err := loyalty.NewPointsEntry(req.CustomerID, req.Points, loyalty.PointsEntryKind(req.Kind), req.Source, req.EntryDate)
	if err != nil {
		return nil, err
	}

	if err := s.entries.Save(ctx, e); err != nil {
		return nil, err
	}

	s.reconcile(ctx, e.CustomerID)
	s.publish(ctx, e.GetDomainEvents())
	e.ClearDomainEvents()

	return ToPointsEntryResponse(e), nil
}

// ListByCustomer returns all manual adjustments for one customer
func (s *PointsService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]PointsEntryResponse, error) {
	entries, err := s.entries.FindByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	responses := make([]PointsEntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, *ToPointsEntryResponse(&entries[i]))
	}
	return responses, nil
}

// Delete removes an adjustment and reconciles
func (s *PointsService) Delete(ctx context.Context, id uuid.UUID) error {
	e, err := s.entries.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.entries.Delete(ctx, id); err != nil {
		return err
	}

	s.reconcile(ctx, e.CustomerID)
	s.publish(ctx, []shared.DomainEvent{loyalty.NewPointsEntryDeletedEvent(e)})
	return nil
}

func (s *PointsService) reconcile(ctx context.Context, customerID uuid.UUID) {
	if err := s.reconciler.Reconcile(ctx, customerID); err != nil {
		s.logger.Error("post-write reconciliation failed",
			zap.String("customer_id", customerID.String()),
			zap.Error(err),
		)
	}
}

func (s *PointsService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish points events", zap.Error(err))
	}
}
