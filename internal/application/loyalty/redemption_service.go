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

// RedemptionService handles point redemption mutations. Every write
// triggers a reconciliation so the customer's point balance reflects
// the change before it is announced.
type RedemptionService struct {
	redemptions loyalty.RedemptionRepository
	customers   customer.CustomerRepository
	reconciler  ledger.Reconciler
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewRedemptionService creates a new redemption service
func NewRedemptionService(
	redemptions loyalty.RedemptionRepository,
	customers customer.CustomerRepository,
	reconciler ledger.Reconciler,
	events shared.EventPublisher,
	logger *zap.Logger,
) *RedemptionService {
	return &RedemptionService{
		redemptions: redemptions,
		customers:   customers,
		reconciler:  reconciler,
		events:      events,
		logger:      logger,
	}
}

// Create opens a pending redemption. The customer's current point
// balance must cover the redeemed total.
func (s *RedemptionService) Create(ctx context.Context, req CreateRedemptionRequest) (*RedemptionResponse, error) {
	cust, err := s.customers.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	items := make([]loyalty.RedemptionItem, 0, len(req.Items))
	var total int64
	for _, item := range req.Items {
		items = append(items, loyalty.RedemptionItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Points:    item.Points,
		})
		total += item.Points
	}
	if total > cust.CurrentPoints {
		return nil, shared.NewDomainError("INSUFFICIENT_POINTS", "Customer does not have enough points")
	}

	r, err := loyalty.NewRedemption(req.CustomerID, req.RedemptionDate, items)
	if err != nil {
		return nil, err
	}

	if err := s.redemptions.Save(ctx, r); err != nil {
		return nil, err
	}

	s.reconcile(ctx, r.CustomerID)
	s.publishEvents(ctx, r)

	return ToRedemptionResponse(r), nil
}

// Get returns one redemption by id
func (s *RedemptionService) Get(ctx context.Context, id uuid.UUID) (*RedemptionResponse, error) {
	r, err := s.redemptions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToRedemptionResponse(r), nil
}

// ListByCustomer returns all redemptions for one customer
func (s *RedemptionService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]RedemptionResponse, error) {
	redemptions, err := s.redemptions.FindByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	responses := make([]RedemptionResponse, 0, len(redemptions))
	for i := range redemptions {
		responses = append(responses, *ToRedemptionResponse(&redemptions[i]))
	}
	return responses, nil
}

// Complete marks a pending redemption as fulfilled
func (s *RedemptionService) Complete(ctx context.Context, id uuid.UUID) (*RedemptionResponse, error) {
	return s.transition(ctx, id, func(r *loyalty.Redemption) error {
		return r.Complete()
	})
}

// Cancel voids a redemption and returns its points to the customer
// through the next reconciliation
func (s *RedemptionService) Cancel(ctx context.Context, id uuid.UUID) (*RedemptionResponse, error) {
	return s.transition(ctx, id, func(r *loyalty.Redemption) error {
		return r.Cancel()
	})
}

// Delete removes a redemption and reconciles
func (s *RedemptionService) Delete(ctx context.Context, id uuid.UUID) error {
	r, err := s.redemptions.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.redemptions.Delete(ctx, id); err != nil {
		return err
	}

	s.reconcile(ctx, r.CustomerID)
	s.publish(ctx, []shared.DomainEvent{loyalty.NewRedemptionDeletedEvent(r)})
	return nil
}

func (s *RedemptionService) transition(ctx context.Context, id uuid.UUID, apply func(*loyalty.Redemption) error) (*RedemptionResponse, error) {
	r, err := s.redemptions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := apply(r); err != nil {
		return nil, err
	}
	if err := s.redemptions.Save(ctx, r); err != nil {
		return nil, err
	}

	s.reconcile(ctx, r.CustomerID)
	s.publishEvents(ctx, r)

	return ToRedemptionResponse(r), nil
}

func (s *RedemptionService) reconcile(ctx context.Context, customerID uuid.UUID) {
	if err := s.reconciler.Reconcile(ctx, customerID); err != nil {
		s.logger.Error("post-write reconciliation failed",
			zap.String("customer_id", customerID.String()),
			zap.Error(err),
		)
	}
}

func (s *RedemptionService) publishEvents(ctx context.Context, r *loyalty.Redemption) {
	s.publish(ctx, r.GetDomainEvents())
	r.ClearDomainEvents()
}

func (s *RedemptionService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish redemption events", zap.Error(err))
	}
}
