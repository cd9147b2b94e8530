package customer

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storeledger/backend/internal/application/ledger"
	"github.com/storeledger/backend/internal/domain/customer"
	"github.com/storeledger/backend/internal/domain/shared"
)

// Service handles customer lifecycle operations. The derived ledger
// fields are owned by the reconciliation engine; this service only
// touches identity and the separately tracked opening balance.
type Service struct {
	customers  customer.CustomerRepository
	reconciler ledger.Reconciler
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewService creates a new customer service
func NewService(customers customer.CustomerRepository, reconciler ledger.Reconciler, events shared.EventPublisher, logger *zap.Logger) *Service {
	return &Service{
		customers:  customers,
		reconciler: reconciler,
		events:     events,
		logger:     logger,
	}
}

// Create creates a new customer with a zero-valued ledger
func (s *Service) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	exists, err := s.customers.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this code already exists")
	}

	c, err := customer.NewCustomer(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if req.Phone != "" || req.Email != "" {
		if err := c.Update(req.Name, req.Phone, req.Email); err != nil {
			return nil, err
		}
	}
	if req.OpeningBalance != nil {
		c.SetOpeningBalance(*req.OpeningBalance)
	}
	if req.CreditPeriod != nil {
		if err := c.SetCreditPeriod(*req.CreditPeriod); err != nil {
			return nil, err
		}
	}

	if err := s.customers.Save(ctx, c); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, c)

	return ToCustomerResponse(c), nil
}

// Get returns one customer by id
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToCustomerResponse(c), nil
}

// GetByCode returns one customer by its unique code
func (s *Service) GetByCode(ctx context.Context, code string) (*CustomerResponse, error) {
	c, err := s.customers.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return ToCustomerResponse(c), nil
}

// List returns customers matching the filter
func (s *Service) List(ctx context.Context, filter shared.Filter) ([]CustomerResponse, int64, error) {
	customers, err := s.customers.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customers.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		responses = append(responses, *ToCustomerResponse(&customers[i]))
	}
	return responses, total, nil
}

// Update updates a customer's basic information
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	loadedVersion := c.Version

	if err := c.Update(req.Name, req.Phone, req.Email); err != nil {
		return nil, err
	}
	if req.OpeningBalance != nil {
		c.SetOpeningBalance(*req.OpeningBalance)
	}
	if req.CreditPeriod != nil {
		if err := c.SetCreditPeriod(*req.CreditPeriod); err != nil {
			return nil, err
		}
	}

	// The loaded aggregate carries reconciled ledger columns; a versioned
	// write keeps a racing reconciliation from being silently overwritten.
	if err := s.customers.SaveVersioned(ctx, c, loadedVersion); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, c)

	return ToCustomerResponse(c), nil
}

// Delete removes the customer aggregate. Event-source records keep
// their rows; they simply stop resolving to a live customer.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.customers.Delete(ctx, id); err != nil {
		return err
	}

	c.AddDomainEvent(customer.NewCustomerDeletedEvent(c))
	s.publishEvents(ctx, c)
	return nil
}

// Reconcile forces a full ledger recomputation for one customer. The
// surrounding application exposes this as a manual refresh.
func (s *Service) Reconcile(ctx context.Context, id uuid.UUID) error {
	return s.reconciler.Reconcile(ctx, id)
}

func (s *Service) publishEvents(ctx context.Context, c *customer.Customer) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, c.GetDomainEvents()...); err != nil {
		s.logger.Error("failed to publish customer events",
			zap.String("customer_id", c.ID.String()),
			zap.Error(err),
		)
	}
	c.ClearDomainEvents()
}
