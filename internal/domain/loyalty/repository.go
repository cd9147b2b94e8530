package loyalty

import (
	"context"

	"github.com/google/uuid"

	"github.com/storeledger/backend/internal/domain/shared"
)

// RedemptionRepository defines the persistence interface for redemptions
type RedemptionRepository interface {
	shared.CustomerScopedRepository[Redemption]
	FindByStatus(ctx context.Context, status RedemptionStatus, filter shared.Filter) ([]Redemption, error)
}

// PointsEntryRepository defines the persistence interface for manual
// point adjustments
type PointsEntryRepository interface {
	shared.CustomerScopedRepository[PointsEntry]
	SumDeltaByCustomerID(ctx context.Context, customerID uuid.UUID) (int64, error)
}
