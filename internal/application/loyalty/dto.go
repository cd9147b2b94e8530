package loyalty

import (
	"time"

	"github.com/google/uuid"

	"github.com/storeledger/backend/internal/domain/loyalty"
)

// RedemptionItemRequest is one reward line in a redemption request
type RedemptionItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Name      string    `json:"name" binding:"max=200"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
	Points    int64     `json:"points" binding:"min=0"`
}

// CreateRedemptionRequest represents a request to redeem points
type CreateRedemptionRequest struct {
	CustomerID     uuid.UUID               `json:"customer_id" binding:"required"`
	RedemptionDate time.Time               `json:"redemption_date" binding:"required"`
	Items          []RedemptionItemRequest `json:"items" binding:"required,min=1,dive"`
}

// RedemptionResponse is the redemption view returned to callers
type RedemptionResponse struct {
	ID                  uuid.UUID                `json:"id"`
	CustomerID          uuid.UUID                `json:"customer_id"`
	RedemptionDate      time.Time                `json:"redemption_date"`
	Items               loyalty.RedemptionItems  `json:"items"`
	TotalPointsRedeemed int64                    `json:"total_points_redeemed"`
	Status              loyalty.RedemptionStatus `json:"status"`
	CreatedAt           time.Time                `json:"created_at"`
}

// ToRedemptionResponse converts a domain redemption to its response form
func ToRedemptionResponse(r *loyalty.Redemption) *RedemptionResponse {
	return &RedemptionResponse{
		ID:                  r.ID,
		CustomerID:          r.CustomerID,
		RedemptionDate:      r.RedemptionDate,
		Items:               r.Items,
		TotalPointsRedeemed: r.TotalPointsRedeemed,
		Status:              r.Status,
		CreatedAt:           r.CreatedAt,
	}
}

// AdjustPointsRequest represents a manual point adjustment
type AdjustPointsRequest struct {
	CustomerID uuid.UUID `json:"customer_id" binding:"required"`
	Points     int64     `json:"points" binding:"required,min=1"`
	Kind       string    `json:"kind" binding:"required,oneof=manual_add manual_deduct"`
	Source     string    `json:"source" binding:"max=100"`
	EntryDate  time.Time `json:"entry_date" binding:"required"`
}

// PointsEntryResponse is the points-history view returned to callers
type PointsEntryResponse struct {
	ID         uuid.UUID               `json:"id"`
	CustomerID uuid.UUID               `json:"customer_id"`
	Delta      int64                   `json:"delta"`
	Kind       loyalty.PointsEntryKind `json:"kind"`
	Source     string                  `json:"source,omitempty"`
	EntryDate  time.Time               `json:"entry_date"`
	CreatedAt  time.Time               `json:"created_at"`
}

// ToPointsEntryResponse converts a domain points entry to its response form
func ToPointsEntryResponse(e *loyalty.PointsEntry) *PointsEntryResponse {
	return &PointsEntryResponse{
		ID:         e.ID,
		CustomerID: e.CustomerID,
		Delta:      e.Delta,
		Kind:       e.Kind,
		Source:     e.Source,
		EntryDate:  e.EntryDate,
		CreatedAt:  e.CreatedAt,
	}
}
