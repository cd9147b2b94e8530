package loyalty

import (
	"github.com/google/uuid"

	"github.com/storeledger/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeRedemption  = "Redemption"
	AggregateTypePointsEntry = "PointsEntry"
)

// Event type constants
const (
	EventTypeRedemptionCreated       = "RedemptionCreated"
	EventTypeRedemptionStatusChanged = "RedemptionStatusChanged"
	EventTypeRedemptionDeleted       = "RedemptionDeleted"
	EventTypePointsAdjusted          = "PointsAdjusted"
	EventTypePointsEntryDeleted      = "PointsEntryDeleted"
)

// RedemptionCreatedEvent is published when points are put up for redemption
type RedemptionCreatedEvent struct {
	shared.BaseDomainEvent
	RedemptionID uuid.UUID `json:"redemption_id"`
	CustomerID   uuid.UUID `json:"customer_id"`
	TotalPoints  int64     `json:"total_points"`
}

// NewRedemptionCreatedEvent creates a new RedemptionCreatedEvent
func NewRedemptionCreatedEvent(r *Redemption) *RedemptionCreatedEvent {
	return &RedemptionCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRedemptionCreated, AggregateTypeRedemption, r.ID),
		RedemptionID:    r.ID,
		CustomerID:      r.CustomerID,
		TotalPoints:     r.TotalPointsRedeemed,
	}
}

// RedemptionStatusChangedEvent is published on complete/cancel transitions
type RedemptionStatusChangedEvent struct {
	shared.BaseDomainEvent
	RedemptionID uuid.UUID        `json:"redemption_id"`
	CustomerID   uuid.UUID        `json:"customer_id"`
	OldStatus    RedemptionStatus `json:"old_status"`
	NewStatus    RedemptionStatus `json:"new_status"`
}

// NewRedemptionStatusChangedEvent creates a new RedemptionStatusChangedEvent
func NewRedemptionStatusChangedEvent(r *Redemption, oldStatus, newStatus RedemptionStatus) *RedemptionStatusChangedEvent {
	return &RedemptionStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRedemptionStatusChanged, AggregateTypeRedemption, r.ID),
		RedemptionID:    r.ID,
		CustomerID:      r.CustomerID,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// RedemptionDeletedEvent is published when a redemption record is removed
type RedemptionDeletedEvent struct {
	shared.BaseDomainEvent
	RedemptionID uuid.UUID `json:"redemption_id"`
	CustomerID   uuid.UUID `json:"customer_id"`
}

// NewRedemptionDeletedEvent creates a new RedemptionDeletedEvent
func NewRedemptionDeletedEvent(r *Redemption) *RedemptionDeletedEvent {
	return &RedemptionDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRedemptionDeleted, AggregateTypeRedemption, r.ID),
		RedemptionID:    r.ID,
		CustomerID:      r.CustomerID,
	}
}

// PointsAdjustedEvent is published when a manual point adjustment lands
type PointsAdjustedEvent struct {
	shared.BaseDomainEvent
	EntryID    uuid.UUID       `json:"entry_id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	Delta      int64           `json:"delta"`
	Kind       PointsEntryKind `json:"kind"`
	Source     string          `json:"source"`
}

// NewPointsAdjustedEvent creates a new PointsAdjustedEvent
func NewPointsAdjustedEvent(e *PointsEntry) *PointsAdjustedEvent {
	return &PointsAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePointsAdjusted, AggregateTypePointsEntry, e.ID),
		EntryID:         e.ID,
		CustomerID:      e.CustomerID,
		Delta:           e.Delta,
		Kind:            e.Kind,
		Source:          e.Source,
	}
}

// PointsEntryDeletedEvent is published when a manual adjustment is removed
type PointsEntryDeletedEvent struct {
	shared.BaseDomainEvent
	EntryID    uuid.UUID `json:"entry_id"`
	CustomerID uuid.UUID `json:"customer_id"`
}

// NewPointsEntryDeletedEvent creates a new PointsEntryDeletedEvent
func NewPointsEntryDeletedEvent(e *PointsEntry) *PointsEntryDeletedEvent {
	return &PointsEntryDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePointsEntryDeleted, AggregateTypePointsEntry, e.ID),
		EntryID:         e.ID,
		CustomerID:      e.CustomerID,
	}
}
