package loyalty

import (
	"time"

	"github.com/google/uuid"

	"github.com/storeledger/backend/internal/domain/shared"
)

// PointsEntryKind marks the direction of a manual point adjustment
type PointsEntryKind string

const (
	PointsEntryKindManualAdd    PointsEntryKind = "manual_add"
	PointsEntryKindManualDeduct PointsEntryKind = "manual_deduct"
)

// IsValid checks if the kind is a valid PointsEntryKind
func (k PointsEntryKind) IsValid() bool {
	return k == PointsEntryKindManualAdd || k == PointsEntryKindManualDeduct
}

// PointsEntry records a manual point adjustment made outside the normal
// earn/redeem flows. Delta is signed: positive for manual_add, negative
// for manual_deduct.
type PointsEntry struct {
	shared.BaseAggregateRoot
	CustomerID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Delta      int64           `gorm:"not null"`
	Kind       PointsEntryKind `gorm:"type:varchar(20);not null"`
	Source     string          `gorm:"type:varchar(100)"`
	EntryDate  time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (PointsEntry) TableName() string {
	return "points_history"
}

// NewPointsEntry creates a manual point adjustment. The points argument
// is the unsigned magnitude; the sign follows from the kind.
func NewPointsEntry(customerID uuid.UUID, points int64, kind PointsEntryKind, source string, entryDate time.Time) (*PointsEntry, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Points entry requires a customer")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Points entry kind must be manual_add or manual_deduct")
	}
	if points <= 0 {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Points entry magnitude must be positive")
	}

	delta := points
	if kind == PointsEntryKindManualDeduct {
		delta = -points
	}

	e := &PointsEntry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Delta:             delta,
		Kind:              kind,
		Source:            source,
		EntryDate:         entryDate,
	}

	e.AddDomainEvent(NewPointsAdjustedEvent(e))

	return e, nil
}

// Added returns the magnitude when the entry adds points, else 0
func (e *PointsEntry) Added() int64 {
	if e.Delta > 0 {
		return e.Delta
	}
	return 0
}

// Deducted returns the magnitude when the entry deducts points, else 0
func (e *PointsEntry) Deducted() int64 {
	if e.Delta < 0 {
		return -e.Delta
	}
	return 0
}
