package loyalty

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeledger/backend/internal/domain/shared"
)

func testRedemptionItems() []RedemptionItem {
	return []RedemptionItem{
		{ProductID: uuid.New(), Name: "Mug", Quantity: 1, Points: 200},
		{ProductID: uuid.New(), Name: "Cap", Quantity: 2, Points: 300},
	}
}

func TestNewRedemption(t *testing.T) {
	customerID := uuid.New()
	redemptionDate := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	t.Run("creates pending redemption with derived points", func(t *testing.T) {
		r, err := NewRedemption(customerID, redemptionDate, testRedemptionItems())

		require.NoError(t, err)
		assert.Equal(t, customerID, r.CustomerID)
		assert.Equal(t, RedemptionStatusPending, r.Status)
		assert.Equal(t, int64(500), r.TotalPointsRedeemed)
		assert.Len(t, r.GetDomainEvents(), 1)
	})

	t.Run("fails without customer", func(t *testing.T) {
		r, err := NewRedemption(uuid.Nil, redemptionDate, testRedemptionItems())

		assert.Nil(t, r)
		assert.Equal(t, "VALIDATION_FAILED", shared.ErrorCode(err))
	})

	t.Run("fails without items", func(t *testing.T) {
		r, err := NewRedemption(customerID, redemptionDate, nil)

		assert.Nil(t, r)
		assert.Contains(t, err.Error(), "at least one item")
	})

	t.Run("fails with negative points", func(t *testing.T) {
		items := testRedemptionItems()
		items[0].Points = -1

		r, err := NewRedemption(customerID, redemptionDate, items)

		assert.Nil(t, r)
		assert.Contains(t, err.Error(), "cannot be negative")
	})
}

func TestRedemptionLifecycle(t *testing.T) {
	newRedemption := func(t *testing.T) *Redemption {
		r, err := NewRedemption(uuid.New(), time.Now(), testRedemptionItems())
		require.NoError(t, err)
		r.ClearDomainEvents()
		return r
	}

	t.Run("completes pending redemption", func(t *testing.T) {
		r := newRedemption(t)

		require.NoError(t, r.Complete())

		assert.Equal(t, RedemptionStatusCompleted, r.Status)
		assert.Equal(t, 2, r.Version)
		require.Len(t, r.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeRedemptionStatusChanged, r.GetDomainEvents()[0].EventType())
	})

	t.Run("cancels pending redemption", func(t *testing.T) {
		r := newRedemption(t)

		require.NoError(t, r.Cancel())

		assert.Equal(t, RedemptionStatusCancelled, r.Status)
	})

	t.Run("cancels completed redemption", func(t *testing.T) {
		r := newRedemption(t)
		require.NoError(t, r.Complete())

		require.NoError(t, r.Cancel())

		assert.Equal(t, RedemptionStatusCancelled, r.Status)
	})

	t.Run("cannot complete a cancelled redemption", func(t *testing.T) {
		r := newRedemption(t)
		require.NoError(t, r.Cancel())

		assert.Equal(t, "INVALID_STATE", shared.ErrorCode(r.Complete()))
	})

	t.Run("cannot cancel twice", func(t *testing.T) {
		r := newRedemption(t)
		require.NoError(t, r.Cancel())

		assert.Equal(t, "INVALID_STATE", shared.ErrorCode(r.Cancel()))
	})
}

func TestRedemptionStatusCountsAgainstBalance(t *testing.T) {
	assert.True(t, RedemptionStatusPending.CountsAgainstBalance())
	assert.True(t, RedemptionStatusCompleted.CountsAgainstBalance())
	assert.False(t, RedemptionStatusCancelled.CountsAgainstBalance())
}
