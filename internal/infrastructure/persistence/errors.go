package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/storeledger/backend/internal/domain/shared"
)

// fetchError classifies a driver-level read failure as a retryable
// FETCH_FAILED domain error. Callers map gorm.ErrRecordNotFound before
// reaching here; context cancellation is passed through untouched so the
// retry loop does not re-attempt a dead request.
func fetchError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", shared.ErrFetchFailed, err)
}
