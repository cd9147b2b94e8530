package ledger

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AsyncReconciler runs reconciliations in background goroutines so a
// mutation request does not wait for the recompute. Errors are logged,
// never returned to the triggering caller; the next trigger or a manual
// run covers the gap, since every run is a full recompute.
type AsyncReconciler struct {
	inner  Reconciler
	logger *zap.Logger
	wg     sync.WaitGroup
}

// NewAsyncReconciler wraps a Reconciler with fire-and-forget dispatch
func NewAsyncReconciler(inner Reconciler, logger *zap.Logger) *AsyncReconciler {
	return &AsyncReconciler{inner: inner, logger: logger}
}

// Reconcile schedules a background reconciliation for the customer.
// The run is detached from the caller's cancellation so an aborted
// request cannot leave a half-finished trigger unprocessed.
func (a *AsyncReconciler) Reconcile(ctx context.Context, customerID uuid.UUID) error {
	detached := context.WithoutCancel(ctx)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.inner.Reconcile(detached, customerID); err != nil {
			a.logger.Error("background reconciliation failed",
				zap.String("customer_id", customerID.String()),
				zap.Error(err),
			)
		}
	}()
	return nil
}

// Wait blocks until all in-flight reconciliations finish. Used during
// shutdown and in tests.
func (a *AsyncReconciler) Wait() {
	a.wg.Wait()
}

var _ Reconciler = (*AsyncReconciler)(nil)
