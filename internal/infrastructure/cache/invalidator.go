package cache

import (
	"sync"

	"go.uber.org/zap"

	"github.com/storeledger/backend/internal/infrastructure/notify"
)

// BusInvalidator drives a QueryCache from the change notification bus.
// Each table change resolves to its invalidation keys, and every cache
// entry tagged with one of them is dropped.
type BusInvalidator struct {
	cache   *QueryCache
	logger  *zap.Logger
	cancels []func()
	wg      sync.WaitGroup
}

// NewBusInvalidator creates an invalidator targeting the given cache
func NewBusInvalidator(cache *QueryCache, logger *zap.Logger) *BusInvalidator {
	return &BusInvalidator{cache: cache, logger: logger}
}

// Start subscribes to the given tables and begins invalidating
func (i *BusInvalidator) Start(bus *notify.Bus, tables ...string) {
	for _, table := range tables {
		ch, cancel := bus.Subscribe(table)
		i.cancels = append(i.cancels, cancel)
		i.wg.Add(1)
		go i.drain(ch)
	}
	i.logger.Info("cache invalidator started", zap.Int("tables", len(tables)))
}

// Stop tears down all subscriptions and waits for the drain loops
func (i *BusInvalidator) Stop() {
	for _, cancel := range i.cancels {
		cancel()
	}
	i.wg.Wait()
}

func (i *BusInvalidator) drain(ch <-chan notify.Change) {
	defer i.wg.Done()
	for change := range ch {
		for _, key := range notify.ResolveKeys(change) {
			i.cache.Invalidate(key)
		}
		i.logger.Debug("processed change",
			zap.String("table", change.Table),
			zap.String("operation", string(change.Operation)),
		)
	}
}
