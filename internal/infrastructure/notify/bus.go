package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// defaultBufferSize is the per-subscription channel depth
const defaultBufferSize = 64

type subscription struct {
	table string
	ch    chan Change
	once  sync.Once
}

// shutdown closes the channel exactly once, whether the subscriber's
// cancel or Bus.Close gets there first.
func (s *subscription) shutdown() {
	s.once.Do(func() { close(s.ch) })
}

// Bus fans table changes out to subscribers, one channel per
// (consumer, table) pair. Delivery is non-blocking: a consumer that
// stops draining its channel loses changes rather than stalling the
// publisher. That is acceptable because consumers treat invalidation
// as idempotent and can always fall back to whole-table invalidation.
type Bus struct {
	mu         sync.RWMutex
	subs       map[string][]*subscription
	bufferSize int
	logger     *zap.Logger
	closed     bool
}

// BusOption is a functional option for configuring the Bus
type BusOption func(*Bus)

// WithBufferSize sets the per-subscription channel depth
func WithBufferSize(n int) BusOption {
	return func(b *Bus) {
		if n > 0 {
			b.bufferSize = n
		}
	}
}

// NewBus creates a new change notification bus
func NewBus(logger *zap.Logger, opts ...BusOption) *Bus {
	b := &Bus{
		subs:       make(map[string][]*subscription),
		bufferSize: defaultBufferSize,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe opens a channel receiving every change on the given table.
// The returned cancel function tears the subscription down and closes
// the channel; it is safe to call more than once.
func (b *Bus) Subscribe(table string) (<-chan Change, func()) {
	sub := &subscription{
		table: table,
		ch:    make(chan Change, b.bufferSize),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		sub.shutdown()
		return sub.ch, func() {}
	}
	b.subs[table] = append(b.subs[table], sub)
	b.mu.Unlock()

	cancel := func() {
		b.remove(sub)
		sub.shutdown()
	}
	return sub.ch, cancel
}

// Publish delivers a change to every subscriber of its table. Changes
// to tables nobody watches are dropped silently; a full subscriber
// channel drops the change with a warning.
func (b *Bus) Publish(change Change) {
	if change.OccurredAt.IsZero() {
		change.OccurredAt = time.Now()
	}

	// The read lock is held across the sends so a concurrent cancel
	// cannot close a channel mid-delivery. Sends never block.
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs[change.Table] {
		select {
		case sub.ch <- change:
		default:
			b.logger.Warn("subscriber channel full, dropping change",
				zap.String("table", change.Table),
				zap.String("operation", string(change.Operation)),
			)
		}
	}
}

// Close tears down every subscription. Publish becomes a no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, subs := range b.subs {
		for _, sub := range subs {
			sub.shutdown()
		}
	}
	b.subs = make(map[string][]*subscription)
}

func (b *Bus) remove(target *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	subs := b.subs[target.table]
	for i, sub := range subs {
		if sub == target {
			b.subs[target.table] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subs[target.table]) == 0 {
		delete(b.subs, target.table)
	}
}
