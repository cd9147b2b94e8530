package notify

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultBroadcastChannel is the Redis pub/sub channel invalidation
// keys are republished on
const DefaultBroadcastChannel = "storeledger:invalidations"

// invalidationMessage is the wire form of one resolved invalidation
type invalidationMessage struct {
	Table     string   `json:"table"`
	Operation string   `json:"operation"`
	Keys      []string `json:"keys"`
	Timestamp int64    `json:"timestamp"`
}

// RedisBroadcaster subscribes to every covered table and republishes
// the resolved invalidation keys over Redis pub/sub, so cache consumers
// in other processes see the same invalidations as in-process ones.
type RedisBroadcaster struct {
	client  *redis.Client
	channel string
	bus     *Bus
	logger  *zap.Logger
	cancels []func()
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// RedisBroadcasterOption is a functional option for the broadcaster
type RedisBroadcasterOption func(*RedisBroadcaster)

// WithBroadcastChannel overrides the pub/sub channel name
func WithBroadcastChannel(channel string) RedisBroadcasterOption {
	return func(rb *RedisBroadcaster) {
		rb.channel = channel
	}
}

// NewRedisBroadcaster creates a broadcaster over the given bus. The
// caller retains ownership of the Redis client.
func NewRedisBroadcaster(client *redis.Client, bus *Bus, logger *zap.Logger, opts ...RedisBroadcasterOption) *RedisBroadcaster {
	rb := &RedisBroadcaster{
		client:  client,
		channel: DefaultBroadcastChannel,
		bus:     bus,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(rb)
	}
	return rb
}

// Start subscribes to all covered tables and begins republishing.
// Calling Start twice is a no-op.
func (rb *RedisBroadcaster) Start(ctx context.Context) {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	if rb.running {
		return
	}
	rb.running = true

	tables := []string{
		TableCustomers, TableInvoices, TablePayments, TableRedemptions,
		TablePointsHistory, TableReturns, TableProducts, TableRedemptionItems,
	}
	for _, table := range tables {
		ch, cancel := rb.bus.Subscribe(table)
		rb.cancels = append(rb.cancels, cancel)
		rb.wg.Add(1)
		go rb.pump(ctx, ch)
	}
}

// Stop detaches all subscriptions and waits for in-flight publishes
func (rb *RedisBroadcaster) Stop() {
	rb.mu.Lock()
	cancels := rb.cancels
	rb.cancels = nil
	rb.running = false
	rb.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	rb.wg.Wait()
}

func (rb *RedisBroadcaster) pump(ctx context.Context, ch <-chan Change) {
	defer rb.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-ch:
			if !ok {
				return
			}
			rb.broadcast(ctx, change)
		}
	}
}

func (rb *RedisBroadcaster) broadcast(ctx context.Context, change Change) {
	keys := ResolveKeys(change)
	msg := invalidationMessage{
		Table:     change.Table,
		Operation: string(change.Operation),
		Keys:      make([]string, 0, len(keys)),
		Timestamp: change.OccurredAt.UnixNano(),
	}
	for _, key := range keys {
		msg.Keys = append(msg.Keys, key.String())
	}

	data, err := json.Marshal(msg)
	if err != nil {
		rb.logger.Error("failed to marshal invalidation message",
			zap.String("table", change.Table),
			zap.Error(err))
		return
	}

	if err := rb.client.Publish(ctx, rb.channel, data).Err(); err != nil {
		rb.logger.Error("failed to publish invalidation message",
			zap.String("channel", rb.channel),
			zap.String("table", change.Table),
			zap.Error(err))
	}
}
