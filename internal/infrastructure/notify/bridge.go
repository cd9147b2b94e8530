package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/storeledger/backend/internal/domain/customer"
	"github.com/storeledger/backend/internal/domain/loyalty"
	"github.com/storeledger/backend/internal/domain/sales"
	"github.com/storeledger/backend/internal/domain/shared"
)

// EventBridge translates domain events published on the in-process
// event bus into table changes on the notification bus. It keeps the
// domain layer unaware of cache invalidation: aggregates emit events,
// the bridge decides which logical table they touched.
type EventBridge struct {
	bus    *Bus
	logger *zap.Logger
}

// NewEventBridge creates a bridge publishing onto the given bus
func NewEventBridge(bus *Bus, logger *zap.Logger) *EventBridge {
	return &EventBridge{bus: bus, logger: logger}
}

// EventTypes lists the domain events the bridge translates
func (b *EventBridge) EventTypes() []string {
	return []string{
		customer.EventTypeCustomerCreated,
		customer.EventTypeCustomerUpdated,
		customer.EventTypeCustomerLedgerReconciled,
		customer.EventTypeCustomerLevelChanged,
		customer.EventTypeCustomerDeleted,
		sales.EventTypeInvoiceCreated,
		sales.EventTypeInvoiceUpdated,
		sales.EventTypeInvoiceStatusChanged,
		sales.EventTypeInvoiceDeleted,
		sales.EventTypePaymentRecorded,
		sales.EventTypePaymentUpdated,
		sales.EventTypePaymentDeleted,
		sales.EventTypeReturnCreated,
		sales.EventTypeReturnStatusChanged,
		sales.EventTypeReturnDeleted,
		loyalty.EventTypeRedemptionCreated,
		loyalty.EventTypeRedemptionStatusChanged,
		loyalty.EventTypeRedemptionDeleted,
		loyalty.EventTypePointsAdjusted,
		loyalty.EventTypePointsEntryDeleted,
	}
}

// Handle maps one domain event to a table change and publishes it
func (b *EventBridge) Handle(ctx context.Context, event shared.DomainEvent) error {
	change, ok := b.changeFor(event)
	if !ok {
		b.logger.Debug("no table mapping for event, ignoring",
			zap.String("event_type", event.EventType()),
		)
		return nil
	}
	change.OccurredAt = event.OccurredAt()
	b.bus.Publish(change)
	return nil
}

func (b *EventBridge) changeFor(event shared.DomainEvent) (Change, bool) {
	switch e := event.(type) {
	case *customer.CustomerCreatedEvent:
		return Change{Table: TableCustomers, Operation: OpInsert, Record: Record{ID: e.CustomerID, CustomerID: e.CustomerID}}, true
	case *customer.CustomerUpdatedEvent:
		return Change{Table: TableCustomers, Operation: OpUpdate, Record: Record{ID: e.CustomerID, CustomerID: e.CustomerID}}, true
	case *customer.CustomerLedgerReconciledEvent:
		return Change{Table: TableCustomers, Operation: OpUpdate, Record: Record{ID: e.CustomerID, CustomerID: e.CustomerID}}, true
	case *customer.CustomerLevelChangedEvent:
		return Change{Table: TableCustomers, Operation: OpUpdate, Record: Record{ID: e.CustomerID, CustomerID: e.CustomerID}}, true
	case *customer.CustomerDeletedEvent:
		return Change{Table: TableCustomers, Operation: OpDelete, Record: Record{ID: e.CustomerID, CustomerID: e.CustomerID}}, true

	case *sales.InvoiceCreatedEvent:
		return Change{Table: TableInvoices, Operation: OpInsert, Record: Record{ID: e.InvoiceID, CustomerID: e.CustomerID}}, true
	case *sales.InvoiceUpdatedEvent:
		return Change{Table: TableInvoices, Operation: OpUpdate, Record: Record{ID: e.InvoiceID, CustomerID: e.CustomerID}}, true
	case *sales.InvoiceStatusChangedEvent:
		return Change{Table: TableInvoices, Operation: OpUpdate, Record: Record{ID: e.InvoiceID, CustomerID: e.CustomerID}}, true
	case *sales.InvoiceDeletedEvent:
		return Change{Table: TableInvoices, Operation: OpDelete, Record: Record{ID: e.InvoiceID, CustomerID: e.CustomerID}}, true

	case *sales.PaymentRecordedEvent:
		return Change{Table: TablePayments, Operation: OpInsert, Record: Record{ID: e.PaymentID, CustomerID: e.CustomerID, InvoiceID: e.InvoiceID}}, true
	case *sales.PaymentUpdatedEvent:
		return Change{Table: TablePayments, Operation: OpUpdate, Record: Record{ID: e.PaymentID, CustomerID: e.CustomerID, InvoiceID: e.InvoiceID}}, true
	case *sales.PaymentDeletedEvent:
		return Change{Table: TablePayments, Operation: OpDelete, Record: Record{ID: e.PaymentID, CustomerID: e.CustomerID, InvoiceID: e.InvoiceID}}, true

	case *sales.ReturnCreatedEvent:
		return Change{Table: TableReturns, Operation: OpInsert, Record: Record{ID: e.ReturnID, CustomerID: e.CustomerID}}, true
	case *sales.ReturnStatusChangedEvent:
		return Change{Table: TableReturns, Operation: OpUpdate, Record: Record{ID: e.ReturnID, CustomerID: e.CustomerID}}, true
	case *sales.ReturnDeletedEvent:
		return Change{Table: TableReturns, Operation: OpDelete, Record: Record{ID: e.ReturnID, CustomerID: e.CustomerID}}, true

	case *loyalty.RedemptionCreatedEvent:
		return Change{Table: TableRedemptions, Operation: OpInsert, Record: Record{ID: e.RedemptionID, CustomerID: e.CustomerID}}, true
	case *loyalty.RedemptionStatusChangedEvent:
		return Change{Table: TableRedemptions, Operation: OpUpdate, Record: Record{ID: e.RedemptionID, CustomerID: e.CustomerID}}, true
	case *loyalty.RedemptionDeletedEvent:
		return Change{Table: TableRedemptions, Operation: OpDelete, Record: Record{ID: e.RedemptionID, CustomerID: e.CustomerID}}, true

	case *loyalty.PointsAdjustedEvent:
		return Change{Table: TablePointsHistory, Operation: OpInsert, Record: Record{ID: e.EntryID, CustomerID: e.CustomerID}}, true
	case *loyalty.PointsEntryDeletedEvent:
		return Change{Table: TablePointsHistory, Operation: OpDelete, Record: Record{ID: e.EntryID, CustomerID: e.CustomerID}}, true
	}
	return Change{}, false
}

var _ shared.EventHandler = (*EventBridge)(nil)
