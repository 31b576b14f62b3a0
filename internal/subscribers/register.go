package subscribers

import "topup/internal/events"

// Register wires the audit trail, the customer notifications and the event
// counters onto bus.
func Register(bus SubscriberContract, audit *AuditEvent, notify *NotificationEvent, metrics *MetricsEvent) {
	for _, name := range events.Names() {
		bus.Subscribe(name, audit.HandleAny)
		bus.Subscribe(name, metrics.HandleAny)
	}

	bus.Subscribe((events.OrderCommitted{}).Name(), notify.HandleOrderCommitted)
	bus.Subscribe((events.ItemFailed{}).Name(), notify.HandleItemFailed)
	bus.Subscribe((events.ItemCompensated{}).Name(), notify.HandleItemCompensated)
	bus.Subscribe((events.BatchRejected{}).Name(), notify.HandleBatchRejected)
}
