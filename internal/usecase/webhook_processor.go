package usecase

import (
	"context"

	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"

	"github.com/fitcal/fitcal-backend/internal/domain/repository"
	"github.com/fitcal/fitcal-backend/internal/metrics"
)

// Reconciler handles one event type. It returns the notification to emit
// after the event is reserved, or nil when nothing should be announced.
type Reconciler func(ctx context.Context, event *stripe.Event) (*Notification, error)

// WebhookProcessor drives a verified event through dispatch, reconciliation,
// idempotency reservation and notification.
//
// The reservation is recorded only after the handler succeeds. A handler
// failure therefore leaves no trace and the provider's redelivery retries the
// event; a concurrent duplicate that loses the reservation race acknowledges
// without notifying. Exactly one delivery of a given event id both mutates
// state and notifies.
type WebhookProcessor struct {
	events      repository.ProcessedEventRepository
	notifier    Notifier
	collector   metrics.Recorder
	handlers    map[stripe.EventType]Reconciler
	logger      *zap.Logger
	environment string
}

func NewWebhookProcessor(
	events repository.ProcessedEventRepository,
	reconciliation *Reconciliation,
	notifier Notifier,
	collector metrics.Recorder,
	logger *zap.Logger,
	environment string,
) *WebhookProcessor {
	p := &WebhookProcessor{
		events:      events,
		notifier:    notifier,
		collector:   collector,
		logger:      logger,
		environment: environment,
	}

	// The fixed table of event types this engine cares about. Anything else
	// is acknowledged and dropped without touching the idempotency store.
	p.handlers = map[stripe.EventType]Reconciler{
		stripe.EventTypeInvoicePaymentSucceeded:        reconciliation.InvoicePaymentSucceeded,
		stripe.EventTypeInvoicePaymentFailed:           reconciliation.InvoicePaymentFailed,
		stripe.EventTypeCustomerSubscriptionCreated:    reconciliation.SubscriptionCreated,
		stripe.EventTypeCustomerSubscriptionUpdated:    reconciliation.SubscriptionUpdated,
		stripe.EventTypeCustomerSubscriptionDeleted:    reconciliation.SubscriptionDeleted,
		stripe.EventTypeCustomerDeleted:                reconciliation.CustomerDeleted,
		stripe.EventTypeCustomerSourceExpiring:         reconciliation.CustomerSourceExpiring,
		stripe.EventTypeAccountApplicationDeauthorized: reconciliation.AccountDeauthorized,
		stripe.EventTypeChargeRefunded:                 reconciliation.ChargeRefunded,
	}

	return p
}

// Process applies one signature-verified event. A nil return means the
// provider should see success; a non-nil return means delivery failed and
// the provider should retry.
func (p *WebhookProcessor) Process(ctx context.Context, event *stripe.Event) error {
	log := p.logger.With(
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("account", event.Account),
	)

	// Test-mode events never touch production state.
	if p.environment == "production" && !event.Livemode {
		log.Info("Skipping test-mode event in production")
		return nil
	}

	handler, ok := p.handlers[event.Type]
	if !ok {
		p.collector.RecordIgnored(string(event.Type))
		log.Debug("Ignoring uninteresting event type")
		return nil
	}

	// Cheap pre-check so redeliveries of completed events skip the handler.
	// The authoritative duplicate decision is the reservation below.
	seen, err := p.events.Exists(ctx, event.ID)
	if err != nil {
		return err
	}
	if seen {
		p.collector.RecordDuplicate(string(event.Type))
		log.Info("Event already processed, acknowledging")
		return nil
	}

	notification, err := handler(ctx, event)
	if err != nil {
		p.collector.RecordHandlerFailure(string(event.Type))
		log.Error("Reconciliation failed", zap.Error(err))
		return err
	}

	admitted, err := p.events.Reserve(ctx, event.ID, string(event.Type))
	if err != nil {
		return err
	}
	if !admitted {
		// A concurrent duplicate completed first; its reservation stands and
		// it owns the notification.
		p.collector.RecordDuplicate(string(event.Type))
		log.Info("Lost reservation race to a duplicate delivery, acknowledging")
		return nil
	}

	p.collector.RecordProcessed(string(event.Type))

	if notification != nil {
		if err := p.notifier.Notify(ctx, notification); err != nil {
			p.collector.RecordNotifyFailure()
			log.Warn("Notification delivery failed", zap.Error(err))
		}
	}

	return nil
}
