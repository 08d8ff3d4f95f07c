package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"

	"github.com/fitcal/fitcal-backend/internal/domain/model"
	"github.com/fitcal/fitcal-backend/internal/domain/repository"
)

const defaultDashboardBaseURL = "https://dashboard.stripe.com"

// Reconciliation implements the per-event-type handlers that mutate local
// subscription and customer-mapping state to match the remote event. Each
// handler returns the notification to emit once the event is reserved, or
// nil when there is nothing to announce. A failed identity resolution is
// never an error: the handler logs, skips the mutation and reports success
// so the provider does not retry events that will never resolve.
type Reconciliation struct {
	users            repository.UserRepository
	subscriptions    repository.MembershipSubscriptionRepository
	memberships      repository.MembershipRepository
	resolver         *IdentityResolver
	logger           *zap.Logger
	dashboardBaseURL string
}

func NewReconciliation(
	users repository.UserRepository,
	subscriptions repository.MembershipSubscriptionRepository,
	memberships repository.MembershipRepository,
	resolver *IdentityResolver,
	logger *zap.Logger,
	dashboardBaseURL string,
) *Reconciliation {
	if dashboardBaseURL == "" {
		dashboardBaseURL = defaultDashboardBaseURL
	}
	return &Reconciliation{
		users:            users,
		subscriptions:    subscriptions,
		memberships:      memberships,
		resolver:         resolver,
		logger:           logger,
		dashboardBaseURL: dashboardBaseURL,
	}
}

// newNotification seeds a notification with the event's identity and a
// dashboard link; handlers fill in recipients.
func (r *Reconciliation) newNotification(event *stripe.Event) *Notification {
	n := &Notification{
		EventID:            event.ID,
		EventType:          string(event.Type),
		ConnectedAccountID: event.Account,
		Summary:            fmt.Sprintf("%s - %s/events/%s", event.Type, r.dashboardBaseURL, event.ID),
	}
	if event.Data != nil {
		n.Payload = event.Data.Raw
	}
	return n
}

// resolveParties fills the provider and customer recipients independently.
// The provider side only exists for connected-account events.
func (r *Reconciliation) resolveParties(ctx context.Context, event *stripe.Event, customerID string, n *Notification) error {
	if event.Account != "" {
		provider, err := r.resolver.InstructorByAccount(ctx, event.Account)
		if err != nil {
			return err
		}
		if provider != nil {
			n.ProviderEmail = provider.Email
		} else {
			r.logger.Info("Provider user not found for event",
				zap.String("event_id", event.ID),
				zap.String("account", event.Account))
		}
	}

	customer, err := r.resolver.Customer(ctx, event.Account, customerID)
	if err != nil {
		return err
	}
	if customer != nil {
		n.CustomerEmail = customer.Email
	} else {
		r.logger.Info("Customer user not found for event",
			zap.String("event_id", event.ID),
			zap.String("customer", customerID))
	}

	return nil
}

// SubscriptionCreated notifies both parties. The local record is created by
// the purchase flow, not the webhook, so no state changes here.
func (r *Reconciliation) SubscriptionCreated(ctx context.Context, event *stripe.Event) (*Notification, error) {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return nil, fmt.Errorf("failed to decode subscription: %w", err)
	}

	n := r.newNotification(event)
	if err := r.resolveParties(ctx, event, customerID(sub.Customer), n); err != nil {
		return nil, err
	}
	return n, nil
}

// SubscriptionUpdated mirrors the reported status onto the local record and
// keeps the owner's subscribed-membership set in line with it.
func (r *Reconciliation) SubscriptionUpdated(ctx context.Context, event *stripe.Event) (*Notification, error) {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return nil, fmt.Errorf("failed to decode subscription: %w", err)
	}

	record, err := r.subscriptions.GetByStripeSubscriptionID(ctx, sub.ID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		r.logger.Info("No local subscription for remote subscription, skipping",
			zap.String("event_id", event.ID),
			zap.String("stripe_subscription_id", sub.ID))
		return nil, nil
	}

	status := string(sub.Status)
	if err := r.subscriptions.UpdateStatus(ctx, record.ID, status); err != nil {
		return nil, err
	}

	if model.IsSubscribed(status) {
		err = r.users.AddSubscribedMembership(ctx, record.UserID, record.MembershipID)
	} else {
		err = r.users.RemoveSubscribedMembership(ctx, record.UserID, record.MembershipID)
	}
	if err != nil {
		return nil, err
	}

	r.logger.Info("Subscription status synced",
		zap.String("stripe_subscription_id", sub.ID),
		zap.String("status", status),
		zap.Bool("subscribed", model.IsSubscribed(status)))

	return r.newNotification(event), nil
}

// SubscriptionDeleted removes the local subscription record and the
// membership from the owner's subscribed set, then notifies both parties.
func (r *Reconciliation) SubscriptionDeleted(ctx context.Context, event *stripe.Event) (*Notification, error) {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return nil, fmt.Errorf("failed to decode subscription: %w", err)
	}

	record, err := r.subscriptions.GetByStripeSubscriptionID(ctx, sub.ID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		r.logger.Info("No local subscription for deleted remote subscription, skipping",
			zap.String("event_id", event.ID),
			zap.String("stripe_subscription_id", sub.ID))
		return nil, nil
	}

	// Removal from the subscribed set is unconditional on delete.
	if err := r.users.RemoveSubscribedMembership(ctx, record.UserID, record.MembershipID); err != nil {
		return nil, err
	}
	if err := r.subscriptions.Delete(ctx, record.ID); err != nil {
		return nil, err
	}

	if membership, err := r.memberships.GetByID(ctx, record.MembershipID); err == nil && membership != nil {
		r.logger.Info("Membership subscription removed",
			zap.String("membership", membership.Name),
			zap.String("user_id", record.UserID.String()))
	}

	n := r.newNotification(event)
	if err := r.resolveParties(ctx, event, customerID(sub.Customer), n); err != nil {
		return nil, err
	}
	return n, nil
}

// InvoicePaymentSucceeded notifies both parties; no state mutation.
func (r *Reconciliation) InvoicePaymentSucceeded(ctx context.Context, event *stripe.Event) (*Notification, error) {
	return r.invoiceNotification(ctx, event)
}

// InvoicePaymentFailed notifies both parties; no state mutation. The status
// change that may follow arrives as its own subscription.updated event.
func (r *Reconciliation) InvoicePaymentFailed(ctx context.Context, event *stripe.Event) (*Notification, error) {
	return r.invoiceNotification(ctx, event)
}

func (r *Reconciliation) invoiceNotification(ctx context.Context, event *stripe.Event) (*Notification, error) {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return nil, fmt.Errorf("failed to decode invoice: %w", err)
	}

	n := r.newNotification(event)
	if err := r.resolveParties(ctx, event, customerID(invoice.Customer), n); err != nil {
		return nil, err
	}
	return n, nil
}

// CustomerDeleted removes the customer reference matching the remote
// customer id from whichever user holds it.
func (r *Reconciliation) CustomerDeleted(ctx context.Context, event *stripe.Event) (*Notification, error) {
	var customer stripe.Customer
	if err := json.Unmarshal(event.Data.Raw, &customer); err != nil {
		return nil, fmt.Errorf("failed to decode customer: %w", err)
	}

	removed, err := r.users.RemoveCustomerReferenceByRemoteID(ctx, customer.ID)
	if err != nil {
		return nil, err
	}
	if removed == 0 {
		r.logger.Info("No customer reference for deleted remote customer",
			zap.String("event_id", event.ID),
			zap.String("customer", customer.ID))
		return nil, nil
	}

	return r.newNotification(event), nil
}

// CustomerSourceExpiring notifies only the affected customer; no mutation.
func (r *Reconciliation) CustomerSourceExpiring(ctx context.Context, event *stripe.Event) (*Notification, error) {
	var card stripe.Card
	if err := json.Unmarshal(event.Data.Raw, &card); err != nil {
		return nil, fmt.Errorf("failed to decode card: %w", err)
	}

	user, err := r.resolver.Customer(ctx, event.Account, customerID(card.Customer))
	if err != nil {
		return nil, err
	}
	if user == nil {
		r.logger.Info("No user for expiring payment source, skipping",
			zap.String("event_id", event.ID))
		return nil, nil
	}

	n := r.newNotification(event)
	n.CustomerEmail = user.Email
	return n, nil
}

// AccountDeauthorized clears the instructor's connected-account state and
// notifies them. Customer data and subscriptions are untouched; Stripe emits
// separate events for anything it cancels as a consequence.
func (r *Reconciliation) AccountDeauthorized(ctx context.Context, event *stripe.Event) (*Notification, error) {
	instructor, err := r.resolver.InstructorByAccount(ctx, event.Account)
	if err != nil {
		return nil, err
	}
	if instructor == nil {
		r.logger.Info("No instructor for deauthorized account, skipping",
			zap.String("event_id", event.ID),
			zap.String("account", event.Account))
		return nil, nil
	}

	if err := r.users.Disconnect(ctx, instructor.ID); err != nil {
		return nil, err
	}

	r.logger.Info("Instructor disconnected",
		zap.String("user_id", instructor.ID.String()),
		zap.String("account", event.Account))

	n := r.newNotification(event)
	n.ProviderEmail = instructor.Email
	return n, nil
}

// ChargeRefunded notifies both parties; refund accounting stays on the
// Stripe side.
func (r *Reconciliation) ChargeRefunded(ctx context.Context, event *stripe.Event) (*Notification, error) {
	var charge stripe.Charge
	if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
		return nil, fmt.Errorf("failed to decode charge: %w", err)
	}

	n := r.newNotification(event)
	if err := r.resolveParties(ctx, event, customerID(charge.Customer), n); err != nil {
		return nil, err
	}
	return n, nil
}

// customerID extracts the id from an expandable customer field, which
// unmarshals to a stub with only the ID set when not expanded.
func customerID(customer *stripe.Customer) string {
	if customer == nil {
		return ""
	}
	return customer.ID
}
