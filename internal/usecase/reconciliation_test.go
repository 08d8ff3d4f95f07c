package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"

	"github.com/fitcal/fitcal-backend/internal/domain/model"
	"github.com/fitcal/fitcal-backend/internal/usecase"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByStripeCustomerID(ctx context.Context, customerID string) (*model.User, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByStripeAccountID(ctx context.Context, accountID string) (*model.User, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByCustomerReference(ctx context.Context, instructorUserID uuid.UUID, customerID string) (*model.User, error) {
	args := m.Called(ctx, instructorUserID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) AddSubscribedMembership(ctx context.Context, userID, membershipID uuid.UUID) error {
	args := m.Called(ctx, userID, membershipID)
	return args.Error(0)
}

func (m *MockUserRepository) RemoveSubscribedMembership(ctx context.Context, userID, membershipID uuid.UUID) error {
	args := m.Called(ctx, userID, membershipID)
	return args.Error(0)
}

func (m *MockUserRepository) RemoveCustomerReferenceByRemoteID(ctx context.Context, customerID string) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) Disconnect(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockMembershipSubscriptionRepository is a mock implementation of MembershipSubscriptionRepository
type MockMembershipSubscriptionRepository struct {
	mock.Mock
}

func (m *MockMembershipSubscriptionRepository) GetByStripeSubscriptionID(ctx context.Context, stripeSubscriptionID string) (*model.MembershipSubscription, error) {
	args := m.Called(ctx, stripeSubscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MembershipSubscription), args.Error(1)
}

func (m *MockMembershipSubscriptionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockMembershipSubscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMembershipRepository is a mock implementation of MembershipRepository
type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Membership, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Membership), args.Error(1)
}

func newTestReconciliation(
	users *MockUserRepository,
	subscriptions *MockMembershipSubscriptionRepository,
	memberships *MockMembershipRepository,
) *usecase.Reconciliation {
	logger := zap.NewNop()
	resolver := usecase.NewIdentityResolver(users, logger)
	return usecase.NewReconciliation(users, subscriptions, memberships, resolver, logger, "")
}

func subscriptionEvent(eventType stripe.EventType, account, subID, status, customerID string) *stripe.Event {
	raw := fmt.Sprintf(`{"id":%q,"status":%q,"customer":%q}`, subID, status, customerID)
	return newEvent("evt_sub", eventType, account, raw)
}

func TestReconciliation_SubscriptionUpdated(t *testing.T) {
	ctx := context.Background()

	record := &model.MembershipSubscription{
		ID:                   uuid.New(),
		UserID:               uuid.New(),
		MembershipID:         uuid.New(),
		StripeSubscriptionID: "sub_1",
		Status:               model.SubscriptionStatusTrialing,
	}

	t.Run("active status adds the membership to the subscribed set", func(t *testing.T) {
		users := new(MockUserRepository)
		subs := new(MockMembershipSubscriptionRepository)
		r := newTestReconciliation(users, subs, new(MockMembershipRepository))

		subs.On("GetByStripeSubscriptionID", ctx, "sub_1").Return(record, nil)
		subs.On("UpdateStatus", ctx, record.ID, "active").Return(nil)
		users.On("AddSubscribedMembership", ctx, record.UserID, record.MembershipID).Return(nil)

		event := subscriptionEvent(stripe.EventTypeCustomerSubscriptionUpdated, "", "sub_1", "active", "cus_1")

		n, err := r.SubscriptionUpdated(ctx, event)

		assert.NoError(t, err)
		assert.NotNil(t, n)
		assert.Empty(t, n.CustomerEmail)
		assert.Empty(t, n.ProviderEmail)
		subs.AssertExpectations(t)
		users.AssertExpectations(t)
	})

	t.Run("past_due still counts as subscribed", func(t *testing.T) {
		users := new(MockUserRepository)
		subs := new(MockMembershipSubscriptionRepository)
		r := newTestReconciliation(users, subs, new(MockMembershipRepository))

		subs.On("GetByStripeSubscriptionID", ctx, "sub_1").Return(record, nil)
		subs.On("UpdateStatus", ctx, record.ID, "past_due").Return(nil)
		users.On("AddSubscribedMembership", ctx, record.UserID, record.MembershipID).Return(nil)

		event := subscriptionEvent(stripe.EventTypeCustomerSubscriptionUpdated, "", "sub_1", "past_due", "cus_1")

		_, err := r.SubscriptionUpdated(ctx, event)

		assert.NoError(t, err)
		users.AssertNotCalled(t, "RemoveSubscribedMembership", mock.Anything, mock.Anything, mock.Anything)
		users.AssertExpectations(t)
	})

	t.Run("canceled status removes the membership from the subscribed set", func(t *testing.T) {
		users := new(MockUserRepository)
		subs := new(MockMembershipSubscriptionRepository)
		r := newTestReconciliation(users, subs, new(MockMembershipRepository))

		subs.On("GetByStripeSubscriptionID", ctx, "sub_1").Return(record, nil)
		subs.On("UpdateStatus", ctx, record.ID, "canceled").Return(nil)
		users.On("RemoveSubscribedMembership", ctx, record.UserID, record.MembershipID).Return(nil)

		event := subscriptionEvent(stripe.EventTypeCustomerSubscriptionUpdated, "", "sub_1", "canceled", "cus_1")

		n, err := r.SubscriptionUpdated(ctx, event)

		assert.NoError(t, err)
		assert.NotNil(t, n)
		users.AssertNotCalled(t, "AddSubscribedMembership", mock.Anything, mock.Anything, mock.Anything)
		subs.AssertExpectations(t)
		users.AssertExpectations(t)
	})

	t.Run("unknown remote subscription is skipped without error", func(t *testing.T) {
		users := new(MockUserRepository)
		subs := new(MockMembershipSubscriptionRepository)
		r := newTestReconciliation(users, subs, new(MockMembershipRepository))

		subs.On("GetByStripeSubscriptionID", ctx, "sub_ghost").Return(nil, nil)

		event := subscriptionEvent(stripe.EventTypeCustomerSubscriptionUpdated, "", "sub_ghost", "active", "cus_1")

		n, err := r.SubscriptionUpdated(ctx, event)

		assert.NoError(t, err)
		assert.Nil(t, n)
		subs.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		subs.AssertExpectations(t)
	})
}

func TestReconciliation_SubscriptionDeleted(t *testing.T) {
	ctx := context.Background()

	record := &model.MembershipSubscription{
		ID:                   uuid.New(),
		UserID:               uuid.New(),
		MembershipID:         uuid.New(),
		StripeSubscriptionID: "sub_1",
		Status:               model.SubscriptionStatusActive,
	}

	t.Run("removes the record and the subscribed-set entry", func(t *testing.T) {
		users := new(MockUserRepository)
		subs := new(MockMembershipSubscriptionRepository)
		memberships := new(MockMembershipRepository)
		r := newTestReconciliation(users, subs, memberships)

		subs.On("GetByStripeSubscriptionID", ctx, "sub_1").Return(record, nil)
		users.On("RemoveSubscribedMembership", ctx, record.UserID, record.MembershipID).Return(nil)
		subs.On("Delete", ctx, record.ID).Return(nil)
		memberships.On("GetByID", ctx, record.MembershipID).
			Return(&model.Membership{ID: record.MembershipID, Name: "Unlimited Yoga"}, nil)
		users.On("GetByStripeCustomerID", ctx, "cus_1").
			Return(&model.User{Email: "member@example.com"}, nil)

		event := subscriptionEvent(stripe.EventTypeCustomerSubscriptionDeleted, "", "sub_1", "canceled", "cus_1")

		n, err := r.SubscriptionDeleted(ctx, event)

		assert.NoError(t, err)
		assert.NotNil(t, n)
		assert.Equal(t, "member@example.com", n.CustomerEmail)
		subs.AssertExpectations(t)
		users.AssertExpectations(t)
	})

	t.Run("unknown remote subscription is skipped without error", func(t *testing.T) {
		users := new(MockUserRepository)
		subs := new(MockMembershipSubscriptionRepository)
		r := newTestReconciliation(users, subs, new(MockMembershipRepository))

		subs.On("GetByStripeSubscriptionID", ctx, "sub_ghost").Return(nil, nil)

		event := subscriptionEvent(stripe.EventTypeCustomerSubscriptionDeleted, "", "sub_ghost", "canceled", "cus_1")

		n, err := r.SubscriptionDeleted(ctx, event)

		assert.NoError(t, err)
		assert.Nil(t, n)
		users.AssertNotCalled(t, "RemoveSubscribedMembership", mock.Anything, mock.Anything, mock.Anything)
		subs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestReconciliation_InvoicePaymentFailed(t *testing.T) {
	ctx := context.Background()

	t.Run("connected-account event resolves both parties independently", func(t *testing.T) {
		users := new(MockUserRepository)
		r := newTestReconciliation(users, new(MockMembershipSubscriptionRepository), new(MockMembershipRepository))

		instructor := &model.User{ID: uuid.New(), Email: "instructor@example.com"}
		customer := &model.User{ID: uuid.New(), Email: "member@example.com"}

		users.On("GetByStripeAccountID", ctx, "acct_1").Return(instructor, nil)
		users.On("GetByCustomerReference", ctx, instructor.ID, "cus_9").Return(customer, nil)

		event := newEvent("evt_inv", stripe.EventTypeInvoicePaymentFailed, "acct_1", `{"id":"in_9","customer":"cus_9"}`)

		n, err := r.InvoicePaymentFailed(ctx, event)

		assert.NoError(t, err)
		assert.NotNil(t, n)
		assert.Equal(t, "instructor@example.com", n.ProviderEmail)
		assert.Equal(t, "member@example.com", n.CustomerEmail)
		assert.Equal(t, "acct_1", n.ConnectedAccountID)
		users.AssertExpectations(t)
	})

	t.Run("unresolved customer still produces a notification", func(t *testing.T) {
		users := new(MockUserRepository)
		r := newTestReconciliation(users, new(MockMembershipSubscriptionRepository), new(MockMembershipRepository))

		users.On("GetByStripeCustomerID", ctx, "cus_ghost").Return(nil, nil)

		event := newEvent("evt_inv", stripe.EventTypeInvoicePaymentFailed, "", `{"id":"in_9","customer":"cus_ghost"}`)

		n, err := r.InvoicePaymentFailed(ctx, event)

		assert.NoError(t, err)
		assert.NotNil(t, n)
		assert.Empty(t, n.CustomerEmail)
		assert.Empty(t, n.ProviderEmail)
	})
}

func TestReconciliation_CustomerDeleted(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the matching customer reference", func(t *testing.T) {
		users := new(MockUserRepository)
		r := newTestReconciliation(users, new(MockMembershipSubscriptionRepository), new(MockMembershipRepository))

		users.On("RemoveCustomerReferenceByRemoteID", ctx, "cus_1").Return(int64(1), nil)

		event := newEvent("evt_cd", stripe.EventTypeCustomerDeleted, "acct_1", `{"id":"cus_1"}`)

		n, err := r.CustomerDeleted(ctx, event)

		assert.NoError(t, err)
		assert.NotNil(t, n)
		users.AssertExpectations(t)
	})

	t.Run("no matching reference means nothing to announce", func(t *testing.T) {
		users := new(MockUserRepository)
		r := newTestReconciliation(users, new(MockMembershipSubscriptionRepository), new(MockMembershipRepository))

		users.On("RemoveCustomerReferenceByRemoteID", ctx, "cus_ghost").Return(int64(0), nil)

		event := newEvent("evt_cd", stripe.EventTypeCustomerDeleted, "acct_1", `{"id":"cus_ghost"}`)

		n, err := r.CustomerDeleted(ctx, event)

		assert.NoError(t, err)
		assert.Nil(t, n)
	})
}

func TestReconciliation_CustomerSourceExpiring(t *testing.T) {
	ctx := context.Background()

	t.Run("notifies only the affected customer", func(t *testing.T) {
		users := new(MockUserRepository)
		r := newTestReconciliation(users, new(MockMembershipSubscriptionRepository), new(MockMembershipRepository))

		users.On("GetByStripeCustomerID", ctx, "cus_1").
			Return(&model.User{Email: "member@example.com"}, nil)

		event := newEvent("evt_exp", stripe.EventTypeCustomerSourceExpiring, "", `{"id":"card_1","customer":"cus_1"}`)

		n, err := r.CustomerSourceExpiring(ctx, event)

		assert.NoError(t, err)
		assert.NotNil(t, n)
		assert.Equal(t, "member@example.com", n.CustomerEmail)
		assert.Empty(t, n.ProviderEmail)
	})

	t.Run("unresolved customer is skipped without error", func(t *testing.T) {
		users := new(MockUserRepository)
		r := newTestReconciliation(users, new(MockMembershipSubscriptionRepository), new(MockMembershipRepository))

		users.On("GetByStripeCustomerID", ctx, "cus_ghost").Return(nil, nil)

		event := newEvent("evt_exp", stripe.EventTypeCustomerSourceExpiring, "", `{"id":"card_1","customer":"cus_ghost"}`)

		n, err := r.CustomerSourceExpiring(ctx, event)

		assert.NoError(t, err)
		assert.Nil(t, n)
	})
}

func TestReconciliation_AccountDeauthorized(t *testing.T) {
	ctx := context.Background()

	t.Run("disconnects the instructor and notifies them", func(t *testing.T) {
		users := new(MockUserRepository)
		r := newTestReconciliation(users, new(MockMembershipSubscriptionRepository), new(MockMembershipRepository))

		instructor := &model.User{ID: uuid.New(), Email: "instructor@example.com", Connected: true}
		users.On("GetByStripeAccountID", ctx, "acct_1").Return(instructor, nil)
		users.On("Disconnect", ctx, instructor.ID).Return(nil)

		event := newEvent("evt_deauth", stripe.EventTypeAccountApplicationDeauthorized, "acct_1", `{"id":"ca_1"}`)

		n, err := r.AccountDeauthorized(ctx, event)

		assert.NoError(t, err)
		assert.NotNil(t, n)
		assert.Equal(t, "instructor@example.com", n.ProviderEmail)
		users.AssertExpectations(t)
	})

	t.Run("unknown account is skipped without error", func(t *testing.T) {
		users := new(MockUserRepository)
		r := newTestReconciliation(users, new(MockMembershipSubscriptionRepository), new(MockMembershipRepository))

		users.On("GetByStripeAccountID", ctx, "acct_ghost").Return(nil, nil)

		event := newEvent("evt_deauth", stripe.EventTypeAccountApplicationDeauthorized, "acct_ghost", `{"id":"ca_1"}`)

		n, err := r.AccountDeauthorized(ctx, event)

		assert.NoError(t, err)
		assert.Nil(t, n)
		users.AssertNotCalled(t, "Disconnect", mock.Anything, mock.Anything)
	})
}

func TestReconciliation_ChargeRefunded(t *testing.T) {
	ctx := context.Background()

	users := new(MockUserRepository)
	r := newTestReconciliation(users, new(MockMembershipSubscriptionRepository), new(MockMembershipRepository))

	users.On("GetByStripeCustomerID", ctx, "cus_1").
		Return(&model.User{Email: "member@example.com"}, nil)

	event := newEvent("evt_ref", stripe.EventTypeChargeRefunded, "", `{"id":"ch_1","customer":"cus_1"}`)

	n, err := r.ChargeRefunded(ctx, event)

	assert.NoError(t, err)
	assert.NotNil(t, n)
	assert.Equal(t, "member@example.com", n.CustomerEmail)
	users.AssertExpectations(t)
}
