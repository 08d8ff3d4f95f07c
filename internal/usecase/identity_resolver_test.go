package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/fitcal/fitcal-backend/internal/domain/model"
	"github.com/fitcal/fitcal-backend/internal/usecase"
)

func TestIdentityResolver_Customer(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("routes platform events through the platform customer id", func(t *testing.T) {
		users := new(MockUserRepository)
		resolver := usecase.NewIdentityResolver(users, logger)

		expected := &model.User{ID: uuid.New(), Email: "member@example.com"}
		users.On("GetByStripeCustomerID", ctx, "cus_1").Return(expected, nil)

		user, err := resolver.Customer(ctx, "", "cus_1")

		assert.NoError(t, err)
		assert.Equal(t, expected, user)
		users.AssertNotCalled(t, "GetByStripeAccountID", mock.Anything, mock.Anything)
	})

	t.Run("routes connected-account events through the customer reference", func(t *testing.T) {
		users := new(MockUserRepository)
		resolver := usecase.NewIdentityResolver(users, logger)

		instructor := &model.User{ID: uuid.New(), Email: "instructor@example.com"}
		customer := &model.User{ID: uuid.New(), Email: "member@example.com"}
		users.On("GetByStripeAccountID", ctx, "acct_1").Return(instructor, nil)
		users.On("GetByCustomerReference", ctx, instructor.ID, "cus_1").Return(customer, nil)

		user, err := resolver.Customer(ctx, "acct_1", "cus_1")

		assert.NoError(t, err)
		assert.Equal(t, customer, user)
		users.AssertNotCalled(t, "GetByStripeCustomerID", mock.Anything, mock.Anything)
		users.AssertExpectations(t)
	})

	t.Run("missing instructor short-circuits the connected lookup", func(t *testing.T) {
		users := new(MockUserRepository)
		resolver := usecase.NewIdentityResolver(users, logger)

		users.On("GetByStripeAccountID", ctx, "acct_ghost").Return(nil, nil)

		user, err := resolver.Customer(ctx, "acct_ghost", "cus_1")

		assert.NoError(t, err)
		assert.Nil(t, user)
		users.AssertNotCalled(t, "GetByCustomerReference", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty customer id resolves to nobody without a lookup", func(t *testing.T) {
		users := new(MockUserRepository)
		resolver := usecase.NewIdentityResolver(users, logger)

		user, err := resolver.Customer(ctx, "", "")

		assert.NoError(t, err)
		assert.Nil(t, user)
		users.AssertNotCalled(t, "GetByStripeCustomerID", mock.Anything, mock.Anything)
	})
}

func TestIdentityResolver_InstructorByAccount(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("finds the instructor owning the account", func(t *testing.T) {
		users := new(MockUserRepository)
		resolver := usecase.NewIdentityResolver(users, logger)

		instructor := &model.User{ID: uuid.New(), Email: "instructor@example.com"}
		users.On("GetByStripeAccountID", ctx, "acct_1").Return(instructor, nil)

		user, err := resolver.InstructorByAccount(ctx, "acct_1")

		assert.NoError(t, err)
		assert.Equal(t, instructor, user)
	})

	t.Run("empty account id resolves to nobody", func(t *testing.T) {
		users := new(MockUserRepository)
		resolver := usecase.NewIdentityResolver(users, logger)

		user, err := resolver.InstructorByAccount(ctx, "")

		assert.NoError(t, err)
		assert.Nil(t, user)
		users.AssertNotCalled(t, "GetByStripeAccountID", mock.Anything, mock.Anything)
	})
}
