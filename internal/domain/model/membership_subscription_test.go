package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fitcal/fitcal-backend/internal/domain/model"
)

func TestIsSubscribed(t *testing.T) {
	tests := []struct {
		status     string
		subscribed bool
	}{
		{model.SubscriptionStatusTrialing, true},
		{model.SubscriptionStatusActive, true},
		{model.SubscriptionStatusPastDue, true},
		{model.SubscriptionStatusCanceled, false},
		{model.SubscriptionStatusUnpaid, false},
		{"incomplete", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.subscribed, model.IsSubscribed(tt.status))
		})
	}
}
