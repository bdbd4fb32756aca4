package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeliveryStatusValid(t *testing.T) {
	for _, status := range []DeliveryStatus{DeliveryStatusPending, DeliveryStatusSent, DeliveryStatusFailed} {
		assert.True(t, status.Valid(), status)
	}
	for _, status := range []DeliveryStatus{"", "DELIVERED", "sent", "pending"} {
		assert.False(t, status.Valid(), status)
	}
}

func TestDeliveryStatusTerminal(t *testing.T) {
	assert.False(t, DeliveryStatusPending.Terminal())
	assert.True(t, DeliveryStatusSent.Terminal())
	assert.True(t, DeliveryStatusFailed.Terminal())
	assert.False(t, DeliveryStatus("DELIVERED").Terminal())
}

func TestDeliveryStatusString(t *testing.T) {
	assert.Equal(t, "PENDING", DeliveryStatusPending.String())
	assert.Equal(t, "SENT", DeliveryStatusSent.String())
	assert.Equal(t, "FAILED", DeliveryStatusFailed.String())
}
