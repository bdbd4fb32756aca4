package businessflow

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsecrm/pulse/app/dto"
	"github.com/pulsecrm/pulse/models"
)

func newReceiptFlowFixture(t *testing.T) (*fakeLogRepo, ReceiptFlow) {
	t.Helper()
	logs := &fakeLogRepo{}
	return logs, NewReceiptFlow(logs, log.New(io.Discard, "", 0))
}

func seedPendingLog(t *testing.T, logs *fakeLogRepo) *models.CommunicationLog {
	t.Helper()
	logEntry := &models.CommunicationLog{
		CampaignID:      1,
		CustomerID:      1,
		RenderedMessage: "Hi Mohsen, hello",
		Status:          models.DeliveryStatusPending,
	}
	require.NoError(t, logs.Save(context.Background(), logEntry))
	return logEntry
}

func TestApplyReceiptMovesPendingToTerminal(t *testing.T) {
	tests := []struct {
		name   string
		status string
	}{
		{"sent", "SENT"},
		{"failed", "FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs, flow := newReceiptFlowFixture(t)
			logEntry := seedPendingLog(t, logs)

			resp, err := flow.ApplyReceipt(context.Background(), &dto.VendorReceiptRequest{
				LogID:          logEntry.UUID.String(),
				Status:         tt.status,
				VendorResponse: "MockVendorResponse",
			}, NewClientMetadata("127.0.0.1", "test"))

			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.Log.Status)
			require.NotNil(t, resp.Log.VendorResponse)
			assert.Equal(t, "MockVendorResponse", *resp.Log.VendorResponse)
			assert.Equal(t, models.DeliveryStatus(tt.status), logEntry.Status)
		})
	}
}

func TestApplyReceiptDuplicateIsNoOp(t *testing.T) {
	logs, flow := newReceiptFlowFixture(t)
	logEntry := seedPendingLog(t, logs)
	metadata := NewClientMetadata("127.0.0.1", "test")

	first, err := flow.ApplyReceipt(context.Background(), &dto.VendorReceiptRequest{
		LogID:          logEntry.UUID.String(),
		Status:         "SENT",
		VendorResponse: "ok",
	}, metadata)
	require.NoError(t, err)

	second, err := flow.ApplyReceipt(context.Background(), &dto.VendorReceiptRequest{
		LogID:          logEntry.UUID.String(),
		Status:         "SENT",
		VendorResponse: "ok again",
	}, metadata)
	require.NoError(t, err)

	assert.Equal(t, first.Log.Status, second.Log.Status)
	require.NotNil(t, second.Log.VendorResponse)
	// The replay never overwrites what the first receipt recorded.
	assert.Equal(t, "ok", *second.Log.VendorResponse)
}

func TestApplyReceiptConflictKeepsFirstWrite(t *testing.T) {
	logs, flow := newReceiptFlowFixture(t)
	logEntry := seedPendingLog(t, logs)
	metadata := NewClientMetadata("127.0.0.1", "test")

	_, err := flow.ApplyReceipt(context.Background(), &dto.VendorReceiptRequest{
		LogID:          logEntry.UUID.String(),
		Status:         "FAILED",
		VendorResponse: "timeout",
	}, metadata)
	require.NoError(t, err)

	resp, err := flow.ApplyReceipt(context.Background(), &dto.VendorReceiptRequest{
		LogID:          logEntry.UUID.String(),
		Status:         "SENT",
		VendorResponse: "delivered after all",
	}, metadata)

	// A conflicting receipt is discarded, not an error.
	require.NoError(t, err)
	assert.Equal(t, "FAILED", resp.Log.Status)
	assert.Equal(t, models.DeliveryStatusFailed, logEntry.Status)
	require.NotNil(t, logEntry.VendorResponse)
	assert.Equal(t, "timeout", *logEntry.VendorResponse)
}

func TestApplyReceiptRejectsNonTerminalStatus(t *testing.T) {
	for _, status := range []string{"PENDING", "DELIVERED", "", "sent"} {
		t.Run(status, func(t *testing.T) {
			logs, flow := newReceiptFlowFixture(t)
			logEntry := seedPendingLog(t, logs)

			resp, err := flow.ApplyReceipt(context.Background(), &dto.VendorReceiptRequest{
				LogID:  logEntry.UUID.String(),
				Status: status,
			}, NewClientMetadata("127.0.0.1", "test"))

			require.Error(t, err)
			assert.Nil(t, resp)
			assert.True(t, IsInvalidReceiptStatus(err))
			assert.Equal(t, models.DeliveryStatusPending, logEntry.Status)
		})
	}
}

func TestApplyReceiptUnknownLog(t *testing.T) {
	_, flow := newReceiptFlowFixture(t)

	resp, err := flow.ApplyReceipt(context.Background(), &dto.VendorReceiptRequest{
		LogID:  "3e8e4a0e-0f0f-4bbd-b0d7-111111111111",
		Status: "SENT",
	}, NewClientMetadata("127.0.0.1", "test"))

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, IsLogNotFound(err))
}
