package businessflow

import (
	"context"
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pulsecrm/pulse/app/dto"
	"github.com/pulsecrm/pulse/models"
	"github.com/pulsecrm/pulse/repository"
)

var (
	receiptsAppliedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "receipts_applied_total",
		Help: "Delivery receipts that moved a log out of PENDING",
	}, []string{"status"})

	receiptDuplicatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "receipt_duplicates_total",
		Help: "Receipts repeating an already recorded terminal status",
	})

	receiptConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "receipt_conflicts_total",
		Help: "Receipts contradicting an already recorded terminal status",
	})
)

// ReceiptFlow reconciles asynchronous vendor delivery receipts against the
// communication log.
type ReceiptFlow interface {
	ApplyReceipt(ctx context.Context, req *dto.VendorReceiptRequest, metadata *ClientMetadata) (*dto.VendorReceiptResponse, error)
}

// ReceiptFlowImpl implements the receipt reconciliation flow
type ReceiptFlowImpl struct {
	logRepo repository.CommunicationLogRepository
	logger  *log.Logger
}

// NewReceiptFlow creates a new receipt flow instance
func NewReceiptFlow(logRepo repository.CommunicationLogRepository, logger *log.Logger) ReceiptFlow {
	return &ReceiptFlowImpl{logRepo: logRepo, logger: logger}
}

// ApplyReceipt moves a PENDING log to SENT or FAILED. The first terminal
// write wins: duplicates of the recorded status are no-ops and conflicting
// receipts are logged and discarded, so the stored status never changes
// once terminal.
func (s *ReceiptFlowImpl) ApplyReceipt(ctx context.Context, req *dto.VendorReceiptRequest, metadata *ClientMetadata) (*dto.VendorReceiptResponse, error) {
	status := models.DeliveryStatus(req.Status)
	if !status.Valid() || !status.Terminal() {
		return nil, NewBusinessError("RECEIPT_STATUS_INVALID", "Receipt status must be SENT or FAILED", ErrInvalidReceiptStatus)
	}

	logEntry, err := s.logRepo.ByUUID(ctx, req.LogID)
	if err != nil {
		return nil, NewBusinessError("RECEIPT_LOOKUP_FAILED", "Failed to look up communication log", ErrStorageFailure)
	}
	if logEntry == nil {
		return nil, NewBusinessError("LOG_NOT_FOUND", "Communication log not found", ErrLogNotFound)
	}

	if logEntry.Status.Terminal() {
		s.recordLateReceipt(logEntry, status, metadata)
		return receiptResponse(logEntry), nil
	}

	updated, err := s.logRepo.ApplyReceipt(ctx, logEntry.ID, status, req.VendorResponse)
	if err != nil {
		return nil, NewBusinessError("RECEIPT_APPLY_FAILED", "Failed to apply receipt", ErrStorageFailure)
	}

	current, err := s.logRepo.ByID(ctx, logEntry.ID)
	if err != nil || current == nil {
		return nil, NewBusinessError("RECEIPT_LOOKUP_FAILED", "Failed to reload communication log", ErrStorageFailure)
	}

	if updated {
		receiptsAppliedTotal.WithLabelValues(status.String()).Inc()
	} else {
		// Another receipt won the race between our read and the update.
		s.recordLateReceipt(current, status, metadata)
	}

	return receiptResponse(current), nil
}

// recordLateReceipt classifies a receipt that arrived after the log had
// already reached a terminal status.
func (s *ReceiptFlowImpl) recordLateReceipt(logEntry *models.CommunicationLog, incoming models.DeliveryStatus, metadata *ClientMetadata) {
	if logEntry.Status == incoming {
		receiptDuplicatesTotal.Inc()
		return
	}
	receiptConflictsTotal.Inc()
	s.logger.Printf("conflicting receipt discarded log=%s recorded=%s incoming=%s request_id=%s",
		logEntry.UUID, logEntry.Status, incoming, metadata.RequestID)
}

func receiptResponse(logEntry *models.CommunicationLog) *dto.VendorReceiptResponse {
	return &dto.VendorReceiptResponse{
		Log: dto.CommunicationLogDTO{
			ID:              logEntry.UUID.String(),
			CampaignID:      logEntry.CampaignID,
			CustomerID:      logEntry.CustomerID,
			RenderedMessage: logEntry.RenderedMessage,
			Status:          logEntry.Status.String(),
			VendorResponse:  logEntry.VendorResponse,
			UpdatedAt:       logEntry.UpdatedAt,
		},
	}
}
