// Package businessflow contains the core business logic and use cases for campaign workflows
package businessflow

import (
	"context"
	"fmt"
	"log"

	"github.com/pulsecrm/pulse/app/dispatch"
	"github.com/pulsecrm/pulse/app/dto"
	"github.com/pulsecrm/pulse/app/services"
	"github.com/pulsecrm/pulse/models"
	"github.com/pulsecrm/pulse/repository"
	"github.com/pulsecrm/pulse/segment"
	"github.com/pulsecrm/pulse/utils"
)

// CampaignFlow handles campaign creation and dispatch
type CampaignFlow interface {
	LaunchCampaign(ctx context.Context, req *dto.LaunchCampaignRequest, metadata *ClientMetadata) (*dto.LaunchCampaignResponse, error)
	ListCampaigns(ctx context.Context, metadata *ClientMetadata) (*dto.ListCampaignsResponse, error)
}

// CampaignFlowImpl implements the campaign business flow
type CampaignFlowImpl struct {
	campaignRepo repository.CampaignRepository
	customerRepo repository.CustomerRepository
	logRepo      repository.CommunicationLogRepository
	vendor       services.VendorClient
	pool         *dispatch.Pool
	logger       *log.Logger
}

// NewCampaignFlow creates a new campaign flow instance
func NewCampaignFlow(
	campaignRepo repository.CampaignRepository,
	customerRepo repository.CustomerRepository,
	logRepo repository.CommunicationLogRepository,
	vendor services.VendorClient,
	pool *dispatch.Pool,
	logger *log.Logger,
) CampaignFlow {
	return &CampaignFlowImpl{
		campaignRepo: campaignRepo,
		customerRepo: customerRepo,
		logRepo:      logRepo,
		vendor:       vendor,
		pool:         pool,
		logger:       logger,
	}
}

// LaunchCampaign validates the request, snapshots the audience, persists the
// campaign and fans out one delivery log per matched customer. It returns as
// soon as every log row exists; vendor sends and receipts happen later.
func (s *CampaignFlowImpl) LaunchCampaign(ctx context.Context, req *dto.LaunchCampaignRequest, metadata *ClientMetadata) (*dto.LaunchCampaignResponse, error) {
	if err := s.validateLaunchRequest(req); err != nil {
		return nil, NewBusinessError("CAMPAIGN_VALIDATION_FAILED", "Campaign validation failed", err)
	}

	filter := req.AudienceFilter.ToModel()
	predicate := segment.Compile(filter, utils.UTCNow())
	for _, rule := range predicate.Ignored {
		s.logger.Printf("ignoring unsupported segment rule field=%q operator=%q request_id=%s",
			rule.Field, rule.Operator, metadata.RequestID)
	}

	audience, err := s.customerRepo.ByAudience(ctx, predicate)
	if err != nil {
		return nil, NewBusinessError("AUDIENCE_SNAPSHOT_FAILED", "Failed to evaluate campaign audience", ErrStorageFailure)
	}

	campaign := &models.Campaign{
		Name:           req.Name,
		AudienceFilter: filter,
		Message:        req.Message,
	}
	if err := s.campaignRepo.Save(ctx, campaign); err != nil {
		// No logs exist yet, so a failed save leaves nothing behind.
		return nil, NewBusinessError("CAMPAIGN_PERSIST_FAILED", "Failed to persist campaign", ErrStorageFailure)
	}

	group := s.pool.Group()
	for _, customer := range audience {
		customer := customer
		group.Go("create-log", func() {
			s.dispatchToCustomer(ctx, campaign, customer, req.Message)
		})
	}
	group.Wait()

	return &dto.LaunchCampaignResponse{
		CampaignID:   campaign.UUID.String(),
		AudienceSize: int64(len(audience)),
	}, nil
}

// dispatchToCustomer writes the PENDING log for one recipient and hands the
// rendered message to the vendor. A failed log write is logged and skipped;
// the rest of the audience keeps going.
func (s *CampaignFlowImpl) dispatchToCustomer(ctx context.Context, campaign *models.Campaign, customer *models.Customer, message string) {
	rendered := fmt.Sprintf("Hi %s, %s", customer.Name, message)
	logEntry := &models.CommunicationLog{
		CampaignID:      campaign.ID,
		CustomerID:      customer.ID,
		RenderedMessage: rendered,
		Status:          models.DeliveryStatusPending,
	}
	if err := s.logRepo.Save(ctx, logEntry); err != nil {
		s.logger.Printf("failed to create communication log campaign=%s customer=%d: %v",
			campaign.UUID, customer.ID, err)
		return
	}

	logID := logEntry.UUID.String()
	s.pool.Submit("vendor-send", func() {
		// The request is already answered by the time this runs, so the
		// send carries its own context.
		if err := s.vendor.Send(context.Background(), logID, rendered); err != nil {
			s.logger.Printf("vendor send failed log=%s: %v", logID, err)
		}
	})
}

// ListCampaigns returns campaign history, newest first, with delivery counts
// computed from the communication log.
func (s *CampaignFlowImpl) ListCampaigns(ctx context.Context, metadata *ClientMetadata) (*dto.ListCampaignsResponse, error) {
	campaigns, err := s.campaignRepo.ListNewest(ctx, utils.DefaultListLimit, 0)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LIST_FAILED", "Failed to list campaigns", ErrStorageFailure)
	}

	summaries := make([]dto.CampaignSummaryDTO, 0, len(campaigns))
	for _, campaign := range campaigns {
		counts, err := s.logRepo.CountByStatus(ctx, campaign.ID)
		if err != nil {
			return nil, NewBusinessError("CAMPAIGN_LIST_FAILED", "Failed to count campaign deliveries", ErrStorageFailure)
		}
		sent := counts[models.DeliveryStatusSent]
		failed := counts[models.DeliveryStatusFailed]
		pending := counts[models.DeliveryStatusPending]
		summaries = append(summaries, dto.CampaignSummaryDTO{
			ID:             campaign.UUID.String(),
			Name:           campaign.Name,
			Message:        campaign.Message,
			AudienceFilter: campaign.AudienceFilter,
			AudienceSize:   sent + failed + pending,
			Sent:           sent,
			Failed:         failed,
			Pending:        pending,
			CreatedAt:      campaign.CreatedAt,
		})
	}

	return &dto.ListCampaignsResponse{Campaigns: summaries}, nil
}

func (s *CampaignFlowImpl) validateLaunchRequest(req *dto.LaunchCampaignRequest) error {
	if req.Name == "" {
		return ErrCampaignNameRequired
	}
	if req.Message == "" {
		return ErrCampaignMessageRequired
	}
	if req.AudienceFilter == nil {
		return ErrAudienceFilterRequired
	}
	if !models.Combinator(req.AudienceFilter.Condition).Valid() {
		return ErrInvalidCombinator
	}
	return nil
}
