package businessflow

import (
	"context"

	"github.com/pulsecrm/pulse/app/dto"
	"github.com/pulsecrm/pulse/models"
	"github.com/pulsecrm/pulse/repository"
	"github.com/pulsecrm/pulse/utils"
)

// StatsFlow computes reporting aggregates. Nothing here is cached; every
// call reads the database so counts reflect receipts applied moments ago.
type StatsFlow interface {
	CampaignReport(ctx context.Context, campaignUUID string, metadata *ClientMetadata) (*dto.CampaignReportDTO, error)
	GlobalStats(ctx context.Context, metadata *ClientMetadata) (*dto.GlobalStatsResponse, error)
}

// StatsFlowImpl implements the stats flow
type StatsFlowImpl struct {
	campaignRepo repository.CampaignRepository
	customerRepo repository.CustomerRepository
	orderRepo    repository.OrderRepository
	logRepo      repository.CommunicationLogRepository
}

// NewStatsFlow creates a new stats flow instance
func NewStatsFlow(
	campaignRepo repository.CampaignRepository,
	customerRepo repository.CustomerRepository,
	orderRepo repository.OrderRepository,
	logRepo repository.CommunicationLogRepository,
) StatsFlow {
	return &StatsFlowImpl{
		campaignRepo: campaignRepo,
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
		logRepo:      logRepo,
	}
}

// CampaignReport counts the campaign's communication logs by status. The
// audience size is the number of logs, so sent + failed + pending always
// adds up to it.
func (s *StatsFlowImpl) CampaignReport(ctx context.Context, campaignUUID string, metadata *ClientMetadata) (*dto.CampaignReportDTO, error) {
	campaign, err := s.campaignRepo.ByUUID(ctx, campaignUUID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to look up campaign", ErrStorageFailure)
	}
	if campaign == nil {
		return nil, NewBusinessError("CAMPAIGN_NOT_FOUND", "Campaign not found", ErrCampaignNotFound)
	}

	counts, err := s.logRepo.CountByStatus(ctx, campaign.ID)
	if err != nil {
		return nil, NewBusinessError("REPORT_FAILED", "Failed to count campaign deliveries", ErrStorageFailure)
	}

	sent := counts[models.DeliveryStatusSent]
	failed := counts[models.DeliveryStatusFailed]
	pending := counts[models.DeliveryStatusPending]

	return &dto.CampaignReportDTO{
		CampaignID:   campaign.UUID.String(),
		Name:         campaign.Name,
		AudienceSize: sent + failed + pending,
		Sent:         sent,
		Failed:       failed,
		Pending:      pending,
	}, nil
}

// GlobalStats aggregates order totals and the top spenders.
func (s *StatsFlowImpl) GlobalStats(ctx context.Context, metadata *ClientMetadata) (*dto.GlobalStatsResponse, error) {
	count, revenue, err := s.orderRepo.Totals(ctx)
	if err != nil {
		return nil, NewBusinessError("STATS_FAILED", "Failed to aggregate orders", ErrStorageFailure)
	}

	top, err := s.customerRepo.TopBySpend(ctx, utils.TopCustomerLimit)
	if err != nil {
		return nil, NewBusinessError("STATS_FAILED", "Failed to rank customers", ErrStorageFailure)
	}

	resp := &dto.GlobalStatsResponse{
		TotalOrders:  count,
		TotalRevenue: revenue,
		TopCustomers: make([]dto.TopCustomerDTO, 0, len(top)),
	}
	if count > 0 {
		resp.AvgOrderValue = revenue / float64(count)
	}
	for _, customer := range top {
		resp.TopCustomers = append(resp.TopCustomers, dto.TopCustomerDTO{
			Name:  customer.Name,
			Email: customer.Email,
			Spend: customer.Spend,
		})
	}
	if len(resp.TopCustomers) > 0 {
		resp.TopCustomer = &resp.TopCustomers[0]
	}

	return resp, nil
}
