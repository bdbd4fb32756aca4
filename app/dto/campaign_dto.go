package dto

import (
	"time"

	"github.com/pulsecrm/pulse/models"
)

// AudienceRuleDTO is a single segmentation rule. Unknown fields and
// operators are accepted here and ignored downstream.
type AudienceRuleDTO struct {
	Field    string  `json:"field" validate:"required"`
	Operator string  `json:"operator" validate:"required"`
	Value    float64 `json:"value"`
}

// AudienceFilterDTO describes the audience of a campaign.
type AudienceFilterDTO struct {
	Rules     []AudienceRuleDTO `json:"rules" validate:"dive"`
	Condition string            `json:"condition" validate:"required,oneof=AND OR"`
}

// ToModel converts the DTO into the persisted audience filter.
func (f *AudienceFilterDTO) ToModel() models.AudienceFilter {
	rules := make([]models.SegmentRule, 0, len(f.Rules))
	for _, r := range f.Rules {
		rules = append(rules, models.SegmentRule{
			Field:    models.SegmentField(r.Field),
			Operator: models.SegmentOperator(r.Operator),
			Value:    r.Value,
		})
	}
	return models.AudienceFilter{
		Rules:     rules,
		Condition: models.Combinator(f.Condition),
	}
}

// LaunchCampaignRequest creates and immediately dispatches a campaign.
type LaunchCampaignRequest struct {
	Name           string             `json:"name" validate:"required,max=255"`
	AudienceFilter *AudienceFilterDTO `json:"audienceFilter" validate:"required"`
	Message        string             `json:"message" validate:"required"`
}

// LaunchCampaignResponse is returned once all delivery logs exist. It
// never waits for vendor receipts.
type LaunchCampaignResponse struct {
	CampaignID   string `json:"campaignId"`
	AudienceSize int64  `json:"audienceSize"`
}

// CampaignSummaryDTO is one row of the campaign history listing.
type CampaignSummaryDTO struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Message        string                `json:"message"`
	AudienceFilter models.AudienceFilter `json:"audienceFilter"`
	AudienceSize   int64                 `json:"audienceSize"`
	Sent           int64                 `json:"sent"`
	Failed         int64                 `json:"failed"`
	Pending        int64                 `json:"pending"`
	CreatedAt      time.Time             `json:"createdAt"`
}

// ListCampaignsResponse wraps the newest-first campaign history.
type ListCampaignsResponse struct {
	Campaigns []CampaignSummaryDTO `json:"campaigns"`
}

// CampaignReportDTO is computed fresh from the communication log on
// every request.
type CampaignReportDTO struct {
	CampaignID   string `json:"campaignId"`
	Name         string `json:"name"`
	AudienceSize int64  `json:"audienceSize"`
	Sent         int64  `json:"sent"`
	Failed       int64  `json:"failed"`
	Pending      int64  `json:"pending"`
}
