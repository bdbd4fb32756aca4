package dto

// SuggestMessagesRequest asks for campaign message variants for a
// marketing objective.
type SuggestMessagesRequest struct {
	Objective string `json:"objective" validate:"required,max=500"`
}

// SuggestMessagesResponse carries generated message suggestions.
type SuggestMessagesResponse struct {
	Suggestions []string `json:"suggestions"`
}

// SummarizeCampaignRequest asks for a human readable delivery summary.
type SummarizeCampaignRequest struct {
	Name         string `json:"name" validate:"required,max=255"`
	AudienceSize *int64 `json:"audienceSize" validate:"required,gte=0"`
	Sent         *int64 `json:"sent" validate:"required,gte=0"`
	Failed       *int64 `json:"failed" validate:"required,gte=0"`
}

// SummarizeCampaignResponse carries the generated summary.
type SummarizeCampaignResponse struct {
	Summary string `json:"summary"`
}
