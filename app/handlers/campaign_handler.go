package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/pulsecrm/pulse/app/dto"
	businessflow "github.com/pulsecrm/pulse/business_flow"
)

// CampaignHandlerInterface defines the contract for campaign handlers
type CampaignHandlerInterface interface {
	LaunchCampaign(c fiber.Ctx) error
	ListCampaigns(c fiber.Ctx) error
	GetCampaignReport(c fiber.Ctx) error
}

// CampaignHandler handles campaign-related HTTP requests
type CampaignHandler struct {
	campaignFlow businessflow.CampaignFlow
	statsFlow    businessflow.StatsFlow
	validator    *validator.Validate
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaignFlow businessflow.CampaignFlow, statsFlow businessflow.StatsFlow) *CampaignHandler {
	return &CampaignHandler{
		campaignFlow: campaignFlow,
		statsFlow:    statsFlow,
		validator:    validator.New(),
	}
}

// LaunchCampaign creates a campaign and dispatches it to its audience. The
// response is written once every delivery log exists, before any receipt.
func (h *CampaignHandler) LaunchCampaign(c fiber.Ctx) error {
	var req dto.LaunchCampaignRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, err := validateRequest(c, h.validator, &req); !ok {
		return err
	}

	result, err := h.campaignFlow.LaunchCampaign(createRequestContext(c, "/api/v1/campaigns"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsValidationError(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Campaign validation failed", "CAMPAIGN_VALIDATION_FAILED", err.Error())
		}

		log.Println("Campaign launch failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Campaign launch failed", "CAMPAIGN_LAUNCH_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, "Campaign dispatched", result)
}

// ListCampaigns returns campaign history with delivery counts.
func (h *CampaignHandler) ListCampaigns(c fiber.Ctx) error {
	result, err := h.campaignFlow.ListCampaigns(createRequestContext(c, "/api/v1/campaigns"), clientMetadata(c))
	if err != nil {
		log.Println("Campaign listing failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list campaigns", "CAMPAIGN_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Campaigns retrieved", result)
}

// GetCampaignReport returns fresh delivery counts for one campaign.
func (h *CampaignHandler) GetCampaignReport(c fiber.Ctx) error {
	campaignID := c.Params("id")
	if campaignID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Campaign ID is required", "INVALID_REQUEST", nil)
	}

	result, err := h.statsFlow.CampaignReport(createRequestContext(c, "/api/v1/campaigns/:id/report"), campaignID, clientMetadata(c))
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}

		log.Println("Campaign report failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to build campaign report", "REPORT_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Campaign report retrieved", result)
}
