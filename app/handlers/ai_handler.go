package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/pulsecrm/pulse/app/dto"
	businessflow "github.com/pulsecrm/pulse/business_flow"
)

// AIHandlerInterface defines the contract for AI assistance handlers
type AIHandlerInterface interface {
	SuggestMessages(c fiber.Ctx) error
	SummarizeCampaign(c fiber.Ctx) error
}

// AIHandler handles AI assistance HTTP requests
type AIHandler struct {
	aiFlow    businessflow.AIFlow
	validator *validator.Validate
}

// NewAIHandler creates a new AI handler
func NewAIHandler(aiFlow businessflow.AIFlow) *AIHandler {
	return &AIHandler{
		aiFlow:    aiFlow,
		validator: validator.New(),
	}
}

// SuggestMessages returns campaign message variants for an objective.
func (h *AIHandler) SuggestMessages(c fiber.Ctx) error {
	var req dto.SuggestMessagesRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, err := validateRequest(c, h.validator, &req); !ok {
		return err
	}

	result, err := h.aiFlow.SuggestMessages(createRequestContext(c, "/api/v1/ai/suggest-messages"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsValidationError(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Objective is required", "AI_VALIDATION_FAILED", err.Error())
		}

		log.Println("Message suggestion failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to suggest messages", "AI_SUGGEST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Suggestions generated", result)
}

// SummarizeCampaign returns a human readable delivery summary.
func (h *AIHandler) SummarizeCampaign(c fiber.Ctx) error {
	var req dto.SummarizeCampaignRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, err := validateRequest(c, h.validator, &req); !ok {
		return err
	}

	result, err := h.aiFlow.SummarizeCampaign(createRequestContext(c, "/api/v1/ai/summarize"), &req, clientMetadata(c))
	if err != nil {
		log.Println("Campaign summary failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to summarize campaign", "AI_SUMMARY_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Summary generated", result)
}
