package handlers

import (
	"log"

	"github.com/gofiber/fiber/v3"

	businessflow "github.com/pulsecrm/pulse/business_flow"
)

// StatsHandlerInterface defines the contract for stats handlers
type StatsHandlerInterface interface {
	GlobalStats(c fiber.Ctx) error
}

// StatsHandler handles aggregate reporting requests
type StatsHandler struct {
	statsFlow businessflow.StatsFlow
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsFlow businessflow.StatsFlow) *StatsHandler {
	return &StatsHandler{statsFlow: statsFlow}
}

// GlobalStats returns order and customer aggregates, computed per request.
func (h *StatsHandler) GlobalStats(c fiber.Ctx) error {
	result, err := h.statsFlow.GlobalStats(createRequestContext(c, "/api/v1/stats"), clientMetadata(c))
	if err != nil {
		log.Println("Stats aggregation failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to aggregate stats", "STATS_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Stats retrieved", result)
}
