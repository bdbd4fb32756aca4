package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/pulsecrm/pulse/app/dto"
	"github.com/pulsecrm/pulse/app/services"
	businessflow "github.com/pulsecrm/pulse/business_flow"
)

// VendorHandlerInterface defines the contract for the simulated vendor
// endpoints
type VendorHandlerInterface interface {
	Send(c fiber.Ctx) error
	Receipt(c fiber.Ctx) error
}

// VendorHandler exposes the simulated delivery vendor and its receipt
// callback endpoint.
type VendorHandler struct {
	vendor      *services.SimulatedVendor
	receiptFlow businessflow.ReceiptFlow
	validator   *validator.Validate
}

// NewVendorHandler creates a new vendor handler
func NewVendorHandler(vendor *services.SimulatedVendor, receiptFlow businessflow.ReceiptFlow) *VendorHandler {
	return &VendorHandler{
		vendor:      vendor,
		receiptFlow: receiptFlow,
		validator:   validator.New(),
	}
}

// Send accepts a message on behalf of the vendor. The delivery outcome is
// decided here but reported later through the receipt callback.
func (h *VendorHandler) Send(c fiber.Ctx) error {
	var req dto.VendorSendRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, err := validateRequest(c, h.validator, &req); !ok {
		return err
	}

	h.vendor.Accept(req.LogID, req.Message)

	return c.Status(fiber.StatusOK).JSON(dto.VendorSendResponse{
		Message: "Vendor accepted message",
		Status:  "PROCESSING",
	})
}

// Receipt applies an asynchronous delivery receipt to the communication log.
func (h *VendorHandler) Receipt(c fiber.Ctx) error {
	var req dto.VendorReceiptRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, err := validateRequest(c, h.validator, &req); !ok {
		return err
	}

	result, err := h.receiptFlow.ApplyReceipt(createRequestContext(c, "/api/v1/vendor/receipt"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsLogNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Communication log not found", "LOG_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidReceiptStatus(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Receipt status must be SENT or FAILED", "RECEIPT_STATUS_INVALID", nil)
		}

		log.Println("Receipt processing failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Receipt processing failed", "RECEIPT_APPLY_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Receipt processed", result)
}
