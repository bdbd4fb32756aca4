package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/pulsecrm/pulse/app/dto"
	businessflow "github.com/pulsecrm/pulse/business_flow"
)

// OrderHandlerInterface defines the contract for order handlers
type OrderHandlerInterface interface {
	CreateOrder(c fiber.Ctx) error
	ListOrders(c fiber.Ctx) error
}

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderFlow businessflow.OrderFlow
	validator *validator.Validate
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderFlow businessflow.OrderFlow) *OrderHandler {
	return &OrderHandler{
		orderFlow: orderFlow,
		validator: validator.New(),
	}
}

// CreateOrder records an order and updates the customer's activity profile.
func (h *OrderHandler) CreateOrder(c fiber.Ctx) error {
	var req dto.CreateOrderRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, err := validateRequest(c, h.validator, &req); !ok {
		return err
	}

	result, err := h.orderFlow.CreateOrder(createRequestContext(c, "/api/v1/orders"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsCustomerNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Customer not found", "CUSTOMER_NOT_FOUND", nil)
		}
		if businessflow.IsValidationError(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Order validation failed", "ORDER_VALIDATION_FAILED", err.Error())
		}

		log.Println("Order creation failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Order creation failed", "ORDER_CREATION_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, "Order created", result)
}

// ListOrders returns recent orders.
func (h *OrderHandler) ListOrders(c fiber.Ctx) error {
	result, err := h.orderFlow.ListOrders(createRequestContext(c, "/api/v1/orders"), clientMetadata(c))
	if err != nil {
		log.Println("Order listing failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list orders", "ORDER_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Orders retrieved", result)
}
