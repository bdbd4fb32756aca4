package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/pulsecrm/pulse/app/dto"
	businessflow "github.com/pulsecrm/pulse/business_flow"
)

// CustomerHandlerInterface defines the contract for customer handlers
type CustomerHandlerInterface interface {
	CreateCustomer(c fiber.Ctx) error
	ListCustomers(c fiber.Ctx) error
	QueryCustomers(c fiber.Ctx) error
}

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	customerFlow businessflow.CustomerFlow
	validator    *validator.Validate
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerFlow businessflow.CustomerFlow) *CustomerHandler {
	return &CustomerHandler{
		customerFlow: customerFlow,
		validator:    validator.New(),
	}
}

// CreateCustomer registers a new customer.
func (h *CustomerHandler) CreateCustomer(c fiber.Ctx) error {
	var req dto.CreateCustomerRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, err := validateRequest(c, h.validator, &req); !ok {
		return err
	}

	result, err := h.customerFlow.CreateCustomer(createRequestContext(c, "/api/v1/customers"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsEmailAlreadyExists(err) {
			return errorResponse(c, fiber.StatusConflict, "A customer with this email already exists", "EMAIL_ALREADY_EXISTS", nil)
		}
		if businessflow.IsValidationError(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Customer validation failed", "CUSTOMER_VALIDATION_FAILED", err.Error())
		}

		log.Println("Customer creation failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Customer creation failed", "CUSTOMER_CREATION_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, "Customer created", result)
}

// ListCustomers returns the newest customers.
func (h *CustomerHandler) ListCustomers(c fiber.Ctx) error {
	result, err := h.customerFlow.ListCustomers(createRequestContext(c, "/api/v1/customers"), clientMetadata(c))
	if err != nil {
		log.Println("Customer listing failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list customers", "CUSTOMER_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Customers retrieved", result)
}

// QueryCustomers previews the audience matched by a rule set.
func (h *CustomerHandler) QueryCustomers(c fiber.Ctx) error {
	var req dto.QueryCustomersRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, err := validateRequest(c, h.validator, &req); !ok {
		return err
	}

	result, err := h.customerFlow.QueryCustomers(createRequestContext(c, "/api/v1/customers/query"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsValidationError(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Audience validation failed", "AUDIENCE_VALIDATION_FAILED", err.Error())
		}

		log.Println("Audience query failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to evaluate audience", "AUDIENCE_QUERY_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Audience evaluated", result)
}
