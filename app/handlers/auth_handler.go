package handlers

import (
	"log"

	"github.com/gofiber/fiber/v3"

	"github.com/pulsecrm/pulse/app/dto"
	"github.com/pulsecrm/pulse/app/services"
)

const (
	demoUserName  = "Demo User"
	demoUserEmail = "demo@example.com"
)

// AuthHandlerInterface defines the contract for auth handlers
type AuthHandlerInterface interface {
	DemoLogin(c fiber.Ctx) error
}

// AuthHandler issues demo tokens for trying the API without an identity
// provider.
type AuthHandler struct {
	tokenService services.TokenService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(tokenService services.TokenService) *AuthHandler {
	return &AuthHandler{tokenService: tokenService}
}

// DemoLogin issues a short lived bearer token for the demo identity.
func (h *AuthHandler) DemoLogin(c fiber.Ctx) error {
	token, err := h.tokenService.GenerateDemoToken(demoUserName, demoUserEmail)
	if err != nil {
		log.Println("Demo token generation failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to issue demo token", "TOKEN_ISSUE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Demo token issued", dto.DemoLoginResponse{
		Token: token,
		User: dto.DemoUserDTO{
			Name:  demoUserName,
			Email: demoUserEmail,
		},
	})
}
