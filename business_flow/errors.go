// Package businessflow contains the core business logic and use cases for CRM workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Validation errors (user-correctable, surfaced as 4xx)
	ErrCampaignNameRequired    = errors.New("campaign name is required")
	ErrCampaignMessageRequired = errors.New("campaign message is required")
	ErrAudienceFilterRequired  = errors.New("audience filter is required")
	ErrInvalidCombinator       = errors.New("audience filter condition must be AND or OR")
	ErrCustomerNameRequired    = errors.New("customer name is required")
	ErrCustomerEmailRequired   = errors.New("customer email is required")
	ErrEmailAlreadyExists      = errors.New("customer with this email already exists")
	ErrOrderAmountInvalid      = errors.New("order amount must be positive")
	ErrObjectiveRequired       = errors.New("campaign objective is required")
	ErrInvalidReceiptStatus    = errors.New("receipt status must be SENT or FAILED")

	// Not-found errors (referenced entity absent, surfaced as 404)
	ErrCustomerNotFound = errors.New("customer not found")
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrLogNotFound      = errors.New("communication log not found")

	// Storage errors (persistence layer failure, surfaced as 500)
	ErrStorageFailure = errors.New("storage failure")

	// Upstream errors (vendor or text-generation collaborator unreachable;
	// handled by documented fallback behavior, never the caller's failure)
	ErrUpstreamUnavailable = errors.New("upstream collaborator unavailable")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrCampaignNameRequired) ||
		errors.Is(err, ErrCampaignMessageRequired) ||
		errors.Is(err, ErrAudienceFilterRequired) ||
		errors.Is(err, ErrInvalidCombinator) ||
		errors.Is(err, ErrCustomerNameRequired) ||
		errors.Is(err, ErrCustomerEmailRequired) ||
		errors.Is(err, ErrEmailAlreadyExists) ||
		errors.Is(err, ErrOrderAmountInvalid) ||
		errors.Is(err, ErrObjectiveRequired) ||
		errors.Is(err, ErrInvalidReceiptStatus)
}

func IsCustomerNotFound(err error) bool {
	return errors.Is(err, ErrCustomerNotFound)
}

func IsCampaignNotFound(err error) bool {
	return errors.Is(err, ErrCampaignNotFound)
}

func IsLogNotFound(err error) bool {
	return errors.Is(err, ErrLogNotFound)
}

func IsNotFoundError(err error) bool {
	return IsCustomerNotFound(err) || IsCampaignNotFound(err) || IsLogNotFound(err)
}

func IsInvalidReceiptStatus(err error) bool {
	return errors.Is(err, ErrInvalidReceiptStatus)
}

func IsEmailAlreadyExists(err error) bool {
	return errors.Is(err, ErrEmailAlreadyExists)
}

func IsStorageFailure(err error) bool {
	return errors.Is(err, ErrStorageFailure)
}

func IsUpstreamUnavailable(err error) bool {
	return errors.Is(err, ErrUpstreamUnavailable)
}
