package dto

import "time"

// CreateCustomerRequest registers a new customer.
type CreateCustomerRequest struct {
	Name       string     `json:"name" validate:"required,max=255"`
	Email      string     `json:"email" validate:"required,email,max=255"`
	Phone      string     `json:"phone" validate:"omitempty,max=32"`
	Spend      float64    `json:"spend" validate:"omitempty,gte=0"`
	Visits     int        `json:"visits" validate:"omitempty,gte=0"`
	LastActive *time.Time `json:"lastActive,omitempty"`
}

// CustomerDTO is the customer representation returned by the API.
type CustomerDTO struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Spend      float64   `json:"spend"`
	Visits     int       `json:"visits"`
	LastActive time.Time `json:"lastActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ListCustomersResponse wraps the newest-first customer listing.
type ListCustomersResponse struct {
	Count     int64         `json:"count"`
	Customers []CustomerDTO `json:"customers"`
}

// QueryCustomersRequest previews the audience a rule set would match.
type QueryCustomersRequest struct {
	Rules     []AudienceRuleDTO `json:"rules" validate:"dive"`
	Condition string            `json:"condition" validate:"required,oneof=AND OR"`
}

// QueryCustomersResponse returns the matched audience at evaluation
// time.
type QueryCustomersResponse struct {
	Count     int64         `json:"count"`
	Customers []CustomerDTO `json:"customers"`
}
