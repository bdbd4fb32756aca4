package dto

import "time"

// CreateOrderRequest records an order and updates the customer's
// spend, visit count and last activity.
type CreateOrderRequest struct {
	CustomerID uint       `json:"customerId" validate:"required"`
	Amount     float64    `json:"amount" validate:"required,gt=0"`
	Date       *time.Time `json:"date,omitempty"`
}

// OrderDTO is the order representation returned by the API.
type OrderDTO struct {
	ID            uint      `json:"id"`
	CustomerID    uint      `json:"customerId"`
	CustomerName  string    `json:"customerName,omitempty"`
	CustomerEmail string    `json:"customerEmail,omitempty"`
	Amount        float64   `json:"amount"`
	Date          time.Time `json:"date"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ListOrdersResponse wraps the newest-first order listing.
type ListOrdersResponse struct {
	Count  int64      `json:"count"`
	Orders []OrderDTO `json:"orders"`
}
