package dto

import "time"

// VendorSendRequest is the payload the dispatcher posts to the
// simulated vendor.
type VendorSendRequest struct {
	LogID   string `json:"logId" validate:"required,uuid"`
	Message string `json:"message" validate:"required"`
}

// VendorSendResponse acknowledges acceptance. Delivery outcome arrives
// later on the receipt endpoint.
type VendorSendResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// VendorReceiptRequest is the asynchronous delivery receipt callback.
type VendorReceiptRequest struct {
	LogID          string `json:"logId" validate:"required,uuid"`
	Status         string `json:"status" validate:"required,oneof=SENT FAILED"`
	VendorResponse string `json:"vendorResponse"`
}

// CommunicationLogDTO is the delivery record for a single customer.
type CommunicationLogDTO struct {
	ID              string    `json:"id"`
	CampaignID      uint      `json:"campaignId"`
	CustomerID      uint      `json:"customerId"`
	RenderedMessage string    `json:"renderedMessage"`
	Status          string    `json:"status"`
	VendorResponse  *string   `json:"vendorResponse,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// VendorReceiptResponse returns the authoritative log after applying
// a receipt.
type VendorReceiptResponse struct {
	Log CommunicationLogDTO `json:"log"`
}
