// Package testing provides test utilities and database setup for testing the campaign service
package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/pulsecrm/pulse/models"
	"github.com/pulsecrm/pulse/utils"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestCustomer creates a customer with the given spend, visit count and
// days since last activity.
func (tf *TestFixtures) CreateTestCustomer(name string, spend float64, visits int, inactiveDays int) (*models.Customer, error) {
	suffix := fmt.Sprintf("%09d", rand.Intn(900000000)+100000000)

	customer := &models.Customer{
		Name:       name,
		Email:      fmt.Sprintf("%s.%s@example.com", name, suffix),
		Phone:      fmt.Sprintf("+1555%s", suffix[:7]),
		Spend:      spend,
		Visits:     visits,
		LastActive: utils.UTCNow().Add(-time.Duration(inactiveDays) * 24 * time.Hour),
	}
	if err := tf.DB.DB.Create(customer).Error; err != nil {
		return nil, fmt.Errorf("failed to create test customer: %w", err)
	}
	return customer, nil
}

// CreateTestCampaign creates a campaign with the given audience filter.
func (tf *TestFixtures) CreateTestCampaign(name string, filter models.AudienceFilter, message string) (*models.Campaign, error) {
	campaign := &models.Campaign{
		Name:           name,
		AudienceFilter: filter,
		Message:        message,
	}
	if err := tf.DB.DB.Create(campaign).Error; err != nil {
		return nil, fmt.Errorf("failed to create test campaign: %w", err)
	}
	return campaign, nil
}

// CreateTestOrder creates an order for the given customer.
func (tf *TestFixtures) CreateTestOrder(customerID uint, amount float64) (*models.Order, error) {
	order := &models.Order{
		CustomerID: customerID,
		Amount:     amount,
		Date:       utils.UTCNow(),
	}
	if err := tf.DB.DB.Create(order).Error; err != nil {
		return nil, fmt.Errorf("failed to create test order: %w", err)
	}
	return order, nil
}

// CreateTestLog creates a communication log row for a campaign recipient.
func (tf *TestFixtures) CreateTestLog(campaignID, customerID uint, status models.DeliveryStatus) (*models.CommunicationLog, error) {
	logEntry := &models.CommunicationLog{
		CampaignID:      campaignID,
		CustomerID:      customerID,
		RenderedMessage: "Hi there, test message",
		Status:          status,
	}
	if err := tf.DB.DB.Create(logEntry).Error; err != nil {
		return nil, fmt.Errorf("failed to create test communication log: %w", err)
	}
	return logEntry, nil
}
