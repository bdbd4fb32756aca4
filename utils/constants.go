package utils

import (
	"time"
)

// Token constants
const (
	// DemoTokenTTL is the default time-to-live for demo tokens
	DemoTokenTTL = time.Hour
)

// Listing constants
const (
	// DefaultListLimit caps the newest-first listings served by the API
	DefaultListLimit = 100

	// TopCustomerLimit is how many top spenders the stats endpoint ranks
	TopCustomerLimit = 5
)
