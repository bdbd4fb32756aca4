// Package services provides external service integrations and technical concerns like vendors, text generation, and tokens
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/pulsecrm/pulse/config"
	"github.com/pulsecrm/pulse/models"
)

var (
	vendorSendsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vendor_sends_total",
			Help: "Total number of send requests handed to the vendor",
		},
	)

	vendorCallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vendor_callbacks_total",
			Help: "Total number of receipt callbacks issued by the simulated vendor",
		},
		[]string{"status"},
	)

	vendorCallbackFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vendor_callback_failures_total",
			Help: "Total number of receipt callbacks that could not be delivered",
		},
	)
)

// VendorClient is the outbound boundary of the dispatch pipeline. Send hands
// one message to the vendor and returns once the vendor has accepted it for
// processing; delivery outcome arrives later through the receipt endpoint, or
// never. Implementations must not retry — a retry/backoff policy belongs in a
// decorator behind this same interface.
type VendorClient interface {
	Send(ctx context.Context, logID, message string) error
}

// vendorSendRequest mirrors the vendor send API body
type vendorSendRequest struct {
	LogID   string `json:"logId"`
	Message string `json:"message"`
}

// HTTPVendorClient posts send requests to the vendor's HTTP endpoint.
type HTTPVendorClient struct {
	cfg    config.VendorConfig
	client *http.Client
}

// NewHTTPVendorClient creates a vendor client for the configured send URL
func NewHTTPVendorClient(cfg config.VendorConfig) *HTTPVendorClient {
	return &HTTPVendorClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Send posts one message to the vendor send endpoint.
func (c *HTTPVendorClient) Send(ctx context.Context, logID, message string) error {
	body, _ := json.Marshal(vendorSendRequest{LogID: logID, Message: message})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.SendURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("vendor send http status: %d", resp.StatusCode)
	}

	return nil
}

// SimulatedVendor plays the message gateway. Every send is accepted
// immediately; after a configurable delay the vendor reports SENT or FAILED
// through the receipt endpoint, with a configurable success probability. The
// callback travels over HTTP like a real gateway's, so the reconciler sees an
// untrusted caller: delayed, possibly duplicated, possibly lost.
type SimulatedVendor struct {
	cfg    config.VendorConfig
	client *http.Client
	logger *log.Logger

	mu  sync.Mutex
	rng *rand.Rand
	wg  sync.WaitGroup
}

// NewSimulatedVendor creates a vendor simulator with the given configuration
func NewSimulatedVendor(cfg config.VendorConfig, logger *log.Logger) *SimulatedVendor {
	if logger == nil {
		logger = log.Default()
	}
	return &SimulatedVendor{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// vendorReceiptRequest mirrors the receipt callback body
type vendorReceiptRequest struct {
	LogID          string `json:"logId"`
	Status         string `json:"status"`
	VendorResponse string `json:"vendorResponse"`
}

// Accept takes one message for processing and schedules the delivery receipt.
// The outcome is decided up front; only its report is delayed.
func (v *SimulatedVendor) Accept(logID, message string) {
	vendorSendsTotal.Inc()

	status := models.DeliveryStatusSent
	if v.roll() >= v.cfg.SuccessRate {
		status = models.DeliveryStatusFailed
	}

	v.wg.Add(1)
	go func() {
		defer v.wg.Done()

		time.Sleep(v.cfg.CallbackDelay)
		v.deliverReceipt(logID, status)
	}()
}

func (v *SimulatedVendor) roll() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rng.Float64()
}

func (v *SimulatedVendor) deliverReceipt(logID string, status models.DeliveryStatus) {
	body, _ := json.Marshal(vendorReceiptRequest{
		LogID:          logID,
		Status:         status.String(),
		VendorResponse: "MockVendorResponse",
	})

	req, err := http.NewRequest(http.MethodPost, v.cfg.ReceiptURL, bytes.NewReader(body))
	if err != nil {
		vendorCallbackFailures.Inc()
		v.logger.Printf("vendor: building receipt callback for log %s failed: %v", logID, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		// Lost callback: the log stays PENDING, which the contract allows.
		vendorCallbackFailures.Inc()
		v.logger.Printf("vendor: receipt callback for log %s failed: %v", logID, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		vendorCallbackFailures.Inc()
		v.logger.Printf("vendor: receipt callback for log %s rejected with status %d", logID, resp.StatusCode)
		return
	}

	vendorCallbacksTotal.WithLabelValues(status.String()).Inc()
}

// Drain blocks until all scheduled callbacks have been attempted. Used on
// shutdown and in tests.
func (v *SimulatedVendor) Drain() {
	v.wg.Wait()
}
