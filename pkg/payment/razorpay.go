package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrNotConfigured signals that the gateway is unusable with the supplied
// credentials; handlers map it to 503
var ErrNotConfigured = errors.New("payment gateway not configured")

const (
	liveKeyPrefix = "rzp_live_"
	testKeyPrefix = "rzp_test_"

	defaultBaseURL = "https://api.razorpay.com/v1"
)

type clientState int

const (
	stateUninitialized clientState = iota
	stateVerifying
	stateReady
	stateFailed
)

// Order is the provider-side handle for an intended charge. Amount is in the
// provider's minor unit (paise).
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Client talks to the Razorpay orders API. Credentials are verified lazily on
// first use; a failed verification is retried on the next call rather than
// pinning the client in a dead state.
type Client struct {
	keyID     string
	keySecret string
	baseURL   string
	http      *http.Client
	log       *zap.Logger

	mu    sync.Mutex
	state clientState
}

func NewClient(keyID, keySecret string, log *zap.Logger) *Client {
	return &Client{
		keyID:     strings.TrimSpace(keyID),
		keySecret: strings.TrimSpace(keySecret),
		baseURL:   defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log.With(zap.String("client", "razorpay")),
	}
}

// ensureReady validates credentials, moving the client through
// uninitialized -> verifying -> ready|failed. A failed client re-verifies on
// the next call.
func (c *Client) ensureReady() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == stateReady {
		return nil
	}

	c.state = stateVerifying

	if err := c.verifyCredentials(); err != nil {
		c.state = stateFailed
		c.log.Error("Payment gateway credential check failed", zap.Error(err))
		return err
	}

	c.state = stateReady
	return nil
}

func (c *Client) verifyCredentials() error {
	if c.keyID == "" || c.keySecret == "" {
		return fmt.Errorf("%w: missing key id or secret", ErrNotConfigured)
	}

	if c.keyID == "your_razorpay_key_id" || c.keySecret == "your_razorpay_key_secret" {
		return fmt.Errorf("%w: placeholder credentials", ErrNotConfigured)
	}

	// Test-mode keys would silently take no real payment; refuse them outright
	if strings.HasPrefix(c.keyID, testKeyPrefix) {
		return fmt.Errorf("%w: test-mode key id %s rejected", ErrNotConfigured, c.keyID)
	}

	if !strings.HasPrefix(c.keyID, liveKeyPrefix) {
		return fmt.Errorf("%w: key id does not match live-mode format", ErrNotConfigured)
	}

	return nil
}

// Configured reports whether the client currently holds usable credentials
func (c *Client) Configured() bool {
	return c.ensureReady() == nil
}

// CreateOrder requests a provider order for amount (major units), scaling to
// paise. The caller must have validated amount > 0.
func (c *Client) CreateOrder(ctx context.Context, amount float64, currency, receipt string) (*Order, error) {
	if err := c.ensureReady(); err != nil {
		return nil, err
	}

	payload := map[string]any{
		"amount":   int64(amount * 100),
		"currency": currency,
		"receipt":  receipt,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read order response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Error("Order creation rejected by provider",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody),
		)
		return nil, fmt.Errorf("create order: provider returned status %d", resp.StatusCode)
	}

	var order Order
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("decode order response: %w", err)
	}

	return &order, nil
}

// Sign computes the hex HMAC-SHA256 the provider sends in its checkout
// callback: the message is "orderID|paymentID", keyed with the secret.
func Sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature recomputes the callback signature and compares it to the
// supplied hex signature. This is the sole authority that a payment is
// genuine. An unconfigured client cannot vouch for anything and returns
// ErrNotConfigured instead of a verdict.
func (c *Client) VerifySignature(orderID, paymentID, signature string) (bool, error) {
	if err := c.ensureReady(); err != nil {
		return false, err
	}

	expected := Sign(orderID, paymentID, c.keySecret)
	return hmac.Equal([]byte(expected), []byte(signature)), nil
}
