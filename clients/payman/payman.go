package payman

import (
	// Go Internal Packages
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	// Local Packages
	models "payguard/models"
	utils "payguard/utils"

	// External Packages
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	sandboxBaseURL = "https://agent-sandbox.payman.ai/api"
	liveBaseURL    = "https://agent.payman.ai/api"
)

// GatewayError is a typed gateway failure. Transient failures (network
// errors, 5xx, rate limits) are retryable; business rejections are terminal
// and carry a stable user-facing message instead of the raw provider error.
type GatewayError struct {
	Transient bool
	Code      string
	Message   string
	Err       error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("payman: %s: %v", e.Message, e.Err)
	}
	return "payman: " + e.Message
}

func (e *GatewayError) Unwrap() error { return e.Err }

// Client executes transfers via the Payman send-payment API.
type Client struct {
	apiSecret string
	baseURL   string
	client    *http.Client
	logger    *zap.Logger
}

type sendPaymentRequest struct {
	AmountDecimal        json.Number `json:"amountDecimal"`
	PaymentDestinationID string      `json:"paymentDestinationId"`
	Memo                 string      `json:"memo"`
}

type sendPaymentResponse struct {
	Reference string `json:"reference"`
}

type errorEnvelope struct {
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// NewClient builds a gateway client for the given environment. An explicit
// baseURL overrides the environment default.
func NewClient(apiSecret, environment, baseURL string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = sandboxBaseURL
		if environment == "live" {
			baseURL = liveBaseURL
		}
	}
	return &Client{
		apiSecret: apiSecret,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		client:    &http.Client{},
		logger:    logger,
	}
}

// SendPayment executes one transfer attempt. Retrying is the submitter's job;
// each call here is independent.
func (c *Client) SendPayment(ctx context.Context, destination string, amount decimal.Decimal, memo string) (models.PaymentReceipt, error) {
	body, err := json.Marshal(sendPaymentRequest{
		AmountDecimal:        json.Number(utils.FormatAmount(amount)),
		PaymentDestinationID: destination,
		Memo:                 memo,
	})
	if err != nil {
		return models.PaymentReceipt{}, &GatewayError{Transient: false, Message: "Payment request could not be encoded.", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payments/send-payment", bytes.NewReader(body))
	if err != nil {
		return models.PaymentReceipt{}, &GatewayError{Transient: false, Message: "Payment request could not be built.", Err: err}
	}
	req.Header.Set("x-payman-api-secret", c.apiSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return models.PaymentReceipt{}, &GatewayError{Transient: true, Message: "Payment provider unreachable.", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.PaymentReceipt{}, &GatewayError{Transient: true, Message: "Payment provider response unreadable.", Err: err}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var payment sendPaymentResponse
		_ = json.Unmarshal(respBody, &payment)
		return models.PaymentReceipt{Reference: payment.Reference, Raw: respBody}, nil

	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return models.PaymentReceipt{}, &GatewayError{
			Transient: true,
			Message:   "Payment provider unavailable.",
			Err:       fmt.Errorf("status %d: %s", resp.StatusCode, respBody),
		}

	default:
		var envelope errorEnvelope
		_ = json.Unmarshal(respBody, &envelope)
		return models.PaymentReceipt{}, &GatewayError{
			Transient: false,
			Code:      envelope.ErrorCode,
			Message:   mapRejection(envelope.ErrorCode),
			Err:       fmt.Errorf("status %d: %s", resp.StatusCode, respBody),
		}
	}
}

// mapRejection maps the gateway's structured business-error codes to stable
// user-facing messages. The raw provider message never crosses the API
// boundary.
func mapRejection(code string) string {
	switch code {
	case "insufficient_funds":
		return "Insufficient funds in source account."
	case "destination_not_found", "invalid_destination":
		return "Unknown payment destination."
	case "amount_invalid":
		return "Payment amount rejected by provider."
	default:
		return "Payment rejected by provider."
	}
}
