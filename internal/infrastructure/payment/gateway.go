package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wheeltrade/backend/internal/domain/billing"
	"github.com/wheeltrade/backend/internal/infrastructure/config"
)

const (
	createOrderPath = "/v1/orders"
	queryOrderPath  = "/v1/orders/%s"
	refundOrderPath = "/v1/orders/%s/refund"
)

// HTTPGateway implements PaymentGateway against an HTTP collect API.
// Requests are authenticated with basic auth (key id and secret);
// webhooks carry an HMAC-SHA256 signature over the raw body.
type HTTPGateway struct {
	baseURL       string
	keyID         string
	keySecret     string
	webhookSecret string
	orderExpiry   time.Duration
	httpClient    *http.Client
}

// NewHTTPGateway creates a new HTTP payment gateway adapter
func NewHTTPGateway(cfg config.PaymentConfig) *HTTPGateway {
	return &HTTPGateway{
		baseURL:       cfg.GatewayBaseURL,
		keyID:         cfg.KeyID,
		keySecret:     cfg.KeySecret,
		webhookSecret: cfg.WebhookSecret,
		orderExpiry:   cfg.OrderExpiry,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type createOrderBody struct {
	Reference   string `json:"reference"`
	AmountPaise int64  `json:"amount"` // Smallest currency unit
	Currency    string `json:"currency"`
	Description string `json:"description,omitempty"`
	ExpireAt    int64  `json:"expire_at,omitempty"` // Unix seconds
}

type orderResponseBody struct {
	ID            string `json:"id"`
	TxnID         string `json:"txn_id,omitempty"`
	Status        string `json:"status"`
	PaymentLink   string `json:"payment_link,omitempty"`
	FailureReason string `json:"failure_reason,omitempty"`
	Error         struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder opens a collect order for the agreed deal amount
func (g *HTTPGateway) CreateOrder(ctx context.Context, req *billing.CreateOrderRequest) (*billing.CreateOrderResponse, error) {
	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	expireAt := req.ExpireAt
	if expireAt.IsZero() {
		expireAt = time.Now().Add(g.orderExpiry)
	}

	body := createOrderBody{
		Reference:   req.PaymentNumber,
		AmountPaise: req.Amount.Mul(decimal.NewFromInt(100)).IntPart(),
		Currency:    currency,
		Description: req.Description,
		ExpireAt:    expireAt.Unix(),
	}

	respBody, status, err := g.doRequest(ctx, http.MethodPost, createOrderPath, body)
	if err != nil {
		return nil, err
	}

	var parsed orderResponseBody
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("gateway: failed to parse response: %w", err)
	}

	if status == http.StatusConflict {
		return nil, billing.ErrGatewayOrderDuplicate
	}
	if status >= 400 {
		return nil, fmt.Errorf("gateway: create order failed: %s (%s)", parsed.Error.Description, parsed.Error.Code)
	}

	return &billing.CreateOrderResponse{
		GatewayOrderID: parsed.ID,
		Status:         mapOrderStatus(parsed.Status),
		PaymentLink:    parsed.PaymentLink,
		RawResponse:    string(respBody),
	}, nil
}

// QueryOrder fetches the current order state from the gateway
func (g *HTTPGateway) QueryOrder(ctx context.Context, gatewayOrderID string) (*billing.QueryOrderResponse, error) {
	path := fmt.Sprintf(queryOrderPath, gatewayOrderID)

	respBody, status, err := g.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, billing.ErrGatewayOrderNotFound
	}
	if status >= 400 {
		return nil, fmt.Errorf("gateway: query order failed with status %d", status)
	}

	var parsed orderResponseBody
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("gateway: failed to parse response: %w", err)
	}

	return &billing.QueryOrderResponse{
		GatewayOrderID: parsed.ID,
		GatewayTxnID:   parsed.TxnID,
		Status:         mapOrderStatus(parsed.Status),
		FailureReason:  parsed.FailureReason,
	}, nil
}

// RefundOrder returns held funds to the buyer
func (g *HTTPGateway) RefundOrder(ctx context.Context, gatewayOrderID string, amount decimal.Decimal) error {
	path := fmt.Sprintf(refundOrderPath, gatewayOrderID)
	body := map[string]int64{
		"amount": amount.Mul(decimal.NewFromInt(100)).IntPart(),
	}

	respBody, status, err := g.doRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return billing.ErrGatewayOrderNotFound
	}
	if status >= 400 {
		var parsed orderResponseBody
		if err := json.Unmarshal(respBody, &parsed); err == nil && parsed.Error.Description != "" {
			return fmt.Errorf("gateway: refund failed: %s", parsed.Error.Description)
		}
		return fmt.Errorf("gateway: refund failed with status %d", status)
	}
	return nil
}

type webhookBody struct {
	Event         string `json:"event"`
	OrderID       string `json:"order_id"`
	TxnID         string `json:"txn_id"`
	AmountPaise   int64  `json:"amount"`
	FailureReason string `json:"failure_reason,omitempty"`
	CreatedAt     int64  `json:"created_at"`
}

// VerifyWebhook checks the HMAC-SHA256 signature over the raw payload
// and parses the callback. The comparison is constant-time.
func (g *HTTPGateway) VerifyWebhook(payload []byte, signature string) (*billing.WebhookEvent, error) {
	expected := ComputeSignature(payload, g.webhookSecret)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, billing.ErrInvalidSignature
	}

	var parsed webhookBody
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, fmt.Errorf("gateway: failed to parse webhook payload: %w", err)
	}

	return &billing.WebhookEvent{
		EventType:      parsed.Event,
		GatewayOrderID: parsed.OrderID,
		GatewayTxnID:   parsed.TxnID,
		Amount:         decimal.NewFromInt(parsed.AmountPaise).Div(decimal.NewFromInt(100)),
		FailureReason:  parsed.FailureReason,
		OccurredAt:     time.Unix(parsed.CreatedAt, 0),
	}, nil
}

// ComputeSignature computes the hex HMAC-SHA256 of a payload.
// Exported so tests and the stub gateway can build valid signatures.
func ComputeSignature(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func (g *HTTPGateway) doRequest(ctx context.Context, method, path string, body interface{}) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("gateway: failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("gateway: failed to build request: %w", err)
	}
	req.SetBasicAuth(g.keyID, g.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, 0, billing.ErrGatewayUnavailable
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("gateway: failed to read response: %w", err)
	}

	return respBody, resp.StatusCode, nil
}

func mapOrderStatus(status string) billing.GatewayOrderStatus {
	switch status {
	case "created", "pending":
		return billing.GatewayOrderPending
	case "captured", "paid":
		return billing.GatewayOrderCaptured
	case "failed":
		return billing.GatewayOrderFailed
	case "refunded":
		return billing.GatewayOrderRefunded
	case "cancelled", "expired":
		return billing.GatewayOrderCancelled
	default:
		return billing.GatewayOrderPending
	}
}

var _ billing.PaymentGateway = (*HTTPGateway)(nil)
