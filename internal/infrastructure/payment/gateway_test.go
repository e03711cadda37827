package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheeltrade/backend/internal/domain/billing"
	"github.com/wheeltrade/backend/internal/infrastructure/config"
)

func newTestGateway(baseURL string) *HTTPGateway {
	return NewHTTPGateway(config.PaymentConfig{
		GatewayBaseURL: baseURL,
		KeyID:          "key_test",
		KeySecret:      "secret_test",
		WebhookSecret:  "whsec_test",
		OrderExpiry:    24 * time.Hour,
	})
}

func TestHTTPGateway_CreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)

		username, password, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key_test", username)
		assert.Equal(t, "secret_test", password)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "PAY-2026-00001", body["reference"])
		assert.Equal(t, float64(45000000), body["amount"]) // 450000 rupees in paise
		assert.Equal(t, "INR", body["currency"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_abc123","status":"created","payment_link":"https://pay.example/order_abc123"}`))
	}))
	defer server.Close()

	gw := newTestGateway(server.URL)

	resp, err := gw.CreateOrder(context.Background(), &billing.CreateOrderRequest{
		PaymentNumber: "PAY-2026-00001",
		Amount:        decimal.NewFromInt(450000),
	})

	require.NoError(t, err)
	assert.Equal(t, "order_abc123", resp.GatewayOrderID)
	assert.Equal(t, billing.GatewayOrderPending, resp.Status)
	assert.Equal(t, "https://pay.example/order_abc123", resp.PaymentLink)
}

func TestHTTPGateway_CreateOrder_Duplicate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":{"code":"DUPLICATE","description":"order exists"}}`))
	}))
	defer server.Close()

	gw := newTestGateway(server.URL)

	_, err := gw.CreateOrder(context.Background(), &billing.CreateOrderRequest{
		PaymentNumber: "PAY-2026-00001",
		Amount:        decimal.NewFromInt(1000),
	})

	assert.ErrorIs(t, err, billing.ErrGatewayOrderDuplicate)
}

func TestHTTPGateway_QueryOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/orders/order_abc123", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"order_abc123","txn_id":"txn_9","status":"captured"}`))
	}))
	defer server.Close()

	gw := newTestGateway(server.URL)

	resp, err := gw.QueryOrder(context.Background(), "order_abc123")

	require.NoError(t, err)
	assert.Equal(t, billing.GatewayOrderCaptured, resp.Status)
	assert.Equal(t, "txn_9", resp.GatewayTxnID)
}

func TestHTTPGateway_QueryOrder_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	gw := newTestGateway(server.URL)

	_, err := gw.QueryOrder(context.Background(), "order_missing")

	assert.ErrorIs(t, err, billing.ErrGatewayOrderNotFound)
}

func TestHTTPGateway_VerifyWebhook(t *testing.T) {
	gw := newTestGateway("http://unused")

	payload := []byte(`{"event":"payment.captured","order_id":"order_abc123","txn_id":"txn_9","amount":45000000,"created_at":1756600000}`)
	signature := ComputeSignature(payload, "whsec_test")

	event, err := gw.VerifyWebhook(payload, signature)

	require.NoError(t, err)
	assert.Equal(t, "payment.captured", event.EventType)
	assert.Equal(t, "order_abc123", event.GatewayOrderID)
	assert.Equal(t, "txn_9", event.GatewayTxnID)
	assert.True(t, event.Amount.Equal(decimal.NewFromInt(450000)))
}

func TestHTTPGateway_VerifyWebhook_BadSignature(t *testing.T) {
	gw := newTestGateway("http://unused")

	payload := []byte(`{"event":"payment.captured"}`)

	_, err := gw.VerifyWebhook(payload, "deadbeef")

	assert.ErrorIs(t, err, billing.ErrInvalidSignature)
}

func TestStubGateway_Lifecycle(t *testing.T) {
	gw := NewStubGateway("whsec_test")

	resp, err := gw.CreateOrder(context.Background(), &billing.CreateOrderRequest{
		PaymentNumber: "PAY-2026-00001",
		Amount:        decimal.NewFromInt(1000),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.GatewayOrderID)

	query, err := gw.QueryOrder(context.Background(), resp.GatewayOrderID)
	require.NoError(t, err)
	assert.Equal(t, billing.GatewayOrderCaptured, query.Status)

	require.NoError(t, gw.RefundOrder(context.Background(), resp.GatewayOrderID, decimal.NewFromInt(1000)))

	query, err = gw.QueryOrder(context.Background(), resp.GatewayOrderID)
	require.NoError(t, err)
	assert.Equal(t, billing.GatewayOrderRefunded, query.Status)
}
