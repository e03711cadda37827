package payment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wheeltrade/backend/internal/domain/billing"
)

// StubGateway is an in-memory gateway for development and testing.
// Orders are captured immediately on creation.
type StubGateway struct {
	mu            sync.RWMutex
	orders        map[string]*billing.QueryOrderResponse
	webhookSecret string
}

// NewStubGateway creates a new stub payment gateway
func NewStubGateway(webhookSecret string) *StubGateway {
	return &StubGateway{
		orders:        make(map[string]*billing.QueryOrderResponse),
		webhookSecret: webhookSecret,
	}
}

// CreateOrder opens an order and immediately marks it captured
func (g *StubGateway) CreateOrder(_ context.Context, req *billing.CreateOrderRequest) (*billing.CreateOrderResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	orderID := "stub_order_" + uuid.New().String()[:8]
	g.orders[orderID] = &billing.QueryOrderResponse{
		GatewayOrderID: orderID,
		GatewayTxnID:   "stub_txn_" + uuid.New().String()[:8],
		Status:         billing.GatewayOrderCaptured,
	}

	return &billing.CreateOrderResponse{
		GatewayOrderID: orderID,
		Status:         billing.GatewayOrderPending,
		PaymentLink:    fmt.Sprintf("https://pay.stub.local/%s", orderID),
	}, nil
}

// QueryOrder fetches the stub's view of an order
func (g *StubGateway) QueryOrder(_ context.Context, gatewayOrderID string) (*billing.QueryOrderResponse, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	order, ok := g.orders[gatewayOrderID]
	if !ok {
		return nil, billing.ErrGatewayOrderNotFound
	}
	return order, nil
}

// RefundOrder marks a held order refunded
func (g *StubGateway) RefundOrder(_ context.Context, gatewayOrderID string, _ decimal.Decimal) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	order, ok := g.orders[gatewayOrderID]
	if !ok {
		return billing.ErrGatewayOrderNotFound
	}
	order.Status = billing.GatewayOrderRefunded
	return nil
}

// VerifyWebhook validates signatures the same way the HTTP adapter does
func (g *StubGateway) VerifyWebhook(payload []byte, signature string) (*billing.WebhookEvent, error) {
	if ComputeSignature(payload, g.webhookSecret) != signature {
		return nil, billing.ErrInvalidSignature
	}
	return &billing.WebhookEvent{
		EventType:  "payment.captured",
		OccurredAt: time.Now(),
	}, nil
}

var _ billing.PaymentGateway = (*StubGateway)(nil)
