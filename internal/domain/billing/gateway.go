package billing

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Gateway errors
var (
	ErrGatewayUnavailable    = errors.New("payment gateway unavailable")
	ErrInvalidSignature      = errors.New("invalid webhook signature")
	ErrGatewayOrderNotFound  = errors.New("gateway order not found")
	ErrGatewayOrderDuplicate = errors.New("gateway order already exists")
)

// GatewayOrderStatus is the order state reported by the gateway
type GatewayOrderStatus string

const (
	GatewayOrderPending   GatewayOrderStatus = "pending"
	GatewayOrderCaptured  GatewayOrderStatus = "captured"
	GatewayOrderFailed    GatewayOrderStatus = "failed"
	GatewayOrderRefunded  GatewayOrderStatus = "refunded"
	GatewayOrderCancelled GatewayOrderStatus = "cancelled"
)

// CreateOrderRequest asks the gateway to open a collect order
type CreateOrderRequest struct {
	PaymentNumber string          // Our payment reference, echoed back in webhooks
	Amount        decimal.Decimal // In rupees; the adapter converts to paise
	Currency      string
	Description   string
	ExpireAt      time.Time
}

// CreateOrderResponse is the gateway's view of a freshly opened order
type CreateOrderResponse struct {
	GatewayOrderID string
	Status         GatewayOrderStatus
	PaymentLink    string // Hosted checkout URL handed to the buyer
	RawResponse    string
}

// QueryOrderResponse is the gateway's current view of an order
type QueryOrderResponse struct {
	GatewayOrderID string
	GatewayTxnID   string
	Status         GatewayOrderStatus
	FailureReason  string
}

// WebhookEvent is a verified, parsed gateway callback
type WebhookEvent struct {
	EventType      string // payment.captured, payment.failed, refund.processed
	GatewayOrderID string
	GatewayTxnID   string
	Amount         decimal.Decimal
	FailureReason  string
	OccurredAt     time.Time
}

// PaymentGateway is the port to the escrow collection provider.
// Implementations live in infrastructure.
type PaymentGateway interface {
	// CreateOrder opens a collect order for the agreed deal amount
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error)

	// QueryOrder fetches the current order state from the gateway
	QueryOrder(ctx context.Context, gatewayOrderID string) (*QueryOrderResponse, error)

	// RefundOrder returns held funds to the buyer
	RefundOrder(ctx context.Context, gatewayOrderID string, amount decimal.Decimal) error

	// VerifyWebhook checks the callback signature and parses the payload.
	// Returns ErrInvalidSignature when the signature does not match.
	VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error)
}
