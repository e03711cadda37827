package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wheeltrade/backend/internal/domain/billing"
)

// InitiateEscrowRequest opens an escrow collect order for an accepted deal
type InitiateEscrowRequest struct {
	DealID uuid.UUID `json:"deal_id" binding:"required"`
}

// PaymentListFilter carries pagination and status filtering for payment lists
type PaymentListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=initiated held released refunded failed"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// PaymentResponse is the API view of an escrow payment
type PaymentResponse struct {
	ID             uuid.UUID       `json:"id"`
	PaymentNumber  string          `json:"payment_number"`
	DealID         uuid.UUID       `json:"deal_id"`
	BuyerDealerID  uuid.UUID       `json:"buyer_dealer_id"`
	SellerDealerID uuid.UUID       `json:"seller_dealer_id"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	GatewayOrderID string          `json:"gateway_order_id"`
	FailureReason  string          `json:"failure_reason,omitempty"`
	HeldAt         *time.Time      `json:"held_at,omitempty"`
	SettledAt      *time.Time      `json:"settled_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	Version        int             `json:"version"`
}

// InitiateEscrowResponse adds the hosted checkout link the buyer pays through
type InitiateEscrowResponse struct {
	PaymentResponse
	PaymentLink string `json:"payment_link"`
}

// ToPaymentResponse converts a domain payment to a response DTO
func ToPaymentResponse(p *billing.EscrowPayment) *PaymentResponse {
	return &PaymentResponse{
		ID:             p.ID,
		PaymentNumber:  p.PaymentNumber,
		DealID:         p.DealID,
		BuyerDealerID:  p.DealerID,
		SellerDealerID: p.SellerDealerID,
		Amount:         p.Amount,
		Status:         string(p.Status),
		GatewayOrderID: p.GatewayOrderID,
		FailureReason:  p.FailureReason,
		HeldAt:         p.HeldAt,
		SettledAt:      p.SettledAt,
		CreatedAt:      p.CreatedAt,
		Version:        p.Version,
	}
}

// ToPaymentResponses converts a slice of domain payments
func ToPaymentResponses(payments []billing.EscrowPayment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = *ToPaymentResponse(&payments[i])
	}
	return responses
}
