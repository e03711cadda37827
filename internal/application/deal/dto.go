package deal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wheeltrade/backend/internal/domain/deal"
)

// MakeOfferRequest opens a deal with the buyer's initial offer
type MakeOfferRequest struct {
	VehicleID uuid.UUID       `json:"vehicle_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Message   string          `json:"message" binding:"max=500"`
}

// CounterOfferRequest records a counter-offer from the responding party
type CounterOfferRequest struct {
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	Message string          `json:"message" binding:"max=500"`
}

// RejectDealRequest declines the proposal on the table
type RejectDealRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// CancelDealRequest withdraws the deal
type CancelDealRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// DealListFilter filters a dealer's deals
type DealListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Status   string `form:"status" binding:"omitempty,oneof=offer negotiating accepted in_escrow in_transit completed rejected cancelled expired"`
	Role     string `form:"role" binding:"omitempty,oneof=buyer seller"`
}

// OfferResponse is one entry in the negotiation history
type OfferResponse struct {
	ID         uuid.UUID       `json:"id"`
	ProposedBy uuid.UUID       `json:"proposed_by"`
	Amount     decimal.Decimal `json:"amount"`
	Message    string          `json:"message,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// DealResponse is the full view of a deal for one of its parties
type DealResponse struct {
	ID               uuid.UUID       `json:"id"`
	DealNumber       string          `json:"deal_number"`
	VehicleID        uuid.UUID       `json:"vehicle_id"`
	BuyerDealerID    uuid.UUID       `json:"buyer_dealer_id"`
	SellerDealerID   uuid.UUID       `json:"seller_dealer_id"`
	Status           string          `json:"status"`
	CurrentAmount    decimal.Decimal `json:"current_amount"`
	CurrentProposer  uuid.UUID       `json:"current_proposer"`
	AgreedAmount     decimal.Decimal `json:"agreed_amount"`
	YourTurn         bool            `json:"your_turn"`
	Offers           []OfferResponse `json:"offers,omitempty"`
	ExpiresAt        *time.Time      `json:"expires_at,omitempty"`
	AcceptedAt       *time.Time      `json:"accepted_at,omitempty"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
	PaymentID        *uuid.UUID      `json:"payment_id,omitempty"`
	TransportOrderID *uuid.UUID      `json:"transport_order_id,omitempty"`
	CancelReason     string          `json:"cancel_reason,omitempty"`
	RejectReason     string          `json:"reject_reason,omitempty"`
	Version          int             `json:"version"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// DealSummaryResponse counts a dealer's deals by status
type DealSummaryResponse struct {
	Open      int64 `json:"open"`
	Accepted  int64 `json:"accepted"`
	InEscrow  int64 `json:"in_escrow"`
	InTransit int64 `json:"in_transit"`
	Completed int64 `json:"completed"`
	Closed    int64 `json:"closed"`
	Total     int64 `json:"total"`
}

// ToDealResponse converts a deal to its response DTO.
// viewerID marks whose turn indicator to compute; includeOffers controls
// whether the negotiation history is attached.
func ToDealResponse(d *deal.Deal, viewerID uuid.UUID, includeOffers bool) *DealResponse {
	resp := &DealResponse{
		ID:               d.ID,
		DealNumber:       d.DealNumber,
		VehicleID:        d.VehicleID,
		BuyerDealerID:    d.BuyerDealerID,
		SellerDealerID:   d.SellerDealerID,
		Status:           d.Status.String(),
		CurrentAmount:    d.CurrentAmount,
		CurrentProposer:  d.CurrentProposer,
		AgreedAmount:     d.AgreedAmount,
		YourTurn:         d.IsAwaitingResponseFrom(viewerID),
		ExpiresAt:        d.ExpiresAt,
		AcceptedAt:       d.AcceptedAt,
		CompletedAt:      d.CompletedAt,
		PaymentID:        d.PaymentID,
		TransportOrderID: d.TransportOrderID,
		CancelReason:     d.CancelReason,
		RejectReason:     d.RejectReason,
		Version:          d.Version,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
	if includeOffers {
		resp.Offers = make([]OfferResponse, len(d.Offers))
		for i, o := range d.Offers {
			resp.Offers[i] = OfferResponse{
				ID:         o.ID,
				ProposedBy: o.ProposedBy,
				Amount:     o.Amount,
				Message:    o.Message,
				CreatedAt:  o.CreatedAt,
			}
		}
	}
	return resp
}

// ToDealResponses converts a slice of deals without offer history
func ToDealResponses(deals []deal.Deal, viewerID uuid.UUID) []DealResponse {
	responses := make([]DealResponse, len(deals))
	for i := range deals {
		responses[i] = *ToDealResponse(&deals[i], viewerID, false)
	}
	return responses
}
