package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	billingapp "github.com/wheeltrade/backend/internal/application/billing"
)

// WebhookSignatureHeader carries the gateway's HMAC signature
const WebhookSignatureHeader = "X-Gateway-Signature"

// PaymentHandler handles escrow payment endpoints
type PaymentHandler struct {
	BaseHandler
	escrowService *billingapp.EscrowService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(escrowService *billingapp.EscrowService) *PaymentHandler {
	return &PaymentHandler{escrowService: escrowService}
}

// InitiateEscrow opens an escrow collect order for an accepted deal.
// Only the buyer can initiate.
func (h *PaymentHandler) InitiateEscrow(c *gin.Context) {
	dealerID, err := getDealerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req billingapp.InitiateEscrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.escrowService.InitiateEscrow(c.Request.Context(), dealerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Webhook receives payment notifications from the gateway.
// The endpoint is unauthenticated; the payload is verified against its
// HMAC signature instead.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusBadRequest, "failed to read body")
		return
	}

	signature := c.GetHeader(WebhookSignatureHeader)

	if err := h.escrowService.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		// Non-2xx makes the gateway retry
		h.HandleError(c, err)
		return
	}

	c.String(http.StatusOK, "ok")
}

// Get returns one payment for a party to its deal
func (h *PaymentHandler) Get(c *gin.Context) {
	dealerID, err := getDealerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	result, err := h.escrowService.Get(c.Request.Context(), dealerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListForDeal returns the payments attached to a deal
func (h *PaymentHandler) ListForDeal(c *gin.Context) {
	dealerID, err := getDealerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	dealID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid deal ID")
		return
	}

	results, err := h.escrowService.GetByDeal(c.Request.Context(), dealerID, dealID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// List returns the dealer's payments on either side
func (h *PaymentHandler) List(c *gin.Context) {
	dealerID, err := getDealerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter billingapp.PaymentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	results, err := h.escrowService.List(c.Request.Context(), dealerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}
