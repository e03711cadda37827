package handler

import (
	"github.com/gin-gonic/gin"

	pricingapp "github.com/wheeltrade/backend/internal/application/pricing"
)

// PricingHandler handles margin schedule and quote endpoints
type PricingHandler struct {
	BaseHandler
	pricingService *pricingapp.PricingService
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(pricingService *pricingapp.PricingService) *PricingHandler {
	return &PricingHandler{pricingService: pricingService}
}

// GetSchedule returns the active margin schedule
func (h *PricingHandler) GetSchedule(c *gin.Context) {
	result, err := h.pricingService.GetSchedule(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ReplaceSchedule swaps in a new margin schedule
func (h *PricingHandler) ReplaceSchedule(c *gin.Context) {
	var req pricingapp.ReplaceScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.pricingService.ReplaceSchedule(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Quote suggests a price for an arbitrary acquisition cost
func (h *PricingHandler) Quote(c *gin.Context) {
	dealerID, err := getDealerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req pricingapp.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.pricingService.QuoteForCost(c.Request.Context(), dealerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// QuoteForVehicle suggests a price for one of the dealer's vehicles
func (h *PricingHandler) QuoteForVehicle(c *gin.Context) {
	dealerID, err := getDealerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	vehicleID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid vehicle ID")
		return
	}

	result, err := h.pricingService.QuoteForVehicle(c.Request.Context(), dealerID, vehicleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
