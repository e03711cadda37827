package handler

import (
	"github.com/gin-gonic/gin"

	dealapp "github.com/wheeltrade/backend/internal/application/deal"
)

// DealHandler handles deal negotiation endpoints
type DealHandler struct {
	BaseHandler
	dealService *dealapp.DealService
}

// NewDealHandler creates a new deal handler
func NewDealHandler(dealService *dealapp.DealService) *DealHandler {
	return &DealHandler{dealService: dealService}
}

// MakeOffer opens a deal with the buyer's initial offer
func (h *DealHandler) MakeOffer(c *gin.Context) {
	dealerID, err := getDealerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dealapp.MakeOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.dealService.MakeOffer(c.Request.Context(), dealerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Counter records a counter-offer from the responding party
func (h *DealHandler) Counter(c *gin.Context) {
	dealerID, err := getDealerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid deal ID")
		return
	}

	var req dealapp.CounterOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.dealService.Counter(c.Request.Context(), dealerID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Accept accepts the proposal on the table
func (h *DealHandler) Accept(c *gin.Context) {
	dealerID, err := getDealerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid deal ID")
		return
	}

	result, err := h.dealService.Accept(c.Request.Context(), dealerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Reject declines the proposal on the table
func (h *DealHandler) Reject(c *gin.Context) {
	dealerID, err := getDealerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid deal ID")
		return
	}

	var req dealapp.RejectDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.dealService.Reject(c.Request.Context(), dealerID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Cancel withdraws the deal
func (h *DealHandler) Cancel(c *gin.Context) {
	dealerID, err := getDealerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid deal ID")
		return
	}

	var req dealapp.CancelDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.dealService.Cancel(c.Request.Context(), dealerID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Get returns a deal for one of its parties
func (h *DealHandler) Get(c *gin.Context) {
	dealerID, err := getDealerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid deal ID")
		return
	}

	result, err := h.dealService.Get(c.Request.Context(), dealerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List returns the dealer's deals on either side of the table
func (h *DealHandler) List(c *gin.Context) {
	dealerID, err := getDealerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter dealapp.DealListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	results, total, err := h.dealService.List(c.Request.Context(), dealerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, results, total, filter.Page, filter.PageSize)
}

// ListForVehicle returns the seller's open deals on one vehicle
func (h *DealHandler) ListForVehicle(c *gin.Context) {
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

	results, err := h.dealService.ListForVehicle(c.Request.Context(), dealerID, vehicleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// Summary returns per-status deal counts for the dealer
func (h *DealHandler) Summary(c *gin.Context) {
	dealerID, err := getDealerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.dealService.GetSummary(c.Request.Context(), dealerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
