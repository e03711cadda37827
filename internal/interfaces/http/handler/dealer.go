package handler

import (
	"github.com/gin-gonic/gin"

	dealerapp "github.com/wheeltrade/backend/internal/application/dealer"
)

// DealerHandler handles dealer account endpoints
type DealerHandler struct {
	BaseHandler
	dealerService *dealerapp.DealerService
}

// NewDealerHandler creates a new dealer handler
func NewDealerHandler(dealerService *dealerapp.DealerService) *DealerHandler {
	return &DealerHandler{dealerService: dealerService}
}

// Register onboards a new dealership with its owner login.
// This endpoint is public; the dealer starts in pending status.
func (h *DealerHandler) Register(c *gin.Context) {
	var req dealerapp.RegisterDealerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.dealerService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// GetProfile returns the authenticated dealer's own profile
func (h *DealerHandler) GetProfile(c *gin.Context) {
	dealerID, err := getDealerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.dealerService.Get(c.Request.Context(), dealerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// UpdateProfile updates the authenticated dealer's profile fields
func (h *DealerHandler) UpdateProfile(c *gin.Context) {
	dealerID, err := getDealerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dealerapp.UpdateDealerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.dealerService.Update(c.Request.Context(), dealerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// UpdateBankAccount replaces the dealer's settlement account
func (h *DealerHandler) UpdateBankAccount(c *gin.Context) {
	dealerID, err := getDealerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dealerapp.UpdateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.dealerService.UpdateBankAccount(c.Request.Context(), dealerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// UpdateMarginPolicy replaces the dealer's margin policy
func (h *DealerHandler) UpdateMarginPolicy(c *gin.Context) {
	dealerID, err := getDealerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dealerapp.UpdateMarginPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.dealerService.UpdateMarginPolicy(c.Request.Context(), dealerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// SetCustomerMode toggles floor-price hiding for showroom use
func (h *DealerHandler) SetCustomerMode(c *gin.Context) {
	dealerID, err := getDealerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dealerapp.SetCustomerModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.dealerService.SetCustomerMode(c.Request.Context(), dealerID, req.Enabled)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Get returns another dealer's public profile
func (h *DealerHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid dealer ID")
		return
	}

	result, err := h.dealerService.GetPublic(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List returns the dealer directory
func (h *DealerHandler) List(c *gin.Context) {
	var filter dealerapp.DealerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	results, total, err := h.dealerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, results, total, filter.Page, filter.PageSize)
}

// Activate activates a pending or suspended dealer account
func (h *DealerHandler) Activate(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid dealer ID")
		return
	}

	result, err := h.dealerService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Suspend suspends a dealer account
func (h *DealerHandler) Suspend(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid dealer ID")
		return
	}

	var req dealerapp.SuspendDealerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.dealerService.Suspend(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
