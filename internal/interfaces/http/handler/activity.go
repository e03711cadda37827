package handler

import (
	"github.com/gin-gonic/gin"

	activityapp "github.com/wheeltrade/backend/internal/application/activity"
)

// ActivityHandler exposes the audit trail
type ActivityHandler struct {
	BaseHandler
	activityService *activityapp.ActivityService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityService *activityapp.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// List returns audit records, newest first
func (h *ActivityHandler) List(c *gin.Context) {
	var filter activityapp.RecordListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	results, total, err := h.activityService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, results, total, filter.Page, filter.PageSize)
}

// ListForAggregate returns the audit trail of one aggregate
func (h *ActivityHandler) ListForAggregate(c *gin.Context) {
	aggregateType := c.Param("type")
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid aggregate ID")
		return
	}

	var filter activityapp.RecordListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	results, err := h.activityService.ListByAggregate(c.Request.Context(), aggregateType, id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// ListMine returns the audit records where the caller was the actor
func (h *ActivityHandler) ListMine(c *gin.Context) {
	dealerID, err := getDealerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter activityapp.RecordListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	results, err := h.activityService.ListByActor(c.Request.Context(), dealerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}
