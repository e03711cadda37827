package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	logisticsapp "github.com/wheeltrade/backend/internal/application/logistics"
)

// LogisticsHandler handles transport partner and order endpoints
type LogisticsHandler struct {
	BaseHandler
	logisticsService *logisticsapp.LogisticsService
}

// NewLogisticsHandler creates a new logistics handler
func NewLogisticsHandler(logisticsService *logisticsapp.LogisticsService) *LogisticsHandler {
	return &LogisticsHandler{logisticsService: logisticsService}
}

// CreatePartner registers a carrier with its rate card
func (h *LogisticsHandler) CreatePartner(c *gin.Context) {
	var req logisticsapp.CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.logisticsService.CreatePartner(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// GetPartner returns one carrier
func (h *LogisticsHandler) GetPartner(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid partner ID")
		return
	}

	result, err := h.logisticsService.GetPartner(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListPartners returns registered carriers
func (h *LogisticsHandler) ListPartners(c *gin.Context) {
	var filter logisticsapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	results, err := h.logisticsService.ListPartners(c.Request.Context(), filter.Page, filter.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// UpdatePartnerRates replaces a partner's rate card
func (h *LogisticsHandler) UpdatePartnerRates(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid partner ID")
		return
	}

	var req logisticsapp.UpdatePartnerRatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.logisticsService.UpdatePartnerRates(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// SetPartnerActive toggles whether a partner takes new bookings
func (h *LogisticsHandler) SetPartnerActive(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid partner ID")
		return
	}

	var req logisticsapp.SetPartnerActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.logisticsService.SetPartnerActive(c.Request.Context(), id, req.Active)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// QuoteRoutes prices a route with every serviceable partner,
// cheapest first
func (h *LogisticsHandler) QuoteRoutes(c *gin.Context) {
	dealerID, err := getDealerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req logisticsapp.QuoteRoutesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	results, err := h.logisticsService.QuoteRoutes(c.Request.Context(), dealerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// CreateOrder books a vehicle movement for an escrowed deal
func (h *LogisticsHandler) CreateOrder(c *gin.Context) {
	dealerID, err := getDealerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req logisticsapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.logisticsService.CreateOrder(c.Request.Context(), dealerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// GetOrder returns one transport order for a party to the deal
func (h *LogisticsHandler) GetOrder(c *gin.Context) {
	dealerID, err := getDealerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	result, err := h.logisticsService.GetOrder(c.Request.Context(), dealerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListOrders returns the dealer's transport orders
func (h *LogisticsHandler) ListOrders(c *gin.Context) {
	dealerID, err := getDealerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter logisticsapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	results, total, err := h.logisticsService.ListOrders(c.Request.Context(), dealerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, results, total, filter.Page, filter.PageSize)
}

// ListOrdersForDeal returns the transport orders booked for a deal
func (h *LogisticsHandler) ListOrdersForDeal(c *gin.Context) {
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

	results, err := h.logisticsService.GetOrderForDeal(c.Request.Context(), dealerID, dealID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// BookOrder confirms a quoted order with the carrier
func (h *LogisticsHandler) BookOrder(c *gin.Context) {
	h.transition(c, h.logisticsService.BookOrder)
}

// MarkPickedUp records that the carrier collected the vehicle
func (h *LogisticsHandler) MarkPickedUp(c *gin.Context) {
	h.transition(c, h.logisticsService.MarkPickedUp)
}

// MarkInTransit records that the vehicle is on the road
func (h *LogisticsHandler) MarkInTransit(c *gin.Context) {
	h.transition(c, h.logisticsService.MarkInTransit)
}

// MarkDelivered records delivery at the buyer's location
func (h *LogisticsHandler) MarkDelivered(c *gin.Context) {
	h.transition(c, h.logisticsService.MarkDelivered)
}

// CancelOrder cancels a transport order before pickup
func (h *LogisticsHandler) CancelOrder(c *gin.Context) {
	dealerID, err := getDealerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req logisticsapp.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.logisticsService.CancelOrder(c.Request.Context(), dealerID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

type orderTransition func(ctx context.Context, dealerID, orderID uuid.UUID) (*logisticsapp.OrderResponse, error)

func (h *LogisticsHandler) transition(c *gin.Context, step orderTransition) {
	dealerID, err := getDealerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	result, err := step(c.Request.Context(), dealerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
