package logistics

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wheeltrade/backend/internal/domain/logistics"
)

// CreatePartnerRequest registers a carrier with its rate card
type CreatePartnerRequest struct {
	Code        string          `json:"code" binding:"required,min=2,max=50"`
	Name        string          `json:"name" binding:"required,min=2,max=200"`
	BaseFee     decimal.Decimal `json:"base_fee" binding:"required"`
	PerKMRate   decimal.Decimal `json:"per_km_rate" binding:"required"`
	PerKGRate   decimal.Decimal `json:"per_kg_rate" binding:"required"`
	MaxWeightKG int             `json:"max_weight_kg" binding:"required,min=1"`
	ContactName string          `json:"contact_name" binding:"max=100"`
	Phone       string          `json:"phone" binding:"max=50"`
	Email       string          `json:"email" binding:"omitempty,email,max=200"`
}

// UpdatePartnerRatesRequest replaces a partner's rate card
type UpdatePartnerRatesRequest struct {
	BaseFee   decimal.Decimal `json:"base_fee" binding:"required"`
	PerKMRate decimal.Decimal `json:"per_km_rate" binding:"required"`
	PerKGRate decimal.Decimal `json:"per_kg_rate" binding:"required"`
}

// SetPartnerActiveRequest toggles whether a partner takes new bookings
type SetPartnerActiveRequest struct {
	Active bool `json:"active"`
}

// QuoteRoutesRequest asks every serviceable partner to price a route
type QuoteRoutesRequest struct {
	DealID     uuid.UUID `json:"deal_id" binding:"required"`
	DistanceKM int       `json:"distance_km" binding:"required,min=1"`
}

// CreateOrderRequest books a vehicle movement for a deal
type CreateOrderRequest struct {
	DealID         uuid.UUID `json:"deal_id" binding:"required"`
	PartnerID      uuid.UUID `json:"partner_id" binding:"required"`
	PickupCity     string    `json:"pickup_city" binding:"required,max=100"`
	PickupPincode  string    `json:"pickup_pincode" binding:"required,len=6"`
	DropoffCity    string    `json:"dropoff_city" binding:"required,max=100"`
	DropoffPincode string    `json:"dropoff_pincode" binding:"required,len=6"`
	DistanceKM     int       `json:"distance_km" binding:"required,min=1"`
}

// CancelOrderRequest cancels a transport order before pickup
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// OrderListFilter filters a dealer's transport orders
type OrderListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Status   string `form:"status" binding:"omitempty,oneof=quoted booked picked_up in_transit delivered cancelled"`
}

// PartnerResponse is the carrier with its rate card
type PartnerResponse struct {
	ID          uuid.UUID       `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Active      bool            `json:"active"`
	BaseFee     decimal.Decimal `json:"base_fee"`
	PerKMRate   decimal.Decimal `json:"per_km_rate"`
	PerKGRate   decimal.Decimal `json:"per_kg_rate"`
	MaxWeightKG int             `json:"max_weight_kg"`
	ContactName string          `json:"contact_name,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	Email       string          `json:"email,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// RouteQuoteResponse is one partner's price for a route
type RouteQuoteResponse struct {
	PartnerID   uuid.UUID       `json:"partner_id"`
	PartnerCode string          `json:"partner_code"`
	PartnerName string          `json:"partner_name"`
	DistanceKM  int             `json:"distance_km"`
	WeightKG    int             `json:"weight_kg"`
	Amount      decimal.Decimal `json:"amount"`
}

// OrderResponse is one transport order
type OrderResponse struct {
	ID             uuid.UUID       `json:"id"`
	OrderNumber    string          `json:"order_number"`
	DealID         uuid.UUID       `json:"deal_id"`
	VehicleID      uuid.UUID       `json:"vehicle_id"`
	PartnerID      uuid.UUID       `json:"partner_id"`
	BuyerDealerID  uuid.UUID       `json:"buyer_dealer_id"`
	Status         string          `json:"status"`
	PickupCity     string          `json:"pickup_city"`
	PickupPincode  string          `json:"pickup_pincode"`
	DropoffCity    string          `json:"dropoff_city"`
	DropoffPincode string          `json:"dropoff_pincode"`
	DistanceKM     int             `json:"distance_km"`
	WeightKG       int             `json:"weight_kg"`
	QuoteAmount    decimal.Decimal `json:"quote_amount"`
	BookedAt       *time.Time      `json:"booked_at,omitempty"`
	PickedUpAt     *time.Time      `json:"picked_up_at,omitempty"`
	DeliveredAt    *time.Time      `json:"delivered_at,omitempty"`
	CancelReason   string          `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToPartnerResponse converts a partner to its response DTO
func ToPartnerResponse(p *logistics.TransportPartner) *PartnerResponse {
	return &PartnerResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Active:      p.Active,
		BaseFee:     p.BaseFee,
		PerKMRate:   p.PerKMRate,
		PerKGRate:   p.PerKGRate,
		MaxWeightKG: p.MaxWeightKG,
		ContactName: p.ContactName,
		Phone:       p.Phone,
		Email:       p.Email,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToPartnerResponses converts a slice of partners
func ToPartnerResponses(partners []logistics.TransportPartner) []PartnerResponse {
	responses := make([]PartnerResponse, len(partners))
	for i := range partners {
		responses[i] = *ToPartnerResponse(&partners[i])
	}
	return responses
}

// ToOrderResponse converts a transport order to its response DTO
func ToOrderResponse(o *logistics.TransportOrder) *OrderResponse {
	return &OrderResponse{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		DealID:         o.DealID,
		VehicleID:      o.VehicleID,
		PartnerID:      o.PartnerID,
		BuyerDealerID:  o.DealerID,
		Status:         string(o.Status),
		PickupCity:     o.PickupCity,
		PickupPincode:  o.PickupPincode,
		DropoffCity:    o.DropoffCity,
		DropoffPincode: o.DropoffPincode,
		DistanceKM:     o.DistanceKM,
		WeightKG:       o.WeightKG,
		QuoteAmount:    o.QuoteAmount,
		BookedAt:       o.BookedAt,
		PickedUpAt:     o.PickedUpAt,
		DeliveredAt:    o.DeliveredAt,
		CancelReason:   o.CancelReason,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of orders
func ToOrderResponses(orders []logistics.TransportOrder) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = *ToOrderResponse(&orders[i])
	}
	return responses
}
