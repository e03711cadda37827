package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wheeltrade/backend/internal/domain/catalog"
)

// CreateVehicleRequest adds a vehicle to the dealer's inventory
type CreateVehicleRequest struct {
	VIN            string `json:"vin" binding:"required,vin"`
	Make           string `json:"make" binding:"required,min=2,max=100"`
	Model          string `json:"model" binding:"required,min=1,max=100"`
	Variant        string `json:"variant" binding:"max=100"`
	Year           int    `json:"year" binding:"required,min=1990"`
	RegistrationNo string `json:"registration_no" binding:"max=15"`
	FuelType       string `json:"fuel_type" binding:"omitempty,oneof=petrol diesel cng electric hybrid"`
	Transmission   string `json:"transmission" binding:"omitempty,oneof=manual automatic"`
	OdometerKM     int    `json:"odometer_km" binding:"min=0"`
	Color          string `json:"color" binding:"max=50"`
	OwnerCount     int    `json:"owner_count" binding:"omitempty,min=1"`
	WeightKG       int    `json:"weight_kg" binding:"omitempty,min=300,max=5000"`
	Description    string `json:"description" binding:"max=2000"`
}

// UpdateVehicleRequest updates the descriptive fields of a listing
type UpdateVehicleRequest struct {
	Variant        *string `json:"variant" binding:"omitempty,max=100"`
	RegistrationNo *string `json:"registration_no" binding:"omitempty,max=15"`
	FuelType       *string `json:"fuel_type" binding:"omitempty,oneof=petrol diesel cng electric hybrid"`
	Transmission   *string `json:"transmission" binding:"omitempty,oneof=manual automatic"`
	OdometerKM     *int    `json:"odometer_km" binding:"omitempty,min=0"`
	Color          *string `json:"color" binding:"omitempty,max=50"`
	OwnerCount     *int    `json:"owner_count" binding:"omitempty,min=1"`
	WeightKG       *int    `json:"weight_kg" binding:"omitempty,min=300,max=5000"`
	Description    *string `json:"description" binding:"omitempty,max=2000"`
}

// SetPricingRequest sets the cost and price points of a listing
type SetPricingRequest struct {
	AcquisitionCost decimal.Decimal `json:"acquisition_cost" binding:"required"`
	FloorPrice      decimal.Decimal `json:"floor_price" binding:"required"`
	AskPrice        decimal.Decimal `json:"ask_price" binding:"required"`
}

// SetPhotosRequest replaces the listing photos with uploaded storage keys
type SetPhotosRequest struct {
	Keys []string `json:"keys" binding:"required,max=20,dive,min=1,max=500"`
}

// PhotoUploadRequest asks for a presigned upload slot for one photo
type PhotoUploadRequest struct {
	FileName    string `json:"file_name" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required,oneof=image/jpeg image/png image/webp"`
}

// PhotoUploadResponse carries the presigned upload URL and the storage
// key to confirm via SetPhotos once the upload finished
type PhotoUploadResponse struct {
	StorageKey string    `json:"storage_key"`
	UploadURL  string    `json:"upload_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// InventoryListFilter filters a dealer's own inventory
type InventoryListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=draft listed reserved sold delisted"`
}

// MarketplaceListFilter filters the cross-dealer marketplace view
type MarketplaceListFilter struct {
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
	OrderBy      string `form:"order_by"`
	OrderDir     string `form:"order_dir"`
	Search       string `form:"search"`
	Make         string `form:"make"`
	Model        string `form:"model"`
	FuelType     string `form:"fuel_type" binding:"omitempty,oneof=petrol diesel cng electric hybrid"`
	Transmission string `form:"transmission" binding:"omitempty,oneof=manual automatic"`
	YearFrom     int    `form:"year_from"`
	YearTo       int    `form:"year_to"`
	MaxPrice     string `form:"max_price"`
}

// VehicleResponse is the owner's view of a listing. Acquisition cost and
// floor price are cleared when the dealer is operating in customer mode.
type VehicleResponse struct {
	ID              uuid.UUID        `json:"id"`
	DealerID        uuid.UUID        `json:"dealer_id"`
	VIN             string           `json:"vin"`
	RegistrationNo  string           `json:"registration_no,omitempty"`
	Make            string           `json:"make"`
	Model           string           `json:"model"`
	Variant         string           `json:"variant,omitempty"`
	DisplayName     string           `json:"display_name"`
	Year            int              `json:"year"`
	FuelType        string           `json:"fuel_type"`
	Transmission    string           `json:"transmission"`
	OdometerKM      int              `json:"odometer_km"`
	Color           string           `json:"color,omitempty"`
	OwnerCount      int              `json:"owner_count"`
	WeightKG        int              `json:"weight_kg"`
	Description     string           `json:"description,omitempty"`
	Photos          []string         `json:"photos"`
	AcquisitionCost *decimal.Decimal `json:"acquisition_cost,omitempty"`
	FloorPrice      *decimal.Decimal `json:"floor_price,omitempty"`
	AskPrice        decimal.Decimal  `json:"ask_price"`
	Status          string           `json:"status"`
	ReservedByDeal  *uuid.UUID       `json:"reserved_by_deal,omitempty"`
	ListedAt        *time.Time       `json:"listed_at,omitempty"`
	SoldAt          *time.Time       `json:"sold_at,omitempty"`
	Version         int              `json:"version"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// MarketplaceVehicleResponse is the listing as other dealers see it.
// It never carries the acquisition cost or the floor price.
type MarketplaceVehicleResponse struct {
	ID           uuid.UUID       `json:"id"`
	DealerID     uuid.UUID       `json:"dealer_id"`
	VIN          string          `json:"vin"`
	Make         string          `json:"make"`
	Model        string          `json:"model"`
	Variant      string          `json:"variant,omitempty"`
	DisplayName  string          `json:"display_name"`
	Year         int             `json:"year"`
	FuelType     string          `json:"fuel_type"`
	Transmission string          `json:"transmission"`
	OdometerKM   int             `json:"odometer_km"`
	Color        string          `json:"color,omitempty"`
	OwnerCount   int             `json:"owner_count"`
	WeightKG     int             `json:"weight_kg"`
	Description  string          `json:"description,omitempty"`
	Photos       []string        `json:"photos"`
	AskPrice     decimal.Decimal `json:"ask_price"`
	Status       string          `json:"status"`
	ListedAt     *time.Time      `json:"listed_at,omitempty"`
}

// InventorySummaryResponse counts a dealer's inventory by status
type InventorySummaryResponse struct {
	Draft    int64 `json:"draft"`
	Listed   int64 `json:"listed"`
	Reserved int64 `json:"reserved"`
	Sold     int64 `json:"sold"`
	Delisted int64 `json:"delisted"`
	Total    int64 `json:"total"`
}

// ToVehicleResponse converts a vehicle to the owner's view.
// includePrivate controls whether cost fields are populated; it is false
// while the owning dealer runs in customer mode.
func ToVehicleResponse(v *catalog.Vehicle, includePrivate bool) *VehicleResponse {
	resp := &VehicleResponse{
		ID:             v.ID,
		DealerID:       v.DealerID,
		VIN:            v.VIN.String(),
		RegistrationNo: v.RegistrationNo,
		Make:           v.Make,
		Model:          v.Model,
		Variant:        v.Variant,
		DisplayName:    v.DisplayName(),
		Year:           v.Year,
		FuelType:       string(v.FuelType),
		Transmission:   string(v.Transmission),
		OdometerKM:     v.OdometerKM,
		Color:          v.Color,
		OwnerCount:     v.OwnerCount,
		WeightKG:       v.WeightKG,
		Description:    v.Description,
		Photos:         v.GetPhotos(),
		AskPrice:       v.AskPrice,
		Status:         string(v.Status),
		ReservedByDeal: v.ReservedByDeal,
		ListedAt:       v.ListedAt,
		SoldAt:         v.SoldAt,
		Version:        v.Version,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
	if includePrivate {
		cost := v.AcquisitionCost
		floor := v.FloorPrice
		resp.AcquisitionCost = &cost
		resp.FloorPrice = &floor
	}
	return resp
}

// ToMarketplaceVehicleResponse converts a vehicle to the cross-dealer view
func ToMarketplaceVehicleResponse(v *catalog.Vehicle) *MarketplaceVehicleResponse {
	return &MarketplaceVehicleResponse{
		ID:           v.ID,
		DealerID:     v.DealerID,
		VIN:          v.VIN.String(),
		Make:         v.Make,
		Model:        v.Model,
		Variant:      v.Variant,
		DisplayName:  v.DisplayName(),
		Year:         v.Year,
		FuelType:     string(v.FuelType),
		Transmission: string(v.Transmission),
		OdometerKM:   v.OdometerKM,
		Color:        v.Color,
		OwnerCount:   v.OwnerCount,
		WeightKG:     v.WeightKG,
		Description:  v.Description,
		Photos:       v.GetPhotos(),
		AskPrice:     v.AskPrice,
		Status:       string(v.Status),
		ListedAt:     v.ListedAt,
	}
}

// ToMarketplaceVehicleResponses converts a slice of vehicles
func ToMarketplaceVehicleResponses(vehicles []catalog.Vehicle) []MarketplaceVehicleResponse {
	responses := make([]MarketplaceVehicleResponse, len(vehicles))
	for i := range vehicles {
		responses[i] = *ToMarketplaceVehicleResponse(&vehicles[i])
	}
	return responses
}
