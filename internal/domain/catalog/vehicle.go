package catalog

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wheeltrade/backend/internal/domain/shared"
	"github.com/wheeltrade/backend/internal/domain/shared/valueobject"
)

// VehicleStatus represents the lifecycle status of a vehicle listing
type VehicleStatus string

const (
	VehicleStatusDraft    VehicleStatus = "draft"    // Created but not visible to other dealers
	VehicleStatusListed   VehicleStatus = "listed"   // Visible and open to offers
	VehicleStatusReserved VehicleStatus = "reserved" // Held by an accepted deal
	VehicleStatusSold     VehicleStatus = "sold"     // Transferred to the buying dealer
	VehicleStatusDelisted VehicleStatus = "delisted" // Withdrawn by the seller
)

// IsValid checks if the status is valid
func (s VehicleStatus) IsValid() bool {
	switch s {
	case VehicleStatusDraft, VehicleStatusListed, VehicleStatusReserved,
		VehicleStatusSold, VehicleStatusDelisted:
		return true
	}
	return false
}

// CanTransitionTo checks if transition to target status is allowed
func (s VehicleStatus) CanTransitionTo(target VehicleStatus) bool {
	transitions := map[VehicleStatus][]VehicleStatus{
		VehicleStatusDraft:    {VehicleStatusListed, VehicleStatusDelisted},
		VehicleStatusListed:   {VehicleStatusReserved, VehicleStatusDelisted},
		VehicleStatusReserved: {VehicleStatusSold, VehicleStatusListed},
		VehicleStatusSold:     {},
		VehicleStatusDelisted: {VehicleStatusListed},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// FuelType represents the vehicle's fuel type
type FuelType string

const (
	FuelPetrol   FuelType = "petrol"
	FuelDiesel   FuelType = "diesel"
	FuelCNG      FuelType = "cng"
	FuelElectric FuelType = "electric"
	FuelHybrid   FuelType = "hybrid"
)

// Transmission represents the vehicle's transmission type
type Transmission string

const (
	TransmissionManual    Transmission = "manual"
	TransmissionAutomatic Transmission = "automatic"
)

// Vehicle represents a vehicle listing owned by a selling dealer.
// It is the aggregate root for catalog operations. The acquisition cost
// and floor price are private to the owning dealer and must never be
// exposed to other dealers or while customer mode is active.
type Vehicle struct {
	shared.OwnedAggregateRoot
	VIN             valueobject.VIN `gorm:"type:varchar(17);not null;uniqueIndex"`
	RegistrationNo  string          `gorm:"type:varchar(15);index"`
	Make            string          `gorm:"type:varchar(100);not null"`
	Model           string          `gorm:"type:varchar(100);not null"`
	Variant         string          `gorm:"type:varchar(100)"`
	Year            int             `gorm:"not null"`
	FuelType        FuelType        `gorm:"type:varchar(20);not null"`
	Transmission    Transmission    `gorm:"type:varchar(20);not null"`
	OdometerKM      int             `gorm:"not null;default:0"`
	Color           string          `gorm:"type:varchar(50)"`
	OwnerCount      int             `gorm:"not null;default:1"` // Registered owners before this dealer
	Description     string          `gorm:"type:text"`
	Photos          string          `gorm:"type:jsonb"` // JSON array of storage keys
	AcquisitionCost decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	FloorPrice      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"` // Lowest acceptable sale price
	AskPrice        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"` // Listed asking price
	Status          VehicleStatus   `gorm:"type:varchar(20);not null;default:'draft'"`
	ReservedByDeal  *uuid.UUID      `gorm:"type:uuid;index"` // Deal holding the reservation
	ListedAt        *time.Time
	SoldAt          *time.Time
	WeightKG        int `gorm:"not null;default:1500"` // Kerb weight used for transport quotes
}

// TableName returns the table name for GORM
func (Vehicle) TableName() string {
	return "vehicles"
}

// NewVehicle creates a new vehicle listing in draft status
func NewVehicle(dealerID uuid.UUID, vin valueobject.VIN, make_, model string, year int) (*Vehicle, error) {
	if make_ == "" {
		return nil, shared.NewDomainError("INVALID_MAKE", "Make cannot be empty")
	}
	if model == "" {
		return nil, shared.NewDomainError("INVALID_MODEL", "Model cannot be empty")
	}
	if year < 1990 || year > time.Now().Year()+1 {
		return nil, shared.NewDomainError("INVALID_YEAR", "Year is out of range")
	}

	vehicle := &Vehicle{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(dealerID),
		VIN:                vin,
		Make:               make_,
		Model:              model,
		Year:               year,
		FuelType:           FuelPetrol,
		Transmission:       TransmissionManual,
		OwnerCount:         1,
		Status:             VehicleStatusDraft,
		Photos:             "[]",
		AcquisitionCost:    decimal.Zero,
		FloorPrice:         decimal.Zero,
		AskPrice:           decimal.Zero,
		WeightKG:           1500,
	}

	vehicle.AddDomainEvent(NewVehicleCreatedEvent(vehicle))

	return vehicle, nil
}

// UpdateDetails updates the descriptive fields of the listing.
// Details cannot change once the vehicle is reserved or sold.
func (v *Vehicle) UpdateDetails(variant, registrationNo, color, description string, fuel FuelType, transmission Transmission, odometerKM, ownerCount, weightKG int) error {
	if v.Status == VehicleStatusReserved || v.Status == VehicleStatusSold {
		return shared.ErrVehicleUnavailable
	}
	if odometerKM < 0 {
		return shared.NewDomainError("INVALID_ODOMETER", "Odometer reading cannot be negative")
	}
	if ownerCount < 1 {
		return shared.NewDomainError("INVALID_OWNER_COUNT", "Owner count must be at least 1")
	}
	if weightKG < 300 || weightKG > 5000 {
		return shared.NewDomainError("INVALID_WEIGHT", "Weight must be between 300 and 5000 kg")
	}
	if err := validateFuelType(fuel); err != nil {
		return err
	}
	if err := validateTransmission(transmission); err != nil {
		return err
	}

	v.Variant = variant
	v.RegistrationNo = registrationNo
	v.Color = color
	v.Description = description
	v.FuelType = fuel
	v.Transmission = transmission
	v.OdometerKM = odometerKM
	v.OwnerCount = ownerCount
	v.WeightKG = weightKG
	v.UpdatedAt = time.Now()
	v.IncrementVersion()

	return nil
}

// SetPricing sets the acquisition cost, floor price and ask price.
// The floor must cover the acquisition cost and the ask must reach the floor.
func (v *Vehicle) SetPricing(acquisitionCost, floorPrice, askPrice decimal.Decimal) error {
	if v.Status == VehicleStatusReserved || v.Status == VehicleStatusSold {
		return shared.ErrVehicleUnavailable
	}
	if acquisitionCost.IsNegative() || floorPrice.IsNegative() || askPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	if floorPrice.LessThan(acquisitionCost) {
		return shared.NewDomainError("INVALID_PRICE", "Floor price cannot be below acquisition cost")
	}
	if askPrice.LessThan(floorPrice) {
		return shared.NewDomainError("INVALID_PRICE", "Ask price cannot be below floor price")
	}

	v.AcquisitionCost = acquisitionCost
	v.FloorPrice = floorPrice
	v.AskPrice = askPrice
	v.UpdatedAt = time.Now()
	v.IncrementVersion()

	v.AddDomainEvent(NewVehiclePricedEvent(v))

	return nil
}

// SetPhotos replaces the listing photos with the given storage keys
func (v *Vehicle) SetPhotos(keys []string) error {
	if len(keys) > 20 {
		return shared.NewDomainError("TOO_MANY_PHOTOS", "A listing cannot have more than 20 photos")
	}
	if keys == nil {
		keys = []string{}
	}

	data, err := json.Marshal(keys)
	if err != nil {
		return shared.NewDomainError("INVALID_PHOTOS", "Failed to encode photo keys")
	}

	v.Photos = string(data)
	v.UpdatedAt = time.Now()
	v.IncrementVersion()

	return nil
}

// GetPhotos returns the listing photo storage keys
func (v *Vehicle) GetPhotos() []string {
	var keys []string
	if err := json.Unmarshal([]byte(v.Photos), &keys); err != nil {
		return []string{}
	}
	return keys
}

// List publishes the listing to the marketplace.
// Requires pricing to be set.
func (v *Vehicle) List() error {
	if !v.Status.CanTransitionTo(VehicleStatusListed) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Vehicle cannot be listed from status "+string(v.Status))
	}
	if v.AskPrice.IsZero() {
		return shared.NewDomainError("PRICING_NOT_SET", "Ask price must be set before listing")
	}

	oldStatus := v.Status
	now := time.Now()
	v.Status = VehicleStatusListed
	v.ListedAt = &now
	v.ReservedByDeal = nil
	v.UpdatedAt = now
	v.IncrementVersion()

	v.AddDomainEvent(NewVehicleStatusChangedEvent(v, oldStatus, VehicleStatusListed))

	return nil
}

// Reserve places the vehicle on hold for an accepted deal
func (v *Vehicle) Reserve(dealID uuid.UUID) error {
	if !v.Status.CanTransitionTo(VehicleStatusReserved) {
		return shared.ErrVehicleUnavailable
	}
	if dealID == uuid.Nil {
		return shared.NewDomainError("INVALID_DEAL_ID", "Deal ID cannot be empty")
	}

	oldStatus := v.Status
	v.Status = VehicleStatusReserved
	v.ReservedByDeal = &dealID
	v.UpdatedAt = time.Now()
	v.IncrementVersion()

	v.AddDomainEvent(NewVehicleStatusChangedEvent(v, oldStatus, VehicleStatusReserved))

	return nil
}

// Release returns a reserved vehicle to the listed state.
// Used when the holding deal is cancelled.
func (v *Vehicle) Release() error {
	if v.Status != VehicleStatusReserved {
		return shared.NewDomainError("NOT_RESERVED", "Vehicle is not reserved")
	}

	v.Status = VehicleStatusListed
	v.ReservedByDeal = nil
	v.UpdatedAt = time.Now()
	v.IncrementVersion()

	v.AddDomainEvent(NewVehicleStatusChangedEvent(v, VehicleStatusReserved, VehicleStatusListed))

	return nil
}

// MarkSold records completion of the sale.
// Only reserved vehicles can be sold, and only by the holding deal.
func (v *Vehicle) MarkSold(dealID uuid.UUID) error {
	if !v.Status.CanTransitionTo(VehicleStatusSold) {
		return shared.ErrVehicleUnavailable
	}
	if v.ReservedByDeal == nil || *v.ReservedByDeal != dealID {
		return shared.NewDomainError("RESERVATION_MISMATCH", "Vehicle is reserved by a different deal")
	}

	oldStatus := v.Status
	now := time.Now()
	v.Status = VehicleStatusSold
	v.SoldAt = &now
	v.UpdatedAt = now
	v.IncrementVersion()

	v.AddDomainEvent(NewVehicleStatusChangedEvent(v, oldStatus, VehicleStatusSold))

	return nil
}

// Delist withdraws the listing from the marketplace.
// Reserved vehicles must be released first.
func (v *Vehicle) Delist() error {
	if !v.Status.CanTransitionTo(VehicleStatusDelisted) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Vehicle cannot be delisted from status "+string(v.Status))
	}

	oldStatus := v.Status
	v.Status = VehicleStatusDelisted
	v.UpdatedAt = time.Now()
	v.IncrementVersion()

	v.AddDomainEvent(NewVehicleStatusChangedEvent(v, oldStatus, VehicleStatusDelisted))

	return nil
}

// IsListed returns true if the vehicle is open to offers
func (v *Vehicle) IsListed() bool {
	return v.Status == VehicleStatusListed
}

// IsReserved returns true if the vehicle is held by a deal
func (v *Vehicle) IsReserved() bool {
	return v.Status == VehicleStatusReserved
}

// IsSold returns true if the vehicle has been sold
func (v *Vehicle) IsSold() bool {
	return v.Status == VehicleStatusSold
}

// DisplayName returns a human-readable listing title
func (v *Vehicle) DisplayName() string {
	name := v.Make + " " + v.Model
	if v.Variant != "" {
		name += " " + v.Variant
	}
	return name
}

func validateFuelType(f FuelType) error {
	switch f {
	case FuelPetrol, FuelDiesel, FuelCNG, FuelElectric, FuelHybrid:
		return nil
	default:
		return shared.NewDomainError("INVALID_FUEL_TYPE", "Invalid fuel type")
	}
}

func validateTransmission(t Transmission) error {
	switch t {
	case TransmissionManual, TransmissionAutomatic:
		return nil
	default:
		return shared.NewDomainError("INVALID_TRANSMISSION", "Invalid transmission type")
	}
}
