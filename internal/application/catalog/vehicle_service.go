package catalog

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wheeltrade/backend/internal/domain/catalog"
	"github.com/wheeltrade/backend/internal/domain/dealer"
	"github.com/wheeltrade/backend/internal/domain/shared"
	"github.com/wheeltrade/backend/internal/domain/shared/valueobject"
)

const photoUploadExpiry = 15 * time.Minute

// PhotoStorage is the slice of object storage the catalog needs for
// listing photos.
type PhotoStorage interface {
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
}

// VehicleService implements inventory and marketplace use cases
type VehicleService struct {
	vehicleRepo    catalog.VehicleRepository
	dealerRepo     dealer.DealerRepository
	photoStorage   PhotoStorage
	eventPublisher shared.EventPublisher
}

// NewVehicleService creates a new vehicle application service
func NewVehicleService(vehicleRepo catalog.VehicleRepository, dealerRepo dealer.DealerRepository, photoStorage PhotoStorage) *VehicleService {
	return &VehicleService{
		vehicleRepo:  vehicleRepo,
		dealerRepo:   dealerRepo,
		photoStorage: photoStorage,
	}
}

// SetEventPublisher sets the event publisher for the service
func (s *VehicleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create adds a vehicle to the dealer's inventory in draft status
func (s *VehicleService) Create(ctx context.Context, dealerID uuid.UUID, req CreateVehicleRequest) (*VehicleResponse, error) {
	d, err := s.dealerRepo.FindByID(ctx, dealerID)
	if err != nil {
		return nil, err
	}
	if d.IsSuspended() {
		return nil, shared.ErrDealerSuspended
	}

	vin, err := valueobject.NewVIN(req.VIN)
	if err != nil {
		return nil, err
	}

	exists, err := s.vehicleRepo.ExistsByVIN(ctx, vin)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A vehicle with this VIN is already registered")
	}

	v, err := catalog.NewVehicle(dealerID, vin, req.Make, req.Model, req.Year)
	if err != nil {
		return nil, err
	}

	fuel := v.FuelType
	if req.FuelType != "" {
		fuel = catalog.FuelType(req.FuelType)
	}
	transmission := v.Transmission
	if req.Transmission != "" {
		transmission = catalog.Transmission(req.Transmission)
	}
	ownerCount := v.OwnerCount
	if req.OwnerCount > 0 {
		ownerCount = req.OwnerCount
	}
	weightKG := v.WeightKG
	if req.WeightKG > 0 {
		weightKG = req.WeightKG
	}

	if err := v.UpdateDetails(req.Variant, req.RegistrationNo, req.Color, req.Description,
		fuel, transmission, req.OdometerKM, ownerCount, weightKG); err != nil {
		return nil, err
	}

	if err := s.vehicleRepo.Save(ctx, v); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, v)

	return ToVehicleResponse(v, !d.CustomerMode), nil
}

// Get returns a listing. The owner gets the full view subject to customer
// mode; any other dealer only sees marketplace-visible listings without
// the private cost fields.
func (s *VehicleService) Get(ctx context.Context, requesterID, vehicleID uuid.UUID) (*VehicleResponse, error) {
	v, err := s.vehicleRepo.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	if v.DealerID == requesterID {
		d, err := s.dealerRepo.FindByID(ctx, requesterID)
		if err != nil {
			return nil, err
		}
		return ToVehicleResponse(v, !d.CustomerMode), nil
	}

	if v.Status != catalog.VehicleStatusListed && v.Status != catalog.VehicleStatusReserved {
		return nil, shared.ErrNotFound
	}
	return ToVehicleResponse(v, false), nil
}

// ListInventory returns the dealer's own vehicles
func (s *VehicleService) ListInventory(ctx context.Context, dealerID uuid.UUID, req InventoryListFilter) ([]VehicleResponse, int64, error) {
	d, err := s.dealerRepo.FindByID(ctx, dealerID)
	if err != nil {
		return nil, 0, err
	}

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
		filter.OrderDir = "desc"
	}

	var vehicles []catalog.Vehicle
	if req.Status != "" {
		vehicles, err = s.vehicleRepo.FindByStatus(ctx, dealerID, catalog.VehicleStatus(req.Status), filter)
	} else {
		vehicles, err = s.vehicleRepo.FindAllForDealer(ctx, dealerID, filter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.vehicleRepo.CountForDealer(ctx, dealerID)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]VehicleResponse, len(vehicles))
	for i := range vehicles {
		responses[i] = *ToVehicleResponse(&vehicles[i], !d.CustomerMode)
	}
	return responses, total, nil
}

// ListMarketplace returns listed vehicles from other dealers
func (s *VehicleService) ListMarketplace(ctx context.Context, requesterID uuid.UUID, req MarketplaceListFilter) ([]MarketplaceVehicleResponse, int64, error) {
	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "listed_at"
		filter.OrderDir = "desc"
	}
	if req.Make != "" {
		filter.Filters["make"] = req.Make
	}
	if req.Model != "" {
		filter.Filters["model"] = req.Model
	}
	if req.FuelType != "" {
		filter.Filters["fuel_type"] = req.FuelType
	}
	if req.Transmission != "" {
		filter.Filters["transmission"] = req.Transmission
	}
	if req.YearFrom > 0 {
		filter.Filters["year_from"] = req.YearFrom
	}
	if req.YearTo > 0 {
		filter.Filters["year_to"] = req.YearTo
	}
	if req.MaxPrice != "" {
		filter.Filters["max_price"] = req.MaxPrice
	}

	var exclude *uuid.UUID
	if requesterID != uuid.Nil {
		exclude = &requesterID
	}

	vehicles, err := s.vehicleRepo.FindListed(ctx, exclude, filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.vehicleRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToMarketplaceVehicleResponses(vehicles), total, nil
}

// Update changes the descriptive fields of a listing
func (s *VehicleService) Update(ctx context.Context, dealerID, vehicleID uuid.UUID, req UpdateVehicleRequest) (*VehicleResponse, error) {
	v, err := s.vehicleRepo.FindByIDForDealer(ctx, dealerID, vehicleID)
	if err != nil {
		return nil, err
	}

	variant := v.Variant
	if req.Variant != nil {
		variant = *req.Variant
	}
	registrationNo := v.RegistrationNo
	if req.RegistrationNo != nil {
		registrationNo = *req.RegistrationNo
	}
	color := v.Color
	if req.Color != nil {
		color = *req.Color
	}
	description := v.Description
	if req.Description != nil {
		description = *req.Description
	}
	fuel := v.FuelType
	if req.FuelType != nil {
		fuel = catalog.FuelType(*req.FuelType)
	}
	transmission := v.Transmission
	if req.Transmission != nil {
		transmission = catalog.Transmission(*req.Transmission)
	}
	odometerKM := v.OdometerKM
	if req.OdometerKM != nil {
		odometerKM = *req.OdometerKM
	}
	ownerCount := v.OwnerCount
	if req.OwnerCount != nil {
		ownerCount = *req.OwnerCount
	}
	weightKG := v.WeightKG
	if req.WeightKG != nil {
		weightKG = *req.WeightKG
	}

	if err := v.UpdateDetails(variant, registrationNo, color, description,
		fuel, transmission, odometerKM, ownerCount, weightKG); err != nil {
		return nil, err
	}

	if err := s.vehicleRepo.SaveWithLock(ctx, v); err != nil {
		return nil, err
	}

	return s.ownerView(ctx, dealerID, v)
}

// SetPricing sets the acquisition cost, floor price and ask price
func (s *VehicleService) SetPricing(ctx context.Context, dealerID, vehicleID uuid.UUID, req SetPricingRequest) (*VehicleResponse, error) {
	v, err := s.vehicleRepo.FindByIDForDealer(ctx, dealerID, vehicleID)
	if err != nil {
		return nil, err
	}

	if err := v.SetPricing(req.AcquisitionCost, req.FloorPrice, req.AskPrice); err != nil {
		return nil, err
	}

	if err := s.vehicleRepo.SaveWithLock(ctx, v); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, v)

	return s.ownerView(ctx, dealerID, v)
}

// List publishes the listing to the marketplace
func (s *VehicleService) List(ctx context.Context, dealerID, vehicleID uuid.UUID) (*VehicleResponse, error) {
	d, err := s.dealerRepo.FindByID(ctx, dealerID)
	if err != nil {
		return nil, err
	}
	if !d.CanTrade() {
		return nil, shared.ErrDealerSuspended
	}

	v, err := s.vehicleRepo.FindByIDForDealer(ctx, dealerID, vehicleID)
	if err != nil {
		return nil, err
	}

	if err := v.List(); err != nil {
		return nil, err
	}

	if err := s.vehicleRepo.SaveWithLock(ctx, v); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, v)

	return ToVehicleResponse(v, !d.CustomerMode), nil
}

// Delist withdraws the listing from the marketplace
func (s *VehicleService) Delist(ctx context.Context, dealerID, vehicleID uuid.UUID) (*VehicleResponse, error) {
	v, err := s.vehicleRepo.FindByIDForDealer(ctx, dealerID, vehicleID)
	if err != nil {
		return nil, err
	}

	if err := v.Delist(); err != nil {
		return nil, err
	}

	if err := s.vehicleRepo.SaveWithLock(ctx, v); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, v)

	return s.ownerView(ctx, dealerID, v)
}

// RequestPhotoUpload issues a presigned upload URL for one listing photo
func (s *VehicleService) RequestPhotoUpload(ctx context.Context, dealerID, vehicleID uuid.UUID, req PhotoUploadRequest) (*PhotoUploadResponse, error) {
	if s.photoStorage == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "Photo storage is not configured")
	}

	v, err := s.vehicleRepo.FindByIDForDealer(ctx, dealerID, vehicleID)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(path.Ext(req.FileName))
	if ext == "" {
		ext = ".jpg"
	}
	storageKey := fmt.Sprintf("vehicles/%s/%s%s", v.ID, uuid.New(), ext)

	url, expiresAt, err := s.photoStorage.GenerateUploadURL(ctx, storageKey, req.ContentType, photoUploadExpiry)
	if err != nil {
		return nil, err
	}

	return &PhotoUploadResponse{
		StorageKey: storageKey,
		UploadURL:  url,
		ExpiresAt:  expiresAt,
	}, nil
}

// SetPhotos replaces the listing photos with confirmed storage keys
func (s *VehicleService) SetPhotos(ctx context.Context, dealerID, vehicleID uuid.UUID, req SetPhotosRequest) (*VehicleResponse, error) {
	v, err := s.vehicleRepo.FindByIDForDealer(ctx, dealerID, vehicleID)
	if err != nil {
		return nil, err
	}

	for _, key := range req.Keys {
		prefix := fmt.Sprintf("vehicles/%s/", v.ID)
		if !strings.HasPrefix(key, prefix) {
			return nil, shared.NewDomainError("INVALID_PHOTO_KEY", "Photo key does not belong to this vehicle")
		}
	}

	if err := v.SetPhotos(req.Keys); err != nil {
		return nil, err
	}

	if err := s.vehicleRepo.SaveWithLock(ctx, v); err != nil {
		return nil, err
	}

	return s.ownerView(ctx, dealerID, v)
}

// GetPhotoURL issues a presigned download URL for a listing photo.
// Photos of marketplace-visible vehicles may be fetched by any dealer.
func (s *VehicleService) GetPhotoURL(ctx context.Context, requesterID, vehicleID uuid.UUID, storageKey string) (string, error) {
	if s.photoStorage == nil {
		return "", shared.NewDomainError("STORAGE_UNAVAILABLE", "Photo storage is not configured")
	}

	v, err := s.vehicleRepo.FindByID(ctx, vehicleID)
	if err != nil {
		return "", err
	}
	if v.DealerID != requesterID && v.Status != catalog.VehicleStatusListed && v.Status != catalog.VehicleStatusReserved {
		return "", shared.ErrNotFound
	}

	found := false
	for _, key := range v.GetPhotos() {
		if key == storageKey {
			found = true
			break
		}
	}
	if !found {
		return "", shared.ErrNotFound
	}

	url, _, err := s.photoStorage.GenerateDownloadURL(ctx, storageKey, photoUploadExpiry)
	return url, err
}

// Delete removes a draft or delisted vehicle from the inventory
func (s *VehicleService) Delete(ctx context.Context, dealerID, vehicleID uuid.UUID) error {
	v, err := s.vehicleRepo.FindByIDForDealer(ctx, dealerID, vehicleID)
	if err != nil {
		return err
	}

	if v.Status != catalog.VehicleStatusDraft && v.Status != catalog.VehicleStatusDelisted {
		return shared.NewDomainError("VEHICLE_IN_USE", "Only draft or delisted vehicles can be deleted")
	}

	return s.vehicleRepo.Delete(ctx, v.ID)
}

// GetInventorySummary counts the dealer's vehicles by status
func (s *VehicleService) GetInventorySummary(ctx context.Context, dealerID uuid.UUID) (*InventorySummaryResponse, error) {
	summary := &InventorySummaryResponse{}
	counts := []struct {
		status catalog.VehicleStatus
		target *int64
	}{
		{catalog.VehicleStatusDraft, &summary.Draft},
		{catalog.VehicleStatusListed, &summary.Listed},
		{catalog.VehicleStatusReserved, &summary.Reserved},
		{catalog.VehicleStatusSold, &summary.Sold},
		{catalog.VehicleStatusDelisted, &summary.Delisted},
	}
	for _, c := range counts {
		n, err := s.vehicleRepo.CountByStatus(ctx, dealerID, c.status)
		if err != nil {
			return nil, err
		}
		*c.target = n
		summary.Total += n
	}
	return summary, nil
}

func (s *VehicleService) ownerView(ctx context.Context, dealerID uuid.UUID, v *catalog.Vehicle) (*VehicleResponse, error) {
	d, err := s.dealerRepo.FindByID(ctx, dealerID)
	if err != nil {
		return nil, err
	}
	return ToVehicleResponse(v, !d.CustomerMode), nil
}

func (s *VehicleService) publishEvents(ctx context.Context, v *catalog.Vehicle) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range v.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	v.ClearDomainEvents()
}
