// Package dealer implements dealership account management: registration,
// profile and bank updates, margin policy and account status.
package dealer

import (
	"context"

	"github.com/google/uuid"
	"github.com/wheeltrade/backend/internal/domain/dealer"
	"github.com/wheeltrade/backend/internal/domain/identity"
	"github.com/wheeltrade/backend/internal/domain/shared"
	"github.com/wheeltrade/backend/internal/domain/shared/valueobject"
)

// DealerService handles dealer account operations
type DealerService struct {
	dealerRepo     dealer.DealerRepository
	userRepo       identity.UserRepository
	eventPublisher shared.EventPublisher
}

// NewDealerService creates a new DealerService
func NewDealerService(dealerRepo dealer.DealerRepository, userRepo identity.UserRepository) *DealerService {
	return &DealerService{
		dealerRepo: dealerRepo,
		userRepo:   userRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *DealerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Register creates a dealership in pending status together with its
// owner login
func (s *DealerService) Register(ctx context.Context, req RegisterDealerRequest) (*DealerResponse, error) {
	gstin, err := valueobject.NewGSTIN(req.GSTIN)
	if err != nil {
		return nil, err
	}
	pan, err := valueobject.NewPAN(req.PAN)
	if err != nil {
		return nil, err
	}

	exists, err := s.dealerRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Dealer with this code already exists")
	}

	exists, err = s.dealerRepo.ExistsByGSTIN(ctx, gstin)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Dealer with this GSTIN already exists")
	}

	exists, err = s.userRepo.ExistsByUsername(ctx, req.OwnerUsername)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	}

	d, err := dealer.NewDealer(req.Code, req.BusinessName, gstin, pan)
	if err != nil {
		return nil, err
	}

	if req.LegalName != "" {
		if err := d.Update(req.BusinessName, req.LegalName); err != nil {
			return nil, err
		}
	}
	if req.ContactName != "" || req.Phone != "" || req.Email != "" {
		if err := d.SetContact(req.ContactName, req.Phone, req.Email); err != nil {
			return nil, err
		}
	}
	if req.Address != "" || req.City != "" || req.State != "" || req.Pincode != "" {
		if err := d.SetAddress(req.Address, req.City, req.State, req.Pincode); err != nil {
			return nil, err
		}
	}

	owner, err := identity.NewOwnerUser(d.ID, req.OwnerUsername, req.OwnerPassword)
	if err != nil {
		return nil, err
	}

	if err := s.dealerRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, owner); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, d)
	s.publishUserEvents(ctx, owner)

	response := ToDealerResponse(d)
	return &response, nil
}

// Get returns the owner-facing view of a dealer account
func (s *DealerService) Get(ctx context.Context, dealerID uuid.UUID) (*DealerResponse, error) {
	d, err := s.dealerRepo.FindByID(ctx, dealerID)
	if err != nil {
		return nil, err
	}

	response := ToDealerResponse(d)
	return &response, nil
}

// GetPublic returns the trimmed view of a dealer exposed to other dealers
func (s *DealerService) GetPublic(ctx context.Context, dealerID uuid.UUID) (*PublicDealerResponse, error) {
	d, err := s.dealerRepo.FindByID(ctx, dealerID)
	if err != nil {
		return nil, err
	}

	response := ToPublicDealerResponse(d)
	return &response, nil
}

// List returns dealers matching the filter, in the public view
func (s *DealerService) List(ctx context.Context, filter DealerListFilter) ([]PublicDealerResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "business_name"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.City != "" {
		domainFilter.Filters["city"] = filter.City
	}
	if filter.StateCode != "" {
		domainFilter.Filters["state_code"] = filter.StateCode
	}

	dealers, err := s.dealerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.dealerRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPublicDealerResponses(dealers), total, nil
}

// Update updates the dealer's profile
func (s *DealerService) Update(ctx context.Context, dealerID uuid.UUID, req UpdateDealerRequest) (*DealerResponse, error) {
	d, err := s.dealerRepo.FindByID(ctx, dealerID)
	if err != nil {
		return nil, err
	}

	if req.BusinessName != nil || req.LegalName != nil {
		businessName := d.BusinessName
		legalName := d.LegalName
		if req.BusinessName != nil {
			businessName = *req.BusinessName
		}
		if req.LegalName != nil {
			legalName = *req.LegalName
		}
		if err := d.Update(businessName, legalName); err != nil {
			return nil, err
		}
	}

	if req.ContactName != nil || req.Phone != nil || req.Email != nil {
		contactName := d.ContactName
		phone := d.Phone
		email := d.Email
		if req.ContactName != nil {
			contactName = *req.ContactName
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Email != nil {
			email = *req.Email
		}
		if err := d.SetContact(contactName, phone, email); err != nil {
			return nil, err
		}
	}

	if req.Address != nil || req.City != nil || req.State != nil || req.Pincode != nil {
		address := d.Address
		city := d.City
		state := d.State
		pincode := d.Pincode
		if req.Address != nil {
			address = *req.Address
		}
		if req.City != nil {
			city = *req.City
		}
		if req.State != nil {
			state = *req.State
		}
		if req.Pincode != nil {
			pincode = *req.Pincode
		}
		if err := d.SetAddress(address, city, state, pincode); err != nil {
			return nil, err
		}
	}

	if req.Notes != nil {
		d.SetNotes(*req.Notes)
	}

	if err := s.dealerRepo.SaveWithLock(ctx, d); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, d)

	response := ToDealerResponse(d)
	return &response, nil
}

// UpdateBankAccount replaces the settlement account. Owner only.
func (s *DealerService) UpdateBankAccount(ctx context.Context, dealerID uuid.UUID, req UpdateBankAccountRequest) (*DealerResponse, error) {
	ifsc, err := valueobject.NewIFSC(req.IFSC)
	if err != nil {
		return nil, err
	}

	d, err := s.dealerRepo.FindByID(ctx, dealerID)
	if err != nil {
		return nil, err
	}

	if err := d.SetBankAccount(req.AccountNumber, ifsc); err != nil {
		return nil, err
	}
	if err := s.dealerRepo.SaveWithLock(ctx, d); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, d)

	response := ToDealerResponse(d)
	return &response, nil
}

// UpdateMarginPolicy replaces the dealer's margin policy. Owner only.
func (s *DealerService) UpdateMarginPolicy(ctx context.Context, dealerID uuid.UUID, req UpdateMarginPolicyRequest) (*DealerResponse, error) {
	d, err := s.dealerRepo.FindByID(ctx, dealerID)
	if err != nil {
		return nil, err
	}

	if err := d.SetMarginPolicy(req.MinMarginPct, req.TargetMargin); err != nil {
		return nil, err
	}
	if err := s.dealerRepo.SaveWithLock(ctx, d); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, d)

	response := ToDealerResponse(d)
	return &response, nil
}

// SetCustomerMode toggles hiding of acquisition cost and floor prices
// while a walk-in customer is at the desk
func (s *DealerService) SetCustomerMode(ctx context.Context, dealerID uuid.UUID, enabled bool) (*DealerResponse, error) {
	d, err := s.dealerRepo.FindByID(ctx, dealerID)
	if err != nil {
		return nil, err
	}

	d.SetCustomerMode(enabled)
	if err := s.dealerRepo.SaveWithLock(ctx, d); err != nil {
		return nil, err
	}

	response := ToDealerResponse(d)
	return &response, nil
}

// Activate verifies and activates a pending or suspended dealer
func (s *DealerService) Activate(ctx context.Context, dealerID uuid.UUID) (*DealerResponse, error) {
	d, err := s.dealerRepo.FindByID(ctx, dealerID)
	if err != nil {
		return nil, err
	}

	if err := d.Activate(); err != nil {
		return nil, err
	}
	if err := s.dealerRepo.SaveWithLock(ctx, d); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, d)

	response := ToDealerResponse(d)
	return &response, nil
}

// Suspend blocks a dealer from opening new deals
func (s *DealerService) Suspend(ctx context.Context, dealerID uuid.UUID, req SuspendDealerRequest) (*DealerResponse, error) {
	d, err := s.dealerRepo.FindByID(ctx, dealerID)
	if err != nil {
		return nil, err
	}

	if err := d.Suspend(req.Reason); err != nil {
		return nil, err
	}
	if err := s.dealerRepo.SaveWithLock(ctx, d); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, d)

	response := ToDealerResponse(d)
	return &response, nil
}

func (s *DealerService) publishEvents(ctx context.Context, d *dealer.Dealer) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range d.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	d.ClearDomainEvents()
}

func (s *DealerService) publishUserEvents(ctx context.Context, u *identity.User) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range u.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	u.ClearDomainEvents()
}
