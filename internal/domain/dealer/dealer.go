package dealer

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wheeltrade/backend/internal/domain/shared"
	"github.com/wheeltrade/backend/internal/domain/shared/valueobject"
)

// DealerStatus represents the status of a dealer account
type DealerStatus string

const (
	DealerStatusPending   DealerStatus = "pending"   // Awaiting verification of registration identifiers
	DealerStatusActive    DealerStatus = "active"    // Verified and allowed to trade
	DealerStatusSuspended DealerStatus = "suspended" // Blocked from new deals
)

// Dealer represents a trading dealership.
// It is the aggregate root for dealer-related operations and owns the
// margin policy used when pricing that dealer's listings.
type Dealer struct {
	shared.BaseAggregateRoot
	Code          string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	BusinessName  string            `gorm:"type:varchar(200);not null"`
	LegalName     string            `gorm:"type:varchar(200)"`
	Status        DealerStatus      `gorm:"type:varchar(20);not null;default:'pending'"`
	GSTIN         valueobject.GSTIN `gorm:"type:varchar(15);not null;uniqueIndex"`
	PAN           valueobject.PAN   `gorm:"type:varchar(10);not null"`
	ContactName   string            `gorm:"type:varchar(100)"`
	Phone         string            `gorm:"type:varchar(50);index"`
	Email         string            `gorm:"type:varchar(200);index"`
	Address       string            `gorm:"type:text"`
	City          string            `gorm:"type:varchar(100)"`
	State         string            `gorm:"type:varchar(100)"`
	Pincode       string            `gorm:"type:varchar(10)"`
	BankAccount   string            `gorm:"type:varchar(30)"` // Settlement account for escrow payouts
	BankIFSC      valueobject.IFSC  `gorm:"type:varchar(11)"`
	MinMarginPct  decimal.Decimal   `gorm:"type:decimal(5,2);not null;default:0"` // Floor below which listings cannot be priced
	TargetMargin  decimal.Decimal   `gorm:"type:decimal(5,2);not null;default:0"` // Desired margin used as the default ask
	CustomerMode  bool              `gorm:"not null;default:false"`               // When set, floor prices are hidden from responses
	SuspendReason string            `gorm:"type:varchar(500)"`
	Notes         string            `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Dealer) TableName() string {
	return "dealers"
}

// NewDealer registers a new dealer in pending status.
// The registration identifiers must already be validated value objects.
func NewDealer(code, businessName string, gstin valueobject.GSTIN, pan valueobject.PAN) (*Dealer, error) {
	if err := validateDealerCode(code); err != nil {
		return nil, err
	}
	if err := validateBusinessName(businessName); err != nil {
		return nil, err
	}
	if gstin.PAN() != pan.String() {
		return nil, shared.NewDomainError("PAN_MISMATCH", "GSTIN does not embed the provided PAN")
	}

	dealer := &Dealer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		BusinessName:      businessName,
		Status:            DealerStatusPending,
		GSTIN:             gstin,
		PAN:               pan,
		MinMarginPct:      decimal.Zero,
		TargetMargin:      decimal.Zero,
	}

	dealer.AddDomainEvent(NewDealerRegisteredEvent(dealer))

	return dealer, nil
}

// Update updates the dealer's basic information
func (d *Dealer) Update(businessName, legalName string) error {
	if err := validateBusinessName(businessName); err != nil {
		return err
	}
	if legalName != "" && len(legalName) > 200 {
		return shared.NewDomainError("INVALID_LEGAL_NAME", "Legal name cannot exceed 200 characters")
	}

	d.BusinessName = businessName
	d.LegalName = legalName
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	d.AddDomainEvent(NewDealerUpdatedEvent(d))

	return nil
}

// SetContact sets the dealer's contact information
func (d *Dealer) SetContact(contactName, phone, email string) error {
	if contactName != "" && len(contactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}

	d.ContactName = contactName
	d.Phone = phone
	d.Email = email
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return nil
}

// SetAddress sets the dealer's registered address
func (d *Dealer) SetAddress(address, city, state, pincode string) error {
	if address != "" && len(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}
	if city != "" && len(city) > 100 {
		return shared.NewDomainError("INVALID_CITY", "City cannot exceed 100 characters")
	}
	if state != "" && len(state) > 100 {
		return shared.NewDomainError("INVALID_STATE", "State cannot exceed 100 characters")
	}
	if pincode != "" && !pincodePattern.MatchString(pincode) {
		return shared.NewDomainError("INVALID_PINCODE", "Pincode must be six digits")
	}

	d.Address = address
	d.City = city
	d.State = state
	d.Pincode = pincode
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return nil
}

// SetBankAccount sets the settlement account used for escrow payouts
func (d *Dealer) SetBankAccount(accountNumber string, ifsc valueobject.IFSC) error {
	if accountNumber == "" {
		return shared.NewDomainError("INVALID_BANK_ACCOUNT", "Account number cannot be empty")
	}
	if len(accountNumber) < 9 || len(accountNumber) > 18 {
		return shared.NewDomainError("INVALID_BANK_ACCOUNT", "Account number must be between 9 and 18 digits")
	}
	for _, r := range accountNumber {
		if r < '0' || r > '9' {
			return shared.NewDomainError("INVALID_BANK_ACCOUNT", "Account number can only contain digits")
		}
	}

	d.BankAccount = accountNumber
	d.BankIFSC = ifsc
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return nil
}

// SetMarginPolicy sets the dealer's pricing margin policy.
// The minimum margin must not exceed the target margin.
func (d *Dealer) SetMarginPolicy(minPct, targetPct decimal.Decimal) error {
	if minPct.IsNegative() || targetPct.IsNegative() {
		return shared.NewDomainError("INVALID_MARGIN", "Margin percentages cannot be negative")
	}
	if minPct.GreaterThan(decimal.NewFromInt(100)) || targetPct.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_MARGIN", "Margin percentages cannot exceed 100")
	}
	if minPct.GreaterThan(targetPct) {
		return shared.NewDomainError("INVALID_MARGIN", "Minimum margin cannot exceed target margin")
	}

	d.MinMarginPct = minPct
	d.TargetMargin = targetPct
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	d.AddDomainEvent(NewDealerMarginPolicyChangedEvent(d))

	return nil
}

// SetCustomerMode toggles customer mode.
// While enabled, floor prices and margins are stripped from listing responses
// so the dealer can show the catalog to a walk-in buyer.
func (d *Dealer) SetCustomerMode(enabled bool) {
	d.CustomerMode = enabled
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
}

// SetNotes sets the dealer's notes
func (d *Dealer) SetNotes(notes string) {
	d.Notes = notes
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
}

// Activate moves the dealer to active status after verification.
// Only pending and suspended dealers can be activated.
func (d *Dealer) Activate() error {
	if d.Status == DealerStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Dealer is already active")
	}

	oldStatus := d.Status
	d.Status = DealerStatusActive
	d.SuspendReason = ""
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	d.AddDomainEvent(NewDealerStatusChangedEvent(d, oldStatus, DealerStatusActive))

	return nil
}

// Suspend blocks the dealer from opening new deals.
// Pending dealers cannot be suspended; reject their verification instead.
func (d *Dealer) Suspend(reason string) error {
	if d.Status == DealerStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Dealer is already suspended")
	}
	if d.Status == DealerStatusPending {
		return shared.NewDomainError("INVALID_STATUS", "Pending dealers cannot be suspended")
	}
	if len(reason) > 500 {
		return shared.NewDomainError("INVALID_REASON", "Suspend reason cannot exceed 500 characters")
	}

	oldStatus := d.Status
	d.Status = DealerStatusSuspended
	d.SuspendReason = reason
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	d.AddDomainEvent(NewDealerStatusChangedEvent(d, oldStatus, DealerStatusSuspended))

	return nil
}

// IsActive returns true if the dealer is active
func (d *Dealer) IsActive() bool {
	return d.Status == DealerStatusActive
}

// IsPending returns true if the dealer is awaiting verification
func (d *Dealer) IsPending() bool {
	return d.Status == DealerStatusPending
}

// IsSuspended returns true if the dealer is suspended
func (d *Dealer) IsSuspended() bool {
	return d.Status == DealerStatusSuspended
}

// CanTrade returns true if the dealer may open or respond to deals
func (d *Dealer) CanTrade() bool {
	return d.Status == DealerStatusActive
}

// HasBankAccount returns true if a settlement account is configured
func (d *Dealer) HasBankAccount() bool {
	return d.BankAccount != "" && d.BankIFSC != ""
}

// GetFullAddress returns the formatted registered address
func (d *Dealer) GetFullAddress() string {
	parts := []string{}
	if d.Address != "" {
		parts = append(parts, d.Address)
	}
	if d.City != "" {
		parts = append(parts, d.City)
	}
	if d.State != "" {
		parts = append(parts, d.State)
	}
	if d.Pincode != "" {
		parts = append(parts, d.Pincode)
	}
	return strings.Join(parts, ", ")
}

// Validation functions

var pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

func validateDealerCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Dealer code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Dealer code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Dealer code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateBusinessName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Business name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Business name cannot exceed 200 characters")
	}
	return nil
}

func validatePhone(phone string) error {
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
	}
	validPhone := regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	if !validPhone.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
