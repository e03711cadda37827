package dealer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wheeltrade/backend/internal/domain/dealer"
)

// RegisterDealerRequest registers a dealership together with its owner login
type RegisterDealerRequest struct {
	Code         string `json:"code" binding:"required,min=3,max=50"`
	BusinessName string `json:"business_name" binding:"required,min=2,max=200"`
	LegalName    string `json:"legal_name" binding:"max=200"`
	GSTIN        string `json:"gstin" binding:"required,gstin"`
	PAN          string `json:"pan" binding:"required,pan"`
	ContactName  string `json:"contact_name" binding:"max=100"`
	Phone        string `json:"phone" binding:"max=50"`
	Email        string `json:"email" binding:"omitempty,email,max=200"`
	Address      string `json:"address" binding:"max=500"`
	City         string `json:"city" binding:"max=100"`
	State        string `json:"state" binding:"max=100"`
	Pincode      string `json:"pincode" binding:"omitempty,len=6"`

	// Owner login created together with the dealership
	OwnerUsername string `json:"owner_username" binding:"required,min=3,max=100"`
	OwnerPassword string `json:"owner_password" binding:"required,min=8,max=100"`
}

// UpdateDealerRequest updates dealer profile fields
type UpdateDealerRequest struct {
	BusinessName *string `json:"business_name" binding:"omitempty,min=2,max=200"`
	LegalName    *string `json:"legal_name" binding:"omitempty,max=200"`
	ContactName  *string `json:"contact_name" binding:"omitempty,max=100"`
	Phone        *string `json:"phone" binding:"omitempty,max=50"`
	Email        *string `json:"email" binding:"omitempty,email,max=200"`
	Address      *string `json:"address" binding:"omitempty,max=500"`
	City         *string `json:"city" binding:"omitempty,max=100"`
	State        *string `json:"state" binding:"omitempty,max=100"`
	Pincode      *string `json:"pincode" binding:"omitempty,len=6"`
	Notes        *string `json:"notes"`
}

// UpdateBankAccountRequest replaces the settlement account
type UpdateBankAccountRequest struct {
	AccountNumber string `json:"account_number" binding:"required,min=9,max=18"`
	IFSC          string `json:"ifsc" binding:"required,ifsc"`
}

// UpdateMarginPolicyRequest replaces the dealer's margin policy
type UpdateMarginPolicyRequest struct {
	MinMarginPct decimal.Decimal `json:"min_margin_pct" binding:"required"`
	TargetMargin decimal.Decimal `json:"target_margin_pct" binding:"required"`
}

// SuspendDealerRequest suspends a dealer account
type SuspendDealerRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// SetCustomerModeRequest toggles floor-price hiding
type SetCustomerModeRequest struct {
	Enabled bool `json:"enabled"`
}

// DealerListFilter filters dealer listings
type DealerListFilter struct {
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	OrderBy   string `form:"order_by"`
	OrderDir  string `form:"order_dir"`
	Search    string `form:"search"`
	Status    string `form:"status" binding:"omitempty,oneof=pending active suspended"`
	City      string `form:"city"`
	StateCode string `form:"state_code"`
}

// DealerResponse represents a dealer in API responses.
// Margin policy fields are only present for the dealer's own account.
type DealerResponse struct {
	ID            uuid.UUID        `json:"id"`
	Code          string           `json:"code"`
	BusinessName  string           `json:"business_name"`
	LegalName     string           `json:"legal_name,omitempty"`
	Status        string           `json:"status"`
	GSTIN         string           `json:"gstin"`
	PAN           string           `json:"pan,omitempty"`
	StateCode     string           `json:"state_code"`
	ContactName   string           `json:"contact_name,omitempty"`
	Phone         string           `json:"phone,omitempty"`
	Email         string           `json:"email,omitempty"`
	Address       string           `json:"address,omitempty"`
	City          string           `json:"city,omitempty"`
	State         string           `json:"state,omitempty"`
	Pincode       string           `json:"pincode,omitempty"`
	BankAccount   string           `json:"bank_account,omitempty"`
	BankIFSC      string           `json:"bank_ifsc,omitempty"`
	MinMarginPct  *decimal.Decimal `json:"min_margin_pct,omitempty"`
	TargetMargin  *decimal.Decimal `json:"target_margin_pct,omitempty"`
	CustomerMode  bool             `json:"customer_mode"`
	SuspendReason string           `json:"suspend_reason,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	Version       int              `json:"version"`
}

// PublicDealerResponse is the trimmed view other dealers see
type PublicDealerResponse struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"code"`
	BusinessName string    `json:"business_name"`
	Status       string    `json:"status"`
	GSTIN        string    `json:"gstin"`
	StateCode    string    `json:"state_code"`
	City         string    `json:"city,omitempty"`
	State        string    `json:"state,omitempty"`
}

// ToDealerResponse converts a dealer aggregate to its owner-facing view
func ToDealerResponse(d *dealer.Dealer) DealerResponse {
	minPct := d.MinMarginPct
	target := d.TargetMargin
	return DealerResponse{
		ID:            d.ID,
		Code:          d.Code,
		BusinessName:  d.BusinessName,
		LegalName:     d.LegalName,
		Status:        string(d.Status),
		GSTIN:         d.GSTIN.String(),
		PAN:           d.PAN.String(),
		StateCode:     d.GSTIN.StateCode(),
		ContactName:   d.ContactName,
		Phone:         d.Phone,
		Email:         d.Email,
		Address:       d.Address,
		City:          d.City,
		State:         d.State,
		Pincode:       d.Pincode,
		BankAccount:   maskAccount(d.BankAccount),
		BankIFSC:      d.BankIFSC.String(),
		MinMarginPct:  &minPct,
		TargetMargin:  &target,
		CustomerMode:  d.CustomerMode,
		SuspendReason: d.SuspendReason,
		Notes:         d.Notes,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		Version:       d.Version,
	}
}

// ToPublicDealerResponse converts a dealer aggregate to the view exposed
// to other dealers
func ToPublicDealerResponse(d *dealer.Dealer) PublicDealerResponse {
	return PublicDealerResponse{
		ID:           d.ID,
		Code:         d.Code,
		BusinessName: d.BusinessName,
		Status:       string(d.Status),
		GSTIN:        d.GSTIN.String(),
		StateCode:    d.GSTIN.StateCode(),
		City:         d.City,
		State:        d.State,
	}
}

// ToPublicDealerResponses converts a slice of dealers
func ToPublicDealerResponses(dealers []dealer.Dealer) []PublicDealerResponse {
	responses := make([]PublicDealerResponse, len(dealers))
	for i := range dealers {
		responses[i] = ToPublicDealerResponse(&dealers[i])
	}
	return responses
}

// maskAccount keeps only the last four digits of an account number
func maskAccount(account string) string {
	if len(account) <= 4 {
		return account
	}
	masked := make([]byte, len(account)-4)
	for i := range masked {
		masked[i] = '*'
	}
	return string(masked) + account[len(account)-4:]
}
