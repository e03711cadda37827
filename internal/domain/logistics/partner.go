package logistics

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// TransportPartner represents a carrier that moves vehicles between
// dealerships. Partners are platform-managed, not dealer-owned.
type TransportPartner struct {
	shared.BaseAggregateRoot
	Code        string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Active      bool            `gorm:"not null;default:true"`
	BaseFee     decimal.Decimal `gorm:"type:decimal(18,2);not null"` // Flat pickup and paperwork fee
	PerKMRate   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PerKGRate   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MaxWeightKG int             `gorm:"not null;default:3500"`
	ContactName string          `gorm:"type:varchar(100)"`
	Phone       string          `gorm:"type:varchar(50)"`
	Email       string          `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (TransportPartner) TableName() string {
	return "transport_partners"
}

// NewTransportPartner registers a carrier with its rate card
func NewTransportPartner(code, name string, baseFee, perKM, perKG decimal.Decimal, maxWeightKG int) (*TransportPartner, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Partner code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Partner name cannot be empty")
	}
	if baseFee.IsNegative() || perKM.IsNegative() || perKG.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Rates cannot be negative")
	}
	if maxWeightKG <= 0 {
		return nil, shared.NewDomainError("INVALID_WEIGHT", "Max weight must be positive")
	}

	return &TransportPartner{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Active:            true,
		BaseFee:           baseFee,
		PerKMRate:         perKM,
		PerKGRate:         perKG,
		MaxWeightKG:       maxWeightKG,
	}, nil
}

// UpdateRates replaces the partner's rate card
func (p *TransportPartner) UpdateRates(baseFee, perKM, perKG decimal.Decimal) error {
	if baseFee.IsNegative() || perKM.IsNegative() || perKG.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Rates cannot be negative")
	}

	p.BaseFee = baseFee
	p.PerKMRate = perKM
	p.PerKGRate = perKG
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetActive toggles whether the partner accepts new bookings
func (p *TransportPartner) SetActive(active bool) {
	p.Active = active
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// CanCarry returns true if the partner accepts a vehicle of this weight
func (p *TransportPartner) CanCarry(weightKG int) bool {
	return p.Active && weightKG > 0 && weightKG <= p.MaxWeightKG
}

// QuoteFor computes the deterministic transport charge:
// base fee + distance * per-km rate + weight * per-kg rate,
// rounded to whole rupees.
func (p *TransportPartner) QuoteFor(distanceKM, weightKG int) (decimal.Decimal, error) {
	if distanceKM <= 0 {
		return decimal.Zero, shared.NewDomainError("INVALID_DISTANCE", "Distance must be positive")
	}
	if !p.CanCarry(weightKG) {
		return decimal.Zero, shared.NewDomainError("WEIGHT_NOT_SERVICEABLE", "Partner cannot carry this vehicle weight")
	}

	distance := decimal.NewFromInt(int64(distanceKM))
	weight := decimal.NewFromInt(int64(weightKG))

	total := p.BaseFee.
		Add(distance.Mul(p.PerKMRate)).
		Add(weight.Mul(p.PerKGRate)).
		Round(0)

	return total, nil
}
