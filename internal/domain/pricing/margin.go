package pricing

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// MarginBracket maps a cost ceiling to a recommended margin percentage.
// A nil ceiling means the bracket is open-ended.
type MarginBracket struct {
	UpTo      *decimal.Decimal `json:"up_to"` // Inclusive ceiling in INR, nil for the last bracket
	MarginPct decimal.Decimal  `json:"margin_pct"`
}

// MarginSchedule is an ordered set of margin brackets applied to a
// vehicle's acquisition cost.
type MarginSchedule struct {
	Brackets []MarginBracket `json:"brackets"`
}

// DefaultMarginSchedule returns the marketplace default brackets:
// 10% up to 3 lakh, 7% up to 10 lakh, 5% above.
func DefaultMarginSchedule() MarginSchedule {
	threeL := decimal.NewFromInt(300000)
	tenL := decimal.NewFromInt(1000000)
	return MarginSchedule{
		Brackets: []MarginBracket{
			{UpTo: &threeL, MarginPct: decimal.NewFromInt(10)},
			{UpTo: &tenL, MarginPct: decimal.NewFromInt(7)},
			{UpTo: nil, MarginPct: decimal.NewFromInt(5)},
		},
	}
}

// NewMarginSchedule builds a schedule from brackets, sorting bounded
// brackets by ceiling and requiring exactly one open-ended bracket last.
func NewMarginSchedule(brackets []MarginBracket) (MarginSchedule, error) {
	if len(brackets) == 0 {
		return MarginSchedule{}, shared.NewDomainError("INVALID_SCHEDULE", "Schedule must have at least one bracket")
	}

	openEnded := 0
	for _, b := range brackets {
		if b.MarginPct.IsNegative() || b.MarginPct.GreaterThan(decimal.NewFromInt(100)) {
			return MarginSchedule{}, shared.NewDomainError("INVALID_SCHEDULE", "Margin percentage must be between 0 and 100")
		}
		if b.UpTo == nil {
			openEnded++
		} else if b.UpTo.LessThanOrEqual(decimal.Zero) {
			return MarginSchedule{}, shared.NewDomainError("INVALID_SCHEDULE", "Bracket ceiling must be positive")
		}
	}
	if openEnded != 1 {
		return MarginSchedule{}, shared.NewDomainError("INVALID_SCHEDULE", "Schedule must have exactly one open-ended bracket")
	}

	sorted := make([]MarginBracket, len(brackets))
	copy(sorted, brackets)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].UpTo == nil {
			return false
		}
		if sorted[j].UpTo == nil {
			return true
		}
		return sorted[i].UpTo.LessThan(*sorted[j].UpTo)
	})

	for i := 0; i < len(sorted)-2; i++ {
		if sorted[i].UpTo.Equal(*sorted[i+1].UpTo) {
			return MarginSchedule{}, shared.NewDomainError("INVALID_SCHEDULE", "Bracket ceilings must be distinct")
		}
	}

	return MarginSchedule{Brackets: sorted}, nil
}

// MarginPctFor returns the recommended margin percentage for a cost
func (s MarginSchedule) MarginPctFor(cost decimal.Decimal) decimal.Decimal {
	for _, b := range s.Brackets {
		if b.UpTo == nil || cost.LessThanOrEqual(*b.UpTo) {
			return b.MarginPct
		}
	}
	return decimal.Zero
}

// Quote is the margin calculator output for one vehicle
type Quote struct {
	AcquisitionCost decimal.Decimal `json:"acquisition_cost"`
	MarginPct       decimal.Decimal `json:"margin_pct"`
	MarginAmount    decimal.Decimal `json:"margin_amount"`
	SuggestedPrice  decimal.Decimal `json:"suggested_price"`
	FloorPrice      decimal.Decimal `json:"floor_price"` // Cost plus the dealer's minimum margin
}

// QuoteFor computes the suggested sale price for a vehicle.
// The bracket percentage is raised to the dealer's target margin when
// the target is higher, and the floor applies the dealer's minimum.
// Amounts are rounded to whole rupees.
func (s MarginSchedule) QuoteFor(cost, dealerMinPct, dealerTargetPct decimal.Decimal) (Quote, error) {
	if cost.LessThanOrEqual(decimal.Zero) {
		return Quote{}, shared.NewDomainError("INVALID_COST", "Acquisition cost must be positive")
	}
	if dealerMinPct.IsNegative() || dealerTargetPct.IsNegative() {
		return Quote{}, shared.NewDomainError("INVALID_MARGIN", "Margin percentages cannot be negative")
	}
	if dealerMinPct.GreaterThan(dealerTargetPct) {
		return Quote{}, shared.NewDomainError("INVALID_MARGIN", "Minimum margin cannot exceed target margin")
	}

	pct := s.MarginPctFor(cost)
	if dealerTargetPct.GreaterThan(pct) {
		pct = dealerTargetPct
	}

	hundred := decimal.NewFromInt(100)
	marginAmount := cost.Mul(pct).Div(hundred).Round(0)
	floor := cost.Add(cost.Mul(dealerMinPct).Div(hundred).Round(0))

	return Quote{
		AcquisitionCost: cost,
		MarginPct:       pct,
		MarginAmount:    marginAmount,
		SuggestedPrice:  cost.Add(marginAmount),
		FloorPrice:      floor,
	}, nil
}
