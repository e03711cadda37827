package pricing

import (
	"github.com/shopspring/decimal"
	"github.com/wheeltrade/backend/internal/domain/pricing"
)

// MarginBracketRequest is one bracket of a replacement schedule
type MarginBracketRequest struct {
	UpTo      *decimal.Decimal `json:"up_to"`
	MarginPct decimal.Decimal  `json:"margin_pct" binding:"required"`
}

// ReplaceScheduleRequest replaces the marketplace margin schedule
type ReplaceScheduleRequest struct {
	Brackets []MarginBracketRequest `json:"brackets" binding:"required,min=1,dive"`
}

// QuoteRequest asks for a price suggestion on an arbitrary cost
type QuoteRequest struct {
	AcquisitionCost decimal.Decimal `json:"acquisition_cost" binding:"required"`
}

// MarginBracketResponse is one bracket of the active schedule
type MarginBracketResponse struct {
	UpTo      *decimal.Decimal `json:"up_to"`
	MarginPct decimal.Decimal  `json:"margin_pct"`
}

// ScheduleResponse is the active margin schedule
type ScheduleResponse struct {
	Brackets []MarginBracketResponse `json:"brackets"`
}

// QuoteResponse is the margin calculator output
type QuoteResponse struct {
	AcquisitionCost decimal.Decimal `json:"acquisition_cost"`
	MarginPct       decimal.Decimal `json:"margin_pct"`
	MarginAmount    decimal.Decimal `json:"margin_amount"`
	SuggestedPrice  decimal.Decimal `json:"suggested_price"`
	FloorPrice      decimal.Decimal `json:"floor_price"`
}

// ToScheduleResponse converts a schedule to its response DTO
func ToScheduleResponse(s pricing.MarginSchedule) *ScheduleResponse {
	brackets := make([]MarginBracketResponse, len(s.Brackets))
	for i, b := range s.Brackets {
		brackets[i] = MarginBracketResponse{UpTo: b.UpTo, MarginPct: b.MarginPct}
	}
	return &ScheduleResponse{Brackets: brackets}
}

// ToQuoteResponse converts a quote to its response DTO
func ToQuoteResponse(q pricing.Quote) *QuoteResponse {
	return &QuoteResponse{
		AcquisitionCost: q.AcquisitionCost,
		MarginPct:       q.MarginPct,
		MarginAmount:    q.MarginAmount,
		SuggestedPrice:  q.SuggestedPrice,
		FloorPrice:      q.FloorPrice,
	}
}
