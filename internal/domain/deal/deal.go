package deal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// DealStatus represents the status of a deal
type DealStatus string

const (
	DealStatusOffer       DealStatus = "offer"       // Initial offer awaiting seller response
	DealStatusNegotiating DealStatus = "negotiating" // At least one counter-offer exchanged
	DealStatusAccepted    DealStatus = "accepted"    // Price agreed, awaiting escrow payment
	DealStatusInEscrow    DealStatus = "in_escrow"   // Payment held by the escrow account
	DealStatusInTransit   DealStatus = "in_transit"  // Vehicle handed to the transport partner
	DealStatusCompleted   DealStatus = "completed"   // Delivered and funds released
	DealStatusRejected    DealStatus = "rejected"    // Offer declined
	DealStatusCancelled   DealStatus = "cancelled"   // Withdrawn by either party
	DealStatusExpired     DealStatus = "expired"     // Offer lapsed without a response
)

// IsValid checks if the status is a valid DealStatus
func (s DealStatus) IsValid() bool {
	switch s {
	case DealStatusOffer, DealStatusNegotiating, DealStatusAccepted,
		DealStatusInEscrow, DealStatusInTransit, DealStatusCompleted,
		DealStatusRejected, DealStatusCancelled, DealStatusExpired:
		return true
	}
	return false
}

// String returns the string representation of DealStatus
func (s DealStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s DealStatus) CanTransitionTo(target DealStatus) bool {
	switch s {
	case DealStatusOffer:
		return target == DealStatusNegotiating || target == DealStatusAccepted ||
			target == DealStatusRejected || target == DealStatusCancelled ||
			target == DealStatusExpired
	case DealStatusNegotiating:
		return target == DealStatusNegotiating || target == DealStatusAccepted ||
			target == DealStatusRejected || target == DealStatusCancelled ||
			target == DealStatusExpired
	case DealStatusAccepted:
		return target == DealStatusInEscrow || target == DealStatusCancelled
	case DealStatusInEscrow:
		return target == DealStatusInTransit || target == DealStatusCancelled
	case DealStatusInTransit:
		return target == DealStatusCompleted
	case DealStatusCompleted, DealStatusRejected, DealStatusCancelled, DealStatusExpired:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true if the status is terminal
func (s DealStatus) IsTerminal() bool {
	switch s {
	case DealStatusCompleted, DealStatusRejected, DealStatusCancelled, DealStatusExpired:
		return true
	}
	return false
}

// DefaultOfferTTL is how long an unanswered offer or counter-offer
// stays open unless overridden at startup.
const DefaultOfferTTL = 72 * time.Hour

var offerTTL = DefaultOfferTTL

// SetOfferTTL overrides the offer deadline window. Called once during
// startup before any deals are created.
func SetOfferTTL(d time.Duration) {
	if d > 0 {
		offerTTL = d
	}
}

// OfferTTL returns the active offer deadline window.
func OfferTTL() time.Duration {
	return offerTTL
}

// DealOffer records one proposal in the negotiation history
type DealOffer struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	DealID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProposedBy uuid.UUID       `gorm:"type:uuid;not null"` // Dealer who made this proposal
	Amount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Message    string          `gorm:"type:varchar(500)"`
	CreatedAt  time.Time
}

// TableName returns the table name for GORM
func (DealOffer) TableName() string {
	return "deal_offers"
}

// Deal represents a negotiation between a buying and a selling dealer
// over one vehicle. It is the aggregate root for the negotiation and
// controls the full progression to completion.
type Deal struct {
	shared.BaseAggregateRoot
	DealNumber       string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	VehicleID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	BuyerDealerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SellerDealerID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status           DealStatus      `gorm:"type:varchar(20);not null;default:'offer'"`
	CurrentAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null"` // Latest proposed or agreed price
	CurrentProposer  uuid.UUID       `gorm:"type:uuid;not null"`          // Dealer whose proposal is on the table
	AgreedAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Offers           []DealOffer     `gorm:"foreignKey:DealID"`
	ExpiresAt        *time.Time      `gorm:"index"` // Offer lapse deadline while negotiating
	AcceptedAt       *time.Time
	CompletedAt      *time.Time
	PaymentID        *uuid.UUID `gorm:"type:uuid"` // Escrow payment holding the funds
	TransportOrderID *uuid.UUID `gorm:"type:uuid"` // Transport order moving the vehicle
	CancelledBy      *uuid.UUID `gorm:"type:uuid"`
	CancelReason     string     `gorm:"type:varchar(500)"`
	RejectReason     string     `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Deal) TableName() string {
	return "deals"
}

// NewDeal opens a deal with the buyer's initial offer on a vehicle
func NewDeal(dealNumber string, vehicleID, buyerDealerID, sellerDealerID uuid.UUID, amount decimal.Decimal, message string) (*Deal, error) {
	if dealNumber == "" {
		return nil, shared.NewDomainError("INVALID_DEAL_NUMBER", "Deal number cannot be empty")
	}
	if vehicleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VEHICLE_ID", "Vehicle ID cannot be empty")
	}
	if buyerDealerID == uuid.Nil || sellerDealerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DEALER_ID", "Buyer and seller IDs cannot be empty")
	}
	if buyerDealerID == sellerDealerID {
		return nil, shared.ErrSelfDealing
	}
	if err := validateOfferAmount(amount); err != nil {
		return nil, err
	}
	if len(message) > 500 {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message cannot exceed 500 characters")
	}

	expiresAt := time.Now().Add(offerTTL)
	deal := &Deal{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DealNumber:        dealNumber,
		VehicleID:         vehicleID,
		BuyerDealerID:     buyerDealerID,
		SellerDealerID:    sellerDealerID,
		Status:            DealStatusOffer,
		CurrentAmount:     amount,
		CurrentProposer:   buyerDealerID,
		AgreedAmount:      decimal.Zero,
		ExpiresAt:         &expiresAt,
	}
	deal.Offers = []DealOffer{newDealOffer(deal.ID, buyerDealerID, amount, message)}

	deal.AddDomainEvent(NewDealOpenedEvent(deal))

	return deal, nil
}

// Counter records a counter-offer from the responding party.
// Only the party who is not the current proposer may counter, and the
// deadline restarts.
func (d *Deal) Counter(byDealerID uuid.UUID, amount decimal.Decimal, message string) error {
	if err := d.ensureNegotiable(byDealerID); err != nil {
		return err
	}
	if err := validateOfferAmount(amount); err != nil {
		return err
	}
	if len(message) > 500 {
		return shared.NewDomainError("INVALID_MESSAGE", "Message cannot exceed 500 characters")
	}

	oldStatus := d.Status
	d.Status = DealStatusNegotiating
	d.CurrentAmount = amount
	d.CurrentProposer = byDealerID
	d.Offers = append(d.Offers, newDealOffer(d.ID, byDealerID, amount, message))
	expiresAt := time.Now().Add(offerTTL)
	d.ExpiresAt = &expiresAt
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	d.AddDomainEvent(NewDealCounteredEvent(d, oldStatus, byDealerID))

	return nil
}

// Accept accepts the proposal currently on the table.
// Only the party who is not the current proposer may accept. Accepted
// deals no longer expire.
func (d *Deal) Accept(byDealerID uuid.UUID) error {
	if err := d.ensureNegotiable(byDealerID); err != nil {
		return err
	}

	oldStatus := d.Status
	now := time.Now()
	d.Status = DealStatusAccepted
	d.AgreedAmount = d.CurrentAmount
	d.AcceptedAt = &now
	d.ExpiresAt = nil
	d.UpdatedAt = now
	d.IncrementVersion()

	d.AddDomainEvent(NewDealAcceptedEvent(d, oldStatus, byDealerID))

	return nil
}

// Reject declines the proposal currently on the table.
// Only the party who is not the current proposer may reject.
func (d *Deal) Reject(byDealerID uuid.UUID, reason string) error {
	if err := d.ensureNegotiable(byDealerID); err != nil {
		return err
	}
	if len(reason) > 500 {
		return shared.NewDomainError("INVALID_REASON", "Reason cannot exceed 500 characters")
	}

	oldStatus := d.Status
	d.Status = DealStatusRejected
	d.RejectReason = reason
	d.ExpiresAt = nil
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	d.AddDomainEvent(NewDealClosedEvent(d, oldStatus, byDealerID))

	return nil
}

// Cancel withdraws the deal. Either party can cancel before the funds
// are in escrow; once in escrow the service layer must refund first.
func (d *Deal) Cancel(byDealerID uuid.UUID, reason string) error {
	if !d.isParty(byDealerID) {
		return shared.NewDomainError("NOT_A_PARTY", "Dealer is not a party to this deal")
	}
	if !d.Status.CanTransitionTo(DealStatusCancelled) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Deal cannot be cancelled from status "+d.Status.String())
	}
	if len(reason) > 500 {
		return shared.NewDomainError("INVALID_REASON", "Reason cannot exceed 500 characters")
	}

	oldStatus := d.Status
	d.Status = DealStatusCancelled
	d.CancelledBy = &byDealerID
	d.CancelReason = reason
	d.ExpiresAt = nil
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	d.AddDomainEvent(NewDealClosedEvent(d, oldStatus, byDealerID))

	return nil
}

// Expire lapses an unanswered offer past its deadline.
// Invoked by the expiry sweeper, not by a dealer.
func (d *Deal) Expire(now time.Time) error {
	if !d.Status.CanTransitionTo(DealStatusExpired) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Deal cannot expire from status "+d.Status.String())
	}
	if d.ExpiresAt == nil || now.Before(*d.ExpiresAt) {
		return shared.NewDomainError("NOT_EXPIRED", "Deal deadline has not passed")
	}

	oldStatus := d.Status
	d.Status = DealStatusExpired
	d.ExpiresAt = nil
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	d.AddDomainEvent(NewDealClosedEvent(d, oldStatus, uuid.Nil))

	return nil
}

// MarkInEscrow records that the buyer's payment is held in escrow
func (d *Deal) MarkInEscrow(paymentID uuid.UUID) error {
	if !d.Status.CanTransitionTo(DealStatusInEscrow) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Deal cannot enter escrow from status "+d.Status.String())
	}
	if paymentID == uuid.Nil {
		return shared.NewDomainError("INVALID_PAYMENT_ID", "Payment ID cannot be empty")
	}

	oldStatus := d.Status
	d.Status = DealStatusInEscrow
	d.PaymentID = &paymentID
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	d.AddDomainEvent(NewDealProgressedEvent(d, oldStatus))

	return nil
}

// MarkInTransit records handover of the vehicle to the transport partner
func (d *Deal) MarkInTransit(transportOrderID uuid.UUID) error {
	if !d.Status.CanTransitionTo(DealStatusInTransit) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Deal cannot enter transit from status "+d.Status.String())
	}
	if transportOrderID == uuid.Nil {
		return shared.NewDomainError("INVALID_TRANSPORT_ORDER_ID", "Transport order ID cannot be empty")
	}

	oldStatus := d.Status
	d.Status = DealStatusInTransit
	d.TransportOrderID = &transportOrderID
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	d.AddDomainEvent(NewDealProgressedEvent(d, oldStatus))

	return nil
}

// Complete records delivery and closes the deal
func (d *Deal) Complete() error {
	if !d.Status.CanTransitionTo(DealStatusCompleted) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Deal cannot complete from status "+d.Status.String())
	}

	oldStatus := d.Status
	now := time.Now()
	d.Status = DealStatusCompleted
	d.CompletedAt = &now
	d.UpdatedAt = now
	d.IncrementVersion()

	d.AddDomainEvent(NewDealCompletedEvent(d, oldStatus))

	return nil
}

// CounterpartyOf returns the other party of the deal
func (d *Deal) CounterpartyOf(dealerID uuid.UUID) uuid.UUID {
	if dealerID == d.BuyerDealerID {
		return d.SellerDealerID
	}
	return d.BuyerDealerID
}

// IsOpen returns true if the deal is still negotiating or progressing
func (d *Deal) IsOpen() bool {
	return !d.Status.IsTerminal()
}

// IsAwaitingResponseFrom returns true if the given dealer must respond
// to the proposal currently on the table
func (d *Deal) IsAwaitingResponseFrom(dealerID uuid.UUID) bool {
	if d.Status != DealStatusOffer && d.Status != DealStatusNegotiating {
		return false
	}
	return d.isParty(dealerID) && d.CurrentProposer != dealerID
}

// LatestOffer returns the most recent proposal, or nil if none
func (d *Deal) LatestOffer() *DealOffer {
	if len(d.Offers) == 0 {
		return nil
	}
	return &d.Offers[len(d.Offers)-1]
}

func (d *Deal) isParty(dealerID uuid.UUID) bool {
	return dealerID == d.BuyerDealerID || dealerID == d.SellerDealerID
}

// ensureNegotiable verifies that the deal is open for a response and
// that the responding dealer holds the turn
func (d *Deal) ensureNegotiable(byDealerID uuid.UUID) error {
	if d.Status != DealStatusOffer && d.Status != DealStatusNegotiating {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Deal is not open for negotiation in status "+d.Status.String())
	}
	if !d.isParty(byDealerID) {
		return shared.NewDomainError("NOT_A_PARTY", "Dealer is not a party to this deal")
	}
	if d.CurrentProposer == byDealerID {
		return shared.ErrNotYourTurn
	}
	return nil
}

func newDealOffer(dealID, proposedBy uuid.UUID, amount decimal.Decimal, message string) DealOffer {
	return DealOffer{
		ID:         uuid.New(),
		DealID:     dealID,
		ProposedBy: proposedBy,
		Amount:     amount,
		Message:    message,
		CreatedAt:  time.Now(),
	}
}

func validateOfferAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Offer amount must be positive")
	}
	return nil
}
