package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// NotificationType categorizes in-app notifications
type NotificationType string

const (
	TypeOfferReceived  NotificationType = "offer_received"
	TypeOfferCountered NotificationType = "offer_countered"
	TypeDealAccepted   NotificationType = "deal_accepted"
	TypeDealClosed     NotificationType = "deal_closed"
	TypeDealProgress   NotificationType = "deal_progress"
	TypePaymentUpdate  NotificationType = "payment_update"
	TypeTransport      NotificationType = "transport_update"
)

// Notification is an in-app message addressed to one dealer.
// Notifications are write-once; only the read flag changes.
type Notification struct {
	shared.OwnedAggregateRoot
	Type    NotificationType `gorm:"type:varchar(30);not null;index"`
	Title   string           `gorm:"type:varchar(200);not null"`
	Body    string           `gorm:"type:varchar(1000)"`
	RefType string           `gorm:"type:varchar(50)"` // Aggregate type the notification points at
	RefID   *uuid.UUID       `gorm:"type:uuid;index"`
	Read    bool             `gorm:"not null;default:false;index"`
	ReadAt  *time.Time
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// NewNotification creates a notification for a dealer
func NewNotification(dealerID uuid.UUID, nType NotificationType, title, body string) (*Notification, error) {
	if dealerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DEALER_ID", "Dealer ID cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	if len(body) > 1000 {
		return nil, shared.NewDomainError("INVALID_BODY", "Body cannot exceed 1000 characters")
	}

	return &Notification{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(dealerID),
		Type:               nType,
		Title:              title,
		Body:               body,
	}, nil
}

// SetReference attaches the aggregate the notification points at
func (n *Notification) SetReference(refType string, refID uuid.UUID) {
	n.RefType = refType
	n.RefID = &refID
}

// MarkRead marks the notification as read
func (n *Notification) MarkRead() {
	if n.Read {
		return
	}
	now := time.Now()
	n.Read = true
	n.ReadAt = &now
	n.UpdatedAt = now
	n.IncrementVersion()
}
