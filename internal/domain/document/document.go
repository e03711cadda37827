package document

import (
	"context"

	"github.com/google/uuid"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// DocumentType categorizes generated documents
type DocumentType string

const (
	TypeDealReceipt  DocumentType = "deal_receipt"  // Final sale summary for a completed deal
	TypeTransportJob DocumentType = "transport_job" // Carrier job sheet for a booked transport order
)

// Document is a generated PDF stored in object storage.
// Owned by the dealer who requested the generation; the counterparty
// of the referenced deal may also download it.
type Document struct {
	shared.OwnedAggregateRoot
	Type        DocumentType `gorm:"type:varchar(30);not null;index"`
	DealID      uuid.UUID    `gorm:"type:uuid;not null;index"`
	Title       string       `gorm:"type:varchar(200);not null"`
	StorageKey  string       `gorm:"type:varchar(500);not null;uniqueIndex"`
	ContentType string       `gorm:"type:varchar(100);not null;default:'application/pdf'"`
	SizeBytes   int64        `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Document) TableName() string {
	return "documents"
}

// NewDocument records a generated document
func NewDocument(dealerID, dealID uuid.UUID, dType DocumentType, title, storageKey string, sizeBytes int64) (*Document, error) {
	if dealerID == uuid.Nil || dealID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Dealer and deal IDs cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if storageKey == "" {
		return nil, shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key cannot be empty")
	}
	if sizeBytes < 0 {
		return nil, shared.NewDomainError("INVALID_SIZE", "Size cannot be negative")
	}

	return &Document{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(dealerID),
		Type:               dType,
		DealID:             dealID,
		Title:              title,
		StorageKey:         storageKey,
		ContentType:        "application/pdf",
		SizeBytes:          sizeBytes,
	}, nil
}

// DocumentRepository defines the interface for document persistence
type DocumentRepository interface {
	// FindByID finds a document by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Document, error)

	// FindByDeal finds documents generated for a deal
	FindByDeal(ctx context.Context, dealID uuid.UUID) ([]Document, error)

	// FindForDealer finds documents owned by a dealer
	FindForDealer(ctx context.Context, dealerID uuid.UUID, filter shared.Filter) ([]Document, error)

	// Save creates or updates a document
	Save(ctx context.Context, doc *Document) error

	// Delete deletes a document record
	Delete(ctx context.Context, id uuid.UUID) error
}
