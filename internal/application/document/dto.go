package document

import (
	"time"

	"github.com/google/uuid"

	"github.com/wheeltrade/backend/internal/domain/document"
)

// GenerateReceiptRequest asks for a deal receipt PDF
type GenerateReceiptRequest struct {
	DealID uuid.UUID `json:"deal_id" binding:"required"`
}

// GenerateJobSheetRequest asks for a transport job sheet PDF
type GenerateJobSheetRequest struct {
	TransportOrderID uuid.UUID `json:"transport_order_id" binding:"required"`
}

// DocumentResponse is the API view of a stored document
type DocumentResponse struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	DealID      uuid.UUID `json:"deal_id"`
	Title       string    `json:"title"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// DownloadResponse carries a presigned download link
type DownloadResponse struct {
	DocumentID  uuid.UUID `json:"document_id"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ToDocumentResponse converts a domain document to a response DTO
func ToDocumentResponse(d *document.Document) *DocumentResponse {
	return &DocumentResponse{
		ID:          d.ID,
		Type:        string(d.Type),
		DealID:      d.DealID,
		Title:       d.Title,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		CreatedAt:   d.CreatedAt,
	}
}

// ToDocumentResponses converts a slice of domain documents
func ToDocumentResponses(docs []document.Document) []DocumentResponse {
	responses := make([]DocumentResponse, len(docs))
	for i := range docs {
		responses[i] = *ToDocumentResponse(&docs[i])
	}
	return responses
}
