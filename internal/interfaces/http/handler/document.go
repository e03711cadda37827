package handler

import (
	"github.com/gin-gonic/gin"

	documentapp "github.com/wheeltrade/backend/internal/application/document"
)

// DocumentHandler handles PDF document endpoints
type DocumentHandler struct {
	BaseHandler
	documentService *documentapp.DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService *documentapp.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// GenerateReceipt renders and stores a deal receipt PDF
func (h *DocumentHandler) GenerateReceipt(c *gin.Context) {
	dealerID, err := getDealerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req documentapp.GenerateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.documentService.GenerateDealReceipt(c.Request.Context(), dealerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// GenerateJobSheet renders and stores a transport job sheet PDF
func (h *DocumentHandler) GenerateJobSheet(c *gin.Context) {
	dealerID, err := getDealerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req documentapp.GenerateJobSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.documentService.GenerateJobSheet(c.Request.Context(), dealerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get returns document metadata
func (h *DocumentHandler) Get(c *gin.Context) {
	dealerID, err := getDealerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	result, err := h.documentService.Get(c.Request.Context(), dealerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListForDeal returns the documents generated for a deal
func (h *DocumentHandler) ListForDeal(c *gin.Context) {
	dealerID, err := getDealerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	dealID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid deal ID")
		return
	}

	results, err := h.documentService.ListForDeal(c.Request.Context(), dealerID, dealID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// Download returns a presigned download link for a document
func (h *DocumentHandler) Download(c *gin.Context) {
	dealerID, err := getDealerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	result, err := h.documentService.PresignDownload(c.Request.Context(), dealerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
