package pdf

import (
	"context"
	"strings"
	"time"
)

// StubRenderer produces a minimal single-page PDF without Chrome.
// Used in development and tests when document generation is disabled.
type StubRenderer struct{}

var _ PDFRenderer = (*StubRenderer)(nil)

// NewStubRenderer creates a new StubRenderer
func NewStubRenderer() *StubRenderer {
	return &StubRenderer{}
}

const stubPDF = `%PDF-1.4
1 0 obj << /Type /Catalog /Pages 2 0 R >> endobj
2 0 obj << /Type /Pages /Kids [3 0 R] /Count 1 >> endobj
3 0 obj << /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] >> endobj
trailer << /Root 1 0 R >>
%%EOF
`

// Render returns a placeholder PDF regardless of the input HTML
func (r *StubRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if req == nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "render request is nil", nil)
	}
	if strings.TrimSpace(req.HTML) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}

	start := time.Now()
	data := []byte(stubPDF)
	return &RenderResult{
		PDFData:        data,
		PageCount:      estimatePageCount(data),
		RenderDuration: time.Since(start),
	}, nil
}

// Close is a no-op
func (r *StubRenderer) Close() error {
	return nil
}
