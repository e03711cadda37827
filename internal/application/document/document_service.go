package document

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wheeltrade/backend/internal/domain/billing"
	"github.com/wheeltrade/backend/internal/domain/catalog"
	"github.com/wheeltrade/backend/internal/domain/deal"
	"github.com/wheeltrade/backend/internal/domain/dealer"
	"github.com/wheeltrade/backend/internal/domain/document"
	"github.com/wheeltrade/backend/internal/domain/logistics"
	"github.com/wheeltrade/backend/internal/domain/shared"
	"github.com/wheeltrade/backend/internal/infrastructure/pdf"
)

// downloadURLExpiry bounds how long a presigned document link stays valid
const downloadURLExpiry = 15 * time.Minute

// MarginQuoter resolves the platform margin percentage for an amount.
// Satisfied by the pricing application service.
type MarginQuoter interface {
	MarginPctFor(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error)
}

// DocumentServiceDeps bundles the collaborators the document service
// assembles paperwork from
type DocumentServiceDeps struct {
	DocumentRepo document.DocumentRepository
	DealRepo     deal.DealRepository
	DealerRepo   dealer.DealerRepository
	VehicleRepo  catalog.VehicleRepository
	PaymentRepo  billing.EscrowPaymentRepository
	OrderRepo    logistics.TransportOrderRepository
	PartnerRepo  logistics.TransportPartnerRepository
	Renderer     pdf.PDFRenderer
	Storage      ObjectStorageService
	MarginQuoter MarginQuoter
	Logger       *zap.Logger
}

// DocumentService generates and serves deal paperwork
type DocumentService struct {
	deps DocumentServiceDeps
}

// NewDocumentService creates a new document service
func NewDocumentService(deps DocumentServiceDeps) *DocumentService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &DocumentService{deps: deps}
}

// GenerateDealReceipt renders and stores the receipt for a deal whose
// funds have reached escrow. Either party may request it.
func (s *DocumentService) GenerateDealReceipt(ctx context.Context, dealerID uuid.UUID, req GenerateReceiptRequest) (*DocumentResponse, error) {
	d, err := s.partyDeal(ctx, dealerID, req.DealID)
	if err != nil {
		return nil, err
	}

	switch d.Status {
	case deal.DealStatusInEscrow, deal.DealStatusInTransit, deal.DealStatusCompleted:
	default:
		return nil, shared.NewDomainError("RECEIPT_NOT_AVAILABLE", "Receipts are available once the escrow is funded")
	}
	if d.PaymentID == nil {
		return nil, shared.NewDomainError("RECEIPT_NOT_AVAILABLE", "Deal has no payment on record")
	}

	payment, err := s.deps.PaymentRepo.FindByID(ctx, *d.PaymentID)
	if err != nil {
		return nil, err
	}
	buyer, err := s.deps.DealerRepo.FindByID(ctx, d.BuyerDealerID)
	if err != nil {
		return nil, err
	}
	seller, err := s.deps.DealerRepo.FindByID(ctx, d.SellerDealerID)
	if err != nil {
		return nil, err
	}
	vehicle, err := s.deps.VehicleRepo.FindByID(ctx, d.VehicleID)
	if err != nil {
		return nil, err
	}

	marginPct, err := s.deps.MarginQuoter.MarginPctFor(ctx, d.AgreedAmount)
	if err != nil {
		return nil, err
	}
	margin := d.AgreedAmount.Mul(marginPct).Div(decimal.NewFromInt(100)).Round(2)

	html, err := pdf.RenderDealReceiptHTML(&pdf.DealReceiptData{
		DealNumber:         d.DealNumber,
		PaymentNumber:      payment.PaymentNumber,
		GeneratedAt:        time.Now(),
		BuyerName:          buyer.BusinessName,
		BuyerGSTIN:         string(buyer.GSTIN),
		BuyerCity:          buyer.City,
		SellerName:         seller.BusinessName,
		SellerGSTIN:        string(seller.GSTIN),
		SellerCity:         seller.City,
		VehicleDescription: fmt.Sprintf("%d %s", vehicle.Year, vehicle.DisplayName()),
		VIN:                string(vehicle.VIN),
		RegistrationNo:     vehicle.RegistrationNo,
		OdometerKM:         vehicle.OdometerKM,
		AgreedPrice:        d.AgreedAmount,
		PlatformMargin:     margin,
		TotalPayable:       d.AgreedAmount.Add(margin),
		GatewayTxnID:       payment.GatewayTxnID,
		PaidAt:             payment.HeldAt,
	})
	if err != nil {
		return nil, err
	}

	title := "Deal Receipt " + d.DealNumber
	return s.renderAndStore(ctx, dealerID, d.ID, document.TypeDealReceipt, title, html)
}

// GenerateJobSheet renders and stores the carrier job sheet for a booked
// transport order
func (s *DocumentService) GenerateJobSheet(ctx context.Context, dealerID uuid.UUID, req GenerateJobSheetRequest) (*DocumentResponse, error) {
	order, err := s.deps.OrderRepo.FindByID(ctx, req.TransportOrderID)
	if err != nil {
		return nil, err
	}
	d, err := s.partyDeal(ctx, dealerID, order.DealID)
	if err != nil {
		return nil, err
	}

	switch order.Status {
	case logistics.TransportStatusQuoted, logistics.TransportStatusCancelled:
		return nil, shared.NewDomainError("ORDER_NOT_BOOKED", "Job sheets are available once the transport is booked")
	}

	partner, err := s.deps.PartnerRepo.FindByID(ctx, order.PartnerID)
	if err != nil {
		return nil, err
	}
	vehicle, err := s.deps.VehicleRepo.FindByID(ctx, order.VehicleID)
	if err != nil {
		return nil, err
	}
	buyer, err := s.deps.DealerRepo.FindByID(ctx, d.BuyerDealerID)
	if err != nil {
		return nil, err
	}
	seller, err := s.deps.DealerRepo.FindByID(ctx, d.SellerDealerID)
	if err != nil {
		return nil, err
	}

	html, err := pdf.RenderJobSheetHTML(&pdf.JobSheetData{
		OrderNumber:        order.OrderNumber,
		DealNumber:         d.DealNumber,
		GeneratedAt:        time.Now(),
		PartnerName:        partner.Name,
		PartnerCode:        partner.Code,
		VehicleDescription: fmt.Sprintf("%d %s", vehicle.Year, vehicle.DisplayName()),
		VIN:                string(vehicle.VIN),
		PickupCity:         order.PickupCity,
		PickupState:        seller.State,
		DropoffCity:        order.DropoffCity,
		DropoffState:       buyer.State,
		DistanceKM:         order.DistanceKM,
		QuotedCharge:       order.QuoteAmount,
		PickupContact:      contactLine(seller),
		DropContact:        contactLine(buyer),
	})
	if err != nil {
		return nil, err
	}

	title := "Transport Job Sheet " + order.OrderNumber
	return s.renderAndStore(ctx, dealerID, d.ID, document.TypeTransportJob, title, html)
}

// Get returns document metadata. Both deal parties may read it.
func (s *DocumentService) Get(ctx context.Context, dealerID, documentID uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.accessibleDocument(ctx, dealerID, documentID)
	if err != nil {
		return nil, err
	}
	return ToDocumentResponse(doc), nil
}

// ListForDeal returns the documents generated for a deal
func (s *DocumentService) ListForDeal(ctx context.Context, dealerID, dealID uuid.UUID) ([]DocumentResponse, error) {
	if _, err := s.partyDeal(ctx, dealerID, dealID); err != nil {
		return nil, err
	}
	docs, err := s.deps.DocumentRepo.FindByDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	return ToDocumentResponses(docs), nil
}

// PresignDownload returns a short-lived download link for a document
func (s *DocumentService) PresignDownload(ctx context.Context, dealerID, documentID uuid.UUID) (*DownloadResponse, error) {
	doc, err := s.accessibleDocument(ctx, dealerID, documentID)
	if err != nil {
		return nil, err
	}

	url, expiresAt, err := s.deps.Storage.GenerateDownloadURL(ctx, doc.StorageKey, downloadURLExpiry)
	if err != nil {
		return nil, err
	}

	return &DownloadResponse{
		DocumentID:  doc.ID,
		DownloadURL: url,
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *DocumentService) renderAndStore(ctx context.Context, dealerID, dealID uuid.UUID, dType document.DocumentType, title, html string) (*DocumentResponse, error) {
	result, err := s.deps.Renderer.Render(ctx, &pdf.RenderRequest{
		HTML:  html,
		Title: title,
	})
	if err != nil {
		return nil, err
	}

	storageKey := fmt.Sprintf("documents/%s/%s-%s.pdf", dealID, dType, uuid.New())
	if err := s.deps.Storage.Upload(ctx, storageKey, result.PDFData, "application/pdf"); err != nil {
		return nil, err
	}

	doc, err := document.NewDocument(dealerID, dealID, dType, title, storageKey, int64(len(result.PDFData)))
	if err != nil {
		return nil, err
	}
	if err := s.deps.DocumentRepo.Save(ctx, doc); err != nil {
		return nil, err
	}

	s.deps.Logger.Info("document generated",
		zap.String("type", string(dType)),
		zap.String("title", title),
		zap.Int64("size_bytes", doc.SizeBytes),
		zap.Int("pages", result.PageCount))

	return ToDocumentResponse(doc), nil
}

func (s *DocumentService) partyDeal(ctx context.Context, dealerID, dealID uuid.UUID) (*deal.Deal, error) {
	d, err := s.deps.DealRepo.FindByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if d.BuyerDealerID != dealerID && d.SellerDealerID != dealerID {
		return nil, shared.ErrForbidden
	}
	return d, nil
}

func (s *DocumentService) accessibleDocument(ctx context.Context, dealerID, documentID uuid.UUID) (*document.Document, error) {
	doc, err := s.deps.DocumentRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.DealerID != dealerID {
		if _, err := s.partyDeal(ctx, dealerID, doc.DealID); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func contactLine(d *dealer.Dealer) string {
	if d.ContactName == "" {
		return d.Phone
	}
	if d.Phone == "" {
		return d.ContactName
	}
	return d.ContactName + ", " + d.Phone
}
