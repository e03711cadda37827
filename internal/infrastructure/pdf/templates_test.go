package pdf

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatINR(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{"below thousand", "950", "₹950.00"},
		{"thousands", "45000", "₹45,000.00"},
		{"lakhs", "450000", "₹4,50,000.00"},
		{"tens of lakhs", "4500000", "₹45,00,000.00"},
		{"crores", "12345678.50", "₹1,23,45,678.50"},
		{"negative", "-45000", "-₹45,000.00"},
		{"zero", "0", "₹0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.amount)
			require.NoError(t, err)
			assert.Equal(t, tt.want, formatINR(d))
		})
	}
}

func TestRenderDealReceiptHTML(t *testing.T) {
	paidAt := time.Date(2026, 3, 14, 11, 30, 0, 0, time.UTC)
	data := &DealReceiptData{
		DealNumber:         "DL-2026-00042",
		PaymentNumber:      "PAY-2026-00031",
		GeneratedAt:        time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC),
		BuyerName:          "Sharma Motors Pvt Ltd",
		BuyerGSTIN:         "27AAPFU0939F1ZV",
		BuyerCity:          "Pune",
		SellerName:         "Kiran Auto Traders",
		SellerGSTIN:        "29AABCU9603R1ZM",
		SellerCity:         "Bengaluru",
		VehicleDescription: "2021 Maruti Suzuki Baleno Zeta",
		VIN:                "ma3ejkd1s00123456",
		RegistrationNo:     "ka01ab1234",
		OdometerKM:         38250,
		AgreedPrice:        decimal.NewFromInt(520000),
		PlatformMargin:     decimal.NewFromInt(36400),
		TotalPayable:       decimal.NewFromInt(556400),
		GatewayTxnID:       "txn_8jd92kf",
		PaidAt:             &paidAt,
	}

	html, err := RenderDealReceiptHTML(data)
	require.NoError(t, err)

	assert.Contains(t, html, "DL-2026-00042")
	assert.Contains(t, html, "PAY-2026-00031")
	assert.Contains(t, html, "Sharma Motors Pvt Ltd")
	assert.Contains(t, html, "27AAPFU0939F1ZV")
	assert.Contains(t, html, "MA3EJKD1S00123456")
	assert.Contains(t, html, "KA01AB1234")
	assert.Contains(t, html, "₹5,20,000.00")
	assert.Contains(t, html, "₹5,56,400.00")
	assert.Contains(t, html, "14 Mar 2026 11:30")
}

func TestRenderDealReceiptHTML_OmitsOptionalRows(t *testing.T) {
	data := &DealReceiptData{
		DealNumber:         "DL-2026-00001",
		PaymentNumber:      "PAY-2026-00001",
		GeneratedAt:        time.Now(),
		BuyerName:          "Buyer",
		SellerName:         "Seller",
		VehicleDescription: "2019 Hyundai i20 Sportz",
		VIN:                "MALBB51BLJM123456",
		AgreedPrice:        decimal.NewFromInt(400000),
		PlatformMargin:     decimal.NewFromInt(28000),
		TotalPayable:       decimal.NewFromInt(428000),
	}

	html, err := RenderDealReceiptHTML(data)
	require.NoError(t, err)

	assert.NotContains(t, html, "GSTIN:")
	assert.NotContains(t, html, "Registration")
	assert.NotContains(t, html, "Paid at")
}

func TestRenderJobSheetHTML(t *testing.T) {
	data := &JobSheetData{
		OrderNumber:        "TO-2026-00017",
		DealNumber:         "DL-2026-00042",
		GeneratedAt:        time.Date(2026, 3, 16, 8, 0, 0, 0, time.UTC),
		PartnerName:        "Highway Kings Logistics",
		PartnerCode:        "HKL",
		VehicleDescription: "2021 Maruti Suzuki Baleno Zeta",
		VIN:                "MA3EJKD1S00123456",
		PickupCity:         "Bengaluru",
		PickupState:        "Karnataka",
		DropoffCity:        "Pune",
		DropoffState:       "Maharashtra",
		DistanceKM:         840,
		QuotedCharge:       decimal.NewFromInt(18600),
		PickupContact:      "Kiran +91 98450 00000",
	}

	html, err := RenderJobSheetHTML(data)
	require.NoError(t, err)

	assert.Contains(t, html, "TO-2026-00017")
	assert.Contains(t, html, "Bengaluru, Karnataka")
	assert.Contains(t, html, "Pune, Maharashtra")
	assert.Contains(t, html, "840 km")
	assert.Contains(t, html, "₹18,600.00")
	assert.Contains(t, html, "Highway Kings Logistics (HKL)")
	assert.NotContains(t, html, "Drop contact")
}

func TestStubRenderer(t *testing.T) {
	r := NewStubRenderer()
	defer r.Close()

	t.Run("renders placeholder pdf", func(t *testing.T) {
		res, err := r.Render(context.Background(), &RenderRequest{HTML: "<p>hello</p>"})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(res.PDFData), "%PDF-"))
		assert.Equal(t, 1, res.PageCount)
	})

	t.Run("rejects empty html", func(t *testing.T) {
		_, err := r.Render(context.Background(), &RenderRequest{HTML: "   "})
		require.Error(t, err)
		var rerr *RenderError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, ErrCodeInvalidHTML, rerr.Code)
	})
}

func TestBuildCompleteHTML(t *testing.T) {
	t.Run("wraps fragment", func(t *testing.T) {
		out := buildCompleteHTML(&RenderRequest{HTML: "<p>x</p>", Title: "Receipt"})
		assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
		assert.Contains(t, out, "<title>Receipt</title>")
		assert.Contains(t, out, "<p>x</p>")
	})

	t.Run("full document passes through", func(t *testing.T) {
		in := "<!DOCTYPE html><html><body>y</body></html>"
		assert.Equal(t, in, buildCompleteHTML(&RenderRequest{HTML: in}))
	})
}
