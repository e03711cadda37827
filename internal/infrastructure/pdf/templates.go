package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DealReceiptData carries the fields printed on a deal receipt.
// The application layer assembles it from the deal, the dealers
// involved and the escrow payment.
type DealReceiptData struct {
	DealNumber    string
	PaymentNumber string
	GeneratedAt   time.Time

	BuyerName  string
	BuyerGSTIN string
	BuyerCity  string

	SellerName  string
	SellerGSTIN string
	SellerCity  string

	VehicleDescription string // e.g. "2021 Maruti Suzuki Baleno Zeta"
	VIN                string
	RegistrationNo     string
	OdometerKM         int

	AgreedPrice    decimal.Decimal
	PlatformMargin decimal.Decimal
	TotalPayable   decimal.Decimal

	GatewayTxnID string
	PaidAt       *time.Time
}

// JobSheetData carries the fields printed on a transport job sheet.
type JobSheetData struct {
	OrderNumber string
	DealNumber  string
	GeneratedAt time.Time

	PartnerName string
	PartnerCode string

	VehicleDescription string
	VIN                string

	PickupCity    string
	PickupState   string
	DropoffCity   string
	DropoffState  string
	DistanceKM    int
	QuotedCharge  decimal.Decimal
	PickupContact string
	DropContact   string
}

var templateFuncs = template.FuncMap{
	"formatINR":      formatINR,
	"formatDate":     formatDate,
	"formatDateTime": formatDateTime,
	"upper":          strings.ToUpper,
}

// formatINR renders an amount with Indian digit grouping, e.g. 12,34,567.00
func formatINR(d decimal.Decimal) string {
	fixed := d.StringFixed(2)

	neg := strings.HasPrefix(fixed, "-")
	if neg {
		fixed = fixed[1:]
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	grouped := intPart
	if len(intPart) > 3 {
		head := intPart[:len(intPart)-3]
		tail := intPart[len(intPart)-3:]
		var parts []string
		for len(head) > 2 {
			parts = append([]string{head[len(head)-2:]}, parts...)
			head = head[:len(head)-2]
		}
		if head != "" {
			parts = append([]string{head}, parts...)
		}
		grouped = strings.Join(parts, ",") + "," + tail
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s₹%s.%s", sign, grouped, fracPart)
}

func formatDate(v any) string {
	if t, ok := timeValue(v); ok {
		return t.Format("02 Jan 2006")
	}
	return ""
}

func formatDateTime(v any) string {
	if t, ok := timeValue(v); ok {
		return t.Format("02 Jan 2006 15:04")
	}
	return ""
}

func timeValue(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t != nil {
			return *t, true
		}
	}
	return time.Time{}, false
}

const dealReceiptTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Deal Receipt {{.DealNumber}}</title>
<style>
body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 12px; color: #1a1a1a; }
h1 { font-size: 18px; margin-bottom: 2px; }
.muted { color: #666; }
.section { margin-top: 18px; }
table { width: 100%; border-collapse: collapse; }
th, td { text-align: left; padding: 6px 8px; border-bottom: 1px solid #ddd; }
th { background: #f5f5f5; font-weight: 600; }
.amount { text-align: right; }
.total td { font-weight: 700; border-top: 2px solid #1a1a1a; }
.parties { display: flex; gap: 40px; }
.party { flex: 1; }
</style>
</head>
<body>
<h1>Deal Receipt</h1>
<div class="muted">{{.DealNumber}} &middot; generated {{formatDateTime .GeneratedAt}}</div>

<div class="section parties">
  <div class="party">
    <strong>Buyer</strong><br>
    {{.BuyerName}}<br>
    {{if .BuyerGSTIN}}GSTIN: {{.BuyerGSTIN}}<br>{{end}}
    {{.BuyerCity}}
  </div>
  <div class="party">
    <strong>Seller</strong><br>
    {{.SellerName}}<br>
    {{if .SellerGSTIN}}GSTIN: {{.SellerGSTIN}}<br>{{end}}
    {{.SellerCity}}
  </div>
</div>

<div class="section">
  <table>
    <tr><th colspan="2">Vehicle</th></tr>
    <tr><td>Description</td><td>{{.VehicleDescription}}</td></tr>
    <tr><td>VIN</td><td>{{upper .VIN}}</td></tr>
    {{if .RegistrationNo}}<tr><td>Registration</td><td>{{upper .RegistrationNo}}</td></tr>{{end}}
    <tr><td>Odometer</td><td>{{.OdometerKM}} km</td></tr>
  </table>
</div>

<div class="section">
  <table>
    <tr><th>Item</th><th class="amount">Amount</th></tr>
    <tr><td>Agreed vehicle price</td><td class="amount">{{formatINR .AgreedPrice}}</td></tr>
    <tr><td>Platform margin</td><td class="amount">{{formatINR .PlatformMargin}}</td></tr>
    <tr class="total"><td>Total payable</td><td class="amount">{{formatINR .TotalPayable}}</td></tr>
  </table>
</div>

<div class="section">
  <table>
    <tr><th colspan="2">Payment</th></tr>
    <tr><td>Payment number</td><td>{{.PaymentNumber}}</td></tr>
    {{if .GatewayTxnID}}<tr><td>Transaction</td><td>{{.GatewayTxnID}}</td></tr>{{end}}
    {{if .PaidAt}}<tr><td>Paid at</td><td>{{formatDateTime .PaidAt}}</td></tr>{{end}}
  </table>
</div>

<div class="section muted">
  Funds are held in escrow and released to the seller on delivery confirmation.
</div>
</body>
</html>`

const jobSheetTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Transport Job Sheet {{.OrderNumber}}</title>
<style>
body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 12px; color: #1a1a1a; }
h1 { font-size: 18px; margin-bottom: 2px; }
.muted { color: #666; }
.section { margin-top: 18px; }
table { width: 100%; border-collapse: collapse; }
th, td { text-align: left; padding: 6px 8px; border-bottom: 1px solid #ddd; }
th { background: #f5f5f5; font-weight: 600; }
.route { font-size: 14px; font-weight: 600; }
</style>
</head>
<body>
<h1>Transport Job Sheet</h1>
<div class="muted">{{.OrderNumber}} &middot; deal {{.DealNumber}} &middot; generated {{formatDateTime .GeneratedAt}}</div>

<div class="section">
  <div class="route">{{.PickupCity}}, {{.PickupState}} &rarr; {{.DropoffCity}}, {{.DropoffState}} ({{.DistanceKM}} km)</div>
</div>

<div class="section">
  <table>
    <tr><th colspan="2">Carrier</th></tr>
    <tr><td>Partner</td><td>{{.PartnerName}} ({{.PartnerCode}})</td></tr>
    <tr><td>Quoted charge</td><td>{{formatINR .QuotedCharge}}</td></tr>
  </table>
</div>

<div class="section">
  <table>
    <tr><th colspan="2">Consignment</th></tr>
    <tr><td>Vehicle</td><td>{{.VehicleDescription}}</td></tr>
    <tr><td>VIN</td><td>{{upper .VIN}}</td></tr>
    {{if .PickupContact}}<tr><td>Pickup contact</td><td>{{.PickupContact}}</td></tr>{{end}}
    {{if .DropContact}}<tr><td>Drop contact</td><td>{{.DropContact}}</td></tr>{{end}}
  </table>
</div>

<div class="section muted">
  The carrier must verify the VIN against this sheet before loading.
</div>
</body>
</html>`

var (
	dealReceiptTmpl = template.Must(template.New("deal_receipt").Funcs(templateFuncs).Parse(dealReceiptTemplate))
	jobSheetTmpl    = template.Must(template.New("job_sheet").Funcs(templateFuncs).Parse(jobSheetTemplate))
)

// RenderDealReceiptHTML renders the receipt template to HTML
func RenderDealReceiptHTML(data *DealReceiptData) (string, error) {
	var buf bytes.Buffer
	if err := dealReceiptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render deal receipt template: %w", err)
	}
	return buf.String(), nil
}

// RenderJobSheetHTML renders the transport job sheet template to HTML
func RenderJobSheetHTML(data *JobSheetData) (string, error) {
	var buf bytes.Buffer
	if err := jobSheetTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render job sheet template: %w", err)
	}
	return buf.String(), nil
}
