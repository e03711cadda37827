package valueobject

import (
	"database/sql/driver"
	"fmt"
	"regexp"
	"strings"
)

// Registration identifier value objects for Indian dealer onboarding.
// Each identifier is validated on construction and stored uppercase.

var (
	gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
	panPattern   = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	ifscPattern  = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	vinPattern   = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)
)

// GSTIN is a Goods and Services Tax Identification Number
type GSTIN string

// NewGSTIN validates and creates a GSTIN
func NewGSTIN(value string) (GSTIN, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	if !gstinPattern.MatchString(normalized) {
		return "", fmt.Errorf("invalid GSTIN format: %s", value)
	}
	return GSTIN(normalized), nil
}

// StateCode returns the two-digit state code prefix of the GSTIN
func (g GSTIN) StateCode() string {
	if len(g) < 2 {
		return ""
	}
	return string(g[:2])
}

// PAN returns the embedded Permanent Account Number (characters 3-12)
func (g GSTIN) PAN() string {
	if len(g) < 12 {
		return ""
	}
	return string(g[2:12])
}

func (g GSTIN) String() string { return string(g) }

// Value implements driver.Valuer
func (g GSTIN) Value() (driver.Value, error) { return string(g), nil }

// Scan implements sql.Scanner
func (g *GSTIN) Scan(value any) error { return scanIdentifier((*string)(g), value, "GSTIN") }

// PAN is a Permanent Account Number
type PAN string

// NewPAN validates and creates a PAN
func NewPAN(value string) (PAN, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	if !panPattern.MatchString(normalized) {
		return "", fmt.Errorf("invalid PAN format: %s", value)
	}
	return PAN(normalized), nil
}

func (p PAN) String() string { return string(p) }

// Value implements driver.Valuer
func (p PAN) Value() (driver.Value, error) { return string(p), nil }

// Scan implements sql.Scanner
func (p *PAN) Scan(value any) error { return scanIdentifier((*string)(p), value, "PAN") }

// IFSC is an Indian Financial System Code identifying a bank branch
type IFSC string

// NewIFSC validates and creates an IFSC code
func NewIFSC(value string) (IFSC, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	if !ifscPattern.MatchString(normalized) {
		return "", fmt.Errorf("invalid IFSC format: %s", value)
	}
	return IFSC(normalized), nil
}

// BankCode returns the four-letter bank code prefix
func (i IFSC) BankCode() string {
	if len(i) < 4 {
		return ""
	}
	return string(i[:4])
}

func (i IFSC) String() string { return string(i) }

// Value implements driver.Valuer
func (i IFSC) Value() (driver.Value, error) { return string(i), nil }

// Scan implements sql.Scanner
func (i *IFSC) Scan(value any) error { return scanIdentifier((*string)(i), value, "IFSC") }

// VIN is a 17-character vehicle identification number.
// The letters I, O and Q are excluded to avoid confusion with digits.
type VIN string

// NewVIN validates and creates a VIN
func NewVIN(value string) (VIN, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	if !vinPattern.MatchString(normalized) {
		return "", fmt.Errorf("invalid VIN format: %s", value)
	}
	return VIN(normalized), nil
}

// WMI returns the world manufacturer identifier (first three characters)
func (v VIN) WMI() string {
	if len(v) < 3 {
		return ""
	}
	return string(v[:3])
}

func (v VIN) String() string { return string(v) }

// Value implements driver.Valuer
func (v VIN) Value() (driver.Value, error) { return string(v), nil }

// Scan implements sql.Scanner
func (v *VIN) Scan(value any) error { return scanIdentifier((*string)(v), value, "VIN") }

func scanIdentifier(dst *string, value any, kind string) error {
	if value == nil {
		*dst = ""
		return nil
	}
	switch val := value.(type) {
	case string:
		*dst = val
	case []byte:
		*dst = string(val)
	default:
		return fmt.Errorf("cannot scan %T into %s", value, kind)
	}
	return nil
}
