package contracts

import (
	"regexp"
	"strings"

	"github.com/brandquill/brandquill-backend/pkg/enums"
	pkgerrors "github.com/brandquill/brandquill-backend/pkg/errors"
	"github.com/brandquill/brandquill-backend/pkg/types"
)

// FieldViolation names one failed check on the party-fields document. Field
// values use the JSON path of the offending field so clients can anchor the
// message to the right input.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var (
	phonePattern = regexp.MustCompile(`^[0-9+\-() ]{7,20}$`)
	ssnPattern   = regexp.MustCompile(`^\d{3}-\d{2}-\d{4}$`)
	einPattern   = regexp.MustCompile(`^\d{2}-\d{7}$`)
	tinPattern   = regexp.MustCompile(`^\d{9}$`)
	// Foreign tax identifiers vary too much for a strict format; accept a
	// bounded alphanumeric shape with the separators seen in practice.
	foreignTaxIDPattern = regexp.MustCompile(`^[A-Za-z0-9 /\-]{4,30}$`)
)

// ValidateInfluencerFields checks the whole party-fields document and returns
// every violation found, not just the first, so the client can surface all
// problems in one round trip. A nil return means the document is acceptable.
func ValidateInfluencerFields(fields types.InfluencerFields) []FieldViolation {
	var violations []FieldViolation

	add := func(field, message string) {
		violations = append(violations, FieldViolation{Field: field, Message: message})
	}

	if strings.TrimSpace(fields.LegalName) == "" {
		add("legal_name", "legal name is required")
	}

	email := strings.TrimSpace(fields.Email)
	if email == "" {
		add("email", "email is required")
	} else if !plausibleEmail(email) {
		add("email", "email must be a valid address")
	}

	phone := strings.TrimSpace(fields.Phone)
	if phone == "" {
		add("phone", "phone is required")
	} else if !phonePattern.MatchString(phone) {
		add("phone", "phone must be 7 to 20 digits, spaces, or +-()")
	}

	if strings.TrimSpace(fields.Address.Line1) == "" {
		add("address.line1", "address line 1 is required")
	}
	if strings.TrimSpace(fields.Address.City) == "" {
		add("address.city", "city is required")
	}
	if strings.TrimSpace(fields.Address.State) == "" {
		add("address.state", "state or region is required")
	}
	if strings.TrimSpace(fields.Address.PostalCode) == "" {
		add("address.postal_code", "postal code is required")
	}
	if strings.TrimSpace(fields.Address.Country) == "" {
		add("address.country", "country is required")
	}

	violations = append(violations, validateTaxSection(fields.TaxFormType, fields.TaxID)...)
	return violations
}

// validateTaxSection checks the tax form selection and the identifier format
// it implies. The identifier itself stays optional; influencers may supply it
// later through an update.
func validateTaxSection(formType enums.TaxFormType, taxID string) []FieldViolation {
	trimmed := strings.TrimSpace(taxID)

	if strings.TrimSpace(formType.String()) == "" {
		return []FieldViolation{{Field: "tax_form_type", Message: "tax form type is required"}}
	}
	if !formType.IsValid() {
		return []FieldViolation{{Field: "tax_form_type", Message: "tax form type must be W-9, W-8BEN, or W-8BEN-E"}}
	}

	if trimmed == "" {
		return nil
	}

	switch formType {
	case enums.TaxFormW9:
		if !ssnPattern.MatchString(trimmed) && !einPattern.MatchString(trimmed) && !tinPattern.MatchString(trimmed) {
			return []FieldViolation{{Field: "tax_id", Message: "tax id must be an SSN (NNN-NN-NNNN), an EIN (NN-NNNNNNN), or 9 digits"}}
		}
	case enums.TaxFormW8BEN, enums.TaxFormW8BENE:
		if !foreignTaxIDPattern.MatchString(trimmed) {
			return []FieldViolation{{Field: "tax_id", Message: "foreign tax id must be 4 to 30 letters, digits, spaces, hyphens, or slashes"}}
		}
	}
	return nil
}

// plausibleEmail applies a shallow shape check: one @, a non-empty local
// part, and a domain containing a dot. Deliverability is the mail system's
// problem, not ours.
func plausibleEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at != strings.LastIndex(email, "@") {
		return false
	}
	domain := email[at+1:]
	if domain == "" || strings.Contains(email, " ") {
		return false
	}
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

// violationError wraps the full violation set in a VALIDATION error whose
// details the transport layer serializes verbatim.
func violationError(violations []FieldViolation) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "influencer fields failed validation").
		WithDetails(map[string]any{"violations": violations})
}
