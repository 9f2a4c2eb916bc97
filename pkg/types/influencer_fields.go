package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/brandquill/brandquill-backend/pkg/enums"
)

// DataAccessConsents are the opt-in grants an influencer extends to the
// brand alongside their party fields.
type DataAccessConsents struct {
	InsightsReadOnly bool `json:"insights_read_only"`
	Whitelisting     bool `json:"whitelisting"`
	SparkAds         bool `json:"spark_ads"`
}

// InfluencerFields is the party-fields document an influencer submits when
// confirming or updating a contract. Stored as a single JSONB column so the
// whole set versions together with the contract row.
type InfluencerFields struct {
	LegalName   string             `json:"legal_name"`
	Email       string             `json:"email"`
	Phone       string             `json:"phone"`
	Address     Address            `json:"address"`
	TaxFormType enums.TaxFormType  `json:"tax_form_type"`
	TaxID       string             `json:"tax_id,omitempty"`
	Notes       string             `json:"notes,omitempty"`
	Consents    DataAccessConsents `json:"consents"`
}

// Value serializes the fields document to JSON.
func (f *InfluencerFields) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

// Scan decodes JSONB into the fields document.
func (f *InfluencerFields) Scan(value interface{}) error {
	if value == nil {
		*f = InfluencerFields{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, f)
}

func asJSON(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("types: unsupported JSONB scan type %T", value)
	}
}
