package enums

import "fmt"

// TaxFormType is the tax form an influencer files with their party fields.
// The wire values match the IRS form names shown in the UI.
type TaxFormType string

const (
	TaxFormW9     TaxFormType = "W-9"
	TaxFormW8BEN  TaxFormType = "W-8BEN"
	TaxFormW8BENE TaxFormType = "W-8BEN-E"
)

var validTaxFormTypes = []TaxFormType{
	TaxFormW9,
	TaxFormW8BEN,
	TaxFormW8BENE,
}

// String implements fmt.Stringer.
func (t TaxFormType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TaxFormType.
func (t TaxFormType) IsValid() bool {
	for _, candidate := range validTaxFormTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTaxFormType converts raw input into a TaxFormType.
func ParseTaxFormType(value string) (TaxFormType, error) {
	for _, candidate := range validTaxFormTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tax form type %q", value)
}
