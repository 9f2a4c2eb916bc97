package types

import "strings"

// Address is the mailing address an influencer submits with their party
// fields. It lives inside the influencer_fields JSONB document.
type Address struct {
	Line1      string  `json:"line1"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	PostalCode string  `json:"postal_code"`
	Country    string  `json:"country"`
}

// IsZero reports whether every address field is blank.
func (a Address) IsZero() bool {
	line2 := ""
	if a.Line2 != nil {
		line2 = *a.Line2
	}
	return strings.TrimSpace(a.Line1) == "" &&
		strings.TrimSpace(line2) == "" &&
		strings.TrimSpace(a.City) == "" &&
		strings.TrimSpace(a.State) == "" &&
		strings.TrimSpace(a.PostalCode) == "" &&
		strings.TrimSpace(a.Country) == ""
}
