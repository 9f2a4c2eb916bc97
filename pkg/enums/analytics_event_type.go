package enums

import "fmt"

// AnalyticsEventType is the canonical event_type for analytics routing.
type AnalyticsEventType string

const (
	AnalyticsEventContractSent         AnalyticsEventType = "contract_sent"
	AnalyticsEventContractConfirmed    AnalyticsEventType = "contract_confirmed"
	AnalyticsEventContractSigned       AnalyticsEventType = "contract_signed"
	AnalyticsEventContractLocked       AnalyticsEventType = "contract_locked"
	AnalyticsEventContractRejected     AnalyticsEventType = "contract_rejected"
	AnalyticsEventContractResent       AnalyticsEventType = "contract_resent"
	AnalyticsEventApplicationSubmitted AnalyticsEventType = "application_submitted"
	AnalyticsEventApplicationApproved  AnalyticsEventType = "application_approved"
)

var validAnalyticsEventTypes = []AnalyticsEventType{
	AnalyticsEventContractSent,
	AnalyticsEventContractConfirmed,
	AnalyticsEventContractSigned,
	AnalyticsEventContractLocked,
	AnalyticsEventContractRejected,
	AnalyticsEventContractResent,
	AnalyticsEventApplicationSubmitted,
	AnalyticsEventApplicationApproved,
}

// IsValid reports whether the value matches the canonical analytics event_type enum.
func (a AnalyticsEventType) IsValid() bool {
	for _, candidate := range validAnalyticsEventTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAnalyticsEventType converts the raw string to AnalyticsEventType.
func ParseAnalyticsEventType(value string) (AnalyticsEventType, error) {
	for _, candidate := range validAnalyticsEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid analytics event type %q", value)
}
