package enums

import "fmt"

// ContractStatus tracks the lifecycle of a collaboration contract.
//
// The status is a coarsening of the two per-party confirmation/signature
// sub-states: it advances on influencer milestones (sent -> confirmed ->
// signed) and flips to locked once both parties have confirmed and signed.
type ContractStatus string

const (
	ContractStatusDraft     ContractStatus = "draft"
	ContractStatusSent      ContractStatus = "sent"
	ContractStatusConfirmed ContractStatus = "confirmed"
	ContractStatusSigned    ContractStatus = "signed"
	ContractStatusLocked    ContractStatus = "locked"
	ContractStatusRejected  ContractStatus = "rejected"
)

var validContractStatuses = []ContractStatus{
	ContractStatusDraft,
	ContractStatusSent,
	ContractStatusConfirmed,
	ContractStatusSigned,
	ContractStatusLocked,
	ContractStatusRejected,
}

// String implements fmt.Stringer.
func (c ContractStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ContractStatus.
func (c ContractStatus) IsValid() bool {
	for _, candidate := range validContractStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (c ContractStatus) IsTerminal() bool {
	return c == ContractStatusLocked || c == ContractStatusRejected
}

// ParseContractStatus converts raw input into a ContractStatus.
func ParseContractStatus(value string) (ContractStatus, error) {
	for _, candidate := range validContractStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid contract status %q", value)
}
