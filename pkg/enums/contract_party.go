package enums

import "fmt"

// ContractParty identifies which side of a contract an action belongs to.
type ContractParty string

const (
	ContractPartyBrand      ContractParty = "brand"
	ContractPartyInfluencer ContractParty = "influencer"
)

var validContractParties = []ContractParty{
	ContractPartyBrand,
	ContractPartyInfluencer,
}

// String implements fmt.Stringer.
func (p ContractParty) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ContractParty.
func (p ContractParty) IsValid() bool {
	for _, candidate := range validContractParties {
		if candidate == p {
			return true
		}
	}
	return false
}

// Counterparty returns the opposite side.
func (p ContractParty) Counterparty() ContractParty {
	if p == ContractPartyBrand {
		return ContractPartyInfluencer
	}
	return ContractPartyBrand
}

// ParseContractParty converts raw input into a ContractParty.
func ParseContractParty(value string) (ContractParty, error) {
	for _, candidate := range validContractParties {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid contract party %q", value)
}
