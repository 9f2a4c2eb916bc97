package contracts

import (
	"github.com/brandquill/brandquill-backend/pkg/db/models"
	"github.com/brandquill/brandquill-backend/pkg/enums"
)

// Flags are the server-computed permission gates attached to every contract
// read. Clients render from these and never derive their own; the server
// recomputes them from row state on each response and never stores them.
type Flags struct {
	CanEditInfluencerFields bool `json:"can_edit_influencer_fields"`
	CanSignInfluencer       bool `json:"can_sign_influencer"`
	IsResendChild           bool `json:"is_resend_child"`
}

// FlagPolicy computes the permission gates from authoritative row state.
// Implementations may only tighten the defaults; the service re-applies the
// terminal-state floor after calling the policy, so a permissive policy can
// never open a locked, superseded, or rejected document.
type FlagPolicy interface {
	Compute(c *models.Contract) Flags
}

type defaultFlagPolicy struct{}

// NewDefaultFlagPolicy returns the standard gate computation.
func NewDefaultFlagPolicy() FlagPolicy {
	return defaultFlagPolicy{}
}

func (defaultFlagPolicy) Compute(c *models.Contract) Flags {
	open := c.Status == enums.ContractStatusConfirmed &&
		!c.Locked() &&
		!c.Superseded() &&
		c.Status != enums.ContractStatusRejected
	return Flags{
		// Once the brand has signed, the influencer's answers are part of the
		// document the brand signed and stop being editable.
		CanEditInfluencerFields: open && !c.BrandSigned,
		CanSignInfluencer:       open,
		IsResendChild:           c.ResendOfID != nil,
	}
}

// clampFlags enforces the terminal-state floor over whatever the configured
// policy produced.
func clampFlags(c *models.Contract, f Flags) Flags {
	if c.Locked() || c.Superseded() || c.Status == enums.ContractStatusRejected {
		f.CanEditInfluencerFields = false
		f.CanSignInfluencer = false
	}
	f.IsResendChild = c.ResendOfID != nil
	return f
}
