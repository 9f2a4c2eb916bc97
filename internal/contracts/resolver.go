package contracts

import (
	"github.com/google/uuid"

	"github.com/brandquill/brandquill-backend/pkg/db/models"
)

// ChainResolution is the outcome of walking a resend chain. Contract is nil
// only in degraded mode, where the requested id was not in the scoped set and
// the caller gets the id echoed back with no metadata. Depth counts the
// forward hops from the requested document to the effective one; Ancestors
// counts the superseded documents behind the effective one.
type ChainResolution struct {
	RequestedID uuid.UUID
	EffectiveID uuid.UUID
	Contract    *models.Contract
	Depth       int
	Ancestors   int
	Degraded    bool
}

// ResolveChain walks superseded_by pointers forward from the requested
// document until it reaches one with no successor. The scoped set must all
// belong to one (brand, influencer, campaign) triple; pointers never cross
// that boundary. The walk is pure: no I/O, no mutation of the inputs.
//
// A pointer to a document missing from the set stops the walk at the last
// document found, so a partially loaded chain degrades to the newest known
// version instead of failing.
func ResolveChain(requestedID uuid.UUID, scoped []models.Contract) ChainResolution {
	byID := make(map[uuid.UUID]*models.Contract, len(scoped))
	for i := range scoped {
		byID[scoped[i].ID] = &scoped[i]
	}

	current, ok := byID[requestedID]
	if !ok {
		return ChainResolution{RequestedID: requestedID, EffectiveID: requestedID, Degraded: true}
	}

	depth := 0
	// Each hop lands on a distinct document, so len(scoped) bounds the walk.
	for hops := 0; hops < len(scoped); hops++ {
		if current.SupersededByID == nil {
			break
		}
		next, ok := byID[*current.SupersededByID]
		if !ok {
			break
		}
		current = next
		depth++
	}

	ancestors := 0
	behind := current
	for hops := 0; hops < len(scoped); hops++ {
		if behind.ResendOfID == nil {
			break
		}
		prev, ok := byID[*behind.ResendOfID]
		if !ok {
			break
		}
		behind = prev
		ancestors++
	}

	return ChainResolution{
		RequestedID: requestedID,
		EffectiveID: current.ID,
		Contract:    current,
		Depth:       depth,
		Ancestors:   ancestors,
	}
}
