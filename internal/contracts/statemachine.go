package contracts

import (
	"time"

	"github.com/google/uuid"

	"github.com/brandquill/brandquill-backend/pkg/db/models"
	"github.com/brandquill/brandquill-backend/pkg/enums"
	pkgerrors "github.com/brandquill/brandquill-backend/pkg/errors"
)

// Machine owns the legal lifecycle transitions for a contract. Methods apply
// the transition to the in-memory row and return a typed error when a guard
// fails; they never touch storage. Guard failures are never silent no-ops.
type Machine struct {
	now func() time.Time
}

// NewMachine builds the state machine with the wall clock.
func NewMachine() *Machine {
	return &Machine{now: time.Now}
}

// guardMutable rejects intents against terminal or frozen documents. Locked
// wins over superseded so a fully executed contract always reports
// ALREADY_LOCKED.
func guardMutable(c *models.Contract) error {
	if c.Locked() {
		return pkgerrors.New(pkgerrors.CodeAlreadyLocked, "contract is locked")
	}
	if c.Superseded() {
		return pkgerrors.New(pkgerrors.CodeAlreadySuperseded, "contract has been superseded")
	}
	if c.Status == enums.ContractStatusRejected {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "contract has been rejected")
	}
	return nil
}

// ConfirmInfluencer applies the sent -> confirmed transition.
func (m *Machine) ConfirmInfluencer(c *models.Contract) error {
	if err := guardMutable(c); err != nil {
		return err
	}
	if c.InfluencerConfirmed {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "influencer already confirmed")
	}
	if c.Status != enums.ContractStatusSent {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "contract is not awaiting confirmation")
	}
	now := m.now().UTC()
	c.InfluencerConfirmed = true
	c.InfluencerConfirmedAt = &now
	c.Status = enums.ContractStatusConfirmed
	return nil
}

// GuardUpdate verifies the field-only mutation is legal in the current state.
// The edit-permission flag itself is policy and checked by the caller.
func (m *Machine) GuardUpdate(c *models.Contract) error {
	if err := guardMutable(c); err != nil {
		return err
	}
	if c.Status != enums.ContractStatusConfirmed {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "fields can only be updated on a confirmed contract")
	}
	return nil
}

// SignInfluencer applies the confirmed -> signed transition. Signing before
// confirming is NOT_PERMITTED by contract, not a state conflict.
func (m *Machine) SignInfluencer(c *models.Contract, signatureID uuid.UUID) error {
	if err := guardMutable(c); err != nil {
		return err
	}
	if !c.InfluencerConfirmed {
		return pkgerrors.New(pkgerrors.CodeNotPermitted, "influencer must confirm before signing")
	}
	if c.InfluencerSigned {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "influencer already signed")
	}
	if c.Status != enums.ContractStatusConfirmed {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "contract is not ready for signature")
	}
	now := m.now().UTC()
	c.InfluencerSigned = true
	c.InfluencerSignedAt = &now
	c.InfluencerSignatureID = &signatureID
	c.Status = enums.ContractStatusSigned
	return nil
}

// ConfirmBrand records the brand's independent confirmation. Status tracks
// influencer milestones and is left untouched.
func (m *Machine) ConfirmBrand(c *models.Contract) error {
	if err := guardMutable(c); err != nil {
		return err
	}
	if c.BrandConfirmed {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "brand already confirmed")
	}
	if c.Status == enums.ContractStatusDraft {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "contract has not been sent")
	}
	now := m.now().UTC()
	c.BrandConfirmed = true
	c.BrandConfirmedAt = &now
	return nil
}

// SignBrand records the brand's independent signature.
func (m *Machine) SignBrand(c *models.Contract, signatureID uuid.UUID) error {
	if err := guardMutable(c); err != nil {
		return err
	}
	if !c.BrandConfirmed {
		return pkgerrors.New(pkgerrors.CodeNotPermitted, "brand must confirm before signing")
	}
	if c.BrandSigned {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "brand already signed")
	}
	now := m.now().UTC()
	c.BrandSigned = true
	c.BrandSignedAt = &now
	c.BrandSignatureID = &signatureID
	return nil
}

// Reject applies the sent|confirmed -> rejected transition.
func (m *Machine) Reject(c *models.Contract, reason *string) error {
	if err := guardMutable(c); err != nil {
		return err
	}
	if c.Status != enums.ContractStatusSent && c.Status != enums.ContractStatusConfirmed {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "contract can no longer be rejected")
	}
	c.Status = enums.ContractStatusRejected
	c.RejectionReason = reason
	return nil
}

// EvaluateLock fires the derived lock transition when all four party booleans
// hold. It runs after every mutating intent regardless of which party acted,
// and reports whether the lock fired on this evaluation.
func (m *Machine) EvaluateLock(c *models.Contract) bool {
	if c.Locked() || !c.FullyExecuted() {
		return false
	}
	now := m.now().UTC()
	c.LockedAt = &now
	c.Status = enums.ContractStatusLocked
	return true
}
