package workflow

import (
	"time"

	"github.com/google/uuid"

	"github.com/rentova-solution/contract-workflow-service/internal/model"
)

// ValidateOTPFormat rejects malformed codes before any lookup: exactly six
// ASCII digits.
func ValidateOTPFormat(code string) error {
	if len(code) != 6 {
		return Errf(CodeValidation, "OTP must be 6 digits")
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return Errf(CodeValidation, "OTP must be 6 digits")
		}
	}
	return nil
}

// FindParty looks a party up by ID within the read model.
func FindParty(view *model.ContractView, partyID uuid.UUID) (*model.Party, error) {
	for i := range view.Parties {
		if view.Parties[i].ID == partyID {
			return &view.Parties[i], nil
		}
	}
	return nil, Errf(CodePartyNotFound, "party %s is not part of contract %s", partyID, view.Contract.ID)
}

// PartyOfUser returns the acting user's party on the contract, if any.
func PartyOfUser(view *model.ContractView, userID uuid.UUID) (*model.Party, bool) {
	for i := range view.Parties {
		if view.Parties[i].UserID == userID {
			return &view.Parties[i], true
		}
	}
	return nil, false
}

// HasPartySigned reports whether the party already holds a signature.
func HasPartySigned(view *model.ContractView, partyID uuid.UUID) bool {
	for i := range view.Signatures {
		if view.Signatures[i].PartyID == partyID {
			return true
		}
	}
	return false
}

// AllPartiesSigned reports full coverage: every party has exactly one
// signature. This is the SENT -> SIGNED guard.
func AllPartiesSigned(view *model.ContractView) bool {
	if len(view.Parties) == 0 || len(view.Signatures) < len(view.Parties) {
		return false
	}
	for i := range view.Parties {
		n := 0
		for j := range view.Signatures {
			if view.Signatures[j].PartyID == view.Parties[i].ID {
				n++
			}
		}
		if n != 1 {
			return false
		}
	}
	return true
}

// CheckRequestSignOTP guards OTP issuance for the signing ceremony: the
// contract must be out for signing and the party must still be unsigned.
func CheckRequestSignOTP(view *model.ContractView, partyID uuid.UUID) error {
	if view.Contract.Status != model.StatusSent {
		return Errf(CodeInvalidStatus, "contract %s is %s, signing requires SENT", view.Contract.ID, view.Contract.Status)
	}
	if _, err := FindParty(view, partyID); err != nil {
		return err
	}
	if HasPartySigned(view, partyID) {
		return Errf(CodeAlreadySigned, "party %s has already signed contract %s", partyID, view.Contract.ID)
	}
	return nil
}

// CheckSign guards signature creation. The OTP itself is verified against
// the issuance store by the caller; this covers everything client-visible.
func CheckSign(view *model.ContractView, partyID uuid.UUID, otp string) error {
	if err := ValidateOTPFormat(otp); err != nil {
		return err
	}
	return CheckRequestSignOTP(view, partyID)
}

// DaysUntilExpiry is the whole number of days from now to the end date,
// negative once past it. Used by the portal's "days remaining" badge.
func DaysUntilExpiry(c *model.Contract, now time.Time) int {
	return int(c.EndDate.Sub(now).Hours() / 24)
}
