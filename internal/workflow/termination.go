package workflow

import (
	"github.com/google/uuid"

	"github.com/rentova-solution/contract-workflow-service/internal/model"
)

// FindConsent returns the party's consent record on the request.
func FindConsent(consents []model.TerminationConsent, partyID uuid.UUID) (*model.TerminationConsent, error) {
	for i := range consents {
		if consents[i].PartyID == partyID {
			return &consents[i], nil
		}
	}
	return nil, Errf(CodePartyNotFound, "party %s has no consent on this termination request", partyID)
}

// CheckRequestConsentOTP guards OTP issuance for a termination consent.
func CheckRequestConsentOTP(req *model.TerminationRequest, consents []model.TerminationConsent, partyID uuid.UUID) error {
	if req.Status != model.TerminationSigning {
		return Errf(CodeTerminationClosed, "termination request %s is %s, consent requires SIGNING", req.ID, req.Status)
	}
	consent, err := FindConsent(consents, partyID)
	if err != nil {
		return err
	}
	if consent.Status == model.ConsentSigned {
		return Errf(CodeConsentSigned, "party %s has already consented", partyID)
	}
	return nil
}

// CheckConsent guards flipping a consent PENDING -> SIGNED.
func CheckConsent(req *model.TerminationRequest, consents []model.TerminationConsent, partyID uuid.UUID, otp string) error {
	if err := ValidateOTPFormat(otp); err != nil {
		return err
	}
	return CheckRequestConsentOTP(req, consents, partyID)
}

// AllConsentsSigned reports whether every party has signed off. Evaluated
// after each individual consent; order across parties does not matter.
func AllConsentsSigned(consents []model.TerminationConsent) bool {
	if len(consents) == 0 {
		return false
	}
	for i := range consents {
		if consents[i].Status != model.ConsentSigned {
			return false
		}
	}
	return true
}

// CheckDecline guards rejecting a termination request. Any party may decline
// while the request is still collecting consents; already-signed consents
// stay signed.
func CheckDecline(req *model.TerminationRequest, consents []model.TerminationConsent, partyID uuid.UUID) error {
	if req.Status != model.TerminationSigning {
		return Errf(CodeTerminationClosed, "termination request %s is %s, it can no longer be declined", req.ID, req.Status)
	}
	if _, err := FindConsent(consents, partyID); err != nil {
		return err
	}
	return nil
}
