package workflow

import (
	"time"

	"github.com/rentova-solution/contract-workflow-service/internal/model"
)

// MinTerm is the shortest allowed contract duration.
const MinTerm = 30 * 24 * time.Hour

// ExpiryReason is the system reason recorded on NORMAL_EXPIRE terminations.
// Clients cannot override it.
const ExpiryReason = "Contract reached its agreed end date"

// CheckUpdateDraft guards full edits and deletion: both are only legal while
// the contract has never been sent.
func CheckUpdateDraft(c *model.Contract) error {
	if c.Status != model.StatusDraft {
		return Errf(CodeInvalidStatus, "contract %s is %s, only DRAFT contracts can be edited or deleted", c.ID, c.Status)
	}
	return nil
}

// ValidateTerm checks the date invariant shared by drafts and extensions.
func ValidateTerm(start, end time.Time) error {
	if !start.Before(end) {
		return Errf(CodeValidation, "end date must be after start date")
	}
	if end.Sub(start) < MinTerm {
		return Errf(CodeValidation, "contract term must be at least %d days", int(MinTerm.Hours()/24))
	}
	return nil
}

// CheckSend guards the DRAFT -> SENT transition: the draft must be complete
// and both sides resolvable.
func CheckSend(c *model.Contract) error {
	if c.Status != model.StatusDraft {
		return Errf(CodeInvalidStatus, "contract %s is %s, only DRAFT contracts can be sent", c.ID, c.Status)
	}
	if err := ValidateTerm(c.StartDate, c.EndDate); err != nil {
		return err
	}
	if c.RentAmount <= 0 {
		return Errf(CodeValidation, "rent amount is required")
	}
	if c.LandlordUserID == c.TenantUserID {
		return Errf(CodeValidation, "landlord and tenant must be different users")
	}
	return nil
}

// CheckRequestTermination guards creating a termination request. active is
// the contract's current SIGNING request, if any; callers pass what they
// last read and the service re-checks against the store.
func CheckRequestTermination(c *model.Contract, active *model.TerminationRequest, typ model.TerminationType, reason string) error {
	if c.Status != model.StatusSigned && c.Status != model.StatusActive {
		return Errf(CodeInvalidStatus, "contract %s is %s, termination requires SIGNED or ACTIVE", c.ID, c.Status)
	}
	if active != nil {
		return Errf(CodeTerminationPending, "contract %s already has an active termination request", c.ID)
	}
	switch typ {
	case model.TerminationEarly:
		if reason == "" {
			return Errf(CodeValidation, "a reason is required for early termination")
		}
	case model.TerminationExpire:
		// Reason is fixed by the system; nothing to validate here.
	default:
		return Errf(CodeValidation, "unknown termination type %q", typ)
	}
	return nil
}

// TerminationOutcome maps a completed termination to the contract's terminal
// status.
func TerminationOutcome(typ model.TerminationType) model.ContractStatus {
	if typ == model.TerminationEarly {
		return model.StatusCancelled
	}
	return model.StatusExpired
}

// CheckTerminationOutcome guards applying the outcome once every consent is
// signed. A NORMAL_EXPIRE may only complete at or after the end date.
func CheckTerminationOutcome(c *model.Contract, req *model.TerminationRequest, now time.Time) error {
	if c.Status != model.StatusTerminationPending {
		return Errf(CodeInvalidStatus, "contract %s is %s, expected TERMINATION_PENDING", c.ID, c.Status)
	}
	if req.Type == model.TerminationExpire && now.Before(c.EndDate) {
		return Errf(CodeNotExpirable, "contract %s has not reached its end date", c.ID)
	}
	return nil
}

// CanActivate reports whether the clock transition SIGNED -> ACTIVE applies.
func CanActivate(c *model.Contract, now time.Time) bool {
	return c.Status == model.StatusSigned && !now.Before(c.StartDate)
}

// IsTerminal reports whether the contract can never change status again.
func IsTerminal(s model.ContractStatus) bool {
	return s == model.StatusCancelled || s == model.StatusExpired
}
