package workflow

import (
	"time"

	"github.com/rentova-solution/contract-workflow-service/internal/model"
)

// CheckSubmitExtension guards creating an extension request. pending is the
// contract's current PENDING request, if any.
func CheckSubmitExtension(c *model.Contract, pending *model.ExtensionRequest, requester *model.Party, newEndDate time.Time) error {
	if c.Status != model.StatusSigned && c.Status != model.StatusActive {
		return Errf(CodeInvalidStatus, "contract %s is %s, extensions require SIGNED or ACTIVE", c.ID, c.Status)
	}
	if requester.Role == model.RoleLandlord {
		return Errf(CodeNotEntitled, "the landlord resolves extensions, the tenant requests them")
	}
	if pending != nil {
		return Errf(CodeExtensionPending, "contract %s already has a pending extension request", c.ID)
	}
	if !newEndDate.After(c.EndDate) {
		return Errf(CodeValidation, "requested end date must be after the current end date")
	}
	return nil
}

// CheckDecideExtension guards the landlord's accept/decline decision.
func CheckDecideExtension(c *model.Contract, req *model.ExtensionRequest, decider *model.Party) error {
	if req.Status != model.ExtensionPending {
		return Errf(CodeInvalidStatus, "extension request %s is %s, only PENDING requests can be resolved", req.ID, req.Status)
	}
	if decider.Role != model.RoleLandlord {
		return Errf(CodeNotEntitled, "only the landlord can resolve an extension request")
	}
	switch c.Status {
	case model.StatusSigned, model.StatusActive, model.StatusExpired:
		return nil
	default:
		return Errf(CodeInvalidStatus, "contract %s is %s, extensions cannot be resolved", c.ID, c.Status)
	}
}

// NextVersion is the version number an accepted extension appends.
func NextVersion(versions []model.ContractVersion) int {
	max := 0
	for i := range versions {
		if versions[i].Version > max {
			max = versions[i].Version
		}
	}
	return max + 1
}
