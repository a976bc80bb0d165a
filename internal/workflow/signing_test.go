package workflow

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/rentova-solution/contract-workflow-service/internal/model"
)

func sentView() *model.ContractView {
	c := validDraft()
	c.Status = model.StatusSent
	landlord := model.Party{ID: uuid.New(), ContractID: c.ID, Role: model.RoleLandlord, UserID: c.LandlordUserID}
	tenant := model.Party{ID: uuid.New(), ContractID: c.ID, Role: model.RoleTenant, UserID: c.TenantUserID}
	return &model.ContractView{
		Contract: c,
		Parties:  []model.Party{landlord, tenant},
		Versions: []model.ContractVersion{{ContractID: c.ID, Version: 1}},
	}
}

func TestValidateOTPFormat(t *testing.T) {
	assert.NoError(t, ValidateOTPFormat("042137"))
	assert.Error(t, ValidateOTPFormat("12345"))
	assert.Error(t, ValidateOTPFormat("1234567"))
	assert.Error(t, ValidateOTPFormat("12a456"))
	assert.Error(t, ValidateOTPFormat(""))
}

func TestCheckRequestSignOTP(t *testing.T) {
	view := sentView()
	landlord := view.Parties[0]

	assert.NoError(t, CheckRequestSignOTP(view, landlord.ID))

	// Unknown party.
	err := CheckRequestSignOTP(view, uuid.New())
	assert.Equal(t, CodePartyNotFound, CodeOf(err))

	// Wrong status.
	view.Contract.Status = model.StatusDraft
	err = CheckRequestSignOTP(view, landlord.ID)
	assert.Equal(t, CodeInvalidStatus, CodeOf(err))

	// Already signed.
	view.Contract.Status = model.StatusSent
	view.Signatures = []model.Signature{{ID: uuid.New(), PartyID: landlord.ID}}
	err = CheckRequestSignOTP(view, landlord.ID)
	assert.Equal(t, CodeAlreadySigned, CodeOf(err))
}

func TestCheckSignRejectsBadOTPBeforeStateChecks(t *testing.T) {
	view := sentView()
	err := CheckSign(view, view.Parties[0].ID, "12")
	assert.Equal(t, CodeValidation, CodeOf(err))
}

func TestAllPartiesSigned(t *testing.T) {
	view := sentView()
	landlord, tenant := view.Parties[0], view.Parties[1]

	assert.False(t, AllPartiesSigned(view))

	view.Signatures = []model.Signature{{PartyID: landlord.ID}}
	assert.False(t, AllPartiesSigned(view))

	view.Signatures = append(view.Signatures, model.Signature{PartyID: tenant.ID})
	assert.True(t, AllPartiesSigned(view))

	// A duplicate signature for one party never counts as coverage for the
	// other.
	view.Signatures = []model.Signature{{PartyID: landlord.ID}, {PartyID: landlord.ID}}
	assert.False(t, AllPartiesSigned(view))
}

func TestPartyOfUser(t *testing.T) {
	view := sentView()
	p, ok := PartyOfUser(view, view.Contract.TenantUserID)
	assert.True(t, ok)
	assert.Equal(t, model.RoleTenant, p.Role)

	_, ok = PartyOfUser(view, uuid.New())
	assert.False(t, ok)
}

func TestHasPartySigned(t *testing.T) {
	view := sentView()
	landlord := view.Parties[0]
	assert.False(t, HasPartySigned(view, landlord.ID))
	view.Signatures = []model.Signature{{PartyID: landlord.ID}}
	assert.True(t, HasPartySigned(view, landlord.ID))
}

func TestDaysUntilExpiry(t *testing.T) {
	c := validDraft()
	assert.Equal(t, 10, DaysUntilExpiry(c, c.EndDate.AddDate(0, 0, -10)))
	assert.Equal(t, 0, DaysUntilExpiry(c, c.EndDate))
	assert.Equal(t, -5, DaysUntilExpiry(c, c.EndDate.Add(5*24*time.Hour)))
}
