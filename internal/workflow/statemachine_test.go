package workflow

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/rentova-solution/contract-workflow-service/internal/model"
)

func validDraft() *model.Contract {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return &model.Contract{
		ID:             uuid.New(),
		UnitID:         uuid.New(),
		LandlordUserID: uuid.New(),
		TenantUserID:   uuid.New(),
		StartDate:      start,
		EndDate:        start.AddDate(1, 0, 0),
		RentAmount:     1200,
		DepositAmount:  2400,
		Status:         model.StatusDraft,
	}
}

func TestValidateTerm(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		end  time.Time
		ok   bool
	}{
		{"one year", start.AddDate(1, 0, 0), true},
		{"exactly thirty days", start.Add(MinTerm), true},
		{"under minimum term", start.AddDate(0, 0, 10), false},
		{"end before start", start.AddDate(0, 0, -1), false},
		{"end equals start", start, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTerm(start, tt.end)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, CodeValidation, CodeOf(err))
			}
		})
	}
}

func TestCheckSend(t *testing.T) {
	c := validDraft()
	assert.NoError(t, CheckSend(c))

	sent := validDraft()
	sent.Status = model.StatusSent
	assert.Equal(t, CodeInvalidStatus, CodeOf(CheckSend(sent)))

	noRent := validDraft()
	noRent.RentAmount = 0
	assert.Equal(t, CodeValidation, CodeOf(CheckSend(noRent)))

	sameUser := validDraft()
	sameUser.TenantUserID = sameUser.LandlordUserID
	assert.Equal(t, CodeValidation, CodeOf(CheckSend(sameUser)))
}

func TestCheckUpdateDraft(t *testing.T) {
	c := validDraft()
	assert.NoError(t, CheckUpdateDraft(c))

	c.Status = model.StatusActive
	assert.Equal(t, CodeInvalidStatus, CodeOf(CheckUpdateDraft(c)))
}

func TestCheckRequestTermination(t *testing.T) {
	c := validDraft()
	c.Status = model.StatusActive

	assert.NoError(t, CheckRequestTermination(c, nil, model.TerminationEarly, "non-payment"))
	assert.NoError(t, CheckRequestTermination(c, nil, model.TerminationExpire, ""))

	// Missing reason only matters for early termination.
	err := CheckRequestTermination(c, nil, model.TerminationEarly, "")
	assert.Equal(t, CodeValidation, CodeOf(err))

	// A second active request is rejected.
	active := &model.TerminationRequest{ID: uuid.New(), Status: model.TerminationSigning}
	err = CheckRequestTermination(c, active, model.TerminationEarly, "x")
	assert.Equal(t, CodeTerminationPending, CodeOf(err))

	c.Status = model.StatusSent
	err = CheckRequestTermination(c, nil, model.TerminationEarly, "x")
	assert.Equal(t, CodeInvalidStatus, CodeOf(err))
}

func TestTerminationOutcome(t *testing.T) {
	assert.Equal(t, model.StatusCancelled, TerminationOutcome(model.TerminationEarly))
	assert.Equal(t, model.StatusExpired, TerminationOutcome(model.TerminationExpire))
}

func TestCheckTerminationOutcome(t *testing.T) {
	c := validDraft()
	c.Status = model.StatusTerminationPending

	early := &model.TerminationRequest{Type: model.TerminationEarly}
	expire := &model.TerminationRequest{Type: model.TerminationExpire}

	beforeEnd := c.EndDate.AddDate(0, -6, 0)
	afterEnd := c.EndDate.AddDate(0, 0, 1)

	assert.NoError(t, CheckTerminationOutcome(c, early, beforeEnd))
	assert.Equal(t, CodeNotExpirable, CodeOf(CheckTerminationOutcome(c, expire, beforeEnd)))
	assert.NoError(t, CheckTerminationOutcome(c, expire, afterEnd))
	assert.NoError(t, CheckTerminationOutcome(c, expire, c.EndDate))
}

func TestCanActivate(t *testing.T) {
	c := validDraft()
	c.Status = model.StatusSigned

	assert.False(t, CanActivate(c, c.StartDate.AddDate(0, 0, -1)))
	assert.True(t, CanActivate(c, c.StartDate))
	assert.True(t, CanActivate(c, c.StartDate.AddDate(0, 1, 0)))

	c.Status = model.StatusSent
	assert.False(t, CanActivate(c, c.StartDate))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(model.StatusCancelled))
	assert.True(t, IsTerminal(model.StatusExpired))
	assert.False(t, IsTerminal(model.StatusActive))
	assert.False(t, IsTerminal(model.StatusTerminationPending))
}
