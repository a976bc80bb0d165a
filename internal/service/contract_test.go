package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentova-solution/contract-workflow-service/internal/model"
	"github.com/rentova-solution/contract-workflow-service/internal/workflow"
)

func draftInput() *model.Contract {
	start := time.Now().AddDate(0, 0, 14).Truncate(24 * time.Hour)
	return &model.Contract{
		UnitID:         uuid.New(),
		LandlordUserID: uuid.New(),
		TenantUserID:   uuid.New(),
		StartDate:      start,
		EndDate:        start.AddDate(1, 0, 0),
		DepositAmount:  2400,
		RentAmount:     1200,
		FeeDetail:      "water and electricity metered",
	}
}

func sendInput() SendInput {
	return SendInput{
		TemplateCode:  "STD-LEASE-V2",
		Content:       "Lease agreement between the parties.",
		LandlordEmail: "landlord@example.com",
		TenantEmail:   "tenant@example.com",
	}
}

// sendContract creates a draft and sends it, returning the fresh view.
func sendContract(t *testing.T, svc *WorkflowService) *model.ContractView {
	t.Helper()
	ctx := context.Background()
	c, err := svc.CreateDraft(ctx, draftInput())
	require.NoError(t, err)
	view, err := svc.Send(ctx, c.ID, sendInput())
	require.NoError(t, err)
	return view
}

func TestCreateDraft(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	c, err := svc.CreateDraft(ctx, draftInput())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.Equal(t, model.StatusDraft, c.Status)

	short := draftInput()
	short.EndDate = short.StartDate.AddDate(0, 0, 7)
	_, err = svc.CreateDraft(ctx, short)
	assert.Equal(t, workflow.CodeValidation, workflow.CodeOf(err))
}

func TestSendContract(t *testing.T) {
	svc, _, _, _ := newTestService()
	view := sendContract(t, svc)

	// Scenario: DRAFT with valid dates -> SENT, version 1, two parties.
	assert.Equal(t, model.StatusSent, view.Contract.Status)
	require.Len(t, view.Versions, 1)
	assert.Equal(t, 1, view.Versions[0].Version)
	require.Len(t, view.Parties, 2)

	roles := map[model.PartyRole]bool{}
	for _, p := range view.Parties {
		roles[p.Role] = true
	}
	assert.True(t, roles[model.RoleLandlord])
	assert.True(t, roles[model.RoleTenant])
	assert.Empty(t, view.Signatures)
}

func TestSendContractRejectsIncompleteDraft(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	c, err := svc.CreateDraft(ctx, draftInput())
	require.NoError(t, err)

	input := sendInput()
	input.Content = ""
	_, err = svc.Send(ctx, c.ID, input)
	assert.Equal(t, workflow.CodeValidation, workflow.CodeOf(err))

	input = sendInput()
	input.TenantEmail = ""
	_, err = svc.Send(ctx, c.ID, input)
	assert.Equal(t, workflow.CodeValidation, workflow.CodeOf(err))
}

func TestSendContractTwice(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	view := sendContract(t, svc)

	_, err := svc.Send(ctx, view.Contract.ID, sendInput())
	assert.Equal(t, workflow.CodeInvalidStatus, workflow.CodeOf(err))
}

func TestUpdateAndDeleteDraftOnlyWhileDraft(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	c, err := svc.CreateDraft(ctx, draftInput())
	require.NoError(t, err)

	c.RentAmount = 1500
	updated, err := svc.UpdateDraft(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), updated.RentAmount)

	_, err = svc.Send(ctx, c.ID, sendInput())
	require.NoError(t, err)

	_, err = svc.UpdateDraft(ctx, c)
	assert.Equal(t, workflow.CodeInvalidStatus, workflow.CodeOf(err))
	err = svc.DeleteDraft(ctx, c.ID)
	assert.Equal(t, workflow.CodeInvalidStatus, workflow.CodeOf(err))
}

func TestDeleteDraft(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	c, err := svc.CreateDraft(ctx, draftInput())
	require.NoError(t, err)
	require.NoError(t, svc.DeleteDraft(ctx, c.ID))

	_, err = svc.GetView(ctx, c.ID)
	assert.Equal(t, workflow.CodeNotFound, workflow.CodeOf(err))
}

func TestCreateServiceInvoice(t *testing.T) {
	svc, repo, _, _ := newTestService()
	ctx := context.Background()
	view := sendContract(t, svc)
	repo.contracts[view.Contract.ID].Status = model.StatusActive

	inv, err := svc.CreateServiceInvoice(ctx, view.Contract.ID, 250, "broken window repair")
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceService, inv.Kind)

	invoices, err := svc.ListInvoices(ctx, view.Contract.ID)
	require.NoError(t, err)
	require.Len(t, invoices, 1)

	_, err = svc.CreateServiceInvoice(ctx, view.Contract.ID, 0, "free")
	assert.Equal(t, workflow.CodeValidation, workflow.CodeOf(err))
}
