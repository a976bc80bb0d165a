package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rentova-solution/contract-workflow-service/internal/model"
	"github.com/rentova-solution/contract-workflow-service/internal/monitoring"
	"github.com/rentova-solution/contract-workflow-service/internal/workflow"
)

// SendInput carries what the draft itself does not hold: the issued text and
// the parties' contact channels. The user directory is an external
// collaborator, so contacts arrive with the command.
type SendInput struct {
	TemplateCode  string
	Content       string
	LandlordEmail string
	LandlordPhone string
	TenantEmail   string
	TenantPhone   string
}

// CreateDraft validates and stores a new draft contract.
func (s *WorkflowService) CreateDraft(ctx context.Context, c *model.Contract) (*model.Contract, error) {
	if err := workflow.ValidateTerm(c.StartDate, c.EndDate); err != nil {
		return nil, err
	}
	if err := s.repo.CreateContract(ctx, c); err != nil {
		log.Error().Err(err).Msg("Failed to create contract draft")
		return nil, err
	}
	log.Info().Str("contract_id", c.ID.String()).Msg("Contract draft created")
	return c, nil
}

// UpdateDraft applies a full edit to a draft.
func (s *WorkflowService) UpdateDraft(ctx context.Context, c *model.Contract) (*model.Contract, error) {
	current, err := s.repo.GetContract(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, workflow.Errf(workflow.CodeNotFound, "contract %s not found", c.ID)
	}
	if err := workflow.CheckUpdateDraft(current); err != nil {
		return nil, err
	}
	if err := workflow.ValidateTerm(c.StartDate, c.EndDate); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateDraft(ctx, c); err != nil {
		log.Error().Err(err).Str("contract_id", c.ID.String()).Msg("Failed to update contract draft")
		return nil, err
	}
	return s.repo.GetContract(ctx, c.ID)
}

// DeleteDraft removes a draft permanently.
func (s *WorkflowService) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	current, err := s.repo.GetContract(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return workflow.Errf(workflow.CodeNotFound, "contract %s not found", id)
	}
	if err := workflow.CheckUpdateDraft(current); err != nil {
		return err
	}
	if err := s.repo.DeleteDraft(ctx, id); err != nil {
		return err
	}
	log.Info().Str("contract_id", id.String()).Msg("Contract draft deleted")
	return nil
}

// GetView returns the canonical read model.
func (s *WorkflowService) GetView(ctx context.Context, id uuid.UUID) (*model.ContractView, error) {
	view, err := s.repo.GetView(ctx, id)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, workflow.Errf(workflow.CodeNotFound, "contract %s not found", id)
	}
	return view, nil
}

// ListForUser returns the contracts the user is party to.
func (s *WorkflowService) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Contract, error) {
	return s.repo.ListContractsForUser(ctx, userID)
}

// Send issues the contract: DRAFT -> SENT, version 1 written, parties
// materialized for both sides.
func (s *WorkflowService) Send(ctx context.Context, contractID uuid.UUID, input SendInput) (*model.ContractView, error) {
	c, err := s.repo.GetContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, workflow.Errf(workflow.CodeNotFound, "contract %s not found", contractID)
	}
	if err := workflow.CheckSend(c); err != nil {
		return nil, err
	}
	if input.Content == "" {
		return nil, workflow.Errf(workflow.CodeValidation, "contract content is required")
	}
	if input.LandlordEmail == "" || input.TenantEmail == "" {
		return nil, workflow.Errf(workflow.CodeValidation, "contact emails are required for both parties")
	}

	parties := []model.Party{
		{Role: model.RoleLandlord, UserID: c.LandlordUserID, ContactEmail: input.LandlordEmail, ContactPhone: input.LandlordPhone},
		{Role: model.RoleTenant, UserID: c.TenantUserID, ContactEmail: input.TenantEmail, ContactPhone: input.TenantPhone},
	}
	version := &model.ContractVersion{
		Version:      1,
		TemplateCode: input.TemplateCode,
		Content:      input.Content,
	}
	if err := s.repo.Send(ctx, c, parties, version); err != nil {
		log.Error().Err(err).Str("contract_id", contractID.String()).Msg("Failed to send contract")
		return nil, err
	}

	monitoring.ContractsSent.Inc()
	log.Info().Str("contract_id", contractID.String()).Msg("Contract sent for signing")
	return s.GetView(ctx, contractID)
}

// ListInvoices returns a contract's invoices.
func (s *WorkflowService) ListInvoices(ctx context.Context, contractID uuid.UUID) ([]model.Invoice, error) {
	return s.repo.ListInvoices(ctx, contractID)
}

// CreateServiceInvoice records an ad-hoc service charge against a contract.
func (s *WorkflowService) CreateServiceInvoice(ctx context.Context, contractID uuid.UUID, amount int64, description string) (*model.Invoice, error) {
	c, err := s.repo.GetContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, workflow.Errf(workflow.CodeNotFound, "contract %s not found", contractID)
	}
	if amount <= 0 {
		return nil, workflow.Errf(workflow.CodeValidation, "invoice amount must be positive")
	}
	if c.Status != model.StatusActive && c.Status != model.StatusSigned {
		return nil, workflow.Errf(workflow.CodeInvalidStatus, "contract %s is %s, invoicing requires SIGNED or ACTIVE", c.ID, c.Status)
	}
	inv := &model.Invoice{
		ContractID:  contractID,
		Kind:        model.InvoiceService,
		Amount:      amount,
		Description: description,
		Status:      model.InvoiceIssued,
	}
	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}
