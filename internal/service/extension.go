package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rentova-solution/contract-workflow-service/internal/model"
	"github.com/rentova-solution/contract-workflow-service/internal/monitoring"
	"github.com/rentova-solution/contract-workflow-service/internal/workflow"
)

// SubmitExtension opens an end-date negotiation. At most one request may be
// pending per contract; the store's partial unique index backs this check.
func (s *WorkflowService) SubmitExtension(ctx context.Context, contractID, actingUserID uuid.UUID, newEndDate time.Time, note string) (*model.ExtensionRequest, error) {
	view, err := s.GetView(ctx, contractID)
	if err != nil {
		return nil, err
	}
	requester, ok := workflow.PartyOfUser(view, actingUserID)
	if !ok {
		return nil, workflow.Errf(workflow.CodeNotEntitled, "user %s is not a party to contract %s", actingUserID, contractID)
	}

	pending, err := s.repo.GetPendingExtension(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if err := workflow.CheckSubmitExtension(view.Contract, pending, requester, newEndDate); err != nil {
		return nil, err
	}

	req := &model.ExtensionRequest{
		ContractID:       contractID,
		RequesterPartyID: requester.ID,
		CurrentEndDate:   view.Contract.EndDate,
		RequestedEndDate: newEndDate,
		Note:             note,
	}
	if err := s.repo.CreateExtension(ctx, req); err != nil {
		log.Error().Err(err).Str("contract_id", contractID.String()).Msg("Failed to create extension request")
		return nil, err
	}
	log.Info().
		Str("contract_id", contractID.String()).
		Str("request_id", req.ID.String()).
		Time("requested_end_date", newEndDate).
		Msg("Extension requested")
	return req, nil
}

// ListExtensions returns a contract's extension requests, newest first.
func (s *WorkflowService) ListExtensions(ctx context.Context, contractID uuid.UUID) ([]model.ExtensionRequest, error) {
	return s.repo.ListExtensions(ctx, contractID)
}

// DecideExtension resolves the pending request. Accepting moves the end
// date and appends the next contract version; declining leaves the contract
// untouched.
func (s *WorkflowService) DecideExtension(ctx context.Context, contractID, actingUserID uuid.UUID, accept bool, note string) (*model.ExtensionRequest, error) {
	view, err := s.GetView(ctx, contractID)
	if err != nil {
		return nil, err
	}
	decider, ok := workflow.PartyOfUser(view, actingUserID)
	if !ok {
		return nil, workflow.Errf(workflow.CodeNotEntitled, "user %s is not a party to contract %s", actingUserID, contractID)
	}

	req, err := s.repo.GetPendingExtension(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, workflow.Errf(workflow.CodeNotFound, "contract %s has no pending extension request", contractID)
	}
	if err := workflow.CheckDecideExtension(view.Contract, req, decider); err != nil {
		return nil, err
	}

	if !accept {
		if err := s.repo.DeclineExtension(ctx, req, note); err != nil {
			return nil, err
		}
		monitoring.ExtensionsResolved.WithLabelValues("decline").Inc()
		log.Info().Str("request_id", req.ID.String()).Msg("Extension declined")
		return s.repo.GetExtension(ctx, req.ID)
	}

	templateCode := ""
	if n := len(view.Versions); n > 0 {
		templateCode = view.Versions[n-1].TemplateCode
	}
	version := &model.ContractVersion{
		Version:      workflow.NextVersion(view.Versions),
		TemplateCode: templateCode,
		Content: fmt.Sprintf("End date extended from %s to %s.",
			req.CurrentEndDate.Format("2006-01-02"), req.RequestedEndDate.Format("2006-01-02")),
	}
	if err := s.repo.AcceptExtension(ctx, req, note, version); err != nil {
		log.Error().Err(err).Str("request_id", req.ID.String()).Msg("Failed to accept extension")
		return nil, err
	}
	monitoring.ExtensionsResolved.WithLabelValues("accept").Inc()
	log.Info().
		Str("contract_id", contractID.String()).
		Str("request_id", req.ID.String()).
		Int("version", version.Version).
		Msg("Extension accepted")
	return s.repo.GetExtension(ctx, req.ID)
}
