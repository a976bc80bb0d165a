package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rentova-solution/contract-workflow-service/internal/model"
	"github.com/rentova-solution/contract-workflow-service/internal/monitoring"
	"github.com/rentova-solution/contract-workflow-service/internal/otp"
	"github.com/rentova-solution/contract-workflow-service/internal/workflow"
)

// consentWindow is how long a termination request stays open for consents.
const consentWindow = 7 * 24 * time.Hour

// RequestTermination opens the multi-party consent process and parks the
// contract in TERMINATION_PENDING.
func (s *WorkflowService) RequestTermination(ctx context.Context, contractID, actingUserID uuid.UUID, typ model.TerminationType, reason string) (*model.TerminationView, error) {
	view, err := s.GetView(ctx, contractID)
	if err != nil {
		return nil, err
	}
	initiator, ok := workflow.PartyOfUser(view, actingUserID)
	if !ok {
		return nil, workflow.Errf(workflow.CodeNotEntitled, "user %s is not a party to contract %s", actingUserID, contractID)
	}

	active, err := s.repo.GetActiveTermination(ctx, contractID)
	if err != nil {
		return nil, err
	}
	var activeReq *model.TerminationRequest
	if active != nil {
		activeReq = active.Request
	}
	if err := workflow.CheckRequestTermination(view.Contract, activeReq, typ, reason); err != nil {
		return nil, err
	}
	if typ == model.TerminationExpire {
		// The reason is system-fixed for a normal expiry, whatever the
		// client sent.
		reason = workflow.ExpiryReason
	}

	req := &model.TerminationRequest{
		ContractID:       contractID,
		InitiatorPartyID: initiator.ID,
		Type:             typ,
		Reason:           reason,
		PreviousStatus:   view.Contract.Status,
		ExpiresAt:        s.now().Add(consentWindow),
	}
	consents := make([]model.TerminationConsent, 0, len(view.Parties))
	for i := range view.Parties {
		consents = append(consents, model.TerminationConsent{
			PartyID: view.Parties[i].ID,
			UserID:  view.Parties[i].UserID,
			Method:  model.ConsentMethodOTP,
		})
	}
	if err := s.repo.CreateTermination(ctx, req, consents); err != nil {
		log.Error().Err(err).Str("contract_id", contractID.String()).Msg("Failed to create termination request")
		return nil, err
	}

	log.Info().
		Str("contract_id", contractID.String()).
		Str("request_id", req.ID.String()).
		Str("type", string(typ)).
		Msg("Termination request opened")
	return s.repo.GetTermination(ctx, req.ID)
}

// GetActiveTermination returns the contract's open consent process, nil when
// there is none.
func (s *WorkflowService) GetActiveTermination(ctx context.Context, contractID uuid.UUID) (*model.TerminationView, error) {
	return s.repo.GetActiveTermination(ctx, contractID)
}

func (s *WorkflowService) terminationFor(ctx context.Context, contractID, requestID uuid.UUID) (*model.TerminationView, error) {
	tv, err := s.repo.GetTermination(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if tv == nil || tv.Request.ContractID != contractID {
		return nil, workflow.Errf(workflow.CodeNotFound, "termination request %s not found on contract %s", requestID, contractID)
	}
	return tv, nil
}

// RequestConsentOTP issues a consent code and mails it to the party.
func (s *WorkflowService) RequestConsentOTP(ctx context.Context, contractID, requestID, partyID uuid.UUID) error {
	tv, err := s.terminationFor(ctx, contractID, requestID)
	if err != nil {
		return err
	}
	if err := workflow.CheckRequestConsentOTP(tv.Request, tv.Consents, partyID); err != nil {
		return err
	}
	view, err := s.GetView(ctx, contractID)
	if err != nil {
		return err
	}
	party, err := workflow.FindParty(view, partyID)
	if err != nil {
		return err
	}

	code, err := s.otp.Issue(ctx, otp.PurposeConsent, requestID, partyID)
	if err != nil {
		return err
	}
	body := fmt.Sprintf("Your termination consent code for rental contract %s is %s. It expires in 5 minutes.", contractID, code)
	if err := s.mailer.Send(party.ContactEmail, "Termination consent code", body); err != nil {
		log.Error().Err(err).Str("party_id", partyID.String()).Msg("Failed to deliver consent OTP")
		return err
	}

	monitoring.OTPIssued.WithLabelValues(string(otp.PurposeConsent)).Inc()
	log.Info().Str("request_id", requestID.String()).Str("party_id", partyID.String()).Msg("Consent OTP issued")
	return nil
}

// SubmitConsent verifies the party's code and signs their consent. Once
// every consent is signed the request completes and the contract takes the
// outcome status; a normal expiry that is not yet due parks as APPROVED for
// the expiry worker.
func (s *WorkflowService) SubmitConsent(ctx context.Context, contractID, requestID, partyID uuid.UUID, code string) (*model.TerminationView, error) {
	tv, err := s.terminationFor(ctx, contractID, requestID)
	if err != nil {
		return nil, err
	}
	if err := workflow.CheckConsent(tv.Request, tv.Consents, partyID, code); err != nil {
		return nil, err
	}

	if err := s.otp.Verify(ctx, otp.PurposeConsent, requestID, partyID, code); err != nil {
		monitoring.OTPRejected.WithLabelValues(string(otp.PurposeConsent)).Inc()
		return nil, err
	}

	if err := s.repo.SignConsent(ctx, contractID, requestID, partyID, s.now()); err != nil {
		log.Error().Err(err).Str("request_id", requestID.String()).Msg("Failed to sign consent")
		return nil, err
	}
	log.Info().Str("request_id", requestID.String()).Str("party_id", partyID.String()).Msg("Termination consent signed")

	tv, err = s.terminationFor(ctx, contractID, requestID)
	if err != nil {
		return nil, err
	}
	if !workflow.AllConsentsSigned(tv.Consents) {
		return tv, nil
	}

	contract, err := s.repo.GetContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if err := workflow.CheckTerminationOutcome(contract, tv.Request, s.now()); err != nil {
		if workflow.CodeOf(err) == workflow.CodeNotExpirable {
			// Fully consented but not yet due; the expiry worker applies
			// the outcome at the end date.
			if err := s.repo.ApproveTermination(ctx, requestID, contractID); err != nil {
				return nil, err
			}
			log.Info().Str("request_id", requestID.String()).Msg("Termination approved, awaiting end date")
			return s.terminationFor(ctx, contractID, requestID)
		}
		return nil, err
	}

	outcome := workflow.TerminationOutcome(tv.Request.Type)
	if err := s.repo.CompleteTermination(ctx, requestID, contractID, outcome); err != nil {
		log.Error().Err(err).Str("request_id", requestID.String()).Msg("Failed to complete termination")
		return nil, err
	}
	monitoring.TerminationsCompleted.WithLabelValues(string(outcome)).Inc()
	log.Info().
		Str("contract_id", contractID.String()).
		Str("request_id", requestID.String()).
		Str("outcome", string(outcome)).
		Msg("Termination completed")
	return s.terminationFor(ctx, contractID, requestID)
}

// DeclineTermination rejects the request and rolls the contract back to the
// status it held before the process started.
func (s *WorkflowService) DeclineTermination(ctx context.Context, contractID, requestID, partyID uuid.UUID) (*model.TerminationView, error) {
	tv, err := s.terminationFor(ctx, contractID, requestID)
	if err != nil {
		return nil, err
	}
	if err := workflow.CheckDecline(tv.Request, tv.Consents, partyID); err != nil {
		return nil, err
	}
	if err := s.repo.RejectTermination(ctx, requestID, contractID, tv.Request.PreviousStatus); err != nil {
		log.Error().Err(err).Str("request_id", requestID.String()).Msg("Failed to reject termination")
		return nil, err
	}
	log.Info().
		Str("contract_id", contractID.String()).
		Str("request_id", requestID.String()).
		Str("rolled_back_to", string(tv.Request.PreviousStatus)).
		Msg("Termination declined")
	return s.terminationFor(ctx, contractID, requestID)
}
