package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rentova-solution/contract-workflow-service/internal/model"
	"github.com/rentova-solution/contract-workflow-service/internal/monitoring"
	"github.com/rentova-solution/contract-workflow-service/internal/otp"
	"github.com/rentova-solution/contract-workflow-service/internal/workflow"
)

// RequestSignOTP issues a signing code and mails it to the party. The only
// state touched is the code itself, which expires on its own.
func (s *WorkflowService) RequestSignOTP(ctx context.Context, contractID, partyID uuid.UUID) error {
	view, err := s.GetView(ctx, contractID)
	if err != nil {
		return err
	}
	if err := workflow.CheckRequestSignOTP(view, partyID); err != nil {
		return err
	}
	party, err := workflow.FindParty(view, partyID)
	if err != nil {
		return err
	}

	code, err := s.otp.Issue(ctx, otp.PurposeSign, contractID, partyID)
	if err != nil {
		return err
	}
	body := fmt.Sprintf("Your signing code for rental contract %s is %s. It expires in 5 minutes.", contractID, code)
	if err := s.mailer.Send(party.ContactEmail, "Contract signing code", body); err != nil {
		log.Error().Err(err).Str("party_id", partyID.String()).Msg("Failed to deliver signing OTP")
		return err
	}

	monitoring.OTPIssued.WithLabelValues(string(otp.PurposeSign)).Inc()
	log.Info().Str("contract_id", contractID.String()).Str("party_id", partyID.String()).Msg("Signing OTP issued")
	return nil
}

// Sign verifies the party's code and records the signature. When the
// signature set covers every party the contract advances SENT -> SIGNED.
func (s *WorkflowService) Sign(ctx context.Context, contractID, partyID uuid.UUID, code, payload string) (*model.ContractView, error) {
	view, err := s.GetView(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if err := workflow.CheckSign(view, partyID, code); err != nil {
		return nil, err
	}
	party, err := workflow.FindParty(view, partyID)
	if err != nil {
		return nil, err
	}

	if err := s.otp.Verify(ctx, otp.PurposeSign, contractID, partyID, code); err != nil {
		monitoring.OTPRejected.WithLabelValues(string(otp.PurposeSign)).Inc()
		return nil, err
	}

	sig := &model.Signature{
		PartyID:  partyID,
		SignedAt: s.now(),
		Payload:  payload,
	}
	if err := s.repo.CreateSignature(ctx, contractID, sig); err != nil {
		log.Error().Err(err).Str("contract_id", contractID.String()).Msg("Failed to record signature")
		return nil, err
	}
	monitoring.SignaturesRecorded.WithLabelValues(string(party.Role)).Inc()
	log.Info().Str("contract_id", contractID.String()).Str("party_id", partyID.String()).Msg("Signature recorded")

	view, err = s.GetView(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if workflow.AllPartiesSigned(view) && view.Contract.Status == model.StatusSent {
		if err := s.repo.UpdateContractStatus(ctx, contractID, model.StatusSent, model.StatusSigned); err != nil {
			log.Error().Err(err).Str("contract_id", contractID.String()).Msg("Failed to mark contract signed")
			return nil, err
		}
		monitoring.SigningCeremonyDuration.Observe(s.now().Sub(view.Contract.CreatedAt).Seconds())
		log.Info().Str("contract_id", contractID.String()).Msg("Contract fully signed")
		view, err = s.GetView(ctx, contractID)
		if err != nil {
			return nil, err
		}
	}
	return view, nil
}
