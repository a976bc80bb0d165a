// Package service orchestrates the contract workflow: it re-checks the pure
// guards from internal/workflow against fresh state, then persists the
// transition through the repository.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rentova-solution/contract-workflow-service/internal/mailer"
	"github.com/rentova-solution/contract-workflow-service/internal/model"
	"github.com/rentova-solution/contract-workflow-service/internal/otp"
)

// Repository is the store surface the workflow needs. Satisfied by
// *store.WorkflowRepository; tests plug in an in-memory fake.
type Repository interface {
	CreateContract(ctx context.Context, c *model.Contract) error
	UpdateDraft(ctx context.Context, c *model.Contract) error
	DeleteDraft(ctx context.Context, id uuid.UUID) error
	GetContract(ctx context.Context, id uuid.UUID) (*model.Contract, error)
	GetView(ctx context.Context, id uuid.UUID) (*model.ContractView, error)
	ListContractsForUser(ctx context.Context, userID uuid.UUID) ([]model.Contract, error)
	Send(ctx context.Context, c *model.Contract, parties []model.Party, version *model.ContractVersion) error
	CreateSignature(ctx context.Context, contractID uuid.UUID, sig *model.Signature) error
	UpdateContractStatus(ctx context.Context, id uuid.UUID, from, to model.ContractStatus) error
	ListDueForActivation(ctx context.Context, now time.Time) ([]model.Contract, error)

	CreateTermination(ctx context.Context, req *model.TerminationRequest, consents []model.TerminationConsent) error
	GetActiveTermination(ctx context.Context, contractID uuid.UUID) (*model.TerminationView, error)
	GetTermination(ctx context.Context, requestID uuid.UUID) (*model.TerminationView, error)
	SignConsent(ctx context.Context, contractID, requestID, partyID uuid.UUID, signedAt time.Time) error
	ApproveTermination(ctx context.Context, requestID uuid.UUID, contractID uuid.UUID) error
	CompleteTermination(ctx context.Context, requestID, contractID uuid.UUID, outcome model.ContractStatus) error
	RejectTermination(ctx context.Context, requestID, contractID uuid.UUID, previous model.ContractStatus) error
	ListApprovedExpirations(ctx context.Context, now time.Time) ([]model.TerminationRequest, error)

	CreateExtension(ctx context.Context, req *model.ExtensionRequest) error
	GetPendingExtension(ctx context.Context, contractID uuid.UUID) (*model.ExtensionRequest, error)
	GetExtension(ctx context.Context, id uuid.UUID) (*model.ExtensionRequest, error)
	ListExtensions(ctx context.Context, contractID uuid.UUID) ([]model.ExtensionRequest, error)
	AcceptExtension(ctx context.Context, req *model.ExtensionRequest, note string, version *model.ContractVersion) error
	DeclineExtension(ctx context.Context, req *model.ExtensionRequest, note string) error

	CreateInvoice(ctx context.Context, inv *model.Invoice) error
	ListInvoices(ctx context.Context, contractID uuid.UUID) ([]model.Invoice, error)
}

// OTPStore issues and verifies one-time codes.
type OTPStore interface {
	Issue(ctx context.Context, purpose otp.Purpose, subjectID, partyID uuid.UUID) (string, error)
	Verify(ctx context.Context, purpose otp.Purpose, subjectID, partyID uuid.UUID, code string) error
}

// WorkflowService owns every command of the contract lifecycle.
type WorkflowService struct {
	repo   Repository
	otp    OTPStore
	mailer mailer.Mailer
	now    func() time.Time
}

func NewWorkflowService(repo Repository, otpStore OTPStore, m mailer.Mailer) *WorkflowService {
	return &WorkflowService{
		repo:   repo,
		otp:    otpStore,
		mailer: m,
		now:    time.Now,
	}
}
