package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rentova-solution/contract-workflow-service/internal/model"
	"github.com/rentova-solution/contract-workflow-service/internal/otp"
	"github.com/rentova-solution/contract-workflow-service/internal/workflow"
)

// fakeRepo is an in-memory Repository with the same optimistic-guard
// semantics as the Postgres implementation.
type fakeRepo struct {
	contracts    map[uuid.UUID]*model.Contract
	parties      map[uuid.UUID][]model.Party
	signatures   map[uuid.UUID][]model.Signature
	versions     map[uuid.UUID][]model.ContractVersion
	terminations map[uuid.UUID]*model.TerminationRequest
	consents     map[uuid.UUID][]model.TerminationConsent
	extensions   map[uuid.UUID]*model.ExtensionRequest
	invoices     map[uuid.UUID][]model.Invoice
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		contracts:    make(map[uuid.UUID]*model.Contract),
		parties:      make(map[uuid.UUID][]model.Party),
		signatures:   make(map[uuid.UUID][]model.Signature),
		versions:     make(map[uuid.UUID][]model.ContractVersion),
		terminations: make(map[uuid.UUID]*model.TerminationRequest),
		consents:     make(map[uuid.UUID][]model.TerminationConsent),
		extensions:   make(map[uuid.UUID]*model.ExtensionRequest),
		invoices:     make(map[uuid.UUID][]model.Invoice),
	}
}

func (f *fakeRepo) CreateContract(ctx context.Context, c *model.Contract) error {
	c.ID = uuid.New()
	c.Status = model.StatusDraft
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	stored := *c
	f.contracts[c.ID] = &stored
	return nil
}

func (f *fakeRepo) UpdateDraft(ctx context.Context, c *model.Contract) error {
	current, ok := f.contracts[c.ID]
	if !ok || current.Status != model.StatusDraft {
		return sql.ErrNoRows
	}
	current.UnitID = c.UnitID
	current.TenantUserID = c.TenantUserID
	current.StartDate = c.StartDate
	current.EndDate = c.EndDate
	current.DepositAmount = c.DepositAmount
	current.RentAmount = c.RentAmount
	current.FeeDetail = c.FeeDetail
	current.UpdatedAt = time.Now()
	return nil
}

func (f *fakeRepo) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	current, ok := f.contracts[id]
	if !ok || current.Status != model.StatusDraft {
		return sql.ErrNoRows
	}
	delete(f.contracts, id)
	return nil
}

func (f *fakeRepo) GetContract(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	c, ok := f.contracts[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (f *fakeRepo) GetView(ctx context.Context, id uuid.UUID) (*model.ContractView, error) {
	c, err := f.GetContract(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	return &model.ContractView{
		Contract:   c,
		Versions:   append([]model.ContractVersion(nil), f.versions[id]...),
		Parties:    append([]model.Party(nil), f.parties[id]...),
		Signatures: append([]model.Signature(nil), f.signatures[id]...),
	}, nil
}

func (f *fakeRepo) ListContractsForUser(ctx context.Context, userID uuid.UUID) ([]model.Contract, error) {
	var out []model.Contract
	for _, c := range f.contracts {
		if c.LandlordUserID == userID || c.TenantUserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeRepo) Send(ctx context.Context, c *model.Contract, parties []model.Party, version *model.ContractVersion) error {
	current, ok := f.contracts[c.ID]
	if !ok || current.Status != model.StatusDraft {
		return sql.ErrNoRows
	}
	current.Status = model.StatusSent
	current.UpdatedAt = time.Now()
	c.Status = model.StatusSent

	version.ID = uuid.New()
	version.ContractID = c.ID
	version.CreatedAt = time.Now()
	f.versions[c.ID] = append(f.versions[c.ID], *version)

	for i := range parties {
		parties[i].ID = uuid.New()
		parties[i].ContractID = c.ID
		parties[i].CreatedAt = time.Now()
	}
	f.parties[c.ID] = append(f.parties[c.ID], parties...)
	return nil
}

func (f *fakeRepo) CreateSignature(ctx context.Context, contractID uuid.UUID, sig *model.Signature) error {
	for _, existing := range f.signatures[contractID] {
		if existing.PartyID == sig.PartyID {
			return fmt.Errorf("duplicate signature for party %s", sig.PartyID)
		}
	}
	sig.ID = uuid.New()
	f.signatures[contractID] = append(f.signatures[contractID], *sig)
	return nil
}

func (f *fakeRepo) UpdateContractStatus(ctx context.Context, id uuid.UUID, from, to model.ContractStatus) error {
	c, ok := f.contracts[id]
	if !ok || c.Status != from {
		return sql.ErrNoRows
	}
	c.Status = to
	c.UpdatedAt = time.Now()
	return nil
}

func (f *fakeRepo) ListDueForActivation(ctx context.Context, now time.Time) ([]model.Contract, error) {
	var due []model.Contract
	for _, c := range f.contracts {
		if c.Status == model.StatusSigned && !now.Before(c.StartDate) {
			due = append(due, *c)
		}
	}
	return due, nil
}

func (f *fakeRepo) CreateTermination(ctx context.Context, req *model.TerminationRequest, consents []model.TerminationConsent) error {
	c, ok := f.contracts[req.ContractID]
	if !ok || (c.Status != model.StatusSigned && c.Status != model.StatusActive) {
		return sql.ErrNoRows
	}
	c.Status = model.StatusTerminationPending

	req.ID = uuid.New()
	req.Status = model.TerminationSigning
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	stored := *req
	f.terminations[req.ID] = &stored

	for i := range consents {
		consents[i].ID = uuid.New()
		consents[i].RequestID = req.ID
		consents[i].Status = model.ConsentPending
	}
	f.consents[req.ID] = append([]model.TerminationConsent(nil), consents...)
	return nil
}

func (f *fakeRepo) GetActiveTermination(ctx context.Context, contractID uuid.UUID) (*model.TerminationView, error) {
	for _, req := range f.terminations {
		if req.ContractID == contractID && req.Status == model.TerminationSigning {
			return f.GetTermination(ctx, req.ID)
		}
	}
	return nil, nil
}

func (f *fakeRepo) GetTermination(ctx context.Context, requestID uuid.UUID) (*model.TerminationView, error) {
	req, ok := f.terminations[requestID]
	if !ok {
		return nil, nil
	}
	copied := *req
	return &model.TerminationView{
		Request:  &copied,
		Consents: append([]model.TerminationConsent(nil), f.consents[requestID]...),
	}, nil
}

func (f *fakeRepo) SignConsent(ctx context.Context, contractID, requestID, partyID uuid.UUID, signedAt time.Time) error {
	consents := f.consents[requestID]
	for i := range consents {
		if consents[i].PartyID == partyID && consents[i].Status == model.ConsentPending {
			consents[i].Status = model.ConsentSigned
			consents[i].SignedAt = &signedAt
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeRepo) ApproveTermination(ctx context.Context, requestID uuid.UUID, contractID uuid.UUID) error {
	req, ok := f.terminations[requestID]
	if !ok || req.Status != model.TerminationSigning {
		return sql.ErrNoRows
	}
	req.Status = model.TerminationApproved
	return nil
}

func (f *fakeRepo) CompleteTermination(ctx context.Context, requestID, contractID uuid.UUID, outcome model.ContractStatus) error {
	req, ok := f.terminations[requestID]
	if !ok || (req.Status != model.TerminationSigning && req.Status != model.TerminationApproved) {
		return sql.ErrNoRows
	}
	req.Status = model.TerminationCompleted
	if c, ok := f.contracts[contractID]; ok {
		c.Status = outcome
		c.PendingEndDate = nil
	}
	return nil
}

func (f *fakeRepo) RejectTermination(ctx context.Context, requestID, contractID uuid.UUID, previous model.ContractStatus) error {
	req, ok := f.terminations[requestID]
	if !ok || req.Status != model.TerminationSigning {
		return sql.ErrNoRows
	}
	req.Status = model.TerminationRejected
	if c, ok := f.contracts[contractID]; ok && c.Status == model.StatusTerminationPending {
		c.Status = previous
		c.PendingEndDate = nil
	}
	return nil
}

func (f *fakeRepo) ListApprovedExpirations(ctx context.Context, now time.Time) ([]model.TerminationRequest, error) {
	var out []model.TerminationRequest
	for _, req := range f.terminations {
		if req.Status != model.TerminationApproved || req.Type != model.TerminationExpire {
			continue
		}
		if c, ok := f.contracts[req.ContractID]; ok && !now.Before(c.EndDate) {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateExtension(ctx context.Context, req *model.ExtensionRequest) error {
	for _, existing := range f.extensions {
		if existing.ContractID == req.ContractID && existing.Status == model.ExtensionPending {
			return fmt.Errorf("pending extension exists for contract %s", req.ContractID)
		}
	}
	req.ID = uuid.New()
	req.Status = model.ExtensionPending
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	stored := *req
	f.extensions[req.ID] = &stored
	return nil
}

func (f *fakeRepo) GetPendingExtension(ctx context.Context, contractID uuid.UUID) (*model.ExtensionRequest, error) {
	for _, req := range f.extensions {
		if req.ContractID == contractID && req.Status == model.ExtensionPending {
			copied := *req
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) GetExtension(ctx context.Context, id uuid.UUID) (*model.ExtensionRequest, error) {
	req, ok := f.extensions[id]
	if !ok {
		return nil, nil
	}
	copied := *req
	return &copied, nil
}

func (f *fakeRepo) ListExtensions(ctx context.Context, contractID uuid.UUID) ([]model.ExtensionRequest, error) {
	var out []model.ExtensionRequest
	for _, req := range f.extensions {
		if req.ContractID == contractID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (f *fakeRepo) AcceptExtension(ctx context.Context, req *model.ExtensionRequest, note string, version *model.ContractVersion) error {
	stored, ok := f.extensions[req.ID]
	if !ok || stored.Status != model.ExtensionPending {
		return sql.ErrNoRows
	}
	stored.Status = model.ExtensionAccepted
	stored.DecisionNote = note
	if c, ok := f.contracts[req.ContractID]; ok {
		c.EndDate = req.RequestedEndDate
		c.PendingEndDate = nil
	}
	version.ID = uuid.New()
	version.ContractID = req.ContractID
	version.CreatedAt = time.Now()
	f.versions[req.ContractID] = append(f.versions[req.ContractID], *version)
	return nil
}

func (f *fakeRepo) DeclineExtension(ctx context.Context, req *model.ExtensionRequest, note string) error {
	stored, ok := f.extensions[req.ID]
	if !ok || stored.Status != model.ExtensionPending {
		return sql.ErrNoRows
	}
	stored.Status = model.ExtensionDeclined
	stored.DecisionNote = note
	return nil
}

func (f *fakeRepo) CreateInvoice(ctx context.Context, inv *model.Invoice) error {
	inv.ID = uuid.New()
	inv.CreatedAt = time.Now()
	f.invoices[inv.ContractID] = append(f.invoices[inv.ContractID], *inv)
	return nil
}

func (f *fakeRepo) ListInvoices(ctx context.Context, contractID uuid.UUID) ([]model.Invoice, error) {
	return append([]model.Invoice(nil), f.invoices[contractID]...), nil
}

// fakeOTP hands out a fixed code per (purpose, subject, party) and consumes
// it on verification, like the Redis store.
type fakeOTP struct {
	codes map[string]string
	next  int
}

func newFakeOTP() *fakeOTP {
	return &fakeOTP{codes: make(map[string]string)}
}

func (f *fakeOTP) key(purpose otp.Purpose, subjectID, partyID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s", purpose, subjectID, partyID)
}

func (f *fakeOTP) Issue(ctx context.Context, purpose otp.Purpose, subjectID, partyID uuid.UUID) (string, error) {
	f.next++
	code := fmt.Sprintf("%06d", f.next)
	f.codes[f.key(purpose, subjectID, partyID)] = code
	return code, nil
}

func (f *fakeOTP) Verify(ctx context.Context, purpose otp.Purpose, subjectID, partyID uuid.UUID, code string) error {
	k := f.key(purpose, subjectID, partyID)
	issued, ok := f.codes[k]
	if !ok || issued != code {
		return workflow.Errf(workflow.CodeOTPInvalid, "OTP invalid")
	}
	delete(f.codes, k)
	return nil
}

// fakeMailer records deliveries.
type fakeMailer struct {
	sent []struct{ To, Subject, Body string }
}

func (f *fakeMailer) Send(to, subject, body string) error {
	f.sent = append(f.sent, struct{ To, Subject, Body string }{to, subject, body})
	return nil
}

func newTestService() (*WorkflowService, *fakeRepo, *fakeOTP, *fakeMailer) {
	repo := newFakeRepo()
	codes := newFakeOTP()
	mail := &fakeMailer{}
	return NewWorkflowService(repo, codes, mail), repo, codes, mail
}
