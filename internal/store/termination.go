package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/rentova-solution/contract-workflow-service/internal/model"
)

// CreateTermination atomically inserts the request with one PENDING consent
// per party and moves the contract to TERMINATION_PENDING.
func (r *WorkflowRepository) CreateTermination(ctx context.Context, req *model.TerminationRequest, consents []model.TerminationConsent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE contracts SET status = 'TERMINATION_PENDING', updated_at = now()
		 WHERE id = $1 AND status IN ('SIGNED', 'ACTIVE')`, req.ContractID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	req.ID = uuid.New()
	req.Status = model.TerminationSigning
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	_, err = tx.ExecContext(ctx,
		`INSERT INTO termination_requests (id, contract_id, initiator_party_id, type, reason, status,
			previous_status, expires_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		req.ID, req.ContractID, req.InitiatorPartyID, req.Type, req.Reason, req.Status,
		req.PreviousStatus, req.ExpiresAt, req.CreatedAt, req.UpdatedAt)
	if err != nil {
		return err
	}

	for i := range consents {
		c := &consents[i]
		c.ID = uuid.New()
		c.RequestID = req.ID
		c.Status = model.ConsentPending
		_, err = tx.ExecContext(ctx,
			`INSERT INTO termination_consents (id, request_id, party_id, user_id, status, method)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			c.ID, c.RequestID, c.PartyID, c.UserID, c.Status, c.Method)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	r.invalidateView(ctx, req.ContractID)
	return nil
}

func (r *WorkflowRepository) scanTermination(ctx context.Context, row *sql.Row) (*model.TerminationView, error) {
	req := &model.TerminationRequest{}
	err := row.Scan(
		&req.ID, &req.ContractID, &req.InitiatorPartyID, &req.Type, &req.Reason, &req.Status,
		&req.PreviousStatus, &req.ExpiresAt, &req.CreatedAt, &req.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, request_id, party_id, user_id, status, method, signed_at
		 FROM termination_consents WHERE request_id = $1`, req.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	view := &model.TerminationView{Request: req}
	for rows.Next() {
		var c model.TerminationConsent
		if err := rows.Scan(&c.ID, &c.RequestID, &c.PartyID, &c.UserID, &c.Status, &c.Method, &c.SignedAt); err != nil {
			return nil, err
		}
		view.Consents = append(view.Consents, c)
	}
	return view, rows.Err()
}

const terminationColumns = `id, contract_id, initiator_party_id, type, reason, status,
	previous_status, expires_at, created_at, updated_at`

// GetActiveTermination returns the contract's SIGNING request with its
// consents, nil when there is none.
func (r *WorkflowRepository) GetActiveTermination(ctx context.Context, contractID uuid.UUID) (*model.TerminationView, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+terminationColumns+` FROM termination_requests
		 WHERE contract_id = $1 AND status = 'SIGNING'`, contractID)
	return r.scanTermination(ctx, row)
}

// GetTermination returns a request by ID with its consents, nil when absent.
func (r *WorkflowRepository) GetTermination(ctx context.Context, requestID uuid.UUID) (*model.TerminationView, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+terminationColumns+` FROM termination_requests WHERE id = $1`, requestID)
	return r.scanTermination(ctx, row)
}

// SignConsent flips a consent PENDING -> SIGNED. The WHERE clause keeps the
// transition monotonic under concurrent submissions.
func (r *WorkflowRepository) SignConsent(ctx context.Context, contractID, requestID, partyID uuid.UUID, signedAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE termination_consents SET status = 'SIGNED', signed_at = $3
		 WHERE request_id = $1 AND party_id = $2 AND status = 'PENDING'`,
		requestID, partyID, signedAt)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	r.invalidateView(ctx, contractID)
	return nil
}

// CompleteTermination atomically closes the request and applies the outcome
// status to the contract.
func (r *WorkflowRepository) CompleteTermination(ctx context.Context, requestID, contractID uuid.UUID, outcome model.ContractStatus) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE termination_requests SET status = 'COMPLETED', updated_at = now()
		 WHERE id = $1 AND status IN ('SIGNING', 'APPROVED')`, requestID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE contracts SET status = $2, pending_end_date = NULL, updated_at = now() WHERE id = $1`,
		contractID, outcome)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	r.invalidateView(ctx, contractID)
	return nil
}

// ApproveTermination parks a fully consented request that cannot complete
// yet (a normal expiry ahead of its end date).
func (r *WorkflowRepository) ApproveTermination(ctx context.Context, requestID uuid.UUID, contractID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE termination_requests SET status = 'APPROVED', updated_at = now()
		 WHERE id = $1 AND status = 'SIGNING'`, requestID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	r.invalidateView(ctx, contractID)
	return nil
}

// ListApprovedExpirations returns approved NORMAL_EXPIRE requests whose
// contract end date has passed.
func (r *WorkflowRepository) ListApprovedExpirations(ctx context.Context, now time.Time) ([]model.TerminationRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.id, t.contract_id, t.initiator_party_id, t.type, t.reason, t.status,
			t.previous_status, t.expires_at, t.created_at, t.updated_at
		 FROM termination_requests t
		 JOIN contracts c ON c.id = t.contract_id
		 WHERE t.status = 'APPROVED' AND t.type = 'NORMAL_EXPIRE' AND c.end_date <= $1`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []model.TerminationRequest
	for rows.Next() {
		var req model.TerminationRequest
		err := rows.Scan(&req.ID, &req.ContractID, &req.InitiatorPartyID, &req.Type, &req.Reason,
			&req.Status, &req.PreviousStatus, &req.ExpiresAt, &req.CreatedAt, &req.UpdatedAt)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// RejectTermination atomically rejects the request and rolls the contract
// back to the status it held before the process started.
func (r *WorkflowRepository) RejectTermination(ctx context.Context, requestID, contractID uuid.UUID, previous model.ContractStatus) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE termination_requests SET status = 'REJECTED', updated_at = now()
		 WHERE id = $1 AND status = 'SIGNING'`, requestID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE contracts SET status = $2, pending_end_date = NULL, updated_at = now()
		 WHERE id = $1 AND status = 'TERMINATION_PENDING'`,
		contractID, previous)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	r.invalidateView(ctx, contractID)
	return nil
}
