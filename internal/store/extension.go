package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/rentova-solution/contract-workflow-service/internal/model"
)

const extensionColumns = `id, contract_id, requester_party_id, current_end_date, requested_end_date,
	note, decision_note, status, created_at, updated_at`

// CreateExtension inserts a new PENDING extension request. The partial
// unique index on (contract_id) WHERE status = 'PENDING' is the
// authoritative single-pending guard.
func (r *WorkflowRepository) CreateExtension(ctx context.Context, req *model.ExtensionRequest) error {
	req.ID = uuid.New()
	req.Status = model.ExtensionPending
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO extension_requests (id, contract_id, requester_party_id, current_end_date,
			requested_end_date, note, decision_note, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		req.ID, req.ContractID, req.RequesterPartyID, req.CurrentEndDate,
		req.RequestedEndDate, req.Note, req.DecisionNote, req.Status, req.CreatedAt, req.UpdatedAt)
	if err != nil {
		return err
	}
	r.invalidateView(ctx, req.ContractID)
	return nil
}

func scanExtension(scan func(dest ...interface{}) error) (*model.ExtensionRequest, error) {
	req := &model.ExtensionRequest{}
	err := scan(
		&req.ID, &req.ContractID, &req.RequesterPartyID, &req.CurrentEndDate, &req.RequestedEndDate,
		&req.Note, &req.DecisionNote, &req.Status, &req.CreatedAt, &req.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

// GetPendingExtension returns the contract's PENDING request, nil when none.
func (r *WorkflowRepository) GetPendingExtension(ctx context.Context, contractID uuid.UUID) (*model.ExtensionRequest, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+extensionColumns+` FROM extension_requests
		 WHERE contract_id = $1 AND status = 'PENDING'`, contractID)
	return scanExtension(row.Scan)
}

// GetExtension returns a request by ID, nil when absent.
func (r *WorkflowRepository) GetExtension(ctx context.Context, id uuid.UUID) (*model.ExtensionRequest, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+extensionColumns+` FROM extension_requests WHERE id = $1`, id)
	return scanExtension(row.Scan)
}

// ListExtensions returns a contract's requests, newest first.
func (r *WorkflowRepository) ListExtensions(ctx context.Context, contractID uuid.UUID) ([]model.ExtensionRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+extensionColumns+` FROM extension_requests
		 WHERE contract_id = $1 ORDER BY created_at DESC`, contractID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []model.ExtensionRequest
	for rows.Next() {
		req, err := scanExtension(rows.Scan)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

// AcceptExtension atomically marks the request ACCEPTED, moves the contract
// end date and appends the new version.
func (r *WorkflowRepository) AcceptExtension(ctx context.Context, req *model.ExtensionRequest, note string, version *model.ContractVersion) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE extension_requests SET status = 'ACCEPTED', decision_note = $2, updated_at = now()
		 WHERE id = $1 AND status = 'PENDING'`, req.ID, note)
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
		`UPDATE contracts SET end_date = $2, pending_end_date = NULL, updated_at = now() WHERE id = $1`,
		req.ContractID, req.RequestedEndDate)
	if err != nil {
		return err
	}

	version.ID = uuid.New()
	version.ContractID = req.ContractID
	version.CreatedAt = time.Now()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO contract_versions (id, contract_id, version, template_code, content, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		version.ID, version.ContractID, version.Version, version.TemplateCode, version.Content, version.CreatedAt)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	r.invalidateView(ctx, req.ContractID)
	return nil
}

// DeclineExtension marks the request DECLINED; the contract is untouched.
func (r *WorkflowRepository) DeclineExtension(ctx context.Context, req *model.ExtensionRequest, note string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE extension_requests SET status = 'DECLINED', decision_note = $2, updated_at = now()
		 WHERE id = $1 AND status = 'PENDING'`, req.ID, note)
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
	r.invalidateView(ctx, req.ContractID)
	return nil
}
