package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/rentova-solution/contract-workflow-service/internal/crypto"
	"github.com/rentova-solution/contract-workflow-service/internal/model"
)

// CreateContract inserts a new draft.
func (r *WorkflowRepository) CreateContract(ctx context.Context, c *model.Contract) error {
	query := `
		INSERT INTO contracts (id, unit_id, landlord_user_id, tenant_user_id, start_date, end_date,
			deposit_amount, rent_amount, fee_detail, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`
	c.ID = uuid.New()
	c.Status = model.StatusDraft
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt

	return r.db.QueryRowContext(ctx, query,
		c.ID, c.UnitID, c.LandlordUserID, c.TenantUserID, c.StartDate, c.EndDate,
		c.DepositAmount, c.RentAmount, c.FeeDetail, c.Status, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

// UpdateDraft applies a full edit. The WHERE clause enforces that only
// drafts are editable even if the caller's view was stale.
func (r *WorkflowRepository) UpdateDraft(ctx context.Context, c *model.Contract) error {
	query := `
		UPDATE contracts
		SET unit_id = $2, tenant_user_id = $3, start_date = $4, end_date = $5,
			deposit_amount = $6, rent_amount = $7, fee_detail = $8, updated_at = now()
		WHERE id = $1 AND status = 'DRAFT'
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		c.ID, c.UnitID, c.TenantUserID, c.StartDate, c.EndDate,
		c.DepositAmount, c.RentAmount, c.FeeDetail,
	).Scan(&c.UpdatedAt)
	if err == nil {
		r.invalidateView(ctx, c.ID)
	}
	return err
}

// DeleteDraft physically removes a draft. Contracts that were ever sent are
// never deleted, only cancelled.
func (r *WorkflowRepository) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contracts WHERE id = $1 AND status = 'DRAFT'`, id)
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
	r.invalidateView(ctx, id)
	return nil
}

func scanContract(row *sql.Row) (*model.Contract, error) {
	c := &model.Contract{}
	err := row.Scan(
		&c.ID, &c.UnitID, &c.LandlordUserID, &c.TenantUserID, &c.StartDate, &c.EndDate,
		&c.PendingEndDate, &c.DepositAmount, &c.RentAmount, &c.FeeDetail, &c.Status,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

const contractColumns = `id, unit_id, landlord_user_id, tenant_user_id, start_date, end_date,
	pending_end_date, deposit_amount, rent_amount, fee_detail, status, created_at, updated_at`

// GetContract retrieves a contract by ID, nil when absent.
func (r *WorkflowRepository) GetContract(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+contractColumns+` FROM contracts WHERE id = $1`, id)
	return scanContract(row)
}

// ListContractsForUser returns every contract the user is a side of.
func (r *WorkflowRepository) ListContractsForUser(ctx context.Context, userID uuid.UUID) ([]model.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts
		WHERE landlord_user_id = $1 OR tenant_user_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contracts []model.Contract
	for rows.Next() {
		var c model.Contract
		err := rows.Scan(
			&c.ID, &c.UnitID, &c.LandlordUserID, &c.TenantUserID, &c.StartDate, &c.EndDate,
			&c.PendingEndDate, &c.DepositAmount, &c.RentAmount, &c.FeeDetail, &c.Status,
			&c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

// GetView assembles the canonical read model, cache-aside.
func (r *WorkflowRepository) GetView(ctx context.Context, id uuid.UUID) (*model.ContractView, error) {
	if view := r.cachedView(ctx, id); view != nil {
		return view, nil
	}

	contract, err := r.GetContract(ctx, id)
	if err != nil || contract == nil {
		return nil, err
	}
	view := &model.ContractView{Contract: contract}

	versionRows, err := r.db.QueryContext(ctx,
		`SELECT id, contract_id, version, template_code, content, created_at
		 FROM contract_versions WHERE contract_id = $1 ORDER BY version`, id)
	if err != nil {
		return nil, err
	}
	defer versionRows.Close()
	for versionRows.Next() {
		var v model.ContractVersion
		if err := versionRows.Scan(&v.ID, &v.ContractID, &v.Version, &v.TemplateCode, &v.Content, &v.CreatedAt); err != nil {
			return nil, err
		}
		view.Versions = append(view.Versions, v)
	}
	if err := versionRows.Err(); err != nil {
		return nil, err
	}

	partyRows, err := r.db.QueryContext(ctx,
		`SELECT id, contract_id, role, user_id, encrypted_email, email_iv, contact_phone, created_at
		 FROM contract_parties WHERE contract_id = $1 ORDER BY role`, id)
	if err != nil {
		return nil, err
	}
	defer partyRows.Close()
	for partyRows.Next() {
		var p model.Party
		if err := partyRows.Scan(&p.ID, &p.ContractID, &p.Role, &p.UserID, &p.EncryptedEmail, &p.EmailIV, &p.ContactPhone, &p.CreatedAt); err != nil {
			return nil, err
		}
		if len(p.EncryptedEmail) > 0 && len(p.EmailIV) > 0 {
			email, err := crypto.Decrypt(p.EncryptedEmail, p.EmailIV)
			if err != nil {
				return nil, err
			}
			p.ContactEmail = email
		}
		view.Parties = append(view.Parties, p)
	}
	if err := partyRows.Err(); err != nil {
		return nil, err
	}

	sigRows, err := r.db.QueryContext(ctx,
		`SELECT s.id, s.party_id, s.signed_at, s.payload
		 FROM contract_signatures s
		 JOIN contract_parties p ON p.id = s.party_id
		 WHERE p.contract_id = $1 ORDER BY s.signed_at`, id)
	if err != nil {
		return nil, err
	}
	defer sigRows.Close()
	for sigRows.Next() {
		var s model.Signature
		if err := sigRows.Scan(&s.ID, &s.PartyID, &s.SignedAt, &s.Payload); err != nil {
			return nil, err
		}
		view.Signatures = append(view.Signatures, s)
	}
	if err := sigRows.Err(); err != nil {
		return nil, err
	}

	r.cacheView(ctx, view)
	return view, nil
}

// Send atomically moves a draft to SENT, writes version 1 and materializes
// the parties.
func (r *WorkflowRepository) Send(ctx context.Context, c *model.Contract, parties []model.Party, version *model.ContractVersion) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE contracts SET status = 'SENT', updated_at = now() WHERE id = $1 AND status = 'DRAFT'`, c.ID)
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

	version.ID = uuid.New()
	version.ContractID = c.ID
	version.CreatedAt = time.Now()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO contract_versions (id, contract_id, version, template_code, content, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		version.ID, version.ContractID, version.Version, version.TemplateCode, version.Content, version.CreatedAt)
	if err != nil {
		return err
	}

	for i := range parties {
		p := &parties[i]
		p.ID = uuid.New()
		p.ContractID = c.ID
		p.CreatedAt = time.Now()
		if p.ContactEmail != "" {
			encrypted, iv, err := crypto.Encrypt(p.ContactEmail)
			if err != nil {
				return err
			}
			p.EncryptedEmail = encrypted
			p.EmailIV = iv
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO contract_parties (id, contract_id, role, user_id, encrypted_email, email_iv, contact_phone, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			p.ID, p.ContractID, p.Role, p.UserID, p.EncryptedEmail, p.EmailIV, p.ContactPhone, p.CreatedAt)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	c.Status = model.StatusSent
	r.invalidateView(ctx, c.ID)
	return nil
}

// CreateSignature records a party's signature. The unique index on party_id
// backs the one-signature-per-party invariant.
func (r *WorkflowRepository) CreateSignature(ctx context.Context, contractID uuid.UUID, sig *model.Signature) error {
	sig.ID = uuid.New()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contract_signatures (id, party_id, signed_at, payload) VALUES ($1, $2, $3, $4)`,
		sig.ID, sig.PartyID, sig.SignedAt, sig.Payload)
	if err != nil {
		return err
	}
	r.invalidateView(ctx, contractID)
	return nil
}

// UpdateContractStatus moves a contract between statuses with an optimistic
// guard on the expected current status.
func (r *WorkflowRepository) UpdateContractStatus(ctx context.Context, id uuid.UUID, from, to model.ContractStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE contracts SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`,
		id, from, to)
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
	r.invalidateView(ctx, id)
	return nil
}

// ListDueForActivation returns SIGNED contracts whose start date has passed.
func (r *WorkflowRepository) ListDueForActivation(ctx context.Context, now time.Time) ([]model.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE status = 'SIGNED' AND start_date <= $1`
	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var due []model.Contract
	for rows.Next() {
		var c model.Contract
		err := rows.Scan(
			&c.ID, &c.UnitID, &c.LandlordUserID, &c.TenantUserID, &c.StartDate, &c.EndDate,
			&c.PendingEndDate, &c.DepositAmount, &c.RentAmount, &c.FeeDetail, &c.Status,
			&c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		due = append(due, c)
	}
	return due, rows.Err()
}
