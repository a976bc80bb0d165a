package model

import (
	"time"

	"github.com/google/uuid"
)

// ContractStatus is the lifecycle state of a contract.
type ContractStatus string

const (
	StatusDraft              ContractStatus = "DRAFT"
	StatusSent               ContractStatus = "SENT"
	StatusSigned             ContractStatus = "SIGNED"
	StatusActive             ContractStatus = "ACTIVE"
	StatusTerminationPending ContractStatus = "TERMINATION_PENDING"
	StatusCancelled          ContractStatus = "CANCELLED"
	StatusExpired            ContractStatus = "EXPIRED"
)

// PartyRole identifies which side of the contract a party is on.
type PartyRole string

const (
	RoleLandlord PartyRole = "LANDLORD"
	RoleTenant   PartyRole = "TENANT"
)

// Contract represents the contracts table. It is the aggregate root of the
// workflow: parties, signatures, versions and the side processes all hang
// off it.
type Contract struct {
	ID             uuid.UUID      `json:"id"`
	UnitID         uuid.UUID      `json:"unit_id"`
	LandlordUserID uuid.UUID      `json:"landlord_user_id"`
	TenantUserID   uuid.UUID      `json:"tenant_user_id"`
	StartDate      time.Time      `json:"start_date"`
	EndDate        time.Time      `json:"end_date"`
	PendingEndDate *time.Time     `json:"pending_end_date,omitempty"`
	DepositAmount  int64          `json:"deposit_amount"`
	RentAmount     int64          `json:"rent_amount"`
	FeeDetail      string         `json:"fee_detail"`
	Status         ContractStatus `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Party represents the contract_parties table.
type Party struct {
	ID             uuid.UUID `json:"id"`
	ContractID     uuid.UUID `json:"contract_id"`
	Role           PartyRole `json:"role"`
	UserID         uuid.UUID `json:"user_id"`
	ContactEmail   string    `json:"contact_email"` // Plaintext (transient, not stored in DB)
	ContactPhone   string    `json:"contact_phone"`
	EncryptedEmail []byte    `json:"-"` // Stored in DB
	EmailIV        []byte    `json:"-"` // Stored in DB
	CreatedAt      time.Time `json:"created_at"`
}

// Signature represents the contract_signatures table. Created only after a
// successful OTP verification; never mutated or deleted.
type Signature struct {
	ID       uuid.UUID `json:"id"`
	PartyID  uuid.UUID `json:"party_id"`
	SignedAt time.Time `json:"signed_at"`
	Payload  string    `json:"payload"`
}

// ContractVersion represents the contract_versions table. Version 1 is
// written at send time; each accepted extension appends the next version.
type ContractVersion struct {
	ID           uuid.UUID `json:"id"`
	ContractID   uuid.UUID `json:"contract_id"`
	Version      int       `json:"version"`
	TemplateCode string    `json:"template_code"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
}

// ContractView is the canonical read model returned by GET contracts/{id}.
type ContractView struct {
	Contract   *Contract         `json:"contract"`
	Versions   []ContractVersion `json:"versions"`
	Parties    []Party           `json:"parties"`
	Signatures []Signature       `json:"signatures"`
}
