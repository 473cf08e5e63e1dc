package secondary

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned by backend ports when the remote entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrAgreementRedacted is returned when the backend refuses to change a
// redacted agreement.
var ErrAgreementRedacted = errors.New("agreement is redacted")

// OrganisationRecord is the farm business on an agreement.
type OrganisationRecord struct {
	Name    string `json:"name"`
	SBI     string `json:"sbi"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// AgreementRecord is an agreement (application) as returned by the backend.
type AgreementRecord struct {
	Reference            string             `json:"reference"`
	Status               string             `json:"status"`
	Type                 string             `json:"type"`
	Redacted             bool               `json:"redacted"`
	EligiblePiiRedaction bool               `json:"eligiblePiiRedaction"`
	Organisation         OrganisationRecord `json:"organisation"`
	Data                 map[string]any     `json:"data"`
	CreatedAt            time.Time          `json:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt"`
}

// ClaimRecord is a claim as returned by the backend.
type ClaimRecord struct {
	Reference            string         `json:"reference"`
	ApplicationReference string         `json:"applicationReference"`
	Status               string         `json:"status"`
	Type                 string         `json:"type"`
	Data                 map[string]any `json:"data"`
	CreatedAt            time.Time      `json:"createdAt"`
	UpdatedAt            time.Time      `json:"updatedAt"`
}

// HistoryRecord is one audit row from the backend history endpoints.
type HistoryRecord struct {
	UpdatedProperty string    `json:"updatedProperty"`
	OldValue        string    `json:"oldValue"`
	NewValue        string    `json:"newValue"`
	Note            string    `json:"note"`
	UpdatedBy       string    `json:"updatedBy"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// SearchQuery is the paging and filter envelope shared by the search endpoints.
type SearchQuery struct {
	Text   string
	Type   string
	Limit  int
	Offset int
	Sort   *SortOrder
}

// SortOrder orders search results.
type SortOrder struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// AgreementPage is one page of agreement search results.
type AgreementPage struct {
	Applications []AgreementRecord `json:"applications"`
	Total        int               `json:"total"`
}

// ClaimPage is one page of claim search results.
type ClaimPage struct {
	Claims []ClaimRecord `json:"claims"`
	Total  int           `json:"total"`
}

// StatusUpdate moves an entity to a new status.
type StatusUpdate struct {
	Reference string
	Status    string
	User      string
	Note      string
}

// ApplicationAPI defines the backend port for agreements.
type ApplicationAPI interface {
	// GetApplication retrieves an agreement by reference.
	GetApplication(ctx context.Context, reference string) (*AgreementRecord, error)

	// SearchApplications returns one page of agreements.
	SearchApplications(ctx context.Context, q SearchQuery) (*AgreementPage, error)

	// UpdateApplicationStatus sets an agreement status.
	UpdateApplicationStatus(ctx context.Context, u StatusUpdate) error

	// GetApplicationHistory returns the agreement audit history.
	GetApplicationHistory(ctx context.Context, reference string) ([]HistoryRecord, error)

	// UpdateEligiblePiiRedaction sets the automated redaction flag.
	UpdateEligiblePiiRedaction(ctx context.Context, reference string, eligible bool, user, note string) error
}

// ClaimAPI defines the backend port for claims.
type ClaimAPI interface {
	// GetClaim retrieves a claim by reference.
	GetClaim(ctx context.Context, reference string) (*ClaimRecord, error)

	// SearchClaims returns one page of claims.
	SearchClaims(ctx context.Context, q SearchQuery) (*ClaimPage, error)

	// UpdateClaimStatus sets a claim status.
	UpdateClaimStatus(ctx context.Context, u StatusUpdate) error

	// UpdateClaimData corrects claim data fields.
	UpdateClaimData(ctx context.Context, reference string, data map[string]any, user, note string) error

	// GetClaimHistory returns the claim audit history.
	GetClaimHistory(ctx context.Context, reference string) ([]HistoryRecord, error)
}

// FlagRecord is an agreement flag.
type FlagRecord struct {
	ID                   string    `json:"id"`
	ApplicationReference string    `json:"applicationReference"`
	SBI                  string    `json:"sbi"`
	Note                 string    `json:"note"`
	CreatedBy            string    `json:"createdBy"`
	CreatedAt            time.Time `json:"createdAt"`
	AppliesToMh          bool      `json:"appliesToMh"`
}

// FlagCreate is the payload for a new flag.
type FlagCreate struct {
	User        string `json:"user"`
	Note        string `json:"note"`
	AppliesToMh bool   `json:"appliesToMh"`
}

// FlagAPI defines the backend port for agreement flags.
type FlagAPI interface {
	// ListFlags returns all active flags.
	ListFlags(ctx context.Context) ([]FlagRecord, error)

	// CreateFlag flags an agreement. created is false when an equivalent
	// flag already exists.
	CreateFlag(ctx context.Context, reference string, f FlagCreate) (created bool, err error)

	// DeleteFlag removes a flag with an explanatory note.
	DeleteFlag(ctx context.Context, flagID, user, note string) error
}

// SupportLookup names a diagnostic document the support page can fetch.
type SupportLookup string

const (
	LookupApplication       SupportLookup = "application"
	LookupClaim             SupportLookup = "claim"
	LookupHerd              SupportLookup = "herd"
	LookupPayment           SupportLookup = "payment"
	LookupPaymentStatus     SupportLookup = "paymentStatus"
	LookupAgreementMessages SupportLookup = "agreementMessages"
	LookupClaimMessages     SupportLookup = "claimMessages"
	LookupAgreementLogs     SupportLookup = "agreementLogs"
	LookupAgreementComms    SupportLookup = "agreementComms"
	LookupClaimComms        SupportLookup = "claimComms"
)

// SupportAPI defines the port for the support diagnostics endpoints spread
// across the backend services.
type SupportAPI interface {
	// Lookup fetches the raw document. Returns ErrNotFound on 404.
	Lookup(ctx context.Context, kind SupportLookup, id string) (json.RawMessage, error)
}
