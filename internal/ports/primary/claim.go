package primary

import (
	"context"
	"time"

	"github.com/example/backoffice/internal/core/claim"
	"github.com/example/backoffice/internal/core/formerrors"
	"github.com/example/backoffice/internal/core/status"
)

// ClaimService defines the primary port for claim review and the status
// workflow shared by claims and agreements.
type ClaimService interface {
	// ViewClaim assembles everything the claim page renders.
	ViewClaim(ctx context.Context, req ViewRequest) (*ClaimView, error)

	// ListClaims returns one page of claims.
	ListClaims(ctx context.Context, req ListRequest) (*ClaimList, error)

	// Transition performs a workflow action on a claim or agreement.
	Transition(ctx context.Context, req TransitionRequest) error

	// UpdateClaimData corrects a claim data field.
	UpdateClaimData(ctx context.Context, req DataUpdateRequest) error
}

// Entity kinds accepted by Transition.
const (
	EntityClaim     = "claim"
	EntityAgreement = "agreement"
)

// ViewRequest identifies the page and its form toggles.
type ViewRequest struct {
	Reference  string
	Query      claim.QueryFlags
	Errors     string // encoded field errors from a failed submission
	Page       int
	ReturnPage string
}

// TransitionRequest contains parameters for a workflow action.
type TransitionRequest struct {
	Entity    string
	Reference string
	Action    claim.Action
	Target    status.Status // chosen status for the override action
	Note      string
	Confirm   []string
}

// DataUpdateRequest contains parameters for a data correction.
type DataUpdateRequest struct {
	Reference string
	Update    claim.DataUpdate
}

// ListRequest pages through claims or agreements.
type ListRequest struct {
	Search string
	Type   string
	Page   int
}

// Claim is a claim as rendered.
type Claim struct {
	Reference            string
	ApplicationReference string
	Status               status.Status
	StatusLabel          string
	StatusClass          string
	Type                 string
	Data                 map[string]any
	CreatedAt            time.Time
}

// HistoryRow is one line of the audit table.
type HistoryRow struct {
	Date   string
	Time   string
	Action string
	User   string
	Note   string
}

// ClaimView is the claim page model.
type ClaimView struct {
	Claim         Claim
	History       []HistoryRow
	ViewState     claim.ViewState
	StatusOptions []status.Option
	Errors        []formerrors.FieldError
	ErrorsByKey   map[string]formerrors.Message
	Page          int
	ReturnPage    string
}

// ClaimList is one page of claims.
type ClaimList struct {
	Claims   []Claim
	Page     int
	Pages    int
	Total    int
	PageSize int
}
