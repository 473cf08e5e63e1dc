package primary

import (
	"context"
	"time"

	"github.com/example/backoffice/internal/core/claim"
	"github.com/example/backoffice/internal/core/formerrors"
	"github.com/example/backoffice/internal/core/status"
)

// AgreementService defines the primary port for agreement review.
type AgreementService interface {
	// ViewAgreement assembles everything the agreement page renders.
	ViewAgreement(ctx context.Context, req ViewRequest) (*AgreementView, error)

	// ListAgreements returns one page of agreements.
	ListAgreements(ctx context.Context, req ListRequest) (*AgreementList, error)

	// UpdateEligiblePiiRedaction sets the automated redaction flag.
	UpdateEligiblePiiRedaction(ctx context.Context, req RedactionRequest) error
}

// RedactionRequest contains the eligible-for-redaction form input.
type RedactionRequest struct {
	Reference string
	Eligible  string // "yes" or "no"
	Note      string
}

// Agreement is an agreement as rendered.
type Agreement struct {
	Reference            string
	Status               status.Status
	StatusLabel          string
	StatusClass          string
	Type                 string
	Redacted             bool
	EligiblePiiRedaction bool
	OrganisationName     string
	SBI                  string
	Email                string
	Address              string
	Data                 map[string]any
	CreatedAt            time.Time
}

// AgreementView is the agreement page model.
type AgreementView struct {
	Agreement     Agreement
	History       []HistoryRow
	ViewState     claim.ViewState
	StatusOptions []status.Option
	Errors        []formerrors.FieldError
	ErrorsByKey   map[string]formerrors.Message
	Page          int
	ReturnPage    string
}

// AgreementList is one page of agreements.
type AgreementList struct {
	Agreements []Agreement
	Page       int
	Pages      int
	Total      int
	PageSize   int
}
