package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/backoffice/internal/core/formerrors"
	"github.com/example/backoffice/internal/ports/primary"
	"github.com/example/backoffice/internal/ports/secondary"
)

// supportSearch describes one lookup offered on the support page.
type supportSearch struct {
	lookup   secondary.SupportLookup
	field    string
	missing  string
	href     string
	notFound string
}

var supportSearches = map[string]supportSearch{
	"searchApplication": {
		lookup: secondary.LookupApplication, field: "applicationReference",
		missing: "Application reference missing.", href: "#application-reference",
		notFound: "No application found",
	},
	"searchClaim": {
		lookup: secondary.LookupClaim, field: "claimReference",
		missing: "Claim reference missing.", href: "#claim-reference",
		notFound: "No claim found",
	},
	"searchHerd": {
		lookup: secondary.LookupHerd, field: "herdId",
		missing: "Herd id missing.", href: "#herd-id",
		notFound: "No herd found",
	},
	"searchPayment": {
		lookup: secondary.LookupPayment, field: "paymentReference",
		missing: "Payment reference missing.", href: "#payment-reference",
		notFound: "No payment found",
	},
	"searchPaymentStatus": {
		lookup: secondary.LookupPaymentStatus, field: "paymentStatusReference",
		missing: "Payment status reference missing.", href: "#payment-status-reference",
		notFound: "No payment found",
	},
	"searchAgreementMessages": {
		lookup: secondary.LookupAgreementMessages, field: "agreementMessageReference",
		missing: "Agreement reference missing.", href: "#agreement-message-reference",
		notFound: "No agreement messages found",
	},
	"searchClaimMessages": {
		lookup: secondary.LookupClaimMessages, field: "claimMessageReference",
		missing: "Claim reference missing.", href: "#claim-message-reference",
		notFound: "No claim messages found",
	},
	"searchAgreementLogs": {
		lookup: secondary.LookupAgreementLogs, field: "agreementLogReference",
		missing: "Agreement reference missing.", href: "#agreement-log-reference",
		notFound: "No agreement logs found",
	},
	"searchAgreementComms": {
		lookup: secondary.LookupAgreementComms, field: "agreementCommsReference",
		missing: "Agreement reference missing.", href: "#agreement-comms-reference",
		notFound: "No agreement comms found",
	},
	"searchClaimComms": {
		lookup: secondary.LookupClaimComms, field: "claimCommsReference",
		missing: "Claim reference missing.", href: "#claim-comms-reference",
		notFound: "No claim comms found",
	},
}

// SupportServiceImpl implements the SupportService interface.
type SupportServiceImpl struct {
	support secondary.SupportAPI
}

// NewSupportService creates a new SupportService with injected dependencies.
func NewSupportService(support secondary.SupportAPI) *SupportServiceImpl {
	return &SupportServiceImpl{support: support}
}

// Search runs the lookup named by the form action.
func (s *SupportServiceImpl) Search(ctx context.Context, req primary.SupportSearchRequest) (*primary.SupportResult, error) {
	search, ok := supportSearches[req.Action]
	if !ok {
		return nil, fmt.Errorf("%s is not supported", req.Action)
	}

	id := strings.TrimSpace(req.Fields[search.field])
	if id == "" {
		return nil, &primary.ValidationError{
			Errors: []formerrors.FieldError{{Text: search.missing, Href: search.href, Key: search.field}},
		}
	}

	doc, err := s.support.Lookup(ctx, search.lookup, id)
	if errors.Is(err, secondary.ErrNotFound) {
		return &primary.SupportResult{Action: req.Action, Document: search.notFound}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to %s %s: %w", req.Action, id, err)
	}

	return &primary.SupportResult{Action: req.Action, Document: string(doc), Found: true}, nil
}

// SupportActions lists the support form actions.
func SupportActions() []string {
	return []string{
		"searchApplication", "searchClaim", "searchHerd", "searchPayment",
		"searchPaymentStatus", "searchAgreementMessages", "searchClaimMessages",
		"searchAgreementLogs", "searchAgreementComms", "searchClaimComms",
	}
}
