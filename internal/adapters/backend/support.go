package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/example/backoffice/internal/ports/secondary"
)

// supportRoute locates a support document. The id replaces %s.
type supportRoute struct {
	service Service
	path    string
}

var supportRoutes = map[secondary.SupportLookup]supportRoute{
	secondary.LookupApplication:       {ServiceApplication, "/support/applications/%s"},
	secondary.LookupClaim:             {ServiceApplication, "/support/claims/%s"},
	secondary.LookupHerd:              {ServiceApplication, "/support/herds/%s"},
	secondary.LookupPayment:           {ServicePaymentProxy, "/support/payments/%s"},
	secondary.LookupPaymentStatus:     {ServicePaymentProxy, "/support/payment-requests/%s/status"},
	secondary.LookupAgreementMessages: {ServiceMessageGenerator, "/support/agreements/%s/messages"},
	secondary.LookupClaimMessages:     {ServiceMessageGenerator, "/support/claims/%s/messages"},
	secondary.LookupAgreementLogs:     {ServiceDocumentGenerator, "/support/agreements/%s/logs"},
	secondary.LookupAgreementComms:    {ServiceCommsProxy, "/support/agreements/%s/comms"},
	secondary.LookupClaimComms:        {ServiceCommsProxy, "/support/claims/%s/comms"},
}

// Lookup fetches a raw support document, pretty-printed.
func (c *Client) Lookup(ctx context.Context, kind secondary.SupportLookup, id string) (json.RawMessage, error) {
	route, ok := supportRoutes[kind]
	if !ok {
		return nil, fmt.Errorf("unknown support lookup %q", kind)
	}

	resp, err := c.do(ctx, route.service, http.MethodGet, fmt.Sprintf(route.path, escape(id)), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s %s: %w", kind, id, err)
	}

	var doc any
	if err := json.Unmarshal(resp.body, &doc); err != nil {
		return nil, fmt.Errorf("backend: failed to parse %s document: %w", kind, err)
	}
	pretty, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("backend: failed to format %s document: %w", kind, err)
	}
	return pretty, nil
}
