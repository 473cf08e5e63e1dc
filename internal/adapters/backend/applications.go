package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/example/backoffice/internal/ports/secondary"
)

// searchPayload is the body of the search endpoints.
type searchPayload struct {
	Search searchTerms          `json:"search"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
	Filter []any                `json:"filter"`
	Sort   *secondary.SortOrder `json:"sort,omitempty"`
}

type searchTerms struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

func newSearchPayload(q secondary.SearchQuery) searchPayload {
	return searchPayload{
		Search: searchTerms{Text: q.Text, Type: q.Type},
		Limit:  q.Limit,
		Offset: q.Offset,
		Filter: []any{},
		Sort:   q.Sort,
	}
}

type historyResponse struct {
	HistoryRecords []secondary.HistoryRecord `json:"historyRecords"`
}

// GetApplication retrieves an agreement by reference.
func (c *Client) GetApplication(ctx context.Context, reference string) (*secondary.AgreementRecord, error) {
	var record secondary.AgreementRecord
	if err := c.getJSON(ctx, ServiceApplication, "/applications/"+escape(reference), &record); err != nil {
		return nil, fmt.Errorf("failed to get application %s: %w", reference, err)
	}
	return &record, nil
}

// SearchApplications returns one page of agreements.
func (c *Client) SearchApplications(ctx context.Context, q secondary.SearchQuery) (*secondary.AgreementPage, error) {
	var page secondary.AgreementPage
	if err := c.sendJSON(ctx, ServiceApplication, http.MethodPost, "/applications/search", newSearchPayload(q), &page); err != nil {
		return nil, fmt.Errorf("failed to search applications: %w", err)
	}
	return &page, nil
}

// UpdateApplicationStatus sets an agreement status.
func (c *Client) UpdateApplicationStatus(ctx context.Context, u secondary.StatusUpdate) error {
	body := map[string]string{"user": u.User, "status": u.Status, "note": u.Note}
	if err := c.sendJSON(ctx, ServiceApplication, http.MethodPut, "/applications/"+escape(u.Reference), body, nil); err != nil {
		return fmt.Errorf("failed to update application %s status: %w", u.Reference, err)
	}
	return nil
}

// GetApplicationHistory returns the agreement audit history.
func (c *Client) GetApplicationHistory(ctx context.Context, reference string) ([]secondary.HistoryRecord, error) {
	var resp historyResponse
	if err := c.getJSON(ctx, ServiceApplication, "/applications/"+escape(reference)+"/history", &resp); err != nil {
		return nil, fmt.Errorf("failed to get application %s history: %w", reference, err)
	}
	return resp.HistoryRecords, nil
}

// UpdateEligiblePiiRedaction sets the automated redaction flag.
func (c *Client) UpdateEligiblePiiRedaction(ctx context.Context, reference string, eligible bool, user, note string) error {
	body := map[string]any{"eligiblePiiRedaction": eligible, "note": note, "user": user}
	path := "/applications/" + escape(reference) + "/eligible-pii-redaction"
	if err := c.sendJSON(ctx, ServiceApplication, http.MethodPut, path, body, nil); err != nil {
		return fmt.Errorf("failed to update application %s eligible pii redaction: %w", reference, err)
	}
	return nil
}
