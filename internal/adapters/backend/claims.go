package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/example/backoffice/internal/ports/secondary"
)

// GetClaim retrieves a claim by reference.
func (c *Client) GetClaim(ctx context.Context, reference string) (*secondary.ClaimRecord, error) {
	var record secondary.ClaimRecord
	if err := c.getJSON(ctx, ServiceApplication, "/claims/"+escape(reference), &record); err != nil {
		return nil, fmt.Errorf("failed to get claim %s: %w", reference, err)
	}
	return &record, nil
}

// SearchClaims returns one page of claims.
func (c *Client) SearchClaims(ctx context.Context, q secondary.SearchQuery) (*secondary.ClaimPage, error) {
	var page secondary.ClaimPage
	if err := c.sendJSON(ctx, ServiceApplication, http.MethodPost, "/claims/search", newSearchPayload(q), &page); err != nil {
		return nil, fmt.Errorf("failed to search claims: %w", err)
	}
	return &page, nil
}

// UpdateClaimStatus sets a claim status.
func (c *Client) UpdateClaimStatus(ctx context.Context, u secondary.StatusUpdate) error {
	body := map[string]string{"reference": u.Reference, "status": u.Status, "user": u.User, "note": u.Note}
	if err := c.sendJSON(ctx, ServiceApplication, http.MethodPut, "/claims/update-by-reference", body, nil); err != nil {
		return fmt.Errorf("failed to update claim %s status: %w", u.Reference, err)
	}
	return nil
}

// UpdateClaimData corrects claim data fields. The fields travel at the top
// level of the body alongside note and user.
func (c *Client) UpdateClaimData(ctx context.Context, reference string, data map[string]any, user, note string) error {
	body := make(map[string]any, len(data)+2)
	for k, v := range data {
		body[k] = v
	}
	body["note"] = note
	body["user"] = user

	if err := c.sendJSON(ctx, ServiceApplication, http.MethodPut, "/claims/"+escape(reference)+"/data", body, nil); err != nil {
		return fmt.Errorf("failed to update claim %s data: %w", reference, err)
	}
	return nil
}

// GetClaimHistory returns the claim audit history.
func (c *Client) GetClaimHistory(ctx context.Context, reference string) ([]secondary.HistoryRecord, error) {
	var resp historyResponse
	if err := c.getJSON(ctx, ServiceApplication, "/claims/"+escape(reference)+"/history", &resp); err != nil {
		return nil, fmt.Errorf("failed to get claim %s history: %w", reference, err)
	}
	return resp.HistoryRecords, nil
}
