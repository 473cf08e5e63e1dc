package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/example/backoffice/internal/ports/secondary"
)

// redactedFlagMessage is how the backend refuses to flag a redacted
// agreement.
const redactedFlagMessage = "Unable to create flag for redacted agreement"

// ListFlags returns all active flags.
func (c *Client) ListFlags(ctx context.Context) ([]secondary.FlagRecord, error) {
	var flags []secondary.FlagRecord
	if err := c.getJSON(ctx, ServiceApplication, "/flags", &flags); err != nil {
		return nil, fmt.Errorf("failed to list flags: %w", err)
	}
	return flags, nil
}

// CreateFlag flags an agreement. The backend answers 204 when an equivalent
// flag already exists.
func (c *Client) CreateFlag(ctx context.Context, reference string, f secondary.FlagCreate) (bool, error) {
	resp, err := c.do(ctx, ServiceApplication, http.MethodPost, "/applications/"+escape(reference)+"/flag", f)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusBadRequest && statusErr.Message == redactedFlagMessage {
			return false, fmt.Errorf("failed to flag %s: %w", reference, secondary.ErrAgreementRedacted)
		}
		return false, fmt.Errorf("failed to flag %s: %w", reference, err)
	}
	return resp.statusCode != http.StatusNoContent, nil
}

// DeleteFlag removes a flag with an explanatory note.
func (c *Client) DeleteFlag(ctx context.Context, flagID, user, note string) error {
	body := map[string]string{"user": user, "deletedNote": note}
	if err := c.sendJSON(ctx, ServiceApplication, http.MethodPatch, "/flags/"+escape(flagID)+"/delete", body, nil); err != nil {
		return fmt.Errorf("failed to delete flag %s: %w", flagID, err)
	}
	return nil
}
