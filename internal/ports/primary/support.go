package primary

import "context"

// SupportService defines the primary port for the support diagnostics page.
type SupportService interface {
	// Search runs the lookup named by req.Action. A missing identifier is
	// returned as *ValidationError.
	Search(ctx context.Context, req SupportSearchRequest) (*SupportResult, error)
}

// SupportSearchRequest is the support form input. Fields holds every
// submitted form value keyed by field name.
type SupportSearchRequest struct {
	Action string
	Fields map[string]string
}

// SupportResult is the document found, or a "No ... found" message.
type SupportResult struct {
	Action   string
	Document string
	Found    bool
}
