package secondary

import "context"

// Identity is the caseworker asserted by an identity provider.
type Identity struct {
	ID       string
	Name     string
	Username string
	Roles    []string
}

// Callback carries the parameters an identity provider redirects back with.
type Callback struct {
	Code   string
	State  string
	UserID string
}

// IdentityProvider defines the port for a sign-in strategy.
type IdentityProvider interface {
	// Kind names the strategy, e.g. "oidc" or "dev".
	Kind() string

	// LoginURL returns where to send the browser to sign in. state is an
	// opaque value echoed back on the callback.
	LoginURL(state string) string

	// Exchange resolves a callback into an identity.
	Exchange(ctx context.Context, cb Callback) (*Identity, error)
}

// Metrics defines the port for operational counters.
type Metrics interface {
	// IncUpdate counts a successful backend update of the given kind
	// ("status" or "data").
	IncUpdate(kind string)

	// IncDuplicateSubmission counts a refused resubmission.
	IncDuplicateSubmission()
}
