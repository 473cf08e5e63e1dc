package primary

import (
	"context"
	"time"

	"github.com/example/backoffice/internal/ctxutil"
	"github.com/example/backoffice/internal/ports/secondary"
)

// AuthService defines the primary port for sign-in and sessions.
type AuthService interface {
	// LoginURL starts a sign-in with the active strategy.
	LoginURL(ctx context.Context) (string, error)

	// Authenticate completes a sign-in and opens a session.
	Authenticate(ctx context.Context, cb secondary.Callback) (*Session, error)

	// Session loads a live session. Returns ErrUnauthenticated when absent.
	Session(ctx context.Context, id string) (*Session, error)

	// Logout closes a session.
	Logout(ctx context.Context, id string) error

	// Mode returns the active strategy kind.
	Mode(ctx context.Context) (string, error)

	// SetMode switches the active strategy when the runtime toggle is enabled.
	SetMode(ctx context.Context, kind string) error
}

// Session is an authenticated browser session.
type Session struct {
	ID        string
	Actor     ctxutil.Actor
	CreatedAt time.Time
}

// SubmissionGuard defines the primary port for refusing resubmitted forms.
type SubmissionGuard interface {
	// Guard records the submission and returns ErrDuplicateSubmission when
	// the same session already submitted it within the guard window.
	Guard(ctx context.Context, sessionID, token string) error
}
