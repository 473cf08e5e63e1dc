package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/example/backoffice/internal/clock"
	"github.com/example/backoffice/internal/ctxutil"
	"github.com/example/backoffice/internal/ports/primary"
	"github.com/example/backoffice/internal/ports/secondary"
)

const (
	// DefaultSessionTTL matches the session cookie lifetime.
	DefaultSessionTTL = 12 * time.Hour

	loginStateTTL = 10 * time.Minute
	authModeKey   = "mode"
)

// AuthServiceImpl implements the AuthService interface.
type AuthServiceImpl struct {
	providers     map[string]secondary.IdentityProvider
	defaultKind   string
	toggleEnabled bool
	cache         secondary.Cache
	sessionTTL    time.Duration
	clock         clock.Clock
	logger        *slog.Logger
}

// AuthConfig selects the sign-in strategies.
type AuthConfig struct {
	// Default is the provider kind used unless the toggle overrides it.
	Default string
	// ToggleEnabled allows SetMode to switch providers at runtime.
	ToggleEnabled bool
	SessionTTL    time.Duration
}

// NewAuthService creates a new AuthService with injected dependencies.
func NewAuthService(
	providers []secondary.IdentityProvider,
	cfg AuthConfig,
	cache secondary.Cache,
	clk clock.Clock,
	logger *slog.Logger,
) (*AuthServiceImpl, error) {
	byKind := make(map[string]secondary.IdentityProvider, len(providers))
	for _, p := range providers {
		byKind[p.Kind()] = p
	}
	if _, ok := byKind[cfg.Default]; !ok {
		return nil, fmt.Errorf("no identity provider registered for %q", cfg.Default)
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthServiceImpl{
		providers:     byKind,
		defaultKind:   cfg.Default,
		toggleEnabled: cfg.ToggleEnabled,
		cache:         cache,
		sessionTTL:    ttl,
		clock:         clk,
		logger:        logger,
	}, nil
}

// LoginURL starts a sign-in with the active strategy.
func (s *AuthServiceImpl) LoginURL(ctx context.Context) (string, error) {
	kind, err := s.Mode(ctx)
	if err != nil {
		return "", err
	}
	state := uuid.NewString()
	if err := s.cache.Set(ctx, secondary.SegmentLoginState, state, []byte(kind), loginStateTTL); err != nil {
		return "", fmt.Errorf("failed to store login state: %w", err)
	}
	return s.providers[kind].LoginURL(state), nil
}

// Authenticate completes a sign-in with the active strategy and opens a
// session. Callbacks carrying a state must match one issued by LoginURL.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, cb secondary.Callback) (*primary.Session, error) {
	kind, err := s.Mode(ctx)
	if err != nil {
		return nil, err
	}

	if cb.State != "" || kind != kindDev {
		issued, ok, err := s.cache.Get(ctx, secondary.SegmentLoginState, cb.State)
		if err != nil {
			return nil, fmt.Errorf("failed to load login state: %w", err)
		}
		if !ok || string(issued) != kind {
			return nil, fmt.Errorf("%w: unknown login state", primary.ErrUnauthenticated)
		}
		if err := s.cache.Delete(ctx, secondary.SegmentLoginState, cb.State); err != nil {
			return nil, fmt.Errorf("failed to clear login state: %w", err)
		}
	}

	identity, err := s.providers[kind].Exchange(ctx, cb)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", primary.ErrUnauthenticated, err)
	}

	session := &primary.Session{
		ID: uuid.NewString(),
		Actor: ctxutil.Actor{
			Name:     identity.Name,
			Username: identity.Username,
			Roles:    identity.Roles,
		},
		CreatedAt: s.clock.Now().UTC(),
	}
	raw, err := json.Marshal(toSessionRecord(session))
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.cache.Set(ctx, secondary.SegmentSession, session.ID, raw, s.sessionTTL); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.logger.InfoContext(ctx, "user signed in", "user", identity.Username, "provider", kind)
	return session, nil
}

// Session loads a live session.
func (s *AuthServiceImpl) Session(ctx context.Context, id string) (*primary.Session, error) {
	if id == "" {
		return nil, primary.ErrUnauthenticated
	}
	raw, ok, err := s.cache.Get(ctx, secondary.SegmentSession, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !ok {
		return nil, primary.ErrUnauthenticated
	}
	var rec sessionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return rec.toSession(), nil
}

// Logout closes a session.
func (s *AuthServiceImpl) Logout(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.cache.Delete(ctx, secondary.SegmentSession, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Mode returns the active strategy kind.
func (s *AuthServiceImpl) Mode(ctx context.Context) (string, error) {
	if !s.toggleEnabled {
		return s.defaultKind, nil
	}
	raw, ok, err := s.cache.Get(ctx, secondary.SegmentAuthMode, authModeKey)
	if err != nil {
		return "", fmt.Errorf("failed to load auth mode: %w", err)
	}
	if !ok {
		return s.defaultKind, nil
	}
	if _, known := s.providers[string(raw)]; !known {
		return s.defaultKind, nil
	}
	return string(raw), nil
}

// SetMode switches the active strategy.
func (s *AuthServiceImpl) SetMode(ctx context.Context, kind string) error {
	if !s.toggleEnabled {
		return primary.ForbiddenError("auth mode toggle is disabled")
	}
	if _, ok := s.providers[kind]; !ok {
		return fmt.Errorf("no identity provider registered for %q", kind)
	}
	if err := s.cache.Set(ctx, secondary.SegmentAuthMode, authModeKey, []byte(kind), 0); err != nil {
		return fmt.Errorf("failed to store auth mode: %w", err)
	}
	s.logger.InfoContext(ctx, "auth mode changed", "mode", kind)
	return nil
}

// kindDev is the provider kind that signs in without a redirect round trip.
const kindDev = "dev"

type sessionRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
}

func toSessionRecord(s *primary.Session) sessionRecord {
	return sessionRecord{
		ID:        s.ID,
		Name:      s.Actor.Name,
		Username:  s.Actor.Username,
		Roles:     s.Actor.Roles,
		CreatedAt: s.CreatedAt,
	}
}

func (r sessionRecord) toSession() *primary.Session {
	return &primary.Session{
		ID: r.ID,
		Actor: ctxutil.Actor{
			Name:     r.Name,
			Username: r.Username,
			Roles:    r.Roles,
		},
		CreatedAt: r.CreatedAt,
	}
}
