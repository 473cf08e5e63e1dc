package app

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/example/backoffice/internal/clock"
	"github.com/example/backoffice/internal/ports/primary"
	"github.com/example/backoffice/internal/ports/secondary"
)

// DefaultCrumbTTL is how long a submission blocks its duplicates.
const DefaultCrumbTTL = 24 * time.Hour

// SubmissionGuardImpl implements the SubmissionGuard interface.
type SubmissionGuardImpl struct {
	cache   secondary.Cache
	metrics secondary.Metrics
	ttl     time.Duration
	clock   clock.Clock
}

// NewSubmissionGuard creates a new SubmissionGuard with injected dependencies.
func NewSubmissionGuard(cache secondary.Cache, metrics secondary.Metrics, ttl time.Duration, clk clock.Clock) *SubmissionGuardImpl {
	if ttl <= 0 {
		ttl = DefaultCrumbTTL
	}
	return &SubmissionGuardImpl{cache: cache, metrics: metrics, ttl: ttl, clock: clk}
}

// Guard records the submission. The crumb is written before the form is
// processed and is not cleared afterwards, so an identical resubmission is
// refused until the crumb expires even if the first attempt failed.
func (g *SubmissionGuardImpl) Guard(ctx context.Context, sessionID, token string) error {
	if sessionID == "" {
		return primary.ErrUnauthenticated
	}

	value := []byte(g.clock.Now().UTC().Format(time.RFC3339))
	stored, err := g.cache.SetIfAbsent(ctx, secondary.SegmentCrumb, crumbKey(sessionID, token), value, g.ttl)
	if err != nil {
		return fmt.Errorf("failed to record submission: %w", err)
	}
	if !stored {
		g.metrics.IncDuplicateSubmission()
		return primary.ErrDuplicateSubmission
	}
	return nil
}

// NewSubmissionToken returns a fresh token to embed in a rendered form.
func NewSubmissionToken() string {
	return ulid.Make().String()
}

func crumbKey(sessionID, token string) string {
	if token == "" {
		return sessionID
	}
	return sessionID + ":" + token
}
