package secondary

import (
	"context"
	"time"
)

// Cache segments.
const (
	SegmentSession    = "session-auth"
	SegmentCrumb      = "submission-crumb"
	SegmentLoginState = "login-state"
	SegmentAuthMode   = "auth-mode"
)

// Cache defines the port for the short-lived key/value store shared by
// sessions, submission crumbs and runtime toggles. Entries expire after
// their TTL; expired entries are never returned. A TTL of zero or less
// stores the entry without expiry.
type Cache interface {
	// Get returns the value and whether a live entry exists.
	Get(ctx context.Context, segment, key string) ([]byte, bool, error)

	// Set stores value, replacing any existing entry.
	Set(ctx context.Context, segment, key string, value []byte, ttl time.Duration) error

	// SetIfAbsent stores value only when no live entry exists. It reports
	// whether the value was stored. The check and write are atomic.
	SetIfAbsent(ctx context.Context, segment, key string, value []byte, ttl time.Duration) (bool, error)

	// Delete removes an entry. Deleting a missing entry is not an error.
	Delete(ctx context.Context, segment, key string) error
}

// CacheMaintenance is implemented by cache backends that keep expired rows
// until purged.
type CacheMaintenance interface {
	// PurgeExpired removes expired entries and returns how many went.
	PurgeExpired(ctx context.Context) (int64, error)

	// CountBySegment returns the number of live entries per segment.
	CountBySegment(ctx context.Context) (map[string]int, error)
}
