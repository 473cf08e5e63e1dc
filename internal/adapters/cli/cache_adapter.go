package cli

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/example/backoffice/internal/ports/secondary"
)

// CacheAdapter runs maintenance on a cache backend that keeps expired rows.
type CacheAdapter struct {
	cache secondary.CacheMaintenance
	out   io.Writer
}

// NewCacheAdapter creates a new CacheAdapter.
func NewCacheAdapter(cache secondary.CacheMaintenance, out io.Writer) *CacheAdapter {
	return &CacheAdapter{cache: cache, out: out}
}

// Purge deletes expired entries and prints what is left.
func (a *CacheAdapter) Purge(ctx context.Context) error {
	n, err := a.cache.PurgeExpired(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Purged %d expired entries\n", n)
	return a.Stats(ctx)
}

// Stats prints the live entry count per segment.
func (a *CacheAdapter) Stats(ctx context.Context) error {
	counts, err := a.cache.CountBySegment(ctx)
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		fmt.Fprintln(a.out, "No live entries")
		return nil
	}

	segments := make([]string, 0, len(counts))
	for s := range counts {
		segments = append(segments, s)
	}
	sort.Strings(segments)

	fmt.Fprintf(a.out, "\n%-20s %s\n", "SEGMENT", "LIVE")
	fmt.Fprintln(a.out, "──────────────────────────")
	for _, s := range segments {
		fmt.Fprintf(a.out, "%-20s %d\n", s, counts[s])
	}
	fmt.Fprintln(a.out)
	return nil
}
