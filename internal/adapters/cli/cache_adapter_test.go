package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

// mockCacheMaintenance implements secondary.CacheMaintenance for testing
type mockCacheMaintenance struct {
	purged   int64
	counts   map[string]int
	purgeErr error
}

func (m *mockCacheMaintenance) PurgeExpired(ctx context.Context) (int64, error) {
	return m.purged, m.purgeErr
}

func (m *mockCacheMaintenance) CountBySegment(ctx context.Context) (map[string]int, error) {
	return m.counts, nil
}

func TestCacheAdapter_Purge(t *testing.T) {
	var out bytes.Buffer
	adapter := NewCacheAdapter(&mockCacheMaintenance{
		purged: 3,
		counts: map[string]int{"submission-crumb": 4, "session-auth": 2},
	}, &out)

	if err := adapter.Purge(context.Background()); err != nil {
		t.Fatalf("Purge failed: %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "Purged 3 expired entries") {
		t.Errorf("missing purge count:\n%s", output)
	}
	if strings.Index(output, "session-auth") > strings.Index(output, "submission-crumb") {
		t.Error("segments should be sorted")
	}
}

func TestCacheAdapter_Empty(t *testing.T) {
	var out bytes.Buffer
	if err := NewCacheAdapter(&mockCacheMaintenance{}, &out).Stats(context.Background()); err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if !strings.Contains(out.String(), "No live entries") {
		t.Errorf("output = %q", out.String())
	}
}

func TestCacheAdapter_PurgeError(t *testing.T) {
	adapter := NewCacheAdapter(&mockCacheMaintenance{purgeErr: errors.New("locked")}, &bytes.Buffer{})
	if err := adapter.Purge(context.Background()); err == nil {
		t.Error("expected error")
	}
}
