package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/example/backoffice/internal/clock"
	"github.com/example/backoffice/internal/core/effects"
	"github.com/example/backoffice/internal/ctxutil"
	"github.com/example/backoffice/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockClaimAPI implements secondary.ClaimAPI for testing.
type mockClaimAPI struct {
	claims        map[string]*secondary.ClaimRecord
	history       map[string][]secondary.HistoryRecord
	page          *secondary.ClaimPage
	lastQuery     secondary.SearchQuery
	statusUpdates []secondary.StatusUpdate
	dataUpdates   []map[string]any
	getErr        error
	updateErr     error
}

func newMockClaimAPI() *mockClaimAPI {
	return &mockClaimAPI{
		claims:  make(map[string]*secondary.ClaimRecord),
		history: make(map[string][]secondary.HistoryRecord),
	}
}

func (m *mockClaimAPI) GetClaim(ctx context.Context, reference string) (*secondary.ClaimRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if c, ok := m.claims[reference]; ok {
		return c, nil
	}
	return nil, secondary.ErrNotFound
}

func (m *mockClaimAPI) SearchClaims(ctx context.Context, q secondary.SearchQuery) (*secondary.ClaimPage, error) {
	m.lastQuery = q
	if m.page == nil {
		return &secondary.ClaimPage{}, nil
	}
	return m.page, nil
}

func (m *mockClaimAPI) UpdateClaimStatus(ctx context.Context, u secondary.StatusUpdate) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.statusUpdates = append(m.statusUpdates, u)
	return nil
}

func (m *mockClaimAPI) UpdateClaimData(ctx context.Context, reference string, data map[string]any, user, note string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.dataUpdates = append(m.dataUpdates, data)
	return nil
}

func (m *mockClaimAPI) GetClaimHistory(ctx context.Context, reference string) ([]secondary.HistoryRecord, error) {
	return m.history[reference], nil
}

// mockApplicationAPI implements secondary.ApplicationAPI for testing.
type mockApplicationAPI struct {
	applications    map[string]*secondary.AgreementRecord
	history         map[string][]secondary.HistoryRecord
	page            *secondary.AgreementPage
	statusUpdates   []secondary.StatusUpdate
	redactionUpdate *bool
	updateErr       error
}

func newMockApplicationAPI() *mockApplicationAPI {
	return &mockApplicationAPI{
		applications: make(map[string]*secondary.AgreementRecord),
		history:      make(map[string][]secondary.HistoryRecord),
	}
}

func (m *mockApplicationAPI) GetApplication(ctx context.Context, reference string) (*secondary.AgreementRecord, error) {
	if a, ok := m.applications[reference]; ok {
		return a, nil
	}
	return nil, secondary.ErrNotFound
}

func (m *mockApplicationAPI) SearchApplications(ctx context.Context, q secondary.SearchQuery) (*secondary.AgreementPage, error) {
	if m.page == nil {
		return &secondary.AgreementPage{}, nil
	}
	return m.page, nil
}

func (m *mockApplicationAPI) UpdateApplicationStatus(ctx context.Context, u secondary.StatusUpdate) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.statusUpdates = append(m.statusUpdates, u)
	return nil
}

func (m *mockApplicationAPI) GetApplicationHistory(ctx context.Context, reference string) ([]secondary.HistoryRecord, error) {
	return m.history[reference], nil
}

func (m *mockApplicationAPI) UpdateEligiblePiiRedaction(ctx context.Context, reference string, eligible bool, user, note string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.applications[reference]; !ok {
		return secondary.ErrNotFound
	}
	m.redactionUpdate = &eligible
	return nil
}

// mockFlagAPI implements secondary.FlagAPI for testing.
type mockFlagAPI struct {
	flags     []secondary.FlagRecord
	created   []secondary.FlagCreate
	deleted   []string
	createErr error
	duplicate bool
}

func (m *mockFlagAPI) ListFlags(ctx context.Context) ([]secondary.FlagRecord, error) {
	return m.flags, nil
}

func (m *mockFlagAPI) CreateFlag(ctx context.Context, reference string, f secondary.FlagCreate) (bool, error) {
	if m.createErr != nil {
		return false, m.createErr
	}
	if m.duplicate {
		return false, nil
	}
	m.created = append(m.created, f)
	return true, nil
}

func (m *mockFlagAPI) DeleteFlag(ctx context.Context, flagID, user, note string) error {
	m.deleted = append(m.deleted, flagID)
	return nil
}

// mockSupportAPI implements secondary.SupportAPI for testing.
type mockSupportAPI struct {
	docs      map[secondary.SupportLookup]map[string]json.RawMessage
	lookupErr error
}

func (m *mockSupportAPI) Lookup(ctx context.Context, kind secondary.SupportLookup, id string) (json.RawMessage, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	if doc, ok := m.docs[kind][id]; ok {
		return doc, nil
	}
	return nil, secondary.ErrNotFound
}

// mockCache implements secondary.Cache in memory against a clock.
type mockCache struct {
	mu      sync.Mutex
	clock   clock.Clock
	entries map[string]mockCacheEntry
	err     error
}

type mockCacheEntry struct {
	value     []byte
	expiresAt time.Time
}

func newMockCache(clk clock.Clock) *mockCache {
	return &mockCache{clock: clk, entries: make(map[string]mockCacheEntry)}
}

func (m *mockCache) live(key string) (mockCacheEntry, bool) {
	e, ok := m.entries[key]
	if !ok {
		return e, false
	}
	if !e.expiresAt.IsZero() && !m.clock.Now().Before(e.expiresAt) {
		delete(m.entries, key)
		return e, false
	}
	return e, true
}

func (m *mockCache) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return m.clock.Now().Add(ttl)
}

func (m *mockCache) Get(ctx context.Context, segment, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, false, m.err
	}
	e, ok := m.live(segment + "/" + key)
	return e.value, ok, nil
}

func (m *mockCache) Set(ctx context.Context, segment, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries[segment+"/"+key] = mockCacheEntry{value: value, expiresAt: m.expiry(ttl)}
	return nil
}

func (m *mockCache) SetIfAbsent(ctx context.Context, segment, key string, value []byte, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.live(segment + "/" + key); ok {
		return false, nil
	}
	m.entries[segment+"/"+key] = mockCacheEntry{value: value, expiresAt: m.expiry(ttl)}
	return true, nil
}

func (m *mockCache) Delete(ctx context.Context, segment, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, segment+"/"+key)
	return nil
}

// mockMetrics implements secondary.Metrics for testing.
type mockMetrics struct {
	mu         sync.Mutex
	updates    map[string]int
	duplicates int
}

func newMockMetrics() *mockMetrics {
	return &mockMetrics{updates: make(map[string]int)}
}

func (m *mockMetrics) IncUpdate(kind string) {
	m.mu.Lock()
	m.updates[kind]++
	m.mu.Unlock()
}

func (m *mockMetrics) IncDuplicateSubmission() {
	m.mu.Lock()
	m.duplicates++
	m.mu.Unlock()
}

// mockIdentityProvider implements secondary.IdentityProvider for testing.
type mockIdentityProvider struct {
	kind      string
	identity  *secondary.Identity
	exchanged []secondary.Callback
}

func (m *mockIdentityProvider) Kind() string { return m.kind }

func (m *mockIdentityProvider) LoginURL(state string) string {
	return "https://login.example/" + m.kind + "?state=" + state
}

func (m *mockIdentityProvider) Exchange(ctx context.Context, cb secondary.Callback) (*secondary.Identity, error) {
	m.exchanged = append(m.exchanged, cb)
	if m.identity == nil {
		return nil, errors.New("exchange refused")
	}
	return m.identity, nil
}

// recordingExecutor captures effects instead of executing them.
type recordingExecutor struct {
	executed []effects.Effect
	err      error
}

func (r *recordingExecutor) Execute(ctx context.Context, effs []effects.Effect) error {
	if r.err != nil {
		return r.err
	}
	r.executed = append(r.executed, effs...)
	return nil
}

// ============================================================================
// Helpers
// ============================================================================

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func actorContext(name string, roles ...string) context.Context {
	return ctxutil.WithActor(context.Background(), ctxutil.Actor{Name: name, Username: name + "@example.com", Roles: roles})
}

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
