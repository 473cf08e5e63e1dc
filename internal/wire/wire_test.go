package wire

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/example/backoffice/internal/adapters/identity"
	"github.com/example/backoffice/internal/config"
	"github.com/example/backoffice/internal/db"
	"github.com/example/backoffice/internal/logging"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Backend.ApplicationAPIURL = "http://application.invalid"
	cfg.Cookie.Password = strings.Repeat("s", 32)
	cfg.Cache.Backend = config.CacheSQLite
	cfg.Cache.SQLitePath = db.MemoryPath
	return cfg
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name        string
		configure   func(t *testing.T, cfg *config.Config)
		wantMetrics int
	}{
		{
			name:        "sqlite cache",
			configure:   func(t *testing.T, cfg *config.Config) {},
			wantMetrics: http.StatusNotFound,
		},
		{
			name: "redis cache with metrics",
			configure: func(t *testing.T, cfg *config.Config) {
				mr := miniredis.RunT(t)
				cfg.Cache.Backend = config.CacheRedis
				cfg.Cache.RedisURL = "redis://" + mr.Addr()
				cfg.Metrics.Enabled = true
			},
			wantMetrics: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.configure(t, cfg)

			application, err := Build(context.Background(), cfg, logging.Discard())
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			defer application.Close()

			rec := httptest.NewRecorder()
			application.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
				t.Errorf("health = %d %q", rec.Code, rec.Body.String())
			}

			rec = httptest.NewRecorder()
			application.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
			if rec.Code != tt.wantMetrics {
				t.Errorf("metrics = %d, want %d", rec.Code, tt.wantMetrics)
			}

			rec = httptest.NewRecorder()
			application.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
			if rec.Code != http.StatusFound || !strings.HasPrefix(rec.Header().Get("Location"), "/dev-auth") {
				t.Errorf("login = %d %q", rec.Code, rec.Header().Get("Location"))
			}
		})
	}
}

func TestBuildRejectsUnknownCache(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.Backend = "memcached"
	if _, err := Build(context.Background(), cfg, logging.Discard()); err == nil {
		t.Error("expected error for unknown cache backend")
	}
}

func TestIdentityProvidersWithoutAuth(t *testing.T) {
	providers, kind, err := identityProviders(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("identityProviders failed: %v", err)
	}
	if kind != identity.KindDev || len(providers) != 1 || providers[0].Kind() != identity.KindDev {
		t.Errorf("providers = %v, default %q", providers, kind)
	}
}
