// Package wire provides dependency injection for the backoffice.
// It builds the configuration and logger once per process and assembles the
// services behind the web server on demand.
package wire

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/example/backoffice/internal/adapters/backend"
	cliadapter "github.com/example/backoffice/internal/adapters/cli"
	"github.com/example/backoffice/internal/adapters/identity"
	"github.com/example/backoffice/internal/adapters/metrics"
	rediscache "github.com/example/backoffice/internal/adapters/redis"
	"github.com/example/backoffice/internal/adapters/sqlite"
	"github.com/example/backoffice/internal/adapters/web"
	"github.com/example/backoffice/internal/app"
	"github.com/example/backoffice/internal/clock"
	"github.com/example/backoffice/internal/config"
	"github.com/example/backoffice/internal/core/permission"
	"github.com/example/backoffice/internal/db"
	"github.com/example/backoffice/internal/logging"
	"github.com/example/backoffice/internal/ports/secondary"
)

var (
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
	loadErr    error
	once       sync.Once
)

// SetConfigPath selects the YAML file read by Config. It must be called
// before the first call to Config.
func SetConfigPath(path string) {
	configPath = path
}

// Config returns the validated configuration, loaded once.
func Config() (*config.Config, error) {
	once.Do(load)
	return cfg, loadErr
}

// Logger returns the process logger. Before the configuration loads it falls
// back to a JSON logger at info level.
func Logger() *slog.Logger {
	once.Do(load)
	if logger == nil {
		return logging.New(logging.Options{Format: config.LogFormatJSON})
	}
	return logger
}

func load() {
	loaded, err := config.Load(configPath)
	if err != nil {
		loadErr = fmt.Errorf("failed to load config: %w", err)
		return
	}
	if err := loaded.Validate(); err != nil {
		loadErr = fmt.Errorf("invalid config: %w", err)
		return
	}
	cfg = loaded
	logger = logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Redact: cfg.Log.Redact,
		Output: os.Stderr,
	}).With("service", cfg.Name, "environment", string(cfg.Environment))
}

// Application is an assembled backoffice ready to serve.
type Application struct {
	Handler http.Handler
	closers []func() error
}

// Close releases the cache connection.
func (a *Application) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// Build assembles the backoffice from cfg.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	application := &Application{}
	clk := clock.Real()

	cache, closeCache, err := openCache(ctx, cfg.Cache, clk)
	if err != nil {
		return nil, err
	}
	application.closers = append(application.closers, closeCache)

	client, err := backend.NewClient(backend.Config{
		BaseURLs: map[backend.Service]string{
			backend.ServiceApplication:       cfg.Backend.ApplicationAPIURL,
			backend.ServicePaymentProxy:      cfg.Backend.PaymentProxyURL,
			backend.ServiceMessageGenerator:  cfg.Backend.MessageGeneratorURL,
			backend.ServiceDocumentGenerator: cfg.Backend.DocumentGeneratorURL,
			backend.ServiceCommsProxy:        cfg.Backend.CommsProxyURL,
		},
		APIKey:     cfg.Backend.APIKey,
		HTTPClient: &http.Client{Timeout: cfg.Backend.Timeout},
		Logger:     logger.With("component", "backend"),
	})
	if err != nil {
		application.Close()
		return nil, fmt.Errorf("failed to create backend client: %w", err)
	}

	providers, defaultKind, err := identityProviders(ctx, cfg)
	if err != nil {
		application.Close()
		return nil, err
	}

	recorder := metrics.NewRecorder()
	superAdmins := permission.NewSuperAdmins(cfg.SuperAdmins)
	executor := app.NewEffectExecutor(client, client, recorder, logger.With("component", "executor"))

	auth, err := app.NewAuthService(providers, app.AuthConfig{
		Default:       defaultKind,
		ToggleEnabled: cfg.Auth.PerfTestEnabled,
		SessionTTL:    cfg.Cache.ExpiresIn,
	}, cache, clk, logger.With("component", "auth"))
	if err != nil {
		application.Close()
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	opts := web.Options{
		Cookie: web.CookieOptions{
			Name:     cfg.Cookie.Name,
			Password: cfg.Cookie.Password,
			Secure:   cfg.Cookie.Secure,
			TTL:      cfg.Cookie.TTL,
		},
		AuthToggle: cfg.Auth.PerfTestEnabled,
		NewToken:   app.NewSubmissionToken,
		Logger:     logger,
	}
	if cfg.Metrics.Enabled {
		opts.Metrics = recorder.Handler()
	}

	server, err := web.NewServer(web.Services{
		Claims:     app.NewClaimService(client, client, executor, superAdmins, cfg.DisplayPageSize, clk),
		Agreements: app.NewAgreementService(client, recorder, superAdmins, cfg.DisplayPageSize, logger.With("component", "agreements")),
		Flags:      app.NewFlagService(client),
		Support:    app.NewSupportService(client),
		Auth:       auth,
		Guard:      app.NewSubmissionGuard(cache, recorder, cfg.Cache.CrumbTTL, clk),
	}, opts)
	if err != nil {
		application.Close()
		return nil, fmt.Errorf("failed to create web server: %w", err)
	}

	application.Handler = server.Handler()
	return application, nil
}

// openCache connects the configured cache backend.
func openCache(ctx context.Context, cfg config.CacheConfig, clk clock.Clock) (secondary.Cache, func() error, error) {
	switch cfg.Backend {
	case config.CacheRedis:
		client, err := rediscache.Open(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return rediscache.NewCache(client, cfg.KeyPrefix), client.Close, nil
	case config.CacheSQLite:
		database, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewCacheStore(database, clk), database.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
}

// OpenSQLite opens the sqlite cache database, defaulting to the path under
// the user's home.
func OpenSQLite(path string) (*sql.DB, error) {
	if path == "" {
		var err error
		if path, err = db.DefaultPath(); err != nil {
			return nil, err
		}
	}
	database, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite cache: %w", err)
	}
	return database, nil
}

// identityProviders registers the sign-in strategies. OIDC is the default
// when auth is enabled. The dev strategy is registered outside production and
// whenever the perf-test switch is on.
func identityProviders(ctx context.Context, cfg *config.Config) ([]secondary.IdentityProvider, string, error) {
	var providers []secondary.IdentityProvider
	defaultKind := identity.KindDev

	if cfg.Auth.Enabled {
		oidcProvider, err := identity.DiscoverOIDC(ctx, identity.OIDCConfig{
			Issuer:       cfg.Auth.AuthorityURL,
			ClientID:     cfg.Auth.ClientID,
			ClientSecret: cfg.Auth.ClientSecret,
			RedirectURL:  cfg.Auth.RedirectURL,
		})
		if err != nil {
			return nil, "", err
		}
		providers = append(providers, oidcProvider)
		defaultKind = identity.KindOIDC
	}
	if !cfg.IsProduction() || cfg.Auth.PerfTestEnabled || !cfg.Auth.Enabled {
		providers = append(providers, identity.NewDevProvider(cfg.Auth.DevEmailDomain))
	}
	return providers, defaultKind, nil
}

// WorkflowAdapter returns a new WorkflowAdapter writing to stdout.
func WorkflowAdapter() *cliadapter.WorkflowAdapter {
	return WorkflowAdapterWithOutput(os.Stdout)
}

// WorkflowAdapterWithOutput returns a new WorkflowAdapter writing to out.
func WorkflowAdapterWithOutput(out io.Writer) *cliadapter.WorkflowAdapter {
	return cliadapter.NewWorkflowAdapter(out)
}

// CacheAdapter opens the sqlite cache named by the configuration and returns
// an adapter over it. The caller closes the returned database.
func CacheAdapter(out io.Writer) (*cliadapter.CacheAdapter, io.Closer, error) {
	c, err := Config()
	if err != nil {
		return nil, nil, err
	}
	database, err := OpenSQLite(c.Cache.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	return cliadapter.NewCacheAdapter(sqlite.NewCacheStore(database, clock.Real()), out), database, nil
}
