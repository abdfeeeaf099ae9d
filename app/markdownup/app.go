package markdownup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/markdownup/core/backend"
	"github.com/dmitrymomot/markdownup/core/cache"
	"github.com/dmitrymomot/markdownup/core/handler"
	"github.com/dmitrymomot/markdownup/core/index"
	"github.com/dmitrymomot/markdownup/core/logger"
	"github.com/dmitrymomot/markdownup/core/response"
	"github.com/dmitrymomot/markdownup/core/router"
	"github.com/dmitrymomot/markdownup/core/server"
	"github.com/dmitrymomot/markdownup/core/static"
	"github.com/dmitrymomot/markdownup/core/stub"
	"github.com/dmitrymomot/markdownup/integration/script/goja"
	"github.com/dmitrymomot/markdownup/middleware"
	"github.com/dmitrymomot/markdownup/pkg/urlquote"
)

const (
	// MetricsActionName is the route of the Prometheus endpoint.
	MetricsActionName = "metrics"

	metricsNamespace = "markdownup"
)

var (
	ErrRootNotDirectory = errors.New("served root is not a directory")
	ErrActionConflict   = errors.New("backend API name conflicts with a builtin action")
)

// App wires the launcher: static resolver, directory index, backend
// actions and metrics behind one router.
type App struct {
	config   Config
	root     string
	logger   *slog.Logger
	router   router.Router[*router.Context]
	resolver *static.Resolver
	registry *prometheus.Registry
	server   *server.Server
}

// AppOption customizes an App during construction.
type AppOption func(*App) error

// WithLogger replaces the logger built from the configuration.
func WithLogger(l *slog.Logger) AppOption {
	return func(app *App) error {
		if l == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = l
		return nil
	}
}

// New builds an App serving cfg.Root. It fails when the root is not a
// directory, the index format is unknown, or the backend cannot be loaded.
func New(cfg Config, opts ...AppOption) (*App, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %q: %w", cfg.Root, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, ErrRootNotDirectory
	}

	app := &App{
		config:   cfg,
		root:     root,
		logger:   newLogger(cfg),
		registry: prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	format, err := index.ParseFormat(cfg.IndexFormat)
	if err != nil {
		return nil, err
	}

	fsys := os.DirFS(root)
	resolverOpts := []static.Option{
		static.WithStubGenerator(stub.New()),
		static.WithLogger(app.logger),
		static.WithStrictPaths(cfg.StrictPaths),
		static.WithAutoRender(cfg.AutoRender),
	}
	if cfg.Release {
		resolverOpts = append(resolverOpts, static.WithCache(cache.New[static.Outcome]()))
	}
	app.resolver = static.NewResolver(fsys, resolverOpts...)

	metrics, err := middleware.NewMetrics(app.registry, metricsNamespace)
	if err != nil {
		return nil, err
	}
	if err := app.registerCacheMetrics(); err != nil {
		return nil, err
	}

	middlewares := []handler.Middleware[*router.Context]{
		middleware.RequestID[*router.Context](),
		middleware.ConcurrencyLimit[*router.Context](cfg.Threads),
	}
	if !cfg.Quiet {
		middlewares = append(middlewares, middleware.LoggingWithConfig[*router.Context](middleware.LoggingConfig{
			Logger: app.logger,
			Skip: func(ctx handler.Context) bool {
				route, ok := router.RouteFromContext(ctx)
				return ok && route.Name == MetricsActionName
			},
		}))
	}
	middlewares = append(middlewares, middleware.MetricsMiddleware[*router.Context](metrics))

	app.router = router.New[*router.Context](
		router.WithErrorHandler(response.ErrorHandler[*router.Context]),
		router.WithLogger[*router.Context](app.logger),
		router.WithFallback(static.Handler[*router.Context](app.resolver)),
		router.WithMiddleware(middlewares...),
	)

	app.router.Get(index.ActionName, index.Handler[*router.Context](
		index.New(fsys, index.WithStrictPaths(cfg.StrictPaths)), format,
	))
	if cfg.Metrics {
		app.router.Get(MetricsActionName, metricsHandler(app.registry))
	}

	if err := app.loadBackend(); err != nil {
		return nil, err
	}

	app.server, err = server.NewFromConfig(app.serverConfig(), server.WithLogger(app.logger))
	if err != nil {
		return nil, err
	}

	for _, route := range app.router.Routes() {
		app.logger.Debug("action registered",
			logger.Action(route.Name),
			slog.String("kind", route.Kind.String()),
			slog.Any("methods", route.Methods),
		)
	}

	return app, nil
}

// Handler returns the request handler.
func (app *App) Handler() http.Handler {
	return app.router
}

// Root returns the absolute served directory.
func (app *App) Root() string {
	return app.root
}

// Addr returns the listen address. After the server is ready it reports the
// bound address.
func (app *App) Addr() string {
	return app.server.Addr()
}

// Ready is closed once the listener is bound.
func (app *App) Ready() <-chan struct{} {
	return app.server.Ready()
}

// URL returns the absolute URL of a served path. The path is percent-encoded.
func (app *App) URL(path string) string {
	return "http://" + app.Addr() + "/" + urlquote.Path(path)
}

// Run serves until ctx is canceled.
func (app *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(app.server.Run(ctx, app.router))
	return g.Wait()
}

func (app *App) serverConfig() server.Config {
	cfg := app.config.Server
	cfg.Addr = net.JoinHostPort(app.config.Host, strconv.Itoa(app.config.Port))
	return cfg
}

// loadBackend registers scripted actions from the backend config. A missing
// default config is not an error.
func (app *App) loadBackend() error {
	path := app.config.BackendConfig
	explicit := path != ""
	if !explicit {
		path = filepath.Join(app.root, backend.DefaultConfigName)
	}

	cfg, err := backend.LoadConfig(path)
	if errors.Is(err, backend.ErrNoConfig) && !explicit {
		return nil
	}
	if err != nil {
		return err
	}

	exec := goja.New(
		goja.WithLogger(app.logger),
		goja.WithTimeout(app.config.ScriptTimeout),
	)
	actions, err := backend.Load(cfg, filepath.Dir(path), exec)
	if err != nil {
		return err
	}

	taken := make(map[string]bool)
	for _, route := range app.router.Routes() {
		taken[route.Name] = true
	}
	for _, a := range actions {
		if taken[a.Name()] {
			return fmt.Errorf("%w: %q", ErrActionConflict, a.Name())
		}
		app.router.Register(router.Action[*router.Context]{
			Name:    a.Name(),
			Kind:    router.Scripted,
			Methods: a.Methods(),
			Handler: backend.Handler[*router.Context](a),
		})
	}

	app.logger.Info("backend loaded",
		logger.Component("backend"),
		slog.String("config", path),
		slog.Int("apis", len(actions)),
	)
	return nil
}

func (app *App) registerCacheMetrics() error {
	stat := func(pick func(cache.Stats) float64) func() float64 {
		return func() float64 {
			s, ok := app.resolver.CacheStats()
			if !ok {
				return 0
			}
			return pick(s)
		}
	}

	return errors.Join(
		app.registry.Register(collectors.NewGoCollector()),
		app.registry.Register(prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "route_cache_hits_total",
			Help:      "Route cache lookups answered from the cache",
		}, stat(func(s cache.Stats) float64 { return float64(s.Hits) }))),
		app.registry.Register(prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "route_cache_misses_total",
			Help:      "Route cache lookups that resolved the filesystem",
		}, stat(func(s cache.Stats) float64 { return float64(s.Misses) }))),
		app.registry.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "route_cache_entries",
			Help:      "Number of cached routes",
		}, stat(func(s cache.Stats) float64 { return float64(s.Entries) }))),
	)
}

func metricsHandler(g prometheus.Gatherer) handler.HandlerFunc[*router.Context] {
	h := promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	return func(ctx *router.Context) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			h.ServeHTTP(w, r)
			return nil
		}
	}
}

func newLogger(cfg Config) *slog.Logger {
	opts := []logger.Option{logger.WithLevel(logger.ParseLevel(cfg.LogLevel))}
	if cfg.LogFormat == "json" {
		opts = append(opts, logger.WithJSONFormatter())
	}
	return logger.New(opts...)
}
