// Package app provides the main application setup and dependency injection.
package app

import (
	"fmt"

	"media-resolver-go/pkg/appctx"
	"media-resolver-go/pkg/browser"
	"media-resolver-go/pkg/config"
	"media-resolver-go/pkg/extractors"
	"media-resolver-go/pkg/flaresolverr"
	"media-resolver-go/pkg/handlers/api"
	"media-resolver-go/pkg/httpclient"
	"media-resolver-go/pkg/interfaces"
	"media-resolver-go/pkg/logging"
	"media-resolver-go/pkg/registry"
	"media-resolver-go/pkg/server"
	"media-resolver-go/pkg/services"
	"media-resolver-go/pkg/strategies"
	"media-resolver-go/pkg/types"
)

// App is the main application container.
type App struct {
	Ctx    *appctx.Context
	Server *server.Server
}

// New creates and initializes the application.
func New(cfg *config.Config, log *logging.Logger) (*App, error) {
	log.Info("initializing media resolver",
		"port", cfg.Port,
		"log_level", cfg.LogLevel,
		"backend", cfg.BrowserBackend,
	)

	// Create application context
	ctx := appctx.New(cfg, log)

	resolver, backend, err := NewResolver(cfg, log)
	if err != nil {
		return nil, err
	}
	ctx.WithResolver(resolver, backend)

	// Create HTTP server
	srv := server.New(cfg, log)

	// Create API handlers
	handlers := api.NewHandlers(ctx)
	handlers.RegisterRoutes(srv.Router())

	return &App{
		Ctx:    ctx,
		Server: srv,
	}, nil
}

// Run starts the application.
func (a *App) Run() error {
	a.Ctx.Log.Info("starting media resolver server", "port", a.Ctx.Config.Port)
	return a.Server.Start()
}

// NewResolver builds the resolver service with every strategy and rule registered.
// It returns the name of the page backend in use.
func NewResolver(cfg *config.Config, log *logging.Logger) (*services.ResolverService, string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid configuration: %w", err)
	}

	httpClient := httpclient.New(cfg, log)

	launcher, err := NewLauncher(cfg, httpClient, log)
	if err != nil {
		return nil, "", err
	}

	// Register extraction rules
	rules := registry.NewRuleRegistry()
	for _, rule := range extractors.DefaultRules(cfg.ElementWaitTimeout, log) {
		rules.Register(rule)
	}
	log.Info("registered extraction rules", "platforms", rules.Platforms())

	strategyReg := registerStrategies(cfg, httpClient, launcher, rules, log)

	return services.NewResolverService(log, strategyReg, cfg.ResolveTimeout), launcher.Name(), nil
}

// NewLauncher returns the page backend selected by BROWSER_BACKEND.
func NewLauncher(cfg *config.Config, httpClient *httpclient.Client, log *logging.Logger) (interfaces.Launcher, error) {
	switch cfg.BrowserBackend {
	case config.BackendChrome:
		return browser.NewChromeLauncher(browser.ChromeOptions{
			Bin:       cfg.ChromePath,
			WSURL:     cfg.BrowserWSURL,
			NoSandbox: cfg.BrowserNoSandbox,
		}, log), nil
	case config.BackendHTTP:
		return browser.NewStaticLauncher(config.BackendHTTP, httpClient), nil
	case config.BackendFlareSolverr:
		flareClient := flaresolverr.NewClient(cfg.FlareSolverrURL, cfg.FlareSolverrTimeout, log)
		log.Info("FlareSolverr backend enabled", "url", cfg.FlareSolverrURL)
		return browser.NewStaticLauncher(config.BackendFlareSolverr, flareClient), nil
	default:
		return nil, fmt.Errorf("unknown browser backend %q", cfg.BrowserBackend)
	}
}

// registerStrategies routes each platform to its strategy.
// YouTube has a metadata API; every other platform is scraped.
func registerStrategies(
	cfg *config.Config,
	httpClient *httpclient.Client,
	launcher interfaces.Launcher,
	rules *registry.RuleRegistry,
	log *logging.Logger,
) *registry.StrategyRegistry {
	reg := registry.NewStrategyRegistry()

	ytClient := strategies.NewYouTubeClient(httpClient.StdClient(cfg.ResolveTimeout))
	reg.Route(types.PlatformYouTube, strategies.NewYouTubeStrategy(ytClient, cfg.YouTubeResolveCiphered, log))

	reg.SetFallback(strategies.NewBrowserStrategy(launcher, rules, strategies.BrowserOptions{
		UserAgent:         cfg.UserAgent,
		NavigationTimeout: cfg.NavigationTimeout,
		MaxSessions:       cfg.MaxBrowserSessions,
	}, log))

	log.Info("registered strategies", "backend", launcher.Name(), "max_sessions", cfg.MaxBrowserSessions)
	return reg
}
