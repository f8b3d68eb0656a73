// Package main provides the entry point for relay-server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/redrabbit/vaultrelay/internal/core/service"
	"github.com/redrabbit/vaultrelay/internal/infra/buildinfo"
	"github.com/redrabbit/vaultrelay/internal/infra/confloader"
	"github.com/redrabbit/vaultrelay/internal/infra/shutdown"
	"github.com/redrabbit/vaultrelay/internal/server/config"
	"github.com/redrabbit/vaultrelay/internal/server/httpserver"
	"github.com/redrabbit/vaultrelay/internal/storage/memory"
	"github.com/redrabbit/vaultrelay/internal/telemetry/logger"
	"github.com/redrabbit/vaultrelay/internal/telemetry/metric"
)

const (
	shutdownTimeout = 30 * time.Second
	janitorInterval = 5 * time.Minute
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse command line flags
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		dotEnvFile  = flag.String("env-file", ".env", "Path to .env file (ignored if missing)")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	// Show version and exit
	if *showVersion {
		fmt.Println("relay-server " + buildinfo.String())
		return nil
	}

	// Load configuration
	loader := newLoader(*configFile, *dotEnvFile)
	cfg, err := loadConfig(loader)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Initialize logger
	log := logger.Setup(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})

	log.Info("starting relay-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"sources", loader.Sources())
	log.Debug("effective configuration", "config", config.Sanitize(cfg))

	// Storage and background sweep
	store := memory.New(
		memory.WithMessageTTL(cfg.Relay.MessageTTL),
		memory.WithMaxMessagesPerVault(cfg.Relay.MaxMessagesPerVault),
		memory.WithMaxAckBatch(cfg.Relay.MaxAckBatch),
		memory.WithShardCount(cfg.Relay.ShardCount),
	)

	metrics := metric.New()
	if err := metrics.Register(metric.NewCollector(store)); err != nil {
		return fmt.Errorf("register store metrics: %w", err)
	}

	sweeper := memory.NewSweeper(store, cfg.Relay.SweepInterval,
		memory.WithSweepLogger(log.With("component", "sweeper")),
		memory.WithSweepObserver(metrics),
	)
	sweeper.Start()

	// HTTP surface
	limiters := httpserver.NewLimiters(cfg.RateLimit)
	router := httpserver.NewRouter(&httpserver.RouterConfig{
		RelayService:       service.NewRelayService(store),
		Sweeper:            sweeper,
		Metrics:            metrics,
		Limiters:           limiters,
		Logger:             log,
		CORSAllowedOrigins: cfg.CORS.AllowedOrigins,
		AdminToken:         cfg.Security.AdminToken,
		MaxBodyBytes:       cfg.Server.HTTP.MaxBodyBytes,
		TrustProxyHeaders:  cfg.Server.HTTP.TrustProxyHeaders,
		EnableAudit:        true,
	})
	httpServer := httpserver.New(cfg.Server.HTTP, router)

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	go limiters.RunJanitor(janitorCtx, janitorInterval, log)

	// Setup graceful shutdown
	shutdownHandler := shutdown.NewHandler(shutdownTimeout, log)

	// Register shutdown hooks (reverse order of startup)
	shutdownHandler.OnShutdown("sweeper", func(context.Context) error {
		log.Info("stopping sweeper")
		return sweeper.Close()
	})
	shutdownHandler.OnShutdown("rate-limit-janitor", func(context.Context) error {
		stopJanitor()
		return nil
	})

	if watcher := watchConfig(loader, log); watcher != nil {
		shutdownHandler.OnShutdown("config-watcher", func(context.Context) error {
			return watcher.Stop()
		})
	}

	shutdownHandler.OnShutdown("http", func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return httpServer.Shutdown(ctx)
	})

	// Start HTTP server in goroutine
	go func() {
		log.Info("HTTP server listening",
			"addr", httpServer.Addr(),
			"tls", httpServer.TLSEnabled())

		if err := httpServer.Start(); err != nil {
			log.Error("HTTP server error", "error", err)
			shutdownHandler.Trigger("http server error")
		}
	}()

	// Wait for shutdown signal
	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// newLoader builds the configuration loader for the given sources.
func newLoader(configFile, dotEnvFile string) *confloader.Loader {
	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}
	if dotEnvFile != "" {
		opts = append(opts, confloader.WithDotEnv(dotEnvFile))
	}
	return confloader.NewLoader(opts...)
}

// loadConfig loads configuration over the defaults and validates it.
func loadConfig(loader *confloader.Loader) (*config.ServerConfig, error) {
	cfg := config.Default()

	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// watchConfig reloads the config file on change and applies the log level.
// Other settings take effect on restart. It returns nil when there is no
// file to watch.
func watchConfig(loader *confloader.Loader, log *slog.Logger) *confloader.Watcher {
	path := loader.FilePath()
	if path == "" {
		return nil
	}

	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		log.Warn("config watcher unavailable", "error", err)
		return nil
	}
	if err := watcher.Watch(path); err != nil {
		log.Warn("config watcher unavailable", "path", path, "error", err)
		_ = watcher.Stop()
		return nil
	}

	watcher.OnChange(func(string) {
		cfg := config.Default()
		if err := loader.Reload(cfg); err != nil {
			log.Warn("config reload failed", "error", err)
			return
		}
		if err := config.Verify(cfg); err != nil {
			log.Warn("config reload rejected", "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level changed", "level", logger.GetLevel())
		}
	})
	watcher.StartAsync()

	return watcher
}
