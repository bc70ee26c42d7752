// Package app wires configuration, storage, services and the HTTP server
// into one process.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	multierror "github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/sohamroyc/Api-directory/internal/auth"
	"github.com/sohamroyc/Api-directory/internal/config"
	"github.com/sohamroyc/Api-directory/internal/controller"
	"github.com/sohamroyc/Api-directory/internal/discovery"
	"github.com/sohamroyc/Api-directory/internal/domain"
	"github.com/sohamroyc/Api-directory/internal/favorites"
	"github.com/sohamroyc/Api-directory/internal/httpserver"
	"github.com/sohamroyc/Api-directory/internal/httpserver/deps"
	"github.com/sohamroyc/Api-directory/internal/index"
	"github.com/sohamroyc/Api-directory/internal/logger"
	"github.com/sohamroyc/Api-directory/internal/metrics"
	"github.com/sohamroyc/Api-directory/internal/redis"
	"github.com/sohamroyc/Api-directory/internal/scheduler"
	"github.com/sohamroyc/Api-directory/internal/store"
	leveldbstore "github.com/sohamroyc/Api-directory/internal/store/leveldb"
	memorystore "github.com/sohamroyc/Api-directory/internal/store/memory"
	redisstore "github.com/sohamroyc/Api-directory/internal/store/redis"
	"github.com/sohamroyc/Api-directory/internal/version"
)

type App struct {
	cfg        *config.Config
	logger     logger.Logger
	server     *httpserver.Server
	controller *controller.Controller
	applier    *scheduler.SummaryApplier
	closers    []closer
}

type closer struct {
	name  string
	close func() error
}

// backend is the opened persisted store.
type backend struct {
	kv      store.KV
	closers []closer
}

// New loads the configuration, opens the store, restores the persisted state
// and builds the HTTP server. Nothing is served until Run.
func New() (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)
	m := metrics.New()

	ctx := context.Background()

	be, err := openStore(ctx, cfg, loggerClient)
	if err != nil {
		return nil, err
	}
	a := &App{cfg: cfg, logger: loggerClient, closers: be.closers}

	state := store.NewState(be.kv)
	memIndex := index.NewMemoryIndex()
	book := favorites.New(state)
	accounts := auth.New(state, book, loggerClient, m)

	gen, err := discovery.NewGemini(ctx, cfg.GeminiAPIKey)
	switch {
	case errors.Is(err, domain.ErrDiscoveryUnavailable):
		loggerClient.Warn("no Gemini API key configured, discovery disabled")
	case err != nil:
		_ = a.closeAll()
		return nil, err
	}
	disc := discovery.New(gen, discovery.Options{
		Model:          cfg.GeminiModel,
		Count:          cfg.DiscoveryCount,
		SearchGrounded: cfg.SearchGrounding,
	}, loggerClient, m)

	// Catalog, sources and session must be in memory before serving.
	syncer := scheduler.NewStateSyncer(state, memIndex, accounts, cfg.SeedFile, loggerClient, m)
	if err := syncer.Sync(ctx); err != nil {
		_ = a.closeAll()
		return nil, fmt.Errorf("failed to restore persisted state: %w", err)
	}

	a.applier = scheduler.NewSummaryApplier(state, memIndex, loggerClient)
	a.controller = controller.New(controller.Deps{
		State:      state,
		Index:      memIndex,
		Accounts:   accounts,
		Favorites:  book,
		Discoverer: disc,
		Summaries:  a.applier,
		Logger:     loggerClient,
		Metrics:    m,
	}, cfg.SummarizeFirst)
	if err := a.controller.Restore(ctx); err != nil {
		_ = a.closeAll()
		return nil, fmt.Errorf("failed to restore view: %w", err)
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		AllowedHosts:   cfg.AllowedHosts,
		AllowedCIDRS:   cfg.AllowedCIDRS,
		TrustProxy:     cfg.TrustProxy,
		RequestTimeout: cfg.RequestTimeout,
		AuthRateLimit:  cfg.AuthRateLimit,
		Controller:     a.controller,
		Index:          memIndex,
		Store:          state,
		StoreBackend:   cfg.Store,
		StoreKeys:      state,
		Discovery:      disc,
		Metrics:        m,
	}
	a.server = httpserver.New(cfg, loggerClient, d)

	return a, nil
}

func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (backend, error) {
	switch cfg.Store {
	case config.StoreRedis:
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return backend{}, fmt.Errorf("failed to connect to redis: %w", err)
		}
		kv := redisstore.NewKV(client)
		return backend{kv: kv, closers: []closer{{name: "redis", close: client.Close}}}, nil

	case config.StoreLevelDB:
		kv, err := leveldbstore.Open(cfg.LevelDBPath)
		if err != nil {
			return backend{}, err
		}
		log.Info("LevelDB store opened", logger.String("path", cfg.LevelDBPath))
		return backend{kv: kv, closers: []closer{{name: "leveldb", close: kv.Close}}}, nil

	default:
		log.Warn("using the in-memory store, nothing survives a restart")
		return backend{kv: memorystore.New()}, nil
	}
}

// Run serves until SIGINT/SIGTERM or a server failure, then shuts down.
func (a *App) Run() error {
	a.logger.Infof("🚀 Starting API directory v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("API directory %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The applier outlives the signal so queued summaries are flushed on Stop.
	a.applier.Start(context.Background())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := a.server.Start(); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("⏳ Shutting down gracefully...")
		return a.shutdown()
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.logger.Info("✅ API directory stopped cleanly")
	return nil
}

// shutdown stops the server, flushes pending summaries and closes the
// store. Every step runs; failures are collected.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	var result *multierror.Error
	if err := a.server.Stop(shutdownCtx); err != nil {
		result = multierror.Append(result, fmt.Errorf("failed to stop server: %w", err))
	}
	if err := a.controller.WaitSummaries(shutdownCtx); err != nil {
		a.logger.Warn("background summaries still running at shutdown", logger.Error(err))
	}
	a.applier.Stop()

	if err := a.closeAll(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

func (a *App) closeAll() error {
	var result *multierror.Error
	for _, c := range a.closers {
		if err := c.close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to close %s: %w", c.name, err))
			continue
		}
		a.logger.Infof("✅ %s closed cleanly", c.name)
	}
	a.closers = nil
	return result.ErrorOrNil()
}
