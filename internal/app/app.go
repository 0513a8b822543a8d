package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/pnptools/internal/catalog"
	"github.com/MrSnakeDoc/pnptools/internal/config"
	"github.com/MrSnakeDoc/pnptools/internal/httpserver"
	"github.com/MrSnakeDoc/pnptools/internal/httpserver/deps"
	"github.com/MrSnakeDoc/pnptools/internal/logger"
	"github.com/MrSnakeDoc/pnptools/internal/redis"
	"github.com/MrSnakeDoc/pnptools/internal/scheduler"
	"github.com/MrSnakeDoc/pnptools/internal/session"
	"github.com/MrSnakeDoc/pnptools/internal/sources/csvsource"
	"github.com/MrSnakeDoc/pnptools/internal/sources/policy"
	redisstore "github.com/MrSnakeDoc/pnptools/internal/store/redis"
	"github.com/MrSnakeDoc/pnptools/internal/submission"
	"github.com/MrSnakeDoc/pnptools/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	reloader    *scheduler.CatalogReloader
	watcher     *scheduler.CatalogWatcher
	sessionGC   *scheduler.SessionCollector
}

// New wires the catalog, the optional Redis store, the schedulers and the
// HTTP server. Nothing runs until Run.
func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	pol, err := policy.Load(cfg.PolicyFile, cfg.SiteEdition)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}
	normalizer := pol.Normalizer()

	var appender *catalog.Appender
	if !cfg.CatalogIsRemote() {
		appender = catalog.NewAppender(cfg.CatalogFile)
	} else {
		loggerClient.Info("remote catalog configured, submissions will be rejected",
			logger.String("catalog", cfg.CatalogFile))
	}
	svc := catalog.NewService(
		catalog.NewStore(),
		csvsource.NewSource(csvsource.NewLoader(cfg.CatalogFile, nil)),
		appender,
		loggerClient.Named("catalog"),
	)

	sessions := session.NewManager(cfg.SessionTTL, session.WithMaxEntries(cfg.SessionMaxEntries))

	d := deps.Deps{
		Logger:            loggerClient,
		StartTime:         time.Now(),
		Version:           version.Version,
		Commit:            version.Commit,
		BuildDate:         version.BuildDate,
		GoVersion:         version.GoVersion,
		TimeNow:           time.Now,
		AllowedHosts:      cfg.AllowedHosts,
		AllowedCIDRS:      cfg.AllowedCIDRS,
		TrustProxy:        cfg.TrustProxy,
		RootDir:           cfg.RootDir,
		BasePath:          cfg.BasePath,
		Catalog:           svc,
		Normalizer:        normalizer,
		Validator:         pol.Validator(normalizer),
		Sessions:          sessions,
		StrictSubmissions: cfg.StrictSubmissions,
		MaxBodyBytes:      cfg.MaxBodyBytes,
		SubmitRateBurst:   cfg.SubmitRateBurst,
		SubmitRatePerMin:  cfg.SubmitRatePerMin,
		ReloadTrigger:     make(chan struct{}, 1),
	}

	var (
		redisClient *goredis.Client
		syncer      *scheduler.DuplicateSyncer
	)
	if cfg.RedisEnabled() {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		redisClient, err = redis.New(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient.Named("redis"))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		loggerClient.Info("Redis initialized successfully")

		store := redisstore.NewStore(redisClient, normalizer, submission.DefaultRecentLimit)
		syncer = scheduler.NewDuplicateSyncer(store, svc.Store(), loggerClient.Named("redis"))
		d.Shared = store
		d.Recent = store
	} else {
		loggerClient.Info("redis not configured, duplicates are checked per instance")
		d.Recent = submission.NewMemoryLog(submission.DefaultRecentLimit)
	}

	schedLog := loggerClient.Named("scheduler")
	a := &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      httpserver.New(cfg, loggerClient, d),
		redisClient: redisClient,
		reloader:    scheduler.NewCatalogReloader(svc, syncer, schedLog, cfg.ReloadInterval, d.ReloadTrigger),
		sessionGC:   scheduler.NewSessionCollector(sessions, schedLog, cfg.SessionGCInterval),
	}
	if appender != nil && cfg.WatchCatalog {
		a.watcher = scheduler.NewCatalogWatcher(cfg.CatalogFile, d.ReloadTrigger, scheduler.DefaultWatchDebounce, schedLog)
	}
	return a, nil
}

// Run loads the catalog, starts the background jobs and serves until ctx
// is cancelled or SIGINT/SIGTERM arrives.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting pnptools v%s on %s", version.Version, a.cfg.ListenAddr)
	a.logger.Infof("pnptools %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start catalog reloader: %w", err)
	}
	defer a.reloader.Stop()
	a.logger.Info("catalog reloader started",
		logger.Duration("interval", a.cfg.ReloadInterval))

	if a.watcher != nil {
		if err := a.watcher.Start(ctx); err != nil {
			a.logger.Warn("catalog watcher disabled", logger.Error(err))
		} else {
			defer a.watcher.Stop()
			a.logger.Info("catalog watcher started",
				logger.String("file", a.cfg.CatalogFile))
		}
	}

	a.sessionGC.Start(ctx)
	defer a.sessionGC.Stop()

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

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := a.server.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop server: %w", err)
		}
		return nil
	})
	err := g.Wait()

	if a.redisClient != nil {
		if cerr := a.redisClient.Close(); cerr != nil {
			a.logger.Warnf("failed to close redis: %v", cerr)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	if err != nil {
		return err
	}
	a.logger.Info("✅ pnptools stopped cleanly")
	return nil
}
