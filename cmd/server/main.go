package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/dailyenglish/internal/api"
	"github.com/vytor/dailyenglish/internal/cache"
	"github.com/vytor/dailyenglish/internal/config"
	"github.com/vytor/dailyenglish/internal/db"
	"github.com/vytor/dailyenglish/internal/jobs"
	"github.com/vytor/dailyenglish/internal/logger"
	"github.com/vytor/dailyenglish/internal/logicalday"
	"github.com/vytor/dailyenglish/internal/repository"
	"github.com/vytor/dailyenglish/internal/repository/postgres"
	"github.com/vytor/dailyenglish/internal/repository/sqlite"
	"github.com/vytor/dailyenglish/internal/services"
	"github.com/vytor/dailyenglish/internal/worker"
)

// remoteBackend is the opened remote store plus what main needs to probe and
// release it.
type remoteBackend struct {
	store repository.Store
	ping  func(ctx context.Context) error
	close func()
}

func openRemote(ctx context.Context, cfg config.Config) (*remoteBackend, error) {
	switch cfg.RemoteBackend {
	case config.BackendSQLite:
		database, err := db.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return &remoteBackend{
			store: sqlite.NewStore(database.DB),
			ping:  database.PingContext,
			close: func() { _ = database.Close() },
		}, nil
	case config.BackendPostgres:
		pool, err := db.OpenPostgres(ctx, cfg.PostgresDSN, cfg.PostgresMaxConns)
		if err != nil {
			return nil, err
		}
		return &remoteBackend{store: postgres.NewStore(pool), ping: pool.Ping, close: pool.Close}, nil
	case config.BackendNone:
		return nil, nil
	}
	return nil, fmt.Errorf("unknown remote backend %q", cfg.RemoteBackend)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration: %v", err)
		os.Exit(1)
	}

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Error("invalid timezone: %v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("DailyEnglish Server Starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("remote_backend=%s", cfg.RemoteBackend)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("cache_dir=%s", cfg.CacheDir)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("sync_worker_count=%d", cfg.SyncWorkerCount)
	log.Debug("sync_queue_size=%d", cfg.SyncQueueSize)
	log.Debug("sync_max_attempts=%d", cfg.SyncMaxAttempts)
	log.Debug("session_idle_timeout=%s", cfg.SessionIdleTimeout)
	log.Debug("timezone=%s", loc)
	log.Debug("study_tick_spec=%s", cfg.StudyTickSpec)

	ctx, cancel := context.WithCancel(logger.NewContext(context.Background(), log))
	defer cancel()

	remote, err := openRemote(ctx, cfg)
	if err != nil {
		log.Error("failed to open remote store: %v", err)
		os.Exit(1)
	}
	if remote != nil {
		defer func() {
			log.Debug("closing remote store")
			remote.close()
		}()
	}

	clock := logicalday.SystemClock{Location: loc}
	syncPool := worker.NewPool("sync", cfg.SyncWorkerCount, cfg.SyncQueueSize)

	sessionCfg := services.SessionConfig{
		Caches:      cache.FileFactory(cfg.CacheDir),
		Clock:       clock,
		IdleTimeout: cfg.SessionIdleTimeout,
	}
	srv := &api.Server{}
	var summaries repository.SummaryRepository
	if remote != nil {
		feed := repository.NewFeed(remote.store)
		sessionCfg.Remote = feed
		sessionCfg.Queue = jobs.NewWorkerQueue(syncPool, feed, cfg.SyncMaxAttempts, cfg.SyncRetryBase)
		summaries = feed
		srv.Ready = remote.ping
	} else {
		log.Warn("no remote backend configured, every session is local-only")
	}

	sessions := services.NewSessionService(sessionCfg)
	srv.Sessions = sessions
	srv.Progress = services.NewProgressService(summaries, clock, nil)

	syncPool.Start(ctx)

	scheduler := jobs.NewScheduler(loc, cfg.StudyTickSpec, sessions)
	if err := scheduler.Start(ctx); err != nil {
		log.Error("failed to start scheduler: %v", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping scheduler")
	scheduler.Stop()

	log.Debug("closing %d sessions", len(sessions.OpenSessions()))
	sessions.CloseAll()

	// Drains queued remote writes before the store closes.
	log.Debug("stopping sync pool")
	syncPool.Stop()
	cancel()

	log.Info("===========================================")
	log.Info("DailyEnglish Server Stopped")
	log.Info("===========================================")
}
