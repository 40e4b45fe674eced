package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bdf-gateway/internal/audit"
	"bdf-gateway/internal/auth"
	"bdf-gateway/internal/config"
	"bdf-gateway/internal/credentials"
	"bdf-gateway/internal/httpapi"
	"bdf-gateway/internal/throttle"
	"bdf-gateway/pkg/logger"
	"bdf-gateway/pkg/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	store, auditRepo, closeStores, err := openStores(rootCtx, cfg, log)
	if err != nil {
		log.Error("store init failed", "backend", cfg.Store.Backend, "err", err)
		os.Exit(1)
	}
	defer closeStores()

	limiter, closeLimiter, err := openLimiter(rootCtx, cfg)
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer closeLimiter()

	guard, err := credentials.NewTimingGuard(cfg.Store.BcryptCost)
	if err != nil {
		log.Error("timing guard init failed", "err", err)
		os.Exit(1)
	}

	auditSvc := audit.NewService(auditRepo)
	gate := auth.NewGate(tokens, auditSvc)
	r := newRouter(routerDeps{
		Log:      log,
		Gate:     gate,
		Handlers: httpapi.Handlers{Auth: auth.NewAuthorizer(store, tokens, guard, auditSvc)},
		Limiter:  limiter,
	})

	// Binding failures are fatal at startup and never surface per request.
	ln, err := net.Listen("tcp", cfg.HTTPAddr())
	if err != nil {
		log.Error("socket not available", "addr", cfg.HTTPAddr(), "err", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening",
			"addr", ln.Addr().String(),
			"env", cfg.App.Env,
			"store", cfg.Store.Backend,
			"throttle", limiter != nil,
		)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
	gate.Close()
}

// openStores builds the credential store and audit repository for the configured backend.
func openStores(ctx context.Context, cfg config.Config, log *slog.Logger) (credentials.Store, audit.Repository, func(), error) {
	if !cfg.UsesPostgres() {
		store, err := credentials.NewMemoryStoreFromSeeds(cfg.Store.BcryptCost, credentials.DefaultSeeds()...)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, audit.NewMemoryRepo(), func() {}, nil
	}

	db, err := utils.OpenPostgres(ctx, cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		return nil, nil, nil, err
	}
	closeDB := func() { _ = db.Close() }

	store := credentials.NewPostgresStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		closeDB()
		return nil, nil, nil, err
	}
	if !cfg.IsProduction() {
		records := make([]credentials.Record, 0, len(credentials.DefaultSeeds()))
		for _, s := range credentials.DefaultSeeds() {
			rec, err := credentials.HashSeed(s, cfg.Store.BcryptCost)
			if err != nil {
				closeDB()
				return nil, nil, nil, err
			}
			records = append(records, rec)
		}
		n, err := store.Seed(ctx, records)
		if err != nil {
			closeDB()
			return nil, nil, nil, err
		}
		log.Info("credential seed applied", "inserted", n)
	}

	auditRepo := audit.NewPostgresRepo(db)
	if err := auditRepo.EnsureSchema(ctx); err != nil {
		closeDB()
		return nil, nil, nil, err
	}
	return store, auditRepo, closeDB, nil
}

// openLimiter returns a nil limiter when Redis is not configured.
func openLimiter(ctx context.Context, cfg config.Config) (*throttle.Limiter, func(), error) {
	if !cfg.ThrottleEnabled() {
		return nil, func() {}, nil
	}
	rdb, err := utils.OpenRedis(ctx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		return nil, nil, err
	}
	l, err := throttle.NewLimiter(rdb, cfg.Throttle.LoginLimit, cfg.Throttle.LoginWindow)
	if err != nil {
		_ = rdb.Close()
		return nil, nil, err
	}
	return l, func() { _ = rdb.Close() }, nil
}
