package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medrekk/internal/account"
	accountrepo "medrekk/internal/account/repository"
	"medrekk/internal/audit"
	auditrepo "medrekk/internal/audit/repository"
	"medrekk/internal/auth"
	"medrekk/internal/config"
	"medrekk/internal/db"
	memberrepo "medrekk/internal/member/repository"
	"medrekk/internal/patient"
	patientrepo "medrekk/internal/patient/repository"
	"medrekk/internal/revocation"
	"medrekk/internal/security"
	"medrekk/internal/server"
	"medrekk/internal/server/middleware"
	"medrekk/internal/telemetry/otel"
	"medrekk/internal/tenant"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "medrekk", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	pool, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	// Redis when configured, in-memory otherwise (single-node dev setups).
	var store revocation.Store
	if cfg.RedisAddr != "" {
		redisStore := revocation.NewRedisStore(cfg.RedisAddr, cfg.RedisDB)
		if err := redisStore.Ping(ctx); err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisStore.Close()
		store = redisStore
	} else {
		log.Println("REDIS_ADDR not set, using in-memory revocation store")
		store = revocation.NewMemoryStore()
	}
	store = revocation.WithTimeout(store, cfg.StoreTimeoutDuration())

	hasher := security.NewHasher(cfg.BcryptCost)
	tokens := security.NewTokenProvider(
		[]byte(cfg.JWTSigningKey), []byte(cfg.TokenDigestKey), cfg.TokenTTL(), store)

	members := memberrepo.NewPostgresRepository(pool)
	accounts := accountrepo.NewPostgresRepository(pool)
	patients := patientrepo.NewPostgresRepository(pool)
	auditLogger := audit.NewLogger(auditrepo.NewPostgresRepository(pool), middleware.ClientIP)

	resolver := tenant.NewResolver(accounts, cfg.RootDomain)
	authSvc := auth.NewService(members, accounts, hasher, tokens, resolver, auditLogger)
	accountSvc := account.NewService(accounts, hasher, auditLogger)
	patientSvc := patient.NewService(patients)

	router := server.NewRouter(server.Deps{
		Tokens:   tokens,
		Resolver: resolver,
		Auth:     authSvc,
		Accounts: accountSvc,
		Patients: patientSvc,
		Members:  members,
		Audit:    auditLogger,
		DB:       pool,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
