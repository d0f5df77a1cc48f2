package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bizdesk/internal/config"
	httpx "bizdesk/internal/http"
	"bizdesk/internal/logging"
	"bizdesk/internal/services/crm"
	"bizdesk/internal/services/data"
	"bizdesk/internal/services/payment"
	"bizdesk/internal/services/tenant"
	"bizdesk/internal/store/cache"
	"bizdesk/internal/store/memory"
	"bizdesk/internal/store/postgres"
	"bizdesk/internal/store/repositories"

	"github.com/rs/zerolog/log"
)

type stores struct {
	tenants  repositories.TenantRepository
	clients  repositories.ClientRepository
	cases    repositories.CaseRepository
	payments repositories.PaymentRepository
	uow      repositories.UnitOfWork
}

func main() {
	cfg := config.Load()
	logging.Setup(cfg.App.Env, cfg.Log.Level)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init storage
	var st stores
	if cfg.DB.DSN == config.MemoryDSN {
		log.Warn().Msg("using in-memory store; data is lost on exit")
		mem := memory.New()
		st = stores{mem.Tenants(), mem.Clients(), mem.Cases(), mem.Payments(), mem.UnitOfWork()}
	} else {
		pool := postgres.MustOpen(ctx, cfg.DB.DSN)
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migrate failed")
		}
		repo := postgres.NewRepo(pool)
		st = stores{repo.Tenants, repo.Clients, repo.Cases, repo.Payments, repo.UoW}
	}

	// List cache
	var listCache cache.Cache = cache.NewMemory(cfg.Redis.CacheTTL)
	if cfg.Redis.Addr != "" {
		rdb := cache.MustOpenRedis(ctx, cfg.Redis.Addr)
		defer rdb.Close()
		listCache = cache.NewRedis(rdb, cfg.Redis.CacheTTL)
	}

	// Services
	dataService := data.NewService(st.clients, st.cases, st.payments, listCache)
	r := httpx.NewRouter(httpx.RouterDependencies{
		Config:         cfg,
		TenantService:  tenant.NewService(st.tenants),
		DataService:    dataService,
		CRMService:     crm.NewService(st.clients, st.cases, dataService),
		PaymentService: payment.NewService(st.payments, st.clients, st.uow, dataService),
		Schemas:        data.NewSchemas(cfg.List.DefaultPageSize, cfg.List.MaxPageSize),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Msgf("bizdesk API listening on :%s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	cancel()
	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	log.Info().Msg("server stopped")
}
