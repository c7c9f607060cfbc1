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

	"github.com/google/uuid"
	"quezon.gov.ph/portal/internal/bootstrap"
	"quezon.gov.ph/portal/internal/config"
	"quezon.gov.ph/portal/internal/server"
	"quezon.gov.ph/portal/pkg/cache"
	"quezon.gov.ph/portal/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var srv *server.Server
	handler, startErr := bootstrap.Guard(func() (http.Handler, error) {
		s, err := build(cfg)
		if err != nil {
			return nil, err
		}
		srv = s
		return s.Handler(), nil
	})
	if startErr != nil {
		log.Printf("startup failed, serving fallback page: %v", startErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
	}

	if srv != nil {
		srv.Start()
	}

	go func() {
		log.Printf("Server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server exited with error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	if srv != nil {
		srv.Stop(shutdownCtx)
	}
	if err := database.Close(); err != nil {
		log.Printf("database close: %v", err)
	}
	log.Println("Bye.")
}

func build(cfg *config.Config) (*server.Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := bootstrap.Migrate(db); err != nil {
			return nil, err
		}
	}
	if cfg.BootstrapAdminID != "" {
		id, err := uuid.Parse(cfg.BootstrapAdminID)
		if err != nil {
			return nil, errors.New("BOOTSTRAP_ADMIN_USER_ID is not a uuid")
		}
		if err := bootstrap.SeedAdminRole(context.Background(), db, id); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	redisClient, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		// runs without cache, rate limits and the live feed
		log.Printf("Redis unavailable: %v", err)
		redisClient = nil
	}

	return server.NewServer(cfg, db, redisClient)
}
