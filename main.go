package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"ecapbot/bot"
	"ecapbot/credentials"
	"ecapbot/handlers"
	"ecapbot/report"
	"ecapbot/session"
	"ecapbot/utils"
)

const version = "1.0.0"

// openStore builds the configured credential backend and any periodic
// maintenance it needs.
func openStore(cfg utils.Config, sealer credentials.Sealer) (credentials.Store, []func(context.Context), error) {
	if cfg.CredentialBackend == "postgres" {
		dbPool, err := utils.OpenDB(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		store := credentials.NewPostgresStore(dbPool, sealer)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}

		purge := func(ctx context.Context) {
			n, err := store.PurgeExpired(ctx)
			if err != nil {
				log.Printf("[STORE] purge failed: %v", err)
				return
			}
			if n > 0 {
				log.Printf("[STORE] purged %d expired credentials", n)
			}
		}
		return store, []func(context.Context){purge}, nil
	}

	redisPool, err := utils.OpenRedisPool(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return credentials.NewRedisStore(redisPool, sealer), nil, nil
}

func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	log.Println("environment: ", cfg.AppEnv)

	sealer, err := credentials.NewSealer(cfg.CredentialKey)
	if err != nil {
		log.Fatalf("Failed to set up credential encryption: %v", err)
	}

	store, maintenance, err := openStore(cfg, sealer)
	if err != nil {
		log.Fatalf("Failed to connect to %s credential store: %v", cfg.CredentialBackend, err)
	}
	defer store.Close()
	log.Printf("[STORE] using %s backend", cfg.CredentialBackend)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessions := session.NewManager(session.TTL, time.Now)
	go sessions.RunSweeper(ctx, session.SweepInterval, maintenance...)

	fetcher := report.NewClient(cfg.AttendanceAPIURL, cfg.FetchTimeout)
	pipeline := report.NewPipeline(fetcher, time.Now)

	tg, err := bot.NewTelegram(cfg.BotToken)
	if err != nil {
		log.Fatalf("Failed to connect to Telegram: %v", err)
	}
	b := bot.New(sessions, store, pipeline, tg)

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: handlers.NewRouter(handlers.Deps{
			Store:          store,
			Fetcher:        fetcher,
			Started:        time.Now(),
			Version:        version,
			TrustedProxies: cfg.TrustedProxies,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("[HTTP] listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[HTTP] server failed: %v", err)
			stop()
		}
	}()

	log.Println("[BOT] polling for updates")
	if err := tg.Run(ctx, b, cfg.Workers); err != nil {
		log.Printf("[BOT] polling stopped: %v", err)
	}
	log.Println("[BOT] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[HTTP] shutdown: %v", err)
	}
}
