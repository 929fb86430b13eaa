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

	"github.com/joho/godotenv"

	"github.com/dasgddadqw231/shindy-backend/internal/config"
	"github.com/dasgddadqw231/shindy-backend/internal/handler"
	"github.com/dasgddadqw231/shindy-backend/internal/model/persona"
	"github.com/dasgddadqw231/shindy-backend/internal/model/resource"
	"github.com/dasgddadqw231/shindy-backend/internal/service/account"
	"github.com/dasgddadqw231/shindy-backend/internal/service/ai"
	"github.com/dasgddadqw231/shindy-backend/internal/service/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	personaStore := persona.NewMemoryStore(persona.Seed())
	resourceStore := resource.NewMemoryStore(resource.Seed())
	accounts := account.NewService(cfg.Engine.WelcomeCoins)

	var aiSvc *ai.Service
	if cfg.AI.Enabled() {
		aiSvc, err = ai.NewService(ctx, cfg.AI, cfg.Engine.HistoryLimit)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing without AI - coach replies will use the fallback text")
		} else {
			log.Println("AI service initialized successfully")
		}
	} else {
		log.Println("ark credentials not configured, coach replies will use the fallback text")
	}

	var provider session.ReplyProvider
	if aiSvc != nil {
		provider = aiSvc
	}
	sessions := session.NewManager(provider, ai.BuildInstruction, cfg.Engine.FallbackText)

	router := handler.NewRouter(accounts, personaStore, resourceStore, sessions, aiSvc)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Shindy backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
