package main

import (
	"context"
	"errors"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vncsmyrnk/pollboard/internal/adapters/cache"
	"github.com/vncsmyrnk/pollboard/internal/adapters/handler/http"
	"github.com/vncsmyrnk/pollboard/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/pollboard/internal/config"
	"github.com/vncsmyrnk/pollboard/internal/core/services"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logrus.Fatal(err)
	}

	log, err := cfg.Logger()
	if err != nil {
		logrus.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.Database.ConnString())
	if err != nil {
		log.WithError(err).Fatal("database unavailable")
	}
	defer db.Close()

	pollRepo := postgres.NewPollRepository(db)
	voteRepo := postgres.NewVoteRepository(db)

	pageCache := cache.NewPageCache(cfg.PageCacheTTL, log)

	pollService := services.NewPollService(pollRepo, pageCache, log)
	voteService := services.NewVoteService(pollRepo, voteRepo, pageCache, log)

	handler := http.NewHandler(
		http.NewPollHandler(pollService, pageCache),
		http.NewVoteHandler(voteService),
		http.NewActorMiddleware(cfg.JWTSecret),
	)
	server := &stdhttp.Server{Addr: cfg.HTTPAddr, Handler: handler}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("shutdown failed")
	}
}
