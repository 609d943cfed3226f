package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/LeventeLantos/chat-compose/internal/api"
	"github.com/LeventeLantos/chat-compose/internal/cache"
	"github.com/LeventeLantos/chat-compose/internal/client"
	"github.com/LeventeLantos/chat-compose/internal/config"
	"github.com/LeventeLantos/chat-compose/internal/model"
	"github.com/LeventeLantos/chat-compose/internal/service"
	"github.com/LeventeLantos/chat-compose/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadAll()
	if err != nil {
		log.Fatal(err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.Level})))

	slog.Info("chat app starting",
		"addr", cfg.Server.Address,
		"api", cfg.Remote.BaseURL,
		"redis", cfg.Redis.Enabled,
	)

	if err := run(cfg); err != nil {
		slog.Error("chat app stopped with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mc := client.NewMessagesClient(cfg.Remote.BaseURL, cfg.Remote.Timeout)
	st := store.New()

	opts := []service.Option{
		service.WithObserver(func(m model.Message) {
			slog.Debug("compose slot changed", "id", m.ID, "status", string(m.Status))
		}),
	}
	if cfg.Redis.Enabled {
		rc := cache.NewRedisCache(redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}), cfg.Redis.TTL)
		defer rc.Close()

		opts = append(opts, service.WithJournal(rc))
	}
	composer := service.NewComposer(mc, st, opts...)

	loadCtx, cancel := context.WithTimeout(ctx, cfg.Remote.LoadTimeout)
	if err := st.Load(loadCtx, mc); err != nil {
		slog.Error("initial message load failed", "err", err)
	} else {
		slog.Info("messages loaded", "count", st.Len())
	}
	cancel()

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           api.Router(api.NewHandler(st, composer), loggingMiddleware),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
