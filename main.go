package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/joannatufkova/mindset/internal/config"
	"github.com/joannatufkova/mindset/internal/httpserver"
	"github.com/joannatufkova/mindset/internal/store"
	"github.com/joannatufkova/mindset/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	if cfg.InsecureTokenSecret() {
		log.Warn().Msg("TOKEN_SECRET not set; using the development secret")
	}

	st, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open session store")
	}
	defer st.Close()

	tokens, err := token.NewIssuer(cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create token issuer")
	}

	srv := httpserver.New(httpserver.Options{
		Store:        st,
		Tokens:       tokens,
		Rule:         cfg.Rule,
		DailySalt:    cfg.DailySalt,
		ClientOrigin: cfg.ClientOrigin,
	})
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Str("rule", string(cfg.Rule)).Msg("starting go-server")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

func openStore(cfg config.Config) (store.Store, error) {
	if cfg.StoreDriver == "sqlite" {
		return store.OpenSQLite(cfg.DBPath)
	}
	return store.NewMemoryStore(), nil
}
