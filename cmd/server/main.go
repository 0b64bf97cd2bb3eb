package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"recipesnap/internal/bootstrap"
	"recipesnap/internal/platform/logger"
	httptransport "recipesnap/internal/transport/http"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New()
	if err != nil {
		log.Fatal().Err(err).Msg("bootstrap failed")
	}
	logger.Setup(app.Config.Log)

	// Models load in the background; until they are published the
	// handlers answer 503 and /health reports models_loaded=false.
	loaded := make(chan struct{})
	go func() {
		defer close(loaded)
		app.LoadModels(ctx)
	}()

	router := httptransport.NewRouter(app)
	server := &http.Server{
		Addr:              app.Config.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: app.Config.ReadHeaderTimeout(),
		WriteTimeout:      app.Config.WriteTimeout(),
	}

	go func() {
		log.Info().Str("addr", server.Addr).Str("env", app.Config.App.Env).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.ShutdownTimeout())
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	// The registry is only published once loading returns.
	select {
	case <-loaded:
	case <-shutdownCtx.Done():
	}
	if err := app.Close(); err != nil {
		log.Error().Err(err).Msg("close resources failed")
	}
}
