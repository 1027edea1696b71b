package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/folio/internal/api"
	"github.com/spigell/folio/internal/responder"
	"github.com/spigell/folio/internal/scoring"
	"github.com/spigell/folio/internal/views"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "address to listen on (default :8080)")
	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, config := setup()
	defer logger.Sync()

	logger.Info("starting folio", zap.String("version", version))

	items, err := loadCatalog(config, logger)
	if err != nil {
		logger.Fatal("loading catalog", zap.Error(err))
	}

	capability, err := newCapability(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("creating ai capability", zap.Error(err))
	}

	server := api.New(api.Deps{
		Catalog:    items,
		Engine:     scoring.NewEngine(scoring.EntropySource{}, logger),
		Responder:  responder.New(responderConfig(config.AI), nil, logger),
		Capability: capability,
		Views:      views.NewCounter(),
		Logger:     logger,
	}, api.Config{
		CORSAllowedOrigins: config.Server.CORSOrigins,
		RateLimitRequests:  config.Server.RateLimit.Requests,
		RateLimitWindow:    config.Server.RateLimit.Window,
		RateLimitDisabled:  config.Server.RateLimit.Disabled,
		MaxBodyBytes:       config.Server.MaxBodyBytes,
		Version:            version,
	})

	httpServer := &http.Server{
		Addr:         config.Server.Listen,
		Handler:      server.Handler(),
		ReadTimeout:  config.Server.ReadTimeout,
		WriteTimeout: config.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", httpServer.Addr), zap.Bool("ai", capability != nil))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server stopped", zap.Error(err))
		}
		return
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", config.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
