package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"monad-explorer/internal/api"
	"monad-explorer/internal/config"
	"monad-explorer/internal/health"
	"monad-explorer/internal/logger"
	"monad-explorer/internal/theme"
	"monad-explorer/internal/wallet"
	"monad-explorer/internal/web"
)

const shutdownTimeout = 30 * time.Second

func main() {
	defer func() {
		if r := recover(); r != nil {
			logger.GetLogger().Error().Interface("panic", r).Msg("Application panicked, recovering")
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", "console")
		logger.GetLogger().Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log := logger.GetLogger()
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := api.NewClient(cfg.API.BaseURL, cfg.API.ApiKey, cfg.API.RateLimit, cfg.API.MaxRetries,
		cfg.API.RetryDelay, cfg.API.Timeout, log)
	defer client.Close()

	if closeCache := attachCache(ctx, cfg.Redis, client, log); closeCache != nil {
		defer closeCache()
	}

	emitter, closeEmitter := newEmitter(cfg.Kafka, log)
	defer closeEmitter()

	provider, closeProvider := newRegistrar(ctx, cfg.Chain.WalletRpcEndpoint, log)
	defer closeProvider()

	params := wallet.NewChainParams(cfg.Chain.ChainID, cfg.Chain.Name,
		wallet.NativeCurrency{
			Name:     cfg.Chain.CurrencyName,
			Symbol:   cfg.Chain.CurrencySymbol,
			Decimals: cfg.Chain.CurrencyDecimals,
		},
		cfg.Chain.RpcURL, cfg.Chain.ExplorerURL)

	checker := health.NewChecker(client, cfg.Health.ProbeInterval, log)
	go checker.Run(ctx)

	server, err := web.NewServer(web.Options{
		Explorer: client,
		Emitter:  emitter,
		Wallet:   wallet.NewRegistration(provider, params, log),
		Theme:    theme.NewState(cfg.UI.DefaultTheme),
		Health:   checker,
		Chain: web.ChainInfo{
			Name:                cfg.Chain.Name,
			Symbol:              cfg.Chain.CurrencySymbol,
			ExternalExplorerURL: cfg.Chain.ExternalExplorerURL,
		},
		Logger: log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create web server")
	}

	httpServer := server.HTTPServer(cfg.HTTP.Addr, cfg.HTTP.ReadTimeout, cfg.HTTP.WriteTimeout)
	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr).Str("api", cfg.API.BaseURL).Msg("Starting explorer")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info().Msg("Shutdown signal received, gracefully shutting down...")
	case err := <-serverErr:
		if err != nil {
			log.Error().Err(err).Msg("HTTP server failed")
		}
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Shutdown timed out, forcing exit")
		return
	}
	log.Info().Msg("Graceful shutdown completed")
}
