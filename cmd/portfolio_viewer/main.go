package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"portfolio_viewer/internal/app/service"
	"portfolio_viewer/internal/client"
	"portfolio_viewer/internal/infrastructure/configloader"
	evmclient "portfolio_viewer/internal/infrastructure/network/client"
	networkdefinition "portfolio_viewer/internal/infrastructure/network/definition"
	"portfolio_viewer/internal/infrastructure/restapi"
	"portfolio_viewer/internal/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// .env files are optional; real environment variables win.
	_ = godotenv.Load(".env.local", ".env")

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.yml"
	}
	cfg, err := configloader.Load(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load configuration", "path", cfgPath, "error", err)
	}

	zapLogger, err := logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		logger.Fatal("Failed to initialize logger", "error", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	if err := cfg.Validate(); err != nil {
		zapLogger.Fatal("Invalid configuration", zap.Error(err))
	}
	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath), zap.String("network", cfg.Network))

	if strings.EqualFold(cfg.Logging.Level, "debug") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewSlogAdapter()
	networks := networkdefinition.NewNetworkDefinitionProvider(appLogger)
	netDef, ok := networks.GetNetworkDefinitionByName(cfg.Network)
	if !ok {
		zapLogger.Fatal("Unsupported network", zap.String("network", cfg.Network))
	}

	initCtx, cancelInit := context.WithTimeout(context.Background(), cfg.RPC.ConnectTimeout())
	alchemyClient, err := client.NewAlchemyClient(
		initCtx,
		cfg.AlchemyEndpoint(netDef.AlchemyNetwork),
		cfg.Alchemy.RequestTimeout(),
		cfg.Alchemy.PageSize,
		zapLogger,
	)
	cancelInit()
	if err != nil {
		zapLogger.Fatal("Failed to create Alchemy client", zap.Error(err))
	}
	defer alchemyClient.Close()

	coinGeckoClient := client.NewCoinGeckoClient(
		cfg.CoinGecko.BaseURL,
		cfg.CoinGecko.APIKey,
		cfg.CoinGecko.APIKeyHeader,
		cfg.CoinGecko.RequestTimeout(),
		zapLogger,
	)

	evmClient, err := evmclient.NewEVMClient(netDef, cfg.RPCURLs(), cfg.RPC.ConnectTimeout(), cfg.RPC.CallTimeout())
	if err != nil {
		zapLogger.Fatal("Failed to connect to verification node", zap.Error(err))
	}
	defer evmClient.Close()

	portfolioSvc := service.NewPortfolioService(
		service.NewBalanceService(alchemyClient, netDef, appLogger),
		service.NewMetadataService(alchemyClient, netDef, appLogger),
		service.NewTokenPriceService(coinGeckoClient, netDef, service.NewTokenPriceServiceConfig(cfg), appLogger),
		service.NewVerificationService(evmClient, netDef, appLogger),
		service.NewPortfolioServiceConfig(cfg),
		appLogger,
	)

	handler := restapi.NewPortfolioHandler(portfolioSvc, cfg.Portfolio.DefaultMaxTokens, zapLogger)
	router := restapi.SetupRouter(handler, zapLogger, restapi.RouterOptions{EnablePprof: cfg.Server.EnablePprof})

	srv := &http.Server{
		Addr:         ":" + strings.TrimPrefix(cfg.Server.Port, ":"),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout(),
		WriteTimeout: cfg.Server.WriteTimeout(),
		IdleTimeout:  cfg.Server.IdleTimeout(),
	}

	go func() {
		zapLogger.Info("Server starting", zap.String("addr", srv.Addr), zap.String("network", netDef.Name))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}
