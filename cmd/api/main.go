package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/graveshift/graveshift/internal/adapter"
	"github.com/graveshift/graveshift/internal/api/server"
	"github.com/graveshift/graveshift/internal/config"
	"github.com/graveshift/graveshift/internal/logger"
	"github.com/graveshift/graveshift/internal/migration"
	"github.com/graveshift/graveshift/internal/ownership"
	"github.com/graveshift/graveshift/internal/providers/alchemy"
	"github.com/graveshift/graveshift/internal/providers/dexscreener"
	"github.com/graveshift/graveshift/internal/providers/ethereum"
	"github.com/graveshift/graveshift/internal/providers/ethplorer"
	"github.com/graveshift/graveshift/internal/providers/solana"
	"github.com/graveshift/graveshift/internal/scanner"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "api-server",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting GraveShift API")

	// Initialize adapters
	clock := adapter.NewClock()
	httpClient := adapter.NewHTTPClient(cfg.Scan.HTTPTimeout)

	// Dial EVM RPC nodes
	dialer := adapter.NewEthClientDialer()
	ethereumRPC, err := dialer.Dial(ctx, cfg.Ethereum.EthereumRPCURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to dial Ethereum RPC", zap.Error(err), zap.String("url", cfg.Ethereum.EthereumRPCURL))
	}
	polygonRPC, err := dialer.Dial(ctx, cfg.Ethereum.PolygonRPCURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to dial Polygon RPC", zap.Error(err), zap.String("url", cfg.Ethereum.PolygonRPCURL))
	}

	ethereumClient := ethereum.NewClient(ethereumRPC)
	polygonClient := ethereum.NewClient(polygonRPC)
	defer ethereumClient.Close()
	defer polygonClient.Close()

	// Initialize indexer clients
	ethplorerClient := ethplorer.NewClient(httpClient, cfg.Indexers.EthplorerURL, cfg.Indexers.EthplorerAPIKey)
	alchemyClient := alchemy.NewClient(httpClient, cfg.Indexers.AlchemyURL, cfg.Indexers.AlchemyAPIKey)
	dexscreenerClient := dexscreener.NewClient(httpClient, cfg.Indexers.DexScreenerURL)

	// Initialize Solana RPC client
	solanaRPC := solana.NewHTTPClient(cfg.Solana.RPCURL, solana.WithTimeout(cfg.Scan.HTTPTimeout))

	// Assemble the pipeline
	scan := scanner.NewScanner(
		ethplorerClient,
		alchemyClient,
		dexscreenerClient,
		clock,
		cfg.Scan.EnrichBatchSize,
		cfg.Scan.EnrichConcurrency,
	)
	verifier := ownership.NewVerifier(ethereumClient, polygonClient, alchemyClient)
	builder := migration.NewBuilder(solanaRPC, clock, cfg.Solana.ProgramID, cfg.Solana.MemoProgramID)

	// Create server config
	serverConfig := server.Config{
		Debug:         cfg.Debug,
		Host:          cfg.Server.Host,
		Port:          cfg.Server.Port,
		ReadTimeout:   time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:  time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:   time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ActionVersion: cfg.Solana.ActionVersion,
		SolanaChainID: cfg.Solana.ChainID,
	}

	// Create and start server
	srv := server.New(serverConfig, scan, verifier, builder, clock)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	logger.InfoCtx(shutdownCtx, "Shutting down server...")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.FatalCtx(shutdownCtx, "Server forced to shutdown", zap.Error(err))
	}

	logger.Info("API server stopped")
}
