package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"covid-dashboard/src/config"
	"covid-dashboard/src/logger"
)

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "../../config/default.yaml", "path to config file")
	flag.Parse()

	// Load config from YAML file (.env and environment override it)
	conf, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(conf.MConfig, conf.Name)

	// Setup components
	networkManager := setupNetwork(conf.MConfig, appLogger)
	catalog, history := setupDataSources(conf.MConfig, appLogger, networkManager)
	dash, srv := setupDashboard(conf.MConfig, appLogger, catalog, history)
	defer dash.Close()

	// Start servers
	grpcServer := startServers(srv, dash, conf, appLogger)

	// Initial load runs in the background; the page shows "connecting" meanwhile.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := dash.Init(ctx); err != nil {
			appLogger.Error("Initial load failed: %v", err)
		}
	}()

	// Wait for a shutdown signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	received := <-sig
	appLogger.Info("Received %s, shutting down...", received)

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown: %v", err)
	}
	grpcServer.GracefulStop()
	appLogger.Info("Shutdown complete.")
}
