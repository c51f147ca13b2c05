package main

import (
	"fmt"
	"net"

	"covid-dashboard/src/config"
	"covid-dashboard/src/dashboard"
	"covid-dashboard/src/grpc_control"
	"covid-dashboard/src/logger"
	"covid-dashboard/src/server"

	"google.golang.org/grpc"
)

// -----------------------------------------------------------------------------

// startServers starts the HTTP/websocket server and the gRPC control server.
func startServers(
	srv *server.DashboardServer,
	dash *dashboard.Dashboard,
	config *config.Config,
	appLogger *logger.Logger,
) *grpc.Server {

	// 1. Dashboard HTTP server
	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Critical("Server failed: %v", err)
		}
	}()

	// 2. gRPC control server
	addr := fmt.Sprintf("%s:%d", config.GrpcHost, config.GrpcPort)
	controlService := grpc_control.NewControlService(dash, appLogger.Named("ControlService"))
	grpcServer := grpc_control.NewServer(controlService)

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		appLogger.Critical("failed to listen for gRPC on %s: %v", addr, err)
		return grpcServer
	}
	go func() {
		appLogger.Info("Starting gRPC Control Server on %s", addr)
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Critical("failed to serve gRPC: %v", err)
		}
	}()
	return grpcServer
}
