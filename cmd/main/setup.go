package main

import (
	"covid-dashboard/src/charts"
	"covid-dashboard/src/dashboard"
	datasource "covid-dashboard/src/data_source"
	"covid-dashboard/src/data_source/covid19api"
	"covid-dashboard/src/data_source/disease"
	"covid-dashboard/src/data_source/synthetic"
	"covid-dashboard/src/helpers"
	"covid-dashboard/src/interfaces"
	"covid-dashboard/src/logger"
	"covid-dashboard/src/models"
	"covid-dashboard/src/network"
	"covid-dashboard/src/server"
)

// -----------------------------------------------------------------------------

// setupNetwork initializes the network manager
func setupNetwork(config *models.MConfig, appLogger *logger.Logger) interfaces.INetworkManager {
	return network.NewNetworkManager(config, appLogger.Named("NetworkManager"))
}

// -----------------------------------------------------------------------------

// setupDataSources builds the country catalog (disease.sh first, covid19api as fallback)
// and the historical source with its synthetic fallback.
func setupDataSources(
	config *models.MConfig,
	appLogger *logger.Logger,
	networkManager interfaces.INetworkManager,
) (*datasource.CountryCatalog, *disease.HistoricalSource) {
	appLogger.Info("Initializing data sources...")
	random := helpers.SystemRandom{}

	primary := disease.NewCountriesSource(config, networkManager, appLogger.Named("DiseaseSh"))
	fallback := covid19api.NewSummarySource(config, networkManager, appLogger.Named("Covid19Api"))
	catalog := datasource.NewCountryCatalog(primary, fallback, random, appLogger.Named("CountryCatalog"))

	generator := synthetic.NewGenerator(random)
	history := disease.NewHistoricalSource(config, networkManager, generator, appLogger.Named("HistoricalSource"))

	appLogger.Info("Snapshot sources: %s -> %s", primary.Name(), fallback.Name())
	return catalog, history
}

// -----------------------------------------------------------------------------

// setupDashboard wires the controller to the renderer and the HTTP/websocket server.
func setupDashboard(
	config *models.MConfig,
	appLogger *logger.Logger,
	catalog interfaces.ICountryCatalog,
	history interfaces.IHistoricalSource,
) (*dashboard.Dashboard, *server.DashboardServer) {
	renderer := charts.NewPNGRenderer(config, appLogger.Named("ChartRenderer"))
	dash := dashboard.NewDashboard(config, catalog, history, renderer, appLogger)

	srv := server.NewDashboardServer(config, appLogger.Named("DashboardServer"))
	srv.SetDashboard(dash)
	dash.SetExchanger(srv)
	return dash, srv
}
