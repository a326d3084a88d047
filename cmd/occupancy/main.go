package main

import (
	"tdms/internal/occupancy/handler"
	"tdms/internal/occupancy/repository"
	"tdms/internal/occupancy/service"
	"tdms/internal/occupancy/validator"
	"tdms/pkg/app"
	"tdms/pkg/config"
)

const ServiceName = "occupancy"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Occupancy service")
	ledgerService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.OnShutdown(ledgerService.Close)
	serverApp.SetApp(
		handler.NewOccupancyHandler(ledgerService, cfg.Log),
		handler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config) service.LedgerService {
	stayValidator := validator.NewStayValidator(cfg.Log, cfg.MaxStayNights, cfg.MaxRoomNumber)
	draftRepo := repository.NewMongoDraftRepository(cfg)
	ledgerService := service.NewLedgerService(draftRepo, stayValidator, cfg)

	cfg.Log.Info("Ledger service initialized", "database", cfg.MongoDatabaseName)
	return ledgerService
}
