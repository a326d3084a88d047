package main

import (
	occupancyrepo "tdms/internal/occupancy/repository"
	"tdms/internal/submissions/handler"
	"tdms/internal/submissions/repository"
	"tdms/internal/submissions/service"
	"tdms/pkg/app"
	"tdms/pkg/config"
	"tdms/pkg/kafka"
)

const ServiceName = "submissions"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Submissions service")
	submissionService, producer := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	if producer != nil {
		serverApp.OnShutdown(func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		})
	}
	serverApp.SetApp(
		handler.NewSubmissionHandler(submissionService, cfg.Log, cfg.PaginationMaxLimit),
		handler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.SubmissionService, *kafka.Producer) {
	submissionRepo := repository.NewMongoSubmissionRepository(cfg)
	draftRepo := occupancyrepo.NewMongoDraftRepository(cfg)

	// Events are best effort; without brokers the service runs without a
	// producer and finalization still works.
	var producer *kafka.Producer
	var publisher service.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		p, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			cfg.Log.Error("Failed to initialize Kafka producer, events disabled", "error", err)
		} else {
			producer = p
			publisher = p
			cfg.Log.Info("Kafka producer initialized", "topic", cfg.KafkaTopic)
		}
	} else {
		cfg.Log.Warn("No Kafka brokers configured, events disabled")
	}

	submissionService := service.NewSubmissionService(submissionRepo, draftRepo, publisher, cfg)

	cfg.Log.Info("Submission service initialized", "database", cfg.MongoDatabaseName)
	return submissionService, producer
}
