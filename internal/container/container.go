package container

import (
	"fmt"
	"net/http"

	"go-insight-studio/internal/config"
	"go-insight-studio/internal/factory"
	"go-insight-studio/internal/logger"
	"go-insight-studio/internal/observer"
	"go-insight-studio/internal/predictor"
	"go-insight-studio/internal/repository"
	"go-insight-studio/internal/service"
	"go-insight-studio/internal/storage"
	"go-insight-studio/internal/transport"
	"go-insight-studio/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	predictionClient  predictor.PredictionClient
	reportStore       storage.ReportStore
	sessions          *repository.MemorySessionRepository
	events            *observer.EventPublisher
	metrics           *observer.MetricsObserver
	predictionService service.PredictionService
	handler           http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	components := factory.NewComponentFactory(cfg)

	// Build dependency graph
	predictionClient := components.ClientFactory.CreatePredictionClient()
	reportStore, err := components.StorageFactory.CreateReportStore(factory.StorageType(cfg.ReportStore))
	if err != nil {
		return nil, fmt.Errorf("failed to create report store: %w", err)
	}

	metrics := observer.NewMetricsObserver()
	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(metrics)

	sessions := repository.NewMemorySessionRepository(cfg.SessionTTL)
	predictionService := service.NewPredictionService(predictionClient, events)

	handler := transport.NewHandler(transport.Dependencies{
		Sessions:    sessions,
		Predictions: predictionService,
		Images:      validation.NewImageValidator(),
		Reports:     reportStore,
		Metrics:     metrics,
	}, cfg)

	return &Container{
		predictionClient:  predictionClient,
		reportStore:       reportStore,
		sessions:          sessions,
		events:            events,
		metrics:           metrics,
		predictionService: predictionService,
		handler:           handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// ReportStore returns the configured report archive
func (c *Container) ReportStore() storage.ReportStore {
	return c.reportStore
}

// Shutdown stops accepting events and waits for pending notifications
func (c *Container) Shutdown() {
	c.events.Close()
}
