package factory

import (
	"fmt"

	"go-insight-studio/internal/config"
	"go-insight-studio/internal/predictor"
	"go-insight-studio/internal/storage"
)

// StorageType represents different report archive backends
type StorageType string

const (
	// MemoryStorage keeps reports in process memory
	MemoryStorage StorageType = "memory"
	// AzureStorage archives reports in Azure Blob Storage
	AzureStorage StorageType = "azure"
	// NoStorage disables archiving
	NoStorage StorageType = "none"
)

// StorageFactory creates report stores
type StorageFactory interface {
	CreateReportStore(storageType StorageType) (storage.ReportStore, error)
}

// ClientFactory creates prediction clients
type ClientFactory interface {
	CreatePredictionClient() predictor.PredictionClient
}

// storageFactory implements StorageFactory
type storageFactory struct {
	cfg *config.Config
}

// NewStorageFactory creates a new storage factory
func NewStorageFactory(cfg *config.Config) StorageFactory {
	return &storageFactory{cfg: cfg}
}

// CreateReportStore creates a report store based on the specified type
func (f *storageFactory) CreateReportStore(storageType StorageType) (storage.ReportStore, error) {
	switch storageType {
	case MemoryStorage:
		return storage.NewMemoryReportStore(), nil
	case AzureStorage:
		if f.cfg.AzureStorageAccount == "" || f.cfg.AzureStorageKey == "" {
			return nil, fmt.Errorf("azure storage requires an account name and key")
		}
		return storage.NewAzureReportStore(f.cfg.AzureStorageAccount, f.cfg.AzureStorageKey, f.cfg.AzureReportContainer)
	case NoStorage:
		return storage.NewNoopReportStore(), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// clientFactory implements ClientFactory
type clientFactory struct {
	cfg *config.Config
}

// NewClientFactory creates a new client factory
func NewClientFactory(cfg *config.Config) ClientFactory {
	return &clientFactory{cfg: cfg}
}

// CreatePredictionClient creates an HTTP client for the configured backend
func (f *clientFactory) CreatePredictionClient() predictor.PredictionClient {
	return predictor.NewHTTPPredictionClient(f.cfg.PredictionAPIBaseURL)
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	StorageFactory StorageFactory
	ClientFactory  ClientFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory(cfg *config.Config) *ComponentFactory {
	return &ComponentFactory{
		StorageFactory: NewStorageFactory(cfg),
		ClientFactory:  NewClientFactory(cfg),
	}
}
