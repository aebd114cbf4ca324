package factory

import (
	"testing"

	"go-insight-studio/internal/config"
	"go-insight-studio/internal/predictor"
)

func TestCreateReportStore(t *testing.T) {
	f := NewStorageFactory(&config.Config{})

	tests := []struct {
		storageType StorageType
		wantName    string
		wantErr     bool
	}{
		{MemoryStorage, "memory", false},
		{NoStorage, "none", false},
		{AzureStorage, "", true},
		{StorageType("s3"), "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.storageType), func(t *testing.T) {
			store, err := f.CreateReportStore(tt.storageType)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if store.Name() != tt.wantName {
				t.Errorf("Expected %s store, got %s", tt.wantName, store.Name())
			}
		})
	}
}

func TestCreatePredictionClient(t *testing.T) {
	f := NewComponentFactory(&config.Config{PredictionAPIBaseURL: "http://models:8000"})
	client, ok := f.ClientFactory.CreatePredictionClient().(*predictor.HTTPPredictionClient)
	if !ok {
		t.Fatal("Expected an HTTP prediction client")
	}
	if client.CSVEndpoint() != "http://models:8000/predict/csv" {
		t.Errorf("Unexpected CSV endpoint %s", client.CSVEndpoint())
	}
	if client.ImageEndpoint() != "http://models:8000/predict/image" {
		t.Errorf("Unexpected image endpoint %s", client.ImageEndpoint())
	}
}
