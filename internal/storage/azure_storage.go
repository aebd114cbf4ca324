package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
)

// blobUploader is the part of the azblob client the report store uses
type blobUploader interface {
	UploadBuffer(ctx context.Context, containerName string, blobName string, buffer []byte, o *azblob.UploadBufferOptions) (azblob.UploadBufferResponse, error)
}

type azureReportStore struct {
	client     blobUploader
	serviceURL string
	container  string
}

// NewAzureReportStore archives reports as blobs in the given container
func NewAzureReportStore(accountName, accountKey, container string) (ReportStore, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid azure credentials: %w", err)
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net", accountName)
	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure blob client: %w", err)
	}

	return newAzureReportStore(client, serviceURL, container), nil
}

func newAzureReportStore(client blobUploader, serviceURL, container string) *azureReportStore {
	return &azureReportStore{
		client:     client,
		serviceURL: strings.TrimSuffix(serviceURL, "/"),
		container:  container,
	}
}

// SaveReport uploads the report and returns its blob URL
func (s *azureReportStore) SaveReport(ctx context.Context, name string, data []byte) (string, error) {
	contentType := "application/json"
	_, err := s.client.UploadBuffer(ctx, s.container, name, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	return fmt.Sprintf("%s/%s/%s", s.serviceURL, s.container, name), nil
}

func (s *azureReportStore) Name() string {
	return "azure"
}
