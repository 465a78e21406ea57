package blob

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	azblobblob "github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// Ensure AzureStore implements Store
var _ Store = (*AzureStore)(nil)

// AzureStore implements Store on Azure Blob Storage.
type AzureStore struct {
	client     *azblob.Client
	accountURL string
	container  string
}

// NewAzureStore creates a store backed by the given storage account
// and ensures the container exists.
func NewAzureStore(ctx context.Context, accountURL, container string, credential azcore.TokenCredential) (*AzureStore, error) {
	client, err := azblob.NewClient(accountURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	if _, err := client.CreateContainer(ctx, container, nil); err != nil {
		if !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			return nil, fmt.Errorf("failed to ensure container %q: %w", container, err)
		}
	}

	return &AzureStore{
		client:     client,
		accountURL: strings.TrimSuffix(accountURL, "/"),
		container:  container,
	}, nil
}

// Upload writes data under key with an If-None-Match condition so an
// existing object is never overwritten.
func (s *AzureStore) Upload(ctx context.Context, key string, data []byte) (string, error) {
	opts := &azblob.UploadBufferOptions{
		AccessConditions: &azblobblob.AccessConditions{
			ModifiedAccessConditions: &azblobblob.ModifiedAccessConditions{
				IfNoneMatch: to.Ptr(azcore.ETagAny),
			},
		},
	}

	if _, err := s.client.UploadBuffer(ctx, s.container, key, data, opts); err != nil {
		if bloberror.HasCode(err, bloberror.BlobAlreadyExists, bloberror.ConditionNotMet) {
			return "", fmt.Errorf("%w: %s", ErrBlobExists, key)
		}
		return "", fmt.Errorf("blob upload failed for %s: %w", key, err)
	}

	return s.URL(key), nil
}

// Download returns the stored bytes for key.
func (s *AzureStore) Download(ctx context.Context, key string) ([]byte, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, key)
		}
		return nil, fmt.Errorf("blob download failed for %s: %w", key, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("blob download failed for %s: %w", key, err)
	}
	return data, nil
}

// Delete removes the object stored under key.
func (s *AzureStore) Delete(ctx context.Context, key string) error {
	if _, err := s.client.DeleteBlob(ctx, s.container, key, nil); err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return fmt.Errorf("%w: %s", ErrBlobNotFound, key)
		}
		return fmt.Errorf("blob delete failed for %s: %w", key, err)
	}
	return nil
}

// URL returns the stable URL for a stored key.
func (s *AzureStore) URL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.accountURL, s.container, key)
}
