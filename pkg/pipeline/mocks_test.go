package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vaxlabs/vmvault/pkg/compute"
	"github.com/vaxlabs/vmvault/pkg/model"
)

// MockBlobStore implements blob.Store for testing using testify/mock
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Upload(ctx context.Context, key string, data []byte) (string, error) {
	args := m.Called(ctx, key, data)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStore) Download(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockBlobStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockVMStore implements store.VMStore for testing using testify/mock
type MockVMStore struct {
	mock.Mock
}

func (m *MockVMStore) Insert(ctx context.Context, record *model.VMRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockVMStore) Get(ctx context.Context, id int64) (*model.VMRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VMRecord), args.Error(1)
}

func (m *MockVMStore) List(ctx context.Context, afterID int64, limit int) ([]model.VMRecord, error) {
	args := m.Called(ctx, afterID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.VMRecord), args.Error(1)
}

// MockProvisioner implements compute.Provisioner for testing using
// testify/mock
type MockProvisioner struct {
	mock.Mock
}

func (m *MockProvisioner) Provision(ctx context.Context, req compute.Request) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
