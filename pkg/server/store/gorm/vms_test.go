package gorm

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vaxlabs/vmvault/pkg/model"
	"github.com/vaxlabs/vmvault/pkg/server/store"
)

func newMockStore(t *testing.T) (*VMStore, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 mockDB,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(t, err)

	return NewVMStore(gormDB), mock
}

func TestInsertAssignsID(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id"}).AddRow(int64(7))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "vm_metadata"`).WillReturnRows(rows)
	mock.ExpectCommit()

	record := &model.VMRecord{
		VMName:           "test",
		OriginalFilename: "img.qcow2",
		StorageURL:       "https://vaxlabs.blob.core.windows.net/vaxlabs-vms/1-abc-img.qcow2.zst",
		StorageKey:       "1-abc-img.qcow2.zst",
		Compression:      model.CodecZstd,
		Location:         "eastus",
		VMSize:           "Standard_B1s",
		ImageReference:   "Canonical:ubuntu:22_04:latest",
		AdminUsername:    "adminuser",
	}

	require.NoError(t, s.Insert(context.Background(), record))
	assert.Equal(t, int64(7), record.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertPropagatesError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "vm_metadata"`).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := s.Insert(context.Background(), &model.VMRecord{VMName: "test"})
	assert.Error(t, err)
}

func TestGetFound(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{
		"id", "vm_name", "description", "original_filename",
		"storage_url", "storage_key", "compression",
		"location", "vm_size", "image_reference", "admin_username",
	}).AddRow(
		int64(42), "test", "", "img.qcow2",
		"https://vaxlabs.blob.core.windows.net/vaxlabs-vms/1-abc-img.qcow2.zst",
		"1-abc-img.qcow2.zst", "zstd",
		"eastus", "Standard_B1s", "Canonical:ubuntu:22_04:latest", "adminuser",
	)
	mock.ExpectQuery(`SELECT .* FROM "vm_metadata"`).WillReturnRows(rows)

	record, err := s.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), record.ID)
	assert.Equal(t, "test", record.VMName)
	assert.Equal(t, model.CodecZstd, record.Compression)
}

func TestGetNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT .* FROM "vm_metadata"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.Get(context.Background(), 999999)
	assert.ErrorIs(t, err, store.ErrVMNotFound)
}

func TestListReturnsPageAfterCursor(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "vm_name", "compression"}).
		AddRow(int64(11), "vm-a", "zstd").
		AddRow(int64(12), "vm-b", "gzip")
	mock.ExpectQuery(`SELECT .* FROM "vm_metadata" WHERE id > .* ORDER BY id LIMIT`).
		WillReturnRows(rows)

	records, err := s.List(context.Background(), 10, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(11), records[0].ID)
	assert.Equal(t, model.CodecGzip, records[1].Compression)
}

func TestListEmpty(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT .* FROM "vm_metadata"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	records, err := s.List(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCheckConnectivity(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT 1`).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	assert.NoError(t, s.CheckConnectivity(context.Background()))
}
