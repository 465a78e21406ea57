package gorm

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/vaxlabs/vmvault/pkg/model"
	"github.com/vaxlabs/vmvault/pkg/server/store"
)

// Ensure VMStore implements store.VMStore and store.HealthStore
var (
	_ store.VMStore     = (*VMStore)(nil)
	_ store.HealthStore = (*VMStore)(nil)
)

// VMStore implements store.VMStore using GORM
type VMStore struct {
	db *gorm.DB
}

// NewVMStore creates a new VMStore
func NewVMStore(db *gorm.DB) *VMStore {
	return &VMStore{db: db}
}

// Insert persists a new record. The database assigns the id via the
// primary key sequence and gorm writes it back into record.ID.
func (s *VMStore) Insert(ctx context.Context, record *model.VMRecord) error {
	if result := s.db.WithContext(ctx).Create(record); result.Error != nil {
		return fmt.Errorf("vm metadata insert failed: %w", result.Error)
	}
	return nil
}

// Get retrieves a record by id.
func (s *VMStore) Get(ctx context.Context, id int64) (*model.VMRecord, error) {
	var record model.VMRecord
	result := s.db.WithContext(ctx).First(&record, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", store.ErrVMNotFound, id)
		}
		return nil, fmt.Errorf("vm metadata lookup failed: %w", result.Error)
	}
	return &record, nil
}

// List returns up to limit records after the given cursor, in id order.
func (s *VMStore) List(ctx context.Context, afterID int64, limit int) ([]model.VMRecord, error) {
	records := make([]model.VMRecord, 0, limit)
	result := s.db.WithContext(ctx).
		Where("id > ?", afterID).
		Order("id").
		Limit(limit).
		Find(&records)
	if result.Error != nil {
		return nil, fmt.Errorf("vm metadata list failed: %w", result.Error)
	}
	return records, nil
}

// CheckConnectivity verifies database connectivity
func (s *VMStore) CheckConnectivity(ctx context.Context) error {
	var one int
	if result := s.db.WithContext(ctx).Raw("SELECT 1").Scan(&one); result.Error != nil {
		return fmt.Errorf("database connectivity check failed: %w", result.Error)
	}
	return nil
}
