package store

import (
	"context"
	"errors"

	"github.com/vaxlabs/vmvault/pkg/model"
)

// ErrVMNotFound is returned when no record exists for a requested id.
var ErrVMNotFound = errors.New("vm record not found")

// VMStore abstracts VM metadata storage operations
type VMStore interface {
	// Insert persists a new record; the store assigns the id exactly
	// once, at insertion
	Insert(ctx context.Context, record *model.VMRecord) error

	// Get retrieves a record by id, ErrVMNotFound if absent
	Get(ctx context.Context, id int64) (*model.VMRecord, error)

	// List returns up to limit records with id greater than afterID,
	// in id order. afterID 0 starts from the beginning.
	List(ctx context.Context, afterID int64, limit int) ([]model.VMRecord, error)
}

// HealthStore provides health check operations
type HealthStore interface {
	// CheckConnectivity verifies database connectivity
	CheckConnectivity(ctx context.Context) error
}
