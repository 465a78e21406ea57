// Package store provides storage abstractions for the vmvault server.
//
// This package defines interfaces for database operations, allowing
// the pipelines and endpoints to be decoupled from the specific
// database implementation. This enables easier testing with mocks and
// potential support for different storage backends.
//
// # Available Stores
//
//   - VMStore: VM metadata operations (insert, get, list)
//   - HealthStore: database connectivity checks
//
// # Usage
//
//	vms := gorm.NewVMStore(db)
//	record, err := vms.Get(ctx, 42)
//	if errors.Is(err, store.ErrVMNotFound) {
//	    // Handle not found
//	}
package store
