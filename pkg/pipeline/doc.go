// Package pipeline implements the two core flows of vmvault.
//
// Upload receives an image payload, compresses it with the canonical
// codec, writes it to the blob store, then records the metadata row.
// The blob write always completes before the insert is attempted, and
// a failed insert triggers a compensating blob delete.
//
// Provision reads a metadata row, maps it to a compute request, and
// waits for the provisioner to reach a terminal state.
//
// Both pipelines depend only on the blob.Store, store.VMStore, and
// compute.Provisioner interfaces; the concrete Azure and PostgreSQL
// implementations are injected at construction.
package pipeline
