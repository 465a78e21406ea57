package pipeline

import "errors"

// ErrValidation marks request errors the caller can fix. Handlers map
// it to a 400 response.
var ErrValidation = errors.New("validation failed")

// ErrOrphanedBlob marks the recoverable inconsistency where a blob was
// written but the metadata insert failed AND the compensating blob
// delete also failed. The blob named in the error needs manual cleanup.
var ErrOrphanedBlob = errors.New("orphaned blob")
