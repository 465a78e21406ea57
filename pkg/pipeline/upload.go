package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/vaxlabs/vmvault/pkg/blob"
	"github.com/vaxlabs/vmvault/pkg/codec"
	"github.com/vaxlabs/vmvault/pkg/model"
	"github.com/vaxlabs/vmvault/pkg/server/store"
)

// Defaults applied to absent upload form fields.
const (
	DefaultLocation       = "eastus"
	DefaultVMSize         = "Standard_B1s"
	DefaultImageReference = "Canonical:0001-com-ubuntu-server-jammy:22_04-lts-gen2:latest"
	DefaultAdminUsername  = "adminuser"
)

// UploadRequest is one image upload with its optional provisioning
// profile.
type UploadRequest struct {
	Filename string
	Payload  []byte

	VMName         string
	Description    string
	Location       string
	VMSize         string
	ImageReference string
	AdminUsername  string
}

// UploadResult identifies the stored image.
type UploadResult struct {
	ID         int64
	StorageURL string
}

// Upload is the pipeline that receives an image, compresses it, writes
// it to blob storage, and records its metadata.
type Upload struct {
	blobs      blob.Store
	vms        store.VMStore
	limitBytes int64
}

// NewUpload creates the upload pipeline. limitBytes bounds the
// accepted payload size.
func NewUpload(blobs blob.Store, vms store.VMStore, limitBytes int64) *Upload {
	return &Upload{
		blobs:      blobs,
		vms:        vms,
		limitBytes: limitBytes,
	}
}

// Run executes the pipeline. The blob write happens before the
// metadata insert, so a record never references a missing blob. If the
// insert fails after the blob write, the blob is deleted again; when
// that cleanup also fails the error wraps ErrOrphanedBlob so the
// inconsistency is visible to operators.
func (u *Upload) Run(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	if len(req.Payload) == 0 {
		return nil, fmt.Errorf("%w: no file uploaded", ErrValidation)
	}
	if u.limitBytes > 0 && int64(len(req.Payload)) > u.limitBytes {
		return nil, fmt.Errorf("%w: file exceeds the %d byte upload limit", ErrValidation, u.limitBytes)
	}
	if req.Filename == "" {
		return nil, fmt.Errorf("%w: filename is required", ErrValidation)
	}

	applyDefaults(&req)

	compressed, err := codec.Compress(codec.Canonical, req.Payload)
	if err != nil {
		return nil, fmt.Errorf("compression failed: %w", err)
	}

	key := blob.DeriveKey(req.Filename, codec.Canonical)
	url, err := u.blobs.Upload(ctx, key, compressed)
	if err != nil {
		return nil, fmt.Errorf("blob store write failed: %w", err)
	}

	record := &model.VMRecord{
		VMName:           req.VMName,
		Description:      req.Description,
		OriginalFilename: req.Filename,
		StorageURL:       url,
		StorageKey:       key,
		Compression:      codec.Canonical,
		Location:         req.Location,
		VMSize:           req.VMSize,
		ImageReference:   req.ImageReference,
		AdminUsername:    req.AdminUsername,
	}

	if err := u.vms.Insert(ctx, record); err != nil {
		// Compensate for the already-written blob so the store holds
		// no unreferenced objects.
		if delErr := u.blobs.Delete(ctx, key); delErr != nil {
			log.Printf("upload: blob %s orphaned after failed insert: %v", key, delErr)
			return nil, fmt.Errorf("%w %s: metadata insert failed: %v", ErrOrphanedBlob, key, err)
		}
		return nil, fmt.Errorf("metadata insert failed: %w", err)
	}

	log.Printf("upload: stored %s as %s (id %d, %d -> %d bytes)",
		req.Filename, key, record.ID, len(req.Payload), len(compressed))

	return &UploadResult{
		ID:         record.ID,
		StorageURL: url,
	}, nil
}

func applyDefaults(req *UploadRequest) {
	if req.VMName == "" {
		req.VMName = req.Filename
	}
	if req.Location == "" {
		req.Location = DefaultLocation
	}
	if req.VMSize == "" {
		req.VMSize = DefaultVMSize
	}
	if req.ImageReference == "" {
		req.ImageReference = DefaultImageReference
	}
	if req.AdminUsername == "" {
		req.AdminUsername = DefaultAdminUsername
	}
}
