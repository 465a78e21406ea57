package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/vaxlabs/vmvault/pkg/compute"
	"github.com/vaxlabs/vmvault/pkg/model"
	"github.com/vaxlabs/vmvault/pkg/server/store"
)

// Provision is the pipeline that turns a stored VMRecord into a
// running virtual machine.
type Provision struct {
	vms         store.VMStore
	provisioner compute.Provisioner
}

// NewProvision creates the provision pipeline.
func NewProvision(vms store.VMStore, provisioner compute.Provisioner) *Provision {
	return &Provision{
		vms:         vms,
		provisioner: provisioner,
	}
}

// Run looks up the record, validates its image reference, and submits
// the provisioning request, waiting until the provisioner reports a
// terminal state. The admin password is used for this call only and
// never stored. Returns the display name of the provisioned VM.
func (p *Provision) Run(ctx context.Context, vmID int64, adminPassword string) (string, error) {
	if vmID <= 0 {
		return "", fmt.Errorf("%w: VM ID is required", ErrValidation)
	}
	if adminPassword == "" {
		return "", fmt.Errorf("%w: admin password is required", ErrValidation)
	}

	// The lookup is an idempotent read; transient database failures
	// get a bounded retry. Not-found is terminal.
	record, err := retry.DoWithData(
		func() (*model.VMRecord, error) {
			return p.vms.Get(ctx, vmID)
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, store.ErrVMNotFound)
		}),
	)
	if err != nil {
		return "", err
	}

	image, err := model.ParseImageReference(record.ImageReference)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}

	req := compute.Request{
		Name:          record.VMName,
		Location:      record.Location,
		Size:          record.VMSize,
		Image:         image,
		AdminUsername: record.AdminUsername,
		AdminPassword: adminPassword,
	}

	log.Printf("provision: starting VM %s (record %d)", record.VMName, record.ID)

	if err := p.provisioner.Provision(ctx, req); err != nil {
		return "", fmt.Errorf("provisioning failed for %s: %w", record.VMName, err)
	}

	return record.VMName, nil
}
