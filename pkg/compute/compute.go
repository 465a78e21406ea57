package compute

import (
	"context"
	"fmt"

	"github.com/vaxlabs/vmvault/pkg/model"
)

// Request carries everything needed to create and start one VM. The
// admin password lives only in this request for the duration of the
// provisioning call; it is never persisted.
type Request struct {
	Name          string
	Location      string
	Size          string
	Image         model.ImageReferenceParts
	AdminUsername string
	AdminPassword string
}

// Validate checks that the request is complete enough to submit.
func (r Request) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("vm name is required")
	}
	if r.Location == "" {
		return fmt.Errorf("location is required")
	}
	if r.Size == "" {
		return fmt.Errorf("vm size is required")
	}
	if r.Image == (model.ImageReferenceParts{}) {
		return fmt.Errorf("image reference is required")
	}
	if r.AdminUsername == "" {
		return fmt.Errorf("admin username is required")
	}
	if r.AdminPassword == "" {
		return fmt.Errorf("admin password is required")
	}
	return nil
}

// Provisioner abstracts the cloud compute API that creates and starts
// virtual machines.
type Provisioner interface {
	// Provision submits a create-and-start request and waits until the
	// operation reaches a terminal state, respecting ctx cancellation.
	Provision(ctx context.Context, req Request) error
}
