package compute

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v5"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v4"
	"github.com/avast/retry-go/v4"
)

// Ensure AzureProvisioner implements Provisioner
var _ Provisioner = (*AzureProvisioner)(nil)

// AzureConfig holds the Azure resources VMs are provisioned into.
type AzureConfig struct {
	SubscriptionID string
	ResourceGroup  string
	VirtualNetwork string
	Subnet         string

	// PollInterval is the frequency of poll requests while waiting for
	// a provisioning operation to finish (default 10s)
	PollInterval time.Duration
}

// AzureProvisioner implements Provisioner on the Azure compute API.
// Every provisioned VM gets its own network interface in the
// configured subnet.
type AzureProvisioner struct {
	cfg        AzureConfig
	vmClient   *armcompute.VirtualMachinesClient
	nicClient  *armnetwork.InterfacesClient
	subnClient *armnetwork.SubnetsClient
}

// NewAzureProvisioner creates a provisioner for the given subscription.
func NewAzureProvisioner(cfg AzureConfig, credential azcore.TokenCredential) (*AzureProvisioner, error) {
	if cfg.SubscriptionID == "" || cfg.ResourceGroup == "" {
		return nil, fmt.Errorf("subscription id and resource group are required")
	}
	if cfg.VirtualNetwork == "" || cfg.Subnet == "" {
		return nil, fmt.Errorf("virtual network and subnet are required")
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Second
	}

	vmClient, err := armcompute.NewVirtualMachinesClient(cfg.SubscriptionID, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create compute client: %w", err)
	}
	nicClient, err := armnetwork.NewInterfacesClient(cfg.SubscriptionID, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create network interfaces client: %w", err)
	}
	subnClient, err := armnetwork.NewSubnetsClient(cfg.SubscriptionID, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create subnets client: %w", err)
	}

	return &AzureProvisioner{
		cfg:        cfg,
		vmClient:   vmClient,
		nicClient:  nicClient,
		subnClient: subnClient,
	}, nil
}

// Provision creates a network interface for the VM, then submits the
// VM creation and polls until the operation reaches a terminal state.
func (p *AzureProvisioner) Provision(ctx context.Context, req Request) error {
	if err := req.Validate(); err != nil {
		return err
	}

	nicID, err := p.createNetworkInterface(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to create network interface for %s: %w", req.Name, err)
	}

	params := armcompute.VirtualMachine{
		Location: to.Ptr(req.Location),
		Properties: &armcompute.VirtualMachineProperties{
			HardwareProfile: &armcompute.HardwareProfile{
				VMSize: to.Ptr(armcompute.VirtualMachineSizeTypes(req.Size)),
			},
			StorageProfile: &armcompute.StorageProfile{
				ImageReference: &armcompute.ImageReference{
					Publisher: to.Ptr(req.Image.Publisher),
					Offer:     to.Ptr(req.Image.Offer),
					SKU:       to.Ptr(req.Image.SKU),
					Version:   to.Ptr(req.Image.Version),
				},
			},
			OSProfile: &armcompute.OSProfile{
				ComputerName:  to.Ptr(req.Name),
				AdminUsername: to.Ptr(req.AdminUsername),
				AdminPassword: to.Ptr(req.AdminPassword),
			},
			NetworkProfile: &armcompute.NetworkProfile{
				NetworkInterfaces: []*armcompute.NetworkInterfaceReference{
					{
						ID: to.Ptr(nicID),
						Properties: &armcompute.NetworkInterfaceReferenceProperties{
							Primary: to.Ptr(true),
						},
					},
				},
			},
		},
	}

	log.Printf("compute: creating VM %s (%s, %s)", req.Name, req.Location, req.Size)

	poller, err := p.vmClient.BeginCreateOrUpdate(ctx, p.cfg.ResourceGroup, req.Name, params, nil)
	if err != nil {
		return fmt.Errorf("vm creation submit failed for %s: %w", req.Name, err)
	}

	if _, err := poller.PollUntilDone(ctx, &runtime.PollUntilDoneOptions{
		Frequency: p.cfg.PollInterval,
	}); err != nil {
		return fmt.Errorf("vm creation failed for %s: %w", req.Name, err)
	}

	log.Printf("compute: VM %s created and started", req.Name)
	return nil
}

// createNetworkInterface provisions a fresh NIC named after the VM and
// returns its resource ID.
func (p *AzureProvisioner) createNetworkInterface(ctx context.Context, req Request) (string, error) {
	// The subnet lookup is idempotent, so transient failures get a
	// bounded retry.
	subnet, err := retry.DoWithData(
		func() (armnetwork.SubnetsClientGetResponse, error) {
			return p.subnClient.Get(ctx, p.cfg.ResourceGroup, p.cfg.VirtualNetwork, p.cfg.Subnet, nil)
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.DelayType(retry.BackOffDelay),
	)
	if err != nil {
		return "", fmt.Errorf("subnet lookup %s/%s failed: %w", p.cfg.VirtualNetwork, p.cfg.Subnet, err)
	}

	nicName := req.Name + "-nic"
	params := armnetwork.Interface{
		Location: to.Ptr(req.Location),
		Properties: &armnetwork.InterfacePropertiesFormat{
			IPConfigurations: []*armnetwork.InterfaceIPConfiguration{
				{
					Name: to.Ptr("ipconfig1"),
					Properties: &armnetwork.InterfaceIPConfigurationPropertiesFormat{
						Subnet:                    &armnetwork.Subnet{ID: subnet.ID},
						PrivateIPAllocationMethod: to.Ptr(armnetwork.IPAllocationMethodDynamic),
					},
				},
			},
		},
	}

	poller, err := p.nicClient.BeginCreateOrUpdate(ctx, p.cfg.ResourceGroup, nicName, params, nil)
	if err != nil {
		return "", err
	}

	nic, err := poller.PollUntilDone(ctx, &runtime.PollUntilDoneOptions{
		Frequency: p.cfg.PollInterval,
	})
	if err != nil {
		return "", err
	}
	if nic.ID == nil {
		return "", fmt.Errorf("nic %s created without an id", nicName)
	}
	return *nic.ID, nil
}
