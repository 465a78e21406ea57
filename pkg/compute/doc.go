// Package compute abstracts the cloud API that creates and starts
// virtual machines.
//
// The Provisioner interface is the narrow contract the provision
// pipeline depends on: submit a Request and wait for the long-running
// operation to reach a terminal state. AzureProvisioner implements it
// on the Azure compute API, creating a dedicated network interface per
// VM instead of sharing one across machines.
package compute
