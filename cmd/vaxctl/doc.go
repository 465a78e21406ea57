// Package main provides the vaxctl CLI for the VaxLabs VM vault.
//
// The vault is an HTTP service that accepts VM disk image uploads from
// authenticated clients, compresses them, stores them in Azure Blob
// Storage, records their metadata in PostgreSQL, and provisions Azure
// virtual machines from stored images on demand.
//
// # Architecture
//
// The server is organized into several packages:
//
//   - pkg/server: HTTP server and routing
//   - pkg/server/endpoints: REST API endpoint handlers
//   - pkg/server/store: metadata store interfaces and gorm implementation
//   - pkg/pipeline: upload and provisioning workflows
//   - pkg/blob: Azure Blob Storage access
//   - pkg/compute: Azure VM provisioning
//   - pkg/codec: image payload compression
//   - pkg/model: database models
//   - pkg/db: database connection utilities
//   - pkg/config: configuration management
//
// # Quick Start
//
//	# Run database migrations
//	vaxctl db migrate
//
//	# Start the server
//	vaxctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - JWT_SECRET: shared HMAC secret for bearer token verification
//   - AZURE_STORAGE_ACCOUNT_URL: blob storage account URL
//   - AZURE_SUBSCRIPTION_ID, AZURE_RESOURCE_GROUP: provisioning target
//   - AZURE_VIRTUAL_NETWORK, AZURE_SUBNET: network for per-VM NICs
//   - PORT: server port (default: 8000)
//
// All settings can also be provided via /etc/vmvault/vmvault.yml or a
// VMVAULT_-prefixed environment variable; see pkg/config.
package main
