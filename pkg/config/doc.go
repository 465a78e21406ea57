// Package config provides configuration management for vmvault.
//
// This package handles loading and validating server configuration from
// a YAML file and environment variables, with per-attribute source
// tracking.
//
// # Configuration Sources
//
// Configuration is loaded from, in increasing precedence:
//
//   - Built-in defaults
//   - /etc/vmvault/vmvault.yml (override with VMVAULT_CONFIG_PATH)
//   - Environment variables
//
// # Key Configuration Options
//
//   - DATABASE_URL: PostgreSQL connection
//   - JWT_SECRET: Shared secret for bearer token verification
//   - AZURE_STORAGE_ACCOUNT_URL: Blob storage account
//   - AZURE_SUBSCRIPTION_ID / AZURE_RESOURCE_GROUP: Compute target
//   - PORT: Server listen port
package config
