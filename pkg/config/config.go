package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/vmvault"
	ConfigFileName    = "vmvault.yml"
)

// Config holds all vmvault settings.
type Config struct {
	// BindAddress is the address the HTTP server listens on
	BindAddress string `yaml:"bind_address" json:"bind_address"`

	// Port is the HTTP server port
	Port string `yaml:"port" json:"port"`

	// DatabaseURL is the PostgreSQL connection URL
	DatabaseURL string `yaml:"database_url" json:"-"`

	// JWTSecret is the shared HMAC secret for bearer token verification
	JWTSecret string `yaml:"jwt_secret" json:"-"`

	// BlobAccountURL is the Azure storage account URL
	// (e.g. https://vaxlabs.blob.core.windows.net)
	BlobAccountURL string `yaml:"blob_account_url" json:"blob_account_url"`

	// BlobContainer is the container holding compressed VM images
	BlobContainer string `yaml:"blob_container" json:"blob_container"`

	// AzureSubscriptionID is the subscription VMs are provisioned into
	AzureSubscriptionID string `yaml:"azure_subscription_id" json:"azure_subscription_id"`

	// AzureResourceGroup is the resource group VMs are provisioned into
	AzureResourceGroup string `yaml:"azure_resource_group" json:"azure_resource_group"`

	// AzureVirtualNetwork is the virtual network for per-VM NICs
	AzureVirtualNetwork string `yaml:"azure_virtual_network" json:"azure_virtual_network"`

	// AzureSubnet is the subnet for per-VM NICs
	AzureSubnet string `yaml:"azure_subnet" json:"azure_subnet"`

	// ListLimitMax is the maximum page size for listing requests
	ListLimitMax int `yaml:"list_limit_max" json:"list_limit_max"`

	// UploadLimitBytes is the maximum accepted image payload size
	UploadLimitBytes int64 `yaml:"upload_limit_bytes" json:"upload_limit_bytes"`

	// ProvisionPollSeconds is the interval between provisioner polls
	ProvisionPollSeconds int `yaml:"provision_poll_seconds" json:"provision_poll_seconds"`

	// ProvisionTimeoutSeconds bounds the wait for a provisioning
	// operation to reach a terminal state
	ProvisionTimeoutSeconds int `yaml:"provision_timeout_seconds" json:"provision_timeout_seconds"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *Config {
	return &Config{
		BindAddress:             "0.0.0.0",
		Port:                    "8000",
		BlobContainer:           "vaxlabs-vms",
		ListLimitMax:            100,
		UploadLimitBytes:        1 << 30, // 1 GiB
		ProvisionPollSeconds:    10,
		ProvisionTimeoutSeconds: 1200,
		sources:                 make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("VMVAULT_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig Config
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"bind_address", "port", "database_url", "jwt_secret",
		"blob_account_url", "blob_container",
		"azure_subscription_id", "azure_resource_group",
		"azure_virtual_network", "azure_subnet",
		"list_limit_max", "upload_limit_bytes",
		"provision_poll_seconds", "provision_timeout_seconds",
	}
}

func (c *Config) applyFileConfig(file *Config) {
	setStr := func(name string, dst *string, val string) {
		if val != "" {
			*dst = val
			c.sources[name] = "file"
		}
	}
	setStr("bind_address", &c.BindAddress, file.BindAddress)
	setStr("port", &c.Port, file.Port)
	setStr("database_url", &c.DatabaseURL, file.DatabaseURL)
	setStr("jwt_secret", &c.JWTSecret, file.JWTSecret)
	setStr("blob_account_url", &c.BlobAccountURL, file.BlobAccountURL)
	setStr("blob_container", &c.BlobContainer, file.BlobContainer)
	setStr("azure_subscription_id", &c.AzureSubscriptionID, file.AzureSubscriptionID)
	setStr("azure_resource_group", &c.AzureResourceGroup, file.AzureResourceGroup)
	setStr("azure_virtual_network", &c.AzureVirtualNetwork, file.AzureVirtualNetwork)
	setStr("azure_subnet", &c.AzureSubnet, file.AzureSubnet)

	if file.ListLimitMax != 0 {
		c.ListLimitMax = file.ListLimitMax
		c.sources["list_limit_max"] = "file"
	}
	if file.UploadLimitBytes != 0 {
		c.UploadLimitBytes = file.UploadLimitBytes
		c.sources["upload_limit_bytes"] = "file"
	}
	if file.ProvisionPollSeconds != 0 {
		c.ProvisionPollSeconds = file.ProvisionPollSeconds
		c.sources["provision_poll_seconds"] = "file"
	}
	if file.ProvisionTimeoutSeconds != 0 {
		c.ProvisionTimeoutSeconds = file.ProvisionTimeoutSeconds
		c.sources["provision_timeout_seconds"] = "file"
	}
}

func (c *Config) applyEnvConfig() {
	setStr := func(name string, dst *string, envs ...string) {
		for _, env := range envs {
			if val := os.Getenv(env); val != "" {
				*dst = val
				c.sources[name] = "environment"
				return
			}
		}
	}
	setInt := func(name string, dst *int, env string) {
		if val := os.Getenv(env); val != "" {
			if i, err := strconv.Atoi(val); err == nil {
				*dst = i
				c.sources[name] = "environment"
			}
		}
	}

	setStr("bind_address", &c.BindAddress, "VMVAULT_BIND_ADDRESS", "BIND_ADDRESS")
	setStr("port", &c.Port, "VMVAULT_PORT", "PORT")
	setStr("database_url", &c.DatabaseURL, "VMVAULT_DATABASE_URL", "DATABASE_URL")
	setStr("jwt_secret", &c.JWTSecret, "VMVAULT_JWT_SECRET", "JWT_SECRET")
	setStr("blob_account_url", &c.BlobAccountURL, "VMVAULT_BLOB_ACCOUNT_URL", "AZURE_STORAGE_ACCOUNT_URL")
	setStr("blob_container", &c.BlobContainer, "VMVAULT_BLOB_CONTAINER")
	setStr("azure_subscription_id", &c.AzureSubscriptionID, "VMVAULT_AZURE_SUBSCRIPTION_ID", "AZURE_SUBSCRIPTION_ID")
	setStr("azure_resource_group", &c.AzureResourceGroup, "VMVAULT_AZURE_RESOURCE_GROUP", "AZURE_RESOURCE_GROUP")
	setStr("azure_virtual_network", &c.AzureVirtualNetwork, "VMVAULT_AZURE_VIRTUAL_NETWORK", "AZURE_VIRTUAL_NETWORK")
	setStr("azure_subnet", &c.AzureSubnet, "VMVAULT_AZURE_SUBNET", "AZURE_SUBNET")

	setInt("list_limit_max", &c.ListLimitMax, "VMVAULT_LIST_LIMIT_MAX")
	setInt("provision_poll_seconds", &c.ProvisionPollSeconds, "VMVAULT_PROVISION_POLL_SECONDS")
	setInt("provision_timeout_seconds", &c.ProvisionTimeoutSeconds, "VMVAULT_PROVISION_TIMEOUT_SECONDS")

	if val := os.Getenv("VMVAULT_UPLOAD_LIMIT_BYTES"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			c.UploadLimitBytes = i
			c.sources["upload_limit_bytes"] = "environment"
		}
	}
}

// Validate checks that the configuration is coherent enough to start
// the server.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("database_url is required (DATABASE_URL)")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required (JWT_SECRET)")
	}
	if c.ListLimitMax <= 0 {
		return fmt.Errorf("list_limit_max must be positive, got %d", c.ListLimitMax)
	}
	if c.UploadLimitBytes <= 0 {
		return fmt.Errorf("upload_limit_bytes must be positive, got %d", c.UploadLimitBytes)
	}
	if c.ProvisionPollSeconds <= 0 {
		return fmt.Errorf("provision_poll_seconds must be positive, got %d", c.ProvisionPollSeconds)
	}
	if c.ProvisionTimeoutSeconds < c.ProvisionPollSeconds {
		return fmt.Errorf("provision_timeout_seconds (%d) must be at least provision_poll_seconds (%d)",
			c.ProvisionTimeoutSeconds, c.ProvisionPollSeconds)
	}
	return nil
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// Attribute is a single configuration attribute with its resolved
// value and where it came from.
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

func redact(value string) string {
	if value == "" {
		return ""
	}
	return "(redacted)"
}

// Attributes returns all configuration attributes with their values and
// sources. Secrets are redacted.
func (c *Config) Attributes() []Attribute {
	return []Attribute{
		{Name: "bind_address", Value: c.BindAddress, Source: c.Source("bind_address")},
		{Name: "port", Value: c.Port, Source: c.Source("port")},
		{Name: "database_url", Value: redact(c.DatabaseURL), Source: c.Source("database_url")},
		{Name: "jwt_secret", Value: redact(c.JWTSecret), Source: c.Source("jwt_secret")},
		{Name: "blob_account_url", Value: c.BlobAccountURL, Source: c.Source("blob_account_url")},
		{Name: "blob_container", Value: c.BlobContainer, Source: c.Source("blob_container")},
		{Name: "azure_subscription_id", Value: c.AzureSubscriptionID, Source: c.Source("azure_subscription_id")},
		{Name: "azure_resource_group", Value: c.AzureResourceGroup, Source: c.Source("azure_resource_group")},
		{Name: "azure_virtual_network", Value: c.AzureVirtualNetwork, Source: c.Source("azure_virtual_network")},
		{Name: "azure_subnet", Value: c.AzureSubnet, Source: c.Source("azure_subnet")},
		{Name: "list_limit_max", Value: strconv.Itoa(c.ListLimitMax), Source: c.Source("list_limit_max")},
		{Name: "upload_limit_bytes", Value: strconv.FormatInt(c.UploadLimitBytes, 10), Source: c.Source("upload_limit_bytes")},
		{Name: "provision_poll_seconds", Value: strconv.Itoa(c.ProvisionPollSeconds), Source: c.Source("provision_poll_seconds")},
		{Name: "provision_timeout_seconds", Value: strconv.Itoa(c.ProvisionTimeoutSeconds), Source: c.Source("provision_timeout_seconds")},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-30s %-50s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-30s %-50s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-30s %-50s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ProvisionPollInterval returns the provisioner poll interval as a duration
func (c *Config) ProvisionPollInterval() time.Duration {
	return time.Duration(c.ProvisionPollSeconds) * time.Second
}

// ProvisionTimeout returns the provisioning wait bound as a duration
func (c *Config) ProvisionTimeout() time.Duration {
	return time.Duration(c.ProvisionTimeoutSeconds) * time.Second
}
