package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/spf13/cobra"

	"github.com/vaxlabs/vmvault/pkg/blob"
	"github.com/vaxlabs/vmvault/pkg/compute"
	"github.com/vaxlabs/vmvault/pkg/config"
	"github.com/vaxlabs/vmvault/pkg/db"
	"github.com/vaxlabs/vmvault/pkg/server"
	"github.com/vaxlabs/vmvault/pkg/server/endpoints"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the VM vault application server",
	Long: `Run the VM vault application server.

Requires DATABASE_URL and JWT_SECRET, plus the Azure settings for blob
storage and provisioning (AZURE_STORAGE_ACCOUNT_URL, AZURE_SUBSCRIPTION_ID,
AZURE_RESOURCE_GROUP, AZURE_VIRTUAL_NETWORK, AZURE_SUBNET). Azure
credentials are resolved through the default credential chain.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
			os.Exit(1)
		}

		if addr, _ := cmd.Flags().GetString("bind-address"); addr != "" {
			cfg.BindAddress = addr
		}
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Port = port
		}

		// Validate required settings first (fail fast)
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, "Invalid configuration:", err)
			os.Exit(1)
		}
		if err := validateAzureSettings(cfg); err != nil {
			fmt.Fprintln(os.Stderr, "Invalid configuration:", err)
			os.Exit(1)
		}

		// Run migrations unless --no-migrate is set
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		gormDB, err := db.Connect(db.Config{URL: cfg.DatabaseURL})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		credential, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to resolve Azure credentials:", err)
			os.Exit(1)
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		blobs, err := blob.NewAzureStore(ctx, cfg.BlobAccountURL, cfg.BlobContainer, credential)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to initialise blob storage:", err)
			os.Exit(1)
		}

		provisioner, err := compute.NewAzureProvisioner(compute.AzureConfig{
			SubscriptionID: cfg.AzureSubscriptionID,
			ResourceGroup:  cfg.AzureResourceGroup,
			VirtualNetwork: cfg.AzureVirtualNetwork,
			Subnet:         cfg.AzureSubnet,
			PollInterval:   cfg.ProvisionPollInterval(),
		}, credential)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to initialise provisioner:", err)
			os.Exit(1)
		}

		s := server.NewServer(gormDB, blobs, provisioner, cfg)
		endpoints.RegisterAll(s)

		errs := make(chan error, 1)
		go func() {
			log.Printf("Running server at http://%s:%s...\n", cfg.BindAddress, cfg.Port)
			errs <- s.Start()
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errs:
			log.Fatal(err)
		case sig := <-stop:
			log.Printf("Received %s, shutting down...", sig)
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := s.Shutdown(shutdownCtx); err != nil {
				log.Printf("Shutdown: %v", err)
			}
			if err := db.Close(gormDB); err != nil {
				log.Printf("Closing DB: %v", err)
			}
		}
	},
}

func validateAzureSettings(cfg *config.Config) error {
	required := []struct {
		name, value string
	}{
		{"blob_account_url (AZURE_STORAGE_ACCOUNT_URL)", cfg.BlobAccountURL},
		{"azure_subscription_id (AZURE_SUBSCRIPTION_ID)", cfg.AzureSubscriptionID},
		{"azure_resource_group (AZURE_RESOURCE_GROUP)", cfg.AzureResourceGroup},
		{"azure_virtual_network (AZURE_VIRTUAL_NETWORK)", cfg.AzureVirtualNetwork},
		{"azure_subnet (AZURE_SUBNET)", cfg.AzureSubnet},
	}
	for _, setting := range required {
		if setting.value == "" {
			return fmt.Errorf("%s is required", setting.name)
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", "", "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", "", "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
