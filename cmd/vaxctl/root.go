package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vaxctl",
	Short: "VaxLabs VM vault server and tooling",
	Long: `vaxctl runs the VaxLabs VM vault: an HTTP API that accepts VM disk
image uploads, compresses and stores them in Azure Blob Storage, records
their metadata in PostgreSQL, and provisions Azure virtual machines from
stored images.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
