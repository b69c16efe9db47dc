package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()
	rootCmd := &cobra.Command{
		Use:          "rentalctl",
		Short:        "Operator tool for the rental ledger",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(
		migrateCmd(),
		backupCmd(),
		restoreCmd(),
	)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
