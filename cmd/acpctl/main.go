package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "acpctl",
		Short:        "Fetch, resolve and reconcile ACP data from a FHIR server",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("server", "", "FHIR server base url (defaults to FHIR_BASE_URL)")
	rootCmd.PersistentFlags().Int("depth", 0, "reference resolution depth, 0 keeps the configured value")

	rootCmd.AddCommand(queriesCmd())
	rootCmd.AddCommand(fetchCmd())
	rootCmd.AddCommand(resolveCmd())
	rootCmd.AddCommand(overviewCmd())
	rootCmd.AddCommand(lookupCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
