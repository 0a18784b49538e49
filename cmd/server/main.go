package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:          "meet",
		Short:        "Meet: session presence and signaling relay",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configFile)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default config/config.$CONFIG_ENV.yaml)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and signaling server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configFile)
		},
	})
	return rootCmd
}
