package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const appName = "barber-scheduler"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Booking core for a barbershop chain",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve("")
		},
	}

	cmd.AddCommand(
		serveCmd(),
		migrateCmd(),
		seedCmd(),
		sweepCmd(),
	)
	return cmd
}
