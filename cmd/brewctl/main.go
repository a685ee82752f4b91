package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/brewctl/internal/cli"
	"github.com/example/brewctl/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "brewctl",
		Short:   "brewctl - brewery batch production",
		Version: version.String(),
		Long: `brewctl tracks brewery production batches from planning to packaging.
It records fermentation readings, runs quality-control tests and computes
gravity, ABV and production statistics.`,
		PersistentPreRunE: cli.Bootstrap,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.BatchCmd())
	rootCmd.AddCommand(cli.FermCmd())
	rootCmd.AddCommand(cli.QCCmd())
	rootCmd.AddCommand(cli.GravityCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.DescribeError(err))
		os.Exit(1)
	}
}
