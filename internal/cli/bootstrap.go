// Package cli provides CLI commands for the brewctl application.
package cli

import (
	gocontext "context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/brewctl/internal/config"
	"github.com/example/brewctl/internal/ctxutil"
	"github.com/example/brewctl/internal/logging"
	"github.com/example/brewctl/internal/wire"
)

// globalActorID stores the operator for the current CLI invocation.
// Set once at startup by Bootstrap.
var globalActorID string

// Bootstrap loads configuration, builds the logger and configures wiring.
// Registered as the root command's PersistentPreRunE.
func Bootstrap(cmd *cobra.Command, args []string) error {
	globalActorID = ctxutil.ActorFromEnv()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return err
	}

	wire.Configure(cfg, logger)
	return nil
}

// GetActorID returns the stored actor ID from CLI startup.
// Returns empty string if Bootstrap was not called.
func GetActorID() string {
	return globalActorID
}

// NewContext creates a context.Background() with the current actor ID embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() gocontext.Context {
	ctx := gocontext.Background()
	if globalActorID != "" {
		return ctxutil.WithActorID(ctx, globalActorID)
	}
	return ctx
}
