package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/brewctl/internal/config"
	"github.com/example/brewctl/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the brewctl database and project config",
		Long: `Initialize the brewctl database with the required schema and write a
default .brewctl/config.json in the current directory if none exists.

Examples:
  brewctl init
  brewctl init --seed`,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, _ := cmd.Flags().GetBool("seed")

			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			cfg, err := config.Load(cwd)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.DBPath != "" {
				db.SetPath(cfg.DBPath)
			}

			dbPath, err := db.GetDBPath()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}

			fmt.Printf("Initializing brewctl database at %s\n", dbPath)

			database, err := db.GetDB()
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer db.Close()

			fmt.Println("✓ Database initialized successfully")

			if _, err := config.LoadConfig(cwd); errors.Is(err, fs.ErrNotExist) {
				if err := config.SaveConfig(cwd, config.Default()); err != nil {
					return fmt.Errorf("failed to write config: %w", err)
				}
				fmt.Printf("✓ Config file created at %s/config.json\n", config.DirName)
			}

			if seed {
				if err := db.SeedFixtures(database); err != nil {
					return fmt.Errorf("failed to seed database: %w", err)
				}
				fmt.Println("✓ Seeded QC test types and a sample batch")
			}

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  brewctl batch create --recipe pale-ale --location fv-1 --brew-date 2026-10-01 --expected-volume 100")
			fmt.Println("  brewctl batch list")

			return nil
		},
	}

	cmd.Flags().Bool("seed", false, "Load a starter QC catalogue and a sample batch")
	return cmd
}
