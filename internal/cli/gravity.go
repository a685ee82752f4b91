package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/brewctl/internal/ports/primary"
	"github.com/example/brewctl/internal/wire"
)

var gravityCmd = &cobra.Command{
	Use:   "gravity",
	Short: "Gravity conversions and ABV",
}

var gravityConvertCmd = &cobra.Command{
	Use:   "convert [value]",
	Short: "Convert a gravity between SG and Plato",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid gravity %q: %w", args[0], err)
		}
		unit, _ := cmd.Flags().GetString("unit")

		return wire.GravityAdapter().Convert(primary.GravityInput{Value: value, Unit: unit})
	},
}

var gravityABVCmd = &cobra.Command{
	Use:   "abv",
	Short: "Compute ABV from original and final gravity",
	Long: `Compute ABV from original and final gravity. Plato inputs are
converted to SG first, then ABV = (OG - FG) × 131.25.

Examples:
  brewctl gravity abv --og 1.050 --fg 1.010
  brewctl gravity abv --og 12 --fg 2.5 --unit plato`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.GravityAdapter().ABV(*optionalGravity(cmd, "og"), *optionalGravity(cmd, "fg"))
	},
}

// GravityCmd returns the gravity command
func GravityCmd() *cobra.Command {
	// Add flags
	gravityConvertCmd.Flags().StringP("unit", "u", "SG", "Unit of the value (sg or plato)")

	gravityABVCmd.Flags().Float64("og", 0, "Original gravity")
	gravityABVCmd.Flags().Float64("fg", 0, "Final gravity")
	gravityABVCmd.Flags().StringP("unit", "u", "SG", "Unit of --og and --fg (sg or plato)")
	gravityABVCmd.MarkFlagRequired("og")
	gravityABVCmd.MarkFlagRequired("fg")

	// Add subcommands
	gravityCmd.AddCommand(gravityConvertCmd)
	gravityCmd.AddCommand(gravityABVCmd)

	return gravityCmd
}
