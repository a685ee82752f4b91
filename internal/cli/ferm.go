package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/brewctl/internal/ports/primary"
	"github.com/example/brewctl/internal/wire"
)

var fermCmd = &cobra.Command{
	Use:   "ferm",
	Short: "Record and analyse fermentation readings",
}

var fermLogCmd = &cobra.Command{
	Use:   "log [batch]",
	Short: "Log a fermentation reading",
	Long: `Log a fermentation reading. Temperature is in °C, gravity in SG and
pressure in PSI. Without --at the reading is stamped now.

Examples:
  brewctl ferm log BATCH-001 --temp 19.5 --gravity 1.020 --ph 4.3
  brewctl ferm log BATCH-001 --temp 18 --at 2026-10-05T08:00:00Z`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		temp, _ := cmd.Flags().GetFloat64("temp")
		notes, _ := cmd.Flags().GetString("notes")
		at, err := timeFlag(cmd, "at")
		if err != nil {
			return err
		}

		return wire.FermentationAdapter().Log(NewContext(), primary.LogReadingRequest{
			BatchRef:    args[0],
			MeasuredAt:  at,
			Temperature: temp,
			Gravity:     optionalFloat(cmd, "gravity"),
			PH:          optionalFloat(cmd, "ph"),
			Pressure:    optionalFloat(cmd, "pressure"),
			Notes:       notes,
		})
	},
}

var fermListCmd = &cobra.Command{
	Use:   "list [batch]",
	Short: "List a batch's readings in time order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.FermentationAdapter().List(NewContext(), args[0])
	},
}

var fermSummaryCmd = &cobra.Command{
	Use:   "summary [batch]",
	Short: "Summarize fermentation, optionally within a window",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := timeFlag(cmd, "from")
		if err != nil {
			return err
		}
		to, err := timeFlag(cmd, "to")
		if err != nil {
			return err
		}

		return wire.FermentationAdapter().Summary(NewContext(), primary.SummaryRequest{
			BatchRef: args[0],
			From:     from,
			To:       to,
		})
	},
}

var fermExportCmd = &cobra.Command{
	Use:   "export [batch]",
	Short: "Export fermentation series to an Excel workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		return wire.FermentationAdapter().Export(NewContext(), args[0], out)
	},
}

var fermDeleteCmd = &cobra.Command{
	Use:   "delete [batch] [reading-id]",
	Short: "Delete a reading",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.FermentationAdapter().Delete(NewContext(), args[0], args[1])
	},
}

// FermCmd returns the ferm command
func FermCmd() *cobra.Command {
	// Add flags
	fermLogCmd.Flags().Float64("temp", 0, "Temperature in °C")
	fermLogCmd.Flags().String("at", "", "Measurement time (RFC3339 or YYYY-MM-DD); default now")
	fermLogCmd.Flags().Float64("gravity", 0, "Gravity (SG)")
	fermLogCmd.Flags().Float64("ph", 0, "pH")
	fermLogCmd.Flags().Float64("pressure", 0, "Pressure (PSI)")
	fermLogCmd.Flags().StringP("notes", "n", "", "Reading notes")
	fermLogCmd.MarkFlagRequired("temp")

	fermSummaryCmd.Flags().String("from", "", "Window start (inclusive)")
	fermSummaryCmd.Flags().String("to", "", "Window end (inclusive)")

	fermExportCmd.Flags().StringP("out", "o", "", "Output .xlsx path")
	fermExportCmd.MarkFlagRequired("out")

	// Add subcommands
	fermCmd.AddCommand(fermLogCmd)
	fermCmd.AddCommand(fermListCmd)
	fermCmd.AddCommand(fermSummaryCmd)
	fermCmd.AddCommand(fermExportCmd)
	fermCmd.AddCommand(fermDeleteCmd)

	return fermCmd
}
