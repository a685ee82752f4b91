package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/brewctl/internal/ports/primary"
	"github.com/example/brewctl/internal/wire"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Manage production batches",
	Long:  "Plan batches and move them through the brewing lifecycle",
}

var batchCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Plan a new batch",
	Long: `Plan a new batch in PLANNED status. The batch number is assigned
automatically (BATCH-001, BATCH-002, ...).

Examples:
  brewctl batch create --recipe pale-ale --location fv-1 --brew-date 2026-10-01 --expected-volume 100`,
	RunE: func(cmd *cobra.Command, args []string) error {
		recipe, _ := cmd.Flags().GetString("recipe")
		location, _ := cmd.Flags().GetString("location")
		volume, _ := cmd.Flags().GetFloat64("expected-volume")
		notes, _ := cmd.Flags().GetString("notes")
		brewDate, err := timeFlag(cmd, "brew-date")
		if err != nil {
			return err
		}

		return wire.BatchAdapter().Create(NewContext(), primary.CreateBatchRequest{
			RecipeID:       recipe,
			LocationID:     location,
			BrewDate:       brewDate,
			ExpectedVolume: volume,
			Notes:          notes,
		})
	},
}

var batchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List batches",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		return wire.BatchAdapter().List(NewContext(), status)
	},
}

var batchShowCmd = &cobra.Command{
	Use:   "show [batch]",
	Short: "Show batch details and history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		verify, _ := cmd.Flags().GetBool("verify")
		return wire.BatchAdapter().Show(NewContext(), args[0], verify)
	},
}

var batchTransitionCmd = &cobra.Command{
	Use:   "transition [batch] [status]",
	Short: "Move a batch to a new status",
	Long: `Move a batch to the next lifecycle status, or to CANCELLED.

OG may be recorded from BREWING, actual volume from FERMENTING and FG from
PACKAGING. Gravity values are SG unless --unit plato is given.

Examples:
  brewctl batch transition BATCH-001 brewing --og 1.050
  brewctl batch transition BATCH-001 fermenting --actual-volume 95
  brewctl batch transition BATCH-001 packaging --fg 2.5 --unit plato`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		notes, _ := cmd.Flags().GetString("notes")

		return wire.BatchAdapter().Transition(NewContext(), primary.TransitionBatchRequest{
			BatchRef:     args[0],
			TargetStatus: args[1],
			OG:           optionalGravity(cmd, "og"),
			FG:           optionalGravity(cmd, "fg"),
			ActualVolume: optionalFloat(cmd, "actual-volume"),
			Notes:        notes,
		})
	},
}

var batchCancelCmd = &cobra.Command{
	Use:   "cancel [batch]",
	Short: "Cancel a batch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		notes, _ := cmd.Flags().GetString("notes")
		return wire.BatchAdapter().Cancel(NewContext(), args[0], notes)
	},
}

var batchNotesCmd = &cobra.Command{
	Use:   "notes [batch] [text]",
	Short: "Replace a batch's notes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.BatchAdapter().UpdateNotes(NewContext(), args[0], args[1])
	},
}

var batchDeleteCmd = &cobra.Command{
	Use:   "delete [batch]",
	Short: "Delete a batch with its logs and QC tests",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.BatchAdapter().Delete(NewContext(), args[0])
	},
}

var batchStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show production statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.BatchAdapter().Stats(NewContext())
	},
}

var batchCalendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show the production calendar",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		return wire.BatchAdapter().Calendar(NewContext(), status)
	},
}

// BatchCmd returns the batch command
func BatchCmd() *cobra.Command {
	// Add flags
	batchCreateCmd.Flags().StringP("recipe", "r", "", "Recipe ID")
	batchCreateCmd.Flags().StringP("location", "l", "", "Location (vessel) ID")
	batchCreateCmd.Flags().String("brew-date", "", "Brew date (YYYY-MM-DD or RFC3339)")
	batchCreateCmd.Flags().Float64("expected-volume", 0, "Expected volume")
	batchCreateCmd.Flags().StringP("notes", "n", "", "Batch notes")
	batchCreateCmd.MarkFlagRequired("recipe")
	batchCreateCmd.MarkFlagRequired("location")
	batchCreateCmd.MarkFlagRequired("brew-date")
	batchCreateCmd.MarkFlagRequired("expected-volume")

	batchListCmd.Flags().StringP("status", "s", "", "Filter by status (planned, brewing, fermenting, ...)")
	batchShowCmd.Flags().Bool("verify", false, "Check the stored history is a valid lifecycle")

	batchTransitionCmd.Flags().Float64("og", 0, "Original gravity")
	batchTransitionCmd.Flags().Float64("fg", 0, "Final gravity")
	batchTransitionCmd.Flags().StringP("unit", "u", "SG", "Gravity unit for --og/--fg (sg or plato)")
	batchTransitionCmd.Flags().Float64("actual-volume", 0, "Actual volume")
	batchTransitionCmd.Flags().StringP("notes", "n", "", "Note recorded with the transition")

	batchCancelCmd.Flags().StringP("notes", "n", "", "Reason for cancelling")
	batchCalendarCmd.Flags().StringP("status", "s", "", "Filter by status")

	// Add subcommands
	batchCmd.AddCommand(batchCreateCmd)
	batchCmd.AddCommand(batchListCmd)
	batchCmd.AddCommand(batchShowCmd)
	batchCmd.AddCommand(batchTransitionCmd)
	batchCmd.AddCommand(batchCancelCmd)
	batchCmd.AddCommand(batchNotesCmd)
	batchCmd.AddCommand(batchDeleteCmd)
	batchCmd.AddCommand(batchStatsCmd)
	batchCmd.AddCommand(batchCalendarCmd)

	return batchCmd
}
