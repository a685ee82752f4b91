package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/brewctl/internal/ports/primary"
	"github.com/example/brewctl/internal/wire"
)

var qcCmd = &cobra.Command{
	Use:   "qc",
	Short: "Quality-control test types and results",
}

var qcTypeCmd = &cobra.Command{
	Use:   "type",
	Short: "Manage QC test types",
}

var qcTypeAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Define a QC test type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		unit, _ := cmd.Flags().GetString("unit")
		description, _ := cmd.Flags().GetString("description")

		return wire.QCAdapter().AddType(NewContext(), primary.CreateTestTypeRequest{
			Name:        args[0],
			Category:    category,
			Unit:        unit,
			MinValue:    optionalFloat(cmd, "min"),
			MaxValue:    optionalFloat(cmd, "max"),
			Description: description,
		})
	},
}

var qcTypeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List QC test types",
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.QCAdapter().ListTypes(NewContext())
	},
}

var qcTypeImportCmd = &cobra.Command{
	Use:   "import [file.yaml]",
	Short: "Import test types from a YAML catalogue",
	Long: `Import test types from a YAML catalogue. Types whose name already
exists are updated in place.

Example catalogue:
  test_types:
    - name: pH
      category: chemistry
      min: 4.0
      max: 4.6`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.QCAdapter().Import(NewContext(), args[0])
	},
}

var qcTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Record and list QC tests",
}

var qcTestAddCmd = &cobra.Command{
	Use:   "add [batch]",
	Short: "Record a QC test on a batch",
	Long: `Record a QC test on a batch. --type takes a test type ID or name.
With --auto-result and no --result, the result is derived from --value and
the type's min/max band.

Examples:
  brewctl qc test add BATCH-001 --type pH --result pass --value 4.3
  brewctl qc test add BATCH-001 --type pH --value 4.9 --auto-result`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		testType, _ := cmd.Flags().GetString("type")
		result, _ := cmd.Flags().GetString("result")
		auto, _ := cmd.Flags().GetBool("auto-result")
		notes, _ := cmd.Flags().GetString("notes")

		return wire.QCAdapter().AddTest(NewContext(), primary.RecordTestRequest{
			BatchRef:   args[0],
			TestType:   testType,
			Result:     result,
			Value:      optionalFloat(cmd, "value"),
			AutoResult: auto,
			Notes:      notes,
		})
	},
}

var qcTestListCmd = &cobra.Command{
	Use:   "list",
	Short: "List QC tests",
	RunE: func(cmd *cobra.Command, args []string) error {
		batchRef, _ := cmd.Flags().GetString("batch")
		return wire.QCAdapter().ListTests(NewContext(), batchRef)
	},
}

var qcStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show QC pass/fail statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		batchRef, _ := cmd.Flags().GetString("batch")
		return wire.QCAdapter().Stats(NewContext(), batchRef)
	},
}

// QCCmd returns the qc command
func QCCmd() *cobra.Command {
	// Add flags
	qcTypeAddCmd.Flags().StringP("category", "c", "", "Test category")
	qcTypeAddCmd.Flags().String("unit", "", "Measurement unit")
	qcTypeAddCmd.Flags().Float64("min", 0, "Lower bound of the accepted band")
	qcTypeAddCmd.Flags().Float64("max", 0, "Upper bound of the accepted band")
	qcTypeAddCmd.Flags().StringP("description", "d", "", "Description")
	qcTypeAddCmd.MarkFlagRequired("category")

	qcTestAddCmd.Flags().StringP("type", "t", "", "Test type ID or name")
	qcTestAddCmd.Flags().StringP("result", "r", "", "PASS, FAIL or PENDING (default PENDING)")
	qcTestAddCmd.Flags().Float64("value", 0, "Measured value")
	qcTestAddCmd.Flags().Bool("auto-result", false, "Derive the result from --value and the type's band")
	qcTestAddCmd.Flags().StringP("notes", "n", "", "Test notes")
	qcTestAddCmd.MarkFlagRequired("type")

	qcTestListCmd.Flags().StringP("batch", "b", "", "Only tests for this batch")
	qcStatsCmd.Flags().StringP("batch", "b", "", "Only tests for this batch")

	// Add subcommands
	qcTypeCmd.AddCommand(qcTypeAddCmd)
	qcTypeCmd.AddCommand(qcTypeListCmd)
	qcTypeCmd.AddCommand(qcTypeImportCmd)
	qcTestCmd.AddCommand(qcTestAddCmd)
	qcTestCmd.AddCommand(qcTestListCmd)
	qcCmd.AddCommand(qcTypeCmd)
	qcCmd.AddCommand(qcTestCmd)
	qcCmd.AddCommand(qcStatsCmd)

	return qcCmd
}
