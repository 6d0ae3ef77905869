package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sheetstack/internal/compiler"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compile the ready folder without the interactive UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		result, err := compiler.New(cfg).Run(cmd.Context(), nil)
		if compiler.IsEmptyBatch(err) {
			fmt.Println("Nothing to process.")
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Printf("Combined %d file(s) into %s\n", len(result.Processed), result.OutputFile)
		fmt.Printf("Rows: %d\n", result.RowsOut)
		fmt.Printf("Columns: %s\n", strings.Join(result.Columns, ", "))
		if len(result.Skipped) > 0 {
			fmt.Printf("Skipped %d file(s); see logs\n", len(result.Skipped))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
