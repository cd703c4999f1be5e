package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all trades as CSV",
	Long: `Write every trade to CSV. The output imports back unchanged.

Examples:
  tradejournal export > trades.csv
  tradejournal export -o trades.csv`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var exportOutput string

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file; stdout when empty")
}

func runExport(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	recs, err := e.store.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list trades: %w", err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOutput, err)
		}
		defer f.Close()
		w = f
	}

	if err := journal.WriteCSV(w, recs); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if exportOutput != "" {
		e.log.WithField("trades", len(recs)).Infof("exported to %s", exportOutput)
	}
	return nil
}
