package cmd

import (
	"fmt"
	"os"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/server"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import trades from a broker CSV",
	Long: `Import trades from a CSV file.

Columns are detected from the header by name (symbol, side, open price,
profit, ...). Use --map to point a field at a column the detector does
not recognise. Rows that fail validation are reported and skipped.

Examples:
  tradejournal import statement.csv
  tradejournal import export.csv --map symbol=Instrument --map pnl="Net P/L"`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var importMap []string

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringArrayVar(&importMap, "map", nil, "field=Header column mapping (repeatable)")
}

func runImport(cmd *cobra.Command, args []string) error {
	cols, err := server.ParseColumnMap(importMap)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	loc, err := e.cfg.Location()
	if err != nil {
		return err
	}
	im := journal.Importer{Store: e.store, Columns: cols, Location: loc, Log: e.log}
	res, err := im.Import(cmd.Context(), f)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Imported %d of %d rows (batch %s)\n", res.Imported, res.Rows, res.BatchID)
	for _, fail := range res.Failed {
		fmt.Fprintf(out, "  row %d: %s\n", fail.Row, fail.Err)
	}
	return nil
}
