package main

import (
	"fmt"
	"os"

	"github.com/jonathan/resutrack/internal/export"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export submissions to an .xlsx spreadsheet",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var exportOut string

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", export.DefaultFilename, "Output file, - for stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	a, err := openStorage(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	entries := a.adapter.Load(cmd.Context())

	if exportOut == "-" {
		return export.WriteXLSX(cmd.OutOrStdout(), entries)
	}

	f, err := os.Create(exportOut)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", exportOut, err)
	}
	if err := export.WriteXLSX(f, entries); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", exportOut, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOut, err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d %s to %s\n", len(entries), plural(len(entries), "entry", "entries"), exportOut)
	return nil
}
