package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/jonathan/resutrack/internal/export"
	"github.com/jonathan/resutrack/internal/types"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List resume submissions, newest first",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print entries as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	entries := a.store.Entries()
	if listJSON {
		return writeJSON(cmd.OutOrStdout(), entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No entries yet. Add one with: resutrack add --company NAME --link URL")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCOMPANY\tREGISTERED\tSTIPEND\tEXAM\tINTERVIEW\tLINK CHECK")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID,
			e.CompanyName,
			e.RegistrationDate.Local().Format(export.DateLayout),
			strconv.FormatFloat(e.Stipend, 'f', -1, 64),
			optionalDate(e.ExamDate),
			optionalDate(e.InterviewDate),
			e.ValidationStatus,
		)
	}
	return tw.Flush()
}

func optionalDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(export.DateLayout)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func statusLine(e types.ResumeEntry) string {
	if e.ValidationResult == nil {
		return string(e.ValidationStatus)
	}
	return fmt.Sprintf("%s: %s", e.ValidationStatus, e.ValidationResult.Tips)
}
