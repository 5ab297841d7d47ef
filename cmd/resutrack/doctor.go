package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/jonathan/resutrack/internal/config"
	"github.com/jonathan/resutrack/internal/storage"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the stored entries and configuration",
	Long: "Read the stored collection and report its schema version, entry count and any " +
		"entries that had to be repaired or dropped. The collection itself is never " +
		"rewritten; an unreadable one is copied to a separate quarantine slot before the " +
		"command fails.",
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	a, err := openStorage(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "backend:\t%s\n", a.cfg.Backend)
	fmt.Fprintf(tw, "slot:\t%s\n", a.adapter.Key())
	fmt.Fprintf(tw, "classifier:\t%s\n", classifierMode(a.cfg))

	report, err := a.adapter.LoadChecked(cmd.Context())
	if err != nil {
		fmt.Fprintf(tw, "status:\tunreadable\n")
		_ = tw.Flush()
		var readErr *storage.StorageReadError
		if errors.As(err, &readErr) && readErr.QuarantineKey != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "a copy was kept under %s\n", readErr.QuarantineKey)
		}
		return err
	}

	switch {
	case report.Empty:
		fmt.Fprintf(tw, "status:\tempty\n")
	case report.Migrated:
		fmt.Fprintf(tw, "status:\tok, schema v%d will be upgraded to v%d on next save\n", report.FromVersion, storage.CurrentSchemaVersion)
	default:
		fmt.Fprintf(tw, "status:\tok, schema v%d\n", report.FromVersion)
	}
	fmt.Fprintf(tw, "entries:\t%d\n", len(report.Entries))
	if report.SavedAt != nil {
		fmt.Fprintf(tw, "saved at:\t%s\n", report.SavedAt.Local().Format("2006-01-02 15:04:05"))
	}
	for _, note := range report.Dropped {
		fmt.Fprintf(tw, "repaired:\t%s\n", note)
	}
	return tw.Flush()
}

func classifierMode(cfg config.Config) string {
	switch cfg.Classifier {
	case config.ClassifierRules:
		return "rules"
	case config.ClassifierLLM:
		return "llm"
	}
	if cfg.APIKey != "" {
		return "auto (llm)"
	}
	return "auto (rules, no GEMINI_API_KEY)"
}
