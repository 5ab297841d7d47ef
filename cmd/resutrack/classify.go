package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [id]",
	Short: "Check whether resume links look directly shareable",
	Long: "Judge from the URL alone whether a resume link points at a single, publicly " +
		"viewable document. With --all every entry without a verdict is checked; --force " +
		"re-checks entries that already have one. The link itself is never fetched.",
	Args: cobra.MaximumNArgs(1),
	RunE: runClassify,
}

var (
	classifyAll   bool
	classifyForce bool
)

func init() {
	classifyCmd.Flags().BoolVar(&classifyAll, "all", false, "Check every entry")
	classifyCmd.Flags().BoolVar(&classifyForce, "force", false, "With --all, re-check entries that already have a verdict")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	if classifyAll == (len(args) == 1) {
		return fmt.Errorf("give an id or --all")
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	if !classifyAll {
		entry, err := a.store.Classify(cmd.Context(), args[0])
		if entry.ID != "" {
			fmt.Fprintf(out, "%s  %s\n", entry.CompanyName, statusLine(entry))
		}
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		return nil
	}

	summary, err := a.store.ClassifyAll(cmd.Context(), classifyForce)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "valid: %d  invalid: %d  failed: %d  skipped: %d\n",
		summary.Valid, summary.Invalid, summary.Failed, summary.Skipped)

	ids := make([]string, 0, len(summary.Errors))
	for id := range summary.Errors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %v\n", id, summary.Errors[id])
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d %s could not be checked", summary.Failed, plural(summary.Failed, "entry", "entries"))
	}
	return nil
}
