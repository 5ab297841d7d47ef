package main

import (
	"errors"
	"fmt"

	"github.com/jonathan/resutrack/internal/tracker"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id> [id...]",
	Aliases: []string{"rm"},
	Short:   "Delete one or more resume submissions",
	Long: "Delete entries by id. Several ids are selected and removed together with a " +
		"single write. Unknown ids are skipped.",
	RunE: runDelete,
}

var deleteAll bool

func init() {
	deleteCmd.Flags().BoolVar(&deleteAll, "all", false, "Delete every entry")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if deleteAll == (len(args) > 0) {
		return fmt.Errorf("give one or more ids, or --all")
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		id := args[0]
		if _, err := a.store.Get(id); errors.Is(err, tracker.ErrEntryNotFound) {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipping unknown id %s\n", id)
			fmt.Fprintln(out, "Deleted 0 entries")
			return nil
		}
		if err := a.store.Delete(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintln(out, "Deleted 1 entry")
		return nil
	}

	if deleteAll {
		a.store.SelectAll(true)
	}
	for _, id := range args {
		if !a.store.IsSelected(id) {
			if _, err := a.store.Get(id); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipping unknown id %s\n", id)
				continue
			}
		}
		a.store.Select(id, true)
	}

	removed, err := a.store.DeleteSelected(cmd.Context())
	fmt.Fprintf(out, "Deleted %d %s\n", removed, plural(removed, "entry", "entries"))
	return err
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
