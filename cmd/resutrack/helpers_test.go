package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jonathan/resutrack/internal/types"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const driveFile = "https://drive.google.com/file/d/abc123/view?usp=sharing"

// resetFlags puts every flag back to its default so package-level commands
// can be executed repeatedly.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

type result struct {
	stdout string
	stderr string
	err    error
}

// run executes the CLI against a file store in dir with the rule classifier.
func run(t *testing.T, dir string, args ...string) result {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--store", dir, "--classifier", "rules"}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func addEntry(t *testing.T, dir, company, link string, extra ...string) string {
	t.Helper()
	res := run(t, dir, append([]string{"add", "--company", company, "--link", link}, extra...)...)
	require.NoError(t, res.err, res.stderr)
	id := strings.TrimSpace(strings.TrimPrefix(res.stdout, "Created entry "))
	require.NotEmpty(t, id)
	return id
}

func listEntries(t *testing.T, dir string) []types.ResumeEntry {
	t.Helper()
	res := run(t, dir, "list", "--json")
	require.NoError(t, res.err, res.stderr)
	var entries []types.ResumeEntry
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &entries))
	return entries
}
