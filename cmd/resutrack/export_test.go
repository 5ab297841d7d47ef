package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExport(t *testing.T) {
	dir := t.TempDir()
	addEntry(t, dir, "Acme", driveFile, "--stipend", "900")
	out := filepath.Join(t.TempDir(), "out.xlsx")

	res := run(t, dir, "export", "--out", out)
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stderr, "Exported 1 entry")

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Acme", rows[1][0])
}
