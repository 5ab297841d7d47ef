package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/resutrack/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndList(t *testing.T) {
	dir := t.TempDir()

	first := addEntry(t, dir, "Acme", driveFile, "--stipend", "1200", "--date", "2025-03-01")
	second := addEntry(t, dir, "Globex", "https://example.com/cv.pdf")

	entries := listEntries(t, dir)
	require.Len(t, entries, 2)
	assert.Equal(t, second, entries[0].ID, "newest first")
	assert.Equal(t, first, entries[1].ID)
	assert.Equal(t, 1200.0, entries[1].Stipend)
	assert.Equal(t, types.StatusPending, entries[1].ValidationStatus)

	res := run(t, dir, "list")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "COMPANY")
	assert.Contains(t, res.stdout, "Acme")
	assert.Contains(t, res.stdout, "Globex")

	_, err := os.Stat(filepath.Join(dir, "resumeEntries.json"))
	assert.NoError(t, err, "file backend writes the slot")
}

func TestAdd_ValidationErrors(t *testing.T) {
	dir := t.TempDir()

	res := run(t, dir, "add", "--company", " ", "--link", "not a url", "--stipend", "-4")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "3 invalid field(s)")
	assert.Contains(t, res.stderr, "companyName:")
	assert.Contains(t, res.stderr, "resumeLink:")
	assert.Contains(t, res.stderr, "stipend:")

	assert.Empty(t, listEntries(t, dir))
}

func TestAdd_DateAndTimePick(t *testing.T) {
	dir := t.TempDir()
	id := addEntry(t, dir, "Acme", driveFile, "--exam", "2025-04-02", "--exam-time", "14:30")

	res := run(t, dir, "show", id, "--json")
	require.NoError(t, res.err)
	var e types.ResumeEntry
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &e))
	require.NotNil(t, e.ExamDate)
	local := e.ExamDate.Local()
	assert.Equal(t, 2, local.Day())
	assert.Equal(t, 14, local.Hour())
	assert.Equal(t, 30, local.Minute())
	assert.Nil(t, e.InterviewDate)
}

func TestAdd_TimeWithoutDate(t *testing.T) {
	res := run(t, t.TempDir(), "add", "--company", "Acme", "--link", driveFile, "--interview-time", "10:00")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "interview")
}

func TestAdd_Image(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(t.TempDir(), "note.png")
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	require.NoError(t, os.WriteFile(imgPath, buf.Bytes(), 0o600))

	id := addEntry(t, dir, "Acme", driveFile, "--image", imgPath)

	res := run(t, dir, "show", id)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "image/png attached")

	res = run(t, dir, "edit", id, "--image", "")
	require.NoError(t, res.err)
	res = run(t, dir, "show", id)
	assert.NotContains(t, res.stdout, "attached")
}
