package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/jonathan/resutrack/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	exam := time.Date(2025, time.April, 2, 14, 30, 0, 0, time.UTC)
	entries := []types.ResumeEntry{
		{
			ID:               "1",
			CompanyName:      "Acme",
			ResumeLink:       "https://example.com/cv.pdf",
			RegistrationDate: time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC),
			Stipend:          1500,
			ExamDate:         &exam,
			Note:             "referral",
			Image:            "data:image/png;base64,AAAA",
			ValidationStatus: types.StatusValid,
		},
		{
			ID:               "2",
			CompanyName:      "Globex",
			ResumeLink:       "https://drive.google.com/drive/folders/x",
			RegistrationDate: time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, entries))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, Headers, rows[0])
	assert.Equal(t, []string{"Acme", "https://example.com/cv.pdf", "2025-03-01 09:00", "1500", "2025-04-02 14:30", "", "referral", "Yes", "valid"}, rows[1])

	// Trailing empty cells are trimmed by GetRows.
	assert.Equal(t, "Globex", rows[2][0])
	assert.Equal(t, "", rows[2][4])
	assert.Equal(t, "No", rows[2][7])
	assert.Equal(t, "pending", rows[2][8])
}

func TestWriteXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, Headers, rows[0])
}

func TestRow_NeverCarriesImagePayload(t *testing.T) {
	row := Row(types.ResumeEntry{Image: "data:image/png;base64,SECRET"})
	for _, cell := range row {
		if s, ok := cell.(string); ok {
			assert.NotContains(t, s, "SECRET")
		}
	}
}
