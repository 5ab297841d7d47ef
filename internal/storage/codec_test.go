package storage

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jonathan/resutrack/internal/schemas"
	"github.com/jonathan/resutrack/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntries() []types.ResumeEntry {
	exam := time.Date(2025, time.April, 2, 14, 30, 0, 0, time.UTC)
	return []types.ResumeEntry{
		{
			ID:               "b2",
			CompanyName:      "Globex",
			ResumeLink:       "https://example.com/cv.pdf",
			RegistrationDate: time.Date(2025, time.March, 10, 8, 0, 0, 0, time.FixedZone("IST", 5*3600+1800)),
			Stipend:          1200.5,
			ExamDate:         &exam,
			Note:             "follow up",
			ValidationStatus: types.StatusValid,
			ValidationResult: &types.ValidationResult{IsValid: true, Tips: "Direct file link."},
		},
		{
			ID:               "a1",
			CompanyName:      "Acme",
			ResumeLink:       "https://drive.google.com/file/d/abc123/view",
			RegistrationDate: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			ValidationStatus: types.StatusPending,
		},
	}
}

func assertSameEntries(t *testing.T, want, got []types.ResumeEntry) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		w, g := want[i], got[i]
		assert.Equal(t, w.ID, g.ID)
		assert.Equal(t, w.CompanyName, g.CompanyName)
		assert.Equal(t, w.ResumeLink, g.ResumeLink)
		assert.True(t, w.RegistrationDate.Equal(g.RegistrationDate), "registrationDate %s != %s", w.RegistrationDate, g.RegistrationDate)
		assert.Equal(t, w.Stipend, g.Stipend)
		assertSameOptionalTime(t, w.ExamDate, g.ExamDate)
		assertSameOptionalTime(t, w.InterviewDate, g.InterviewDate)
		assert.Equal(t, w.Note, g.Note)
		assert.Equal(t, w.Image, g.Image)
		assert.Equal(t, w.ValidationStatus, g.ValidationStatus)
		assert.Equal(t, w.ValidationResult, g.ValidationResult)
	}
}

func assertSameOptionalTime(t *testing.T, want, got *time.Time) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got)
		return
	}
	require.NotNil(t, got)
	assert.True(t, want.Equal(*got), "%s != %s", want, *got)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	entries := sampleEntries()

	data, err := Encode(entries, time.Now())
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, decoded.FromVersion)
	assert.False(t, decoded.Migrated())
	assert.Empty(t, decoded.Dropped)
	require.NotNil(t, decoded.SavedAt)
	assertSameEntries(t, entries, decoded.Entries)
}

func TestEncode_MatchesSchema(t *testing.T) {
	data, err := Encode(sampleEntries(), time.Now())
	require.NoError(t, err)

	assert.NoError(t, schemas.Validate("entries.schema.json", data))
}

func TestEncode_NullOptionalDates(t *testing.T) {
	data, err := Encode(sampleEntries()[1:], time.Now())
	require.NoError(t, err)

	var env struct {
		Entries []map[string]any `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(data, &env))
	require.Len(t, env.Entries, 1)

	examDate, present := env.Entries[0]["examDate"]
	assert.True(t, present)
	assert.Nil(t, examDate)
	assert.NotContains(t, env.Entries[0], "validationResult")
}

func TestEncode_SkipsUnfinishedVerdicts(t *testing.T) {
	entries := sampleEntries()
	entries[0].ValidationStatus = types.StatusValidating

	data, err := Encode(entries, time.Now())
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, types.StatusPending, decoded.Entries[0].ValidationStatus)
	assert.Nil(t, decoded.Entries[0].ValidationResult)
}

func TestDecode_LegacyArray(t *testing.T) {
	blob := `[
		{
			"id": "1700000000000",
			"companyName": "Acme",
			"resumeLink": "https://drive.google.com/file/d/abc/view",
			"registrationDate": "2024-11-05T10:15:00.000Z",
			"stipend": "15000",
			"isValidating": false,
			"validationResult": {"isValid": false, "linkValidationTips": "This is a folder link."}
		}
	]`

	decoded, err := Decode([]byte(blob))
	require.NoError(t, err)
	assert.Equal(t, 0, decoded.FromVersion)
	assert.True(t, decoded.Migrated())
	require.Len(t, decoded.Entries, 1)

	e := decoded.Entries[0]
	assert.Equal(t, 15000.0, e.Stipend)
	assert.True(t, e.RegistrationDate.Equal(time.Date(2024, time.November, 5, 10, 15, 0, 0, time.UTC)))
	assert.Nil(t, e.ExamDate)
	assert.Nil(t, e.InterviewDate)
	assert.Equal(t, types.StatusInvalid, e.ValidationStatus)
	require.NotNil(t, e.ValidationResult)
	assert.Equal(t, "This is a folder link.", e.ValidationResult.Tips)
}

func TestDecode_RepairsFields(t *testing.T) {
	blob := `{"schemaVersion": 3, "entries": [
		{"id": "a", "companyName": "A", "resumeLink": "https://a.example/cv.pdf",
		 "registrationDate": "2025-01-01T00:00:00Z", "stipend": -20,
		 "examDate": "whenever", "interviewDate": null, "image": "not-a-data-uri"},
		{"id": "b", "companyName": "B", "resumeLink": "https://b.example/cv.pdf",
		 "registrationDate": null},
		{"id": "c", "companyName": "C", "resumeLink": "https://c.example/cv.pdf",
		 "registrationDate": "garbage"},
		{"id": "a", "companyName": "A again", "resumeLink": "https://a.example/cv.pdf",
		 "registrationDate": "2025-01-02T00:00:00Z"}
	]}`

	decoded, err := Decode([]byte(blob))
	require.NoError(t, err)
	require.Len(t, decoded.Entries, 1)

	e := decoded.Entries[0]
	assert.Equal(t, "A", e.CompanyName)
	assert.Equal(t, 0.0, e.Stipend)
	assert.Nil(t, e.ExamDate)
	assert.Nil(t, e.InterviewDate)
	assert.Empty(t, e.Image)
	assert.Len(t, decoded.Dropped, 6)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"not json", `{{{`},
		{"scalar", `42`},
		{"envelope without version", `{"entries": []}`},
		{"newer version", `{"schemaVersion": 99, "entries": []}`},
		{"entry without id", `{"schemaVersion": 3, "entries": [{"companyName": "A", "resumeLink": "x"}]}`},
		{"null entry", `[null]`},
		{"stipend of wrong type", `{"schemaVersion": 3, "entries": [{"id": "a", "companyName": "A", "resumeLink": "x", "stipend": true}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.blob))
			assert.Error(t, err)
		})
	}
}

func TestDecode_NewerVersionError(t *testing.T) {
	_, err := Decode([]byte(`{"schemaVersion": 4, "entries": []}`))

	var verr *UnsupportedVersionError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 4, verr.Version)
}

func TestMigrate_Steps(t *testing.T) {
	entries := []rawEntry{{
		"id":               "x",
		"validationStatus": "validating",
		"validationResult": map[string]any{"isValid": true, "linkValidationTips": "ok"},
	}}

	require.NoError(t, Migrate(entries, 0))

	e := entries[0]
	assert.Contains(t, e, "examDate")
	assert.Contains(t, e, "interviewDate")
	assert.NotContains(t, e, "validationStatus")
	assert.Equal(t, map[string]any{"isValid": true, "tips": "ok"}, e["validationResult"])
}

func TestMigrate_DropsIncompleteVerdict(t *testing.T) {
	entries := []rawEntry{{"id": "x", "validationResult": map[string]any{"isValid": true}}}

	require.NoError(t, Migrate(entries, 2))
	assert.NotContains(t, entries[0], "validationResult")
}
