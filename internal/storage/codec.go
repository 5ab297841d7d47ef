package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/resutrack/internal/schemas"
	"github.com/jonathan/resutrack/internal/types"
	"github.com/jonathan/resutrack/internal/validation"
	embedded "github.com/jonathan/resutrack/schemas"
)

// savedEntry is the on-disk shape of one entry.
type savedEntry struct {
	ID               string                  `json:"id"`
	CompanyName      string                  `json:"companyName"`
	ResumeLink       string                  `json:"resumeLink"`
	RegistrationDate string                  `json:"registrationDate"`
	Stipend          float64                 `json:"stipend"`
	ExamDate         *string                 `json:"examDate"`
	InterviewDate    *string                 `json:"interviewDate"`
	Note             string                  `json:"note,omitempty"`
	Image            string                  `json:"image,omitempty"`
	ValidationResult *types.ValidationResult `json:"validationResult,omitempty"`
}

type savedEnvelope struct {
	SchemaVersion int          `json:"schemaVersion"`
	SavedAt       string       `json:"savedAt"`
	Entries       []savedEntry `json:"entries"`
}

// looseEntry accepts every shape a migrated entry may still have: dates as
// text or null, stipend as number, string or null.
type looseEntry struct {
	ID               string                  `json:"id"`
	CompanyName      string                  `json:"companyName"`
	ResumeLink       string                  `json:"resumeLink"`
	RegistrationDate *string                 `json:"registrationDate"`
	Stipend          types.LooseNumber       `json:"stipend"`
	ExamDate         *string                 `json:"examDate"`
	InterviewDate    *string                 `json:"interviewDate"`
	Note             *string                 `json:"note"`
	Image            *string                 `json:"image"`
	ValidationResult *types.ValidationResult `json:"validationResult"`
}

// Decoded is the outcome of decoding a slot blob.
type Decoded struct {
	Entries     []types.ResumeEntry
	FromVersion int
	SavedAt     *time.Time
	// Dropped describes every entry or field the decoder had to discard.
	Dropped []string
}

// Migrated reports whether the blob was written by an older schema version.
func (d *Decoded) Migrated() bool {
	return d.FromVersion < CurrentSchemaVersion
}

// Encode serializes entries into the current envelope.
func Encode(entries []types.ResumeEntry, savedAt time.Time) ([]byte, error) {
	env := savedEnvelope{
		SchemaVersion: CurrentSchemaVersion,
		SavedAt:       savedAt.UTC().Format(time.RFC3339Nano),
		Entries:       make([]savedEntry, 0, len(entries)),
	}
	for _, e := range entries {
		se := savedEntry{
			ID:               e.ID,
			CompanyName:      e.CompanyName,
			ResumeLink:       e.ResumeLink,
			RegistrationDate: e.RegistrationDate.Format(time.RFC3339Nano),
			Stipend:          e.Stipend,
			ExamDate:         formatOptional(e.ExamDate),
			InterviewDate:    formatOptional(e.InterviewDate),
			Note:             e.Note,
			Image:            e.Image,
		}
		if e.ValidationStatus.IsTerminal() && e.ValidationStatus != types.StatusError && e.ValidationResult != nil {
			r := *e.ValidationResult
			se.ValidationResult = &r
		}
		env.Entries = append(env.Entries, se)
	}
	return json.Marshal(env)
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339Nano)
	return &s
}

// Decode parses a slot blob of any known version, migrates it, checks it
// against the envelope schema and repairs typed fields.
func Decode(data []byte) (*Decoded, error) {
	version, rawEntries, err := splitEnvelope(data)
	if err != nil {
		return nil, err
	}

	if err := Migrate(rawEntries, version); err != nil {
		return nil, err
	}

	migrated, err := json.Marshal(map[string]any{
		"schemaVersion": CurrentSchemaVersion,
		"entries":       rawEntries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode migrated entries: %w", err)
	}
	if err := schemas.Validate(embedded.Entries, migrated); err != nil {
		return nil, err
	}

	var env struct {
		Entries []looseEntry `json:"entries"`
	}
	if err := json.Unmarshal(migrated, &env); err != nil {
		return nil, fmt.Errorf("failed to decode entries: %w", err)
	}

	out := &Decoded{FromVersion: version, Entries: make([]types.ResumeEntry, 0, len(env.Entries))}
	out.SavedAt = savedAtOf(data)

	seen := make(map[string]bool, len(env.Entries))
	for i, le := range env.Entries {
		if seen[le.ID] {
			out.Dropped = append(out.Dropped, fmt.Sprintf("entry %d (%s): duplicate id", i, le.ID))
			continue
		}
		entry, notes, ok := repair(le)
		for _, n := range notes {
			out.Dropped = append(out.Dropped, fmt.Sprintf("entry %d (%s): %s", i, le.ID, n))
		}
		if !ok {
			continue
		}
		seen[le.ID] = true
		out.Entries = append(out.Entries, entry)
	}
	return out, nil
}

// splitEnvelope detects the blob version and returns its entries as
// generic objects. A bare array is version 0.
func splitEnvelope(data []byte) (int, []rawEntry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return 0, nil, ErrSlotEmpty
	}

	switch trimmed[0] {
	case '[':
		var entries []rawEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return 0, nil, fmt.Errorf("malformed entry array: %w", err)
		}
		entries, err := nonNil(entries)
		return 0, entries, err
	case '{':
		var env struct {
			SchemaVersion *int       `json:"schemaVersion"`
			Entries       []rawEntry `json:"entries"`
		}
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return 0, nil, fmt.Errorf("malformed envelope: %w", err)
		}
		if env.SchemaVersion == nil {
			return 0, nil, errors.New("envelope has no schemaVersion")
		}
		entries, err := nonNil(env.Entries)
		return *env.SchemaVersion, entries, err
	default:
		return 0, nil, errors.New("blob is neither an array nor an envelope")
	}
}

func nonNil(entries []rawEntry) ([]rawEntry, error) {
	if entries == nil {
		return []rawEntry{}, nil
	}
	for i, e := range entries {
		if e == nil {
			return nil, fmt.Errorf("entry %d is null", i)
		}
	}
	return entries, nil
}

func savedAtOf(data []byte) *time.Time {
	var env struct {
		SavedAt string `json:"savedAt"`
	}
	if json.Unmarshal(data, &env) != nil || env.SavedAt == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, env.SavedAt)
	if err != nil {
		return nil
	}
	return &t
}

// repair turns a loosely typed entry into a ResumeEntry. ok is false when the
// entry cannot be kept.
func repair(le looseEntry) (types.ResumeEntry, []string, bool) {
	var notes []string

	if le.RegistrationDate == nil || strings.TrimSpace(*le.RegistrationDate) == "" {
		return types.ResumeEntry{}, []string{"dropped: registrationDate is missing"}, false
	}
	registered, err := validation.ParseDateTime(*le.RegistrationDate, time.UTC)
	if err != nil {
		return types.ResumeEntry{}, []string{fmt.Sprintf("dropped: registrationDate %q is not a date", *le.RegistrationDate)}, false
	}

	entry := types.ResumeEntry{
		ID:               le.ID,
		CompanyName:      le.CompanyName,
		ResumeLink:       le.ResumeLink,
		RegistrationDate: registered,
		ValidationStatus: types.StatusPending,
	}

	stipend, err := validation.CoerceStipend(string(le.Stipend))
	if err != nil {
		notes = append(notes, fmt.Sprintf("stipend %s reset to 0", le.Stipend))
	}
	entry.Stipend = stipend

	entry.ExamDate, notes = repairOptionalDate("examDate", le.ExamDate, notes)
	entry.InterviewDate, notes = repairOptionalDate("interviewDate", le.InterviewDate, notes)

	if le.Note != nil {
		entry.Note = *le.Note
	}
	if le.Image != nil && *le.Image != "" {
		if _, _, err := validation.DecodeDataURI(*le.Image); err != nil {
			notes = append(notes, "image discarded: "+err.Error())
		} else {
			entry.Image = *le.Image
		}
	}

	if r := le.ValidationResult; r != nil && r.Tips != "" {
		result := *r
		entry.ValidationResult = &result
		if r.IsValid {
			entry.ValidationStatus = types.StatusValid
		} else {
			entry.ValidationStatus = types.StatusInvalid
		}
	}
	return entry, notes, true
}

func repairOptionalDate(field string, raw *string, notes []string) (*time.Time, []string) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, notes
	}
	t, err := validation.ParseDateTime(*raw, time.UTC)
	if err != nil {
		return nil, append(notes, fmt.Sprintf("%s %q cleared", field, *raw))
	}
	return &t, notes
}
