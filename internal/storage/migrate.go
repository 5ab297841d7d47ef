package storage

import "fmt"

// CurrentSchemaVersion is the envelope version written by Save.
//
// Version history:
//
//	0  bare JSON array; verdicts carry linkValidationTips
//	1  verdicts carry tips; entries may carry note and image
//	2  entries carry examDate and interviewDate
//	3  versioned envelope; in-progress classification state is not stored
const CurrentSchemaVersion = 3

// rawEntry is an entry as a generic JSON object, the shape migrations work on.
type rawEntry = map[string]any

// migration upgrades entries from version N to N+1.
type migration func(entries []rawEntry) error

// migrations is indexed by source version.
var migrations = []migration{
	0: migrateV0ToV1,
	1: migrateV1ToV2,
	2: migrateV2ToV3,
}

// Migrate upgrades entries in place from version `from` to CurrentSchemaVersion.
func Migrate(entries []rawEntry, from int) error {
	if from > CurrentSchemaVersion {
		return &UnsupportedVersionError{Version: from}
	}
	if from < 0 {
		return fmt.Errorf("invalid schema version %d", from)
	}
	for v := from; v < CurrentSchemaVersion; v++ {
		if err := migrations[v](entries); err != nil {
			return fmt.Errorf("migration from version %d failed: %w", v, err)
		}
	}
	return nil
}

// migrateV0ToV1 renames the verdict rationale key.
func migrateV0ToV1(entries []rawEntry) error {
	for _, e := range entries {
		result, ok := e["validationResult"].(map[string]any)
		if !ok {
			continue
		}
		if tips, ok := result["linkValidationTips"]; ok {
			if _, exists := result["tips"]; !exists {
				result["tips"] = tips
			}
			delete(result, "linkValidationTips")
		}
	}
	return nil
}

// migrateV1ToV2 adds the optional exam and interview dates as explicit nulls.
func migrateV1ToV2(entries []rawEntry) error {
	for _, e := range entries {
		for _, key := range []string{"examDate", "interviewDate"} {
			if _, ok := e[key]; !ok {
				e[key] = nil
			}
		}
	}
	return nil
}

// migrateV2ToV3 strips in-progress classification flags. A verdict is kept
// only when it is complete.
func migrateV2ToV3(entries []rawEntry) error {
	for _, e := range entries {
		delete(e, "validationStatus")
		delete(e, "isValidating")

		result, ok := e["validationResult"].(map[string]any)
		if !ok {
			delete(e, "validationResult")
			continue
		}
		_, hasVerdict := result["isValid"].(bool)
		tips, hasTips := result["tips"].(string)
		if !hasVerdict || !hasTips || tips == "" {
			delete(e, "validationResult")
		}
	}
	return nil
}
