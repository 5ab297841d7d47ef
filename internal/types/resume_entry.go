// Package types provides type definitions for structured data used throughout the resume tracker.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// ValidationStatus is the link classification state of an entry.
type ValidationStatus string

// Classification states. An entry moves pending -> validating -> one of
// valid, invalid or error, and back to validating on retry.
const (
	StatusPending    ValidationStatus = "pending"
	StatusValidating ValidationStatus = "validating"
	StatusValid      ValidationStatus = "valid"
	StatusInvalid    ValidationStatus = "invalid"
	StatusError      ValidationStatus = "error"
)

// IsTerminal reports whether the status is a completed classification.
func (s ValidationStatus) IsTerminal() bool {
	return s == StatusValid || s == StatusInvalid || s == StatusError
}

// ValidationResult is the verdict attached to an entry after classification.
type ValidationResult struct {
	IsValid bool   `json:"isValid"`
	Tips    string `json:"tips"`
}

// ResumeEntry is one tracked job application.
type ResumeEntry struct {
	ID               string     `json:"id"`
	CompanyName      string     `json:"companyName"`
	ResumeLink       string     `json:"resumeLink"`
	RegistrationDate time.Time  `json:"registrationDate"`
	Stipend          float64    `json:"stipend"`
	ExamDate         *time.Time `json:"examDate"`
	InterviewDate    *time.Time `json:"interviewDate"`
	Note             string     `json:"note,omitempty"`
	Image            string     `json:"image,omitempty"` // data URI

	// Classification state. Only a completed valid or invalid verdict is
	// persisted; the status is derived from it on load.
	ValidationStatus ValidationStatus  `json:"validationStatus,omitempty"`
	ValidationResult *ValidationResult `json:"validationResult,omitempty"`
}

// HasAttachment reports whether the entry carries a note or an image.
func (e *ResumeEntry) HasAttachment() bool {
	return e.Note != "" || e.Image != ""
}

// Clone returns a deep copy of the entry so callers cannot mutate store state.
func (e ResumeEntry) Clone() ResumeEntry {
	out := e
	if e.ExamDate != nil {
		t := *e.ExamDate
		out.ExamDate = &t
	}
	if e.InterviewDate != nil {
		t := *e.InterviewDate
		out.InterviewDate = &t
	}
	if e.ValidationResult != nil {
		r := *e.ValidationResult
		out.ValidationResult = &r
	}
	return out
}
