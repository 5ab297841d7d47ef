//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
)

// FormInput is the loosely typed input a front-end collects for an entry.
// Dates are text as typed or picked; Stipend is whatever the number box held.
type FormInput struct {
	CompanyName      string      `json:"companyName"`
	ResumeLink       string      `json:"resumeLink"`
	RegistrationDate string      `json:"registrationDate,omitempty"`
	Stipend          LooseNumber `json:"stipend,omitempty"`
	ExamDate         string      `json:"examDate,omitempty"`
	InterviewDate    string      `json:"interviewDate,omitempty"`
	Note             string      `json:"note,omitempty"`

	// Image is either an existing data URI or empty. Upload carries raw
	// bytes from a file picker and takes precedence when set.
	Image  string       `json:"image,omitempty"`
	Upload *ImageUpload `json:"-"`
}

// ImageUpload is a raw image file chosen by the user.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// LooseNumber holds a numeric form value exactly as typed. It decodes from a
// JSON number, a JSON string or null so API clients may send either.
type LooseNumber string

// UnmarshalJSON implements json.Unmarshaler.
func (n *LooseNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*n = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = LooseNumber(s)
	default:
		*n = LooseNumber(data)
	}
	return nil
}
