package validation

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resutrack/internal/types"
)

// Mode selects create or update semantics.
type Mode int

// Parse modes. On create an omitted registration date defaults to now; on
// update it is required, since the edit form always carries it.
const (
	ModeCreate Mode = iota
	ModeUpdate
)

// earliestDate is the lower bound for any date the form accepts.
var earliestDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// entryRules carries the struct-tag rules checked by go-playground/validator.
type entryRules struct {
	CompanyName string `validate:"required"`
	ResumeLink  string `validate:"required,url"`
}

var ruleFields = map[string]string{
	"CompanyName": "companyName",
	"ResumeLink":  "resumeLink",
}

// Validator coerces FormInput into a ResumeEntry or reports field errors.
type Validator struct {
	validate      *validator.Validate
	location      *time.Location
	maxImageBytes int
}

// Option configures a Validator.
type Option func(*Validator)

// WithLocation sets the zone used for dates typed without one.
func WithLocation(loc *time.Location) Option {
	return func(v *Validator) {
		if loc != nil {
			v.location = loc
		}
	}
}

// WithMaxImageBytes overrides the image size limit.
func WithMaxImageBytes(n int) Option {
	return func(v *Validator) {
		if n > 0 {
			v.maxImageBytes = n
		}
	}
}

// New creates a Validator.
func New(opts ...Option) *Validator {
	v := &Validator{
		validate:      validator.New(),
		location:      time.Local,
		maxImageBytes: MaxImageBytes,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Parse validates input and returns an entry without an ID. Every field is
// checked on every call; the returned error is a *ValidationError listing
// all failing fields.
func (v *Validator) Parse(in types.FormInput, mode Mode, now time.Time) (types.ResumeEntry, error) {
	verr := &ValidationError{}
	entry := types.ResumeEntry{
		CompanyName: strings.TrimSpace(in.CompanyName),
		ResumeLink:  strings.TrimSpace(in.ResumeLink),
		Note:        in.Note,
	}

	v.checkRules(entry, verr)
	if _, failed := verr.Fields["resumeLink"]; !failed && entry.ResumeLink != "" {
		if err := checkAbsoluteURL(entry.ResumeLink); err != nil {
			verr.add(&InvalidURLError{Field: "resumeLink", Value: entry.ResumeLink, Cause: err})
		}
	}

	entry.RegistrationDate = v.parseRegistrationDate(in.RegistrationDate, mode, now, verr)

	stipend, err := CoerceStipend(string(in.Stipend))
	var negErr *NegativeValueError
	if errors.As(err, &negErr) {
		verr.add(negErr)
	}
	entry.Stipend = stipend

	entry.ExamDate = v.parseOptionalDate("examDate", in.ExamDate, verr)
	entry.InterviewDate = v.parseOptionalDate("interviewDate", in.InterviewDate, verr)

	entry.Image = v.parseImage(in, verr)

	if err := verr.orNil(); err != nil {
		return types.ResumeEntry{}, err
	}
	return entry, nil
}

func (v *Validator) checkRules(entry types.ResumeEntry, verr *ValidationError) {
	err := v.validate.Struct(entryRules{CompanyName: entry.CompanyName, ResumeLink: entry.ResumeLink})
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return
	}
	for _, fe := range fieldErrs {
		field := ruleFields[fe.StructField()]
		switch fe.Tag() {
		case "required":
			verr.add(&RequiredFieldError{Field: field})
		case "url":
			verr.add(&InvalidURLError{Field: field, Value: entry.ResumeLink})
		}
	}
}

// checkAbsoluteURL requires a scheme and a host; the url tag alone accepts
// forms like "mailto:x".
func checkAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return errors.New("scheme and host are required")
	}
	return nil
}

func (v *Validator) parseRegistrationDate(raw string, mode Mode, now time.Time, verr *ValidationError) time.Time {
	if strings.TrimSpace(raw) == "" {
		if mode == ModeCreate {
			return now
		}
		verr.add(&RequiredFieldError{Field: "registrationDate"})
		return time.Time{}
	}
	t, err := ParseDateTime(raw, v.location)
	if err != nil {
		verr.add(&InvalidDateError{Field: "registrationDate", Value: raw, Reason: "not a valid date"})
		return time.Time{}
	}
	endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	if t.Before(earliestDate) || t.After(endOfToday) {
		verr.add(&InvalidDateError{Field: "registrationDate", Value: raw, Reason: "must be between 1900-01-01 and today", kind: KindOutOfRange})
		return time.Time{}
	}
	return t
}

func (v *Validator) parseOptionalDate(field, raw string, verr *ValidationError) *time.Time {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	t, err := ParseDateTime(raw, v.location)
	if err != nil {
		verr.add(&InvalidDateError{Field: field, Value: raw, Reason: "not a valid date-time"})
		return nil
	}
	return &t
}

func (v *Validator) parseImage(in types.FormInput, verr *ValidationError) string {
	var (
		uri string
		err error
	)
	switch {
	case in.Upload != nil:
		uri, err = EncodeImage(in.Upload.Data, v.maxImageBytes)
	case strings.TrimSpace(in.Image) != "":
		uri, err = NormalizeDataURI(in.Image, v.maxImageBytes)
	default:
		return ""
	}
	if err != nil {
		var imgErr *ImageError
		if errors.As(err, &imgErr) {
			verr.add(imgErr)
		}
		return ""
	}
	return uri
}

// CoerceStipend converts the stipend box content to a number. Empty or
// non-numeric input becomes 0; a negative number is rejected.
func CoerceStipend(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, nil
	}
	if n < 0 {
		return 0, &NegativeValueError{Field: "stipend", Value: n}
	}
	return n, nil
}

// FormFromEntry renders an entry back into form input, the way an edit
// dialog is pre-filled.
func FormFromEntry(e types.ResumeEntry) types.FormInput {
	in := types.FormInput{
		CompanyName:      e.CompanyName,
		ResumeLink:       e.ResumeLink,
		RegistrationDate: e.RegistrationDate.Format(time.RFC3339Nano),
		Stipend:          types.LooseNumber(strconv.FormatFloat(e.Stipend, 'f', -1, 64)),
		Note:             e.Note,
		Image:            e.Image,
	}
	if e.ExamDate != nil {
		in.ExamDate = e.ExamDate.Format(time.RFC3339Nano)
	}
	if e.InterviewDate != nil {
		in.InterviewDate = e.InterviewDate.Format(time.RFC3339Nano)
	}
	return in
}
