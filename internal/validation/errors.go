// Package validation turns raw form input into well-typed resume entries.
package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Kind classifies a field-level validation failure.
type Kind string

// Field failure kinds.
const (
	KindRequired      Kind = "required"
	KindInvalidURL    Kind = "invalid_url"
	KindInvalidDate   Kind = "invalid_date"
	KindOutOfRange    Kind = "out_of_range"
	KindNegative      Kind = "negative"
	KindImageType     Kind = "image_type"
	KindImageSize     Kind = "image_size"
	KindImageEncoding Kind = "image_encoding"
)

// FieldError is implemented by every per-field failure.
type FieldError interface {
	error
	FieldName() string
	Kind() Kind
}

// RequiredFieldError indicates a required field was empty or absent
type RequiredFieldError struct {
	Field string
}

func (e *RequiredFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// FieldName returns the offending field.
func (e *RequiredFieldError) FieldName() string { return e.Field }

// Kind returns KindRequired.
func (e *RequiredFieldError) Kind() Kind { return KindRequired }

// InvalidURLError indicates a value that is not an absolute URL
type InvalidURLError struct {
	Field string
	Value string
	Cause error
}

func (e *InvalidURLError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s must be a valid URL: %q: %v", e.Field, e.Value, e.Cause)
	}
	return fmt.Sprintf("%s must be a valid URL: %q", e.Field, e.Value)
}

func (e *InvalidURLError) Unwrap() error { return e.Cause }

// FieldName returns the offending field.
func (e *InvalidURLError) FieldName() string { return e.Field }

// Kind returns KindInvalidURL.
func (e *InvalidURLError) Kind() Kind { return KindInvalidURL }

// InvalidDateError indicates an unparseable or out-of-range date
type InvalidDateError struct {
	Field  string
	Value  string
	Reason string
	kind   Kind
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("%s: %s: %q", e.Field, e.Reason, e.Value)
}

// FieldName returns the offending field.
func (e *InvalidDateError) FieldName() string { return e.Field }

// Kind returns KindInvalidDate or KindOutOfRange.
func (e *InvalidDateError) Kind() Kind {
	if e.kind == "" {
		return KindInvalidDate
	}
	return e.kind
}

// NegativeValueError indicates a numeric field below zero
type NegativeValueError struct {
	Field string
	Value float64
}

func (e *NegativeValueError) Error() string {
	return fmt.Sprintf("%s must be non-negative, got %g", e.Field, e.Value)
}

// FieldName returns the offending field.
func (e *NegativeValueError) FieldName() string { return e.Field }

// Kind returns KindNegative.
func (e *NegativeValueError) Kind() Kind { return KindNegative }

// ImageError indicates a rejected image attachment
type ImageError struct {
	Field    string
	Reason   Kind
	MIMEType string
	Size     int
	Limit    int
	Cause    error
}

func (e *ImageError) Error() string {
	switch e.Reason {
	case KindImageType:
		return fmt.Sprintf("%s: unsupported image type %s (allowed: %s)", e.Field, e.MIMEType, strings.Join(AllowedImageTypes(), ", "))
	case KindImageSize:
		return fmt.Sprintf("%s: image is %d bytes, maximum is %d bytes", e.Field, e.Size, e.Limit)
	default:
		if e.Cause != nil {
			return fmt.Sprintf("%s: invalid image data: %v", e.Field, e.Cause)
		}
		return fmt.Sprintf("%s: invalid image data", e.Field)
	}
}

func (e *ImageError) Unwrap() error { return e.Cause }

// FieldName returns the offending field.
func (e *ImageError) FieldName() string { return e.Field }

// Kind returns the image failure kind.
func (e *ImageError) Kind() Kind { return e.Reason }

// ValidationError collects every field failure of one parse, keyed by field
type ValidationError struct {
	Fields map[string]FieldError
}

func (e *ValidationError) Error() string {
	names := e.FieldNames()
	var sb strings.Builder
	sb.WriteString("validation failed:")
	for _, name := range names {
		sb.WriteString("\n  ")
		sb.WriteString(e.Fields[name].Error())
	}
	return sb.String()
}

// Unwrap exposes the field errors to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	out := make([]error, 0, len(e.Fields))
	for _, name := range e.FieldNames() {
		out = append(out, e.Fields[name])
	}
	return out
}

// FieldNames returns the failing field names in sorted order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Messages returns field name -> user-facing message.
func (e *ValidationError) Messages() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for name, fe := range e.Fields {
		out[name] = fe.Error()
	}
	return out
}

func (e *ValidationError) add(fe FieldError) {
	if e.Fields == nil {
		e.Fields = make(map[string]FieldError)
	}
	if _, exists := e.Fields[fe.FieldName()]; exists {
		return
	}
	e.Fields[fe.FieldName()] = fe
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
