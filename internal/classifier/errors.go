package classifier

import (
	"errors"
	"fmt"
)

// ErrClassificationTimeout is wrapped by ClassificationError when the caller's
// deadline expires before the classifier answers.
var ErrClassificationTimeout = errors.New("classification timed out")

// ClassificationError represents a classifier that could not reach a
// verdict. It is distinct from a negative verdict and may be retried.
type ClassificationError struct {
	Message string
	Cause   error
}

func (e *ClassificationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("classification error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("classification error: %s", e.Message)
}

func (e *ClassificationError) Unwrap() error {
	return e.Cause
}

// IsTimeout reports whether err is a classification that ran out of time.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrClassificationTimeout)
}
