// Package classifier judges from URL structure alone whether a resume link
// is likely a direct, publicly viewable document. It never fetches the link.
package classifier

import (
	"context"
	"net/url"

	"github.com/jonathan/resutrack/internal/types"
)

// Result is a classifier verdict: a binary judgment plus a rationale.
type Result = types.ValidationResult

// Classifier judges one resume link. Implementations may be
// non-deterministic; only the Result shape is guaranteed. Any failure to
// reach a verdict is returned as *ClassificationError.
type Classifier interface {
	Classify(ctx context.Context, resumeLink, companyName string) (Result, error)
}

// Func adapts a function to the Classifier interface.
type Func func(ctx context.Context, resumeLink, companyName string) (Result, error)

// Classify calls f.
func (f Func) Classify(ctx context.Context, resumeLink, companyName string) (Result, error) {
	return f(ctx, resumeLink, companyName)
}

func parseLink(resumeLink string) (*url.URL, error) {
	u, err := url.Parse(resumeLink)
	if err != nil {
		return nil, &ClassificationError{Message: "resume link is not a URL", Cause: err}
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, &ClassificationError{Message: "resume link must be an absolute URL"}
	}
	return u, nil
}
