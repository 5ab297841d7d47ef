package tracker

import (
	"context"
	"errors"
	"sync"

	"github.com/jonathan/resutrack/internal/classifier"
	"github.com/jonathan/resutrack/internal/types"
	"golang.org/x/sync/errgroup"
)

// Classify runs the link classifier for one entry. The entry moves to
// validating, then to valid, invalid or error. A second call while the
// entry is validating returns ErrClassificationInFlight. The classifier runs
// without holding the store lock; if the entry is deleted or its link or
// company is edited meanwhile, the verdict is discarded. Both a verdict and
// a failure are persisted; a failure clears any earlier verdict.
func (s *Store) Classify(ctx context.Context, id string) (types.ResumeEntry, error) {
	if s.classifier == nil {
		return types.ResumeEntry{}, ErrNoClassifier
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return types.ResumeEntry{}, ErrEntryNotFound
	}
	if s.entries[i].ValidationStatus == types.StatusValidating {
		s.mu.Unlock()
		return s.entries[i].Clone(), ErrClassificationInFlight
	}
	s.entries[i].ValidationStatus = types.StatusValidating
	gen := s.generation[id]
	link, company := s.entries[i].ResumeLink, s.entries[i].CompanyName
	s.mu.Unlock()

	result, err := s.classifier.Classify(ctx, link, company)

	s.mu.Lock()
	defer s.mu.Unlock()

	i = s.indexOf(id)
	if i < 0 {
		s.logger.Info().Str("id", id).Msg("entry deleted during classification, verdict discarded")
		return types.ResumeEntry{}, ErrEntryNotFound
	}
	entry := &s.entries[i]
	if s.generation[id] != gen {
		s.logger.Info().Str("id", id).Msg("entry edited during classification, verdict discarded")
		return entry.Clone(), ErrClassificationStale
	}

	if err != nil {
		var classErr *classifier.ClassificationError
		if !errors.As(err, &classErr) {
			err = &classifier.ClassificationError{Message: "classifier failed", Cause: err}
		}
		entry.ValidationStatus = types.StatusError
		entry.ValidationResult = nil
		s.logger.Warn().Err(err).Str("id", id).Msg("classification failed")
		// A previous verdict is gone from memory, so drop it from storage too.
		out := entry.Clone()
		return out, errors.Join(err, s.persist(ctx))
	}

	verdict := result
	entry.ValidationResult = &verdict
	if result.IsValid {
		entry.ValidationStatus = types.StatusValid
	} else {
		entry.ValidationStatus = types.StatusInvalid
	}
	s.logger.Info().Str("id", id).Str("status", string(entry.ValidationStatus)).Msg("entry classified")

	out := entry.Clone()
	return out, s.persist(ctx)
}

// ClassifySummary counts the outcomes of ClassifyAll.
type ClassifySummary struct {
	Valid   int
	Invalid int
	Failed  int
	Skipped int
	// Errors holds the failure for every entry that did not reach a verdict.
	Errors map[string]error
}

// ClassifyAll classifies entries in parallel, bounded by the configured
// concurrency. Entries already validating are skipped, and so are entries
// with a verdict unless force is set. Per-entry failures are reported in
// the summary; the returned error is non-nil only when ctx ends early.
func (s *Store) ClassifyAll(ctx context.Context, force bool) (ClassifySummary, error) {
	summary := ClassifySummary{Errors: make(map[string]error)}
	if s.classifier == nil {
		return summary, ErrNoClassifier
	}

	var ids []string
	s.mu.Lock()
	for _, e := range s.entries {
		switch {
		case e.ValidationStatus == types.StatusValidating:
			summary.Skipped++
		case !force && (e.ValidationStatus == types.StatusValid || e.ValidationStatus == types.StatusInvalid):
			summary.Skipped++
		default:
			ids = append(ids, e.ID)
		}
	}
	s.mu.Unlock()

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entry, err := s.Classify(gctx, id)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, ErrClassificationInFlight), errors.Is(err, ErrEntryNotFound), errors.Is(err, ErrClassificationStale):
				summary.Skipped++
			case entry.ValidationStatus == types.StatusValid:
				summary.Valid++
			case entry.ValidationStatus == types.StatusInvalid:
				summary.Invalid++
			default:
				summary.Failed++
			}
			if err != nil && !errors.Is(err, ErrClassificationInFlight) {
				summary.Errors[id] = err
			}
			return nil
		})
	}
	err := g.Wait()
	return summary, err
}
