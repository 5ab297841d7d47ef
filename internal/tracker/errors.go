package tracker

import "errors"

var (
	// ErrEntryNotFound is returned for ids that are not in the collection.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrClassificationInFlight is returned when an entry is already validating.
	ErrClassificationInFlight = errors.New("classification already in progress")
	// ErrClassificationStale is returned when the entry's link or company
	// changed while its classification ran; the verdict is discarded.
	ErrClassificationStale = errors.New("entry changed during classification, result discarded")
	// ErrNoClassifier is returned by Classify when the store has no classifier.
	ErrNoClassifier = errors.New("no classifier configured")
)
