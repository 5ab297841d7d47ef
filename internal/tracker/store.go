// Package tracker owns the canonical entry collection. Every mutation runs
// validate, mutate and persist as one unit.
package tracker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resutrack/internal/classifier"
	"github.com/jonathan/resutrack/internal/storage"
	"github.com/jonathan/resutrack/internal/types"
	"github.com/jonathan/resutrack/internal/validation"
	"github.com/rs/zerolog"
)

// Persister saves and loads the whole collection.
type Persister interface {
	Save(ctx context.Context, entries []types.ResumeEntry) error
	Load(ctx context.Context) []types.ResumeEntry
}

// DefaultClassifyConcurrency bounds parallel classifier calls in ClassifyAll.
const DefaultClassifyConcurrency = 4

// Store is the in-memory collection plus selection, newest entry first.
type Store struct {
	mu       sync.Mutex
	entries  []types.ResumeEntry
	selected map[string]struct{}
	// generation changes whenever an entry's link or company changes, so a
	// verdict for the old values can be recognised and dropped.
	generation map[string]uint64

	persister   Persister
	validator   *validation.Validator
	classifier  classifier.Classifier
	logger      zerolog.Logger
	now         func() time.Time
	newID       func() string
	concurrency int
}

// Option configures a Store.
type Option func(*Store)

// WithValidator replaces the default validator.
func WithValidator(v *validation.Validator) Option {
	return func(s *Store) { s.validator = v }
}

// WithClassifier sets the link classifier.
func WithClassifier(c classifier.Classifier) Option {
	return func(s *Store) { s.classifier = c }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock overrides the time source used for default registration dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithClassifyConcurrency bounds parallel classifications in ClassifyAll.
func WithClassifyConcurrency(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// Open loads the collection through p and returns a ready Store.
func Open(ctx context.Context, p Persister, opts ...Option) *Store {
	s := &Store{
		selected:    make(map[string]struct{}),
		generation:  make(map[string]uint64),
		persister:   p,
		validator:   validation.New(),
		logger:      zerolog.Nop(),
		now:         time.Now,
		newID:       uuid.NewString,
		concurrency: DefaultClassifyConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.entries = p.Load(ctx)
	for i := range s.entries {
		if s.entries[i].ValidationStatus == "" {
			s.entries[i].ValidationStatus = types.StatusPending
		}
	}
	s.logger.Info().Int("entries", len(s.entries)).Msg("store opened")
	return s
}

// Entries returns a copy of the collection in display order.
func (s *Store) Entries() []types.ResumeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Get returns one entry by id.
func (s *Store) Get(id string) (types.ResumeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return types.ResumeEntry{}, ErrEntryNotFound
	}
	return s.entries[i].Clone(), nil
}

// Create validates input, assigns a fresh id and prepends the entry.
// On a failed write the entry is kept in memory and a
// *storage.StorageWriteError is returned alongside it.
func (s *Store) Create(ctx context.Context, in types.FormInput) (types.ResumeEntry, error) {
	entry, err := s.validator.Parse(in, validation.ModeCreate, s.now())
	if err != nil {
		return types.ResumeEntry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry.ID = s.uniqueID()
	entry.ValidationStatus = types.StatusPending
	s.entries = append([]types.ResumeEntry{entry}, s.entries...)

	s.logger.Info().Str("id", entry.ID).Str("company", entry.CompanyName).Msg("entry created")
	return entry.Clone(), s.persist(ctx)
}

// Update validates input and replaces the entry in place, keeping its id
// and position. A changed link or company resets classification.
func (s *Store) Update(ctx context.Context, id string, in types.FormInput) (types.ResumeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return types.ResumeEntry{}, ErrEntryNotFound
	}

	entry, err := s.validator.Parse(in, validation.ModeUpdate, s.now())
	if err != nil {
		return types.ResumeEntry{}, err
	}

	old := s.entries[i]
	entry.ID = old.ID
	if entry.ResumeLink == old.ResumeLink && entry.CompanyName == old.CompanyName {
		entry.ValidationStatus = old.ValidationStatus
		entry.ValidationResult = old.ValidationResult
	} else {
		entry.ValidationStatus = types.StatusPending
		entry.ValidationResult = nil
		s.generation[id]++
	}
	s.entries[i] = entry

	s.logger.Info().Str("id", id).Msg("entry updated")
	return entry.Clone(), s.persist(ctx)
}

// Delete removes the entry and its selection. Unknown ids are a no-op and
// cause no write.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	delete(s.selected, id)
	delete(s.generation, id)

	s.logger.Info().Str("id", id).Msg("entry deleted")
	return s.persist(ctx)
}

// Select adds or removes id from the selection. Unknown ids are ignored.
func (s *Store) Select(id string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !on {
		delete(s.selected, id)
		return
	}
	if s.indexOf(id) >= 0 {
		s.selected[id] = struct{}{}
	}
}

// SelectAll selects every entry, or clears the selection.
func (s *Store) SelectAll(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = make(map[string]struct{}, len(s.entries))
	if !on {
		return
	}
	for _, e := range s.entries {
		s.selected[e.ID] = struct{}{}
	}
}

// Selected returns the selected ids in display order.
func (s *Store) Selected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.selected))
	for _, e := range s.entries {
		if _, ok := s.selected[e.ID]; ok {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// IsSelected reports whether id is selected.
func (s *Store) IsSelected(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.selected[id]
	return ok
}

// DeleteSelected removes every selected entry in one pass, clears the
// selection and writes once. It returns the number removed.
func (s *Store) DeleteSelected(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.selected) == 0 {
		return 0, nil
	}

	kept := s.entries[:0]
	removed := 0
	for _, e := range s.entries {
		if _, ok := s.selected[e.ID]; ok {
			delete(s.generation, e.ID)
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	s.selected = make(map[string]struct{})

	s.logger.Info().Int("removed", removed).Msg("selected entries deleted")
	return removed, s.persist(ctx)
}

// snapshot copies the collection. Callers hold mu.
func (s *Store) snapshot() []types.ResumeEntry {
	out := make([]types.ResumeEntry, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Clone()
	}
	return out
}

func (s *Store) indexOf(id string) int {
	for i := range s.entries {
		if s.entries[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) uniqueID() string {
	for {
		id := s.newID()
		if id != "" && s.indexOf(id) < 0 {
			return id
		}
	}
}

// persist writes the full collection. Callers hold mu.
func (s *Store) persist(ctx context.Context) error {
	err := s.persister.Save(ctx, s.snapshot())
	if err == nil {
		return nil
	}
	s.logger.Error().Err(err).Msg("changes may not be saved")

	var writeErr *storage.StorageWriteError
	if errors.As(err, &writeErr) {
		return err
	}
	return &storage.StorageWriteError{Cause: err}
}
