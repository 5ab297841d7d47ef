package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jonathan/resutrack/internal/types"
	"github.com/rs/zerolog"
)

// DefaultSlotKey is the slot key used when none is configured.
const DefaultSlotKey = "resumeEntries"

// Adapter saves and loads the whole entry collection through a Slot.
type Adapter struct {
	slot       Slot
	quarantine Slot
	logger     zerolog.Logger
	now        func() time.Time
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithLogger sets the logger used for read failures and repairs.
func WithLogger(l zerolog.Logger) AdapterOption {
	return func(a *Adapter) { a.logger = l }
}

// WithQuarantine keeps a copy of any blob that fails to decode in q before
// the next save overwrites it.
func WithQuarantine(q Slot) AdapterOption {
	return func(a *Adapter) { a.quarantine = q }
}

// WithClock overrides the time source for the savedAt stamp.
func WithClock(now func() time.Time) AdapterOption {
	return func(a *Adapter) { a.now = now }
}

// NewAdapter creates an Adapter over slot.
func NewAdapter(slot Slot, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		slot:   slot,
		logger: zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Key returns the slot key.
func (a *Adapter) Key() string {
	return a.slot.Key()
}

// Save writes the full ordered collection.
func (a *Adapter) Save(ctx context.Context, entries []types.ResumeEntry) error {
	data, err := Encode(entries, a.now())
	if err != nil {
		return &StorageWriteError{Key: a.slot.Key(), Cause: err}
	}
	if err := a.slot.Write(ctx, data); err != nil {
		return &StorageWriteError{Key: a.slot.Key(), Cause: err}
	}
	a.logger.Debug().Str("key", a.slot.Key()).Int("entries", len(entries)).Msg("saved entries")
	return nil
}

// Load returns the stored collection. It never fails: an empty slot yields
// an empty list, and an unreadable one is logged and treated as empty.
func (a *Adapter) Load(ctx context.Context) []types.ResumeEntry {
	report, err := a.LoadChecked(ctx)
	if err != nil {
		a.logger.Error().Err(err).Str("key", a.slot.Key()).Msg("stored entries unreadable, starting empty")
		return []types.ResumeEntry{}
	}
	return report.Entries
}

// LoadReport describes a checked load.
type LoadReport struct {
	Entries     []types.ResumeEntry
	FromVersion int
	Migrated    bool
	Empty       bool
	SavedAt     *time.Time
	Dropped     []string
}

// LoadChecked loads the collection and reports read failures as
// *StorageReadError.
func (a *Adapter) LoadChecked(ctx context.Context) (*LoadReport, error) {
	data, err := a.slot.Read(ctx)
	if errors.Is(err, ErrSlotEmpty) {
		return &LoadReport{Entries: []types.ResumeEntry{}, FromVersion: CurrentSchemaVersion, Empty: true}, nil
	}
	if err != nil {
		return nil, &StorageReadError{Key: a.slot.Key(), Cause: err}
	}

	decoded, err := Decode(data)
	if errors.Is(err, ErrSlotEmpty) {
		return &LoadReport{Entries: []types.ResumeEntry{}, FromVersion: CurrentSchemaVersion, Empty: true}, nil
	}
	if err != nil {
		return nil, &StorageReadError{Key: a.slot.Key(), Cause: err, QuarantineKey: a.keepCorrupt(ctx, data)}
	}

	for _, note := range decoded.Dropped {
		a.logger.Warn().Str("key", a.slot.Key()).Msg(note)
	}
	if decoded.Migrated() {
		a.logger.Info().
			Str("key", a.slot.Key()).
			Int("from_version", decoded.FromVersion).
			Int("to_version", CurrentSchemaVersion).
			Msg("migrated stored entries")
	}

	return &LoadReport{
		Entries:     decoded.Entries,
		FromVersion: decoded.FromVersion,
		Migrated:    decoded.Migrated(),
		SavedAt:     decoded.SavedAt,
		Dropped:     decoded.Dropped,
	}, nil
}

// keepCorrupt copies data to the quarantine slot and returns its key, or
// "" when nothing was written.
func (a *Adapter) keepCorrupt(ctx context.Context, data []byte) string {
	if a.quarantine == nil {
		return ""
	}
	if err := a.quarantine.Write(ctx, data); err != nil {
		a.logger.Error().Err(err).Str("key", a.quarantine.Key()).Msg("failed to quarantine unreadable entries")
		return ""
	}
	a.logger.Warn().Str("key", a.quarantine.Key()).Msg("unreadable entries copied to quarantine slot")
	return a.quarantine.Key()
}

// Close closes the underlying slots.
func (a *Adapter) Close() error {
	var errs []error
	if err := a.slot.Close(); err != nil {
		errs = append(errs, err)
	}
	if a.quarantine != nil {
		if err := a.quarantine.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
