// Package storage persists the entry collection in a single key-value slot.
package storage

import (
	"errors"
	"fmt"
)

// ErrSlotEmpty is returned by Slot.Read when nothing has been written yet.
var ErrSlotEmpty = errors.New("slot is empty")

// StorageReadError represents a slot that exists but cannot be turned into
// entries. Callers treat it as an empty collection.
type StorageReadError struct {
	Key   string
	Cause error
	// QuarantineKey names the slot holding a copy of the unreadable bytes.
	// Empty when no copy was written.
	QuarantineKey string
}

func (e *StorageReadError) Error() string {
	return fmt.Sprintf("storage read error: slot %q: %v", e.Key, e.Cause)
}

func (e *StorageReadError) Unwrap() error {
	return e.Cause
}

// StorageWriteError represents a failed save; the in-memory collection is
// ahead of the durable copy.
type StorageWriteError struct {
	Key   string
	Cause error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("changes may not be saved: slot %q: %v", e.Key, e.Cause)
}

func (e *StorageWriteError) Unwrap() error {
	return e.Cause
}

// UnsupportedVersionError represents a blob written by a newer release.
type UnsupportedVersionError struct {
	Version int
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("schema version %d is newer than supported version %d", e.Version, CurrentSchemaVersion)
}
