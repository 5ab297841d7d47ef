package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Backend names a Slot implementation.
type Backend string

// Supported backends.
const (
	BackendFile     Backend = "file"
	BackendRedis    Backend = "redis"
	BackendPostgres Backend = "postgres"
)

// quarantineSuffix is appended to the slot key for the corrupt-blob copy.
const quarantineSuffix = ".corrupt"

// Options selects and configures a backend.
type Options struct {
	Backend     Backend
	Dir         string // file backend
	Key         string
	RedisURL    string
	DatabaseURL string
	Logger      zerolog.Logger
}

// Open connects the configured backend and returns an Adapter with a
// quarantine slot next to the main one.
func Open(ctx context.Context, opts Options) (*Adapter, error) {
	key := opts.Key
	if key == "" {
		key = DefaultSlotKey
	}

	var slot, quarantine Slot
	switch opts.Backend {
	case BackendFile, "":
		fs, err := NewFileSlot(opts.Dir, key)
		if err != nil {
			return nil, err
		}
		slot = fs
		quarantine = &FileSlot{dir: fs.dir, key: key + quarantineSuffix}
	case BackendRedis:
		rs, err := OpenRedisSlot(ctx, opts.RedisURL, key)
		if err != nil {
			return nil, err
		}
		slot, quarantine = rs, rs.Sibling(key+quarantineSuffix)
	case BackendPostgres:
		ps, err := OpenPostgresSlot(ctx, opts.DatabaseURL, key)
		if err != nil {
			return nil, err
		}
		slot, quarantine = ps, ps.Sibling(key+quarantineSuffix)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}

	opts.Logger.Info().Str("backend", string(opts.Backend)).Str("key", key).Msg("storage opened")
	return NewAdapter(slot,
		WithLogger(opts.Logger),
		WithQuarantine(quarantine),
	), nil
}
