// Package content holds the append-only collection of dropped content.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sandevgo/geodrop/internal/core"
	"github.com/sandevgo/geodrop/pkg/log"
)

// PersistErrorHandler is told about persistence failures. The repository
// keeps working in memory regardless.
type PersistErrorHandler func(ctx context.Context, err error)

type Repository struct {
	kv  core.KVStore
	key string

	mu       sync.RWMutex
	records  []core.ContentRecord
	ids      map[int64]struct{}
	lastID   int64
	degraded bool

	onPersistError PersistErrorHandler
}

func NewRepository(kv core.KVStore, key string) *Repository {
	return &Repository{
		kv:  kv,
		key: key,
		ids: make(map[int64]struct{}),
	}
}

// OnPersistError registers the handler for read and write failures.
func (r *Repository) OnPersistError(fn PersistErrorHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onPersistError = fn
}

// Load replaces the in-memory collection with the persisted one. Missing,
// malformed or unreadable data yields an empty collection; it never fails.
func (r *Repository) Load(ctx context.Context) []core.ContentRecord {
	logger := log.FromCtx(ctx)

	records, err := r.read(ctx)

	r.mu.Lock()
	if err != nil {
		records = nil
		if isReadFailure(err) {
			// Writing now would clobber data we could not see
			r.degraded = true
		}
	}
	r.replace(records)
	handler := r.onPersistError
	out := r.snapshot()
	r.mu.Unlock()

	if err != nil {
		logger.Warn().Err(err).Str("key", r.key).Msg("stored content unusable, starting empty")
		if handler != nil {
			handler(ctx, err)
		}
	}

	logger.Info().Int("count", len(out)).Msg("loaded AR content items")
	return out
}

type readError struct{ err error }

func (e *readError) Error() string { return e.err.Error() }
func (e *readError) Unwrap() error { return e.err }

func isReadFailure(err error) bool {
	var re *readError
	return errors.As(err, &re)
}

func (r *Repository) read(ctx context.Context) ([]core.ContentRecord, error) {
	raw, ok, err := r.kv.Get(ctx, r.key)
	if err != nil {
		return nil, &readError{err: fmt.Errorf("failed to read content: %w", err)}
	}
	if !ok || raw == "" {
		return nil, nil
	}

	if err := validateCollection(raw); err != nil {
		return nil, err
	}

	var records []core.ContentRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("failed to parse content: %w", err)
	}
	return records, nil
}

// replace must be called with mu held.
func (r *Repository) replace(records []core.ContentRecord) {
	r.records = make([]core.ContentRecord, 0, len(records))
	r.ids = make(map[int64]struct{}, len(records))
	r.lastID = 0
	for _, rec := range records {
		if _, dup := r.ids[rec.ID]; dup {
			continue
		}
		r.records = append(r.records, rec)
		r.ids[rec.ID] = struct{}{}
		if rec.ID > r.lastID {
			r.lastID = rec.ID
		}
	}
}

// Append adds record and rewrites the full collection. Duplicate ids are
// rejected without any change. A persistence failure is reported and the
// repository stays in memory for the rest of the session; the record is
// still appended.
func (r *Repository) Append(ctx context.Context, record core.ContentRecord) error {
	logger := log.FromCtx(ctx)

	r.mu.Lock()
	if _, dup := r.ids[record.ID]; dup {
		r.mu.Unlock()
		return fmt.Errorf("%w: %d", core.ErrDuplicateID, record.ID)
	}

	r.records = append(r.records, record)
	r.ids[record.ID] = struct{}{}
	if record.ID > r.lastID {
		r.lastID = record.ID
	}

	var persistErr error
	if !r.degraded {
		persistErr = r.persist(ctx)
		if persistErr != nil {
			r.degraded = true
		}
	}
	handler := r.onPersistError
	r.mu.Unlock()

	if persistErr != nil {
		logger.Error().Err(persistErr).Str("key", r.key).Msg("content kept in memory only")
		if handler != nil {
			handler(ctx, persistErr)
		}
	}

	logger.Debug().Int64("id", record.ID).Msg("AR content appended")
	return nil
}

// persist must be called with mu held.
func (r *Repository) persist(ctx context.Context) error {
	raw, err := json.Marshal(r.records)
	if err != nil {
		return fmt.Errorf("failed to marshal content: %w", err)
	}
	if err := r.kv.Set(ctx, r.key, string(raw)); err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}
	return nil
}

// All returns a copy of the collection in append order.
func (r *Repository) All() []core.ContentRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot()
}

func (r *Repository) snapshot() []core.ContentRecord {
	out := make([]core.ContentRecord, len(r.records))
	copy(out, r.records)
	return out
}

func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// NextID returns a creation-time id (Unix milliseconds) greater than every
// id already stored.
func (r *Repository) NextID(now time.Time) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id := now.UnixMilli()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	return id
}

// Degraded reports whether writes have been suspended for this session.
func (r *Repository) Degraded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.degraded
}
