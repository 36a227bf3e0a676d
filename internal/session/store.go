package session

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/seedcraft/fluxmcp/internal/platform/errors"
)

// Limits caps a store's live record count and aggregate artifact bytes.
// Zero values mean unbounded.
type Limits struct {
	MaxCount int
	MaxBytes int64
}

// Store is a mutex-guarded in-memory record store keyed by identifier.
// Mutations and identifier reservation serialize on one writer lock; reads
// take the shared lock, so an overwrite is observed old-or-new, never mixed.
type Store[A any] struct {
	mu       sync.RWMutex
	kind     string
	emptyID  errors.Code
	notFound errors.Code
	sizeOf   func(A) int64
	limits   Limits
	records  map[string]A
	sizes    map[string]int64
	bytes    int64
	reserved map[string]struct{}
}

// newStore creates a store for one artifact kind. sizeOf reports the
// artifact byte footprint used against Limits.MaxBytes.
func newStore[A any](kind string, emptyID, notFound errors.Code, sizeOf func(A) int64, limits Limits) *Store[A] {
	return &Store[A]{
		kind:     kind,
		emptyID:  emptyID,
		notFound: notFound,
		sizeOf:   sizeOf,
		limits:   limits,
		records:  make(map[string]A),
		sizes:    make(map[string]int64),
		reserved: make(map[string]struct{}),
	}
}

// Put inserts or overwrites the record under id. Overwriting replaces the
// record wholesale. Capacity limits apply only when the id is new; a
// rejected insert leaves the store unchanged.
func (s *Store[A]) Put(ctx context.Context, id string, record A) error {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if s == nil {
		return errors.New(errors.CodeUnknown, "store is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New(s.emptyID, s.kindLabel()+" id is required")
	}

	size := s.sizeOf(record)

	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.records[id]
	if !exists {
		if err := s.checkCapacityLocked(len(s.records)+1, s.bytes+size, id); err != nil {
			return err
		}
	}

	s.bytes += size - s.sizes[id]
	s.records[id] = record
	s.sizes[id] = size
	delete(s.reserved, id)
	return nil
}

// Get retrieves the record stored under id.
func (s *Store[A]) Get(ctx context.Context, id string) (A, error) {
	var zero A
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
	}
	if s == nil {
		return zero, errors.New(errors.CodeUnknown, "store is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return zero, errors.New(s.emptyID, s.kindLabel()+" id is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return zero, s.notFoundError(id)
	}
	return record, nil
}

// Exists reports whether a live record is stored under id. It never fails.
func (s *Store[A]) Exists(id string) bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[strings.TrimSpace(id)]
	return ok
}

// IDs returns the live record identifiers in sorted order. Sorting is for
// stable output only; callers needing chronology must read record metadata.
func (s *Store[A]) IDs() []string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Delete removes the record stored under id. Deleting an absent id fails
// with the store's not-found code so callers can distinguish "already gone"
// from success.
func (s *Store[A]) Delete(ctx context.Context, id string) error {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if s == nil {
		return errors.New(errors.CodeUnknown, "store is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New(s.emptyID, s.kindLabel()+" id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return s.notFoundError(id)
	}
	s.bytes -= s.sizes[id]
	delete(s.records, id)
	delete(s.sizes, id)
	return nil
}

// Clear removes every record and pending reservation. Idempotent.
func (s *Store[A]) Clear() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]A)
	s.sizes = make(map[string]int64)
	s.reserved = make(map[string]struct{})
	s.bytes = 0
}

// Count returns the number of live records.
func (s *Store[A]) Count() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Bytes returns the aggregate artifact byte footprint of live records.
func (s *Store[A]) Bytes() int64 {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bytes
}

// Limits returns the store's configured capacity limits.
func (s *Store[A]) Limits() Limits {
	if s == nil {
		return Limits{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.limits
}

// CheckCapacity is the predicate Put consults before inserting a new id:
// it fails with CAPACITY_EXCEEDED when the proposed count or byte total
// would exceed the configured limits.
func (s *Store[A]) CheckCapacity(proposedCount int, proposedBytes int64) error {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.checkCapacityLocked(proposedCount, proposedBytes, "")
}

func (s *Store[A]) checkCapacityLocked(proposedCount int, proposedBytes int64, id string) error {
	if s.limits.MaxCount > 0 && proposedCount > s.limits.MaxCount {
		metadata := map[string]string{
			"kind":      s.kind,
			"limit":     fmt.Sprintf("%d", s.limits.MaxCount),
			"attempted": fmt.Sprintf("%d", proposedCount),
		}
		if id != "" {
			metadata["id"] = id
		}
		return errors.WithMetadata(errors.CodeCapacityExceeded,
			fmt.Sprintf("%s store is full (%d of %d records); delete a %s or reset the session",
				s.kindLabel(), proposedCount-1, s.limits.MaxCount, s.kindLabel()),
			metadata)
	}
	if s.limits.MaxBytes > 0 && proposedBytes > s.limits.MaxBytes {
		metadata := map[string]string{
			"kind":      s.kind,
			"limit":     fmt.Sprintf("%d", s.limits.MaxBytes),
			"attempted": fmt.Sprintf("%d", proposedBytes),
		}
		if id != "" {
			metadata["id"] = id
		}
		return errors.WithMetadata(errors.CodeCapacityExceeded,
			fmt.Sprintf("%s store byte limit reached (%d of %d bytes)",
				s.kindLabel(), proposedBytes, s.limits.MaxBytes),
			metadata)
	}
	return nil
}

// setLimits replaces the store's capacity limits.
func (s *Store[A]) setLimits(limits Limits) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limits = limits
}

// reserve atomically issues an identifier that is neither stored nor already
// reserved. generate is called under the store lock until it produces a free
// candidate, so two concurrent callers can never be issued the same id.
// The reservation is released when a record is stored under the id or the
// store is cleared.
func (s *Store[A]) reserve(generate func() (string, error)) (string, error) {
	if s == nil {
		return "", errors.New(errors.CodeUnknown, "store is not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		candidate, err := generate()
		if err != nil {
			return "", err
		}
		if s.freeLocked(candidate) {
			s.reserved[candidate] = struct{}{}
			return candidate, nil
		}
	}
}

// reserveSequence is reserve for name-derived identifiers: compose is called
// with attempt numbers 1, 2, 3, ... until it yields a free candidate.
func (s *Store[A]) reserveSequence(compose func(attempt int) string) (string, error) {
	if s == nil {
		return "", errors.New(errors.CodeUnknown, "store is not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for attempt := 1; ; attempt++ {
		candidate := compose(attempt)
		if s.freeLocked(candidate) {
			s.reserved[candidate] = struct{}{}
			return candidate, nil
		}
	}
}

func (s *Store[A]) freeLocked(id string) bool {
	if id == "" {
		return false
	}
	if _, taken := s.records[id]; taken {
		return false
	}
	if _, taken := s.reserved[id]; taken {
		return false
	}
	return true
}

func (s *Store[A]) notFoundError(id string) *errors.Error {
	return errors.WithMetadata(s.notFound,
		fmt.Sprintf("no %s is stored under id %q", s.kindLabel(), id),
		map[string]string{"id": id})
}

func (s *Store[A]) kindLabel() string {
	if s == nil || s.kind == "" {
		return "record"
	}
	return s.kind
}
