package store

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"fleet-client/internal/domain"
)

// Record is an entity that can live in a Store.
type Record[T any] interface {
	GetID() string
	Clone() T
}

// Patch is a shallow partial update of T.
type Patch[T any] interface {
	Apply(*T)
}

// Clock supplies the current time to stores that stamp records.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

type uniqueKey[T any] struct {
	key func(T) string
	err error
}

// Store is a normalized, ordered collection of records keyed by id.
//
// The ordered view puts the most recently added record first; SetAll keeps
// the order it was given. All reads return copies, and every mutation runs
// under the store's lock so it is atomic with respect to other callers.
type Store[T Record[T]] struct {
	mu      sync.RWMutex
	items   map[string]T
	order   []string
	check   func(T) error
	replace func(old, next T) error
	uniques []uniqueKey[T]
}

// Option configures a Store.
type Option[T Record[T]] func(*Store[T])

// WithCheck adds a record-level invariant check run on every write.
func WithCheck[T Record[T]](check func(T) error) Option[T] {
	return func(s *Store[T]) {
		prev := s.check
		s.check = func(v T) error {
			if prev != nil {
				if err := prev(v); err != nil {
					return err
				}
			}
			return check(v)
		}
	}
}

// WithReplaceCheck adds a check run whenever an existing record is
// overwritten, by Put or by Mutate. It sees the stored and the incoming copy.
func WithReplaceCheck[T Record[T]](check func(old, next T) error) Option[T] {
	return func(s *Store[T]) {
		prev := s.replace
		s.replace = func(old, next T) error {
			if prev != nil {
				if err := prev(old, next); err != nil {
					return err
				}
			}
			return check(old, next)
		}
	}
}

// WithUnique enforces uniqueness of a secondary key. Empty keys are ignored.
func WithUnique[T Record[T]](key func(T) string, err error) Option[T] {
	return func(s *Store[T]) {
		s.uniques = append(s.uniques, uniqueKey[T]{key: key, err: err})
	}
}

// New returns an empty store. Records are validated with domain.Validate.
func New[T Record[T]](opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		items: make(map[string]T),
		check: func(v T) error { return domain.Validate(v) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store[T]) validate(v T) error {
	if strings.TrimSpace(v.GetID()) == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidRecord)
	}
	if s.check != nil {
		if err := s.check(v); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
		}
	}
	return nil
}

// Check validates a batch as SetAll would, without changing the store.
func (s *Store[T]) Check(records []T) error {
	seenIDs := make(map[string]struct{}, len(records))
	seenKeys := make([]map[string]struct{}, len(s.uniques))
	for i := range seenKeys {
		seenKeys[i] = make(map[string]struct{}, len(records))
	}

	for i, r := range records {
		if err := s.validate(r); err != nil {
			return fmt.Errorf("record #%d: %w", i+1, err)
		}

		id := r.GetID()
		if _, ok := seenIDs[id]; ok {
			return fmt.Errorf("record #%d: %w: %s", i+1, ErrDuplicateID, id)
		}
		seenIDs[id] = struct{}{}

		for ui, u := range s.uniques {
			k := u.key(r)
			if k == "" {
				continue
			}
			if _, ok := seenKeys[ui][k]; ok {
				return fmt.Errorf("record #%d: %w: %s", i+1, u.err, k)
			}
			seenKeys[ui][k] = struct{}{}
		}
	}
	return nil
}

// SetAll replaces the whole collection. A batch with an invalid record or a
// duplicate key is rejected and the store is left unchanged.
func (s *Store[T]) SetAll(records []T) error {
	if err := s.Check(records); err != nil {
		return fmt.Errorf("set all: %w", err)
	}

	items := make(map[string]T, len(records))
	order := make([]string, 0, len(records))
	for _, r := range records {
		items[r.GetID()] = r.Clone()
		order = append(order, r.GetID())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.order = order
	return nil
}

// Add inserts rec at the head of the ordered view. An id already present is
// rejected with ErrDuplicateID and the existing record is kept.
func (s *Store[T]) Add(rec T) error {
	if err := s.validate(rec); err != nil {
		return fmt.Errorf("add: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := rec.GetID()
	if _, ok := s.items[id]; ok {
		return fmt.Errorf("add: %w: %s", ErrDuplicateID, id)
	}
	if err := s.checkUniqueLocked(rec, ""); err != nil {
		return fmt.Errorf("add: %w", err)
	}

	s.items[id] = rec.Clone()
	s.order = append([]string{id}, s.order...)
	return nil
}

// AddUnless inserts rec like Add, but fails with conflictErr when any stored
// record satisfies conflict. The scan and the insert share one lock.
func (s *Store[T]) AddUnless(rec T, conflict func(T) bool, conflictErr error) error {
	if err := s.validate(rec); err != nil {
		return fmt.Errorf("add: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, other := range s.items {
		if conflict(other) {
			return conflictErr
		}
	}

	id := rec.GetID()
	if _, ok := s.items[id]; ok {
		return fmt.Errorf("add: %w: %s", ErrDuplicateID, id)
	}
	if err := s.checkUniqueLocked(rec, ""); err != nil {
		return fmt.Errorf("add: %w", err)
	}

	s.items[id] = rec.Clone()
	s.order = append([]string{id}, s.order...)
	return nil
}

// Put replaces the record with the same id in place, or inserts it at the
// head when absent.
func (s *Store[T]) Put(rec T) error {
	if err := s.validate(rec); err != nil {
		return fmt.Errorf("put: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := rec.GetID()
	if err := s.checkUniqueLocked(rec, id); err != nil {
		return fmt.Errorf("put: %w", err)
	}
	cur, ok := s.items[id]
	if ok {
		if err := s.checkReplace(cur, rec); err != nil {
			return fmt.Errorf("put: %w", err)
		}
	} else {
		s.order = append([]string{id}, s.order...)
	}
	s.items[id] = rec.Clone()
	return nil
}

// Update shallow-merges p into the record with the given id. Fields the patch
// leaves unset keep their values. A missing id changes nothing and reports ErrNotFound.
func (s *Store[T]) Update(id string, p Patch[T]) error {
	return s.Mutate(id, func(v *T) error {
		p.Apply(v)
		return nil
	})
}

// Mutate runs fn against a copy of the record and commits the copy only if fn
// succeeds and the result still satisfies the store's invariants.
func (s *Store[T]) Mutate(id string, fn func(*T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.items[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	next := cur.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	if next.GetID() != id {
		return fmt.Errorf("%w: id cannot change (%s -> %s)", ErrInvalidRecord, id, next.GetID())
	}
	if err := s.validate(next); err != nil {
		return err
	}
	if err := s.checkReplace(cur, next); err != nil {
		return err
	}
	if err := s.checkUniqueLocked(next, id); err != nil {
		return err
	}

	s.items[id] = next
	return nil
}

func (s *Store[T]) checkReplace(old, next T) error {
	if s.replace == nil {
		return nil
	}
	if err := s.replace(old, next); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return nil
}

func (s *Store[T]) checkUniqueLocked(rec T, selfID string) error {
	for _, u := range s.uniques {
		k := u.key(rec)
		if k == "" {
			continue
		}
		for id, other := range s.items {
			if id == selfID {
				continue
			}
			if u.key(other) == k {
				return fmt.Errorf("%w: %s", u.err, k)
			}
		}
	}
	return nil
}

// Remove deletes the record with the given id. It reports whether a record was removed.
func (s *Store[T]) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns a copy of the record and whether it exists.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[id]
	if !ok {
		var zero T
		return zero, false
	}
	return v.Clone(), true
}

// All returns copies of every record in display order.
func (s *Store[T]) All() []T {
	return s.Filter(nil)
}

// Filter returns copies of the records matching pred, in display order.
// A nil pred matches everything.
func (s *Store[T]) Filter(pred func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		v := s.items[id]
		if pred == nil || pred(v) {
			out = append(out, v.Clone())
		}
	}
	return out
}

// Find returns the first record in display order matching pred.
func (s *Store[T]) Find(pred func(T) bool) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		if v := s.items[id]; pred(v) {
			return v.Clone(), true
		}
	}
	var zero T
	return zero, false
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// matchesQuery reports whether q occurs case-insensitively in any field.
// An empty query matches every record.
func matchesQuery(q string, fields ...string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
