package collection

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a set is not in the collection.
	ErrNotFound = errors.New("collection: set not found")
	// ErrDuplicateSet is returned when adding a set that is already owned.
	ErrDuplicateSet = errors.New("collection: set already in collection")
)

// Store owns the collection records. Enumeration follows insertion order so
// saved files are stable. Store is not safe for concurrent use.
type Store struct {
	order   []string
	records map[string]*Record
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{records: make(map[string]*Record)}
}

// Add inserts a record for number.
func (s *Store) Add(number string, r Record) error {
	if _, ok := s.records[number]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSet, number)
	}
	rec := r.Clone()
	s.records[number] = &rec
	s.order = append(s.order, number)
	return nil
}

// Remove deletes the record for number.
func (s *Store) Remove(number string) error {
	if _, ok := s.records[number]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, number)
	}
	delete(s.records, number)
	for i, n := range s.order {
		if n == number {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns the live record for number. Callers that mutate it own the
// follow-up of rebuilding derived rows.
func (s *Store) Get(number string) (*Record, error) {
	r, ok := s.records[number]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, number)
	}
	return r, nil
}

// Has reports whether number is owned.
func (s *Store) Has(number string) bool {
	_, ok := s.records[number]
	return ok
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.order)
}

// Numbers returns the owned set numbers in insertion order.
func (s *Store) Numbers() []string {
	return append([]string(nil), s.order...)
}

// All returns copies of every record in insertion order.
func (s *Store) All() []Entry {
	out := make([]Entry, 0, len(s.order))
	for _, number := range s.order {
		out = append(out, Entry{Number: number, Record: s.records[number].Clone()})
	}
	return out
}

// Reset replaces the contents of the store with entries. On error the store
// is left unchanged.
func (s *Store) Reset(entries []Entry) error {
	next := NewStore()
	for _, e := range entries {
		if err := next.Add(e.Number, e.Record); err != nil {
			return err
		}
	}
	s.order, s.records = next.order, next.records
	return nil
}
