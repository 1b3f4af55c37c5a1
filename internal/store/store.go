// Package store holds the deduplicated set of job records for one crawl target.
package store

import (
	"github.com/fr4nk3nst1ner/jobharvest/internal/models"
)

// Store maps record IDs to records. The first record seen for an ID wins,
// and iteration follows insertion order so persisted files are deterministic.
type Store struct {
	records map[string]models.Record
	order   []string
}

// New creates an empty store
func New() *Store {
	return &Store{
		records: make(map[string]models.Record),
	}
}

// Merge inserts rec under id unless id is already present.
// It reports whether an insertion happened.
func (s *Store) Merge(id string, rec models.Record) bool {
	if _, exists := s.records[id]; exists {
		return false
	}
	rec.ID = id
	s.records[id] = rec
	s.order = append(s.order, id)
	return true
}

// Get returns the record stored under id
func (s *Store) Get(id string) (models.Record, bool) {
	rec, ok := s.records[id]
	return rec, ok
}

// Len returns the number of stored records
func (s *Store) Len() int {
	return len(s.order)
}

// Records returns all records in insertion order
func (s *Store) Records() []models.Record {
	out := make([]models.Record, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out
}
