package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/kuitang/daybook/internal/errs"
	"github.com/kuitang/daybook/internal/notes"
)

// MemoryStore is an in-memory notes.Store used by tests. It mirrors the
// Postgres store's semantics: stable created_at,id ordering and half-open
// day bounds.
type MemoryStore struct {
	mu    sync.RWMutex
	byID  map[string]notes.Note
	order []string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]notes.Note)}
}

func (s *MemoryStore) Insert(_ context.Context, note notes.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[note.ID]; exists {
		return errs.Newf(errs.Internal, "duplicate note id: %s", note.ID)
	}
	s.byID[note.ID] = note
	s.order = append(s.order, note.ID)
	return nil
}

func (s *MemoryStore) List(_ context.Context, bounds *notes.DayBounds) ([]notes.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	listed := make([]notes.Note, 0, len(s.order))
	for _, id := range s.order {
		note := s.byID[id]
		if bounds != nil && !bounds.Contains(note.CreatedAt) {
			continue
		}
		listed = append(listed, note)
	}

	sort.SliceStable(listed, func(i, j int) bool {
		if listed[i].CreatedAt.Equal(listed[j].CreatedAt) {
			return listed[i].ID < listed[j].ID
		}
		return listed[i].CreatedAt.Before(listed[j].CreatedAt)
	})

	return listed, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) (notes.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, exists := s.byID[id]
	if !exists {
		return notes.Note{}, errs.Newf(errs.NotFound, "note not found: %s", id)
	}

	delete(s.byID, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return note, nil
}

// Len returns the number of stored notes. Test helper.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
