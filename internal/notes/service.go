// Package notes implements the note lifecycle and the date-scoped retrieval
// contract: server-assigned identity and creation timestamps, non-empty
// title/text validation, and calendar-day bucketing of reads.
package notes

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kuitang/daybook/internal/errs"
)

// Store is the persistence contract the service depends on. Implementations
// must keep list order stable within a single snapshot (ordered by creation
// time, then id).
type Store interface {
	Insert(ctx context.Context, note Note) error
	// List returns all notes, or only those inside bounds when non-nil.
	List(ctx context.Context, bounds *DayBounds) ([]Note, error)
	// Delete removes the note and returns its data, or a not_found error.
	Delete(ctx context.Context, id string) (Note, error)
}

// Service handles note create/list/delete over an injected store.
type Service struct {
	store Store
	now   func() time.Time
	loc   *time.Location
}

// NewService creates a notes service using the server's local calendar for
// day bucketing.
func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
		loc:   time.Local,
	}
}

// NewServiceWithClock creates a notes service with an injected clock and
// location. Used by tests to pin day boundaries.
func NewServiceWithClock(store Store, now func() time.Time, loc *time.Location) *Service {
	return &Service{store: store, now: now, loc: loc}
}

// Create validates and persists a new note. The id and creation timestamp
// are assigned here; any client-supplied date is ignored.
func (s *Service) Create(ctx context.Context, params CreateNoteParams) (*Note, error) {
	if params.Title == "" {
		return nil, errs.New(errs.InvalidArgument, "title is required")
	}
	if params.Text == "" {
		return nil, errs.New(errs.InvalidArgument, "text is required")
	}

	note := Note{
		ID:        uuid.New().String(),
		Title:     params.Title,
		Text:      params.Text,
		CreatedAt: s.now().In(s.loc),
	}

	if err := s.store.Insert(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	note.TextHTML = RenderTextHTML(note.Text)
	return &note, nil
}

// List returns all notes, or only the selected day's notes when day is
// non-empty. Day filtering is inclusive of the day's full boundary:
// a note stamped 23:59:59.999 on day D is returned for D and not for D+1.
func (s *Service) List(ctx context.Context, day string) ([]Note, error) {
	var bounds *DayBounds
	if day != "" {
		parsed, err := ParseDay(day, s.loc)
		if err != nil {
			return nil, err
		}
		bounds = &parsed
	}

	listed, err := s.store.List(ctx, bounds)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	for i := range listed {
		listed[i].TextHTML = RenderTextHTML(listed[i].Text)
	}
	return listed, nil
}

// Delete removes the note with the given id and returns its data. Deleting
// an unknown id, including a second delete of the same note, fails with a
// not_found error and leaves the store unchanged.
func (s *Service) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	if id == "" {
		return nil, errs.New(errs.InvalidArgument, "note id is required")
	}

	removed, err := s.store.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete note %s: %w", id, err)
	}

	return &DeleteResult{
		Message:     "Note deleted successfully",
		DeletedNote: removed,
	}, nil
}

// MarkedDays returns the distinct day buckets that currently contain at
// least one note, for calendar highlighting.
func (s *Service) MarkedDays(ctx context.Context) ([]string, error) {
	listed, err := s.store.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list notes for marked days: %w", err)
	}

	seen := make(map[string]bool, len(listed))
	days := make([]string, 0, len(listed))
	for _, note := range listed {
		day := DayOf(note.CreatedAt, s.loc)
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	return days, nil
}
