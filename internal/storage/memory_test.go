package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuitang/daybook/internal/errs"
	"github.com/kuitang/daybook/internal/notes"
)

func mustInsert(t *testing.T, store *MemoryStore, id, title string, createdAt time.Time) {
	t.Helper()
	err := store.Insert(context.Background(), notes.Note{
		ID:        id,
		Title:     title,
		Text:      "body of " + title,
		CreatedAt: createdAt,
	})
	require.NoError(t, err)
}

func TestMemoryList_StableOrderByCreatedAtThenID(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	// Same timestamp: id breaks the tie. Inserted out of order on purpose.
	mustInsert(t, store, "b", "second", at)
	mustInsert(t, store, "a", "first", at)
	mustInsert(t, store, "c", "third", at.Add(time.Minute))

	listed, err := store.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{listed[0].ID, listed[1].ID, listed[2].ID})
}

func TestMemoryList_DayBoundsInclusiveOfLastMillisecond(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()

	lastInstant := time.Date(2024, 3, 1, 23, 59, 59, 999000000, time.UTC)
	nextMidnight := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	mustInsert(t, store, "edge", "edge note", lastInstant)
	mustInsert(t, store, "next", "next day note", nextMidnight)

	dayOne := &notes.DayBounds{
		Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   nextMidnight,
	}
	listed, err := store.List(context.Background(), dayOne)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "edge", listed[0].ID)
}

func TestMemoryDelete_SecondDeleteFails(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	mustInsert(t, store, "x", "only", time.Now())

	removed, err := store.Delete(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "only", removed.Title)
	assert.Equal(t, 0, store.Len())

	_, err = store.Delete(context.Background(), "x")
	require.Error(t, err)
	assert.Equal(t, errs.NotFound, errs.CodeOf(err))
}

func TestMemoryInsert_DuplicateIDRejected(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	mustInsert(t, store, "dup", "one", time.Now())

	err := store.Insert(context.Background(), notes.Note{ID: "dup", Title: "two", Text: "t", CreatedAt: time.Now()})
	require.Error(t, err)
}
