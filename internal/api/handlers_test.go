package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuitang/daybook/internal/api"
	"github.com/kuitang/daybook/internal/errs"
	"github.com/kuitang/daybook/internal/notes"
	"github.com/kuitang/daybook/internal/storage"
)

func newTestServer(t *testing.T, at time.Time) (*httptest.Server, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	svc := notes.NewServiceWithClock(store, func() time.Time { return at }, time.UTC)
	mux := http.NewServeMux()
	api.NewHandler(svc, nil).RegisterRoutes(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, store
}

func postNote(t *testing.T, server *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(server.URL+"/notes", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestCreateNote_Returns201WithPersistedNote(t *testing.T) {
	t.Parallel()
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	server, store := newTestServer(t, at)

	resp := postNote(t, server, `{"title":"Morning Reading","text":"Psalm 23"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	note := decodeJSON[notes.Note](t, resp)
	assert.NotEmpty(t, note.ID)
	assert.Equal(t, "Morning Reading", note.Title)
	assert.Equal(t, "Psalm 23", note.Text)
	assert.True(t, note.CreatedAt.Equal(at))
	assert.Equal(t, 1, store.Len())
}

func TestCreateNote_MissingFieldsReturn400(t *testing.T) {
	t.Parallel()
	server, store := newTestServer(t, time.Now())

	for _, body := range []string{
		`{"text":"no title"}`,
		`{"title":"no text"}`,
		`{}`,
	} {
		resp := postNote(t, server, body)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "body: %s", body)
		errResp := decodeJSON[api.ErrorResponse](t, resp)
		assert.NotEmpty(t, errResp.Error)
	}
	assert.Equal(t, 0, store.Len(), "rejected creates must not write")
}

func TestCreateNote_InvalidJSONReturns400(t *testing.T) {
	t.Parallel()
	server, _ := newTestServer(t, time.Now())

	resp := postNote(t, server, `{"title": `)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListNotes_NoFilterReturnsAll(t *testing.T) {
	t.Parallel()
	server, _ := newTestServer(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))

	for i := 0; i < 3; i++ {
		resp := postNote(t, server, fmt.Sprintf(`{"title":"n%d","text":"b%d"}`, i, i))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, err := http.Get(server.URL + "/notes")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	listed := decodeJSON[[]notes.Note](t, resp)
	assert.Len(t, listed, 3)
}

func TestListNotes_DayFilterAppliedServerSide(t *testing.T) {
	t.Parallel()
	server, _ := newTestServer(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))

	resp := postNote(t, server, `{"title":"on the day","text":"body"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err := http.Get(server.URL + "/notes?day=2024-03-01")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeJSON[[]notes.Note](t, resp), 1)

	resp, err = http.Get(server.URL + "/notes?day=2024-03-02")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeJSON[[]notes.Note](t, resp))
}

func TestListNotes_MalformedDayReturns400(t *testing.T) {
	t.Parallel()
	server, _ := newTestServer(t, time.Now())

	resp, err := http.Get(server.URL + "/notes?day=March-1st")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func deleteNote(t *testing.T, server *httptest.Server, id string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodDelete, server.URL+"/notes/"+id, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestDeleteNote_RemovesAndEchoesNote(t *testing.T) {
	t.Parallel()
	server, store := newTestServer(t, time.Now())

	resp := postNote(t, server, `{"title":"to remove","text":"body"}`)
	created := decodeJSON[notes.Note](t, resp)

	resp = deleteNote(t, server, created.ID)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decodeJSON[notes.DeleteResult](t, resp)
	assert.NotEmpty(t, result.Message)
	assert.Equal(t, created.ID, result.DeletedNote.ID)
	assert.Equal(t, "to remove", result.DeletedNote.Title)
	assert.Equal(t, 0, store.Len())
}

func TestDeleteNote_UnknownIDReturns404(t *testing.T) {
	t.Parallel()
	server, _ := newTestServer(t, time.Now())

	resp := deleteNote(t, server, "does-not-exist")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteNote_SecondDeleteReturns404(t *testing.T) {
	t.Parallel()
	server, _ := newTestServer(t, time.Now())

	resp := postNote(t, server, `{"title":"once","text":"body"}`)
	created := decodeJSON[notes.Note](t, resp)

	resp = deleteNote(t, server, created.ID)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = deleteNote(t, server, created.ID)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// failingStore simulates an unavailable backing store.
type failingStore struct{}

func (failingStore) Insert(context.Context, notes.Note) error {
	return errs.Wrap(errs.Internal, "store error", errors.New("dial tcp: connection refused"))
}

func (failingStore) List(context.Context, *notes.DayBounds) ([]notes.Note, error) {
	return nil, errs.Wrap(errs.Internal, "store error", errors.New("dial tcp: connection refused"))
}

func (failingStore) Delete(context.Context, string) (notes.Note, error) {
	return notes.Note{}, errs.Wrap(errs.Internal, "store error", errors.New("dial tcp: connection refused"))
}

func TestStoreFailure_Returns500WithoutLeakingDetails(t *testing.T) {
	t.Parallel()
	svc := notes.NewService(failingStore{})
	mux := http.NewServeMux()
	api.NewHandler(svc, nil).RegisterRoutes(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/notes")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	errResp := decodeJSON[api.ErrorResponse](t, resp)
	assert.NotContains(t, errResp.Error, "dial tcp", "driver details must not leak")
}
