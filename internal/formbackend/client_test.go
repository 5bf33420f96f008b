package formbackend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/derintolu/frs-lead-pages-sub002/internal/destinations"
	"github.com/derintolu/frs-lead-pages-sub002/internal/observability"
	"github.com/derintolu/frs-lead-pages-sub002/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createParams() store.CreateLeadParams {
	return store.CreateLeadParams{
		PageID:   uuid.New(),
		PageType: store.PageTypeOpenHouse,
		FullName: "Jordan Smith",
		Email:    "jordan@example.com",
		Phone:    "555-0100",
	}
}

func TestCreateEntry(t *testing.T) {
	var gotAuth string
	var gotBody createEntryRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/entries", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(createEntryResponse{ID: "entry-42"})
	}))
	defer srv.Close()

	client := New(srv.URL, "secret-key", observability.NewLogger())
	params := createParams()
	entryID, err := client.CreateEntry(context.Background(), params)

	require.NoError(t, err)
	assert.Equal(t, "entry-42", entryID)
	assert.Equal(t, "Bearer secret-key", gotAuth)
	assert.Equal(t, params.PageID, gotBody.PageID)
	assert.Equal(t, params.Email, gotBody.Email)
}

func TestCreateEntry_ServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(srv.URL, "", observability.NewLogger())
	_, err := client.CreateEntry(context.Background(), createParams())

	assert.ErrorIs(t, err, destinations.ErrDependencyUnavailable)
}

func TestCreateEntry_RejectionIsNotUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"duplicate entry"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "", observability.NewLogger())
	_, err := client.CreateEntry(context.Background(), createParams())

	require.Error(t, err)
	assert.NotErrorIs(t, err, destinations.ErrDependencyUnavailable)
}

func TestCreateEntry_UnreachableIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := New(srv.URL, "", observability.NewLogger())
	_, err := client.CreateEntry(context.Background(), createParams())

	assert.ErrorIs(t, err, destinations.ErrDependencyUnavailable)
}

func TestCreateEntry_UnconfiguredIsUnavailable(t *testing.T) {
	client := New("", "", observability.NewLogger())

	_, err := client.CreateEntry(context.Background(), createParams())

	assert.ErrorIs(t, err, destinations.ErrDependencyUnavailable)
	assert.False(t, client.Enabled())
}

func TestListEntries(t *testing.T) {
	pageID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, pageID.String(), r.URL.Query().Get("page_id"))
		assert.Equal(t, "submitted_at:desc", r.URL.Query().Get("sort"))
		json.NewEncoder(w).Encode(listEntriesResponse{Entries: []Entry{
			{ID: "entry-1", PageID: pageID, Email: "a@example.com"},
			{ID: "entry-2", PageID: pageID, Email: "b@example.com"},
		}})
	}))
	defer srv.Close()

	client := New(srv.URL, "", observability.NewLogger())
	entries, err := client.ListEntries(context.Background(), ListEntriesParams{PageID: &pageID})

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "entry-1", entries[0].ID)
}

func TestListEntries_UnconfiguredReturnsEmpty(t *testing.T) {
	client := New("", "", observability.NewLogger())

	entries, err := client.ListEntries(context.Background(), ListEntriesParams{})

	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListEntries_UnreachableReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := New(srv.URL, "", observability.NewLogger())
	entries, err := client.ListEntries(context.Background(), ListEntriesParams{})

	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListEntries_NullEntriesDecodesAsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"entries":null}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "", observability.NewLogger())
	entries, err := client.ListEntries(context.Background(), ListEntriesParams{})

	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
