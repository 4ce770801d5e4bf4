package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rosterJSON = `{"updatedAt":"2026-10-05T12:00:00Z","divisions":[{"id":"pro","title":"Pro","entries":[]}]}`

func TestFetchHTTPDisablesCaching(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "no-store", r.Header.Get("Cache-Control"))
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(rosterJSON))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/data/divisions.json", WithHTTPClient(srv.Client()))
	require.True(t, c.Remote())

	snap, err := c.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Divisions, 1)
	assert.Equal(t, "pro", snap.Divisions[0].ID)

	_, err = c.Fetch(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits), "every fetch reaches the source")
}

func TestFetchHTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, WithHTTPClient(srv.Client())).Fetch(context.Background())
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	assert.Equal(t, "HTTP 503", err.Error())
}

func TestFetchHTTPYAMLByContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write([]byte("divisions:\n  - id: open\n    title: Open\n"))
	}))
	defer srv.Close()

	snap, err := NewClient(srv.URL+"/roster", WithHTTPClient(srv.Client())).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Divisions, 1)
	assert.Equal(t, "Open", snap.Divisions[0].Title)
}

func TestFetchHTTPMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"divisions": [`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, WithHTTPClient(srv.Client())).Fetch(context.Background())
	assert.Error(t, err)
}

func TestFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(srv.URL, WithHTTPClient(srv.Client()), WithTimeout(20*time.Millisecond))
	_, err := c.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestFetchFile(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "divisions.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(rosterJSON), 0o600))
	yamlPath := filepath.Join(dir, "divisions.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("divisions:\n  - id: y\n"), 0o600))

	c := NewClient(jsonPath)
	assert.False(t, c.Remote())
	snap, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2026-10-05T12:00:00Z", snap.UpdatedAt)

	snap, err = NewClient("file://" + yamlPath).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "y", snap.Divisions[0].ID)

	_, err = NewClient(filepath.Join(dir, "missing.json")).Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFetchWithoutLocation(t *testing.T) {
	_, err := NewClient("  ").Fetch(context.Background())
	assert.ErrorIs(t, err, ErrNoSource)
}
