package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bilgisen/feedview/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotConfig(t *testing.T, backendURL string) *config.Config {
	t.Helper()
	cfg, err := config.FromLookup(func(key string) (string, bool) {
		switch key {
		case config.KeyBackendURL:
			return backendURL, true
		case "APP_ENV":
			return config.EnvProduction, true
		}
		return "", false
	})
	require.NoError(t, err)
	return cfg
}

func TestRunWritesSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"link":"https://example.com/a","title":"Alpha","published":"2024-01-02 03:04:05","source":"RSS","summary":"hi"}]`)
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "static", "index.html")
	err := run(options{Out: out, Timeout: 10 * time.Second}, snapshotConfig(t, srv.URL))
	require.NoError(t, err)

	page, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(page), "Alpha")
	assert.NotContains(t, string(page), "Debug: fetching from")
}

func TestRunRefusesFailedPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "index.html")
	err := run(options{Out: out, Timeout: 10 * time.Second}, snapshotConfig(t, srv.URL))
	require.Error(t, err)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))

	require.NoError(t, run(options{Out: out, Timeout: 10 * time.Second, AllowFail: true}, snapshotConfig(t, srv.URL)))
	page, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(page), "Failed to fetch articles")
}
