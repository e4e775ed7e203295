package app

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scorepad-app/scorepad/app/modules/ledger"
	"github.com/scorepad-app/scorepad/config"
)

func newTestApp(t *testing.T, dbPath string) *App {
	t.Helper()
	cfg := &config.Config{}
	cfg.HTTP.Addr = "127.0.0.1:0"
	cfg.Storage.Path = dbPath
	cfg.Session.TTL = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	a, err := NewApp(ctx, cfg, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() {
		cancel()
		a.Close()
	})
	return a
}

func TestMutationsPersistAcrossRestart(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "scorepad.db")

	a := newTestApp(t, dbPath)
	srv := httptest.NewServer(a.Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/ledger/players", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := bytes.NewBufferString(`{"title":"persisted night"}`)
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/ledger/title", body)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// The write-through subscriber persists asynchronously.
	require.Eventually(t, func() bool {
		snap, err := a.Store.Load(context.Background())
		return err == nil && len(snap.Players) == 1 && snap.Title == "persisted night"
	}, 2*time.Second, 10*time.Millisecond)

	// A fresh app over the same database restores the session.
	b := newTestApp(t, dbPath)
	srv2 := httptest.NewServer(b.Router())
	defer srv2.Close()

	resp, err = http.Get(srv2.URL + "/api/ledger/")
	require.NoError(t, err)
	defer resp.Body.Close()

	var view struct {
		Title   string          `json:"title"`
		Players []ledger.Player `json:"players"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.Equal(t, "persisted night", view.Title)
	assert.Len(t, view.Players, 1)
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	a := newTestApp(t, filepath.Join(t.TempDir(), "scorepad.db"))
	srv := httptest.NewServer(a.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
