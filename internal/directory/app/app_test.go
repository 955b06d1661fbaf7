package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/linkbot/internal/directory/domain"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		DatabaseFile:        filepath.Join(t.TempDir(), "linkbot.db"),
		BotName:             "linkbot_test",
		BusyTimeout:         5 * time.Second,
		AdminToken:          "secret",
		ResyncInterval:      time.Hour,
		Env:                 "test",
		Port:                0,
		ShutdownGracePeriod: time.Second,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewLoadsExistingDirectory(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	// Seed through a first core, as the admin CLI would.
	core, err := OpenCore(ctx, cfg, discardLogger(), nil)
	require.NoError(t, err)
	u, err := core.Admin.CreateUser(ctx, "alice", domain.RoleAdmin)
	require.NoError(t, err)
	_, err = core.Registration.Register(ctx, u.StartToken, 555)
	require.NoError(t, err)
	require.NoError(t, core.Close())

	app, err := New(ctx, cfg, discardLogger())
	require.NoError(t, err)
	defer func() { require.NoError(t, app.Shutdown()) }()

	require.True(t, app.core.Directory.IsAdmin(555))

	srv := httptest.NewServer(app.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Contains(t, string(body), "linkbot_directory_entries 1")
	require.Contains(t, string(body), "go_goroutines")
}

func TestRunStopsOnContextCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.ResyncInterval = 10 * time.Millisecond

	app, err := New(context.Background(), cfg, discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestOpenCoreFailsOnUnreachablePath(t *testing.T) {
	cfg := testConfig(t)
	cfg.DatabaseFile = filepath.Join(t.TempDir(), "missing", "dir", "linkbot.db")

	_, err := OpenCore(context.Background(), cfg, discardLogger(), nil)
	require.Error(t, err)
}
