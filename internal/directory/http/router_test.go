package http_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/linkbot/internal/directory/cache"
	"github.com/aussiebroadwan/linkbot/internal/directory/domain"
	dirhttp "github.com/aussiebroadwan/linkbot/internal/directory/http"
	"github.com/aussiebroadwan/linkbot/internal/directory/metrics"
	"github.com/aussiebroadwan/linkbot/internal/directory/service"
	"github.com/aussiebroadwan/linkbot/internal/directory/store/drivers/sqlite"
	"github.com/aussiebroadwan/linkbot/pkg/linksdk"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const adminToken = "test-admin-token"

type testServer struct {
	srv   *httptest.Server
	store *sqlite.Store
	dir   *cache.Directory
}

func newTestServer(t *testing.T, adminTok string) *testServer {
	t.Helper()

	path := filepath.Join(t.TempDir(), "linkbot.db")
	st, err := sqlite.NewStore(sqlite.DSN(path, 5*time.Second), sqlite.WithBusyTimeout(5*time.Second))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	urls := domain.TelegramStartURL("linkbot_test")

	dir, err := cache.Load(context.Background(), st.Users(), urls, logger)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	router := dirhttp.NewRouter("test", adminTok, st, dir, reg, logger)
	router.RegistrationService = &service.RegistrationService{Store: st, Directory: dir, URLs: urls, Metrics: m}
	router.AdminService = &service.AdminService{Store: st, Directory: dir, URLs: urls, Metrics: m}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{srv: srv, store: st, dir: dir}
}

func TestRegistrationFlow(t *testing.T) {
	ts := newTestServer(t, adminToken)
	ctx := context.Background()

	admin := linksdk.NewClient(ts.srv.URL, linksdk.WithAdminToken(adminToken))
	bot := linksdk.NewClient(ts.srv.URL)

	alice, err := admin.CreateUser(ctx, "alice", linksdk.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, alice.StartToken, 32)
	require.Equal(t, "https://t.me/linkbot_test?start="+alice.StartToken, alice.DisplayURL)
	require.Nil(t, alice.ExternalID)

	res, err := bot.Lookup(ctx, 555)
	require.NoError(t, err)
	require.False(t, res.Known)

	reg, err := bot.Register(ctx, alice.StartToken, 555)
	require.NoError(t, err)
	require.Equal(t, "You were successfully registered.", reg.Message)
	require.Equal(t, alice.ID, reg.Entry.ID)
	require.Equal(t, int64(555), *reg.Entry.ExternalID)

	again, err := bot.Register(ctx, alice.StartToken, 555)
	require.NoError(t, err)
	require.Equal(t, reg.Entry, again.Entry)

	_, err = bot.Register(ctx, alice.StartToken, 777)
	require.ErrorIs(t, err, linksdk.ErrTokenConflict)

	_, err = bot.Register(ctx, "unknown", 999)
	require.ErrorIs(t, err, linksdk.ErrUnknownToken)

	res, err = bot.Lookup(ctx, 555)
	require.NoError(t, err)
	require.True(t, res.Known)
	require.True(t, res.Admin)
	require.Equal(t, "alice", res.Name)

	registered, err := admin.ListRegistered(ctx)
	require.NoError(t, err)
	require.Len(t, registered, 1)

	links, err := admin.ListLinks(ctx)
	require.NoError(t, err)
	require.Equal(t, []linksdk.Link{{ExternalID: 555, UserID: alice.ID}}, links)
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t, adminToken)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing token", body: "external_id=1"},
		{name: "non numeric id", body: "start_token=abc&external_id=abc"},
		{name: "missing id", body: "start_token=abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.srv.URL+"/v1/register", "application/x-www-form-urlencoded", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestLookupRejectsNonNumericID(t *testing.T) {
	ts := newTestServer(t, adminToken)

	resp, err := http.Get(ts.srv.URL + "/v1/directory/abc")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminEndpoints(t *testing.T) {
	ts := newTestServer(t, adminToken)
	ctx := context.Background()
	admin := linksdk.NewClient(ts.srv.URL, linksdk.WithAdminToken(adminToken))

	t.Run("requires token", func(t *testing.T) {
		_, err := linksdk.NewClient(ts.srv.URL).ListUsers(ctx)
		require.ErrorIs(t, err, linksdk.ErrUnauthorized)

		_, err = linksdk.NewClient(ts.srv.URL, linksdk.WithAdminToken("wrong")).ListUsers(ctx)
		require.ErrorIs(t, err, linksdk.ErrUnauthorized)
	})

	t.Run("create validation", func(t *testing.T) {
		_, err := admin.CreateUser(ctx, "", linksdk.RoleUser)
		require.ErrorIs(t, err, linksdk.ErrInvalidRequest)

		_, err = admin.CreateUser(ctx, "x", "root")
		require.ErrorIs(t, err, linksdk.ErrInvalidRequest)

		_, err = admin.CreateUser(ctx, "bob", "")
		require.NoError(t, err)
		_, err = admin.CreateUser(ctx, "bob", linksdk.RoleUser)
		require.ErrorIs(t, err, linksdk.ErrNameTaken)
	})

	t.Run("delete keeps directory until refresh", func(t *testing.T) {
		carol, err := admin.CreateUser(ctx, "carol", linksdk.RoleUser)
		require.NoError(t, err)
		_, err = linksdk.NewClient(ts.srv.URL).Register(ctx, carol.StartToken, 42)
		require.NoError(t, err)

		deleted, err := admin.DeleteUser(ctx, "carol")
		require.NoError(t, err)
		require.Equal(t, carol.ID, deleted.ID)
		require.True(t, ts.dir.Exists(42))

		n, err := admin.RefreshDirectory(ctx)
		require.NoError(t, err)
		require.Equal(t, 0, n)
		require.False(t, ts.dir.Exists(42))

		_, err = admin.DeleteUser(ctx, "carol")
		require.ErrorIs(t, err, linksdk.ErrUserNotFound)
	})

	t.Run("list users", func(t *testing.T) {
		users, err := admin.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)
		require.Equal(t, "bob", users[0].Name)
		require.Equal(t, linksdk.RoleUser, users[0].Role)
	})
}

func TestAdminDisabledWithoutToken(t *testing.T) {
	ts := newTestServer(t, "")

	_, err := linksdk.NewClient(ts.srv.URL, linksdk.WithAdminToken("anything")).ListUsers(context.Background())

	var apiErr *linksdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t, adminToken)
	client := linksdk.NewClient(ts.srv.URL)
	ctx := context.Background()

	live, err := client.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Checks.Database)
	require.Equal(t, "ok", ready.Checks.Directory)

	require.NoError(t, ts.store.Close())
	_, err = client.GetReadiness(ctx)

	var apiErr *linksdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, adminToken)

	_, _ = linksdk.NewClient(ts.srv.URL).Register(context.Background(), "nope", 1)

	resp, err := http.Get(ts.srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `linkbot_registrations_total{outcome="not_found"} 1`)
}

func TestRequestIDHeader(t *testing.T) {
	ts := newTestServer(t, adminToken)

	resp, err := http.Get(ts.srv.URL + "/livez")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
