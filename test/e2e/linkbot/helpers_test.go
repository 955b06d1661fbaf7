package linkbot_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/linkbot/pkg/linksdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Container setup and shared assertions for the linkbot end-to-end tests.
 */

const (
	testImageName = "linkbot-test:latest"

	adminToken = "test-admin-token-12345"
	botName    = "linkbot_test_bot"
)

// TestMain builds the image once for every test in the package and removes
// it afterwards.
func TestMain(m *testing.M) {
	if _, err := exec.LookPath("docker"); err != nil {
		fmt.Fprintln(os.Stdout, "docker not found, skipping linkbot e2e tests")
		os.Exit(0)
	}

	fmt.Fprintf(os.Stdout, "Building linkbot Docker image...")
	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up linkbot Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.CommandContext(context.Background(), "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/linkbot/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	return cmd.Run()
}

func cleanupDockerImage() {
	cmd := exec.CommandContext(context.Background(), "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // image may already be gone
}

// relaxedLimits lifts the strict and moderate profiles so tests that issue
// many requests in a row are not throttled.
var relaxedLimits = map[string]string{
	"RATELIMIT_STRICT_REQUESTS":   "1000",
	"RATELIMIT_STRICT_WINDOW_SEC": "60",
	"RATELIMIT_STRICT_BURST":      "1000",
	"RATELIMIT_MODERATE_REQUESTS": "1000",
	"RATELIMIT_MODERATE_BURST":    "1000",
}

// setupLinkbotContainer starts linkbot with relaxed rate limits and returns
// its base URL.
func setupLinkbotContainer(t *testing.T) (string, func()) {
	t.Helper()
	return startContainer(t, relaxedLimits)
}

// setupLinkbotContainerWithDefaultRateLimits starts linkbot with production
// rate limits. Only the rate limit tests should need it.
func setupLinkbotContainerWithDefaultRateLimits(t *testing.T) (string, func()) {
	t.Helper()
	return startContainer(t, nil)
}

func startContainer(t *testing.T, extraEnv map[string]string) (string, func()) {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"LINKBOT_ADMIN_TOKEN":     adminToken,
		"LINKBOT_BOT_NAME":        botName,
		"LINKBOT_RESYNC_INTERVAL": "0",
		"ENV":                     "test",
		"LOG_LEVEL":               "info",
		"LOG_FORMAT":              "json",
	}
	for k, v := range extraEnv {
		env[k] = v
	}

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/readyz").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

// adminClient returns an SDK client carrying the admin token.
func adminClient(baseURL string) *linksdk.Client {
	return linksdk.NewClient(baseURL, linksdk.WithAdminToken(adminToken))
}

// createUser creates a user through the admin API and returns its entry.
func createUser(t *testing.T, client *linksdk.Client, name, role string) *linksdk.Entry {
	t.Helper()

	entry, err := client.CreateUser(t.Context(), name, role)
	require.NoError(t, err, "create user %s", name)
	require.NotEmpty(t, entry.StartToken)
	require.Nil(t, entry.ExternalID, "new users are not linked")
	return entry
}

func assertHealthy(t *testing.T, health *linksdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}

// assertAPIError checks that err carries the given status and code.
func assertAPIError(t *testing.T, err error, want *linksdk.APIError) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, want)

	var apiErr *linksdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, want.StatusCode, apiErr.StatusCode)
}
