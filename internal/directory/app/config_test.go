package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{
		"LINKBOT_DATABASE_FILE", "LINKBOT_BOT_NAME", "LINKBOT_BUSY_TIMEOUT",
		"LINKBOT_ADMIN_TOKEN", "LINKBOT_RESYNC_INTERVAL", "ENV", "LOG_LEVEL",
		"LOG_FORMAT", "PORT", "SHUTDOWN_GRACE_PERIOD",
	} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()
	require.Equal(t, "linkbot.db", cfg.DatabaseFile)
	require.Equal(t, "linkbot", cfg.BotName)
	require.Equal(t, 30*time.Second, cfg.BusyTimeout)
	require.Empty(t, cfg.AdminToken)
	require.Equal(t, time.Hour, cfg.ResyncInterval)
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("LINKBOT_DATABASE_FILE", "/data/bot.db")
	t.Setenv("LINKBOT_BOT_NAME", "my_bot")
	t.Setenv("LINKBOT_BUSY_TIMEOUT", "5s")
	t.Setenv("LINKBOT_ADMIN_TOKEN", "secret")
	t.Setenv("LINKBOT_RESYNC_INTERVAL", "15")
	t.Setenv("PORT", "not-a-number")

	cfg := LoadConfig()
	require.Equal(t, "/data/bot.db", cfg.DatabaseFile)
	require.Equal(t, "my_bot", cfg.BotName)
	require.Equal(t, 5*time.Second, cfg.BusyTimeout)
	require.Equal(t, "secret", cfg.AdminToken)
	require.Equal(t, 15*time.Minute, cfg.ResyncInterval)
	require.Equal(t, 8080, cfg.Port)
}
