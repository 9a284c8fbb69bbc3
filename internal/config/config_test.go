package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, 60*time.Second, cfg.DefaultSessionDuration)
	assert.Zero(t, cfg.EndedSessionRetention)
	assert.Equal(t, "waiting-room", cfg.AnnounceScope)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 100, cfg.RateLimitPerMinute)
	assert.Equal(t, 32, cfg.OutboundBuffer)
	assert.Equal(t, 256, cfg.LoopBuffer)
	assert.Equal(t, StoreMemory, cfg.PollStore)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DEFAULT_SESSION_DURATION", "90s")
	t.Setenv("ENDED_SESSION_RETENTION", "10m")
	t.Setenv("ANNOUNCE_SCOPE", "all")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("POLL_STORE", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/polls.db")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.DefaultSessionDuration)
	assert.Equal(t, 10*time.Minute, cfg.EndedSessionRetention)
	assert.Equal(t, "all", cfg.AnnounceScope)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, StoreSQLite, cfg.PollStore)
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("HTTP_ADDR=127.0.0.1:9999\nLOG_LEVEL=DEBUG\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("HTTP_ADDR")
		os.Unsetenv("LOG_LEVEL")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", cfg.HTTPAddr)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unparsable duration", map[string]string{"DEFAULT_SESSION_DURATION": "soon"}, "parse env"},
		{"zero duration", map[string]string{"DEFAULT_SESSION_DURATION": "0s"}, "DEFAULT_SESSION_DURATION must be positive"},
		{"negative retention", map[string]string{"ENDED_SESSION_RETENTION": "-1s"}, "ENDED_SESSION_RETENTION must not be negative"},
		{"bad scope", map[string]string{"ANNOUNCE_SCOPE": "nobody"}, "ANNOUNCE_SCOPE"},
		{"postgres without url", map[string]string{"POLL_STORE": "postgres"}, "DATABASE_URL is required"},
		{"sqlite without path", map[string]string{"POLL_STORE": "sqlite"}, "SQLITE_PATH is required"},
		{"unknown store", map[string]string{"POLL_STORE": "redis"}, "POLL_STORE must be"},
		{"zero outbound buffer", map[string]string{"OUTBOUND_BUFFER": "0"}, "OUTBOUND_BUFFER must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
