package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("CREDENTIAL_STORE", "")

	cfg := Load()
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, StoreMemory, cfg.CredentialStore)
	assert.Equal(t, "salon_token", cfg.CredentialKey)
	assert.Equal(t, "*/5 * * * *", cfg.ResyncCron)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"server_port: \"4000\"\ncredential_store: redis\ntimezone: America/Manaus\n",
	), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_PORT", "5000")
	t.Setenv("CREDENTIAL_STORE", "")
	t.Setenv("TIMEZONE", "")

	cfg := Load()
	assert.Equal(t, "5000", cfg.ServerPort)
	assert.Equal(t, StoreRedis, cfg.CredentialStore)
	assert.Equal(t, "America/Manaus", cfg.Timezone)
}

func TestLoad_MissingFileKeepsDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
	t.Setenv("LOG_LEVEL", "")

	cfg := Load()
	assert.Equal(t, "info", cfg.LogLevel)
}
