package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// configKeys covers every alias Load consults so tests can start from a
// clean environment regardless of what the host machine has set.
var configKeys = []string{
	"DISCORD_TOKEN", "TOKEN", "BOT_TOKEN",
	"APP_ID", "APPLICATION_ID", "CLIENT_ID",
	"OWNER_ID", "OWNER", "BOT_OWNER",
	"GUILD_ID", "SERVER_ID", "GUILD",
	"SYNC_GLOBAL", "YT_COOKIES", "YOUTUBE_COOKIES",
	"LAVALINK_HOST", "LAVALINK_PORT", "LAVALINK_PASSWORD",
	"AUTO_PLAY", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DISCORD_TOKEN", "tok")
	t.Setenv("APP_ID", "100")
	t.Setenv("OWNER_ID", "200")
}

func TestLoadRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing token",
			env:     map[string]string{"APP_ID": "100", "OWNER_ID": "200"},
			wantErr: "DISCORD_TOKEN is required",
		},
		{
			name:    "missing app id",
			env:     map[string]string{"DISCORD_TOKEN": "tok", "OWNER_ID": "200"},
			wantErr: "APP_ID is required",
		},
		{
			name:    "missing owner id",
			env:     map[string]string{"DISCORD_TOKEN": "tok", "APP_ID": "100"},
			wantErr: "OWNER_ID is required",
		},
		{
			name:    "non-numeric app id",
			env:     map[string]string{"DISCORD_TOKEN": "tok", "APP_ID": "abc", "OWNER_ID": "200"},
			wantErr: "APP_ID is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadAliasPriority(t *testing.T) {
	clearEnv(t)
	setRequired(t)

	// TOKEN set without DISCORD_TOKEN resolves through the second alias.
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("TOKEN", "abc123")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "abc123", cfg.Token)

	// The first alias wins once set, deterministically.
	t.Setenv("DISCORD_TOKEN", "primary")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "primary", cfg.Token)
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.LavalinkHost)
	assert.Equal(t, 2333, cfg.LavalinkPort)
	assert.Equal(t, "youshallnotpass", cfg.LavalinkPassword)
	assert.Nil(t, cfg.GuildID)
	assert.False(t, cfg.SyncGlobal)
	assert.False(t, cfg.AutoPlay)
	assert.Equal(t, "localhost:2333", cfg.NodeAddress())
}

func TestLoadOptionalNumericFallsBack(t *testing.T) {
	clearEnv(t)
	setRequired(t)
	t.Setenv("LAVALINK_PORT", "not-a-port")
	t.Setenv("GUILD_ID", "not-a-guild")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2333, cfg.LavalinkPort)
	assert.Nil(t, cfg.GuildID)
}

func TestLoadGuildID(t *testing.T) {
	clearEnv(t)
	setRequired(t)
	t.Setenv("SERVER_ID", "42")

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg.GuildID)
	assert.Equal(t, "42", cfg.GuildID.String())
}

func TestLoadTruthyFlags(t *testing.T) {
	for _, raw := range []string{"true", "1", "yes", "TRUE", "Yes"} {
		t.Run(raw, func(t *testing.T) {
			clearEnv(t)
			setRequired(t)
			t.Setenv("SYNC_GLOBAL", raw)

			cfg, err := Load()
			require.NoError(t, err)
			assert.True(t, cfg.SyncGlobal)
		})
	}

	for _, raw := range []string{"no", "0", "false", "on"} {
		t.Run(raw, func(t *testing.T) {
			clearEnv(t)
			setRequired(t)
			t.Setenv("SYNC_GLOBAL", raw)

			cfg, err := Load()
			require.NoError(t, err)
			assert.False(t, cfg.SyncGlobal)
		})
	}
}

func TestStringRedactsSecrets(t *testing.T) {
	clearEnv(t)
	setRequired(t)
	t.Setenv("DISCORD_TOKEN", "super-secret-token")
	t.Setenv("LAVALINK_PASSWORD", "hunter2")
	t.Setenv("YT_COOKIES", "cookie-blob")

	cfg, err := Load()
	require.NoError(t, err)

	out := cfg.String()
	assert.NotContains(t, out, "super-secret-token")
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "cookie-blob")
	assert.Contains(t, out, "<redacted>")
}

func TestParseEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment line\n\nFALLBACK_NEW=plain\nFALLBACK_QUOTED=\"quoted value\"\nFALLBACK_SINGLE='single'\nFALLBACK_EXISTING=overridden\nnot a assignment\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("FALLBACK_EXISTING", "keep")
	t.Setenv("FALLBACK_NEW", "")
	os.Unsetenv("FALLBACK_NEW")
	t.Setenv("FALLBACK_QUOTED", "")
	os.Unsetenv("FALLBACK_QUOTED")
	t.Setenv("FALLBACK_SINGLE", "")
	os.Unsetenv("FALLBACK_SINGLE")

	parseEnvFile(path)

	assert.Equal(t, "plain", os.Getenv("FALLBACK_NEW"))
	assert.Equal(t, "quoted value", os.Getenv("FALLBACK_QUOTED"))
	assert.Equal(t, "single", os.Getenv("FALLBACK_SINGLE"))
	assert.Equal(t, "keep", os.Getenv("FALLBACK_EXISTING"))
}

func TestParseEnvFileMissing(t *testing.T) {
	// A missing file is not an error, just a no-op.
	parseEnvFile(filepath.Join(t.TempDir(), "does-not-exist"))
}

func TestLoadLogLevel(t *testing.T) {
	clearEnv(t)
	setRequired(t)
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", cfg.LogLevel.String())
}
