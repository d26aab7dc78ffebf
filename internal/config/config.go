package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/disgoorg/snowflake/v2"
)

// Config is the immutable snapshot of credentials and connection settings,
// loaded once before the client exists.
type Config struct {
	Token      string
	AppID      snowflake.ID
	OwnerID    snowflake.ID
	GuildID    *snowflake.ID
	SyncGlobal bool
	YTCookies  string

	LavalinkHost     string
	LavalinkPort     int
	LavalinkPassword string

	AutoPlay bool
	LogLevel slog.Level
}

// Load resolves the configuration from the process environment, consulting a
// local .env file first (existing variables are never overridden). Token,
// application id and owner id are required; everything else falls back to a
// default.
func Load() (*Config, error) {
	loadEnvFile(".env")

	token := getenvAny([]string{"DISCORD_TOKEN", "TOKEN", "BOT_TOKEN"}, "")
	appID := parseID(getenvAny([]string{"APP_ID", "APPLICATION_ID", "CLIENT_ID"}, "0"))
	ownerID := parseID(getenvAny([]string{"OWNER_ID", "OWNER", "BOT_OWNER"}, "0"))

	var guildID *snowflake.ID
	if raw := getenvAny([]string{"GUILD_ID", "SERVER_ID", "GUILD"}, ""); raw != "" {
		if id := parseID(raw); id != 0 {
			guildID = &id
		}
	}

	portRaw := getenvAny([]string{"LAVALINK_PORT"}, "2333")
	port, err := strconv.Atoi(portRaw)
	if err != nil {
		port = 2333
	}

	cfg := &Config{
		Token:            token,
		AppID:            appID,
		OwnerID:          ownerID,
		GuildID:          guildID,
		SyncGlobal:       truthy(getenvAny([]string{"SYNC_GLOBAL"}, "false")),
		YTCookies:        getenvAny([]string{"YT_COOKIES", "YOUTUBE_COOKIES"}, ""),
		LavalinkHost:     getenvAny([]string{"LAVALINK_HOST"}, "localhost"),
		LavalinkPort:     port,
		LavalinkPassword: getenvAny([]string{"LAVALINK_PASSWORD"}, "youshallnotpass"),
		AutoPlay:         truthy(getenvAny([]string{"AUTO_PLAY"}, "false")),
		LogLevel:         parseLogLevel(getenvAny([]string{"LOG_LEVEL"}, "info")),
	}

	if cfg.Token == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is required but not found in environment variables or .env file")
	}
	if cfg.AppID == 0 {
		return nil, fmt.Errorf("APP_ID is required but not found in environment variables or .env file")
	}
	if cfg.OwnerID == 0 {
		return nil, fmt.Errorf("OWNER_ID is required but not found in environment variables or .env file")
	}

	return cfg, nil
}

// NodeAddress is the audio node endpoint in host:port form.
func (c *Config) NodeAddress() string {
	return c.LavalinkHost + ":" + strconv.Itoa(c.LavalinkPort)
}

// String renders the config with every secret redacted, so a stray %v can
// never leak the token, node password or cookie blob.
func (c *Config) String() string {
	guild := "none"
	if c.GuildID != nil {
		guild = c.GuildID.String()
	}
	return fmt.Sprintf("Config{app_id: %s, owner_id: %s, guild_id: %s, sync_global: %t, lavalink: %s, token: %s, lavalink_password: %s, yt_cookies: %s, auto_play: %t}",
		c.AppID, c.OwnerID, guild, c.SyncGlobal, c.NodeAddress(),
		redact(c.Token), redact(c.LavalinkPassword), redact(c.YTCookies), c.AutoPlay)
}

func redact(secret string) string {
	if secret == "" {
		return "<unset>"
	}
	return "<redacted>"
}

// LogValue keeps secrets out of diagnostic output: the token, node password
// and cookie blob are reported only by presence.
func (c *Config) LogValue() slog.Value {
	guild := "none"
	if c.GuildID != nil {
		guild = c.GuildID.String()
	}
	return slog.GroupValue(
		slog.String("app_id", c.AppID.String()),
		slog.String("owner_id", c.OwnerID.String()),
		slog.String("guild_id", guild),
		slog.Bool("sync_global", c.SyncGlobal),
		slog.String("lavalink", c.NodeAddress()),
		slog.Bool("lavalink_password_set", c.LavalinkPassword != ""),
		slog.Bool("yt_cookies_set", c.YTCookies != ""),
		slog.Bool("auto_play", c.AutoPlay),
	)
}

// getenvAny returns the first non-empty value among the given variable names,
// or fallback when none is set.
func getenvAny(keys []string, fallback string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return fallback
}

// parseID coerces a snowflake string, treating anything non-numeric as absent.
func parseID(raw string) snowflake.ID {
	id, err := snowflake.Parse(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return id
}

func truthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
