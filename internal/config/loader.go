package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies GAVELHOUSE_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known GAVELHOUSE_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Auction ──
	setTimestamp(&cfg.Auction.StartTime, "GAVELHOUSE_AUCTION_START_TIME")
	setTimestamp(&cfg.Auction.EndTime, "GAVELHOUSE_AUCTION_END_TIME")
	setFloat64(&cfg.Auction.MinIncrement, "GAVELHOUSE_AUCTION_MIN_INCREMENT")

	// ── Database ──
	setStr(&cfg.Database.DSN, "GAVELHOUSE_DATABASE_DSN")
	setStr(&cfg.Database.DSN, "GAVELHOUSE_DATABASE_URL") // compatibility alias
	setStr(&cfg.Database.Host, "GAVELHOUSE_DATABASE_HOST")
	setInt(&cfg.Database.Port, "GAVELHOUSE_DATABASE_PORT")
	setStr(&cfg.Database.Database, "GAVELHOUSE_DATABASE_DATABASE")
	setStr(&cfg.Database.User, "GAVELHOUSE_DATABASE_USER")
	setStr(&cfg.Database.Password, "GAVELHOUSE_DATABASE_PASSWORD")
	setStr(&cfg.Database.SSLMode, "GAVELHOUSE_DATABASE_SSL_MODE")
	setInt(&cfg.Database.PoolMaxConns, "GAVELHOUSE_DATABASE_POOL_MAX_CONNS")
	setInt(&cfg.Database.PoolMinConns, "GAVELHOUSE_DATABASE_POOL_MIN_CONNS")
	setBool(&cfg.Database.RunMigrations, "GAVELHOUSE_DATABASE_RUN_MIGRATIONS")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "GAVELHOUSE_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "GAVELHOUSE_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "GAVELHOUSE_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "GAVELHOUSE_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "GAVELHOUSE_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "GAVELHOUSE_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "GAVELHOUSE_REDIS_TLS_ENABLED")

	// ── S3 ──
	setBool(&cfg.S3.Enabled, "GAVELHOUSE_S3_ENABLED")
	setStr(&cfg.S3.Endpoint, "GAVELHOUSE_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "GAVELHOUSE_S3_REGION")
	setStr(&cfg.S3.Bucket, "GAVELHOUSE_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "GAVELHOUSE_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "GAVELHOUSE_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "GAVELHOUSE_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "GAVELHOUSE_S3_FORCE_PATH_STYLE")

	// ── Server ──
	setInt(&cfg.Server.Port, "GAVELHOUSE_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "GAVELHOUSE_SERVER_CORS_ORIGINS")
	setInt(&cfg.Server.BidRateLimit, "GAVELHOUSE_SERVER_BID_RATE_LIMIT")
	setDuration(&cfg.Server.BidRateWindow, "GAVELHOUSE_SERVER_BID_RATE_WINDOW")

	// ── Admin ──
	setStr(&cfg.Admin.Token, "GAVELHOUSE_ADMIN_TOKEN")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "GAVELHOUSE_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "GAVELHOUSE_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "GAVELHOUSE_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "GAVELHOUSE_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "GAVELHOUSE_MODE")
	setStr(&cfg.LogLevel, "GAVELHOUSE_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setTimestamp(dst *timestamp, key string) {
	if v := os.Getenv(key); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			dst.Time = t
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
