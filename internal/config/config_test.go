package config

import (
	"strings"
	"testing"
	"time"
)

// validConfig returns defaults patched to pass validation.
func validConfig() Config {
	cfg := Defaults()
	cfg.Auction.EndTime = timestamp{time.Date(2026, 9, 1, 21, 0, 0, 0, time.UTC)}
	cfg.Admin.Token = "sekrit"
	return cfg
}

func TestValidateAcceptsPatchedDefaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRequiresEndTime(t *testing.T) {
	cfg := validConfig()
	cfg.Auction.EndTime = timestamp{}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "end_time") {
		t.Fatalf("got %v, want end_time error", err)
	}
}

func TestValidateRequiresAdminTokenForServe(t *testing.T) {
	cfg := validConfig()
	cfg.Admin.Token = ""
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "admin: token") {
		t.Fatalf("got %v, want admin token error", err)
	}

	// Seed mode runs without an admin token.
	cfg.Mode = "seed"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate(seed): %v", err)
	}
}

func TestValidateStartBeforeEnd(t *testing.T) {
	cfg := validConfig()
	cfg.Auction.StartTime = timestamp{cfg.Auction.EndTime.Add(time.Hour)}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "start_time must be before end_time") {
		t.Fatalf("got %v, want ordering error", err)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Mode = "banana"
	cfg.Auction.MinIncrement = 0
	cfg.Server.Port = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate: expected error")
	}
	for _, want := range []string{"unknown mode", "min_increment", "port"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err.Error(), want)
		}
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GAVELHOUSE_ADMIN_TOKEN", "from-env")
	t.Setenv("GAVELHOUSE_AUCTION_MIN_INCREMENT", "2.50")
	t.Setenv("GAVELHOUSE_AUCTION_END_TIME", "2026-09-02T00:00:00Z")
	t.Setenv("GAVELHOUSE_REDIS_ENABLED", "true")
	t.Setenv("GAVELHOUSE_SERVER_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg := Defaults()
	applyEnvOverrides(&cfg)

	if cfg.Admin.Token != "from-env" {
		t.Errorf("admin token %q", cfg.Admin.Token)
	}
	if cfg.Auction.MinIncrement != 2.50 {
		t.Errorf("min increment %v", cfg.Auction.MinIncrement)
	}
	if want := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC); !cfg.Auction.EndTime.Equal(want) {
		t.Errorf("end time %v, want %v", cfg.Auction.EndTime.Time, want)
	}
	if !cfg.Redis.Enabled {
		t.Error("redis not enabled")
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[0] != "https://a.example" {
		t.Errorf("cors origins %v", cfg.Server.CORSOrigins)
	}
}

func TestRedactedConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Password = "dbpass"
	cfg.Redis.Password = "redispass"
	cfg.S3.SecretKey = "s3secret"

	red := RedactedConfig(&cfg)
	for name, got := range map[string]string{
		"database password": red.Database.Password,
		"redis password":    red.Redis.Password,
		"s3 secret":         red.S3.SecretKey,
		"admin token":       red.Admin.Token,
	} {
		if got != "***" {
			t.Errorf("%s = %q, want redacted", name, got)
		}
	}

	// The original must be untouched.
	if cfg.Admin.Token != "sekrit" || cfg.Database.Password != "dbpass" {
		t.Error("RedactedConfig mutated the original")
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	var ts timestamp
	if err := ts.UnmarshalText([]byte("2026-09-01T18:00:00Z")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	out, err := ts.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	if string(out) != "2026-09-01T18:00:00Z" {
		t.Errorf("round trip %q", out)
	}

	var zero timestamp
	if err := zero.UnmarshalText([]byte("")); err != nil {
		t.Fatalf("UnmarshalText(empty): %v", err)
	}
	if !zero.IsZero() {
		t.Error("empty string should decode to zero time")
	}
}
