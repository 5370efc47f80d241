package config

import (
	"strings"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"prefix", cfg.Prefix, "!"},
		{"stats path", cfg.StatsPath, "data/playerStats.json"},
		{"backup count", cfg.StatsBackupCount, 3},
		{"api addr", cfg.APIAddr, ":3000"},
		{"api enabled", cfg.APIEnabled, true},
		{"register on start", cfg.RegisterOnStart, true},
		{"duplicates", cfg.Duplicates, "reject"},
		{"environment", cfg.Environment, "development"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
	if cfg.IsProduction() {
		t.Error("default environment should not be production")
	}
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("APPLICATION_ID", "123")
	t.Setenv("GUILD_ID", "456")
	t.Setenv("COMMAND_PREFIX", "?")
	t.Setenv("API_ENABLED", "false")
	t.Setenv("STATS_BACKUP_COUNT", "0")
	t.Setenv("APP_ENV", "production")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.ApplicationID != "123" || cfg.GuildID != "456" || cfg.Prefix != "?" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.APIEnabled || cfg.StatsBackupCount != 0 || !cfg.IsProduction() {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if err := cfg.RequireApplicationID(); err != nil {
		t.Errorf("RequireApplicationID: %v", err)
	}
}

func TestParseMissingToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")

	_, err := Parse()
	if err == nil {
		t.Fatal("expected an error without DISCORD_TOKEN")
	}
	if !strings.Contains(err.Error(), "DISCORD_TOKEN") {
		t.Errorf("error should name the variable: %v", err)
	}
}

func TestParseNegativeBackupCount(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("STATS_BACKUP_COUNT", "-1")

	if _, err := Parse(); err == nil {
		t.Fatal("expected an error for a negative backup count")
	}
}

func TestRequireApplicationID(t *testing.T) {
	cfg := &Config{}
	if err := cfg.RequireApplicationID(); err == nil {
		t.Error("expected an error for a missing application ID")
	}
}
