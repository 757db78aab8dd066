package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
listen:
  port: 9090
engine:
  base_url: https://engine.example.com
  model: counselor-large
log_level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Listen.Port != 9090 {
		t.Errorf("Listen.Port = %d, want 9090", cfg.Listen.Port)
	}
	if cfg.Engine.Model != "counselor-large" {
		t.Errorf("Engine.Model = %q", cfg.Engine.Model)
	}
	// Fields the file does not mention keep their defaults.
	if cfg.Engine.MaxTokens != 1024 {
		t.Errorf("Engine.MaxTokens = %d, want default 1024", cfg.Engine.MaxTokens)
	}
	if cfg.Agent.MaxIterations != 3 {
		t.Errorf("Agent.MaxIterations = %d, want default 3", cfg.Agent.MaxIterations)
	}
	if cfg.Tools.TimeoutSec != 15 {
		t.Errorf("Tools.TimeoutSec = %d, want default 15", cfg.Tools.TimeoutSec)
	}
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("PATHWAYS_TEST_TOKEN", "tok-123")

	path := writeConfig(t, `
engine:
  api_token: ${PATHWAYS_TEST_TOKEN}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.APIToken != "tok-123" {
		t.Errorf("APIToken = %q, want expanded env value", cfg.Engine.APIToken)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "listen: [not: a: mapping")
	if _, err := Load(path); err == nil {
		t.Error("Load succeeded on malformed YAML")
	}
}

func TestFindConfig_ExplicitMissing(t *testing.T) {
	if _, err := FindConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("FindConfig succeeded on a missing explicit path")
	}
}

func TestFindConfig_Explicit(t *testing.T) {
	path := writeConfig(t, "log_level: info\n")
	got, err := FindConfig(path)
	if err != nil {
		t.Fatalf("FindConfig: %v", err)
	}
	if got != path {
		t.Errorf("FindConfig = %q, want %q", got, path)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"info", slog.LevelInfo, false},
		{"INFO", slog.LevelInfo, false},
		{"trace", LevelTrace, false},
		{"debug", slog.LevelDebug, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"  debug  ", slog.LevelDebug, false},
		{"verbose", 0, true},
	}

	for _, tc := range cases {
		got, err := ParseLogLevel(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseLogLevel(%q) succeeded, want error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLogLevel(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestReplaceLogLevelNames(t *testing.T) {
	attr := slog.Attr{Key: slog.LevelKey, Value: slog.AnyValue(LevelTrace)}
	got := ReplaceLogLevelNames(nil, attr)
	if got.Value.String() != "TRACE" {
		t.Errorf("trace rendered as %q, want TRACE", got.Value.String())
	}

	attr = slog.Attr{Key: slog.LevelKey, Value: slog.AnyValue(slog.LevelInfo)}
	got = ReplaceLogLevelNames(nil, attr)
	if got.Value.Any() != any(slog.LevelInfo) {
		t.Errorf("info level altered: %v", got.Value)
	}
}
