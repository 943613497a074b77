package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tinytelemetry/shiplog/internal/collector"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "collector.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Addr != "127.0.0.1:15000" {
		t.Errorf("Addr = %q, want 127.0.0.1:15000", cfg.Addr)
	}
	if cfg.APIAddr != "127.0.0.1:15001" {
		t.Errorf("APIAddr = %q, want 127.0.0.1:15001", cfg.APIAddr)
	}
	if cfg.Sink != sinkConsole || !cfg.Color || !cfg.APIEnabled {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.MaxFrameSize != collector.DefaultMaxFrameSize {
		t.Errorf("MaxFrameSize = %d, want %d", cfg.MaxFrameSize, collector.DefaultMaxFrameSize)
	}
	if cfg.ConfigPath != "" {
		t.Errorf("ConfigPath = %q, want empty without a file", cfg.ConfigPath)
	}
}

func TestLoadConfig_File(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, strings.Join([]string{
		"host: 0.0.0.0",
		"port: 16000",
		"sink: tui",
		"max-frame-size: 0",
		"api-enabled: false",
		"",
	}, "\n"))

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Addr != "0.0.0.0:16000" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.Sink != sinkTUI || cfg.APIEnabled {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.frameLimit() != collector.NoFrameLimit {
		t.Errorf("frameLimit = %d, want NoFrameLimit", cfg.frameLimit())
	}
	if cfg.ConfigPath != path {
		t.Errorf("ConfigPath = %q, want %q", cfg.ConfigPath, path)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, "port: 16000\n")
	t.Setenv("SHIPLOG_PORT", "17000")
	t.Setenv("SHIPLOG_API_PORT", "17001")

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Port != 17000 || cfg.APIPort != 17001 {
		t.Fatalf("ports = %d/%d, want 17000/17001", cfg.Port, cfg.APIPort)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"port zero", "port: 0\n", "invalid port"},
		{"port too large", "port: 70000\n", "invalid port"},
		{"api port", "api-port: -1\n", "invalid api-port"},
		{"negative frame", "max-frame-size: -5\n", "invalid max-frame-size"},
		{"unknown sink", "sink: file\n", "invalid sink"},
		{"tui buffer", "tui-buffer: 0\n", "invalid tui-buffer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			_, err := loadConfig(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("loadConfig error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfig_BadYAML(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if _, err := loadConfig(writeConfig(t, "port: [\n")); err == nil {
		t.Fatal("loadConfig accepted malformed YAML")
	}
}

func TestFrameLimit(t *testing.T) {
	t.Parallel()

	if got := (appConfig{MaxFrameSize: 1024}).frameLimit(); got != 1024 {
		t.Fatalf("frameLimit = %d, want 1024", got)
	}
}
