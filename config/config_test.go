package config

import (
	"os"
	"strings"
	"testing"
)

// writeTempConfig creates a minimal configuration file required for LoadConfig
// and returns its path.
func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp("", "cfg-*.yml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close temp file: %v", err)
	}
	return f.Name()
}

const minimalConfig = `cricketflow:
  name: "TestApp"
  version: "1.0"
channels:
  raw_buffer: 1
  snapshot_buffer: 1
  notification_buffer: 1
reader:
  timeout: 5s
  poll_interval: 10s
source:
  cricinfo:
    base_url: "https://www.espncricinfo.com"
    matches: ["1443995"]
storage:
  s3:
    enabled: false
`

func TestLoadConfig(t *testing.T) {
	path := writeTempConfig(t, minimalConfig)
	defer os.Remove(path)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Cricketflow.Name != "TestApp" {
		t.Errorf("unexpected name: %s", cfg.Cricketflow.Name)
	}
	if cfg.Reader.Timeout.Seconds() != 5 {
		t.Errorf("unexpected reader timeout: %v", cfg.Reader.Timeout)
	}
	if len(cfg.Source.Cricinfo.Matches) != 1 || cfg.Source.Cricinfo.Matches[0] != "1443995" {
		t.Errorf("unexpected followed matches: %v", cfg.Source.Cricinfo.Matches)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeTempConfig(t, minimalConfig)
	defer os.Remove(path)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Processor.MilestoneStep != 50 {
		t.Errorf("milestone step default = %d, want 50", cfg.Processor.MilestoneStep)
	}
	if cfg.Processor.SnapshotWorkers != 1 || cfg.Processor.DeltaWorkers != 1 {
		t.Errorf("worker defaults = %d/%d, want 1/1", cfg.Processor.SnapshotWorkers, cfg.Processor.DeltaWorkers)
	}
	if cfg.Reader.RateLimit.RequestsPerSecond != 1 {
		t.Errorf("rate limit default = %v, want 1", cfg.Reader.RateLimit.RequestsPerSecond)
	}
}

func TestLoadConfigMissingName(t *testing.T) {
	content := strings.Replace(minimalConfig, "name: \"TestApp\"", "name: \"\"", 1)
	path := writeTempConfig(t, content)
	defer os.Remove(path)

	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected validation error for missing name")
	}
}

func TestLoadConfigTelegramRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	content := minimalConfig + `notify:
  telegram:
    enabled: true
    chat_id: 42
`
	path := writeTempConfig(t, content)
	defer os.Remove(path)

	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected validation error for missing telegram token")
	}
}

func TestLoadConfigTelegramEnvOverride(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "secret-token")
	t.Setenv("TELEGRAM_CHAT_ID", "99")
	content := minimalConfig + `notify:
  telegram:
    enabled: true
    token: "from-file"
    chat_id: 42
`
	path := writeTempConfig(t, content)
	defer os.Remove(path)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Notify.Telegram.Token != "secret-token" {
		t.Errorf("token env override not applied: %q", cfg.Notify.Telegram.Token)
	}
	if cfg.Notify.Telegram.ChatID != 99 {
		t.Errorf("chat id env override not applied: %d", cfg.Notify.Telegram.ChatID)
	}
}
