package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir string, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.json")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	def := DefaultConfig()
	if cfg.Agent.Model != def.Agent.Model {
		t.Errorf("expected default model %q, got %q", def.Agent.Model, cfg.Agent.Model)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, map[string]any{
		"agent": map[string]any{
			"model":     "claude-opus-4-20250514",
			"maxTokens": 2048,
		},
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Agent.Model != "claude-opus-4-20250514" {
		t.Errorf("expected model %q, got %q", "claude-opus-4-20250514", cfg.Agent.Model)
	}
	if cfg.Agent.MaxTokens != 2048 {
		t.Errorf("expected maxTokens 2048, got %d", cfg.Agent.MaxTokens)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("{not valid json"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error for invalid JSON (falls back to default), got: %v", err)
	}
	def := DefaultConfig()
	if cfg.Agent.Model != def.Agent.Model {
		t.Errorf("expected default model %q, got %q", def.Agent.Model, cfg.Agent.Model)
	}
}

func TestLoad_PartialConfig_UsesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, map[string]any{
		"anthropic": map[string]any{
			"apiKey": "sk-test",
		},
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	def := DefaultConfig()
	if cfg.Anthropic.APIKey != "sk-test" {
		t.Errorf("expected apiKey %q, got %q", "sk-test", cfg.Anthropic.APIKey)
	}
	// Unset fields should retain their defaults.
	if cfg.Agent.MaxToolIterations != def.Agent.MaxToolIterations {
		t.Errorf("expected default maxToolIterations %d, got %d", def.Agent.MaxToolIterations, cfg.Agent.MaxToolIterations)
	}
	if cfg.Sources.News.PrimaryFeed != def.Sources.News.PrimaryFeed {
		t.Errorf("expected default primary feed %q, got %q", def.Sources.News.PrimaryFeed, cfg.Sources.News.PrimaryFeed)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.json")

	original := DefaultConfig()
	original.Agent.Model = "claude-sonnet-4-20250514"
	original.Server.Port = 8123

	if err := Save(&original, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Agent.Model != original.Agent.Model {
		t.Errorf("model mismatch: got %q, want %q", loaded.Agent.Model, original.Agent.Model)
	}
	if loaded.Server.Port != 8123 {
		t.Errorf("port mismatch: got %d, want 8123", loaded.Server.Port)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("expected permissions 0600, got %04o", perm)
	}
}

func TestResolveAPIKey_EnvFallback(t *testing.T) {
	cfg := DefaultConfig()
	t.Setenv("ANTHROPIC_API_KEY", "sk-from-env")
	if got := cfg.ResolveAPIKey(); got != "sk-from-env" {
		t.Errorf("expected env key, got %q", got)
	}

	cfg.Anthropic.APIKey = "sk-from-config"
	if got := cfg.ResolveAPIKey(); got != "sk-from-config" {
		t.Errorf("config key should win over env, got %q", got)
	}
}
