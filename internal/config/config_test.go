package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("default_model: gpt-4o\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.DefaultModel != "gpt-4o" {
		t.Fatalf("file value not honored: %q", c.DefaultModel)
	}
	if c.DefaultProvider != "aiproxy" {
		t.Fatalf("missing provider default: %q", c.DefaultProvider)
	}
	if c.HTTPTimeoutSec != 60 || c.RetryMaxAttempts != 3 {
		t.Fatalf("missing http/retry defaults: %+v", c)
	}
	if c.OllamaHost != "http://127.0.0.1:11434" {
		t.Fatalf("missing ollama default: %q", c.OllamaHost)
	}
	if c.WorkspacesDir == "" {
		t.Fatalf("workspaces dir should default under home")
	}
}

func TestLoadTokenEnvFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("max_tokens: 512\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("AIPROXY_TOKEN", "env-token")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.APIKey != "env-token" {
		t.Fatalf("expected AIPROXY_TOKEN fallback, got %q", c.APIKey)
	}
}

func TestLoadFileKeyWinsOverEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api_key: from-file\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("AIPROXY_TOKEN", "env-token")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.APIKey != "from-file" {
		t.Fatalf("configured key should win, got %q", c.APIKey)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	in := &Global{
		APIKey:       "secret",
		DefaultModel: "llama3:latest",
		CustomModels: map[string]ModelSpec{
			"team:model": {ContextTokens: 32000, InputPerK: 0.001, OutputPerK: 0.002},
		},
	}
	if err := Save(in, path); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat config: %v", err)
		}
		if info.Mode().Perm() != 0o600 {
			t.Fatalf("config perms = %v, want 0600", info.Mode().Perm())
		}
	}
	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if out.APIKey != "secret" || out.DefaultModel != "llama3:latest" {
		t.Fatalf("round trip mismatch: %+v", out)
	}
	spec, ok := out.CustomModels["team:model"]
	if !ok || spec.ContextTokens != 32000 {
		t.Fatalf("custom models lost in round trip: %+v", out.CustomModels)
	}
}
