package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points the user config dir at an empty temp dir and clears the
// variables Load reads.
func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("AppData", filepath.Join(home, "AppData"))
	for _, k := range []string{
		envConfigPath, "TASK_CLI_STORE", "TASK_CLI_DISABLE_LOCK", "TASK_CLI_LOG_LEVEL",
		"TASK_CLI_LOG_FORMAT", "TASK_CLI_LOG_TIMESTAMPS", "TASK_CLI_THEME", "TASK_CLI_COLOR",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() err = %v", err)
	}
	if cfg.Store.Path != "" || cfg.Store.DisableLock {
		t.Errorf("Store = %+v, want empty path and lock on", cfg.Store)
	}
	if cfg.Log.Level != "warn" || cfg.Log.Format != "text" || cfg.Log.Timestamps {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.UI.Theme != "classic" || cfg.UI.Color != "auto" {
		t.Errorf("UI = %+v", cfg.UI)
	}
	if cfg.Source != "" {
		t.Errorf("Source = %q, want empty", cfg.Source)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "task-cli.toml")
	writeFile(t, path, `
[store]
path = "/tmp/x/tasks.json"
disable_lock = true

[log]
level = "debug"

[ui]
theme = "mono"
`)
	t.Setenv("TASK_CLI_THEME", "neon")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() err = %v", err)
	}
	if cfg.Store.Path != "/tmp/x/tasks.json" || !cfg.Store.DisableLock {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format = %q, want default text", cfg.Log.Format)
	}
	if cfg.UI.Theme != "neon" {
		t.Errorf("UI.Theme = %q, want env override neon", cfg.UI.Theme)
	}
	if cfg.Source != path {
		t.Errorf("Source = %q, want %q", cfg.Source, path)
	}
}

func TestLoad_EnvPathVariable(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "c.toml")
	writeFile(t, path, "[log]\nformat = \"json\"\n")
	t.Setenv(envConfigPath, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() err = %v", err)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json", cfg.Log.Format)
	}
}

func TestLoad_UserConfigFile(t *testing.T) {
	isolate(t)
	p := userConfigFile()
	if p == "" {
		t.Skip("no user config dir on this platform")
	}
	writeFile(t, p, "[ui]\ncolor = \"never\"\n")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() err = %v", err)
	}
	if cfg.UI.Color != "never" || cfg.Source != p {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	isolate(t)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load(missing explicit) err = nil, want error")
	}

	bad := filepath.Join(t.TempDir(), "bad.toml")
	writeFile(t, bad, "[log]\nlevel = \"chatty\"\n")
	if _, err := Load(bad); err == nil || !strings.Contains(err.Error(), "log.level") {
		t.Errorf("Load(bad level) err = %v", err)
	}

	broken := filepath.Join(t.TempDir(), "broken.toml")
	writeFile(t, broken, "[log\nlevel=")
	if _, err := Load(broken); err == nil {
		t.Error("Load(broken) err = nil, want error")
	}
}

func TestEncode(t *testing.T) {
	cfg := Config{
		Store:  StoreConfig{Path: "/data/tasks.json"},
		Log:    LogConfig{Level: "info", Format: "text"},
		UI:     UIConfig{Theme: "classic", Color: "auto"},
		Source: "/ignored",
	}
	var buf bytes.Buffer
	if err := Encode(&buf, cfg); err != nil {
		t.Fatalf("Encode() err = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"[store]", `path = "/data/tasks.json"`, "[log]", `level = "info"`, "[ui]"} {
		if !strings.Contains(out, want) {
			t.Errorf("Encode() missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "/ignored") {
		t.Errorf("Encode() leaked Source:\n%s", out)
	}
}
