package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Runner.TimeoutSeconds != 0 {
		t.Error("runner must not time out by default")
	}
	if !cfg.RunnerEnabled("javascript") || cfg.RunnerEnabled("lua") {
		t.Errorf("default languages = %v", cfg.Runner.Languages)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad addr", func(c *Config) { c.Viewer.HTTPAddr = "nope" }, "viewer.http_addr"},
		{"bad theme", func(c *Config) { c.Viewer.Theme = "pink" }, "viewer.theme"},
		{"bad store", func(c *Config) { c.Recent.Store = "redis" }, "recent.store"},
		{"json without file", func(c *Config) { c.Recent.File = " " }, "recent.file"},
		{"no db dir", func(c *Config) { c.Storage.DBDir = "" }, "storage.db_dir"},
		{"unknown executor", func(c *Config) { c.Runner.Languages = []string{"python"} }, "runner.languages"},
		{"negative timeout", func(c *Config) { c.Runner.TimeoutSeconds = -1 }, "runner.timeout_seconds"},
		{"huge lua memory", func(c *Config) { c.Runner.LuaMaxMemoryMB = 4096 }, "runner.lua_max_memory_mb"},
		{"negative delay", func(c *Config) { c.Assistant.ReplyDelayMS = -5 }, "assistant.reply_delay_ms"},
		{"no history", func(c *Config) { c.Assistant.History = 0 }, "assistant.history"},
		{"tiny font", func(c *Config) { c.Editor.FontSize = 2 }, "editor.font_size"},
		{"bad tab size", func(c *Config) { c.Editor.TabSize = 0 }, "editor.tab_size"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateAccepts(t *testing.T) {
	cfg := Default()
	cfg.Viewer.HTTPAddr = ""
	cfg.Recent.Store = StoreSQLite
	cfg.Recent.File = ""
	cfg.Runner.Languages = []string{"javascript", "lua", "go"}
	cfg.Logging.Level = "DEBUG"
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestEnsureCreatesThenLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	cfg, created, err := Ensure(path)
	if err != nil || !created {
		t.Fatalf("first Ensure: created=%v err=%v", created, err)
	}
	if cfg.Viewer.HTTPAddr != Default().Viewer.HTTPAddr {
		t.Errorf("http_addr = %q", cfg.Viewer.HTTPAddr)
	}

	cfg.Assistant.ReplyDelayMS = 10
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	cfg, created, err = Ensure(path)
	if err != nil || created {
		t.Fatalf("second Ensure: created=%v err=%v", created, err)
	}
	if cfg.Assistant.ReplyDelayMS != 10 {
		t.Errorf("reply delay = %d", cfg.Assistant.ReplyDelayMS)
	}
}

func TestLoadKeepsDefaultsAndStripsBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"editor":{"font_size":18}}`)...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Editor.FontSize != 18 {
		t.Errorf("font size = %d", cfg.Editor.FontSize)
	}
	if cfg.Editor.TabSize != 4 || cfg.Recent.Store != StoreJSON {
		t.Errorf("defaults lost: %+v %+v", cfg.Editor, cfg.Recent)
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	os.WriteFile(path, []byte(`{"recent":{"store":"redis"}}`), 0o644)

	if _, err := Load(path); err == nil {
		t.Error("Load accepted invalid config")
	}
	if cfg, err := LoadPartial(path); err != nil || cfg.Recent.Store != "redis" {
		t.Errorf("LoadPartial = %+v, %v", cfg.Recent, err)
	}

	if err := Save(path, Config{}); err == nil {
		t.Error("Save accepted zero config")
	}
}
