package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/petervdpas/codestudio/internal/util"
)

// FileName is the config file created in a workspace directory.
const FileName = "codestudio.json"

type Config struct {
	Viewer    Viewer    `json:"viewer"`
	Recent    Recent    `json:"recent"`
	Storage   Storage   `json:"storage"`
	Runner    Runner    `json:"runner"`
	Assistant Assistant `json:"assistant"`
	Editor    Editor    `json:"editor"`
	Logging   Logging   `json:"logging"`
}

type Viewer struct {
	HTTPAddr    string `json:"http_addr"`
	Debug       bool   `json:"debug"`
	Theme       string `json:"theme"`
	OpenBrowser bool   `json:"open_browser"`
}

// Recent selects where the recent-files ledger is persisted.
type Recent struct {
	// "json", "sqlite" or "memory"
	Store string `json:"store"`
	// JSON ledger path, relative to the workspace dir. Used when Store is "json".
	File string `json:"file"`
	// Reload the JSON ledger when another process writes it.
	Watch bool `json:"watch"`
}

type Storage struct {
	DBDir string `json:"db_dir"`
	// Number of run history rows kept. 0 disables run history.
	RunHistory int `json:"run_history"`
}

type Runner struct {
	// Languages with an in-process executor. Executors run with the full
	// privileges of this process; anything not listed reports "unsupported".
	Languages      []string `json:"languages"`
	TimeoutSeconds int      `json:"timeout_seconds"` // 0 = no timeout
	LuaMaxMemoryMB int      `json:"lua_max_memory_mb"`
}

type Assistant struct {
	Enabled      bool `json:"enabled"`
	ReplyDelayMS int  `json:"reply_delay_ms"`
	History      int  `json:"history"`
}

// Editor settings are passed through to the browser editor widget.
type Editor struct {
	FontSize int  `json:"font_size"`
	TabSize  int  `json:"tab_size"`
	WordWrap bool `json:"word_wrap"`
	Minimap  bool `json:"minimap"`
}

type Logging struct {
	Level string `json:"level"`
}

// Recent store kinds
const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

var knownLanguages = map[string]bool{
	"javascript": true,
	"lua":        true,
	"go":         true,
}

var knownLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
	"dpanic": true, "panic": true, "fatal": true,
}

func Default() Config {
	return Config{
		Viewer: Viewer{
			HTTPAddr: "127.0.0.1:7878",
			Debug:    false,
			Theme:    "dark",
		},
		Recent: Recent{
			Store: StoreJSON,
			File:  "data/recent.json",
			Watch: true,
		},
		Storage: Storage{
			DBDir:      "data",
			RunHistory: 200,
		},
		Runner: Runner{
			Languages:      []string{"javascript"},
			TimeoutSeconds: 0,
			LuaMaxMemoryMB: 10,
		},
		Assistant: Assistant{
			Enabled:      true,
			ReplyDelayMS: 1000,
			History:      200,
		},
		Editor: Editor{
			FontSize: 14,
			TabSize:  4,
			WordWrap: false,
			Minimap:  true,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

func (c *Config) Validate() error {
	// Viewer
	if a := strings.TrimSpace(c.Viewer.HTTPAddr); a != "" {
		if _, _, err := net.SplitHostPort(a); err != nil {
			return fmt.Errorf("viewer.http_addr: %w", err)
		}
	}
	if t := c.Viewer.Theme; t != "dark" && t != "light" {
		return errors.New("viewer.theme must be dark or light")
	}

	// Recent
	switch c.Recent.Store {
	case StoreJSON:
		if strings.TrimSpace(c.Recent.File) == "" {
			return errors.New("recent.file is required when recent.store is json")
		}
	case StoreSQLite, StoreMemory:
	default:
		return errors.New("recent.store must be json, sqlite or memory")
	}

	// Storage
	if strings.TrimSpace(c.Storage.DBDir) == "" {
		return errors.New("storage.db_dir is required")
	}
	if c.Storage.RunHistory < 0 {
		return errors.New("storage.run_history must be >= 0")
	}

	// Runner
	for _, l := range c.Runner.Languages {
		if !knownLanguages[l] {
			return fmt.Errorf("runner.languages: no executor for %q", l)
		}
	}
	if c.Runner.TimeoutSeconds < 0 || c.Runner.TimeoutSeconds > 3600 {
		return errors.New("runner.timeout_seconds must be 0..3600")
	}
	if c.Runner.LuaMaxMemoryMB < 0 || c.Runner.LuaMaxMemoryMB > 1024 {
		return errors.New("runner.lua_max_memory_mb must be 0..1024")
	}

	// Assistant
	if c.Assistant.ReplyDelayMS < 0 {
		return errors.New("assistant.reply_delay_ms must be >= 0")
	}
	if c.Assistant.History < 1 {
		return errors.New("assistant.history must be > 0")
	}

	// Editor
	if c.Editor.FontSize < 6 || c.Editor.FontSize > 72 {
		return errors.New("editor.font_size must be 6..72")
	}
	if c.Editor.TabSize < 1 || c.Editor.TabSize > 16 {
		return errors.New("editor.tab_size must be 1..16")
	}

	// Logging
	if !knownLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}

	return nil
}

// RunnerEnabled reports whether an executor is configured for language.
func (c *Config) RunnerEnabled(language string) bool {
	for _, l := range c.Runner.Languages {
		if l == language {
			return true
		}
	}
	return false
}

func Load(path string) (Config, error) {
	cfg, err := LoadPartial(path)
	if err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadPartial reads a config file without validation.
func LoadPartial(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	// Strip UTF-8 BOM if present (common when editing JSON on Windows).
	b = stripBOM(b)

	// Start from defaults so missing JSON fields remain initialized.
	cfg := Default()
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// stripBOM removes a UTF-8 byte order mark if present.
func stripBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}

func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	return util.WriteJSONFile(path, cfg)
}

// Ensure loads config if it exists; otherwise creates a default config file.
// Returns (cfg, createdNew, err).
func Ensure(path string) (Config, bool, error) {
	if _, err := os.Stat(path); err == nil {
		cfg, err := Load(path)
		return cfg, false, err
	} else if !os.IsNotExist(err) {
		return Config{}, false, err
	}

	cfg := Default()
	if err := Save(path, cfg); err != nil {
		return Config{}, false, fmt.Errorf("create default config: %w", err)
	}
	return cfg, true, nil
}
