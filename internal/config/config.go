package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config carries everything the binary needs. Resolution order is defaults,
// then the optional TOML file, then environment variables.
type Config struct {
	Port        int    `toml:"port"`
	LogLevel    string `toml:"log_level"`
	InputDir    string `toml:"input_dir"`
	OutputDir   string `toml:"output_dir"`
	ExportMode  string `toml:"export_mode"`
	StateFile   string `toml:"state_file"`
	DatabaseURL string `toml:"database_url"`
	NatsURL     string `toml:"nats_url"`
	NatsToken   string `toml:"nats_token"`
}

// Load resolves configuration. path names an explicit TOML file; when empty
// the CHAT2MD_CONFIG variable and then ~/.chat2md/config.toml are tried. A
// missing file is fine, and a broken one degrades to env + defaults.
func Load(path string) Config {
	cfg := Config{
		Port:       8760,
		LogLevel:   "info",
		OutputDir:  "exports",
		ExportMode: "chat",
		StateFile:  "~/.chat2md/state.json",
	}

	if path == "" {
		path = os.Getenv("CHAT2MD_CONFIG")
	}
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".chat2md", "config.toml")
		}
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			_, _ = toml.DecodeFile(path, &cfg)
		}
	}

	cfg.Port = envInt("CHAT2MD_PORT", cfg.Port)
	cfg.LogLevel = envStr("CHAT2MD_LOG_LEVEL", cfg.LogLevel)
	cfg.InputDir = envStr("CHAT2MD_INPUT_DIR", cfg.InputDir)
	cfg.OutputDir = envStr("CHAT2MD_OUTPUT_DIR", cfg.OutputDir)
	cfg.ExportMode = envStr("CHAT2MD_EXPORT_MODE", cfg.ExportMode)
	cfg.StateFile = envStr("CHAT2MD_STATE_FILE", cfg.StateFile)
	cfg.DatabaseURL = envStr("DATABASE_URL", cfg.DatabaseURL)
	cfg.NatsURL = envStr("NATS_URL", cfg.NatsURL)
	cfg.NatsToken = envStr("NATS_TOKEN", cfg.NatsToken)

	return cfg
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
