package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "agendu.db"
	DefaultLogName        = "agendu.log"

	// EnvConfigPath overrides the config location when no flag is given.
	EnvConfigPath = "AGENDU_CONFIG"

	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

type Keymap struct {
	Quit          string `toml:"quit"`
	Add           string `toml:"add"`
	Up            string `toml:"up"`
	Down          string `toml:"down"`
	Toggle        string `toml:"toggle"`
	Delete        string `toml:"delete"`
	Edit          string `toml:"edit"`
	Confirm       string `toml:"confirm"`
	Cancel        string `toml:"cancel"`
	ClearDone     string `toml:"clear_done"`
	StatusFilter  string `toml:"status_filter"`
	PriorityCycle string `toml:"priority_filter"`
	SwitchPane    string `toml:"switch_pane"`
	Planned       string `toml:"toggle_planned"`
	Summary       string `toml:"summary"`
}

type LogConfig struct {
	Level    string `toml:"level"`
	Encoding string `toml:"encoding"`
	Path     string `toml:"path"`
}

type SummaryConfig struct {
	Enabled        bool   `toml:"enabled"`
	Model          string `toml:"model"`
	APIKeyEnv      string `toml:"api_key_env"`
	IncludePlanned bool   `toml:"include_planned"`
	Timeout        string `toml:"timeout"`
}

type Config struct {
	DBPath          string        `toml:"db_path"`
	Backend         string        `toml:"backend"`
	DefaultFilter   string        `toml:"default_filter"`
	DefaultPriority string        `toml:"default_priority"`
	Log             LogConfig     `toml:"log"`
	Summary         SummaryConfig `toml:"summary"`
	Keys            Keymap        `toml:"keys"`
}

// ResolveConfigPath picks the config file location: $AGENDU_CONFIG first,
// then the per-user config directory, then the working directory.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, "agendu", DefaultConfigFileName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		cfg.resolvePaths(filepath.Dir(path))
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendSQLite
	}
	if cfg.Log.Path == "" {
		cfg.Log.Path = DefaultLogName
	}
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

// LoadEnv reads an optional .env file next to the config so API keys can
// stay out of config.toml. A missing file is not an error.
func LoadEnv(configPath string) error {
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if _, err := os.Stat(envPath); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(envPath)
}

// RequestTimeout parses summary.timeout. Zero means wait indefinitely.
func (s SummaryConfig) RequestTimeout() time.Duration {
	if s.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(s.Timeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// APIKey returns the summary service key from the configured variable.
func (c Config) APIKey() string {
	name := c.Summary.APIKeyEnv
	if name == "" {
		name = "GEMINI_API_KEY"
	}
	return os.Getenv(name)
}

func (c *Config) resolvePaths(base string) {
	if c.DBPath != "" && !filepath.IsAbs(c.DBPath) {
		c.DBPath = filepath.Join(base, c.DBPath)
	}
	if c.Log.Path != "" && !filepath.IsAbs(c.Log.Path) {
		c.Log.Path = filepath.Join(base, c.Log.Path)
	}
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		DBPath:          DefaultDBName,
		Backend:         BackendSQLite,
		DefaultFilter:   "pending",
		DefaultPriority: "all",
		Log: LogConfig{
			Level:    "info",
			Encoding: "json",
			Path:     DefaultLogName,
		},
		Summary: SummaryConfig{
			Enabled:   false,
			Model:     "gemini-2.0-flash",
			APIKeyEnv: "GEMINI_API_KEY",
		},
		Keys: Keymap{
			Quit:          "q",
			Add:           "a",
			Up:            "k",
			Down:          "j",
			Toggle:        " ",
			Delete:        "d",
			Edit:          "e",
			Confirm:       "enter",
			Cancel:        "esc",
			ClearDone:     "C",
			StatusFilter:  "f",
			PriorityCycle: "p",
			SwitchPane:    "tab",
			Planned:       "P",
			Summary:       "s",
		},
	}
}
