package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/cbdecode/internal/logging"
)

type OutputMode string

const (
	OutputPretty  OutputMode = "pretty"
	OutputCompact OutputMode = "compact"
)

const (
	DefaultIndent   = 2
	DefaultLogLevel = "warn"
	maxIndent       = 8
)

// Config holds decoder output defaults. Command-line flags override it.
type Config struct {
	Output   OutputMode
	Indent   int
	LogLevel string
}

type fileConfig struct {
	Output   string `toml:"output"`
	Indent   int    `toml:"indent"`
	LogLevel string `toml:"log_level"`
}

func Default() Config {
	return Config{
		Output:   OutputPretty,
		Indent:   DefaultIndent,
		LogLevel: DefaultLogLevel,
	}
}

// Load reads a TOML config file on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("output") {
		cfg.Output = OutputMode(strings.ToLower(strings.TrimSpace(raw.Output)))
	}
	if meta.IsDefined("indent") {
		cfg.Indent = raw.Indent
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	switch cfg.Output {
	case OutputPretty, OutputCompact:
	default:
		return fmt.Errorf("output must be %q or %q, got %q", OutputPretty, OutputCompact, cfg.Output)
	}
	if cfg.Indent < 1 || cfg.Indent > maxIndent {
		return fmt.Errorf("indent must be between 1 and %d, got %d", maxIndent, cfg.Indent)
	}
	if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}
	return nil
}
