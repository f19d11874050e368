package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/OLUWAMUYIWA/bdecode/formats"
)

const (
	EnvMaxDepth = "BDECODE_MAX_DEPTH"
	EnvStrict   = "BDECODE_STRICT"
	EnvBinary   = "BDECODE_BINARY"
	EnvFormat   = "BDECODE_FORMAT"
	EnvVerbose  = "BDECODE_VERBOSE"
)

// Config is what a bdecode run needs to know. It is filled from defaults, then a TOML
// file, then the environment, then command-line flags, each overriding the last.
type Config struct {
	Decoder DecoderConfig `toml:"decoder"`
	Output  OutputConfig  `toml:"output"`
	Verbose bool          `toml:"verbose"`
}

type DecoderConfig struct {
	MaxDepth             int  `toml:"max_depth"`
	DisallowTrailingData bool `toml:"disallow_trailing_data"`
	StrictIntegers       bool `toml:"strict_integers"`
	AllowBinaryStrings   bool `toml:"allow_binary_strings"`
}

type OutputConfig struct {
	Format string `toml:"format"`
	// Truncate shortens strings in text output to this many runes. Zero keeps them whole.
	Truncate int `toml:"truncate"`
}

func defaultConfig() Config {
	return Config{
		Output: OutputConfig{Format: formatText, Truncate: 64},
	}
}

// loadConfig reads a TOML file over the defaults. Keys the file sets that Config
// does not know about are an error, so typos do not go unnoticed.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := parseInt(os.Getenv(EnvMaxDepth)); ok {
		cfg.Decoder.MaxDepth = v
	}
	if v, ok := parseBool(os.Getenv(EnvStrict)); ok {
		cfg.Decoder.DisallowTrailingData = v
		cfg.Decoder.StrictIntegers = v
	}
	if v, ok := parseBool(os.Getenv(EnvBinary)); ok {
		cfg.Decoder.AllowBinaryStrings = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFormat)); v != "" {
		cfg.Output.Format = strings.ToLower(v)
	}
	if v, ok := parseBool(os.Getenv(EnvVerbose)); ok {
		cfg.Verbose = v
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

func parseInt(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (c Config) validate() error {
	if !knownFormat(c.Output.Format) {
		return fmt.Errorf("unknown output format %q (want one of %s)", c.Output.Format, strings.Join(formatNames, ", "))
	}
	if c.Output.Truncate < 0 {
		return fmt.Errorf("truncate must not be negative, got %d", c.Output.Truncate)
	}
	return nil
}

func (c Config) decOptions() formats.DecOptions {
	return formats.DecOptions{
		MaxDepth:             c.Decoder.MaxDepth,
		DisallowTrailingData: c.Decoder.DisallowTrailingData,
		StrictIntegers:       c.Decoder.StrictIntegers,
		AllowBinaryStrings:   c.Decoder.AllowBinaryStrings,
	}
}
