// Package config provides color scheme and configuration management.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ColorScheme defines the palette for the text tree and the browser.
type ColorScheme struct {
	Base     string `mapstructure:"base"`     // root command
	Subcmd   string `mapstructure:"subcmd"`   // subcommands
	Flag     string `mapstructure:"flag"`     // flag signatures
	Pos      string `mapstructure:"pos"`      // positionals
	Value    string `mapstructure:"value"`    // modifiers and actions
	Hint     string `mapstructure:"hint"`     // value hints
	Invalid  string `mapstructure:"invalid"`  // errors
	Selected string `mapstructure:"selected"` // selected item in the browser
}

// DefaultColors returns the default color scheme.
func DefaultColors() ColorScheme {
	return ColorScheme{
		Base:     "#FFFFFF",
		Subcmd:   "#5EA4F5",
		Flag:     "#50FA7B",
		Pos:      "#F1FA8C",
		Value:    "#FF79C6",
		Hint:     "#BD93F9",
		Invalid:  "#FF5555",
		Selected: "#00BFFF",
	}
}

// Config holds all compspec configuration.
type Config struct {
	Colors      ColorScheme
	NoColor     bool
	NoCache     bool
	Depth       int           // help discovery depth, -1 = default
	Timeout     time.Duration // whole discovery run
	CallTimeout time.Duration // each `<cli> --help` invocation
	CacheDir    string
	CacheTTL    time.Duration
	Strategies  []string
	OutDir      string // write <root>.yaml here instead of stdout
	Output      string // yaml, text or json
}

// Output formats.
const (
	OutputYAML = "yaml"
	OutputText = "text"
	OutputJSON = "json"
)

// EnvPrefix prefixes every environment override, e.g. COMPSPEC_CACHE_DIR.
const EnvPrefix = "COMPSPEC"

// DefaultConfig returns config with sensible defaults and no overrides applied.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Colors:      DefaultColors(),
		Depth:       -1,
		Timeout:     30 * time.Second,
		CallTimeout: 5 * time.Second,
		CacheDir:    filepath.Join(home, ".compspec"),
		CacheTTL:    24 * time.Hour,
		Strategies:  []string{"help"},
		Output:      OutputYAML,
	}
}

// New returns a viper instance seeded with the defaults and reading
// COMPSPEC_* environment variables.
func New() *viper.Viper {
	d := DefaultConfig()
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	v.SetDefault("no_color", false)
	v.SetDefault("no_cache", false)
	v.SetDefault("depth", d.Depth)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("call_timeout", d.CallTimeout)
	v.SetDefault("cache_dir", d.CacheDir)
	v.SetDefault("cache_ttl", d.CacheTTL)
	v.SetDefault("strategies", strings.Join(d.Strategies, ","))
	v.SetDefault("out_dir", "")
	v.SetDefault("output", d.Output)
	return v
}

// Load reads the config file, if any, and resolves every key. An explicit
// file must exist; the default $HOME/.compspec/config.yaml is optional.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".compspec"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Colors:      DefaultColors(),
		NoColor:     v.GetBool("no_color") || os.Getenv("NO_COLOR") != "",
		NoCache:     v.GetBool("no_cache"),
		Depth:       v.GetInt("depth"),
		Timeout:     v.GetDuration("timeout"),
		CallTimeout: v.GetDuration("call_timeout"),
		CacheDir:    v.GetString("cache_dir"),
		CacheTTL:    v.GetDuration("cache_ttl"),
		Strategies:  strategies(v),
		OutDir:      v.GetString("out_dir"),
		Output:      strings.ToLower(v.GetString("output")),
	}
	if v.IsSet("colors") {
		if err := v.UnmarshalKey("colors", &cfg.Colors); err != nil {
			return nil, fmt.Errorf("decode colors: %w", err)
		}
	}
	switch cfg.Output {
	case OutputYAML, OutputText, OutputJSON:
	default:
		return nil, fmt.Errorf("unknown output format %q (want yaml, text or json)", cfg.Output)
	}
	return cfg, nil
}

// strategies accepts a comma-separated string (flags, env) or a list
// (config file).
func strategies(v *viper.Viper) []string {
	if s, ok := v.Get("strategies").(string); ok {
		return ParseStrategies(s)
	}
	if list := v.GetStringSlice("strategies"); len(list) > 0 {
		return list
	}
	return []string{"help"}
}

// ParseStrategies splits a comma-separated strategy string.
func ParseStrategies(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	if len(result) == 0 {
		return []string{"help"}
	}
	return result
}
