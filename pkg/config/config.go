// Package config loads configuration for the hosts file generator.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"hostsblock/pkg/blocklist"
)

const (
	defaultConfigPath = "/etc/hostsblock/hostsblock.toml"
	configEnvVar      = "HOSTSBLOCK_CONFIG"
	envPrefix         = "HOSTSBLOCK"
	dotEnvFile        = ".env"
)

// Config contains all runtime options of a merge run.
type Config struct {
	Output  OutputConfig           `mapstructure:"output"`
	Logging LoggingConfig          `mapstructure:"logging"`
	Fetch   FetchConfig            `mapstructure:"fetch"`
	Exclude ExcludeConfig          `mapstructure:"exclude"`
	Metrics MetricsConfig          `mapstructure:"metrics"`
	Sources []blocklist.ListConfig `mapstructure:"sources"`

	// File is the configuration file that was read, empty for built-in defaults.
	File string `mapstructure:"-"`
}

// OutputConfig holds settings of the generated hosts file.
type OutputConfig struct {
	// Path defaults to "hosts" next to the executable.
	Path string `mapstructure:"path"`
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// FetchConfig holds source download settings.
type FetchConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	CacheDir  string        `mapstructure:"cache_dir"`
	FailFast  bool          `mapstructure:"fail_fast"`
}

// ExcludeConfig holds hosts removed on top of the built-in sentinels.
type ExcludeConfig struct {
	Hosts     []string `mapstructure:"hosts"`
	Allowlist string   `mapstructure:"allowlist"`
}

// MetricsConfig holds metrics output settings.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// ValidateLogLevel ensures the user-provided log level matches the supported set.
func ValidateLogLevel(level string) error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(level)] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", level)
	}
	return nil
}

// Setup loads the TOML configuration and produces a Config instance. path
// wins over HOSTSBLOCK_CONFIG; when neither is set and the default file does
// not exist the built-in defaults are used. Flags named "output" and
// "log-level" in flags override the file.
func Setup(path string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", dotEnvFile, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := bindFlags(v, flags); err != nil {
		return nil, err
	}

	configPath, required := resolvePath(path)
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			if required || !isNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
			configPath = ""
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	cfg.File = configPath

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output.path", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "stdout")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 28)
	v.SetDefault("fetch.timeout", "20s")
	v.SetDefault("fetch.user_agent", "")
	v.SetDefault("fetch.cache_dir", "")
	v.SetDefault("fetch.fail_fast", true)
	v.SetDefault("exclude.hosts", []string{})
	v.SetDefault("exclude.allowlist", "")
	v.SetDefault("metrics.textfile", "")
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	bindings := map[string]string{
		"output.path":   "output",
		"logging.level": "log-level",
	}
	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// resolvePath returns the config file to read and whether it must exist.
func resolvePath(path string) (string, bool) {
	if path = strings.TrimSpace(path); path != "" {
		return path, true
	}
	if fromEnv := strings.TrimSpace(os.Getenv(configEnvVar)); fromEnv != "" {
		return fromEnv, true
	}
	return defaultConfigPath, false
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	if err := ValidateLogLevel(cfg.Logging.Level); err != nil {
		return err
	}

	if cfg.Fetch.Timeout <= 0 {
		return errors.New("fetch.timeout must be > 0")
	}

	if cfg.Logging.MaxSizeMB < 0 || cfg.Logging.MaxBackups < 0 || cfg.Logging.MaxAgeDays < 0 {
		return errors.New("logging rotation settings must be >= 0")
	}

	seen := make(map[string]bool, len(cfg.Sources))
	for i, source := range cfg.Sources {
		id := strings.TrimSpace(source.ID)
		if id == "" {
			return fmt.Errorf("sources[%d]: id is required", i)
		}
		if seen[id] {
			return fmt.Errorf("sources[%d]: duplicate id %q", i, id)
		}
		seen[id] = true
		if strings.TrimSpace(source.URL) == "" && !inCatalog(id) {
			return fmt.Errorf("sources[%d]: url is required for %q", i, id)
		}
	}

	if allowlist := cfg.Exclude.Allowlist; allowlist != "" {
		if _, err := os.Stat(allowlist); err != nil {
			return fmt.Errorf("exclude.allowlist not accessible: %w", err)
		}
	}

	return nil
}

func inCatalog(id string) bool {
	for _, def := range blocklist.Catalog {
		if def.ID == id {
			return true
		}
	}
	return false
}
