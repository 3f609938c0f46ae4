package startup

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"localcast/internal/logging"
	"localcast/internal/media"
	"localcast/internal/mediatypes"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by LoadConfig.
const EnvPrefix = "LOCALCAST"

// Config holds all application configuration. It is not modified after
// LoadConfig returns.
type Config struct {
	MediaRoot         string   `mapstructure:"media_root"`
	Host              string   `mapstructure:"host"`
	Port              string   `mapstructure:"port"`
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
	PublicBaseURL     string   `mapstructure:"public_base_url"`
	MetricsEnabled    bool     `mapstructure:"metrics_enabled"`
	MetricsPort       string   `mapstructure:"metrics_port"`
	RateLimit         int      `mapstructure:"rate_limit"`
	LogLevel          string   `mapstructure:"log_level"`
	LogFormat         string   `mapstructure:"log_format"`
	LogHealthChecks   bool     `mapstructure:"log_health_checks"`
	WatchLibrary      bool     `mapstructure:"watch_library"`

	// ConfigFile is the file the values were read from, if any.
	ConfigFile string `mapstructure:"-"`
}

// Addr returns the host:port the application server listens on.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("media_root", "./tv_content")
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", "8000")
	v.SetDefault("allowed_extensions", mediatypes.DefaultExtensions)
	v.SetDefault("public_base_url", "")
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("metrics_port", "9090")
	v.SetDefault("rate_limit", 600)
	v.SetDefault("log_level", "")
	v.SetDefault("log_format", "console")
	v.SetDefault("log_health_checks", true)
	v.SetDefault("watch_library", true)
}

// readConfig resolves defaults, the optional YAML file and LOCALCAST_*
// environment variables into a validated Config. It has no side effects on
// the filesystem or the logger.
func readConfig(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("localcast")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/localcast")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine, defaults and env apply.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	if strings.TrimSpace(c.MediaRoot) == "" {
		return errors.New("media_root must not be empty")
	}
	root, err := filepath.Abs(c.MediaRoot)
	if err != nil {
		return fmt.Errorf("failed to resolve media root path: %w", err)
	}
	c.MediaRoot = root

	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if err := validatePort("port", c.Port); err != nil {
		return err
	}
	if c.MetricsEnabled {
		if err := validatePort("metrics_port", c.MetricsPort); err != nil {
			return err
		}
		if c.MetricsPort == c.Port {
			return fmt.Errorf("metrics_port %s collides with port", c.MetricsPort)
		}
	}

	c.AllowedExtensions = mediatypes.NormalizeExtensions(c.AllowedExtensions)
	if len(c.AllowedExtensions) == 0 {
		return errors.New("allowed_extensions must list at least one extension")
	}

	base, err := NormalizeBaseURL(c.PublicBaseURL)
	if err != nil {
		return err
	}
	c.PublicBaseURL = base

	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must be >= 0, got %d", c.RateLimit)
	}

	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	switch c.LogFormat {
	case "", "console":
		c.LogFormat = "console"
	case "json":
	default:
		return fmt.Errorf("log_format must be console or json, got %q", c.LogFormat)
	}
	return nil
}

func validatePort(key, port string) error {
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("%s must be a number between 1 and 65535, got %q", key, port)
	}
	return nil
}

// NormalizeBaseURL checks an absolute http(s) URL and strips trailing
// slashes. Empty input stays empty.
func NormalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid public_base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("public_base_url must be an absolute http(s) URL, got %q", raw)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return "", fmt.Errorf("public_base_url must not carry a query or fragment, got %q", raw)
	}
	return strings.TrimRight(raw, "/"), nil
}

// LoadConfig loads configuration, configures the logger from it and logs the
// effective values. The config file path may be set with LOCALCAST_CONFIG.
func LoadConfig() (*Config, error) {
	cfg, err := readConfig(os.Getenv(EnvPrefix + "_CONFIG"))
	if err != nil {
		return nil, err
	}

	logging.Configure(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")
	if cfg.ConfigFile != "" {
		logging.Info("  Config file:         %s", cfg.ConfigFile)
	} else {
		logging.Info("  Config file:         (none, using defaults and %s_* env)", EnvPrefix)
	}
	logging.Info("  MEDIA_ROOT:          %s", cfg.MediaRoot)
	logging.Info("  HOST:                %s", cfg.Host)
	logging.Info("  PORT:                %s", cfg.Port)
	logging.Info("  ALLOWED_EXTENSIONS:  %s", strings.Join(cfg.AllowedExtensions, ","))
	if cfg.PublicBaseURL != "" {
		logging.Info("  PUBLIC_BASE_URL:     %s", cfg.PublicBaseURL)
	} else {
		logging.Info("  PUBLIC_BASE_URL:     (derived from request)")
	}
	logging.Info("  METRICS_ENABLED:     %v", cfg.MetricsEnabled)
	logging.Info("  METRICS_PORT:        %s", cfg.MetricsPort)
	logging.Info("  RATE_LIMIT:          %d/min", cfg.RateLimit)
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())
	logging.Info("  LOG_FORMAT:          %s", cfg.LogFormat)
	logging.Info("  LOG_HEALTH_CHECKS:   %v", cfg.LogHealthChecks)
	logging.Info("  WATCH_LIBRARY:       %v", cfg.WatchLibrary)

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	// Warning only: the root may be a mount that appears later.
	if err := ensureDirectory(cfg.MediaRoot, "media"); err != nil {
		logging.Warn("  Media root issue: %v", err)
	} else if err := ensureDirectory(filepath.Join(cfg.MediaRoot, media.CommonDirName), "common"); err != nil {
		logging.Warn("  Common directory issue: %v", err)
	}

	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    Metrics:       %s", enabledString(cfg.MetricsEnabled))
	logging.Info("    Rate limiting: %s", enabledString(cfg.RateLimit > 0))
	logging.Info("    Watcher:       %s", enabledString(cfg.WatchLibrary))

	return cfg, nil
}
