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

type Config struct {
	App     AppConfig     `mapstructure:"app" yaml:"app"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Engine  EngineConfig  `mapstructure:"engine" yaml:"engine"`
	User    UserConfig    `mapstructure:"user" yaml:"user"`
}

type AppConfig struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	// LogMode is "prod" (JSON) or "dev" (console).
	LogMode string `mapstructure:"log_mode" yaml:"log_mode"`
}

type StorageConfig struct {
	DBPath string `mapstructure:"db_path" yaml:"db_path"`
}

type EngineConfig struct {
	Timezone    string `mapstructure:"timezone" yaml:"timezone"`
	DailyMin    int    `mapstructure:"daily_min" yaml:"daily_min"`
	DailyMax    int    `mapstructure:"daily_max" yaml:"daily_max"`
	CatalogPath string `mapstructure:"catalog_path" yaml:"catalog_path,omitempty"`
}

type UserConfig struct {
	ID   string `mapstructure:"id" yaml:"id"`
	Role string `mapstructure:"role" yaml:"role"`
}

const envPrefix = "PRODIGY"

// Load reads configPath, or the first prodigy.yaml found in the user config
// dir and the working directory. A missing file is not an error; PRODIGY_*
// environment variables override file values.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("prodigy")
		v.SetConfigType("yaml")
		if dir, err := DefaultConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.log_level", "warn")
	v.SetDefault("app.log_mode", "dev")

	v.SetDefault("storage.db_path", "")

	v.SetDefault("engine.timezone", "Local")
	v.SetDefault("engine.daily_min", 3)
	v.SetDefault("engine.daily_max", 5)
	v.SetDefault("engine.catalog_path", "")

	v.SetDefault("user.id", "main")
	v.SetDefault("user.role", "user")
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.User.ID) == "" {
		return fmt.Errorf("config: user.id must not be empty")
	}
	switch c.User.Role {
	case "guest", "user", "premium", "admin":
	default:
		return fmt.Errorf("config: user.role must be one of guest, user, premium, admin; got %q", c.User.Role)
	}
	if c.Engine.DailyMin < 1 || c.Engine.DailyMax < c.Engine.DailyMin {
		return fmt.Errorf("config: need 1 <= engine.daily_min <= engine.daily_max")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves engine.timezone; "Local" and "" mean the system zone.
func (c *Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Engine.Timezone)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("config: engine.timezone: %w", err)
	}
	return loc, nil
}

// DefaultConfigDir is $XDG_CONFIG_HOME/prodigy (or the OS equivalent).
func DefaultConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(dir, "prodigy"), nil
}
