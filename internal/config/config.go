package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverSheets = "sheets"
	DriverDapr   = "dapr"
	DriverMemory = "memory"
)

type Config struct {
	Env     string        `mapstructure:"env"`
	Service ServiceConfig `mapstructure:"service"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Store   StoreConfig   `mapstructure:"store"`
	Sheets  SheetsConfig  `mapstructure:"sheets"`
	Google  GoogleConfig  `mapstructure:"google"`
	Dapr    DaprConfig    `mapstructure:"dapr"`
	Site    SiteConfig    `mapstructure:"site"`

	// ConfigFile is the file viper read, empty when running from env only.
	ConfigFile string `mapstructure:"-"`
}

type ServiceConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

type ServerConfig struct {
	Port         string `mapstructure:"port"`
	GinMode      string `mapstructure:"gin_mode"`
	ReadTimeout  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeout int    `mapstructure:"write_timeout_seconds"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// Telemetry sends traces and metrics to stdout when set.
	Telemetry bool `mapstructure:"telemetry"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
}

type SheetsConfig struct {
	SpreadsheetID   string `mapstructure:"spreadsheet_id"`
	SpreadsheetName string `mapstructure:"spreadsheet_name"`
	// Tab defaults to the first sheet of the spreadsheet when empty.
	Tab string `mapstructure:"tab"`
}

type GoogleConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
	CredentialsJSON string `mapstructure:"credentials_json"`
}

type DaprConfig struct {
	BindingName string `mapstructure:"binding_name"`
}

type SiteConfig struct {
	Brand       string `mapstructure:"brand"`
	AnalyticsID string `mapstructure:"analytics_id"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("service.name", "growsense-site")
	v.SetDefault("service.version", "1.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.gin_mode", "")
	v.SetDefault("server.read_timeout_seconds", 15)
	v.SetDefault("server.write_timeout_seconds", 30)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.telemetry", false)
	v.SetDefault("store.driver", DriverSheets)
	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.spreadsheet_name", "Growtopia signups")
	v.SetDefault("sheets.tab", "")
	v.SetDefault("google.credentials_file", "")
	v.SetDefault("google.credentials_json", "")
	v.SetDefault("dapr.binding_name", "")
	v.SetDefault("site.brand", "Growtopia")
	v.SetDefault("site.analytics_id", "")
}

// Load reads config.<ENV>.yaml when present, then applies GROWSENSE_*
// environment overrides. A .env file in the working directory is loaded first.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	env := os.Getenv("ENV")
	if env == "" {
		env = "local"
	}

	return load(env, "/configs", "./configs")
}

func load(env string, paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.Set("env", env)

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("GROWSENSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The service-account secret keeps its conventional unprefixed name.
	_ = v.BindEnv("google.credentials_json", "GROWSENSE_GOOGLE_CREDENTIALS_JSON", "GOOGLE_SERVICE_ACCOUNT_JSON")
	_ = v.BindEnv("google.credentials_file", "GROWSENSE_GOOGLE_CREDENTIALS_FILE", "GOOGLE_APPLICATION_CREDENTIALS")
	_ = v.BindEnv("server.port", "GROWSENSE_SERVER_PORT", "PORT")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.ConfigFile = v.ConfigFileUsed()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverSheets:
		if c.Sheets.SpreadsheetID == "" && c.Sheets.SpreadsheetName == "" {
			return errors.New("sheets driver needs sheets.spreadsheet_id or sheets.spreadsheet_name")
		}
		if c.Google.CredentialsJSON == "" && c.Google.CredentialsFile == "" {
			return errors.New("sheets driver needs google.credentials_json or google.credentials_file")
		}
	case DriverDapr:
		if c.Dapr.BindingName == "" {
			return errors.New("dapr driver needs dapr.binding_name")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	if c.Server.Port == "" {
		return errors.New("server.port must not be empty")
	}

	return nil
}
