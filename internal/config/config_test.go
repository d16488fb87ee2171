package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithMemoryDriver(t *testing.T) {
	t.Setenv("GROWSENSE_STORE_DRIVER", "memory")
	t.Setenv("PORT", "")

	cfg, err := load("test", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "growsense-site", cfg.Service.Name)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, "Growtopia signups", cfg.Sheets.SpreadsheetName)
	assert.Equal(t, "Growtopia", cfg.Site.Brand)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoadReadsYAMLAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
server:
  port: "9090"
store:
  driver: sheets
sheets:
  spreadsheet_id: sheet-from-file
  tab: Signups
google:
  credentials_file: /secrets/sa.json
site:
  analytics_id: G-TEST
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.staging.yaml"), yaml, 0o600))

	t.Setenv("PORT", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	t.Setenv("GROWSENSE_SHEETS_SPREADSHEET_ID", "sheet-from-env")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", `{"type":"service_account"}`)

	cfg, err := load("staging", dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "sheet-from-env", cfg.Sheets.SpreadsheetID)
	assert.Equal(t, "Signups", cfg.Sheets.Tab)
	assert.Equal(t, "/secrets/sa.json", cfg.Google.CredentialsFile)
	assert.Equal(t, `{"type":"service_account"}`, cfg.Google.CredentialsJSON)
	assert.Equal(t, "G-TEST", cfg.Site.AnalyticsID)
	assert.Equal(t, filepath.Join(dir, "config.staging.yaml"), cfg.ConfigFile)
}

func TestLoadRejectsSheetsWithoutCredentials(t *testing.T) {
	t.Setenv("GROWSENSE_STORE_DRIVER", "sheets")
	t.Setenv("GROWSENSE_SHEETS_SPREADSHEET_ID", "abc")

	_, err := load("test", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials")
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Server: ServerConfig{Port: "8080"},
			Store:  StoreConfig{Driver: DriverSheets},
			Sheets: SheetsConfig{SpreadsheetID: "abc"},
			Google: GoogleConfig{CredentialsJSON: "{}"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid sheets", func(c *Config) {}, ""},
		{"sheets by name", func(c *Config) { c.Sheets.SpreadsheetID = ""; c.Sheets.SpreadsheetName = "Growtopia signups" }, ""},
		{"sheets without target", func(c *Config) { c.Sheets.SpreadsheetID = "" }, "spreadsheet_id"},
		{"dapr without binding", func(c *Config) { c.Store.Driver = DriverDapr }, "binding_name"},
		{"dapr with binding", func(c *Config) { c.Store.Driver = DriverDapr; c.Dapr.BindingName = "signups" }, ""},
		{"memory", func(c *Config) { c.Store.Driver = DriverMemory; c.Google = GoogleConfig{} }, ""},
		{"unknown driver", func(c *Config) { c.Store.Driver = "postgres" }, "unknown store driver"},
		{"empty port", func(c *Config) { c.Server.Port = "" }, "server.port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
