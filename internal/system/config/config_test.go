package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server:
  hostname: "localhost"
  port: 9446
database:
  datarequest:
    type: "mysql"
    hostname: "db.local"
    port: 3306
    user: "requestdata"
    password: "secret"
    database: "requestdata"
catalog:
  base_url: "http://ckan.local"
  api_key: "key"
  timeout: 5s
  hdx_mode: true
request:
  allow_public_view: true
logging:
  level: "debug"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deployment.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ReadsFileAndDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Hostname)
	assert.Equal(t, 9446, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "db.local", cfg.Database.DataRequest.Hostname)
	assert.Equal(t, 25, cfg.Database.DataRequest.MaxOpenConns)
	assert.Equal(t, "http://ckan.local", cfg.Catalog.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, "maintainer", cfg.Catalog.MaintainerField)
	assert.True(t, cfg.Catalog.HDXMode)
	assert.True(t, cfg.Request.AllowPublicView)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Same(t, cfg, Get())
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv("DATA_REQUEST_SERVER_PORT", "9999")
	t.Setenv("DATA_REQUEST_DATABASE_DATAREQUEST_PASSWORD", "from-env")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Database.DataRequest.Password)
}

func TestLoad_ValidationFailures(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{
			name: "missing catalog",
			content: `
database:
  datarequest:
    hostname: "db.local"
    database: "requestdata"
`,
		},
		{
			name: "unsupported database type",
			content: `
database:
  datarequest:
    type: "oracle"
    hostname: "db.local"
    database: "requestdata"
catalog:
  base_url: "http://ckan.local"
`,
		},
		{
			name: "missing database host",
			content: `
database:
  datarequest:
    database: "requestdata"
catalog:
  base_url: "http://ckan.local"
`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	mysqlCfg := DatabaseConfig{Type: DatabaseTypeMySQL, User: "u", Password: "p", Hostname: "h", Port: 3306, Database: "d"}
	assert.Equal(t, "u:p@tcp(h:3306)/d?parseTime=true", mysqlCfg.GetDSN())
	assert.Equal(t, "mysql", mysqlCfg.GetDriverName())

	pgCfg := DatabaseConfig{Type: DatabaseTypePostgres, User: "u", Password: "p@ss", Hostname: "h", Port: 5432, Database: "d", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@h:5432/d?sslmode=disable", pgCfg.GetDSN())
	assert.Equal(t, "pgx", pgCfg.GetDriverName())
}
