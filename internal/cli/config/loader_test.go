package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Cleanup(ResetConfig)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.Equal(t, DefaultDriver, cfg.Database.Driver)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, DefaultMigrationsDir, cfg.MigrationsDir)
	assert.False(t, cfg.Verbose)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Cleanup(ResetConfig)

	dir := t.TempDir()
	path := filepath.Join(dir, "storeapi.yaml")
	content := `
server:
  addr: ":9000"
database:
  driver: postgres
  host: db.internal
  port: 5433
  user: app
  name: shop
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "shop", cfg.Database.Name)
	assert.Equal(t, path, GetConfigFileUsed())
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	t.Cleanup(ResetConfig)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Cleanup(ResetConfig)

	t.Setenv("STOREAPI_DATABASE__NAME", "shop")
	t.Setenv("STOREAPI_DATABASE__PASSWORD", "hunter2")
	t.Setenv("STOREAPI_SERVER__ADDR", ":7000")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "shop", cfg.Database.Name)
	assert.Equal(t, "hunter2", cfg.Database.Password)
	assert.Equal(t, ":7000", cfg.Server.Addr)
}

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	t.Cleanup(ResetConfig)

	t.Setenv("STOREAPI_DATABASE__HOST", "env-host")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("db-host", "", "")
	flags.String("db-name", "", "")
	flags.String("addr", "", "")
	flags.Bool("verbose", false, "")
	require.NoError(t, flags.Parse([]string{"--db-host=flag-host", "--db-name=shop", "--addr=:7070", "--verbose"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, "flag-host", cfg.Database.Host)
	assert.Equal(t, "shop", cfg.Database.Name)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfigUnsetFlagsIgnored(t *testing.T) {
	t.Cleanup(ResetConfig)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("db-host", "", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Database.Host)
}

func TestFlagKey(t *testing.T) {
	tests := []struct {
		flag string
		want string
	}{
		{"db-host", "database.host"},
		{"db-port", "database.port"},
		{"db-driver", "database.driver"},
		{"addr", "server.addr"},
		{"migrations-dir", "migrations_dir"},
		{"verbose", "verbose"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, flagKey(tt.flag), tt.flag)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Driver: "mysql"}}
	assert.NoError(t, cfg.Validate())

	cfg.Database.Driver = "postgres"
	assert.NoError(t, cfg.Validate())

	cfg.Database.Driver = "oracle"
	assert.Error(t, cfg.Validate())
}

func TestValidateDatabase(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Driver: "mysql"}}
	err := cfg.ValidateDatabase()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database name is required")

	cfg.Database.Name = "shop"
	assert.NoError(t, cfg.ValidateDatabase())
}

func TestMigrationsDirFor(t *testing.T) {
	cfg := &Config{MigrationsDir: "internal/store/migrations"}
	assert.Equal(t, filepath.Join("internal/store/migrations", "mysql"), cfg.MigrationsDirFor("mysql"))
}
