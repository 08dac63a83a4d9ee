package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("PORT", "")
	t.Setenv("GIN_MODE", "")
	t.Setenv("S3_ENDPOINT", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "mysql", cfg.DBDriver)
	require.Equal(t, "8080", cfg.Port)
	require.False(t, cfg.IsProduction())
	require.False(t, cfg.StorageEnabled())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("db_driver: postgres\nport: \"9000\"\nadmin_emails:\n  - root@fest.test\nrate_limit_burst: 3\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")
	t.Setenv("DB_DRIVER", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "postgres", cfg.DBDriver)
	require.Equal(t, "9100", cfg.Port)
	require.Equal(t, []string{"root@fest.test"}, cfg.AdminEmails)
	require.Equal(t, 3, cfg.RateLimitBurst)
}

func TestLoad_AdminEmailsFromEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ADMIN_EMAILS", " a@fest.test, ,b@fest.test ")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, []string{"a@fest.test", "b@fest.test"}, cfg.AdminEmails)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	require.Error(t, err)
}
