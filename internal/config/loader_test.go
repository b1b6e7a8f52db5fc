package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
http:
  listen_addr: ":8080"
  platform_hosts: ["localhost", "sites.example.com"]
database:
  driver: mysql
  dsn: "app:%s@tcp(127.0.0.1:3306)/photoproos?parseTime=true"
  password: "vault:secret/photoproos#db_password"
publish:
  grant_secret: "vault:secret/photoproos#grant_secret"
  cache_ttl: 30s
`

type fakeSecrets map[string]string

func (f fakeSecrets) GetKV(_ context.Context, path, key string, _ time.Duration) (string, error) {
	v, ok := f[path+"#"+key]
	if !ok {
		return "", errors.New("missing secret")
	}
	return v, nil
}

func writeConf(t *testing.T, body string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "conf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(body), 0o644))
	return root
}

func withSecrets(t *testing.T, src SecretSource) {
	t.Helper()
	prev := newSecretSource
	newSecretSource = func(context.Context) (SecretSource, error) { return src, nil }
	t.Cleanup(func() { newSecretSource = prev })
}

func TestLoad_ResolvesVaultRefsAndDefaults(t *testing.T) {
	root := writeConf(t, testYAML)
	t.Setenv("PHOTOPROOS_ROOT", root)
	withSecrets(t, fakeSecrets{
		"secret/photoproos#db_password":  "s3cret",
		"secret/photoproos#grant_secret": "grant-key",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "grant-key", cfg.Publish.GrantSecret)
	assert.Equal(t, "app:s3cret@tcp(127.0.0.1:3306)/photoproos?parseTime=true", cfg.DSN())
	assert.Equal(t, 30*time.Second, cfg.Publish.CacheTTL)
	assert.Equal(t, 15*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, 500, cfg.Publish.CacheMaxEntries)
	assert.Equal(t, root, cfg.Paths.Root)
	assert.Same(t, cfg, Get())
}

func TestLoad_EnvOverride(t *testing.T) {
	root := writeConf(t, testYAML)
	t.Setenv("PHOTOPROOS_ROOT", root)
	t.Setenv("PHOTOPROOS_HTTP__LISTEN_ADDR", ":9090")
	withSecrets(t, fakeSecrets{
		"secret/photoproos#db_password":  "x",
		"secret/photoproos#grant_secret": "y",
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTP.ListenAddr)
}

func TestLoad_MissingSecretFails(t *testing.T) {
	root := writeConf(t, testYAML)
	t.Setenv("PHOTOPROOS_ROOT", root)
	withSecrets(t, fakeSecrets{})

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_ValidationRejectsUnknownDriver(t *testing.T) {
	root := writeConf(t, `
http:
  listen_addr: ":8080"
  platform_hosts: ["localhost"]
database:
  driver: sqlite
  dsn: "file.db"
`)
	t.Setenv("PHOTOPROOS_ROOT", root)

	_, err := Load()
	require.Error(t, err)
}
