// internal/config/loader.go
//
// Load merges three layers into one Config, later layers winning:
//
//  1. `<root>/conf/.env`, optional, exported into the process env.
//  2. `<root>/conf/global.yaml`.
//  3. `PHOTOPROOS_*` env vars, "__" separating levels
//     (PHOTOPROOS_PUBLISH__CACHE_TTL → publish.cache_ttl).
//
// String leaves of the form `vault:<mount>/<path>#<key>` are then swapped
// for their secret.  A Vault client is built only when such a leaf exists,
// so local runs need no Vault server.
//
// Boot problems are logged through zap.S() since the file logger is built
// from this very Config.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/vault"
)

const envPrefix = "PHOTOPROOS_"

var current atomic.Pointer[Config]

// SecretSource resolves one KV secret.  *vault.Client satisfies it.
type SecretSource interface {
	GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error)
}

// newSecretSource is swapped in tests.
var newSecretSource = func(ctx context.Context) (SecretSource, error) {
	return vault.New(ctx, zap.L())
}

// Get returns the Config of the last successful Load.
func Get() *Config { return current.Load() }

// Load builds, validates, and publishes the Config.
func Load() (*Config, error) {
	root := findRoot()
	cfg, err := loadFrom(context.Background(), root)
	if err != nil {
		zap.S().Errorw("config rejected", "root", root, "err", err)
		return nil, err
	}
	current.Store(cfg)
	zap.S().Infow("config loaded",
		"root", root,
		"listen_addr", cfg.HTTP.ListenAddr,
		"db_driver", cfg.Database.Driver,
		"signed_grants", cfg.Publish.GrantSecret != "",
		"cache_ttl", cfg.Publish.CacheTTL)
	return cfg, nil
}

func loadFrom(ctx context.Context, root string) (*Config, error) {
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")
	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", yamlPath, err)
	}
	envKey := func(s string) string {
		return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, envPrefix), "__", "."))
	}
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("config: env overlay: %w", err)
	}
	if err := resolveSecrets(ctx, k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.applyDefaults()
	cfg.Paths.Root = root
	if err := validateStruct(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// findRoot honours PHOTOPROOS_ROOT, then the nearest ancestor of the
// working directory holding conf/global.yaml, then <exe>/.. for the
// bin/ install layout.
func findRoot() string {
	if r := os.Getenv(envPrefix + "ROOT"); r != "" {
		return r
	}
	wd, _ := os.Getwd()
	for dir := wd; ; dir = filepath.Dir(dir) {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		if filepath.Dir(dir) == dir {
			break
		}
	}
	if exe, err := os.Executable(); err == nil && filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

func resolveSecrets(ctx context.Context, k *koanf.Koanf) error {
	refs := map[string]vault.Ref{}
	for key, val := range k.All() {
		s, ok := val.(string)
		if !ok || !vault.IsRef(s) {
			continue
		}
		ref, err := vault.ParseRef(s)
		if err != nil {
			return fmt.Errorf("config %s: %w", key, err)
		}
		refs[key] = ref
	}
	if len(refs) == 0 {
		return nil
	}

	src, err := newSecretSource(ctx)
	if err != nil {
		return fmt.Errorf("config: vault client: %w", err)
	}
	for key, ref := range refs {
		secret, err := src.GetKV(ctx, ref.Mount+"/"+ref.Path, ref.Key, 0)
		if err != nil {
			return fmt.Errorf("config %s: %w", key, err)
		}
		if err := k.Set(key, secret); err != nil {
			return fmt.Errorf("config %s: %w", key, err)
		}
	}
	return nil
}

// DSN returns the database DSN with the password filled in.
func (c *Config) DSN() string {
	if c.Database.Password == "" {
		return c.Database.DSN
	}
	return fmt.Sprintf(c.Database.DSN, c.Database.Password)
}
