// internal/vault/vault.go
//
// Secret references for configuration.
//
// Context
// -------
//   - The config loader lets any string value be a reference of the form
//     `vault:<mount>/<path>#<key>`, for example the database password or
//     the grant-cookie secret.  ParseRef validates that shape; Client
//     fetches the value from a KV-v2 engine.
//   - A Client keeps its token alive in the background for as long as the
//     boot context lives and remembers values it was asked to cache.
//
// Environment expectations
// ------------------------
//   - VAULT_ADDR   – scheme and host of the Vault server.
//   - VAULT_TOKEN  – initial token (falls back to ~/.vault-token).
package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"
)

// Prefix marks a config value as a Vault reference.
const Prefix = "vault:"

// ErrBadRef reports a reference that is not `vault:<mount>/<path>#<key>`.
var ErrBadRef = errors.New("vault: reference must look like vault:<mount>/<path>#<key>")

/*──────────────────────────── references ───────────────────────────────────*/

// Ref names one key of one KV-v2 secret.
type Ref struct {
	Mount string // KV engine mount, e.g. "secret"
	Path  string // secret path below the mount
	Key   string
}

// IsRef reports whether s is meant as a Vault reference.
func IsRef(s string) bool { return strings.HasPrefix(s, Prefix) }

// ParseRef splits `vault:secret/photoproos/db#password`.
func ParseRef(s string) (Ref, error) {
	if !IsRef(s) {
		return Ref{}, ErrBadRef
	}
	full, key, ok := strings.Cut(strings.TrimPrefix(s, Prefix), "#")
	if !ok || key == "" {
		return Ref{}, ErrBadRef
	}
	mount, path, _ := strings.Cut(full, "/")
	if mount == "" || path == "" {
		return Ref{}, ErrBadRef
	}
	return Ref{Mount: mount, Path: path, Key: key}, nil
}

func (r Ref) String() string { return Prefix + r.Mount + "/" + r.Path + "#" + r.Key }

/*──────────────────────────── client ───────────────────────────────────────*/

// Client is safe for concurrent use.  Zero value is invalid.
type Client struct {
	api *vault.Client
	log *zap.Logger

	mu    sync.RWMutex
	cache map[Ref]entry
}

type entry struct {
	val string
	exp time.Time
}

// New builds a client from the environment and starts token renewal
// bound to ctx.
func New(ctx context.Context, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.L()
	}
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault: read environment: %w", err)
	}
	api, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault: new client: %w", err)
	}

	c := &Client{api: api, log: log.Named("vault"), cache: map[Ref]entry{}}
	go c.keepAlive(ctx)
	return c, nil
}

// Resolve fetches the value a `vault:` reference points at.
func (c *Client) Resolve(ctx context.Context, ref string, ttl time.Duration) (string, error) {
	r, err := ParseRef(ref)
	if err != nil {
		return "", err
	}
	return c.get(ctx, r, ttl)
}

// GetKV fetches key from the KV-v2 secret at secretPath ("<mount>/<path>").
// If ttl > 0 the value is remembered for that long.
func (c *Client) GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error) {
	return c.Resolve(ctx, Prefix+secretPath+"#"+key, ttl)
}

func (c *Client) get(ctx context.Context, r Ref, ttl time.Duration) (string, error) {
	if ttl > 0 {
		c.mu.RLock()
		e, ok := c.cache[r]
		c.mu.RUnlock()
		if ok && time.Now().Before(e.exp) {
			return e.val, nil
		}
	}

	sec, err := c.api.KVv2(r.Mount).Get(ctx, r.Path)
	if err != nil {
		return "", fmt.Errorf("vault: read %s/%s: %w", r.Mount, r.Path, err)
	}
	val, ok := sec.Data[r.Key].(string)
	if !ok {
		return "", fmt.Errorf("vault: %s is missing or not a string", r)
	}

	if ttl > 0 {
		c.mu.Lock()
		c.cache[r] = entry{val: val, exp: time.Now().Add(ttl)}
		c.mu.Unlock()
	}
	return val, nil
}

/*──────────────────────────── token renewal ────────────────────────────────*/

// keepAlive renews the token until ctx ends.  Each round returns how long
// to wait before the next.
func (c *Client) keepAlive(ctx context.Context) {
	for ctx.Err() == nil {
		sleep(ctx, c.renewRound(ctx))
	}
}

func (c *Client) renewRound(ctx context.Context) time.Duration {
	sec, err := c.api.Auth().Token().RenewSelfWithContext(ctx, 0)
	switch {
	case err != nil:
		c.log.Warn("token renew failed", zap.Error(err))
		return 30 * time.Second
	case sec == nil || sec.Auth == nil || !sec.Auth.Renewable:
		c.log.Info("token is not renewable")
		return time.Hour
	}

	w, err := c.api.NewLifetimeWatcher(&vault.LifetimeWatcherInput{Secret: sec})
	if err != nil {
		c.log.Warn("lifetime watcher", zap.Error(err))
		return 30 * time.Second
	}
	go w.Start()
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return 0
		case err := <-w.DoneCh():
			if err != nil {
				c.log.Warn("token renewal stopped", zap.Error(err))
			}
			return 15 * time.Second
		case ev := <-w.RenewCh():
			if ev != nil && ev.Secret != nil && ev.Secret.Auth != nil {
				c.log.Debug("token renewed", zap.Int("ttl_seconds", ev.Secret.Auth.LeaseDuration))
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
