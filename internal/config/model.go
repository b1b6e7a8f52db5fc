// internal/config/model.go
//
// Typed configuration model for the publication service.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                              – dotenv values,
//   • `conf/global.yaml`                           – primary static file,
//   • `PHOTOPROOS_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *before* unmarshalling, so the model never
// stores Vault URIs, only plain strings.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Durations are parsed from strings such as "10s" by Koanf's default
//     decode hooks.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
//
// PlatformHosts lists the hosts that serve slug routes
// (`/portfolio/{slug}`).  Any other Host header is treated as a custom
// domain and rewritten to the domain route.
type HTTP struct {
	ListenAddr    string        `koanf:"listen_addr"    validate:"required,hostname_port"`
	ForceHTTPS    bool          `koanf:"force_https"`
	PlatformHosts []string      `koanf:"platform_hosts" validate:"required,min=1,dive,required"`
	ReadTimeout   time.Duration `koanf:"read_timeout"`
	WriteTimeout  time.Duration `koanf:"write_timeout"`
	IdleTimeout   time.Duration `koanf:"idle_timeout"`
}

//
// Database section
//

// Database holds the DSN template and its secret.
//
// The *template* (`DSN`) is kept in YAML so operators can tweak host,
// port, or flags without touching Vault.  It must contain one `%s` verb
// that receives `Password`, which normally comes from Vault.
type Database struct {
	Driver   string `koanf:"driver"   validate:"required,oneof=mysql pgx"`
	DSN      string `koanf:"dsn"      validate:"required"`
	Password string `koanf:"password"`
	MaxOpen  int    `koanf:"max_open" validate:"gte=0"`
	MaxIdle  int    `koanf:"max_idle" validate:"gte=0"`
}

//
// Publish section
//

// Publish tunes the public website pipeline.
//
//   - GrantSecret switches gate cookies from the plain "granted" value to
//     signed tokens.  Leave empty for plain grants.
//   - CSRFKey signs the hidden token on HTML gate and contact forms.
//     Empty generates a random key at start, so tokens die on restart.
//   - CacheTTL enables the read-through site cache.  Zero disables it.
//   - GeoIPDB points at a GeoLite2-City file used to stamp leads with a
//     country.  Empty skips the lookup.
type Publish struct {
	GrantSecret     string        `koanf:"grant_secret"`
	CSRFKey         string        `koanf:"csrf_key"`
	CacheTTL        time.Duration `koanf:"cache_ttl"         validate:"gte=0"`
	CacheMaxEntries int           `koanf:"cache_max_entries" validate:"gte=0"`
	GeoIPDB         string        `koanf:"geoip_db"`
	BaseURL         string        `koanf:"base_url"          validate:"omitempty,url"`
}

//
// Log section
//

// Log controls the file logger.
type Log struct {
	Dir   string `koanf:"dir"`
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // PHOTOPROOS_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Publish  Publish  `koanf:"publish"`
	Log      Log      `koanf:"log"`
	Paths    Paths    `koanf:"-"`
}

// applyDefaults fills zero values that YAML may omit.
func (c *Config) applyDefaults() {
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 10 * time.Second
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 15 * time.Second
	}
	if c.HTTP.IdleTimeout == 0 {
		c.HTTP.IdleTimeout = 60 * time.Second
	}
	if c.Database.MaxOpen == 0 {
		c.Database.MaxOpen = 15
	}
	if c.Database.MaxIdle == 0 {
		c.Database.MaxIdle = 5
	}
	if c.Publish.CacheMaxEntries == 0 {
		c.Publish.CacheMaxEntries = 500
	}
	if c.Log.Dir == "" {
		c.Log.Dir = "logs"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
