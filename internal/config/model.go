// internal/config/model.go
//
// Typed configuration model for Welcome.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                           – dotenv values,
//   • `conf/global.yaml`                        – primary static file,
//   • `WELCOME_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *before* unmarshalling, so the model never
// stores Vault references, only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.  Koanf ignores `yaml`
//     tags unless configured otherwise.
//   • Durations accept Go syntax ("2s", "30m").
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.  Zero timeouts fall back to the
// server package defaults.
type HTTP struct {
	ListenAddr      string        `koanf:"listen_addr"      validate:"required,hostname_port"`
	ForceHTTPS      bool          `koanf:"force_https"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"gte=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"gte=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"gte=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gte=0"`
	Debug           bool          `koanf:"debug"` // mount operator modules such as /debug
}

//
// Log section
//

// Log controls the zap logger.
type Log struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

//
// Login section
//

// Login tunes the login form.
//
// SubmitDelay is the pause of the built-in stub handler.  SubmitTimeout
// bounds each attempt (0 disables it).  CSRFKey signs form tokens; when
// empty a random key is generated at boot, which invalidates open pages on
// restart.
type Login struct {
	SubmitDelay   time.Duration `koanf:"submit_delay"   validate:"gte=0"`
	SubmitTimeout time.Duration `koanf:"submit_timeout" validate:"gte=0"`
	CSRFKey       string        `koanf:"csrf_key"       validate:"omitempty,min=32"`
	MaxForms      int           `koanf:"max_forms"      validate:"gte=0"`
	FormIdleTTL   time.Duration `koanf:"form_idle_ttl"  validate:"gte=0"`
}

//
// Database section
//

// Database holds the optional audit trail DSN.  Leave it empty to run
// without persistence.  The DSN usually carries a password, so operators
// typically set it to a `vault:` reference.
type Database struct {
	AuditDSN string `koanf:"audit_dsn"`
}

//
// GeoIP section
//

// GeoIP points at an optional MaxMind GeoLite2-City database.
type GeoIP struct {
	DBPath string `koanf:"db_path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.  The loader
// discovers `Root` (repo root or WELCOME_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Log      Log      `koanf:"log"`
	Login    Login    `koanf:"login"`
	Database Database `koanf:"database"`
	GeoIP    GeoIP    `koanf:"geoip"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}

// Defaults applied to zero values after unmarshal.
const (
	DefaultListenAddr  = ":8080"
	DefaultSubmitDelay = 2 * time.Second
	DefaultMaxForms    = 10_000
	DefaultFormIdleTTL = 30 * time.Minute
)

func (c *Config) applyDefaults() {
	if c.HTTP.ListenAddr == "" {
		c.HTTP.ListenAddr = DefaultListenAddr
	}
	if c.Login.SubmitDelay == 0 {
		c.Login.SubmitDelay = DefaultSubmitDelay
	}
	if c.Login.MaxForms == 0 {
		c.Login.MaxForms = DefaultMaxForms
	}
	if c.Login.FormIdleTTL == 0 {
		c.Login.FormIdleTTL = DefaultFormIdleTTL
	}
}
