// cmd/web/main.go
//
// Welcome – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load env vars (jail-wide file → .env fallback).
//
//  2. Connect to Vault when VAULT_ADDR is set, so `vault:` config
//     references can be resolved.
//
//  3. Load and validate config, then start the rotating logger (tees to
//     console when running in a TTY).
//
//  4. Open the GeoLite2 database and the audit database when configured,
//     and build the submission handler chain:
//     Delay stub → WithTimeout → Recorded (audit).
//
//  5. Build the form registry and CSRF signer, initialise every component,
//     run its migrations, and mount its routes.
//
//  6. Expose Prometheus /metrics and /healthz, plus operator modules when
//     http.debug is on.
//
//  7. Serve until SIGINT/SIGTERM, evicting idle forms in the background.
//     SIGHUP reloads config and applies the new log level.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/welcome/internal/audit"
	"github.com/yanizio/welcome/internal/component"
	"github.com/yanizio/welcome/internal/config"
	"github.com/yanizio/welcome/internal/database"
	"github.com/yanizio/welcome/internal/form"
	"github.com/yanizio/welcome/internal/logger"
	"github.com/yanizio/welcome/internal/middleware"
	"github.com/yanizio/welcome/internal/module"
	"github.com/yanizio/welcome/internal/mount"
	"github.com/yanizio/welcome/internal/requestinfo"
	"github.com/yanizio/welcome/internal/server"
	"github.com/yanizio/welcome/internal/vault"

	_ "github.com/yanizio/welcome/components/login" // login card + API
	_ "github.com/yanizio/welcome/modules/debug"    // operator module
)

const serverEnvPath = "/usr/local/etc/welcome/global.env"

// loadEnv prefers the jail-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	// Bootstrap console logger until the file logger is online.
	if boot, err := zap.NewProduction(); err == nil {
		zap.ReplaceGlobals(boot)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("welcome: %v", err)
	}
}

// appEnv hands shared resources to components.
type appEnv struct {
	forms *mount.Registry
	csrf  *form.CSRF
}

func (e appEnv) Forms() *mount.Registry { return e.forms }
func (e appEnv) CSRF() *form.CSRF       { return e.csrf }

func run(ctx context.Context) error {
	//
	// ── 1.  Secrets and config ──────────────────────────────────────────
	//
	var secrets config.SecretResolver
	if os.Getenv("VAULT_ADDR") != "" {
		vc, err := vault.New(ctx, zap.S())
		if err != nil {
			return fmt.Errorf("vault: %w", err)
		}
		secrets = vc
	}

	cfg, err := config.Load(ctx, secrets)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logOut, err := logger.New(cfg.Paths.Root, cfg.Log.Level, runningInTTY())
	if err != nil {
		return fmt.Errorf("start logger: %w", err)
	}
	defer func() { _ = logOut.Sync() }()

	//
	// ── 2.  Request enrichment and persistence ──────────────────────────
	//
	if err := requestinfo.InitGeo(cfg.GeoIP.DBPath); err != nil {
		return err
	}
	defer requestinfo.CloseGeo()

	handler := form.WithTimeout(form.Delay(cfg.Login.SubmitDelay), cfg.Login.SubmitTimeout)

	var auditDB *sqlx.DB
	if cfg.Database.AuditDSN != "" {
		logOut.Infow("connecting to audit DB")
		auditDB, err = database.Open(ctx, cfg.Database.AuditDSN)
		if err != nil {
			return fmt.Errorf("audit DB: %w", err)
		}
		defer auditDB.Close()
		handler = form.Recorded(handler, audit.New(auditDB))
		logOut.Infow("audit DB online")
	}

	//
	// ── 3.  Forms and CSRF ──────────────────────────────────────────────
	//
	key := []byte(cfg.Login.CSRFKey)
	if len(key) == 0 {
		if key, err = form.RandomKey(); err != nil {
			return err
		}
		logOut.Warnw("login.csrf_key not set, using a random key; open pages expire on restart")
	}
	csrf, err := form.NewCSRF(key)
	if err != nil {
		return err
	}

	forms := mount.New(func() *form.Controller {
		return form.NewController(handler, form.WithLogger(logOut))
	}, mount.Options{MaxForms: cfg.Login.MaxForms, IdleTTL: cfg.Login.FormIdleTTL})

	//
	// ── 4.  Router ──────────────────────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(
		chimw.RequestID,
		middleware.RequestLogger(logOut),
		chimw.Recoverer,
		middleware.Metrics,
		middleware.ForceHTTPS(cfg.HTTP.ForceHTTPS),
		middleware.Security,
		requestinfo.Enrich,
	)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if auditDB != nil {
			if err := auditDB.PingContext(req.Context()); err != nil {
				http.Error(w, "audit db unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusNoContent)
	})

	env := appEnv{forms: forms, csrf: csrf}
	for _, c := range component.All() {
		if in, ok := c.(component.Initializer); ok {
			if err := in.Init(env); err != nil {
				return fmt.Errorf("init component %s: %w", c.Name(), err)
			}
		}
		if auditDB != nil {
			if err := database.Migrate(ctx, auditDB, c.Migrations()); err != nil {
				return fmt.Errorf("migrate component %s: %w", c.Name(), err)
			}
		}
		r.Mount("/", c.Routes())
		logOut.Infow("component mounted", "component", c.Name())
	}

	if cfg.HTTP.Debug {
		for _, p := range module.Paths() {
			r.Get(p, module.Lookup(p))
			logOut.Warnw("debug module mounted", "path", p)
		}
	}

	//
	// ── 5.  Serve ───────────────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, r, server.Timeouts{
		Read:  cfg.HTTP.ReadTimeout,
		Write: cfg.HTTP.WriteTimeout,
		Idle:  cfg.HTTP.IdleTimeout,
	})
	err = server.Run(ctx, srv, cfg.HTTP.ShutdownTimeout, forms.Run, reloadOnHUP)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logOut.Infow("shutdown complete")
	return nil
}

// reloadOnHUP re-reads config on SIGHUP.  Only the log level is applied
// live; other changes need a restart.
func reloadOnHUP(ctx context.Context) error {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-hup:
			cfg, err := config.Reload(ctx)
			if err != nil {
				zap.S().Errorw("config reload failed", "err", err)
				continue
			}
			if err := logger.SetLevel(cfg.Log.Level); err != nil {
				zap.S().Errorw("apply log level", "err", err)
				continue
			}
			zap.S().Infow("config reloaded", "log_level", cfg.Log.Level)
		}
	}
}
