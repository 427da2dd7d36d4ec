// internal/audit/store.go
//
// Login-attempt audit trail.
//
// Context
// -------
// When `database.audit_dsn` is set, every finished submission is written to
// one row of `login_attempt`:
//
//	login_attempt (id PK, email, outcome, duration_ms, ip, country,
//	               browser, device, is_bot, submitted_at)
//
// The password never reaches this package; form.Record does not carry it.
// Request metadata (IP, UA, country) comes from requestinfo.FromContext, so
// it is present whenever the submit started behind requestinfo.Enrich.
//
// Notes
// -----
// • Store satisfies form.Recorder.
// • Oxford commas, two spaces after periods.
package audit

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/welcome/internal/form"
	"github.com/yanizio/welcome/internal/requestinfo"
)

// Schema is the DDL for the audit table.  It is idempotent.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS login_attempt (
	    id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	    email        VARCHAR(320)    NOT NULL,
	    outcome      VARCHAR(32)     NOT NULL,
	    duration_ms  BIGINT UNSIGNED NOT NULL,
	    ip           VARCHAR(45)     NOT NULL DEFAULT '',
	    country      CHAR(2)         NOT NULL DEFAULT '',
	    browser      VARCHAR(64)     NOT NULL DEFAULT '',
	    device       VARCHAR(16)     NOT NULL DEFAULT '',
	    is_bot       BOOLEAN         NOT NULL DEFAULT FALSE,
	    submitted_at DATETIME(3)     NOT NULL,
	    KEY idx_login_attempt_email (email, submitted_at)
	)`,
}

// Attempt is one row of login_attempt.
type Attempt struct {
	Email       string    `db:"email"`
	Outcome     string    `db:"outcome"`
	DurationMS  int64     `db:"duration_ms"`
	IP          string    `db:"ip"`
	Country     string    `db:"country"`
	Browser     string    `db:"browser"`
	Device      string    `db:"device"`
	IsBot       bool      `db:"is_bot"`
	SubmittedAt time.Time `db:"submitted_at"`
}

// Store writes audit rows.
type Store struct {
	db *sqlx.DB
}

var _ form.Recorder = (*Store)(nil)

// New wraps db.
func New(db *sqlx.DB) *Store { return &Store{db: db} }

// Record inserts one attempt.
func (s *Store) Record(ctx context.Context, rec form.Record) error {
	a := Attempt{
		Email:       rec.Email,
		Outcome:     rec.Outcome,
		DurationMS:  rec.Duration.Milliseconds(),
		SubmittedAt: rec.SubmittedAt,
	}
	if info := requestinfo.FromContext(ctx); info != nil {
		if info.Geo.IP != nil {
			a.IP = info.Geo.IP.String()
		}
		a.Country = info.Geo.CountryISO
		a.Browser = info.UA.Browser
		a.Device = info.UA.Device
		a.IsBot = info.UA.IsBot
	}

	const q = `INSERT INTO login_attempt
	    (email, outcome, duration_ms, ip, country, browser, device, is_bot, submitted_at)
	    VALUES (:email, :outcome, :duration_ms, :ip, :country, :browser, :device, :is_bot, :submitted_at)`
	_, err := s.db.NamedExecContext(ctx, q, a)
	return err
}
