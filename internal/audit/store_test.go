// internal/audit/store_test.go
//
// Unit-tests for the audit store using sqlmock.

package audit

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/welcome/internal/form"
	"github.com/yanizio/welcome/internal/requestinfo"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { raw.Close() })
	return New(sqlx.NewDb(raw, "mysql")), mock
}

func TestRecord_WithRequestInfo(t *testing.T) {
	s, mock := newMock(t)
	at := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	ctx := requestinfo.WithInfo(context.Background(), &requestinfo.RequestInfo{
		UA:  requestinfo.UA{Browser: "Chrome", Device: "Desktop"},
		Geo: requestinfo.Geo{IP: net.ParseIP("203.0.113.9"), CountryISO: "US"},
	})

	mock.ExpectExec("INSERT INTO login_attempt").
		WithArgs("user@example.com", "success", int64(2000), "203.0.113.9", "US", "Chrome", "Desktop", false, at).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.Record(ctx, form.Record{
		Email:       "user@example.com",
		Outcome:     "success",
		SubmittedAt: at,
		Duration:    2 * time.Second,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestRecord_WithoutRequestInfo(t *testing.T) {
	s, mock := newMock(t)
	at := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO login_attempt").
		WithArgs("user@example.com", "network_failure", int64(5), "", "", "", "", false, at).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.Record(context.Background(), form.Record{
		Email:       "user@example.com",
		Outcome:     "network_failure",
		SubmittedAt: at,
		Duration:    5 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}
