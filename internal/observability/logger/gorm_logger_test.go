package logger

import (
	"errors"
	"testing"

	gormlogger "gorm.io/gorm/logger"
)

func TestParseGormLogLevel(t *testing.T) {
	cases := []struct {
		in   string
		want gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{" WARN ", gormlogger.Warn},
		{"", gormlogger.Warn},
		{"verbose", gormlogger.Warn},
	}
	for _, tc := range cases {
		if got := ParseGormLogLevel(tc.in); got != tc.want {
			t.Fatalf("ParseGormLogLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestOperationFromSQL(t *testing.T) {
	cases := []struct {
		sql  string
		want string
	}{
		{"SELECT * FROM students WHERE school_id = ?", "SELECT"},
		{"  insert into payments (id) values (?)", "INSERT"},
		{"UPDATE schools SET subscription_status = ?", "UPDATE"},
		{"DELETE FROM guardians WHERE id = ?", "DELETE"},
		{"WITH due AS (SELECT id FROM subscriptions) SELECT * FROM due", "SELECT"},
		{"", "UNKNOWN"},
		{"PRAGMA foreign_keys", "UNKNOWN"},
	}
	for _, tc := range cases {
		if got := operationFromSQL(tc.sql); got != tc.want {
			t.Fatalf("operationFromSQL(%q) = %q, want %q", tc.sql, got, tc.want)
		}
	}
}

func TestGormLoggerSkipsRecordNotFoundByDefault(t *testing.T) {
	l := NewGormLogger(DefaultGormLoggerConfig())
	if l.shouldLogError(gormlogger.ErrRecordNotFound) {
		t.Fatal("record-not-found should not be logged with default config")
	}
	if !l.shouldLogError(errors.New("connection reset")) {
		t.Fatal("real errors must be logged")
	}

	l = NewGormLogger(GormLoggerConfig{Level: gormlogger.Error, LogRecordNotFound: true})
	if !l.shouldLogError(gormlogger.ErrRecordNotFound) {
		t.Fatal("record-not-found should be logged when enabled")
	}
}

func TestGormLoggerLogModeCopies(t *testing.T) {
	base := NewGormLogger(DefaultGormLoggerConfig())
	raised := base.LogMode(gormlogger.Info).(*GormLogger)
	if raised.cfg.Level != gormlogger.Info {
		t.Fatalf("LogMode level = %v, want info", raised.cfg.Level)
	}
	if base.cfg.Level != gormlogger.Warn {
		t.Fatalf("LogMode mutated receiver: %v", base.cfg.Level)
	}
}
