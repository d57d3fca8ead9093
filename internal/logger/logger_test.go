package logger

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVs_RedactsCredentials(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core))

	log.Info("connect",
		"db_password", "hunter2",
		"dsn", "root:pw@tcp(x)/y",
		"target", "postgres://etl:hunter2@db:5432/delivery",
		"table", "orders",
	)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["db_password"] != "[REDACTED]" {
		t.Fatalf("db_password = %v, want [REDACTED]", fields["db_password"])
	}
	if fields["dsn"] != "[REDACTED]" {
		t.Fatalf("dsn = %v, want [REDACTED]", fields["dsn"])
	}
	target, _ := fields["target"].(string)
	if strings.Contains(target, "hunter2") {
		t.Fatalf("target = %q, want password masked", target)
	}
	if fields["table"] != "orders" {
		t.Fatalf("table = %v, want orders", fields["table"])
	}
}

func TestWith_CarriesFields(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zapcore.InfoLevel)
	log := FromZap(zap.New(core)).With("run_id", "r-1")

	log.Debug("hidden")
	log.Warn("visible", "rows", 3)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1 (debug filtered)", len(entries))
	}
	if got := entries[0].ContextMap()["run_id"]; got != "r-1" {
		t.Fatalf("run_id = %v, want r-1", got)
	}
}

func TestNop(t *testing.T) {
	t.Parallel()
	// Must not panic.
	Nop().With("k", "v").Error("discarded", "odd")
}
