package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/madhukaudana/Data-Engineer-Practical/internal/config"
)

func TestRealMain_EmitsLoadableSnippet(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	p := filepath.Join(dir, "order.csv")
	if err := os.WriteFile(p, []byte("id,customer_id,total_amount,created_at\n1,7,10.5,2024-01-02\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var stdout, stderr bytes.Buffer
	if code := realMain([]string{"-path", p, "-role", "orders"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit = %d, want 0\nstderr: %s", code, stderr.String())
	}
	if !strings.Contains(stderr.String(), "created_at") || !strings.Contains(stderr.String(), "date") {
		t.Fatalf("column table missing created_at/date:\n%s", stderr.String())
	}

	cfg, err := config.Decode(stdout.Bytes(), ".yaml")
	if err != nil {
		t.Fatalf("Decode snippet: %v\n%s", err, stdout.String())
	}
	in := cfg.Inputs.Orders
	if in.Path != p || len(in.Columns) != 4 || in.Rename["created_at"] != "order_date" {
		t.Fatalf("orders input = %+v", in)
	}
}

func TestRealMain_UnmappedExitsNonZero(t *testing.T) {
	t.Parallel()
	p := filepath.Join(t.TempDir(), "customers.csv")
	if err := os.WriteFile(p, []byte("customer_id,email\n1,a@b.c\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	var stdout, stderr bytes.Buffer
	if code := realMain([]string{"-path", p, "-role", "customers"}, &stdout, &stderr); code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "customer_name") {
		t.Fatalf("stderr does not name customer_name:\n%s", stderr.String())
	}
}

func TestRealMain_RequiresPath(t *testing.T) {
	t.Parallel()
	var stdout, stderr bytes.Buffer
	if code := realMain(nil, &stdout, &stderr); code != 2 {
		t.Fatalf("exit = %d, want 2", code)
	}
}
