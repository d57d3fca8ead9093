package config

import (
	"fmt"
	"strings"

	"github.com/madhukaudana/Data-Engineer-Practical/internal/parser/csv"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced to users but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding.
//
// Path is a dotted path into the config (e.g. "db.host",
// "inputs.orders.columns[2]").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate performs static checks over cfg after defaults are applied. It
// never mutates cfg.
func Validate(cfg Config) []Issue {
	var issues []Issue
	if strings.TrimSpace(cfg.Job) == "" {
		issues = append(issues, Issue{SeverityError, "job", "job must not be empty; it labels logs and metrics"})
	}
	issues = append(issues, validateDB(cfg.DB)...)
	issues = append(issues, validateInput("inputs.customers", cfg.Inputs.Customers, "customer_id")...)
	issues = append(issues, validateInput("inputs.orders", cfg.Inputs.Orders, "order_id", "customer_id", "total_amount", "order_date")...)
	switch cfg.Clean.DuplicatePolicy {
	case DuplicateKeepFirst, DuplicateKeepLast, DuplicateMostComplete:
	default:
		issues = append(issues, Issue{SeverityError, "clean.duplicate_policy", fmt.Sprintf("unknown policy %q; use keep-first, keep-last or most-complete", cfg.Clean.DuplicatePolicy)})
	}
	issues = append(issues, validateRuntime(cfg.Runtime)...)
	issues = append(issues, validateTables(cfg.Tables)...)
	return issues
}

func validateDB(d DB) []Issue {
	var issues []Issue
	switch d.Kind {
	case "mysql", "postgres", "mssql":
		if d.DSN != "" {
			return nil
		}
		if strings.TrimSpace(d.Host) == "" {
			issues = append(issues, Issue{SeverityError, "db.host", "host is required for " + d.Kind})
		}
		if d.Port <= 0 || d.Port > 65535 {
			issues = append(issues, Issue{SeverityError, "db.port", fmt.Sprintf("port %d is out of range", d.Port)})
		}
		if strings.TrimSpace(d.User) == "" {
			issues = append(issues, Issue{SeverityError, "db.user", "user is required for " + d.Kind})
		}
		if strings.TrimSpace(d.Name) == "" {
			issues = append(issues, Issue{SeverityError, "db.name", "database name is required"})
		}
		if d.Password == "" {
			issues = append(issues, Issue{SeverityWarning, "db.password", "password is empty"})
		}
	case "sqlite":
		if d.DSN == "" && strings.TrimSpace(d.Name) == "" {
			issues = append(issues, Issue{SeverityError, "db.name", "sqlite needs a database file path in db.name or db.dsn"})
		}
	case "":
		issues = append(issues, Issue{SeverityError, "db.kind", "kind is required"})
	default:
		issues = append(issues, Issue{SeverityError, "db.kind", fmt.Sprintf("unsupported kind %q; use mysql, postgres, mssql or sqlite", d.Kind)})
	}
	return issues
}

// validateInput checks that path and columns are set and that every target
// column in required is produced by the column list after renaming.
func validateInput(path string, in Input, required ...string) []Issue {
	var issues []Issue
	if strings.TrimSpace(in.Path) == "" {
		issues = append(issues, Issue{SeverityError, path + ".path", "path is required"})
	}
	if len(in.Columns) == 0 {
		issues = append(issues, Issue{SeverityError, path + ".columns", "at least one column is required"})
		return issues
	}

	seen := make(map[string]bool, len(in.Columns))
	targets := make(map[string]bool, len(in.Columns))
	for i, c := range in.Columns {
		if strings.TrimSpace(c) == "" {
			issues = append(issues, Issue{SeverityError, fmt.Sprintf("%s.columns[%d]", path, i), "column name must not be empty"})
			continue
		}
		if seen[c] {
			issues = append(issues, Issue{SeverityError, fmt.Sprintf("%s.columns[%d]", path, i), fmt.Sprintf("duplicate column %q", c)})
		}
		seen[c] = true
		target := c
		if r, ok := in.Rename[c]; ok && r != "" {
			target = r
		}
		targets[target] = true
	}
	for src := range in.Rename {
		if !seen[src] {
			issues = append(issues, Issue{SeverityWarning, path + ".rename." + src, "rename source is not a selected column"})
		}
	}
	for _, want := range required {
		if !targets[want] {
			issues = append(issues, Issue{SeverityError, path + ".columns", fmt.Sprintf("no selected column maps to %q", want)})
		}
	}
	if in.Comma != "" && len([]rune(in.Comma)) != 1 {
		issues = append(issues, Issue{SeverityError, path + ".comma", "comma must be a single character"})
	}
	if !csv.SupportedEncoding(in.Encoding) {
		issues = append(issues, Issue{SeverityError, path + ".encoding", fmt.Sprintf("unsupported encoding %q", in.Encoding)})
	}
	return issues
}

func validateRuntime(r Runtime) []Issue {
	var issues []Issue
	if r.BatchSize <= 0 {
		issues = append(issues, Issue{SeverityError, "runtime.batch_size", "batch_size must be positive"})
	}
	switch r.OnStorageError {
	case OnStorageErrorContinue, OnStorageErrorAbort:
	default:
		issues = append(issues, Issue{SeverityError, "runtime.on_storage_error", fmt.Sprintf("unknown policy %q; use continue or abort", r.OnStorageError)})
	}
	return issues
}

func validateTables(t Tables) []Issue {
	names := map[string]string{
		"tables.customers":     t.Customers,
		"tables.orders":        t.Orders,
		"tables.customer_data": t.Aggregate,
	}
	var issues []Issue
	used := map[string]string{}
	for _, p := range []string{"tables.customers", "tables.orders", "tables.customer_data"} {
		n := names[p]
		if strings.TrimSpace(n) == "" {
			issues = append(issues, Issue{SeverityError, p, "table name must not be empty"})
			continue
		}
		if other, ok := used[n]; ok {
			issues = append(issues, Issue{SeverityError, p, fmt.Sprintf("table %q is also used by %s", n, other)})
		}
		used[n] = p
	}
	return issues
}
