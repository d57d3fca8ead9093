// Package config defines the run configuration for the delivery ETL: where
// the input CSV files live, how their columns map onto the customer and order
// tables, which database receives the results, and a handful of policy knobs.
//
// A configuration is loaded from a JSON or YAML file (selected by extension)
// and may be overridden from the environment, 12-factor style:
//
//	db:
//	  kind: mysql
//	  host: localhost
//	  port: 3306
//	  user: root
//	  name: delivery
//	inputs:
//	  customers:
//	    path: data/customers.csv
//	    columns: [customer_id, name]
//	    rename: {name: customer_name}
//
// There is no process-wide configuration: callers load a Config once and pass
// the relevant sections to each component at construction.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default values applied by ApplyDefaults.
const (
	DefaultJob            = "delivery_etl"
	DefaultBatchSize      = 500
	DefaultOutlierColumn  = "total_amount"
	DefaultCustomersTable = "customers"
	DefaultOrdersTable    = "orders"
	DefaultAggregateTable = "customer_data"
)

// Duplicate policies for Clean.DuplicatePolicy.
const (
	DuplicateKeepFirst    = "keep-first"
	DuplicateKeepLast     = "keep-last"
	DuplicateMostComplete = "most-complete"
)

// Storage error policies understood by the CLI.
const (
	OnStorageErrorContinue = "continue"
	OnStorageErrorAbort    = "abort"
)

// Config is the top-level document decoded from a configuration file.
type Config struct {
	// Job labels logs and metrics for this run.
	Job string `json:"job" yaml:"job"`

	DB        DB        `json:"db" yaml:"db"`
	Inputs    Inputs    `json:"inputs" yaml:"inputs"`
	Clean     Clean     `json:"clean" yaml:"clean"`
	Aggregate Aggregate `json:"aggregate" yaml:"aggregate"`
	Runtime   Runtime   `json:"runtime" yaml:"runtime"`
	Tables    Tables    `json:"tables" yaml:"tables"`
}

// DB describes the target relational store. For network backends the
// discrete fields are required; DSN, when set, is used verbatim instead.
type DB struct {
	// Kind selects the storage backend: mysql, postgres, mssql or sqlite.
	Kind     string            `json:"kind" yaml:"kind"`
	Host     string            `json:"host" yaml:"host"`
	Port     int               `json:"port" yaml:"port"`
	User     string            `json:"user" yaml:"user"`
	Password string            `json:"password" yaml:"password"`
	Name     string            `json:"name" yaml:"name"`
	Params   map[string]string `json:"params" yaml:"params"`
	DSN      string            `json:"dsn" yaml:"dsn"`
}

// Inputs lists the delimited files read by the import stage.
type Inputs struct {
	Customers Input `json:"customers" yaml:"customers"`
	Orders    Input `json:"orders" yaml:"orders"`
}

// Input configures one delimited file. Columns are the source headers to
// keep; Rename maps a source header to its target column name.
type Input struct {
	Path     string            `json:"path" yaml:"path"`
	Columns  []string          `json:"columns" yaml:"columns"`
	Rename   map[string]string `json:"rename" yaml:"rename"`
	Comma    string            `json:"comma" yaml:"comma"`
	Encoding string            `json:"encoding" yaml:"encoding"`
}

// Clean tunes the validator/cleaner.
type Clean struct {
	// DateLayouts are tried in order when coercing date columns.
	DateLayouts []string `json:"date_layouts" yaml:"date_layouts"`

	// DropOrphanOrders removes orders whose customer_id does not appear in
	// the cleaned customer table.
	DropOrphanOrders bool `json:"drop_orphan_orders" yaml:"drop_orphan_orders"`

	// DuplicatePolicy picks the surviving row among rows sharing a key:
	// keep-first, keep-last or most-complete.
	DuplicatePolicy string `json:"duplicate_policy" yaml:"duplicate_policy"`
}

// Aggregate tunes the customer aggregate stage.
type Aggregate struct {
	OutlierColumn string `json:"outlier_column" yaml:"outlier_column"`

	// FailOnNull stops the run before customer_data is written when the
	// joined output still contains nulls. When false the condition is only
	// logged.
	FailOnNull bool `json:"fail_on_null" yaml:"fail_on_null"`
}

// Runtime controls batching and the storage failure policy.
type Runtime struct {
	BatchSize      int    `json:"batch_size" yaml:"batch_size"`
	OnStorageError string `json:"on_storage_error" yaml:"on_storage_error"`
}

// Tables names the three destination tables.
type Tables struct {
	Customers string `json:"customers" yaml:"customers"`
	Orders    string `json:"orders" yaml:"orders"`
	Aggregate string `json:"customer_data" yaml:"customer_data"`
}

// Load reads the configuration at path, applies defaults and then
// environment overrides from the process environment.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Decode(b, filepath.Ext(path))
	if err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	cfg.ApplyEnv(os.Getenv)
	cfg.ApplyDefaults()
	return cfg, nil
}

// Decode parses b as YAML when ext is ".yaml" or ".yml" and as JSON
// otherwise. Unknown JSON fields are rejected.
func Decode(b []byte, ext string) (Config, error) {
	var cfg Config
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, err
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// ApplyDefaults fills zero-valued fields with their documented defaults.
func (c *Config) ApplyDefaults() {
	if strings.TrimSpace(c.Job) == "" {
		c.Job = DefaultJob
	}
	if c.DB.Kind == "" {
		c.DB.Kind = "mysql"
	}
	if c.DB.Port == 0 {
		c.DB.Port = defaultPort(c.DB.Kind)
	}
	if c.Runtime.BatchSize == 0 {
		c.Runtime.BatchSize = DefaultBatchSize
	}
	if c.Runtime.OnStorageError == "" {
		c.Runtime.OnStorageError = OnStorageErrorContinue
	}
	if c.Clean.DuplicatePolicy == "" {
		c.Clean.DuplicatePolicy = DuplicateKeepFirst
	}
	if c.Aggregate.OutlierColumn == "" {
		c.Aggregate.OutlierColumn = DefaultOutlierColumn
	}
	if c.Tables.Customers == "" {
		c.Tables.Customers = DefaultCustomersTable
	}
	if c.Tables.Orders == "" {
		c.Tables.Orders = DefaultOrdersTable
	}
	if c.Tables.Aggregate == "" {
		c.Tables.Aggregate = DefaultAggregateTable
	}
}

// ApplyEnv overrides DB and runtime settings from ETL_* variables looked up
// through getenv. Unset or malformed values leave the field untouched.
func (c *Config) ApplyEnv(getenv func(string) string) {
	str := func(k string, dst *string) {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			*dst = v
		}
	}
	num := func(k string, dst *int) {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			if i, err := strconv.Atoi(v); err == nil {
				*dst = i
			}
		}
	}

	str("ETL_DB_KIND", &c.DB.Kind)
	str("ETL_DB_HOST", &c.DB.Host)
	num("ETL_DB_PORT", &c.DB.Port)
	str("ETL_DB_USER", &c.DB.User)
	// Passwords may legitimately contain surrounding spaces.
	if v := getenv("ETL_DB_PASSWORD"); v != "" {
		c.DB.Password = v
	}
	str("ETL_DB_NAME", &c.DB.Name)
	str("ETL_DB_DSN", &c.DB.DSN)
	num("ETL_BATCH_SIZE", &c.Runtime.BatchSize)
}

// CommaRune returns the configured delimiter rune or 0 for the parser default.
func (in Input) CommaRune() rune {
	if in.Comma == "" {
		return 0
	}
	return []rune(in.Comma)[0]
}

func defaultPort(kind string) int {
	switch kind {
	case "mysql":
		return 3306
	case "postgres":
		return 5432
	case "mssql":
		return 1433
	default:
		return 0
	}
}
