// Command etl loads the delivery customers and orders CSV files into a
// relational database and derives the per-customer summary table.
//
//	etl -config configs/etl.yaml -stage all
//
// The import stage writes the cleaned customers and orders tables; the
// aggregate stage reads them back, filters order outliers and writes
// customer_data. The process exits 1 when any step fails.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/madhukaudana/Data-Engineer-Practical/internal/config"
	"github.com/madhukaudana/Data-Engineer-Practical/internal/logger"
	"github.com/madhukaudana/Data-Engineer-Practical/internal/metrics"
	"github.com/madhukaudana/Data-Engineer-Practical/internal/metrics/datadog"
	"github.com/madhukaudana/Data-Engineer-Practical/internal/metrics/prompush"

	// register all backends with the storage factory.
	// config specifies which to use but we need to build in support for all of them.
	_ "github.com/madhukaudana/Data-Engineer-Practical/internal/storage/all"
)

type options struct {
	cfgPath        string
	stage          string
	validate       bool
	metricsBackend string
	pushGatewayURL string
	datadogAddr    string
	logMode        string
	verbose        bool
}

func main() {
	os.Exit(realMain(os.Args[1:], os.Stderr, os.Getenv))
}

// realMain parses args, runs the requested stage and returns the exit code.
func realMain(args []string, stderr io.Writer, getenv func(string) string) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}

	cfg, err := config.Load(opts.cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return 1
	}

	issues := config.Validate(cfg)
	for _, iss := range issues {
		fmt.Fprintf(stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		fmt.Fprintf(stderr, "configuration is invalid: %s\n", opts.cfgPath)
		return 1
	}
	if opts.validate {
		fmt.Fprintf(stderr, "configuration is valid: %s\n", opts.cfgPath)
		return 0
	}

	base, err := logger.New(opts.logMode, opts.verbose)
	if err != nil {
		fmt.Fprintf(stderr, "init logger: %v\n", err)
		return 1
	}
	defer base.Sync()
	log := base.With("run_id", uuid.NewString(), "job", cfg.Job, "stage", opts.stage)

	if flush := setupMetrics(opts, cfg.Job, getenv, log); flush != nil {
		defer flush()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r, err := newRunner(cfg, log)
	if err != nil {
		log.Error("init failed", "error", err)
		return 1
	}

	start := time.Now()
	log.Info("run started", "backend", cfg.DB.Kind, "batch_size", cfg.Runtime.BatchSize)
	if err := r.run(ctx, opts.stage); err != nil {
		log.Error("run failed", "elapsed", time.Since(start).Truncate(time.Millisecond), "error", err)
		return 1
	}
	log.Info("completed", "elapsed", time.Since(start).Truncate(time.Millisecond))
	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("etl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.cfgPath, "config", "configs/etl.yaml", "run config path (.yaml, .yml or .json)")
	fs.StringVar(&o.stage, "stage", StageAll, "stage to run: import, aggregate or all")
	fs.BoolVar(&o.validate, "validate", false, "validate the configuration and exit")
	fs.StringVar(&o.metricsBackend, "metrics-backend", "none", "metrics backend: none, pushgateway or datadog (overrides env METRICS_BACKEND)")
	fs.StringVar(&o.pushGatewayURL, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	fs.StringVar(&o.datadogAddr, "datadog-addr", "", "DogStatsD address (overrides env DD_DOGSTATSD_ADDR)")
	fs.StringVar(&o.logMode, "log-mode", "dev", "log encoding: dev (console) or prod (JSON)")
	fs.BoolVar(&o.verbose, "v", false, "enable debug logs")
	return o, fs.Parse(args)
}

// setupMetrics installs the selected backend and returns its flush func, or
// nil when metrics stay disabled. Init failures fall back to the no-op backend.
func setupMetrics(o options, job string, getenv func(string) string, log *logger.Logger) func() {
	pick := func(flagVal, env, def string) string {
		if flagVal != "" {
			return flagVal
		}
		if v := getenv(env); v != "" {
			return v
		}
		return def
	}

	name := o.metricsBackend
	if name == "" || name == "none" {
		name = pick("", "METRICS_BACKEND", "none")
	}

	var (
		b   metrics.Backend
		err error
	)
	switch name {
	case "pushgateway":
		url := pick(o.pushGatewayURL, "PUSHGATEWAY_URL", "http://localhost:9091")
		b, err = prompush.NewBackend(job, url)
		log = log.With("pushgateway_url", url)
	case "datadog":
		addr := pick(o.datadogAddr, "DD_DOGSTATSD_ADDR", "127.0.0.1:8125")
		b, err = datadog.NewBackend(datadog.Config{Addr: addr, Namespace: "delivery.", GlobalTags: []string{"job:" + job}})
		log = log.With("datadog_addr", addr)
	case "none":
		log.Debug("metrics disabled")
		return nil
	default:
		log.Warn("unknown metrics backend; metrics disabled", "backend", name)
		return nil
	}
	if err != nil {
		log.Warn("metrics backend init failed; metrics disabled", "backend", name, "error", err)
		return nil
	}

	metrics.SetBackend(b)
	log.Info("metrics enabled", "backend", name)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Warn("metrics flush failed", "backend", name, "error", err)
		}
	}
}
