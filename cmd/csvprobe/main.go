// Command csvprobe samples a customers or orders export and prints a starter
// inputs section for the etl config, plus the inferred kind of every column.
//
//	csvprobe -path data/order.csv -role orders
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/madhukaudana/Data-Engineer-Practical/internal/config"
	"github.com/madhukaudana/Data-Engineer-Practical/internal/datasource/file"
	"github.com/madhukaudana/Data-Engineer-Practical/internal/probe"
)

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdout, os.Stderr))
}

func realMain(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("csvprobe", flag.ContinueOnError)
	fs.SetOutput(stderr)
	path := fs.String("path", "", "CSV file to sample")
	role := fs.String("role", probe.RoleOrders, "contract to map onto: customers or orders")
	maxBytes := fs.Int("bytes", probe.DefaultMaxBytes, "number of bytes to sample from the start of the file")
	comma := fs.String("comma", ",", "field delimiter (single character)")
	encoding := fs.String("encoding", "", "input charset, e.g. windows-1250; empty means UTF-8")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *path == "" {
		fmt.Fprintln(stderr, "csvprobe: -path is required")
		return 2
	}
	delim, _ := utf8.DecodeRuneInString(*comma)
	if delim == utf8.RuneError {
		delim = ','
	}

	res, err := probe.Probe(context.Background(), file.NewLocal(*path), probe.Options{
		Role:     *role,
		MaxBytes: *maxBytes,
		Comma:    delim,
		Encoding: *encoding,
	})
	if err != nil {
		fmt.Fprintf(stderr, "csvprobe: %v\n", err)
		return 1
	}

	if err := render(stdout, stderr, *role, res); err != nil {
		fmt.Fprintf(stderr, "csvprobe: %v\n", err)
		return 1
	}
	if len(res.Unmapped) > 0 {
		return 1
	}
	return 0
}

// render writes the config snippet to stdout and the column table to stderr,
// so stdout can be redirected straight into a config file.
func render(stdout, stderr io.Writer, role string, res probe.Result) error {
	tw := tabwriter.NewWriter(stderr, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "HEADER\tKIND\tMISSING\tMAPS TO\n")
	for _, c := range res.Columns {
		target := c.Target
		if target == "" {
			target = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", c.Header, c.Kind, c.Missing, target)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(stderr, "sampled %d row(s)\n", res.Rows)
	for _, u := range res.Unmapped {
		fmt.Fprintf(stderr, "warning: no header maps to %s; add it to columns and rename by hand\n", u)
	}

	snippet := map[string]map[string]config.Input{"inputs": {role: res.Input}}
	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	if err := enc.Encode(snippet); err != nil {
		return err
	}
	return enc.Close()
}
