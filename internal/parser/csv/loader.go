// Package csv loads delimited files into records.Table values. Parsing goes
// through a gota dataframe with type detection disabled: every cell arrives
// as a string or as nil when missing, and typing is left to the cleaner.
package csv

import (
	"bytes"
	"context"
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/madhukaudana/Data-Engineer-Practical/internal/datasource"
	"github.com/madhukaudana/Data-Engineer-Practical/internal/datasource/file"
	"github.com/madhukaudana/Data-Engineer-Practical/internal/logger"
	"github.com/madhukaudana/Data-Engineer-Practical/pkg/records"
)

// MissingValues are the cell spellings treated as missing. The set follows
// the pandas read_csv defaults.
var MissingValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a",
	"nan", "null",
}

// Spec selects and renames the columns of one input file.
type Spec struct {
	// Columns are the source headers to keep; empty keeps every header.
	Columns []string
	// Rename maps a source header to its output name. Unmapped headers keep
	// their source name.
	Rename map[string]string
	// Comma is the field delimiter; zero means ','.
	Comma rune
	// Encoding is the input charset; empty means UTF-8.
	Encoding string
}

// FormatError reports an input that does not have the expected shape.
type FormatError struct {
	Path string
	// Column is the requested column that is absent, or empty when the
	// file itself could not be parsed.
	Column string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("csv %s: missing column %q", e.Path, e.Column)
	}
	return fmt.Sprintf("csv %s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Load reads src and returns the selected columns in file order, renamed per
// spec. Any requested column absent from the header is a *FormatError.
func Load(ctx context.Context, src datasource.Source, spec Spec, log *logger.Logger) (records.Table, error) {
	if log == nil {
		log = logger.Nop()
	}
	name := src.Name()

	rc, err := src.Open(ctx)
	if err != nil {
		return records.Table{}, err
	}
	defer rc.Close()

	r, err := decoder(rc, spec.Encoding)
	if err != nil {
		return records.Table{}, &FormatError{Path: name, Err: err}
	}

	comma := spec.Comma
	if comma == 0 {
		comma = ','
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return records.Table{}, &FormatError{Path: name, Err: err}
	}

	// gota refuses a file without data rows, so a bare header is answered
	// here with an empty table.
	header, hasRows, err := peekHeader(body, comma)
	if err != nil {
		return records.Table{}, &FormatError{Path: name, Err: err}
	}
	if !hasRows {
		selected, missing := fileOrder(header, spec.Columns)
		if missing != "" {
			log.Error("csv column missing", "path", name, "column", missing)
			return records.Table{}, &FormatError{Path: name, Column: missing}
		}
		out := records.Table{Columns: renamed(selected, spec.Rename), Rows: []records.Record{}}
		log.Warn("csv has no data rows", "path", name, "columns", out.Columns)
		return out, nil
	}

	df := dataframe.ReadCSV(bytes.NewReader(body),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithDelimiter(comma),
		dataframe.NaNValues(MissingValues),
	)
	if df.Err != nil {
		return records.Table{}, &FormatError{Path: name, Err: df.Err}
	}

	selected, missing := fileOrder(df.Names(), spec.Columns)
	if missing != "" {
		log.Error("csv column missing", "path", name, "column", missing)
		return records.Table{}, &FormatError{Path: name, Column: missing}
	}
	df = df.Select(selected)
	if df.Err != nil {
		return records.Table{}, &FormatError{Path: name, Err: df.Err}
	}

	out := records.Table{Columns: renamed(selected, spec.Rename)}
	for i, col := range selected {
		if dst := out.Columns[i]; dst != col {
			df = df.Rename(dst, col)
		}
	}
	if df.Err != nil {
		return records.Table{}, &FormatError{Path: name, Err: df.Err}
	}

	cols := make([]series.Series, len(out.Columns))
	for j, c := range out.Columns {
		cols[j] = df.Col(c)
	}
	nrow := df.Nrow()
	out.Rows = make([]records.Record, nrow)
	for i := 0; i < nrow; i++ {
		if i%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return records.Table{}, err
			}
		}
		rec := make(records.Record, len(cols))
		for j, s := range cols {
			e := s.Elem(i)
			if e.IsNA() {
				rec[out.Columns[j]] = nil
				continue
			}
			rec[out.Columns[j]] = e.String()
		}
		out.Rows[i] = rec
	}

	log.Info("csv loaded", "path", name, "rows", nrow, "columns", out.Columns)
	return out, nil
}

// LoadFile is Load over a local file.
func LoadFile(ctx context.Context, path string, spec Spec, log *logger.Logger) (records.Table, error) {
	return Load(ctx, file.NewLocal(path), spec, log)
}

// peekHeader reads the header record of body and reports whether at least
// one data record follows it. Malformed data rows are left for gota to
// report.
func peekHeader(body []byte, comma rune) ([]string, bool, error) {
	cr := stdcsv.NewReader(bytes.NewReader(body))
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, false, errors.New("no header row")
	}
	if err != nil {
		return nil, false, err
	}
	if _, err := cr.Read(); errors.Is(err, io.EOF) {
		return header, false, nil
	}
	return header, true, nil
}

// renamed maps each column through rename, keeping unmapped names.
func renamed(cols []string, rename map[string]string) []string {
	out := make([]string, len(cols))
	for i, col := range cols {
		out[i] = col
		if to, ok := rename[col]; ok && to != "" {
			out[i] = to
		}
	}
	return out
}

// fileOrder returns the requested columns ordered as they appear in header,
// or the first requested column that header lacks. No request selects the
// whole header.
func fileOrder(header, requested []string) ([]string, string) {
	if len(requested) == 0 {
		return header, ""
	}
	want := make(map[string]bool, len(requested))
	for _, c := range requested {
		want[c] = true
	}
	present := make(map[string]bool, len(header))
	out := make([]string, 0, len(requested))
	for _, h := range header {
		if want[h] && !present[h] {
			out = append(out, h)
		}
		present[h] = true
	}
	for _, c := range requested {
		if !present[c] {
			return nil, c
		}
	}
	return out, ""
}
