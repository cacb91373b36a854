// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
	"github.com/stockparfait/quandl/quandl"
	"github.com/stockparfait/quandl/table"

	toml "github.com/pelletier/go-toml/v2"
)

type Flags struct {
	Cache    string // default: ~/.quandl
	LogLevel logging.Level
	// Exactly one of databases, datasets, metadata, data or requests must be
	// present.
	Databases bool
	Datasets  string // database to list the datasets of
	Metadata  string // DATABASE/DATASET
	Data      string // DATABASE/DATASET
	Requests  string // TOML file with [[request]] descriptors
	// Request options.
	Start       string
	End         string
	Limit       int
	Rows        int
	ColumnIndex int
	Descending  bool
	MaxPages    int
	PageSize    int
	// Output options.
	CSV         bool // dump CSV format; default: text.
	Describe    bool // print the summary of numeric columns instead of the data
	PrintRows   int  // max. rows to print; 0 = all
	MaxColWidth int  // for text output only
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	fs := flag.NewFlagSet("quandl", flag.ExitOnError)
	fs.StringVar(&flags.Cache, "cache",
		filepath.Join(os.Getenv("HOME"), ".quandl"),
		"configuration path")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")
	fs.BoolVar(&flags.Databases, "databases", false, "list all databases")
	fs.StringVar(&flags.Datasets, "datasets", "", "list datasets in the database")
	fs.StringVar(&flags.Metadata, "metadata", "", "print metadata of DATABASE/DATASET")
	fs.StringVar(&flags.Data, "data", "", "print time series of DATABASE/DATASET")
	fs.StringVar(&flags.Requests, "requests", "", "TOML file with a list of requests")
	fs.StringVar(&flags.Start, "start", "", "start date YYYY-MM-DD for -data")
	fs.StringVar(&flags.End, "end", "", "end date YYYY-MM-DD for -data")
	fs.IntVar(&flags.Limit, "limit", 0, "limit the number of rows for -data")
	fs.IntVar(&flags.Rows, "rows", 0, "number of rows for -data")
	fs.IntVar(&flags.ColumnIndex, "column-index", 0, "download only this column for -data")
	fs.BoolVar(&flags.Descending, "desc", false, "descending order of rows for -data")
	fs.IntVar(&flags.MaxPages, "max-pages", 0, "max. pages for -databases; 0 = default")
	fs.IntVar(&flags.PageSize, "page-size", 0, "page size for -databases; 0 = default")
	fs.BoolVar(&flags.CSV, "csv", false, "print table in CSV format; default: text")
	fs.BoolVar(&flags.Describe, "describe", false, "print summary of numeric columns")
	fs.IntVar(&flags.PrintRows, "print-rows", 0, "max. rows to print; 0 = all")
	fs.IntVar(&flags.MaxColWidth, "width", 0, "max. column width in text mode; 0 = unlimited")

	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}
	kinds := 0
	for _, present := range []bool{
		flags.Databases, flags.Datasets != "", flags.Metadata != "",
		flags.Data != "", flags.Requests != "",
	} {
		if present {
			kinds++
		}
	}
	if kinds != 1 {
		return nil, errors.Reason(
			"expected exactly one of -databases, -datasets, -metadata, -data or -requests")
	}
	return &flags, nil
}

type Config struct {
	Key string `toml:"key"` // user key for Quandl
	URL string `toml:"url"` // optional server URL
}

func decodeTOML(filePath string, v any) error {
	f, err := os.Open(filePath)
	if err != nil {
		return errors.Annotate(err, "failed to open %s", filePath)
	}
	defer f.Close()

	if err := toml.NewDecoder(f).Decode(v); err != nil {
		return errors.Annotate(err, "failed to decode %s", filePath)
	}
	return nil
}

func parseConfig(dir string) (*Config, error) {
	filePath := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(filePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			sample := `key = "YourSecretQuandlKey"
`
			return nil, errors.Annotate(err,
				"config file '%s' does not exist.\nPlease create config file containing:\n%s",
				filePath, sample)
		}
		return nil, errors.Annotate(err,
			"cannot check config file for existence: '%s'", filePath)
	}
	var c Config
	if err := decodeTOML(filePath, &c); err != nil {
		return nil, errors.Annotate(err, "failed to read config")
	}
	if c.URL == "" {
		c.URL = quandl.URL
	}
	return &c, nil
}

// Batch of requests in a TOML file.
type Batch struct {
	Requests []quandl.Descriptor `toml:"request"`
}

func splitCode(s string) (string, string, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Reason("expected DATABASE/DATASET, got '%s'", s)
	}
	return parts[0], parts[1], nil
}

// descriptors to execute according to the flags.
func descriptors(flags *Flags) ([]quandl.Descriptor, error) {
	if flags.Requests != "" {
		var b Batch
		if err := decodeTOML(flags.Requests, &b); err != nil {
			return nil, errors.Annotate(err, "failed to read requests")
		}
		return b.Requests, nil
	}
	d := quandl.Descriptor{
		Start:       flags.Start,
		End:         flags.End,
		Limit:       flags.Limit,
		Rows:        flags.Rows,
		ColumnIndex: flags.ColumnIndex,
		Descending:  flags.Descending,
		MaxPages:    flags.MaxPages,
		PageSize:    flags.PageSize,
	}
	var err error
	switch {
	case flags.Databases:
		d.Operation = quandl.OpDatabaseListing
	case flags.Datasets != "":
		d.Operation = quandl.OpDatasetListing
		d.Database = flags.Datasets
	case flags.Metadata != "":
		d.Operation = quandl.OpMetadata
		d.Database, d.Dataset, err = splitCode(flags.Metadata)
	case flags.Data != "":
		d.Operation = quandl.OpTimeSeries
		d.Database, d.Dataset, err = splitCode(flags.Data)
	}
	if err != nil {
		return nil, err
	}
	return []quandl.Descriptor{d}, nil
}

func keyHeader(op quandl.Operation) string {
	switch op {
	case quandl.OpTimeSeries:
		return "Date"
	case quandl.OpDatasetListing:
		return "Code"
	}
	return "ID"
}

func printTable(d table.Data, op quandl.Operation, flags *Flags, w io.Writer) error {
	p := table.Params{
		Rows:        flags.PrintRows,
		MaxColWidth: flags.MaxColWidth,
		KeyHeader:   keyHeader(op),
	}
	if flags.Describe {
		d = d.Describe()
		p.KeyHeader = "Stat"
	}
	if flags.CSV {
		if err := d.WriteCSV(w, p); err != nil {
			return errors.Annotate(err, "failed to print CSV")
		}
		return nil
	}
	if err := d.WriteText(w, p); err != nil {
		return errors.Annotate(err, "failed to print text")
	}
	return nil
}

func printData(ctx context.Context, flags *Flags, w io.Writer) error {
	config, err := parseConfig(flags.Cache)
	if err != nil {
		return errors.Annotate(err, "failed to parse config")
	}
	q, err := quandl.NewWithURL(config.URL, config.Key)
	if err != nil {
		return errors.Annotate(err, "failed to create client")
	}
	ds, err := descriptors(flags)
	if err != nil {
		return errors.Annotate(err, "invalid request")
	}
	for i, d := range ds {
		r, err := d.Request()
		if err != nil {
			return errors.Annotate(err, "invalid request #%d", i)
		}
		data, err := q.Read(ctx, r)
		if err != nil {
			return errors.Annotate(err, "failed to read %s", r)
		}
		logging.Infof(ctx, "%s: %d rows, %d columns", r, data.RowCount(), data.ColCount())
		if i > 0 && !flags.CSV {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return errors.Annotate(err, "failed to write")
			}
		}
		if err := printTable(data, d.Operation, flags, w); err != nil {
			return errors.Annotate(err, "failed to print %s", r)
		}
	}
	return nil
}

func main() {
	ctx := context.Background()
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		ctx = logging.Use(ctx, logging.DefaultGoLogger(logging.Info))
		logging.Errorf(ctx, "failed to parse flags: %s", err.Error())
		os.Exit(1)
	}
	ctx = logging.Use(ctx, logging.DefaultGoLogger(flags.LogLevel))

	if err := printData(ctx, flags, os.Stdout); err != nil {
		logging.Errorf(ctx, "%s", err.Error())
		os.Exit(1)
	}
}
